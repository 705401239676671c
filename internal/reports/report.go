// Package reports computes the read-side aggregates behind the admin
// dashboards. Every result says whether it is live data or the illustrative
// sample shown while the store is still empty.
package reports

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/homescout/homescout-backend/pkg/enums"
)

// Report wraps a result with its provenance.
type Report[T any] struct {
	Data   T    `json:"data"`
	Sample bool `json:"sample"`
}

func live[T any](data T) *Report[T] {
	return &Report[T]{Data: data}
}

func sample[T any](data T) *Report[T] {
	return &Report[T]{Data: data, Sample: true}
}

type EmployeeSales struct {
	EmployeeID  uuid.UUID       `json:"employee_id"`
	DisplayName string          `json:"display_name"`
	SalesCount  int64           `json:"sales_count"`
	TotalValue  decimal.Decimal `json:"total_value"`
}

type LocationStat struct {
	City       string          `json:"city"`
	TotalProps int64           `json:"total_props"`
	AvgPrice   decimal.Decimal `json:"avg_price"`
}

type RoleCount struct {
	Role  enums.Role `json:"role"`
	Count int64      `json:"count"`
}

type DistrictStat struct {
	District   string          `json:"district"`
	Properties int64           `json:"properties"`
	AvgPrice   decimal.Decimal `json:"avg_price"`
}

type MonthRevenue struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
	Sales   int64           `json:"sales"`
}

type StatusCount struct {
	Status enums.PropertyStatus `json:"status"`
	Count  int64                `json:"count"`
}

// WeeklySummary compares the last seven days with the seven before.
// Change fields are whole percentages.
type WeeklySummary struct {
	Revenue          decimal.Decimal `json:"revenue"`
	RevenueChange    int64           `json:"revenue_change"`
	NewProperties    int64           `json:"new_properties"`
	PropertiesChange int64           `json:"properties_change"`
	NewEnquiries     int64           `json:"new_enquiries"`
	EnquiriesChange  int64           `json:"enquiries_change"`
	SalesCompleted   int64           `json:"sales_completed"`
	SalesChange      int64           `json:"sales_change"`
}

func (w WeeklySummary) empty() bool {
	return w.Revenue.IsZero() && w.NewProperties == 0 && w.NewEnquiries == 0 && w.SalesCompleted == 0 &&
		w.RevenueChange == 0 && w.PropertiesChange == 0 && w.EnquiriesChange == 0 && w.SalesChange == 0
}

// FinancialOverview totals every recorded sale. The company keeps its own
// commission; the agent commission comes out of the seller payout.
type FinancialOverview struct {
	SalesCount        int64           `json:"sales_count"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	CompanyCommission decimal.Decimal `json:"company_commission"`
	AgentCommission   decimal.Decimal `json:"agent_commission"`
	SellerPayouts     decimal.Decimal `json:"seller_payouts"`
	NetProfit         decimal.Decimal `json:"net_profit"`
}

type Totals struct {
	Users      int64 `json:"users"`
	Properties int64 `json:"properties"`
	Sales      int64 `json:"sales"`
}

type CityCount struct {
	City  string `json:"city"`
	Count int64  `json:"count"`
}

type AgentTotal struct {
	EmployeeID  uuid.UUID       `json:"employee_id"`
	DisplayName string          `json:"display_name"`
	TotalSales  decimal.Decimal `json:"total_sales"`
	SalesCount  int64           `json:"sales_count"`
}

// Dashboard is the admin landing page.
type Dashboard struct {
	Totals       Totals       `json:"totals"`
	TopLocations []CityCount  `json:"top_locations"`
	TopAgents    []AgentTotal `json:"top_agents"`
}

package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/homescout/homescout-backend/pkg/auth"
	"github.com/homescout/homescout-backend/pkg/enums"
	pkgerrors "github.com/homescout/homescout-backend/pkg/errors"
)

const (
	monthsOfRevenue = 12
	week            = 7 * 24 * time.Hour
	monthLayout     = "2006-01"
)

// Service exposes the admin reports.
type Service interface {
	BestEmployees(ctx context.Context, actor auth.Actor) (*Report[[]EmployeeSales], error)
	TopLocations(ctx context.Context, actor auth.Actor) (*Report[[]LocationStat], error)
	UserDistribution(ctx context.Context, actor auth.Actor) (*Report[[]RoleCount], error)
	DistrictProperties(ctx context.Context, actor auth.Actor) (*Report[[]DistrictStat], error)
	MonthlyRevenue(ctx context.Context, actor auth.Actor) (*Report[[]MonthRevenue], error)
	PropertyStatusStats(ctx context.Context, actor auth.Actor) (*Report[[]StatusCount], error)
	WeeklySummary(ctx context.Context, actor auth.Actor) (*Report[WeeklySummary], error)
	FinancialOverview(ctx context.Context, actor auth.Actor) (*Report[FinancialOverview], error)
	AdminDashboard(ctx context.Context, actor auth.Actor) (*Report[Dashboard], error)
}

type roleCounter interface {
	CountByRole(ctx context.Context) (map[enums.Role]int64, error)
}

// ServiceParams wires the report service.
type ServiceParams struct {
	Repo  *Repository
	Users roleCounter
	// SampleFallback substitutes illustrative data when a report has no live rows.
	SampleFallback bool
	Clock          func() time.Time
}

type service struct {
	repo           *Repository
	users          roleCounter
	sampleFallback bool
	now            func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("role counter required")
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &service{
		repo:           params.Repo,
		users:          params.Users,
		sampleFallback: params.SampleFallback,
		now:            clock,
	}, nil
}

func failed(err error, report string) error {
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load report").
		WithDetails(map[string]any{"report": report})
}

func (s *service) BestEmployees(ctx context.Context, actor auth.Actor) (*Report[[]EmployeeSales], error) {
	if err := actor.Require(enums.RoleAdmin); err != nil {
		return nil, err
	}
	rows, err := s.repo.BestEmployees(ctx)
	if err != nil {
		return nil, failed(err, "best_employees")
	}
	out := make([]EmployeeSales, len(rows))
	for i, row := range rows {
		out[i] = EmployeeSales{
			EmployeeID:  row.EmployeeID,
			DisplayName: row.DisplayName,
			SalesCount:  row.SalesCount,
			TotalValue:  row.TotalValue.Round(2),
		}
	}
	return live(out), nil
}

func (s *service) TopLocations(ctx context.Context, actor auth.Actor) (*Report[[]LocationStat], error) {
	if err := actor.Require(enums.RoleAdmin); err != nil {
		return nil, err
	}
	rows, err := s.repo.cities(ctx, rankingLimit)
	if err != nil {
		return nil, failed(err, "top_locations")
	}
	out := make([]LocationStat, len(rows))
	for i, row := range rows {
		out[i] = LocationStat{City: row.City, TotalProps: row.Total, AvgPrice: row.AvgPrice.Round(2)}
	}
	return live(out), nil
}

func (s *service) UserDistribution(ctx context.Context, actor auth.Actor) (*Report[[]RoleCount], error) {
	if err := actor.Require(enums.RoleAdmin); err != nil {
		return nil, err
	}
	counts, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, failed(err, "user_distribution")
	}
	out := make([]RoleCount, 0, len(counts))
	for role, n := range counts {
		out = append(out, RoleCount{Role: role, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Role < out[j].Role
	})
	return live(out), nil
}

func (s *service) DistrictProperties(ctx context.Context, actor auth.Actor) (*Report[[]DistrictStat], error) {
	if err := actor.Require(enums.RoleAdmin); err != nil {
		return nil, err
	}
	rows, err := s.repo.cities(ctx, districtLimit)
	if err != nil {
		return nil, failed(err, "district_properties")
	}
	if len(rows) == 0 && s.sampleFallback {
		return sample(sampleDistricts()), nil
	}
	out := make([]DistrictStat, len(rows))
	for i, row := range rows {
		out[i] = DistrictStat{District: row.City, Properties: row.Total, AvgPrice: row.AvgPrice.Round(2)}
	}
	return live(out), nil
}

// MonthlyRevenue buckets the last twelve calendar months, current month
// included, oldest first. Months without sales report zero.
func (s *service) MonthlyRevenue(ctx context.Context, actor auth.Actor) (*Report[[]MonthRevenue], error) {
	if err := actor.Require(enums.RoleAdmin); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(monthsOfRevenue - 1), 0)
	rows, err := s.repo.SalesSince(ctx, start)
	if err != nil {
		return nil, failed(err, "monthly_revenue")
	}
	if len(rows) == 0 && s.sampleFallback {
		return sample(sampleMonthlyRevenue()), nil
	}
	if len(rows) == 0 {
		return live([]MonthRevenue{}), nil
	}

	out := make([]MonthRevenue, monthsOfRevenue)
	index := make(map[string]int, monthsOfRevenue)
	for i := range out {
		month := start.AddDate(0, i, 0).Format(monthLayout)
		out[i] = MonthRevenue{Month: month, Revenue: decimal.Zero}
		index[month] = i
	}
	for _, row := range rows {
		i, ok := index[row.SaleDate.UTC().Format(monthLayout)]
		if !ok {
			continue
		}
		out[i].Revenue = out[i].Revenue.Add(row.FinalPrice)
		out[i].Sales++
	}
	return live(out), nil
}

func (s *service) PropertyStatusStats(ctx context.Context, actor auth.Actor) (*Report[[]StatusCount], error) {
	if err := actor.Require(enums.RoleAdmin); err != nil {
		return nil, err
	}
	rows, err := s.repo.PropertyStatusCounts(ctx)
	if err != nil {
		return nil, failed(err, "property_status_stats")
	}
	if rows == nil {
		rows = []StatusCount{}
	}
	return live(rows), nil
}

func (s *service) WeeklySummary(ctx context.Context, actor auth.Actor) (*Report[WeeklySummary], error) {
	if err := actor.Require(enums.RoleAdmin); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	weekStart := now.Add(-week)
	prevStart := weekStart.Add(-week)

	sales, err := s.repo.SalesSince(ctx, prevStart)
	if err != nil {
		return nil, failed(err, "weekly_summary")
	}
	var (
		revenue, prevRevenue decimal.Decimal
		count, prevCount     int64
	)
	for _, sale := range sales {
		at := sale.SaleDate.UTC()
		switch {
		case !at.Before(weekStart) && at.Before(now):
			revenue = revenue.Add(sale.FinalPrice)
			count++
		case !at.Before(prevStart) && at.Before(weekStart):
			prevRevenue = prevRevenue.Add(sale.FinalPrice)
			prevCount++
		}
	}

	props, err := s.repo.PropertiesCreated(ctx, weekStart, now)
	if err != nil {
		return nil, failed(err, "weekly_summary")
	}
	prevProps, err := s.repo.PropertiesCreated(ctx, prevStart, weekStart)
	if err != nil {
		return nil, failed(err, "weekly_summary")
	}
	enquiries, err := s.repo.EnquiriesRaised(ctx, weekStart, now)
	if err != nil {
		return nil, failed(err, "weekly_summary")
	}
	prevEnquiries, err := s.repo.EnquiriesRaised(ctx, prevStart, weekStart)
	if err != nil {
		return nil, failed(err, "weekly_summary")
	}

	summary := WeeklySummary{
		Revenue:          revenue.Round(2),
		RevenueChange:    percentChange(revenue, prevRevenue),
		NewProperties:    props,
		PropertiesChange: percentChange(decimal.NewFromInt(props), decimal.NewFromInt(prevProps)),
		NewEnquiries:     enquiries,
		EnquiriesChange:  percentChange(decimal.NewFromInt(enquiries), decimal.NewFromInt(prevEnquiries)),
		SalesCompleted:   count,
		SalesChange:      percentChange(decimal.NewFromInt(count), decimal.NewFromInt(prevCount)),
	}
	if summary.empty() && s.sampleFallback {
		return sample(sampleWeeklySummary()), nil
	}
	return live(summary), nil
}

// percentChange is the whole-percent growth from previous to current. Growth
// from nothing counts as 100.
func percentChange(current, previous decimal.Decimal) int64 {
	if previous.IsZero() {
		if current.IsZero() {
			return 0
		}
		return 100
	}
	return current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func (s *service) FinancialOverview(ctx context.Context, actor auth.Actor) (*Report[FinancialOverview], error) {
	if err := actor.Require(enums.RoleAdmin); err != nil {
		return nil, err
	}
	totals, err := s.repo.SaleTotals(ctx)
	if err != nil {
		return nil, failed(err, "financial_overview")
	}
	if totals.SalesCount == 0 && s.sampleFallback {
		return sample(sampleFinancialOverview()), nil
	}
	revenue := totals.FinalPrice.Round(2)
	company := totals.CompanyCommission.Round(2)
	agent := totals.EmployeeCommission.Round(2)
	return live(FinancialOverview{
		SalesCount:        totals.SalesCount,
		TotalRevenue:      revenue,
		CompanyCommission: company,
		AgentCommission:   agent,
		SellerPayouts:     revenue.Sub(company).Sub(agent),
		NetProfit:         company,
	}), nil
}

func (s *service) AdminDashboard(ctx context.Context, actor auth.Actor) (*Report[Dashboard], error) {
	if err := actor.Require(enums.RoleAdmin); err != nil {
		return nil, err
	}
	totals, err := s.repo.Totals(ctx)
	if err != nil {
		return nil, failed(err, "admin_dashboard")
	}
	cities, err := s.repo.cities(ctx, dashboardLimit)
	if err != nil {
		return nil, failed(err, "admin_dashboard")
	}
	agents, err := s.repo.TopAgents(ctx)
	if err != nil {
		return nil, failed(err, "admin_dashboard")
	}

	dash := Dashboard{
		Totals:       totals,
		TopLocations: make([]CityCount, len(cities)),
		TopAgents:    make([]AgentTotal, len(agents)),
	}
	for i, c := range cities {
		dash.TopLocations[i] = CityCount{City: c.City, Count: c.Total}
	}
	for i, a := range agents {
		dash.TopAgents[i] = AgentTotal{
			EmployeeID:  a.EmployeeID,
			DisplayName: a.DisplayName,
			TotalSales:  a.TotalValue.Round(2),
			SalesCount:  a.SalesCount,
		}
	}
	return live(dash), nil
}

package reports

import "github.com/shopspring/decimal"

// Illustrative figures shown on an empty install. Never mixed with live rows.

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func sampleDistricts() []DistrictStat {
	return []DistrictStat{
		{District: "Dhaka", Properties: 125, AvgPrice: d(12500000)},
		{District: "Chattogram", Properties: 85, AvgPrice: d(8500000)},
		{District: "Cumilla", Properties: 45, AvgPrice: d(4500000)},
		{District: "Rajshahi", Properties: 38, AvgPrice: d(3800000)},
		{District: "Sylhet", Properties: 32, AvgPrice: d(5200000)},
		{District: "Khulna", Properties: 28, AvgPrice: d(3500000)},
		{District: "Barishal", Properties: 22, AvgPrice: d(3200000)},
		{District: "Rangpur", Properties: 18, AvgPrice: d(2800000)},
		{District: "Mymensingh", Properties: 15, AvgPrice: d(3000000)},
		{District: "Cox's Bazar", Properties: 12, AvgPrice: d(7500000)},
	}
}

func sampleMonthlyRevenue() []MonthRevenue {
	return []MonthRevenue{
		{Month: "2024-01", Revenue: d(32000000), Sales: 18},
		{Month: "2024-02", Revenue: d(28000000), Sales: 15},
		{Month: "2024-03", Revenue: d(35000000), Sales: 22},
		{Month: "2024-04", Revenue: d(41000000), Sales: 25},
		{Month: "2024-05", Revenue: d(45000000), Sales: 28},
		{Month: "2024-06", Revenue: d(38000000), Sales: 21},
		{Month: "2024-07", Revenue: d(42000000), Sales: 24},
		{Month: "2024-08", Revenue: d(48000000), Sales: 27},
		{Month: "2024-09", Revenue: d(51000000), Sales: 30},
		{Month: "2024-10", Revenue: d(49000000), Sales: 29},
		{Month: "2024-11", Revenue: d(53000000), Sales: 31},
		{Month: "2024-12", Revenue: d(62000000), Sales: 35},
	}
}

func sampleWeeklySummary() WeeklySummary {
	return WeeklySummary{
		Revenue:          d(12000000),
		RevenueChange:    12,
		NewProperties:    24,
		PropertiesChange: 8,
		NewEnquiries:     18,
		EnquiriesChange:  -5,
		SalesCompleted:   7,
		SalesChange:      15,
	}
}

func sampleFinancialOverview() FinancialOverview {
	return FinancialOverview{
		SalesCount:        20,
		TotalRevenue:      d(45000000),
		CompanyCommission: d(900000),
		AgentCommission:   d(90000),
		SellerPayouts:     d(44010000),
		NetProfit:         d(900000),
	}
}

package models

import "time"

// Property is one building in the portfolio. Rows are created through the
// inventory endpoint and referenced by monthly financial records; the
// reporting queries never mutate them.
type Property struct {
	ID            int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name          string    `json:"name" gorm:"not null"`
	PurchasePrice float64   `json:"purchase_price" gorm:"not null;default:0"`
	UnitCount     int       `json:"unit_count" gorm:"not null;default:0"`
	CreatedAt     time.Time `json:"created_at"`
}

// MonthlyFinancial is one month of operating results for one property.
// At most one record may exist per (property_id, reporting_month); the
// upsert in the database package enforces that, there is no unique index.
// ReportingMonth is stored as plain YYYY-MM-DD text pinned to the first
// of the month; keeping it text-typed means raw scans and strftime see
// exactly what was written.
type MonthlyFinancial struct {
	ID             int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	PropertyID     int64  `json:"property_id" gorm:"index;not null"`
	ReportingMonth string `json:"reporting_month" gorm:"index;not null"`

	GrossRent   float64 `json:"gross_rent" gorm:"not null;default:0"`
	Vacancy     float64 `json:"vacancy" gorm:"not null;default:0"`
	OtherIncome float64 `json:"other_income" gorm:"not null;default:0"`
	TotalIncome float64 `json:"total_income" gorm:"not null;default:0"`

	RepairsMaintenance float64 `json:"repairs_maintenance" gorm:"not null;default:0"`
	Utilities          float64 `json:"utilities" gorm:"not null;default:0"`
	PropertyManagement float64 `json:"property_management" gorm:"not null;default:0"`
	PropertyTaxes      float64 `json:"property_taxes" gorm:"not null;default:0"`
	Insurance          float64 `json:"insurance" gorm:"not null;default:0"`
	Marketing          float64 `json:"marketing" gorm:"not null;default:0"`
	Administrative     float64 `json:"administrative" gorm:"not null;default:0"`
	TotalExpenses      float64 `json:"total_expenses" gorm:"not null;default:0"`

	NOI         float64 `json:"noi" gorm:"column:noi;not null;default:0"`
	DebtService float64 `json:"debt_service" gorm:"not null;default:0"`
	CashFlow    float64 `json:"cash_flow" gorm:"not null;default:0"`
	Occupancy   float64 `json:"occupancy" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FinancialAggregate is the raw result of the year-to-date reporting
// query. AvgVacancy is the unnormalized AVG(vacancy); callers are
// expected to run it through the metrics normalization.
type FinancialAggregate struct {
	TotalIncome   float64
	TotalExpenses float64
	TotalNOI      float64
	AvgVacancy    float64
	PropertyCount int
}

// PortfolioKPIs is the derived KPI set for one year. It is recomputed on
// every request and never persisted. Field names follow the dashboard's
// established JSON vocabulary.
type PortfolioKPIs struct {
	TotalPortfolioValue float64 `json:"total_portfolio_value"`
	TotalRevenue        float64 `json:"total_revenue"`
	TotalExpenses       float64 `json:"total_expenses"`
	TotalNOI            float64 `json:"total_noi"`
	AvgVacancy          float64 `json:"avg_vacancy"`
	PropertyCount       int     `json:"property_count"`
	NOIVariance         float64 `json:"noi_variance"`
	RevenueVariance     float64 `json:"revenue_variance"`
	PrevNOI             float64 `json:"prev_noi"`
	PrevRevenue         float64 `json:"prev_revenue"`
}

// MonthlyPerformance is one point of the monthly time series for a year,
// aggregated across all properties.
type MonthlyPerformance struct {
	ReportingMonth string  `json:"reporting_month"`
	Revenue        float64 `json:"revenue"`
	Expenses       float64 `json:"expenses"`
	NOI            float64 `json:"noi"`
	CashFlow       float64 `json:"cash_flow"`
	Vacancy        float64 `json:"vacancy"`
}

// PropertyPerformance is the per-property rollup for a year. Properties
// with no financial records for the year still appear, with zero sums
// and MonthsReported == 0.
type PropertyPerformance struct {
	PropertyID     int64   `json:"property_id"`
	PropertyName   string  `json:"property_name"`
	PurchasePrice  float64 `json:"purchase_price"`
	TotalUnits     int     `json:"total_units"`
	TotalRevenue   float64 `json:"total_revenue"`
	TotalExpenses  float64 `json:"total_expenses"`
	TotalNOI       float64 `json:"total_noi"`
	AvgVacancy     float64 `json:"avg_vacancy"`
	MonthsReported int     `json:"months_reported"`
}

// ImportSummary reports the outcome of one CSV batch. Failed counts both
// rows rejected up front (unknown property, bad date) and rows that
// failed during the write.
type ImportSummary struct {
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}

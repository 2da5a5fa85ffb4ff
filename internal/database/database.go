package database

import (
	"database/sql"
	"fmt"
	"reitboard/server/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database wraps one SQLite connection pool. The reporting queries run as
// hand-written SQL against the raw handle; record writes go through gorm
// so every mutation is a single transaction.
type Database struct {
	orm *gorm.DB
	db  *sql.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	orm, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db, err := orm.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, err
	}

	return &Database{orm: orm, db: db}, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

// GetYTDAggregate sums the financial records for one year, restricted to
// reporting months at or before asOfMonth so that two years stay
// period-comparable. Empty result sets come back as zeroes.
func (d *Database) GetYTDAggregate(year, asOfMonth int) (models.FinancialAggregate, error) {
	query := `
        SELECT
            COALESCE(SUM(total_income), 0) as total_revenue,
            COALESCE(SUM(total_expenses), 0) as total_expenses,
            COALESCE(SUM(noi), 0) as total_noi,
            COALESCE(AVG(vacancy), 0) as avg_vacancy,
            COUNT(DISTINCT property_id) as property_count
        FROM monthly_financials
        WHERE CAST(strftime('%Y', reporting_month) AS INTEGER) = ?
        AND CAST(strftime('%m', reporting_month) AS INTEGER) <= ?
    `
	var agg models.FinancialAggregate
	err := d.db.QueryRow(query, year, asOfMonth).Scan(
		&agg.TotalIncome,
		&agg.TotalExpenses,
		&agg.TotalNOI,
		&agg.AvgVacancy,
		&agg.PropertyCount,
	)
	if err != nil {
		return models.FinancialAggregate{}, fmt.Errorf("failed to query YTD aggregate: %w", err)
	}
	return agg, nil
}

// GetPortfolioValue returns the summed purchase price of every property,
// with no year filter.
func (d *Database) GetPortfolioValue() (float64, error) {
	var value float64
	err := d.db.QueryRow(`SELECT COALESCE(SUM(purchase_price), 0) FROM properties`).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("failed to query portfolio value: %w", err)
	}
	return value, nil
}

// GetMonthlyPerformance returns one row per distinct reporting month of
// the given year, ordered month ascending. Vacancy is the raw average;
// normalization happens in the metrics package.
func (d *Database) GetMonthlyPerformance(year int) ([]models.MonthlyPerformance, error) {
	query := `
        SELECT
            reporting_month,
            COALESCE(SUM(total_income), 0) as revenue,
            COALESCE(SUM(total_expenses), 0) as expenses,
            COALESCE(SUM(noi), 0) as noi,
            COALESCE(SUM(cash_flow), 0) as cash_flow,
            COALESCE(AVG(vacancy), 0) as vacancy
        FROM monthly_financials
        WHERE CAST(strftime('%Y', reporting_month) AS INTEGER) = ?
        GROUP BY reporting_month
        ORDER BY reporting_month
    `
	rows, err := d.db.Query(query, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly performance: %w", err)
	}
	defer rows.Close()

	var series []models.MonthlyPerformance
	for rows.Next() {
		var m models.MonthlyPerformance
		err := rows.Scan(
			&m.ReportingMonth,
			&m.Revenue,
			&m.Expenses,
			&m.NOI,
			&m.CashFlow,
			&m.Vacancy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan monthly row: %w", err)
		}
		series = append(series, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly rows: %w", err)
	}
	return series, nil
}

// GetPropertyPerformance returns the per-property rollup for one year.
// The LEFT JOIN keeps properties with no financial records that year;
// their sums scan as zero and months_reported as 0.
func (d *Database) GetPropertyPerformance(year int) ([]models.PropertyPerformance, error) {
	query := `
        SELECT
            p.id,
            p.name,
            p.purchase_price,
            p.unit_count,
            COALESCE(SUM(mf.total_income), 0) as total_revenue,
            COALESCE(SUM(mf.total_expenses), 0) as total_expenses,
            COALESCE(SUM(mf.noi), 0) as total_noi,
            COALESCE(AVG(mf.vacancy), 0) as avg_vacancy,
            COUNT(DISTINCT mf.reporting_month) as months_reported
        FROM properties p
        LEFT JOIN monthly_financials mf ON p.id = mf.property_id
            AND CAST(strftime('%Y', mf.reporting_month) AS INTEGER) = ?
        GROUP BY p.id, p.name, p.purchase_price, p.unit_count
        ORDER BY p.name
    `
	rows, err := d.db.Query(query, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query property performance: %w", err)
	}
	defer rows.Close()

	var rollup []models.PropertyPerformance
	for rows.Next() {
		var r models.PropertyPerformance
		err := rows.Scan(
			&r.PropertyID,
			&r.PropertyName,
			&r.PurchasePrice,
			&r.TotalUnits,
			&r.TotalRevenue,
			&r.TotalExpenses,
			&r.TotalNOI,
			&r.AvgVacancy,
			&r.MonthsReported,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property row: %w", err)
		}
		rollup = append(rollup, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating property rows: %w", err)
	}
	return rollup, nil
}

func (d *Database) GetDB() *sql.DB {
	return d.db
}

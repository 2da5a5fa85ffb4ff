// Package metrics derives the portfolio KPI set, the monthly time
// series, and the per-property rollup from the reporting queries.
package metrics

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"reitboard/server/internal/database"
	"reitboard/server/internal/models"
)

type Calculator struct {
	db     *database.Database
	logger *logrus.Logger
	now    func() time.Time
}

func NewCalculator(db *database.Database, logger *logrus.Logger) *Calculator {
	if logger == nil {
		logger = logrus.New()
	}
	return &Calculator{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// SetClock overrides the calculator's notion of "now". Used by tests to
// pin the year-to-date month cutoff.
func (c *Calculator) SetClock(now func() time.Time) {
	c.now = now
}

// NormalizeVacancy corrects a stored vacancy average into a percentage
// in [0,100]. Values above 100 are divided by 100: some upstream feeds
// have written basis-point-scaled values into this column, and dividing
// recovers a plausible percentage. This is a data correction, not a
// business rule; keep it in step with whatever produces the column.
func NormalizeVacancy(v float64) float64 {
	if v > 100 {
		v = v / 100
	}
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// variance returns the percent change from prev to current, or 0 when
// there is no prior baseline to compare against.
func variance(current, prev float64) float64 {
	if prev == 0 {
		return 0
	}
	return (current - prev) / prev * 100
}

// PortfolioKPIs computes the KPI set for one year: year-to-date sums,
// the portfolio purchase value, and year-over-year variances against the
// same months of the prior year. The month cutoff is always the current
// calendar month so the two years stay period-comparable.
func (c *Calculator) PortfolioKPIs(year int) (models.PortfolioKPIs, error) {
	asOfMonth := int(c.now().Month())

	current, err := c.db.GetYTDAggregate(year, asOfMonth)
	if err != nil {
		return models.PortfolioKPIs{}, fmt.Errorf("failed to aggregate year %d: %w", year, err)
	}

	prev, err := c.db.GetYTDAggregate(year-1, asOfMonth)
	if err != nil {
		return models.PortfolioKPIs{}, fmt.Errorf("failed to aggregate year %d: %w", year-1, err)
	}

	portfolioValue, err := c.db.GetPortfolioValue()
	if err != nil {
		return models.PortfolioKPIs{}, err
	}

	kpis := models.PortfolioKPIs{
		TotalPortfolioValue: portfolioValue,
		TotalRevenue:        current.TotalIncome,
		TotalExpenses:       current.TotalExpenses,
		TotalNOI:            current.TotalNOI,
		AvgVacancy:          NormalizeVacancy(current.AvgVacancy),
		PropertyCount:       current.PropertyCount,
		NOIVariance:         variance(current.TotalNOI, prev.TotalNOI),
		RevenueVariance:     variance(current.TotalIncome, prev.TotalIncome),
		PrevNOI:             prev.TotalNOI,
		PrevRevenue:         prev.TotalIncome,
	}

	c.logger.WithFields(logrus.Fields{
		"year":       year,
		"as_of":      asOfMonth,
		"noi":        kpis.TotalNOI,
		"revenue":    kpis.TotalRevenue,
		"vacancy":    kpis.AvgVacancy,
		"prop_count": kpis.PropertyCount,
	}).Debug("Computed portfolio KPIs")

	return kpis, nil
}

// MonthlyPerformance returns the full-year monthly series with each
// month's vacancy normalized the same way as the KPI average.
func (c *Calculator) MonthlyPerformance(year int) ([]models.MonthlyPerformance, error) {
	series, err := c.db.GetMonthlyPerformance(year)
	if err != nil {
		return nil, err
	}
	for i := range series {
		series[i].Vacancy = NormalizeVacancy(series[i].Vacancy)
	}
	return series, nil
}

// PropertyPerformance returns the per-property rollup for one year.
// Every property appears, including those with no reported months.
func (c *Calculator) PropertyPerformance(year int) ([]models.PropertyPerformance, error) {
	rollup, err := c.db.GetPropertyPerformance(year)
	if err != nil {
		return nil, err
	}
	for i := range rollup {
		rollup[i].AvgVacancy = NormalizeVacancy(rollup[i].AvgVacancy)
	}
	return rollup, nil
}

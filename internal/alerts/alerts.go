// Package alerts turns a KPI set into the dashboard's threshold-breach
// messages.
package alerts

import (
	"fmt"

	"reitboard/server/internal/models"
)

const (
	// NOI year-over-year decline that triggers an alert, in percent.
	noiDeclineThreshold = -10.0

	// Vacancy target; averages above it trigger an alert.
	vacancyTarget = 10.0

	// Revenue year-over-year decline that triggers an alert, in percent.
	revenueDeclineThreshold = -5.0
)

// Evaluate checks each threshold independently and returns the breached
// ones in a fixed order: NOI decline, vacancy, revenue decline. An empty
// slice means no alert should be shown.
func Evaluate(kpis models.PortfolioKPIs) []string {
	var alerts []string

	if kpis.NOIVariance < noiDeclineThreshold {
		alerts = append(alerts, fmt.Sprintf(
			"NOI decreased by %.1f%% compared to last year", -kpis.NOIVariance))
	}

	if kpis.AvgVacancy > vacancyTarget {
		alerts = append(alerts, fmt.Sprintf(
			"Average vacancy (%.1f%%) is above 10%% target", kpis.AvgVacancy))
	}

	if kpis.RevenueVariance < revenueDeclineThreshold {
		alerts = append(alerts, fmt.Sprintf(
			"Revenue decreased by %.1f%% compared to last year", -kpis.RevenueVariance))
	}

	return alerts
}

package alerts

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"reitboard/server/internal/models"
)

func TestEvaluate_NoBreaches(t *testing.T) {
	kpis := models.PortfolioKPIs{
		NOIVariance:     2.0,
		AvgVacancy:      5.0,
		RevenueVariance: 1.0,
	}
	assert.Empty(t, Evaluate(kpis))
}

func TestEvaluate_TwoBreachesInOrder(t *testing.T) {
	kpis := models.PortfolioKPIs{
		NOIVariance:     -15,
		AvgVacancy:      12,
		RevenueVariance: -2,
	}

	got := Evaluate(kpis)
	assert.Equal(t, []string{
		"NOI decreased by 15.0% compared to last year",
		"Average vacancy (12.0%) is above 10% target",
	}, got)
}

func TestEvaluate_AllBreaches(t *testing.T) {
	kpis := models.PortfolioKPIs{
		NOIVariance:     -30.25,
		AvgVacancy:      18.7,
		RevenueVariance: -7.5,
	}

	got := Evaluate(kpis)
	assert.Equal(t, []string{
		"NOI decreased by 30.2% compared to last year",
		"Average vacancy (18.7%) is above 10% target",
		"Revenue decreased by 7.5% compared to last year",
	}, got)
}

func TestEvaluate_ThresholdsAreExclusive(t *testing.T) {
	// Values exactly at a threshold do not alert.
	kpis := models.PortfolioKPIs{
		NOIVariance:     -10,
		AvgVacancy:      10,
		RevenueVariance: -5,
	}
	assert.Empty(t, Evaluate(kpis))
}

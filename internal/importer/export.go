package importer

import (
	"encoding/csv"
	"io"
	"strconv"

	"reitboard/server/internal/models"
)

// WriteMonthlySeries writes the monthly performance table as CSV.
func WriteMonthlySeries(w io.Writer, series []models.MonthlyPerformance) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ReportingMonth", "Revenue", "Expenses", "NOI", "CashFlow", "Vacancy"}); err != nil {
		return err
	}
	for _, m := range series {
		record := []string{
			m.ReportingMonth,
			money(m.Revenue),
			money(m.Expenses),
			money(m.NOI),
			money(m.CashFlow),
			percent(m.Vacancy),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePropertyPerformance writes the per-property rollup as CSV.
func WritePropertyPerformance(w io.Writer, rollup []models.PropertyPerformance) error {
	cw := csv.NewWriter(w)
	header := []string{
		"PropertyID", "PropertyName", "PurchasePrice", "TotalUnits",
		"TotalRevenue", "TotalExpenses", "TotalNOI", "AvgVacancy", "MonthsReported",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rollup {
		record := []string{
			strconv.FormatInt(r.PropertyID, 10),
			r.PropertyName,
			money(r.PurchasePrice),
			strconv.Itoa(r.TotalUnits),
			money(r.TotalRevenue),
			money(r.TotalExpenses),
			money(r.TotalNOI),
			percent(r.AvgVacancy),
			strconv.Itoa(r.MonthsReported),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteKPISummary writes the KPI set as a one-row CSV.
func WriteKPISummary(w io.Writer, kpis models.PortfolioKPIs) error {
	cw := csv.NewWriter(w)
	header := []string{
		"TotalPortfolioValue", "TotalRevenue", "TotalExpenses", "TotalNOI",
		"AvgVacancy", "PropertyCount", "NOIVariance", "RevenueVariance",
		"PrevNOI", "PrevRevenue",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	record := []string{
		money(kpis.TotalPortfolioValue),
		money(kpis.TotalRevenue),
		money(kpis.TotalExpenses),
		money(kpis.TotalNOI),
		percent(kpis.AvgVacancy),
		strconv.Itoa(kpis.PropertyCount),
		percent(kpis.NOIVariance),
		percent(kpis.RevenueVariance),
		money(kpis.PrevNOI),
		money(kpis.PrevRevenue),
	}
	if err := cw.Write(record); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

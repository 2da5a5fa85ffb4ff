package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reitboard/server/internal/models"
)

func setupTestDB(t *testing.T) *Database {
	db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.RunMigrations())
	return db
}

func seedProperty(t *testing.T, db *Database, name string, price float64, units int) int64 {
	p := &models.Property{Name: name, PurchasePrice: price, UnitCount: units}
	require.NoError(t, db.CreateProperty(p))
	require.NotZero(t, p.ID)
	return p.ID
}

func seedFinancial(t *testing.T, db *Database, propertyID int64, month string, income, expenses, noi, vacancy float64) {
	rec := &models.MonthlyFinancial{
		PropertyID:     propertyID,
		ReportingMonth: month,
		TotalIncome:    income,
		TotalExpenses:  expenses,
		NOI:            noi,
		Vacancy:        vacancy,
	}
	require.NoError(t, db.UpsertMonthlyFinancial(rec))
}

func TestUpsertMonthlyFinancial_InsertThenUpdate(t *testing.T) {
	db := setupTestDB(t)
	propID := seedProperty(t, db, "Maple Court", 1200000, 12)

	first := &models.MonthlyFinancial{
		PropertyID:     propID,
		ReportingMonth: "2024-03-01",
		GrossRent:      10000,
		TotalIncome:    10500,
		TotalExpenses:  4000,
		NOI:            6500,
	}
	require.NoError(t, db.UpsertMonthlyFinancial(first))
	require.NotZero(t, first.ID)

	// Same natural key with new values must update in place.
	second := &models.MonthlyFinancial{
		PropertyID:     propID,
		ReportingMonth: "2024-03-01",
		GrossRent:      11000,
		TotalIncome:    11200,
		TotalExpenses:  4100,
		NOI:            7100,
	}
	require.NoError(t, db.UpsertMonthlyFinancial(second))
	assert.Equal(t, first.ID, second.ID)

	var count int
	err := db.GetDB().QueryRow(
		"SELECT COUNT(*) FROM monthly_financials WHERE property_id = ? AND reporting_month = ?",
		propID, "2024-03-01",
	).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stored, err := db.GetFinancialRecord(first.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 11200.0, stored.TotalIncome)
	assert.Equal(t, 7100.0, stored.NOI)
}

func TestUpsertMonthlyFinancial_ZeroFieldsOverwrite(t *testing.T) {
	db := setupTestDB(t)
	propID := seedProperty(t, db, "Maple Court", 1200000, 12)

	seedFinancial(t, db, propID, "2024-03-01", 10000, 4000, 6000, 5)

	// An update that omits values must write zeroes, not keep the old
	// numbers.
	update := &models.MonthlyFinancial{
		PropertyID:     propID,
		ReportingMonth: "2024-03-01",
		TotalIncome:    9000,
	}
	require.NoError(t, db.UpsertMonthlyFinancial(update))

	stored, err := db.GetFinancialRecord(update.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 9000.0, stored.TotalIncome)
	assert.Equal(t, 0.0, stored.TotalExpenses)
	assert.Equal(t, 0.0, stored.NOI)
	assert.Equal(t, 0.0, stored.Vacancy)
}

func TestDeleteFinancialRecord(t *testing.T) {
	db := setupTestDB(t)
	propID := seedProperty(t, db, "Maple Court", 1200000, 12)

	rec := &models.MonthlyFinancial{PropertyID: propID, ReportingMonth: "2024-01-01", NOI: 100}
	require.NoError(t, db.UpsertMonthlyFinancial(rec))

	found, err := db.DeleteFinancialRecord(rec.ID)
	require.NoError(t, err)
	assert.True(t, found)

	stored, err := db.GetFinancialRecord(rec.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)

	// Deleting again reports not found, not an error.
	found, err = db.DeleteFinancialRecord(rec.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetYTDAggregate(t *testing.T) {
	db := setupTestDB(t)
	propID := seedProperty(t, db, "Maple Court", 1200000, 12)

	seedFinancial(t, db, propID, "2024-01-01", 1000, 800, 200, 4)
	seedFinancial(t, db, propID, "2024-02-01", 1000, 850, 150, 6)
	seedFinancial(t, db, propID, "2024-03-01", 1000, 1050, -50, 8)
	// Outside the cutoff
	seedFinancial(t, db, propID, "2024-04-01", 5000, 1000, 4000, 2)
	// Different year
	seedFinancial(t, db, propID, "2023-01-01", 900, 700, 200, 3)

	agg, err := db.GetYTDAggregate(2024, 3)
	require.NoError(t, err)
	assert.Equal(t, 3000.0, agg.TotalIncome)
	assert.Equal(t, 2700.0, agg.TotalExpenses)
	assert.Equal(t, 300.0, agg.TotalNOI)
	assert.InDelta(t, 6.0, agg.AvgVacancy, 0.0001)
	assert.Equal(t, 1, agg.PropertyCount)
}

func TestGetYTDAggregate_EmptyYear(t *testing.T) {
	db := setupTestDB(t)

	agg, err := db.GetYTDAggregate(2024, 12)
	require.NoError(t, err)
	assert.Equal(t, 0.0, agg.TotalIncome)
	assert.Equal(t, 0.0, agg.TotalExpenses)
	assert.Equal(t, 0.0, agg.TotalNOI)
	assert.Equal(t, 0.0, agg.AvgVacancy)
	assert.Equal(t, 0, agg.PropertyCount)
}

func TestGetPortfolioValue(t *testing.T) {
	db := setupTestDB(t)

	value, err := db.GetPortfolioValue()
	require.NoError(t, err)
	assert.Equal(t, 0.0, value)

	seedProperty(t, db, "Maple Court", 1200000, 12)
	seedProperty(t, db, "Oak Ridge", 800000, 8)

	value, err = db.GetPortfolioValue()
	require.NoError(t, err)
	assert.Equal(t, 2000000.0, value)
}

func TestGetMonthlyPerformance_OrderedByMonth(t *testing.T) {
	db := setupTestDB(t)
	a := seedProperty(t, db, "Maple Court", 1200000, 12)
	b := seedProperty(t, db, "Oak Ridge", 800000, 8)

	seedFinancial(t, db, a, "2024-02-01", 1000, 400, 600, 4)
	seedFinancial(t, db, b, "2024-02-01", 2000, 900, 1100, 8)
	seedFinancial(t, db, a, "2024-01-01", 900, 400, 500, 4)

	series, err := db.GetMonthlyPerformance(2024)
	require.NoError(t, err)
	require.Len(t, series, 2)

	assert.Equal(t, "2024-01-01", series[0].ReportingMonth)
	assert.Equal(t, 900.0, series[0].Revenue)

	assert.Equal(t, "2024-02-01", series[1].ReportingMonth)
	assert.Equal(t, 3000.0, series[1].Revenue)
	assert.Equal(t, 1700.0, series[1].NOI)
	assert.InDelta(t, 6.0, series[1].Vacancy, 0.0001)
}

func TestGetPropertyPerformance_IncludesEmptyProperties(t *testing.T) {
	db := setupTestDB(t)
	active := seedProperty(t, db, "Maple Court", 1200000, 12)
	seedProperty(t, db, "Vacant Lot", 300000, 0)

	seedFinancial(t, db, active, "2024-01-01", 1000, 400, 600, 4)
	seedFinancial(t, db, active, "2024-02-01", 1100, 450, 650, 6)

	rollup, err := db.GetPropertyPerformance(2024)
	require.NoError(t, err)
	require.Len(t, rollup, 2)

	byName := map[string]models.PropertyPerformance{}
	for _, r := range rollup {
		byName[r.PropertyName] = r
	}

	withData := byName["Maple Court"]
	assert.Equal(t, 2100.0, withData.TotalRevenue)
	assert.Equal(t, 1250.0, withData.TotalNOI)
	assert.Equal(t, 2, withData.MonthsReported)
	assert.InDelta(t, 5.0, withData.AvgVacancy, 0.0001)

	// A property with no records for the year still appears, zeroed.
	empty := byName["Vacant Lot"]
	assert.Equal(t, 0.0, empty.TotalRevenue)
	assert.Equal(t, 0.0, empty.TotalNOI)
	assert.Equal(t, 0.0, empty.AvgVacancy)
	assert.Equal(t, 0, empty.MonthsReported)
}

func TestGetPropertyIDs(t *testing.T) {
	db := setupTestDB(t)
	a := seedProperty(t, db, "Maple Court", 1200000, 12)
	b := seedProperty(t, db, "Oak Ridge", 800000, 8)

	known, err := db.GetPropertyIDs()
	require.NoError(t, err)
	assert.True(t, known[a])
	assert.True(t, known[b])
	assert.False(t, known[a+b+100])
}

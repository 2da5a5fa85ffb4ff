// Package importer handles CSV bulk loading of monthly financial
// records and the dashboard's CSV downloads.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"reitboard/server/internal/database"
	"reitboard/server/internal/models"
)

// csvColumns is the expected header, in order. PropertyID and
// ReportingMonth are the row key; everything else defaults to 0 when
// missing or unparseable.
var csvColumns = []string{
	"PropertyID",
	"ReportingMonth",
	"GrossRent",
	"Vacancy",
	"OtherIncome",
	"TotalIncome",
	"RepairsMaintenance",
	"Utilities",
	"PropertyManagement",
	"PropertyTaxes",
	"Insurance",
	"Marketing",
	"Administrative",
	"TotalExpenses",
	"NOI",
	"DebtService",
	"CashFlow",
	"Occupancy",
}

type Importer struct {
	db     *database.Database
	logger *logrus.Logger
}

func NewImporter(db *database.Database, logger *logrus.Logger) *Importer {
	if logger == nil {
		logger = logrus.New()
	}
	return &Importer{db: db, logger: logger}
}

// ImportCSV applies one upsert per input row. Rows referencing an
// unknown property, or carrying an unparseable key, are rejected before
// any write; rows that fail during the write are counted with them. The
// batch never aborts on an individual row.
func (im *Importer) ImportCSV(r io.Reader) (models.ImportSummary, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return models.ImportSummary{}, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns, err := mapHeader(header)
	if err != nil {
		return models.ImportSummary{}, err
	}

	known, err := im.db.GetPropertyIDs()
	if err != nil {
		return models.ImportSummary{}, err
	}

	summary := models.ImportSummary{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}

		rec, err := im.parseRow(record, columns, known)
		if err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}

		if err := im.db.UpsertMonthlyFinancial(rec); err != nil {
			im.logger.WithError(err).WithField("row", line).Error("Failed to import financial record")
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		summary.Succeeded++
	}

	im.logger.WithFields(logrus.Fields{
		"succeeded": summary.Succeeded,
		"failed":    summary.Failed,
	}).Info("CSV import finished")

	return summary, nil
}

// mapHeader resolves each known column name to its position. Column
// matching ignores case and surrounding whitespace; the two key columns
// must be present.
func mapHeader(header []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[strings.ToLower(strings.TrimSpace(name))] = i
	}

	columns := make(map[string]int, len(csvColumns))
	for _, name := range csvColumns {
		if idx, ok := positions[strings.ToLower(name)]; ok {
			columns[name] = idx
		}
	}

	if _, ok := columns["PropertyID"]; !ok {
		return nil, fmt.Errorf("CSV header is missing PropertyID")
	}
	if _, ok := columns["ReportingMonth"]; !ok {
		return nil, fmt.Errorf("CSV header is missing ReportingMonth")
	}
	return columns, nil
}

func (im *Importer) parseRow(record []string, columns map[string]int, known map[int64]bool) (*models.MonthlyFinancial, error) {
	propertyID, err := strconv.ParseInt(cell(record, columns, "PropertyID"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid PropertyID %q", cell(record, columns, "PropertyID"))
	}
	if !known[propertyID] {
		return nil, fmt.Errorf("unknown property %d", propertyID)
	}

	month, err := ParseReportingMonth(cell(record, columns, "ReportingMonth"))
	if err != nil {
		return nil, err
	}

	amount := func(name string) float64 {
		return parseAmount(cell(record, columns, name))
	}

	return &models.MonthlyFinancial{
		PropertyID:         propertyID,
		ReportingMonth:     month,
		GrossRent:          amount("GrossRent"),
		Vacancy:            amount("Vacancy"),
		OtherIncome:        amount("OtherIncome"),
		TotalIncome:        amount("TotalIncome"),
		RepairsMaintenance: amount("RepairsMaintenance"),
		Utilities:          amount("Utilities"),
		PropertyManagement: amount("PropertyManagement"),
		PropertyTaxes:      amount("PropertyTaxes"),
		Insurance:          amount("Insurance"),
		Marketing:          amount("Marketing"),
		Administrative:     amount("Administrative"),
		TotalExpenses:      amount("TotalExpenses"),
		NOI:                amount("NOI"),
		DebtService:        amount("DebtService"),
		CashFlow:           amount("CashFlow"),
		Occupancy:          amount("Occupancy"),
	}, nil
}

func cell(record []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// ParseReportingMonth accepts YYYY-MM-DD or YYYY-MM and pins the result
// to the first of the month, the natural-key granularity.
func ParseReportingMonth(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("missing ReportingMonth")
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		t, err = time.Parse("2006-01", s)
		if err != nil {
			return "", fmt.Errorf("invalid ReportingMonth %q", s)
		}
	}
	return fmt.Sprintf("%04d-%02d-01", t.Year(), int(t.Month())), nil
}

// parseAmount reads a numeric cell, tolerating thousands separators and
// a leading currency sign. Empty or garbled cells become 0, not a
// row-level failure.
func parseAmount(s string) float64 {
	s = strings.TrimSpace(strings.TrimPrefix(s, "$"))
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}

package database

import (
	"fmt"
	"reitboard/server/internal/models"
)

func (d *Database) RunMigrations() error {
	err := d.orm.AutoMigrate(&models.Property{}, &models.MonthlyFinancial{})
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	// Composite index for the natural-key lookup. Deliberately not
	// unique: one-record-per-(property, month) is enforced by the
	// upsert, so inconsistent historical data still loads.
	_, err = d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_financials_property_month
		ON monthly_financials(property_id, reporting_month);
	`)
	if err != nil {
		return err
	}

	_, err = d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_financials_month
		ON monthly_financials(reporting_month);
	`)
	if err != nil {
		return err
	}

	return nil
}

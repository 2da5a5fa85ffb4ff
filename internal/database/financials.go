package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"reitboard/server/internal/models"
)

// financialColumns lists every mutable field of a financial record. The
// update path selects them explicitly so zero values overwrite whatever
// is stored, instead of being skipped as gorm does by default.
var financialColumns = []string{
	"gross_rent",
	"vacancy",
	"other_income",
	"total_income",
	"repairs_maintenance",
	"utilities",
	"property_management",
	"property_taxes",
	"insurance",
	"marketing",
	"administrative",
	"total_expenses",
	"noi",
	"debt_service",
	"cash_flow",
	"occupancy",
	"updated_at",
}

// UpsertMonthlyFinancial writes one financial record keyed by
// (property_id, reporting_month). An existing record for the key is
// updated in place, keeping its identifier; otherwise a new record is
// inserted. The lookup and write share one transaction so a failed call
// leaves no partial state.
func (d *Database) UpsertMonthlyFinancial(rec *models.MonthlyFinancial) error {
	return d.orm.Transaction(func(tx *gorm.DB) error {
		var existing models.MonthlyFinancial
		err := tx.Select("id").
			Where("property_id = ? AND reporting_month = ?", rec.PropertyID, rec.ReportingMonth).
			First(&existing).Error

		switch {
		case err == nil:
			rec.ID = existing.ID
			result := tx.Model(&models.MonthlyFinancial{}).
				Where("id = ?", existing.ID).
				Select(financialColumns).
				Updates(rec)
			if result.Error != nil {
				return fmt.Errorf("failed to update financial record: %w", result.Error)
			}
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			rec.ID = 0
			if err := tx.Create(rec).Error; err != nil {
				return fmt.Errorf("failed to insert financial record: %w", err)
			}
			return nil
		default:
			return fmt.Errorf("failed to look up financial record: %w", err)
		}
	})
}

// DeleteFinancialRecord removes one record by identifier and reports
// whether a record existed.
func (d *Database) DeleteFinancialRecord(id int64) (bool, error) {
	result := d.orm.Delete(&models.MonthlyFinancial{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete financial record: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// GetFinancialRecord returns one record by identifier, or nil when it
// does not exist.
func (d *Database) GetFinancialRecord(id int64) (*models.MonthlyFinancial, error) {
	var rec models.MonthlyFinancial
	err := d.orm.First(&rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get financial record: %w", err)
	}
	return &rec, nil
}

// CreateProperty adds one property to the inventory.
func (d *Database) CreateProperty(p *models.Property) error {
	if err := d.orm.Create(p).Error; err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

// ListProperties returns the full inventory ordered by name.
func (d *Database) ListProperties() ([]models.Property, error) {
	var properties []models.Property
	if err := d.orm.Order("name").Find(&properties).Error; err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return properties, nil
}

// GetPropertyIDs returns the set of known property identifiers, used to
// validate import rows before any write is attempted.
func (d *Database) GetPropertyIDs() (map[int64]bool, error) {
	var ids []int64
	if err := d.orm.Model(&models.Property{}).Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list property ids: %w", err)
	}
	known := make(map[int64]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}
	return known, nil
}

// PropertyExists reports whether a property id is in the inventory.
func (d *Database) PropertyExists(id int64) (bool, error) {
	var count int64
	err := d.orm.Model(&models.Property{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check property: %w", err)
	}
	return count > 0, nil
}

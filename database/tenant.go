package database

import "gorm.io/gorm"

// ForCompany scopes a query to a single tenant. Single-table queries go
// through this scope; joined queries qualify company_id on the driving
// table explicitly since the bare column would be ambiguous.
func ForCompany(companyID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}

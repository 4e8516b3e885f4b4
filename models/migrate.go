package models

import "gorm.io/gorm"

// All returns every persisted model in dependency order
func All() []interface{} {
	return []interface{}{
		&WorkOrder{},
		&Product{},
		&DetachedProduct{},
		&Subassembly{},
		&NestSheet{},
		&Hardware{},
		&Part{},
		&AuditLog{},
	}
}

// AutoMigrate creates or updates the schema for every model
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// WorkOrder is the root unit of manufacturing work
type WorkOrder struct {
	ID           string     `gorm:"primaryKey;size:64" json:"id"`
	Name         string     `gorm:"not null" json:"name"`
	ImportedDate time.Time  `gorm:"not null" json:"imported_date"`
	IsArchived   bool       `gorm:"not null;default:false;index" json:"is_archived"`
	ArchivedDate *time.Time `json:"archived_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the WorkOrder model
func (WorkOrder) TableName() string {
	return "work_orders"
}

// BeforeCreate assigns an id and import timestamp when the importer left them blank
func (w *WorkOrder) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = NewID()
	}
	if w.ImportedDate.IsZero() {
		w.ImportedDate = time.Now().UTC()
	}
	return nil
}

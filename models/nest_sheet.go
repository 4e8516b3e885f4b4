package models

import (
	"time"

	"gorm.io/gorm"
)

// NestSheet groups the parts cut from one raw-material sheet.
type NestSheet struct {
	ID            string     `gorm:"primaryKey;size:64" json:"id"`
	WorkOrderID   string     `gorm:"size:64;not null;index" json:"work_order_id"`
	Name          string     `gorm:"not null" json:"name"`
	Material      string     `json:"material"`
	Barcode       string     `gorm:"size:64;index" json:"barcode"`
	IsProcessed   bool       `gorm:"not null;default:false" json:"is_processed"`
	ProcessedDate *time.Time `json:"processed_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the NestSheet model
func (NestSheet) TableName() string {
	return "nest_sheets"
}

func (n *NestSheet) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = NewID()
	}
	return nil
}

// DisplayStatus is the sheet's own processed state. It is not a rollup of its parts.
func (n NestSheet) DisplayStatus() string {
	if n.IsProcessed {
		return "Processed"
	}
	return "Unprocessed"
}

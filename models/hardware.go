package models

import (
	"time"

	"gorm.io/gorm"
)

// Hardware is a purchased item shipped with a work order, optionally tied to a product.
type Hardware struct {
	ID                string     `gorm:"primaryKey;size:64" json:"id"`
	WorkOrderID       string     `gorm:"size:64;not null;index" json:"work_order_id"`
	ProductID         *string    `gorm:"size:64;index" json:"product_id,omitempty"`
	ItemNumber        string     `gorm:"size:32" json:"item_number"`
	Name              string     `gorm:"not null" json:"name"`
	Quantity          int        `gorm:"not null;default:1" json:"quantity"`
	Status            Status     `gorm:"size:16;not null;default:'Pending'" json:"status"`
	StatusUpdatedDate *time.Time `json:"status_updated_date,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the Hardware model
func (Hardware) TableName() string {
	return "hardware"
}

func (h *Hardware) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = NewID()
	}
	if h.Status == "" {
		h.Status = StatusPending
	}
	return nil
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// Product is a top-level assembly in a work order. Its production status is
// always derived from its parts and is never persisted.
type Product struct {
	ID            string    `gorm:"primaryKey;size:64" json:"id"`
	WorkOrderID   string    `gorm:"size:64;not null;index" json:"work_order_id"`
	ProductNumber string    `gorm:"size:64" json:"product_number"`
	ItemNumber    string    `gorm:"size:32" json:"item_number"`
	Name          string    `gorm:"not null" json:"name"`
	Quantity      int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	return nil
}

// DetachedProduct is a product-like entity sitting directly under the work
// order with no subassembly or hardware nesting of its own. Status holds the
// value written by importers and is never read; displayed status is derived
// from the parts.
type DetachedProduct struct {
	ID            string    `gorm:"primaryKey;size:64" json:"id"`
	WorkOrderID   string    `gorm:"size:64;not null;index" json:"work_order_id"`
	ProductNumber string    `gorm:"size:64" json:"product_number"`
	ItemNumber    string    `gorm:"size:32" json:"item_number"`
	Name          string    `gorm:"not null" json:"name"`
	Quantity      int       `gorm:"not null;default:1" json:"quantity"`
	Status        Status    `gorm:"size:16;not null;default:'Pending'" json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for the DetachedProduct model
func (DetachedProduct) TableName() string {
	return "detached_products"
}

func (d *DetachedProduct) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = NewID()
	}
	if d.Status == "" {
		d.Status = StatusPending
	}
	return nil
}

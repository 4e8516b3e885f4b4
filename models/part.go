package models

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ParentKind tags which table a Part's ParentID refers to. Products and
// detached products share an id space, so the kind is stored explicitly
// instead of relying on a foreign key.
type ParentKind string

const (
	ParentProduct         ParentKind = "product"
	ParentDetachedProduct ParentKind = "detached_product"
	ParentSubassembly     ParentKind = "subassembly"
)

// IsValid reports whether k is a known parent kind
func (k ParentKind) IsValid() bool {
	switch k {
	case ParentProduct, ParentDetachedProduct, ParentSubassembly:
		return true
	}
	return false
}

// ErrMissingNestSheet is returned when a part is saved without a nest sheet.
var ErrMissingNestSheet = errors.New("part must reference a nest sheet")

// Part is a leaf of truth: its status is only ever set directly.
type Part struct {
	ID                string       `gorm:"primaryKey;size:64" json:"id"`
	WorkOrderID       string       `gorm:"size:64;not null;index" json:"work_order_id"`
	ParentKind        ParentKind   `gorm:"size:24;not null;index:idx_parts_parent" json:"parent_kind"`
	ParentID          string       `gorm:"size:64;not null;index:idx_parts_parent" json:"parent_id"`
	NestSheetID       string       `gorm:"size:64;not null;index" json:"nest_sheet_id"`
	ItemNumber        string       `gorm:"size:32" json:"item_number"`
	Name              string       `gorm:"not null" json:"name"`
	Quantity          int          `gorm:"not null;default:1" json:"quantity"`
	Material          string       `json:"material"`
	Category          PartCategory `gorm:"size:32;not null;default:'Standard'" json:"category"`
	Status            Status       `gorm:"size:16;not null;default:'Pending';index" json:"status"`
	StatusUpdatedDate *time.Time   `json:"status_updated_date,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// TableName specifies the table name for the Part model
func (Part) TableName() string {
	return "parts"
}

func (p *Part) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	if p.Status == "" {
		p.Status = StatusPending
	}
	if p.Category == "" {
		p.Category = CategoryStandard
	}
	return nil
}

// BeforeSave keeps the parent reference and nest sheet invariants machine-checked.
func (p *Part) BeforeSave(tx *gorm.DB) error {
	if p.NestSheetID == "" {
		return ErrMissingNestSheet
	}
	if !p.ParentKind.IsValid() || p.ParentID == "" {
		return fmt.Errorf("part %s has invalid parent reference %q/%q", p.ID, p.ParentKind, p.ParentID)
	}
	return nil
}

package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrInvalidSubassemblyParent is returned when a subassembly has both or
// neither of its parent pointers set.
var ErrInvalidSubassemblyParent = errors.New("subassembly must have exactly one of product_id or parent_subassembly_id")

// Subassembly nests under exactly one Product or exactly one parent Subassembly.
type Subassembly struct {
	ID                  string    `gorm:"primaryKey;size:64" json:"id"`
	WorkOrderID         string    `gorm:"size:64;not null;index" json:"work_order_id"`
	ProductID           *string   `gorm:"size:64;index" json:"product_id,omitempty"`
	ParentSubassemblyID *string   `gorm:"size:64;index" json:"parent_subassembly_id,omitempty"`
	ItemNumber          string    `gorm:"size:32" json:"item_number"`
	Name                string    `gorm:"not null" json:"name"`
	Quantity            int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Subassembly model
func (Subassembly) TableName() string {
	return "subassemblies"
}

func (s *Subassembly) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = NewID()
	}
	return nil
}

// BeforeSave enforces the product XOR parent-subassembly rule.
func (s *Subassembly) BeforeSave(tx *gorm.DB) error {
	return s.ValidateParent()
}

// ValidateParent checks that exactly one parent pointer is set
func (s *Subassembly) ValidateParent() error {
	hasProduct := s.ProductID != nil && *s.ProductID != ""
	hasParent := s.ParentSubassemblyID != nil && *s.ParentSubassemblyID != ""
	if hasProduct == hasParent {
		return ErrInvalidSubassemblyParent
	}
	if hasParent && *s.ParentSubassemblyID == s.ID {
		return ErrInvalidSubassemblyParent
	}
	return nil
}

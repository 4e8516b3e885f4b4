package models

import (
	"time"

	"gorm.io/gorm"
)

// AuditLog is an append-only record of a mutation
type AuditLog struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	Timestamp   time.Time `gorm:"not null;index" json:"timestamp"`
	Action      string    `gorm:"size:50;not null" json:"action"`
	EntityType  string    `gorm:"size:50;not null;index:idx_audit_entity" json:"entity_type"`
	EntityID    string    `gorm:"size:64;not null;index:idx_audit_entity" json:"entity_id"`
	OldValue    string    `gorm:"type:text" json:"old_value,omitempty"`
	NewValue    string    `gorm:"type:text" json:"new_value,omitempty"`
	Station     string    `gorm:"size:50" json:"station"`
	WorkOrderID string    `gorm:"size:64;index" json:"work_order_id"`
	Details     string    `gorm:"type:text" json:"details,omitempty"`
	SessionID   string    `gorm:"size:64" json:"session_id,omitempty"`
	UserID      string    `gorm:"size:128" json:"user_id,omitempty"`
}

// TableName specifies the table name for the AuditLog model
func (AuditLog) TableName() string {
	return "audit_logs"
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = NewID()
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now().UTC()
	}
	return nil
}

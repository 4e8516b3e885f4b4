package services

import (
	"context"
	"fmt"

	"github.com/kendall-kelly/shopfloor-tracker-api/models"
	"gorm.io/gorm"
)

// Audit actions written by the mutation engine
const (
	AuditActionCategoryChanged = "category_changed"
	AuditActionStatusChanged   = "status_changed"
	AuditActionReparented      = "reparented"
	AuditActionDeleted         = "deleted"
)

// ActorContext attributes a mutation to a station, session and user
type ActorContext struct {
	Station   string
	SessionID string
	UserID    string
}

// AuditEntry describes one mutation for the audit trail
type AuditEntry struct {
	Action      string
	EntityType  string
	EntityID    string
	OldValue    string
	NewValue    string
	WorkOrderID string
	Details     string
	Actor       ActorContext
}

// AuditRecorder writes audit records. It is called after the primary
// mutation has committed.
type AuditRecorder interface {
	Log(ctx context.Context, entry AuditEntry) error
}

// GormAuditRecorder persists audit entries to the audit_logs table
type GormAuditRecorder struct {
	db *gorm.DB
}

var auditRecorderInstance AuditRecorder

// NewGormAuditRecorder creates a recorder backed by db
func NewGormAuditRecorder(db *gorm.DB) *GormAuditRecorder {
	return &GormAuditRecorder{db: db}
}

// InitAuditRecorder sets the process audit recorder
func InitAuditRecorder(recorder AuditRecorder) AuditRecorder {
	auditRecorderInstance = recorder
	return auditRecorderInstance
}

// GetAuditRecorder returns the process audit recorder
func GetAuditRecorder() AuditRecorder {
	return auditRecorderInstance
}

// SetAuditRecorder sets the audit recorder instance (primarily for testing)
func SetAuditRecorder(recorder AuditRecorder) {
	auditRecorderInstance = recorder
}

// Log appends one row to the audit trail
func (r *GormAuditRecorder) Log(ctx context.Context, entry AuditEntry) error {
	row := models.AuditLog{
		Action:      entry.Action,
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		OldValue:    entry.OldValue,
		NewValue:    entry.NewValue,
		Station:     entry.Actor.Station,
		WorkOrderID: entry.WorkOrderID,
		Details:     entry.Details,
		SessionID:   entry.Actor.SessionID,
		UserID:      entry.Actor.UserID,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

// ListByWorkOrder returns a page of audit rows for a work order, newest first,
// along with the total row count.
func (r *GormAuditRecorder) ListByWorkOrder(ctx context.Context, workOrderID string, page, pageSize int) ([]models.AuditLog, int64, error) {
	var total int64
	query := r.db.WithContext(ctx).Model(&models.AuditLog{}).Where("work_order_id = ?", workOrderID)
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.AuditLog
	err := query.Session(&gorm.Session{}).
		Order("timestamp DESC, id DESC").
		Offset(page * pageSize).
		Limit(pageSize).
		Find(&rows).Error
	return rows, total, err
}

// AllByWorkOrder returns every audit row for a work order, oldest first
func (r *GormAuditRecorder) AllByWorkOrder(ctx context.Context, workOrderID string) ([]models.AuditLog, error) {
	var rows []models.AuditLog
	err := r.db.WithContext(ctx).
		Where("work_order_id = ?", workOrderID).
		Order("timestamp ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

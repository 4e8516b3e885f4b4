package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kendall-kelly/shopfloor-tracker-api/models"
	"github.com/kendall-kelly/shopfloor-tracker-api/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuditArchive describes an exported audit trail
type AuditArchive struct {
	WorkOrderID string    `json:"work_order_id"`
	Key         string    `json:"key"`
	URL         string    `json:"url"`
	EntryCount  int       `json:"entry_count"`
	ExportedAt  time.Time `json:"exported_at"`
}

type auditArchiveDocument struct {
	WorkOrder  models.WorkOrder  `json:"work_order"`
	ExportedAt time.Time         `json:"exported_at"`
	Entries    []models.AuditLog `json:"entries"`
}

// AuditArchiver snapshots a work order's audit trail into object storage
type AuditArchiver struct {
	db      *gorm.DB
	storage S3Interface
	logger  *zap.Logger
	now     func() time.Time
}

// NewAuditArchiver creates an archiver writing to storage
func NewAuditArchiver(db *gorm.DB, storage S3Interface, logger *zap.Logger) *AuditArchiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditArchiver{
		db:      db,
		storage: storage,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Export writes every audit row of the work order as one JSON document and
// returns a presigned download URL for it.
func (a *AuditArchiver) Export(ctx context.Context, workOrderID string) (*AuditArchive, error) {
	if a.storage == nil {
		return nil, utils.NewValidationError("ARCHIVE_DISABLED", "Audit archiving is not configured")
	}

	var workOrder models.WorkOrder
	if err := a.db.WithContext(ctx).Where("id = ?", workOrderID).First(&workOrder).Error; err != nil {
		return nil, a.logged(lookupError(err, "WORK_ORDER_NOT_FOUND", "Work order not found"), workOrderID)
	}

	entries, err := NewGormAuditRecorder(a.db).AllByWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, a.logged(utils.NewSystemError("DATABASE_ERROR", err), workOrderID)
	}

	exportedAt := a.now()
	body, err := json.MarshalIndent(auditArchiveDocument{
		WorkOrder:  workOrder,
		ExportedAt: exportedAt,
		Entries:    entries,
	}, "", "  ")
	if err != nil {
		return nil, a.logged(utils.NewSystemError("ENCODING_ERROR", err), workOrderID)
	}

	key := fmt.Sprintf("audit/%s/%s.json", workOrderID, exportedAt.Format("20060102T150405Z"))
	if err := a.storage.PutObject(ctx, key, "application/json", body); err != nil {
		return nil, a.logged(utils.NewSystemError("STORAGE_ERROR", err), workOrderID)
	}
	url, err := a.storage.GetPresignedURL(ctx, key)
	if err != nil {
		if delErr := a.storage.DeleteObject(ctx, key); delErr != nil {
			a.logger.Warn("Failed to remove unreachable audit archive",
				zap.String("work_order_id", workOrderID),
				zap.String("key", key),
				zap.Error(delErr))
		}
		return nil, a.logged(utils.NewSystemError("STORAGE_ERROR", err), workOrderID)
	}

	a.logger.Info("Exported audit trail",
		zap.String("work_order_id", workOrderID),
		zap.String("key", key),
		zap.Int("entries", len(entries)))

	return &AuditArchive{
		WorkOrderID: workOrderID,
		Key:         key,
		URL:         url,
		EntryCount:  len(entries),
		ExportedAt:  exportedAt,
	}, nil
}

func (a *AuditArchiver) logged(err error, workOrderID string) error {
	svcErr := utils.AsServiceError(err)
	if svcErr.Kind == utils.KindSystem {
		a.logger.Error("Audit export failed",
			zap.String("work_order_id", workOrderID),
			zap.String("code", svcErr.Code),
			zap.Error(svcErr.Err))
	}
	return svcErr
}

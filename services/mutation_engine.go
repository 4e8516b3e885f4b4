package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kendall-kelly/shopfloor-tracker-api/models"
	"github.com/kendall-kelly/shopfloor-tracker-api/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MutationResult is returned by every mutation, successful or not
type MutationResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	ItemsDeleted int    `json:"items_deleted"`
}

// MutationEngine applies reclassification, status edits, re-parenting and
// cascading deletes. Every successful call writes one audit record after
// its change has committed; audit failures are logged and never fail the call.
type MutationEngine struct {
	db             *gorm.DB
	audit          AuditRecorder
	logger         *zap.Logger
	maxCascadeSize int
	now            func() time.Time
}

// NewMutationEngine creates an engine. A nil logger is replaced with a no-op
// logger; maxCascadeSize bounds how many rows a single delete may remove.
func NewMutationEngine(db *gorm.DB, audit AuditRecorder, logger *zap.Logger, maxCascadeSize int) *MutationEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MutationEngine{
		db:             db,
		audit:          audit,
		logger:         logger,
		maxCascadeSize: maxCascadeSize,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the timestamp source (primarily for testing)
func (e *MutationEngine) WithClock(now func() time.Time) *MutationEngine {
	e.now = now
	return e
}

// SetPartCategory reclassifies a part. Unknown categories are rejected
// before anything is read or written.
func (e *MutationEngine) SetPartCategory(ctx context.Context, partID, category, workOrderID string, actor ActorContext) (MutationResult, error) {
	if err := requireIDs(partID, workOrderID); err != nil {
		return e.fail(err)
	}
	newCategory, err := models.ParsePartCategory(category)
	if err != nil {
		return e.fail(utils.NewValidationError("INVALID_CATEGORY",
			fmt.Sprintf("Invalid category %q. Valid categories: %s", category, joinCategories())))
	}

	part, err := e.findPart(ctx, e.db, partID, workOrderID)
	if err != nil {
		return e.fail(err, zap.String("part_id", partID), zap.String("work_order_id", workOrderID))
	}

	oldCategory := part.Category
	// Category edits stamp the status date so they surface in recently-touched views.
	err = e.db.WithContext(ctx).Model(&part).Updates(map[string]interface{}{
		"category":            newCategory,
		"status_updated_date": e.now(),
	}).Error
	if err != nil {
		return e.fail(utils.NewSystemError("DATABASE_ERROR", err),
			zap.String("part_id", partID), zap.String("work_order_id", workOrderID))
	}

	e.recordAudit(ctx, AuditEntry{
		Action:      AuditActionCategoryChanged,
		EntityType:  "Part",
		EntityID:    part.ID,
		OldValue:    string(oldCategory),
		NewValue:    string(newCategory),
		WorkOrderID: workOrderID,
		Details:     fmt.Sprintf("Category changed for part %s", part.Name),
		Actor:       actor,
	})

	return MutationResult{
		Success: true,
		Message: fmt.Sprintf("Part category updated from %s to %s", oldCategory, newCategory),
	}, nil
}

// SetPartStatus moves a part along the lifecycle. Backward moves are
// rejected unless force is set.
func (e *MutationEngine) SetPartStatus(ctx context.Context, partID, status, workOrderID string, force bool, actor ActorContext) (MutationResult, error) {
	if err := requireIDs(partID, workOrderID); err != nil {
		return e.fail(err)
	}
	newStatus, err := parseStatusInput(status)
	if err != nil {
		return e.fail(err)
	}

	part, err := e.findPart(ctx, e.db, partID, workOrderID)
	if err != nil {
		return e.fail(err, zap.String("part_id", partID), zap.String("work_order_id", workOrderID))
	}
	if part.Status == newStatus {
		return MutationResult{Success: true, Message: fmt.Sprintf("Part is already %s", newStatus)}, nil
	}
	if err := checkTransition(part.Status, newStatus, force); err != nil {
		return e.fail(err)
	}

	oldStatus := part.Status
	err = e.db.WithContext(ctx).Model(&part).Updates(map[string]interface{}{
		"status":              newStatus,
		"status_updated_date": e.now(),
	}).Error
	if err != nil {
		return e.fail(utils.NewSystemError("DATABASE_ERROR", err),
			zap.String("part_id", partID), zap.String("work_order_id", workOrderID))
	}

	e.recordAudit(ctx, AuditEntry{
		Action:      AuditActionStatusChanged,
		EntityType:  "Part",
		EntityID:    part.ID,
		OldValue:    string(oldStatus),
		NewValue:    string(newStatus),
		WorkOrderID: workOrderID,
		Details:     transitionDetails("part", part.Name, force),
		Actor:       actor,
	})

	return MutationResult{
		Success: true,
		Message: fmt.Sprintf("Part status updated from %s to %s", oldStatus, newStatus),
	}, nil
}

// SetHardwareStatus is SetPartStatus for hardware rows
func (e *MutationEngine) SetHardwareStatus(ctx context.Context, hardwareID, status, workOrderID string, force bool, actor ActorContext) (MutationResult, error) {
	if err := requireIDs(hardwareID, workOrderID); err != nil {
		return e.fail(err)
	}
	newStatus, err := parseStatusInput(status)
	if err != nil {
		return e.fail(err)
	}

	var hw models.Hardware
	if err := e.db.WithContext(ctx).Where("id = ? AND work_order_id = ?", hardwareID, workOrderID).First(&hw).Error; err != nil {
		return e.fail(lookupError(err, "HARDWARE_NOT_FOUND", "Hardware not found"),
			zap.String("hardware_id", hardwareID), zap.String("work_order_id", workOrderID))
	}
	if hw.Status == newStatus {
		return MutationResult{Success: true, Message: fmt.Sprintf("Hardware is already %s", newStatus)}, nil
	}
	if err := checkTransition(hw.Status, newStatus, force); err != nil {
		return e.fail(err)
	}

	oldStatus := hw.Status
	err = e.db.WithContext(ctx).Model(&hw).Updates(map[string]interface{}{
		"status":              newStatus,
		"status_updated_date": e.now(),
	}).Error
	if err != nil {
		return e.fail(utils.NewSystemError("DATABASE_ERROR", err),
			zap.String("hardware_id", hardwareID), zap.String("work_order_id", workOrderID))
	}

	e.recordAudit(ctx, AuditEntry{
		Action:      AuditActionStatusChanged,
		EntityType:  "Hardware",
		EntityID:    hw.ID,
		OldValue:    string(oldStatus),
		NewValue:    string(newStatus),
		WorkOrderID: workOrderID,
		Details:     transitionDetails("hardware", hw.Name, force),
		Actor:       actor,
	})

	return MutationResult{
		Success: true,
		Message: fmt.Sprintf("Hardware status updated from %s to %s", oldStatus, newStatus),
	}, nil
}

// ParentRef names the new parent of a subassembly: a product or another subassembly
type ParentRef struct {
	Kind models.ParentKind
	ID   string
}

// MoveSubassembly re-parents a subassembly within its work order. A move that
// would make the subassembly its own ancestor is rejected.
func (e *MutationEngine) MoveSubassembly(ctx context.Context, subassemblyID string, target ParentRef, workOrderID string, actor ActorContext) (MutationResult, error) {
	if err := requireIDs(subassemblyID, workOrderID); err != nil {
		return e.fail(err)
	}
	if target.ID == "" || (target.Kind != models.ParentProduct && target.Kind != models.ParentSubassembly) {
		return e.fail(utils.NewValidationError("INVALID_PARENT", "parent_kind must be product or subassembly and parent_id is required"))
	}

	var sub models.Subassembly
	var oldParent string
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND work_order_id = ?", subassemblyID, workOrderID).First(&sub).Error; err != nil {
			return lookupError(err, "SUBASSEMBLY_NOT_FOUND", "Subassembly not found")
		}
		oldParent = describeSubassemblyParent(sub)

		switch target.Kind {
		case models.ParentProduct:
			var product models.Product
			if err := tx.Where("id = ? AND work_order_id = ?", target.ID, workOrderID).First(&product).Error; err != nil {
				return lookupError(err, "PARENT_NOT_FOUND", "Target product not found")
			}
			productID := product.ID
			sub.ProductID = &productID
			sub.ParentSubassemblyID = nil
		case models.ParentSubassembly:
			if err := e.checkNotDescendant(tx, sub.ID, target.ID, workOrderID); err != nil {
				return err
			}
			parentID := target.ID
			sub.ParentSubassemblyID = &parentID
			sub.ProductID = nil
		}

		if err := tx.Save(&sub).Error; err != nil {
			return utils.NewSystemError("DATABASE_ERROR", err)
		}
		return nil
	})
	if err != nil {
		return e.fail(err, zap.String("subassembly_id", subassemblyID), zap.String("work_order_id", workOrderID))
	}

	newParent := describeSubassemblyParent(sub)
	e.recordAudit(ctx, AuditEntry{
		Action:      AuditActionReparented,
		EntityType:  "Subassembly",
		EntityID:    sub.ID,
		OldValue:    oldParent,
		NewValue:    newParent,
		WorkOrderID: workOrderID,
		Details:     fmt.Sprintf("Moved subassembly %s", sub.Name),
		Actor:       actor,
	})

	return MutationResult{Success: true, Message: fmt.Sprintf("Subassembly %s moved to %s", sub.Name, newParent)}, nil
}

// checkNotDescendant walks the ancestor chain of candidateParentID and fails
// if it reaches subassemblyID.
func (e *MutationEngine) checkNotDescendant(tx *gorm.DB, subassemblyID, candidateParentID, workOrderID string) error {
	cycleErr := utils.NewValidationError("SUBASSEMBLY_CYCLE", "A subassembly cannot be moved beneath itself or its descendants")

	currentID := candidateParentID
	for steps := 0; ; steps++ {
		if currentID == subassemblyID {
			return cycleErr
		}
		if steps > e.maxCascadeSize {
			return utils.NewValidationError("HIERARCHY_TOO_DEEP", "Subassembly hierarchy exceeds the maximum depth")
		}

		var current models.Subassembly
		if err := tx.Where("id = ? AND work_order_id = ?", currentID, workOrderID).First(&current).Error; err != nil {
			if steps == 0 {
				return lookupError(err, "PARENT_NOT_FOUND", "Target subassembly not found")
			}
			return lookupError(err, "SUBASSEMBLY_NOT_FOUND", "Subassembly ancestor not found")
		}
		if current.ParentSubassemblyID == nil || *current.ParentSubassemblyID == "" {
			return nil
		}
		currentID = *current.ParentSubassemblyID
	}
}

func (e *MutationEngine) findPart(ctx context.Context, db *gorm.DB, partID, workOrderID string) (models.Part, error) {
	var part models.Part
	err := db.WithContext(ctx).Where("id = ? AND work_order_id = ?", partID, workOrderID).First(&part).Error
	if err != nil {
		return part, lookupError(err, "PART_NOT_FOUND", "Part not found")
	}
	return part, nil
}

// fail converts err into the taxonomy, logging system errors with context
func (e *MutationEngine) fail(err error, fields ...zap.Field) (MutationResult, error) {
	svcErr := utils.AsServiceError(err)
	if svcErr.Kind == utils.KindSystem {
		e.logger.Error("Mutation failed", append(fields, zap.String("code", svcErr.Code), zap.Error(svcErr.Err))...)
	}
	return MutationResult{Success: false, Message: svcErr.Message}, svcErr
}

func (e *MutationEngine) recordAudit(ctx context.Context, entry AuditEntry) {
	if e.audit == nil {
		e.logger.Warn("No audit recorder configured; mutation not audited",
			zap.String("action", entry.Action),
			zap.String("entity_type", entry.EntityType),
			zap.String("entity_id", entry.EntityID))
		return
	}
	if err := e.audit.Log(ctx, entry); err != nil {
		e.logger.Error("Audit write failed",
			zap.String("alert", "audit_write_failed"),
			zap.String("action", entry.Action),
			zap.String("entity_type", entry.EntityType),
			zap.String("entity_id", entry.EntityID),
			zap.String("work_order_id", entry.WorkOrderID),
			zap.String("station", entry.Actor.Station),
			zap.Error(err))
	}
}

func lookupError(err error, code, message string) error {
	var svcErr *utils.ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NewNotFoundError(code, message)
	}
	return utils.NewSystemError("DATABASE_ERROR", err)
}

func requireIDs(entityID, workOrderID string) error {
	if strings.TrimSpace(entityID) == "" {
		return utils.NewValidationError("MISSING_ID", "Entity ID is required")
	}
	if strings.TrimSpace(workOrderID) == "" {
		return utils.NewValidationError("MISSING_WORK_ORDER_ID", "Work order ID is required")
	}
	return nil
}

func parseStatusInput(status string) (models.Status, error) {
	parsed, err := models.ParseStatus(status)
	if err != nil {
		return "", utils.NewValidationError("INVALID_STATUS", fmt.Sprintf("Invalid status %q", status))
	}
	return parsed, nil
}

func checkTransition(from, to models.Status, force bool) error {
	if to.Before(from) && !force {
		return utils.NewValidationError("STATUS_REGRESSION",
			fmt.Sprintf("Cannot move status backward from %s to %s without force", from, to))
	}
	return nil
}

func transitionDetails(entity, name string, force bool) string {
	if force {
		return fmt.Sprintf("Status of %s %s overridden by administrator", entity, name)
	}
	return fmt.Sprintf("Status of %s %s updated", entity, name)
}

func describeSubassemblyParent(sub models.Subassembly) string {
	if sub.ParentSubassemblyID != nil && *sub.ParentSubassemblyID != "" {
		return "subassembly:" + *sub.ParentSubassemblyID
	}
	if sub.ProductID != nil {
		return "product:" + *sub.ProductID
	}
	return ""
}

func joinCategories() string {
	names := make([]string, len(models.AllPartCategories))
	for i, category := range models.AllPartCategories {
		names[i] = string(category)
	}
	return strings.Join(names, ", ")
}

package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/kendall-kelly/shopfloor-tracker-api/models"
	"github.com/kendall-kelly/shopfloor-tracker-api/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EntityKind names a deletable entity type
type EntityKind string

const (
	EntityPart            EntityKind = "part"
	EntityHardware        EntityKind = "hardware"
	EntitySubassembly     EntityKind = "subassembly"
	EntityProduct         EntityKind = "product"
	EntityDetachedProduct EntityKind = "detached_product"
	EntityNestSheet       EntityKind = "nest_sheet"
)

var entityKindAliases = map[string]EntityKind{
	"part":              EntityPart,
	"parts":             EntityPart,
	"hardware":          EntityHardware,
	"subassembly":       EntitySubassembly,
	"subassemblies":     EntitySubassembly,
	"product":           EntityProduct,
	"products":          EntityProduct,
	"detached_product":  EntityDetachedProduct,
	"detached-product":  EntityDetachedProduct,
	"detached-products": EntityDetachedProduct,
	"nest_sheet":        EntityNestSheet,
	"nest-sheet":        EntityNestSheet,
	"nest-sheets":       EntityNestSheet,
	"nestsheet":         EntityNestSheet,
}

// ParseEntityKind accepts singular, plural and route-style spellings
func ParseEntityKind(value string) (EntityKind, error) {
	kind, ok := entityKindAliases[strings.ToLower(strings.TrimSpace(value))]
	if !ok {
		return "", utils.NewValidationError("INVALID_ENTITY_KIND", fmt.Sprintf("Unknown entity type %q", value))
	}
	return kind, nil
}

// Label is the human-readable entity type used in messages and audit rows
func (k EntityKind) Label() string {
	switch k {
	case EntityPart:
		return "Part"
	case EntityHardware:
		return "Hardware"
	case EntitySubassembly:
		return "Subassembly"
	case EntityProduct:
		return "Product"
	case EntityDetachedProduct:
		return "DetachedProduct"
	case EntityNestSheet:
		return "NestSheet"
	}
	return string(k)
}

// deleteOutcome is what a cascade reports back before the audit is written
type deleteOutcome struct {
	name    string
	removed int
	summary string
}

// DeleteEntity removes an entity and everything it structurally owns in one
// transaction, then writes a single summary audit record.
func (e *MutationEngine) DeleteEntity(ctx context.Context, kind EntityKind, entityID, workOrderID string, actor ActorContext) (MutationResult, error) {
	if err := requireIDs(entityID, workOrderID); err != nil {
		return e.fail(err)
	}

	var cascade func(tx *gorm.DB) (deleteOutcome, error)
	switch kind {
	case EntityPart:
		cascade = func(tx *gorm.DB) (deleteOutcome, error) { return e.deletePart(tx, entityID, workOrderID) }
	case EntityHardware:
		cascade = func(tx *gorm.DB) (deleteOutcome, error) { return e.deleteHardware(tx, entityID, workOrderID) }
	case EntitySubassembly:
		cascade = func(tx *gorm.DB) (deleteOutcome, error) { return e.deleteSubassembly(tx, entityID, workOrderID) }
	case EntityProduct:
		cascade = func(tx *gorm.DB) (deleteOutcome, error) { return e.deleteProduct(tx, entityID, workOrderID) }
	case EntityDetachedProduct:
		cascade = func(tx *gorm.DB) (deleteOutcome, error) { return e.deleteDetachedProduct(tx, entityID, workOrderID) }
	case EntityNestSheet:
		cascade = func(tx *gorm.DB) (deleteOutcome, error) { return e.deleteNestSheet(tx, entityID, workOrderID) }
	default:
		return e.fail(utils.NewValidationError("INVALID_ENTITY_KIND", fmt.Sprintf("Unknown entity type %q", kind)))
	}

	var outcome deleteOutcome
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		outcome, err = cascade(tx)
		return err
	})
	if err != nil {
		return e.fail(err,
			zap.String("entity_type", kind.Label()),
			zap.String("entity_id", entityID),
			zap.String("work_order_id", workOrderID))
	}

	e.recordAudit(ctx, AuditEntry{
		Action:      AuditActionDeleted,
		EntityType:  kind.Label(),
		EntityID:    entityID,
		OldValue:    outcome.name,
		WorkOrderID: workOrderID,
		Details:     outcome.summary,
		Actor:       actor,
	})

	return MutationResult{Success: true, Message: outcome.summary, ItemsDeleted: outcome.removed}, nil
}

// DeletePart removes a single part
func (e *MutationEngine) DeletePart(ctx context.Context, partID, workOrderID string, actor ActorContext) (MutationResult, error) {
	return e.DeleteEntity(ctx, EntityPart, partID, workOrderID, actor)
}

// DeleteHardware removes a single hardware row
func (e *MutationEngine) DeleteHardware(ctx context.Context, hardwareID, workOrderID string, actor ActorContext) (MutationResult, error) {
	return e.DeleteEntity(ctx, EntityHardware, hardwareID, workOrderID, actor)
}

// DeleteSubassembly removes a subassembly, every nested subassembly and all their parts
func (e *MutationEngine) DeleteSubassembly(ctx context.Context, subassemblyID, workOrderID string, actor ActorContext) (MutationResult, error) {
	return e.DeleteEntity(ctx, EntitySubassembly, subassemblyID, workOrderID, actor)
}

// DeleteProduct removes a product with its parts, subassembly subtrees and hardware
func (e *MutationEngine) DeleteProduct(ctx context.Context, productID, workOrderID string, actor ActorContext) (MutationResult, error) {
	return e.DeleteEntity(ctx, EntityProduct, productID, workOrderID, actor)
}

// DeleteDetachedProduct removes a detached product and the parts pointing at it
func (e *MutationEngine) DeleteDetachedProduct(ctx context.Context, detachedID, workOrderID string, actor ActorContext) (MutationResult, error) {
	return e.DeleteEntity(ctx, EntityDetachedProduct, detachedID, workOrderID, actor)
}

// DeleteNestSheet removes a nest sheet and every part cut from it
func (e *MutationEngine) DeleteNestSheet(ctx context.Context, nestSheetID, workOrderID string, actor ActorContext) (MutationResult, error) {
	return e.DeleteEntity(ctx, EntityNestSheet, nestSheetID, workOrderID, actor)
}

func (e *MutationEngine) deletePart(tx *gorm.DB, partID, workOrderID string) (deleteOutcome, error) {
	var part models.Part
	if err := tx.Where("id = ? AND work_order_id = ?", partID, workOrderID).First(&part).Error; err != nil {
		return deleteOutcome{}, lookupError(err, "PART_NOT_FOUND", fmt.Sprintf("Part %s not found", partID))
	}
	if err := deleteRoot(tx, &part); err != nil {
		return deleteOutcome{}, err
	}
	return deleteOutcome{name: part.Name, removed: 1, summary: fmt.Sprintf("Deleted part %s", part.Name)}, nil
}

func (e *MutationEngine) deleteHardware(tx *gorm.DB, hardwareID, workOrderID string) (deleteOutcome, error) {
	var hw models.Hardware
	if err := tx.Where("id = ? AND work_order_id = ?", hardwareID, workOrderID).First(&hw).Error; err != nil {
		return deleteOutcome{}, lookupError(err, "HARDWARE_NOT_FOUND", fmt.Sprintf("Hardware %s not found", hardwareID))
	}
	if err := deleteRoot(tx, &hw); err != nil {
		return deleteOutcome{}, err
	}
	return deleteOutcome{name: hw.Name, removed: 1, summary: fmt.Sprintf("Deleted hardware %s", hw.Name)}, nil
}

func (e *MutationEngine) deleteSubassembly(tx *gorm.DB, subassemblyID, workOrderID string) (deleteOutcome, error) {
	var sub models.Subassembly
	if err := tx.Where("id = ? AND work_order_id = ?", subassemblyID, workOrderID).First(&sub).Error; err != nil {
		return deleteOutcome{}, lookupError(err, "SUBASSEMBLY_NOT_FOUND", fmt.Sprintf("Subassembly %s not found", subassemblyID))
	}

	subtree, err := e.collectSubtree(tx, []string{sub.ID}, workOrderID)
	if err != nil {
		return deleteOutcome{}, err
	}
	parts, subs, err := e.deleteSubtrees(tx, subtree, workOrderID, 0)
	if err != nil {
		return deleteOutcome{}, err
	}

	return deleteOutcome{
		name:    sub.Name,
		removed: parts + subs,
		summary: fmt.Sprintf("Deleted subassembly %s with %d parts and %d nested subassemblies", sub.Name, parts, subs-1),
	}, nil
}

func (e *MutationEngine) deleteProduct(tx *gorm.DB, productID, workOrderID string) (deleteOutcome, error) {
	var product models.Product
	if err := tx.Where("id = ? AND work_order_id = ?", productID, workOrderID).First(&product).Error; err != nil {
		return deleteOutcome{}, lookupError(err, "PRODUCT_NOT_FOUND", fmt.Sprintf("Product %s not found", productID))
	}

	var rootIDs []string
	if err := tx.Model(&models.Subassembly{}).
		Where("product_id = ? AND work_order_id = ?", product.ID, workOrderID).
		Pluck("id", &rootIDs).Error; err != nil {
		return deleteOutcome{}, utils.NewSystemError("DATABASE_ERROR", err)
	}
	subtree, err := e.collectSubtree(tx, rootIDs, workOrderID)
	if err != nil {
		return deleteOutcome{}, err
	}

	directParts := partsUnder(tx, workOrderID, models.ParentProduct, []string{product.ID})
	hardware := tx.Where("product_id = ? AND work_order_id = ?", product.ID, workOrderID)

	var directCount, hardwareCount int64
	if err := directParts.Model(&models.Part{}).Count(&directCount).Error; err != nil {
		return deleteOutcome{}, utils.NewSystemError("DATABASE_ERROR", err)
	}
	if err := hardware.Model(&models.Hardware{}).Count(&hardwareCount).Error; err != nil {
		return deleteOutcome{}, utils.NewSystemError("DATABASE_ERROR", err)
	}

	subParts, subs, err := e.deleteSubtrees(tx, subtree, workOrderID, int(directCount+hardwareCount)+1)
	if err != nil {
		return deleteOutcome{}, err
	}

	direct := partsUnder(tx, workOrderID, models.ParentProduct, []string{product.ID}).Delete(&models.Part{})
	if direct.Error != nil {
		return deleteOutcome{}, utils.NewSystemError("DATABASE_ERROR", direct.Error)
	}
	hw := tx.Where("product_id = ? AND work_order_id = ?", product.ID, workOrderID).Delete(&models.Hardware{})
	if hw.Error != nil {
		return deleteOutcome{}, utils.NewSystemError("DATABASE_ERROR", hw.Error)
	}
	if err := deleteRoot(tx, &product); err != nil {
		return deleteOutcome{}, err
	}

	parts := int(direct.RowsAffected) + subParts
	return deleteOutcome{
		name:    product.Name,
		removed: parts + subs + int(hw.RowsAffected) + 1,
		summary: fmt.Sprintf("Deleted product %s with %d parts, %d subassemblies and %d hardware items",
			product.Name, parts, subs, hw.RowsAffected),
	}, nil
}

func (e *MutationEngine) deleteDetachedProduct(tx *gorm.DB, detachedID, workOrderID string) (deleteOutcome, error) {
	var detached models.DetachedProduct
	if err := tx.Where("id = ? AND work_order_id = ?", detachedID, workOrderID).First(&detached).Error; err != nil {
		return deleteOutcome{}, lookupError(err, "DETACHED_PRODUCT_NOT_FOUND", fmt.Sprintf("Detached product %s not found", detachedID))
	}

	parts, err := e.deleteBoundedParts(tx, partsUnder(tx, workOrderID, models.ParentDetachedProduct, []string{detached.ID}))
	if err != nil {
		return deleteOutcome{}, err
	}
	if err := deleteRoot(tx, &detached); err != nil {
		return deleteOutcome{}, err
	}

	return deleteOutcome{
		name:    detached.Name,
		removed: parts + 1,
		summary: fmt.Sprintf("Deleted detached product %s with %d parts", detached.Name, parts),
	}, nil
}

func (e *MutationEngine) deleteNestSheet(tx *gorm.DB, nestSheetID, workOrderID string) (deleteOutcome, error) {
	var sheet models.NestSheet
	if err := tx.Where("id = ? AND work_order_id = ?", nestSheetID, workOrderID).First(&sheet).Error; err != nil {
		return deleteOutcome{}, lookupError(err, "NEST_SHEET_NOT_FOUND", fmt.Sprintf("Nest sheet %s not found", nestSheetID))
	}

	parts, err := e.deleteBoundedParts(tx, tx.Where("nest_sheet_id = ? AND work_order_id = ?", sheet.ID, workOrderID))
	if err != nil {
		return deleteOutcome{}, err
	}
	if err := deleteRoot(tx, &sheet); err != nil {
		return deleteOutcome{}, err
	}

	return deleteOutcome{
		name:    sheet.Name,
		removed: parts + 1,
		summary: fmt.Sprintf("Deleted nest sheet %s with %d parts", sheet.Name, parts),
	}, nil
}

// collectSubtree returns rootIDs plus every subassembly nested beneath them,
// breadth first. It stops with a validation error once the cascade bound is exceeded.
func (e *MutationEngine) collectSubtree(tx *gorm.DB, rootIDs []string, workOrderID string) ([]string, error) {
	seen := make(map[string]bool, len(rootIDs))
	subtree := make([]string, 0, len(rootIDs))
	frontier := make([]string, 0, len(rootIDs))
	for _, id := range rootIDs {
		if !seen[id] {
			seen[id] = true
			subtree = append(subtree, id)
			frontier = append(frontier, id)
		}
	}

	for len(frontier) > 0 {
		if len(subtree) > e.maxCascadeSize {
			return nil, cascadeTooLarge(e.maxCascadeSize)
		}
		var children []string
		if err := tx.Model(&models.Subassembly{}).
			Where("parent_subassembly_id IN ? AND work_order_id = ?", frontier, workOrderID).
			Pluck("id", &children).Error; err != nil {
			return nil, utils.NewSystemError("DATABASE_ERROR", err)
		}

		frontier = frontier[:0]
		for _, id := range children {
			if seen[id] {
				continue
			}
			seen[id] = true
			subtree = append(subtree, id)
			frontier = append(frontier, id)
		}
	}
	return subtree, nil
}

// deleteSubtrees removes the parts of every listed subassembly and then the
// subassemblies themselves. alreadyCounted rows from the caller count
// toward the cascade bound.
func (e *MutationEngine) deleteSubtrees(tx *gorm.DB, subtree []string, workOrderID string, alreadyCounted int) (parts, subs int, err error) {
	if len(subtree) == 0 {
		if alreadyCounted > e.maxCascadeSize {
			return 0, 0, cascadeTooLarge(e.maxCascadeSize)
		}
		return 0, 0, nil
	}

	var partCount int64
	if err := partsUnder(tx, workOrderID, models.ParentSubassembly, subtree).Model(&models.Part{}).Count(&partCount).Error; err != nil {
		return 0, 0, utils.NewSystemError("DATABASE_ERROR", err)
	}
	if alreadyCounted+int(partCount)+len(subtree) > e.maxCascadeSize {
		return 0, 0, cascadeTooLarge(e.maxCascadeSize)
	}

	removedParts := partsUnder(tx, workOrderID, models.ParentSubassembly, subtree).Delete(&models.Part{})
	if removedParts.Error != nil {
		return 0, 0, utils.NewSystemError("DATABASE_ERROR", removedParts.Error)
	}
	removedSubs := tx.Where("id IN ? AND work_order_id = ?", subtree, workOrderID).Delete(&models.Subassembly{})
	if removedSubs.Error != nil {
		return 0, 0, utils.NewSystemError("DATABASE_ERROR", removedSubs.Error)
	}
	return int(removedParts.RowsAffected), int(removedSubs.RowsAffected), nil
}

// deleteBoundedParts deletes the parts matched by scope after checking the cascade bound
func (e *MutationEngine) deleteBoundedParts(tx *gorm.DB, scope *gorm.DB) (int, error) {
	var count int64
	if err := scope.Session(&gorm.Session{}).Model(&models.Part{}).Count(&count).Error; err != nil {
		return 0, utils.NewSystemError("DATABASE_ERROR", err)
	}
	if int(count)+1 > e.maxCascadeSize {
		return 0, cascadeTooLarge(e.maxCascadeSize)
	}
	result := scope.Session(&gorm.Session{}).Delete(&models.Part{})
	if result.Error != nil {
		return 0, utils.NewSystemError("DATABASE_ERROR", result.Error)
	}
	return int(result.RowsAffected), nil
}

func partsUnder(tx *gorm.DB, workOrderID string, kind models.ParentKind, parentIDs []string) *gorm.DB {
	return tx.Where("work_order_id = ? AND parent_kind = ? AND parent_id IN ?", workOrderID, kind, parentIDs)
}

func deleteRoot(tx *gorm.DB, value interface{}) error {
	result := tx.Delete(value)
	if result.Error != nil {
		return utils.NewSystemError("DATABASE_ERROR", result.Error)
	}
	if result.RowsAffected != 1 {
		return utils.NewSystemError("DATABASE_ERROR", fmt.Errorf("expected to delete 1 row, deleted %d", result.RowsAffected))
	}
	return nil
}

func cascadeTooLarge(limit int) error {
	return utils.NewValidationError("CASCADE_TOO_LARGE",
		fmt.Sprintf("Delete would remove more than %d items; split the operation", limit))
}

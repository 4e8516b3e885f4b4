package testutil

import (
	"fmt"
	"testing"

	"github.com/kendall-kelly/shopfloor-tracker-api/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// WorkOrderBuilder creates a work order and its hierarchy row by row.
// Every part is cut from the builder's default nest sheet unless stated otherwise.
type WorkOrderBuilder struct {
	t         *testing.T
	db        *gorm.DB
	WorkOrder models.WorkOrder
	Sheet     models.NestSheet
	items     int
}

// NewWorkOrder creates a work order with one default nest sheet
func NewWorkOrder(t *testing.T, db *gorm.DB, name string) *WorkOrderBuilder {
	t.Helper()

	b := &WorkOrderBuilder{t: t, db: db, WorkOrder: models.WorkOrder{Name: name}}
	require.NoError(t, db.Create(&b.WorkOrder).Error)
	b.Sheet = b.NestSheet("Sheet 1")
	return b
}

func (b *WorkOrderBuilder) itemNumber() string {
	b.items++
	return fmt.Sprintf("%03d", b.items)
}

func (b *WorkOrderBuilder) create(value interface{}) {
	b.t.Helper()
	require.NoError(b.t, b.db.Create(value).Error)
}

// NestSheet adds a nest sheet
func (b *WorkOrderBuilder) NestSheet(name string) models.NestSheet {
	sheet := models.NestSheet{WorkOrderID: b.WorkOrder.ID, Name: name, Material: "Maple Ply"}
	b.create(&sheet)
	return sheet
}

// Product adds a product
func (b *WorkOrderBuilder) Product(name string) models.Product {
	product := models.Product{WorkOrderID: b.WorkOrder.ID, Name: name, ItemNumber: b.itemNumber(), Quantity: 1}
	b.create(&product)
	return product
}

// DetachedProduct adds a detached product
func (b *WorkOrderBuilder) DetachedProduct(name string) models.DetachedProduct {
	detached := models.DetachedProduct{WorkOrderID: b.WorkOrder.ID, Name: name, ItemNumber: b.itemNumber(), Quantity: 1}
	b.create(&detached)
	return detached
}

// Subassembly adds a subassembly directly under a product
func (b *WorkOrderBuilder) Subassembly(name, productID string) models.Subassembly {
	sub := models.Subassembly{WorkOrderID: b.WorkOrder.ID, Name: name, ItemNumber: b.itemNumber(), ProductID: &productID, Quantity: 1}
	b.create(&sub)
	return sub
}

// ChildSubassembly adds a subassembly nested under another subassembly
func (b *WorkOrderBuilder) ChildSubassembly(name, parentID string) models.Subassembly {
	sub := models.Subassembly{WorkOrderID: b.WorkOrder.ID, Name: name, ItemNumber: b.itemNumber(), ParentSubassemblyID: &parentID, Quantity: 1}
	b.create(&sub)
	return sub
}

// Part adds a part with the given parent and status
func (b *WorkOrderBuilder) Part(name string, kind models.ParentKind, parentID string, status models.Status) models.Part {
	return b.PartOnSheet(name, kind, parentID, status, b.Sheet.ID)
}

// PartOnSheet adds a part cut from a specific nest sheet
func (b *WorkOrderBuilder) PartOnSheet(name string, kind models.ParentKind, parentID string, status models.Status, sheetID string) models.Part {
	part := models.Part{
		WorkOrderID: b.WorkOrder.ID,
		ParentKind:  kind,
		ParentID:    parentID,
		NestSheetID: sheetID,
		ItemNumber:  b.itemNumber(),
		Name:        name,
		Quantity:    1,
		Status:      status,
	}
	b.create(&part)
	return part
}

// Parts adds count pending parts under one parent
func (b *WorkOrderBuilder) Parts(count int, kind models.ParentKind, parentID string) []models.Part {
	parts := make([]models.Part, 0, count)
	for i := 0; i < count; i++ {
		parts = append(parts, b.Part(fmt.Sprintf("Panel %d", i+1), kind, parentID, models.StatusPending))
	}
	return parts
}

// Hardware adds hardware, optionally tied to a product
func (b *WorkOrderBuilder) Hardware(name string, productID *string) models.Hardware {
	hw := models.Hardware{WorkOrderID: b.WorkOrder.ID, Name: name, ItemNumber: b.itemNumber(), ProductID: productID, Quantity: 2}
	b.create(&hw)
	return hw
}

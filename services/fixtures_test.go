package services

import (
	"fmt"
	"testing"

	"github.com/kendall-kelly/shopfloor-tracker-api/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory sqlite database with the schema migrated.
// A single connection keeps every query on the same in-memory database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return db
}

// workOrderFixture creates rows for one work order
type workOrderFixture struct {
	t         *testing.T
	db        *gorm.DB
	WorkOrder models.WorkOrder
	Sheet     models.NestSheet
	seq       int
}

func newWorkOrderFixture(t *testing.T, db *gorm.DB, name string) *workOrderFixture {
	t.Helper()

	f := &workOrderFixture{t: t, db: db, WorkOrder: models.WorkOrder{Name: name}}
	require.NoError(t, db.Create(&f.WorkOrder).Error)
	f.Sheet = f.nestSheet("Sheet 1")
	return f
}

func (f *workOrderFixture) nextItem() string {
	f.seq++
	return fmt.Sprintf("%03d", f.seq)
}

func (f *workOrderFixture) nestSheet(name string) models.NestSheet {
	f.t.Helper()
	sheet := models.NestSheet{WorkOrderID: f.WorkOrder.ID, Name: name, Material: "Maple"}
	require.NoError(f.t, f.db.Create(&sheet).Error)
	return sheet
}

func (f *workOrderFixture) product(name string) models.Product {
	f.t.Helper()
	product := models.Product{WorkOrderID: f.WorkOrder.ID, Name: name, ItemNumber: f.nextItem(), Quantity: 1}
	require.NoError(f.t, f.db.Create(&product).Error)
	return product
}

func (f *workOrderFixture) detachedProduct(name string) models.DetachedProduct {
	f.t.Helper()
	detached := models.DetachedProduct{WorkOrderID: f.WorkOrder.ID, Name: name, ItemNumber: f.nextItem(), Quantity: 1}
	require.NoError(f.t, f.db.Create(&detached).Error)
	return detached
}

func (f *workOrderFixture) subassembly(name string, productID string) models.Subassembly {
	f.t.Helper()
	sub := models.Subassembly{WorkOrderID: f.WorkOrder.ID, Name: name, ItemNumber: f.nextItem(), ProductID: &productID, Quantity: 1}
	require.NoError(f.t, f.db.Create(&sub).Error)
	return sub
}

func (f *workOrderFixture) childSubassembly(name string, parentID string) models.Subassembly {
	f.t.Helper()
	sub := models.Subassembly{WorkOrderID: f.WorkOrder.ID, Name: name, ItemNumber: f.nextItem(), ParentSubassemblyID: &parentID, Quantity: 1}
	require.NoError(f.t, f.db.Create(&sub).Error)
	return sub
}

func (f *workOrderFixture) part(name string, kind models.ParentKind, parentID string, status models.Status) models.Part {
	f.t.Helper()
	part := models.Part{
		WorkOrderID: f.WorkOrder.ID,
		ParentKind:  kind,
		ParentID:    parentID,
		NestSheetID: f.Sheet.ID,
		ItemNumber:  f.nextItem(),
		Name:        name,
		Quantity:    1,
		Status:      status,
	}
	require.NoError(f.t, f.db.Create(&part).Error)
	return part
}

func (f *workOrderFixture) parts(count int, kind models.ParentKind, parentID string) []models.Part {
	f.t.Helper()
	parts := make([]models.Part, 0, count)
	for i := 0; i < count; i++ {
		parts = append(parts, f.part(fmt.Sprintf("Panel %d", i+1), kind, parentID, models.StatusPending))
	}
	return parts
}

func (f *workOrderFixture) hardware(name string, productID *string) models.Hardware {
	f.t.Helper()
	hw := models.Hardware{WorkOrderID: f.WorkOrder.ID, Name: name, ItemNumber: f.nextItem(), ProductID: productID, Quantity: 4}
	require.NoError(f.t, f.db.Create(&hw).Error)
	return hw
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	return count
}

func intPtr(v int) *int {
	return &v
}

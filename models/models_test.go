package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableNames(t *testing.T) {
	assert.Equal(t, "work_orders", WorkOrder{}.TableName())
	assert.Equal(t, "products", Product{}.TableName())
	assert.Equal(t, "detached_products", DetachedProduct{}.TableName())
	assert.Equal(t, "subassemblies", Subassembly{}.TableName())
	assert.Equal(t, "parts", Part{}.TableName())
	assert.Equal(t, "hardware", Hardware{}.TableName())
	assert.Equal(t, "nest_sheets", NestSheet{}.TableName())
	assert.Equal(t, "audit_logs", AuditLog{}.TableName())
}

func TestStatusOrdinal(t *testing.T) {
	for i, status := range AllStatuses {
		assert.Equal(t, i, status.Ordinal(), "ordinal of %s", status)
	}
	assert.Equal(t, -1, Status("Painted").Ordinal())
	assert.True(t, StatusPending.Before(StatusCut))
	assert.True(t, StatusAssembled.Before(StatusShipped))
	assert.False(t, StatusShipped.Before(StatusShipped))
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Status
		wantErr bool
	}{
		{"pending", "Pending", StatusPending, false},
		{"shipped", "Shipped", StatusShipped, false},
		{"wrong case", "shipped", "", true},
		{"empty", "", "", true},
		{"unknown", "Painted", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStatus(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePartCategory(t *testing.T) {
	for _, category := range AllPartCategories {
		got, err := ParsePartCategory(string(category))
		require.NoError(t, err)
		assert.Equal(t, category, got)
	}

	_, err := ParsePartCategory("NotARealCategory")
	assert.Error(t, err)
}

func TestSubassemblyValidateParent(t *testing.T) {
	productID := "p1"
	parentID := "s0"
	self := "s1"

	tests := []struct {
		name    string
		sub     Subassembly
		wantErr bool
	}{
		{"product only", Subassembly{ID: "s1", ProductID: &productID}, false},
		{"parent only", Subassembly{ID: "s1", ParentSubassemblyID: &parentID}, false},
		{"both", Subassembly{ID: "s1", ProductID: &productID, ParentSubassemblyID: &parentID}, true},
		{"neither", Subassembly{ID: "s1"}, true},
		{"own parent", Subassembly{ID: "s1", ParentSubassemblyID: &self}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sub.ValidateParent()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSubassemblyParent)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPartBeforeSave(t *testing.T) {
	part := Part{ID: "x", ParentKind: ParentProduct, ParentID: "p1"}
	assert.ErrorIs(t, part.BeforeSave(nil), ErrMissingNestSheet)

	part.NestSheetID = "n1"
	assert.NoError(t, part.BeforeSave(nil))

	part.ParentKind = "cabinet"
	assert.Error(t, part.BeforeSave(nil))
}

func TestPartBeforeCreateDefaults(t *testing.T) {
	part := Part{}
	require.NoError(t, part.BeforeCreate(nil))
	assert.NotEmpty(t, part.ID)
	assert.Equal(t, StatusPending, part.Status)
	assert.Equal(t, CategoryStandard, part.Category)
}

func TestNestSheetDisplayStatus(t *testing.T) {
	assert.Equal(t, "Unprocessed", NestSheet{}.DisplayStatus())
	assert.Equal(t, "Processed", NestSheet{IsProcessed: true}.DisplayStatus())
}

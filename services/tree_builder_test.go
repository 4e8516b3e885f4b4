package services

import (
	"fmt"
	"testing"

	"github.com/kendall-kelly/shopfloor-tracker-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// kitchenGraph builds one product with parts, a nested subassembly chain and
// hardware, one detached product and one nest sheet.
func kitchenGraph() *WorkOrderGraph {
	productID := "prod-1"
	subID := "sub-1"
	childID := "sub-2"

	return NewWorkOrderGraph(
		models.WorkOrder{ID: "wo-1", Name: "Kitchen Remodel"},
		[]models.Product{{ID: productID, WorkOrderID: "wo-1", ItemNumber: "100", Name: "Base Cabinet", Quantity: 2}},
		[]models.DetachedProduct{{ID: "det-1", WorkOrderID: "wo-1", ItemNumber: "200", Name: "Filler Strip", Quantity: 1, Status: models.StatusShipped}},
		[]models.NestSheet{{ID: "sheet-1", WorkOrderID: "wo-1", Name: "Sheet 1", IsProcessed: true}},
		[]models.Subassembly{
			{ID: subID, WorkOrderID: "wo-1", ProductID: &productID, ItemNumber: "110", Name: "Drawer Box", Quantity: 1},
			{ID: childID, WorkOrderID: "wo-1", ParentSubassemblyID: &subID, ItemNumber: "111", Name: "Drawer Bottom", Quantity: 1},
		},
		[]models.Hardware{
			{ID: "hw-1", WorkOrderID: "wo-1", ProductID: &productID, Name: "Hinge", Quantity: 4, Status: models.StatusSorted},
			{ID: "hw-loose", WorkOrderID: "wo-1", Name: "Screws", Quantity: 100},
		},
		[]models.Part{
			{ID: "p1", ParentKind: models.ParentProduct, ParentID: productID, NestSheetID: "sheet-1", Name: "Side", Quantity: 2, Status: models.StatusCut, Category: models.CategoryCarcass},
			{ID: "p2", ParentKind: models.ParentProduct, ParentID: productID, NestSheetID: "sheet-1", Name: "Back", Quantity: 1, Status: models.StatusSorted, Category: models.CategoryStandard},
			{ID: "p3", ParentKind: models.ParentSubassembly, ParentID: subID, NestSheetID: "sheet-1", Name: "Drawer Side", Quantity: 2, Status: models.StatusAssembled, Category: models.CategoryStandard},
			{ID: "p4", ParentKind: models.ParentSubassembly, ParentID: childID, NestSheetID: "sheet-1", Name: "Bottom Panel", Quantity: 1, Status: models.StatusPending, Category: models.CategoryStandard},
			{ID: "p5", ParentKind: models.ParentDetachedProduct, ParentID: "det-1", NestSheetID: "sheet-1", Name: "Filler", Quantity: 1, Status: models.StatusCut, Category: models.CategorySpecial},
		},
	)
}

func findChild(t *testing.T, node *TreeNode, name string) *TreeNode {
	t.Helper()
	for _, child := range node.Children {
		if child.Name == name {
			return child
		}
	}
	require.Failf(t, "child not found", "%q has no child named %q", node.Name, name)
	return nil
}

func assertNoEmptyCategories(t *testing.T, nodes []*TreeNode) {
	t.Helper()
	for _, node := range nodes {
		if node.Type == NodeCategory {
			assert.NotEmpty(t, node.Children, "category %s is empty", node.ID)
			assert.Equal(t, len(node.Children), node.Quantity)
		}
		assertNoEmptyCategories(t, node.Children)
	}
}

func TestBuildTreeTopLevelCategories(t *testing.T) {
	tree := BuildTree(kitchenGraph(), TreeOptions{})

	assert.Equal(t, "wo-1", tree.WorkOrderID)
	assert.Equal(t, "Kitchen Remodel", tree.WorkOrderName)
	assert.Nil(t, tree.Pagination)
	require.Len(t, tree.Items, 3)
	assert.Equal(t, LabelProducts, tree.Items[0].Name)
	assert.Equal(t, LabelDetachedProducts, tree.Items[1].Name)
	assert.Equal(t, LabelNestSheets, tree.Items[2].Name)
	assert.Equal(t, "wo-1:products", tree.Items[0].ID)
	assertNoEmptyCategories(t, tree.Items)
}

func TestBuildTreeOmitsEmptyCategories(t *testing.T) {
	productID := "prod-1"
	graph := NewWorkOrderGraph(
		models.WorkOrder{ID: "wo-2", Name: "Vanity"},
		[]models.Product{
			{ID: productID, Name: "Vanity Base"},
			{ID: "prod-empty", Name: "Placeholder"},
		},
		nil, nil, nil, nil,
		[]models.Part{{ID: "p1", ParentKind: models.ParentProduct, ParentID: productID, NestSheetID: "missing", Name: "Side"}},
	)

	tree := BuildTree(graph, TreeOptions{})

	require.Len(t, tree.Items, 1)
	products := tree.Items[0]
	require.Len(t, products.Children, 2)

	withParts := products.Children[0]
	require.Len(t, withParts.Children, 1)
	assert.Equal(t, LabelParts, withParts.Children[0].Name)

	assert.Empty(t, products.Children[1].Children)
	assertNoEmptyCategories(t, tree.Items)
}

func TestBuildTreeEmptyWorkOrder(t *testing.T) {
	tree := BuildTree(NewWorkOrderGraph(models.WorkOrder{ID: "wo-3"}, nil, nil, nil, nil, nil, nil), TreeOptions{IncludeStatus: true})

	assert.NotNil(t, tree.Items)
	assert.Empty(t, tree.Items)
}

func TestBuildTreeProductStructure(t *testing.T) {
	tree := BuildTree(kitchenGraph(), TreeOptions{IncludeStatus: true})

	product := tree.Items[0].Children[0]
	assert.Equal(t, NodeProduct, product.Type)
	assert.Equal(t, "Base Cabinet", product.Name)
	assert.Equal(t, 2, product.Quantity)
	assert.Equal(t, "Pending", product.Status)

	require.Len(t, product.Children, 3)
	parts := findChild(t, product, LabelParts)
	subs := findChild(t, product, LabelSubassemblies)
	hardware := findChild(t, product, LabelHardware)

	assert.Equal(t, "prod-1:parts", parts.ID)
	require.Len(t, parts.Children, 2)
	assert.Equal(t, "Carcass", parts.Children[0].Category)
	assert.Equal(t, "Cut", parts.Children[0].Status)

	require.Len(t, subs.Children, 1)
	drawer := subs.Children[0]
	assert.Equal(t, NodeSubassembly, drawer.Type)
	assert.Equal(t, "Assembled", drawer.Status, "subassembly status covers its own parts")
	require.Len(t, drawer.Children, 2)
	assert.Equal(t, NodePart, drawer.Children[0].Type)
	assert.Equal(t, NodeSubassembly, drawer.Children[1].Type)
	assert.Equal(t, "Pending", drawer.Children[1].Status)

	require.Len(t, hardware.Children, 1, "hardware without a product is not listed")
	assert.Equal(t, "Hinge", hardware.Children[0].Name)
	assert.Equal(t, "Sorted", hardware.Children[0].Status)
}

func TestBuildTreeProductStatusDrivenBySubassemblyParts(t *testing.T) {
	productID := "P1"
	subID := "S1"
	graph := NewWorkOrderGraph(
		models.WorkOrder{ID: "wo-1"},
		[]models.Product{{ID: productID, Name: "P1"}},
		nil, nil,
		[]models.Subassembly{{ID: subID, ProductID: &productID, Name: "S1"}},
		nil,
		[]models.Part{
			{ID: "a", ParentKind: models.ParentProduct, ParentID: productID, Status: models.StatusCut},
			{ID: "b", ParentKind: models.ParentProduct, ParentID: productID, Status: models.StatusSorted},
			{ID: "c", ParentKind: models.ParentSubassembly, ParentID: subID, Status: models.StatusPending},
		},
	)

	tree := BuildTree(graph, TreeOptions{IncludeStatus: true})

	assert.Equal(t, "Pending", tree.Items[0].Children[0].Status)
}

func TestBuildTreeDetachedStatusIsDerived(t *testing.T) {
	tree := BuildTree(kitchenGraph(), TreeOptions{IncludeStatus: true})

	detached := tree.Items[1].Children[0]
	assert.Equal(t, NodeDetachedProduct, detached.Type)
	assert.Equal(t, "Cut", detached.Status, "stored Shipped status is ignored")
	require.Len(t, detached.Children, 1)
	assert.Equal(t, NodePart, detached.Children[0].Type)
}

func TestBuildTreeNestSheets(t *testing.T) {
	tree := BuildTree(kitchenGraph(), TreeOptions{IncludeStatus: true})

	sheet := tree.Items[2].Children[0]
	assert.Equal(t, NodeNestSheet, sheet.Type)
	assert.Equal(t, "Processed", sheet.Status)
	assert.Equal(t, 1, sheet.Quantity)
	assert.Len(t, sheet.Children, 5)
}

func TestBuildTreeWithoutStatus(t *testing.T) {
	tree := BuildTree(kitchenGraph(), TreeOptions{})

	var walk func(nodes []*TreeNode)
	walk = func(nodes []*TreeNode) {
		for _, node := range nodes {
			assert.Empty(t, node.Status, node.ID)
			walk(node.Children)
		}
	}
	walk(tree.Items)
}

func TestBuildTreeItemNumbers(t *testing.T) {
	tree := BuildTree(kitchenGraph(), TreeOptions{ShowItemNumbers: true})

	product := tree.Items[0].Children[0]
	assert.Equal(t, "100 - Base Cabinet", product.Name)
	assert.Equal(t, "110 - Drawer Box", findChild(t, product, LabelSubassemblies).Children[0].Name)
	assert.Equal(t, "200 - Filler Strip", tree.Items[1].Children[0].Name)
	assert.Equal(t, "Sheet 1", tree.Items[2].Children[0].Name)
}

func TestBuildTreePagination(t *testing.T) {
	products := make([]models.Product, 250)
	for i := range products {
		products[i] = models.Product{ID: fmt.Sprintf("prod-%03d", i), Name: fmt.Sprintf("Product %d", i)}
	}
	graph := NewWorkOrderGraph(models.WorkOrder{ID: "wo-big"}, products, nil, nil, nil, nil, nil)

	tree := BuildTree(graph, TreeOptions{Page: intPtr(1), PageSize: intPtr(100)})

	require.NotNil(t, tree.Pagination)
	assert.Equal(t, 1, tree.Pagination.CurrentPage)
	assert.Equal(t, 100, tree.Pagination.PageSize)
	assert.Equal(t, 250, tree.Pagination.TotalItems)
	assert.Equal(t, 3, tree.Pagination.TotalPages)
	assert.True(t, tree.Pagination.HasNextPage)
	assert.True(t, tree.Pagination.HasPreviousPage)

	page := tree.Items[0].Children
	require.Len(t, page, 100)
	assert.Equal(t, "prod-100", page[0].ID)
	assert.Equal(t, "prod-199", page[99].ID)
	assert.Equal(t, 100, tree.Items[0].Quantity)
}

func TestBuildTreeLastPage(t *testing.T) {
	products := make([]models.Product, 250)
	for i := range products {
		products[i] = models.Product{ID: fmt.Sprintf("prod-%03d", i)}
	}
	graph := NewWorkOrderGraph(models.WorkOrder{ID: "wo-big"}, products, nil, nil, nil, nil, nil)

	tree := BuildTree(graph, TreeOptions{Page: intPtr(2), PageSize: intPtr(100)})

	assert.Len(t, tree.Items[0].Children, 50)
	assert.False(t, tree.Pagination.HasNextPage)
	assert.True(t, tree.Pagination.HasPreviousPage)
}

func TestBuildTreePageBeyondEndOmitsProducts(t *testing.T) {
	graph := NewWorkOrderGraph(
		models.WorkOrder{ID: "wo-1"},
		[]models.Product{{ID: "only"}},
		[]models.DetachedProduct{{ID: "det"}},
		nil, nil, nil, nil,
	)

	tree := BuildTree(graph, TreeOptions{Page: intPtr(5), PageSize: intPtr(10)})

	require.Len(t, tree.Items, 1)
	assert.Equal(t, LabelDetachedProducts, tree.Items[0].Name)
	assert.Equal(t, 1, tree.Pagination.TotalItems)
}

package services

import "github.com/kendall-kelly/shopfloor-tracker-api/models"

// WorkOrderGraph is the in-memory hierarchy of one work order, indexed by
// parent so tree materialization and rollups never go back to the store.
type WorkOrderGraph struct {
	WorkOrder        models.WorkOrder
	Products         []models.Product
	DetachedProducts []models.DetachedProduct
	NestSheets       []models.NestSheet
	Subassemblies    []models.Subassembly
	Hardware         []models.Hardware
	Parts            []models.Part

	partsByParent     map[parentKey][]models.Part
	partsByNestSheet  map[string][]models.Part
	rootSubsByProduct map[string][]models.Subassembly
	childSubsByParent map[string][]models.Subassembly
	hardwareByProduct map[string][]models.Hardware
}

type parentKey struct {
	kind models.ParentKind
	id   string
}

// NewWorkOrderGraph indexes the supplied rows. Input slice order is
// preserved within every index.
func NewWorkOrderGraph(
	workOrder models.WorkOrder,
	products []models.Product,
	detached []models.DetachedProduct,
	nestSheets []models.NestSheet,
	subassemblies []models.Subassembly,
	hardware []models.Hardware,
	parts []models.Part,
) *WorkOrderGraph {
	g := &WorkOrderGraph{
		WorkOrder:         workOrder,
		Products:          products,
		DetachedProducts:  detached,
		NestSheets:        nestSheets,
		Subassemblies:     subassemblies,
		Hardware:          hardware,
		Parts:             parts,
		partsByParent:     make(map[parentKey][]models.Part),
		partsByNestSheet:  make(map[string][]models.Part),
		rootSubsByProduct: make(map[string][]models.Subassembly),
		childSubsByParent: make(map[string][]models.Subassembly),
		hardwareByProduct: make(map[string][]models.Hardware),
	}

	for _, part := range parts {
		key := parentKey{kind: part.ParentKind, id: part.ParentID}
		g.partsByParent[key] = append(g.partsByParent[key], part)
		g.partsByNestSheet[part.NestSheetID] = append(g.partsByNestSheet[part.NestSheetID], part)
	}
	for _, sub := range subassemblies {
		switch {
		case sub.ParentSubassemblyID != nil && *sub.ParentSubassemblyID != "":
			g.childSubsByParent[*sub.ParentSubassemblyID] = append(g.childSubsByParent[*sub.ParentSubassemblyID], sub)
		case sub.ProductID != nil:
			g.rootSubsByProduct[*sub.ProductID] = append(g.rootSubsByProduct[*sub.ProductID], sub)
		}
	}
	for _, hw := range hardware {
		if hw.ProductID != nil {
			g.hardwareByProduct[*hw.ProductID] = append(g.hardwareByProduct[*hw.ProductID], hw)
		}
	}
	return g
}

// ProductParts returns the parts directly under a product.
func (g *WorkOrderGraph) ProductParts(productID string) []models.Part {
	return g.partsByParent[parentKey{kind: models.ParentProduct, id: productID}]
}

// DetachedProductParts returns the parts that point at a detached product.
func (g *WorkOrderGraph) DetachedProductParts(detachedID string) []models.Part {
	return g.partsByParent[parentKey{kind: models.ParentDetachedProduct, id: detachedID}]
}

// SubassemblyParts returns the parts directly under a subassembly.
func (g *WorkOrderGraph) SubassemblyParts(subassemblyID string) []models.Part {
	return g.partsByParent[parentKey{kind: models.ParentSubassembly, id: subassemblyID}]
}

// NestSheetParts returns the parts cut from a sheet.
func (g *WorkOrderGraph) NestSheetParts(nestSheetID string) []models.Part {
	return g.partsByNestSheet[nestSheetID]
}

// ProductSubassemblies returns the subassemblies whose direct parent is the product.
func (g *WorkOrderGraph) ProductSubassemblies(productID string) []models.Subassembly {
	return g.rootSubsByProduct[productID]
}

// ChildSubassemblies returns the subassemblies nested directly under a subassembly.
func (g *WorkOrderGraph) ChildSubassemblies(subassemblyID string) []models.Subassembly {
	return g.childSubsByParent[subassemblyID]
}

// ProductHardware returns hardware associated with a product.
func (g *WorkOrderGraph) ProductHardware(productID string) []models.Hardware {
	return g.hardwareByProduct[productID]
}

// FlattenProductParts returns a product's direct parts plus the parts of
// every subassembly in its descendant subtree.
func (g *WorkOrderGraph) FlattenProductParts(productID string) []models.Part {
	parts := append([]models.Part(nil), g.ProductParts(productID)...)
	visited := make(map[string]bool)
	for _, sub := range g.ProductSubassemblies(productID) {
		parts = g.appendSubtreeParts(parts, sub.ID, visited)
	}
	return parts
}

// flattenSubassemblyParts returns the parts of a subassembly and all of its descendants.
func (g *WorkOrderGraph) flattenSubassemblyParts(subassemblyID string) []models.Part {
	return g.appendSubtreeParts(nil, subassemblyID, make(map[string]bool))
}

func (g *WorkOrderGraph) appendSubtreeParts(parts []models.Part, subassemblyID string, visited map[string]bool) []models.Part {
	// Acyclicity is enforced on write; visited only stops a corrupt row from looping forever.
	if visited[subassemblyID] {
		return parts
	}
	visited[subassemblyID] = true

	parts = append(parts, g.SubassemblyParts(subassemblyID)...)
	for _, child := range g.ChildSubassemblies(subassemblyID) {
		parts = g.appendSubtreeParts(parts, child.ID, visited)
	}
	return parts
}

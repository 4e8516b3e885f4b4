package services

import (
	"fmt"

	"github.com/kendall-kelly/shopfloor-tracker-api/models"
	"github.com/kendall-kelly/shopfloor-tracker-api/utils"
)

// NodeType discriminates tree nodes for the client
type NodeType string

const (
	NodeCategory        NodeType = "category"
	NodeProduct         NodeType = "product"
	NodePart            NodeType = "part"
	NodeSubassembly     NodeType = "subassembly"
	NodeHardware        NodeType = "hardware"
	NodeDetachedProduct NodeType = "detached_product"
	NodeNestSheet       NodeType = "nestsheet"
)

// Category labels. Every entry point renders the same labels.
const (
	LabelProducts         = "Products"
	LabelDetachedProducts = "Detached Products"
	LabelNestSheets       = "Nest Sheets"
	LabelParts            = "Parts"
	LabelSubassemblies    = "Subassemblies"
	LabelHardware         = "Hardware"
)

// TreeNode is one entry of the presentation tree
type TreeNode struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Type     NodeType    `json:"type"`
	Quantity int         `json:"quantity"`
	Status   string      `json:"status,omitempty"`
	Category string      `json:"category,omitempty"`
	Children []*TreeNode `json:"children"`
}

// TreeOptions controls what BuildTree computes. Status rollups walk every
// descendant part, so they are opt-in. Pagination only applies to the
// Products collection and is enabled by a non-nil PageSize.
type TreeOptions struct {
	IncludeStatus   bool
	ShowItemNumbers bool
	Page            *int
	PageSize        *int
}

// Paginated reports whether the Products collection should be paged
func (o TreeOptions) Paginated() bool {
	return o.PageSize != nil && *o.PageSize > 0
}

// TreeResponse is a materialized work order tree
type TreeResponse struct {
	WorkOrderID   string            `json:"work_order_id"`
	WorkOrderName string            `json:"work_order_name"`
	Items         []*TreeNode       `json:"items"`
	Pagination    *utils.Pagination `json:"pagination,omitempty"`
}

// TreeBuilder renders a WorkOrderGraph into a categorized tree
type TreeBuilder struct {
	options TreeOptions
}

// NewTreeBuilder creates a builder for the given options
func NewTreeBuilder(options TreeOptions) *TreeBuilder {
	return &TreeBuilder{options: options}
}

// BuildTree is shorthand for NewTreeBuilder(options).Build(graph)
func BuildTree(graph *WorkOrderGraph, options TreeOptions) *TreeResponse {
	return NewTreeBuilder(options).Build(graph)
}

// Build materializes the tree. Category nodes are only emitted when they
// would have at least one child.
func (b *TreeBuilder) Build(graph *WorkOrderGraph) *TreeResponse {
	response := &TreeResponse{
		WorkOrderID:   graph.WorkOrder.ID,
		WorkOrderName: graph.WorkOrder.Name,
		Items:         []*TreeNode{},
	}

	products := graph.Products
	if b.options.Paginated() {
		page := 0
		if b.options.Page != nil && *b.options.Page > 0 {
			page = *b.options.Page
		}
		pageSize := *b.options.PageSize
		pagination := utils.NewPagination(page, pageSize, len(graph.Products))
		response.Pagination = &pagination

		start, end := utils.PageBounds(page, pageSize, len(graph.Products))
		products = graph.Products[start:end]
	}

	productNodes := make([]*TreeNode, 0, len(products))
	for _, product := range products {
		productNodes = append(productNodes, b.productNode(graph, product))
	}
	appendCategory(&response.Items, graph.WorkOrder.ID+":products", LabelProducts, productNodes)

	detachedNodes := make([]*TreeNode, 0, len(graph.DetachedProducts))
	for _, detached := range graph.DetachedProducts {
		detachedNodes = append(detachedNodes, b.detachedProductNode(graph, detached))
	}
	appendCategory(&response.Items, graph.WorkOrder.ID+":detached_products", LabelDetachedProducts, detachedNodes)

	nestSheetNodes := make([]*TreeNode, 0, len(graph.NestSheets))
	for _, sheet := range graph.NestSheets {
		nestSheetNodes = append(nestSheetNodes, b.nestSheetNode(graph, sheet))
	}
	appendCategory(&response.Items, graph.WorkOrder.ID+":nest_sheets", LabelNestSheets, nestSheetNodes)

	return response
}

func (b *TreeBuilder) productNode(graph *WorkOrderGraph, product models.Product) *TreeNode {
	node := &TreeNode{
		ID:       product.ID,
		Name:     b.displayName(product.ItemNumber, product.Name),
		Type:     NodeProduct,
		Quantity: product.Quantity,
		Children: []*TreeNode{},
	}
	if b.options.IncludeStatus {
		node.Status = EffectiveStatus(graph.FlattenProductParts(product.ID)).String()
	}

	appendCategory(&node.Children, product.ID+":parts", LabelParts, b.partNodes(graph.ProductParts(product.ID)))

	subs := graph.ProductSubassemblies(product.ID)
	subNodes := make([]*TreeNode, 0, len(subs))
	visited := make(map[string]bool)
	for _, sub := range subs {
		subNodes = append(subNodes, b.subassemblyNode(graph, sub, visited))
	}
	appendCategory(&node.Children, product.ID+":subassemblies", LabelSubassemblies, subNodes)

	hardware := graph.ProductHardware(product.ID)
	hardwareNodes := make([]*TreeNode, 0, len(hardware))
	for _, hw := range hardware {
		hardwareNodes = append(hardwareNodes, b.hardwareNode(hw))
	}
	appendCategory(&node.Children, product.ID+":hardware", LabelHardware, hardwareNodes)

	return node
}

// subassemblyNode lists the subassembly's own parts followed by its nested
// subassemblies. Its displayed status covers direct parts only.
func (b *TreeBuilder) subassemblyNode(graph *WorkOrderGraph, sub models.Subassembly, visited map[string]bool) *TreeNode {
	visited[sub.ID] = true

	parts := graph.SubassemblyParts(sub.ID)
	node := &TreeNode{
		ID:       sub.ID,
		Name:     b.displayName(sub.ItemNumber, sub.Name),
		Type:     NodeSubassembly,
		Quantity: sub.Quantity,
		Children: b.partNodes(parts),
	}
	if b.options.IncludeStatus {
		node.Status = EffectiveStatus(parts).String()
	}

	for _, child := range graph.ChildSubassemblies(sub.ID) {
		if visited[child.ID] {
			continue
		}
		node.Children = append(node.Children, b.subassemblyNode(graph, child, visited))
	}
	return node
}

func (b *TreeBuilder) detachedProductNode(graph *WorkOrderGraph, detached models.DetachedProduct) *TreeNode {
	parts := graph.DetachedProductParts(detached.ID)
	node := &TreeNode{
		ID:       detached.ID,
		Name:     b.displayName(detached.ItemNumber, detached.Name),
		Type:     NodeDetachedProduct,
		Quantity: detached.Quantity,
		Children: b.partNodes(parts),
	}
	if b.options.IncludeStatus {
		node.Status = EffectiveStatus(parts).String()
	}
	return node
}

func (b *TreeBuilder) nestSheetNode(graph *WorkOrderGraph, sheet models.NestSheet) *TreeNode {
	node := &TreeNode{
		ID:       sheet.ID,
		Name:     sheet.Name,
		Type:     NodeNestSheet,
		Quantity: 1,
		Children: b.partNodes(graph.NestSheetParts(sheet.ID)),
	}
	if b.options.IncludeStatus {
		node.Status = sheet.DisplayStatus()
	}
	return node
}

func (b *TreeBuilder) hardwareNode(hw models.Hardware) *TreeNode {
	node := &TreeNode{
		ID:       hw.ID,
		Name:     hw.Name,
		Type:     NodeHardware,
		Quantity: hw.Quantity,
		Children: []*TreeNode{},
	}
	if b.options.IncludeStatus {
		node.Status = hw.Status.String()
	}
	return node
}

func (b *TreeBuilder) partNodes(parts []models.Part) []*TreeNode {
	nodes := make([]*TreeNode, 0, len(parts))
	for _, part := range parts {
		node := &TreeNode{
			ID:       part.ID,
			Name:     part.Name,
			Type:     NodePart,
			Quantity: part.Quantity,
			Category: string(part.Category),
			Children: []*TreeNode{},
		}
		if b.options.IncludeStatus {
			node.Status = part.Status.String()
		}
		nodes = append(nodes, node)
	}
	return nodes
}

func (b *TreeBuilder) displayName(itemNumber, name string) string {
	if b.options.ShowItemNumbers && itemNumber != "" {
		return fmt.Sprintf("%s - %s", itemNumber, name)
	}
	return name
}

func appendCategory(target *[]*TreeNode, id, label string, children []*TreeNode) {
	if len(children) == 0 {
		return
	}
	*target = append(*target, &TreeNode{
		ID:       id,
		Name:     label,
		Type:     NodeCategory,
		Quantity: len(children),
		Children: children,
	})
}

package services

import (
	"context"
	"strings"

	"github.com/kendall-kelly/shopfloor-tracker-api/models"
	"github.com/kendall-kelly/shopfloor-tracker-api/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// WorkOrderService serves read-only views of work orders. Every call
// recomputes from the store; nothing is cached.
type WorkOrderService struct {
	db          *gorm.DB
	logger      *zap.Logger
	maxPageSize int
}

// WorkOrderSummary is a work order with entity counts and a part status histogram
type WorkOrderSummary struct {
	WorkOrder            models.WorkOrder      `json:"work_order"`
	ProductCount         int                   `json:"product_count"`
	DetachedProductCount int                   `json:"detached_product_count"`
	SubassemblyCount     int                   `json:"subassembly_count"`
	PartCount            int                   `json:"part_count"`
	HardwareCount        int                   `json:"hardware_count"`
	NestSheetCount       int                   `json:"nest_sheet_count"`
	PartStatusCounts     map[models.Status]int `json:"part_status_counts"`
	EffectiveStatus      models.Status         `json:"effective_status"`
}

// NewWorkOrderService creates a read service. maxPageSize bounds page_size on
// every paged call.
func NewWorkOrderService(db *gorm.DB, logger *zap.Logger, maxPageSize int) *WorkOrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkOrderService{db: db, logger: logger, maxPageSize: maxPageSize}
}

// GetTree loads a work order and materializes its presentation tree
func (s *WorkOrderService) GetTree(ctx context.Context, workOrderID string, options TreeOptions) (*TreeResponse, error) {
	if options.PageSize != nil {
		page := 0
		if options.Page != nil {
			page = *options.Page
		}
		if err := utils.ValidatePage(page, *options.PageSize, s.maxPageSize); err != nil {
			return nil, err
		}
	} else if options.Page != nil {
		return nil, utils.NewValidationError("INVALID_PAGE_SIZE", "page_size is required when page is set")
	}

	graph, err := s.LoadGraph(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	return BuildTree(graph, options), nil
}

// GetSummary returns counts and the status histogram for a work order
func (s *WorkOrderService) GetSummary(ctx context.Context, workOrderID string) (*WorkOrderSummary, error) {
	graph, err := s.LoadGraph(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	return &WorkOrderSummary{
		WorkOrder:            graph.WorkOrder,
		ProductCount:         len(graph.Products),
		DetachedProductCount: len(graph.DetachedProducts),
		SubassemblyCount:     len(graph.Subassemblies),
		PartCount:            len(graph.Parts),
		HardwareCount:        len(graph.Hardware),
		NestSheetCount:       len(graph.NestSheets),
		PartStatusCounts:     StatusCounts(graph.Parts),
		EffectiveStatus:      EffectiveStatus(graph.Parts),
	}, nil
}

// ListWorkOrders pages through work orders, most recently imported first
func (s *WorkOrderService) ListWorkOrders(ctx context.Context, includeArchived bool, page, pageSize int) ([]models.WorkOrder, utils.Pagination, error) {
	if err := utils.ValidatePage(page, pageSize, s.maxPageSize); err != nil {
		return nil, utils.Pagination{}, err
	}

	query := s.db.WithContext(ctx).Model(&models.WorkOrder{})
	if !includeArchived {
		query = query.Where("is_archived = ?", false)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, utils.Pagination{}, s.systemError("list work orders", err)
	}

	var workOrders []models.WorkOrder
	if err := query.Session(&gorm.Session{}).
		Order("imported_date DESC, id ASC").
		Offset(page * pageSize).
		Limit(pageSize).
		Find(&workOrders).Error; err != nil {
		return nil, utils.Pagination{}, s.systemError("list work orders", err)
	}

	return workOrders, utils.NewPagination(page, pageSize, int(total)), nil
}

// ListAudit pages through a work order's audit trail, newest first
func (s *WorkOrderService) ListAudit(ctx context.Context, workOrderID string, page, pageSize int) ([]models.AuditLog, utils.Pagination, error) {
	if err := utils.ValidatePage(page, pageSize, s.maxPageSize); err != nil {
		return nil, utils.Pagination{}, err
	}
	if _, err := s.findWorkOrder(ctx, workOrderID); err != nil {
		return nil, utils.Pagination{}, err
	}

	rows, total, err := NewGormAuditRecorder(s.db).ListByWorkOrder(ctx, workOrderID, page, pageSize)
	if err != nil {
		return nil, utils.Pagination{}, s.systemError("list audit", err, zap.String("work_order_id", workOrderID))
	}
	return rows, utils.NewPagination(page, pageSize, int(total)), nil
}

// LoadGraph reads every row belonging to a work order and indexes it
func (s *WorkOrderService) LoadGraph(ctx context.Context, workOrderID string) (*WorkOrderGraph, error) {
	workOrder, err := s.findWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, err
	}

	var (
		products      []models.Product
		detached      []models.DetachedProduct
		nestSheets    []models.NestSheet
		subassemblies []models.Subassembly
		hardware      []models.Hardware
		parts         []models.Part
	)
	db := s.db.WithContext(ctx)
	loads := []struct {
		table string
		dest  interface{}
	}{
		{"products", &products},
		{"detached_products", &detached},
		{"nest_sheets", &nestSheets},
		{"subassemblies", &subassemblies},
		{"hardware", &hardware},
		{"parts", &parts},
	}
	for _, load := range loads {
		if err := db.Where("work_order_id = ?", workOrder.ID).Order("created_at ASC, id ASC").Find(load.dest).Error; err != nil {
			return nil, s.systemError("load work order graph", err,
				zap.String("work_order_id", workOrder.ID), zap.String("table", load.table))
		}
	}

	return NewWorkOrderGraph(workOrder, products, detached, nestSheets, subassemblies, hardware, parts), nil
}

func (s *WorkOrderService) findWorkOrder(ctx context.Context, workOrderID string) (models.WorkOrder, error) {
	var workOrder models.WorkOrder
	if strings.TrimSpace(workOrderID) == "" {
		return workOrder, utils.NewValidationError("MISSING_WORK_ORDER_ID", "Work order ID is required")
	}
	err := s.db.WithContext(ctx).Where("id = ?", workOrderID).First(&workOrder).Error
	if err != nil {
		svcErr := utils.AsServiceError(lookupError(err, "WORK_ORDER_NOT_FOUND", "Work order not found"))
		if svcErr.Kind == utils.KindSystem {
			s.logger.Error("Failed to load work order", zap.String("work_order_id", workOrderID), zap.Error(err))
		}
		return workOrder, svcErr
	}
	return workOrder, nil
}

func (s *WorkOrderService) systemError(operation string, err error, fields ...zap.Field) error {
	s.logger.Error("Work order read failed", append(fields, zap.String("operation", operation), zap.Error(err))...)
	return utils.NewSystemError("DATABASE_ERROR", err)
}

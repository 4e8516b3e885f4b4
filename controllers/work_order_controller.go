package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/shopfloor-tracker-api/services"
)

// ListWorkOrders handles GET /api/v1/work-orders
func ListWorkOrders(c *gin.Context) {
	includeArchived, err := queryBool(c, "include_archived", false)
	if err != nil {
		respondError(c, err)
		return
	}
	page, pageSize, err := pageParams(c)
	if err != nil {
		respondError(c, err)
		return
	}

	workOrders, pagination, err := workOrderService().ListWorkOrders(c.Request.Context(), includeArchived, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       workOrders,
		"pagination": pagination,
	})
}

// GetWorkOrder handles GET /api/v1/work-orders/:id and returns the work order summary
func GetWorkOrder(c *gin.Context) {
	summary, err := workOrderService().GetSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    summary,
	})
}

// GetWorkOrderTree handles GET /api/v1/work-orders/:id/tree
func GetWorkOrderTree(c *gin.Context) {
	var options services.TreeOptions
	var err error

	if options.IncludeStatus, err = queryBool(c, "include_status", false); err != nil {
		respondError(c, err)
		return
	}
	if options.ShowItemNumbers, err = queryBool(c, "item_numbers", false); err != nil {
		respondError(c, err)
		return
	}
	if options.Page, err = queryInt(c, "page"); err != nil {
		respondError(c, err)
		return
	}
	if options.PageSize, err = queryInt(c, "page_size"); err != nil {
		respondError(c, err)
		return
	}

	tree, err := workOrderService().GetTree(c.Request.Context(), c.Param("id"), options)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tree,
	})
}

// ListAuditLogs handles GET /api/v1/work-orders/:id/audit
func ListAuditLogs(c *gin.Context) {
	page, pageSize, err := pageParams(c)
	if err != nil {
		respondError(c, err)
		return
	}

	rows, pagination, err := workOrderService().ListAudit(c.Request.Context(), c.Param("id"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       rows,
		"pagination": pagination,
	})
}

// ExportAuditLogs handles POST /api/v1/work-orders/:id/audit/export
func ExportAuditLogs(c *gin.Context) {
	archive, err := auditArchiver().Export(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    archive,
	})
}

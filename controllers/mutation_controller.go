package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/shopfloor-tracker-api/middleware"
	"github.com/kendall-kelly/shopfloor-tracker-api/models"
	"github.com/kendall-kelly/shopfloor-tracker-api/services"
	"github.com/kendall-kelly/shopfloor-tracker-api/utils"
)

// SetCategoryRequest is the body of a part reclassification
type SetCategoryRequest struct {
	Category string `json:"category" binding:"required"`
}

// SetStatusRequest is the body of a part or hardware status change
type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Force  bool   `json:"force"`
}

// MoveSubassemblyRequest is the body of a subassembly re-parent
type MoveSubassemblyRequest struct {
	ParentKind string `json:"parent_kind" binding:"required"`
	ParentID   string `json:"parent_id" binding:"required"`
}

// SetPartCategory handles PUT /api/v1/work-orders/:id/parts/:partId/category
func SetPartCategory(c *gin.Context) {
	var req SetCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	result, err := mutationEngine().SetPartCategory(c.Request.Context(),
		c.Param("partId"), req.Category, c.Param("id"), middleware.GetActor(c))
	respondMutation(c, result, err)
}

// SetPartStatus handles PUT /api/v1/work-orders/:id/parts/:partId/status
func SetPartStatus(c *gin.Context) {
	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	result, err := mutationEngine().SetPartStatus(c.Request.Context(),
		c.Param("partId"), req.Status, c.Param("id"), req.Force, middleware.GetActor(c))
	respondMutation(c, result, err)
}

// SetHardwareStatus handles PUT /api/v1/work-orders/:id/hardware/:hardwareId/status
func SetHardwareStatus(c *gin.Context) {
	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	result, err := mutationEngine().SetHardwareStatus(c.Request.Context(),
		c.Param("hardwareId"), req.Status, c.Param("id"), req.Force, middleware.GetActor(c))
	respondMutation(c, result, err)
}

// MoveSubassembly handles PUT /api/v1/work-orders/:id/subassemblies/:subId/parent
func MoveSubassembly(c *gin.Context) {
	var req MoveSubassemblyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	target := services.ParentRef{Kind: models.ParentKind(req.ParentKind), ID: req.ParentID}
	result, err := mutationEngine().MoveSubassembly(c.Request.Context(),
		c.Param("subId"), target, c.Param("id"), middleware.GetActor(c))
	respondMutation(c, result, err)
}

// DeleteEntity handles DELETE /api/v1/work-orders/:id/:kind/:entityId
func DeleteEntity(c *gin.Context) {
	kind, err := services.ParseEntityKind(c.Param("kind"))
	if err != nil {
		respondMutation(c, services.MutationResult{Message: utils.AsServiceError(err).Message}, err)
		return
	}

	result, err := mutationEngine().DeleteEntity(c.Request.Context(),
		kind, c.Param("entityId"), c.Param("id"), middleware.GetActor(c))
	respondMutation(c, result, err)
}

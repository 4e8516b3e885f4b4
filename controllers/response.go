package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/shopfloor-tracker-api/services"
	"github.com/kendall-kelly/shopfloor-tracker-api/utils"
)

// statusFor maps the error taxonomy onto HTTP status codes
func statusFor(kind utils.ErrorKind) int {
	switch kind {
	case utils.KindNotFound:
		return http.StatusNotFound
	case utils.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	svcErr := utils.AsServiceError(err)
	if svcErr.Kind == utils.KindSystem {
		_ = c.Error(svcErr)
	}
	c.JSON(statusFor(svcErr.Kind), gin.H{
		"success": false,
		"error": gin.H{
			"code":    svcErr.Code,
			"message": svcErr.Message,
		},
	})
}

func respondMutation(c *gin.Context, result services.MutationResult, err error) {
	if err != nil {
		svcErr := utils.AsServiceError(err)
		if svcErr.Kind == utils.KindSystem {
			_ = c.Error(svcErr)
		}
		c.JSON(statusFor(svcErr.Kind), gin.H{
			"success":       false,
			"message":       result.Message,
			"items_deleted": result.ItemsDeleted,
			"error": gin.H{
				"code":    svcErr.Code,
				"message": svcErr.Message,
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       result.Message,
		"items_deleted": result.ItemsDeleted,
	})
}

func respondBindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		},
	})
}

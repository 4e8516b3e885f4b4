package controllers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/shopfloor-tracker-api/config"
	"github.com/kendall-kelly/shopfloor-tracker-api/services"
	"github.com/kendall-kelly/shopfloor-tracker-api/utils"
)

const defaultPageSize = 50

func limits() (maxCascadeSize, maxPageSize int) {
	maxCascadeSize, maxPageSize = config.DefaultMaxCascadeSize, config.DefaultMaxPageSize
	if cfg := config.GetConfig(); cfg != nil {
		maxCascadeSize, maxPageSize = cfg.MaxCascadeSize, cfg.MaxPageSize
	}
	return maxCascadeSize, maxPageSize
}

func workOrderService() *services.WorkOrderService {
	_, maxPageSize := limits()
	return services.NewWorkOrderService(config.GetDB(), config.GetLogger(), maxPageSize)
}

func mutationEngine() *services.MutationEngine {
	maxCascadeSize, _ := limits()
	return services.NewMutationEngine(config.GetDB(), services.GetAuditRecorder(), config.GetLogger(), maxCascadeSize)
}

func auditArchiver() *services.AuditArchiver {
	return services.NewAuditArchiver(config.GetDB(), services.GetS3Service(), config.GetLogger())
}

// queryInt parses an optional integer query parameter
func queryInt(c *gin.Context, name string) (*int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, utils.NewValidationError("INVALID_"+strings.ToUpper(name), name+" must be an integer")
	}
	return &value, nil
}

// queryBool parses an optional boolean query parameter
func queryBool(c *gin.Context, name string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, utils.NewValidationError("INVALID_"+strings.ToUpper(name), name+" must be true or false")
	}
	return value, nil
}

// pageParams reads page and page_size with list defaults
func pageParams(c *gin.Context) (page, pageSize int, err error) {
	pagePtr, err := queryInt(c, "page")
	if err != nil {
		return 0, 0, err
	}
	sizePtr, err := queryInt(c, "page_size")
	if err != nil {
		return 0, 0, err
	}
	page, pageSize = 0, defaultPageSize
	if pagePtr != nil {
		page = *pagePtr
	}
	if sizePtr != nil {
		pageSize = *sizePtr
	}
	return page, pageSize, nil
}

package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/mes-platform/scheduling-service/internal/application"
	apperrors "github.com/mes-platform/scheduling-service/pkg/errors"
	"github.com/mes-platform/scheduling-service/pkg/logging"
)

// Handlers contains HTTP handlers for planning endpoints
type Handlers struct {
	service *application.PlanningService
	logger  *logging.Logger
}

// NewHandlers creates new HTTP handlers
func NewHandlers(service *application.PlanningService, logger *logging.Logger) *Handlers {
	return &Handlers{
		service: service,
		logger:  logger.WithComponent("http"),
	}
}

// CreatePlan handles POST /api/v1/plans
func (h *Handlers) CreatePlan() gin.HandlerFunc {
	return func(c *gin.Context) {
		var cmd application.CreatePlanCommand
		if err := c.ShouldBindJSON(&cmd); err != nil {
			respondError(c, bindingError(err))
			return
		}

		result, err := h.service.CreatePlan(c.Request.Context(), cmd)
		if err != nil {
			h.logger.WithError(err).Error("Failed to create plan")
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, result)
	}
}

// GetPlan handles GET /api/v1/plans/:planId
func (h *Handlers) GetPlan() gin.HandlerFunc {
	return func(c *gin.Context) {
		planID := c.Param("planId")

		result, err := h.service.GetPlan(c.Request.Context(), planID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// ListPlans handles GET /api/v1/plans
func (h *Handlers) ListPlans() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

		result, err := h.service.ListPlans(c.Request.Context(), limit)
		if err != nil {
			h.logger.WithError(err).Error("Failed to list plans")
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"plans": result, "count": len(result)})
	}
}

// ExportPlan handles GET /api/v1/plans/:planId/export
func (h *Handlers) ExportPlan() gin.HandlerFunc {
	return func(c *gin.Context) {
		planID := c.Param("planId")

		var buf bytes.Buffer
		if err := h.service.ExportPlanCSV(c.Request.Context(), planID, &buf); err != nil {
			respondError(c, err)
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, planID))
		c.Data(http.StatusOK, "text/csv", buf.Bytes())
	}
}

// ListProducts handles GET /api/v1/products
func (h *Handlers) ListProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := h.service.ListProducts(c.Request.Context())
		if err != nil {
			h.logger.WithError(err).Error("Failed to list products")
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"products": result, "count": len(result)})
	}
}

// respondError maps application errors to HTTP responses.
func respondError(c *gin.Context, err error) {
	appErr := apperrors.FromError(err)
	c.JSON(appErr.HTTPStatus, gin.H{"error": appErr})
}

// bindingError converts gin binding failures into validation AppErrors with
// per-field details.
func bindingError(err error) *apperrors.AppError {
	if fieldErrors, ok := err.(validator.ValidationErrors); ok {
		fields := make(map[string]string, len(fieldErrors))
		for _, fe := range fieldErrors {
			fields[fe.Field()] = fmt.Sprintf("failed on %q validation", fe.Tag())
		}
		return apperrors.ErrValidationWithFields("validation failed", fields)
	}
	return apperrors.ErrBadRequest(fmt.Sprintf("invalid request body: %v", err))
}

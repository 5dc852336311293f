package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all planning routes
func RegisterRoutes(router *gin.Engine, handlers *Handlers) {
	plansAPI := router.Group("/api/v1/plans")
	{
		plansAPI.POST("", handlers.CreatePlan())
		plansAPI.GET("", handlers.ListPlans())
		plansAPI.GET("/:planId", handlers.GetPlan())
		plansAPI.GET("/:planId/export", handlers.ExportPlan())
	}

	productsAPI := router.Group("/api/v1/products")
	{
		productsAPI.GET("", handlers.ListProducts())
	}
}

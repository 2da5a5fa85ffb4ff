package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api")
	{
		api.GET("/health", handler.Health)
		api.POST("/login", handler.Login)
	}

	protected := api.Group("")
	protected.Use(handler.auth.RequireAuth())
	{
		protected.GET("/kpis", handler.GetPortfolioKPIs)
		protected.GET("/kpis/export", handler.ExportKPISummary)
		protected.GET("/alerts", handler.GetAlerts)
		protected.GET("/monthly-performance", handler.GetMonthlyPerformance)
		protected.GET("/monthly-performance/export", handler.ExportMonthlyPerformance)
		protected.GET("/property-performance", handler.GetPropertyPerformance)
		protected.GET("/property-performance/export", handler.ExportPropertyPerformance)
		protected.GET("/properties", handler.GetAllProperties)
		protected.POST("/properties", handler.CreateProperty)
		protected.POST("/financials", handler.UpsertFinancial)
		protected.DELETE("/financials/:id", handler.DeleteFinancial)
		protected.POST("/financials/import", handler.ImportFinancials)
	}
}

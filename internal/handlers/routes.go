package handlers

import (
	"savor/internal/middleware"

	"github.com/labstack/echo/v4"
)

// Router holds every handler group mounted on the API.
type Router struct {
	Health    *HealthHandlers
	Inventory *InventoryHandlers
	Receipts  *ReceiptHandlers
	Recipes   *RecipeHandlers
	Jobs      *JobHandlers // nil when background jobs are disabled
}

// Register mounts the health probes at the root and the API under /v1.
func (r *Router) Register(e *echo.Echo, versions *middleware.VersionMiddleware) {
	if r.Health != nil {
		e.GET("/health", r.Health.HealthCheck)
		e.GET("/health/live", r.Health.LivenessCheck)
		e.GET("/health/ready", r.Health.ReadinessCheck)
		e.GET("/health/detailed", r.Health.DetailedHealthCheck)
	}

	v1 := versions.VersionRoute(e, versions.GetCurrentVersion())
	v1.Use(middleware.Owner)

	inventory := v1.Group("/inventory")
	inventory.GET("", r.Inventory.ListInventory)
	inventory.POST("", r.Inventory.AddItem)
	inventory.POST("/batch", r.Inventory.ReconcileBatch)
	inventory.GET("/expiring", r.Inventory.ListExpiring)
	inventory.GET("/expired", r.Inventory.ListExpired)
	inventory.GET("/stats", r.Inventory.GetStats)
	inventory.GET("/:id", r.Inventory.GetItem)
	inventory.DELETE("/:id", r.Inventory.RemoveItem)
	inventory.POST("/:id/expire", r.Inventory.MarkExpired)
	inventory.PATCH("/:id/expiry", r.Inventory.UpdateExpiry)
	inventory.PATCH("/:id/quantity", r.Inventory.UpdateQuantity)
	inventory.PATCH("/:id/price", r.Inventory.UpdatePrice)
	inventory.POST("/:id/usage", r.Inventory.LogUsage)
	inventory.GET("/:id/logs", r.Inventory.ListLogs)

	receipts := v1.Group("/receipts")
	receipts.POST("/extract", r.Receipts.ExtractReceipt)
	receipts.POST("/scan", r.Receipts.ScanReceipt)

	v1.POST("/recipes/suggest", r.Recipes.SuggestRecipe)

	if r.Jobs != nil {
		v1.GET("/jobs", r.Jobs.ListJobs)
		v1.POST("/jobs/:name/run", r.Jobs.RunJob)
		v1.DELETE("/jobs/:name", r.Jobs.RemoveJob)
	}
}

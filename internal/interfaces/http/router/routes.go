package router

import (
	"github.com/aihaccp/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers bundles every HTTP handler of the API
type Handlers struct {
	System            *handler.SystemHandler
	Auth              *handler.AuthHandler
	Identity          *handler.IdentityHandler
	Product           *handler.ProductHandler
	Supplier          *handler.SupplierHandler
	TemperatureLog    *handler.TemperatureLogHandler
	Cleaning          *handler.CleaningHandler
	MaterialReception *handler.MaterialReceptionHandler
	Configuration     *handler.ConfigurationHandler
	Usage             *handler.UsageHandler
}

// RegisterAPI mounts /health on the engine and the versioned API on r.
// Authentication is applied globally by the caller; public paths are
// exempted by the JWT middleware itself.
func RegisterAPI(engine *gin.Engine, r *Router, h Handlers) {
	engine.GET("/health", h.System.Health)

	system := NewDomainGroup("system", "")
	system.GET("/help", h.System.Help)

	identity := NewDomainGroup("identity", "")
	identity.POST("/organizations", h.Identity.CreateOrganization).
		GET("/organizations/current", h.Identity.CurrentOrganization).
		POST("/users", h.Identity.CreateUser).
		GET("/users", h.Identity.ListUsers)
	identity.Group("auth", "/auth").
		POST("/login", h.Auth.Login).
		POST("/logout", h.Auth.Logout).
		GET("/me", h.Auth.Me)

	records := NewDomainGroup("compliance", "")
	records.POST("/temperature-logs", h.TemperatureLog.Create).
		GET("/temperature-logs", h.TemperatureLog.List).
		POST("/products", h.Product.Create).
		GET("/products", h.Product.List).
		POST("/suppliers", h.Supplier.Create).
		GET("/suppliers", h.Supplier.List).
		POST("/cleaning-plans", h.Cleaning.CreatePlan).
		GET("/cleaning-plans", h.Cleaning.ListPlans).
		GET("/cleaning-plans/:id/room-cleanings", h.Cleaning.ListRoomCleanings).
		POST("/room-cleanings", h.Cleaning.MarkRoomCleaned).
		POST("/material-receptions", h.MaterialReception.Create).
		GET("/material-receptions", h.MaterialReception.List).
		POST("/material-receptions/analyze-image", h.MaterialReception.AnalyzeImage)

	metering := NewDomainGroup("metering", "")
	metering.Group("configuration", "/configuration").
		GET("", h.Configuration.List).
		GET("/temperature-ranges", h.Configuration.TemperatureRanges).
		POST("/pricing/seed", h.Configuration.SeedPricing).
		GET("/:parameter", h.Configuration.Get).
		PUT("/:parameter", h.Configuration.Set)
	metering.GET("/usage-report", h.Usage.Report).
		GET("/usage-records", h.Usage.Records).
		GET("/pricing/:action_type", h.Usage.Price)

	r.Register(system).Register(identity).Register(records).Register(metering)
	r.Setup()
}

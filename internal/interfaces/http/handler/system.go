package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/aihaccp/backend/internal/domain/metering"
	"github.com/aihaccp/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// Pinger checks database connectivity
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler serves liveness and API help
type SystemHandler struct {
	BaseHandler
	db      Pinger
	version string
	timeout time.Duration
}

// NewSystemHandler creates a new SystemHandler. db may be nil.
func NewSystemHandler(db Pinger, version string) *SystemHandler {
	return &SystemHandler{db: db, version: version, timeout: 2 * time.Second}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Database  string    `json:"database"`
	Version   string    `json:"version,omitempty"`
}

// Health godoc
// @Summary      Liveness and database connectivity
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Database:  "connected",
		Version:   h.version,
	}
	status := http.StatusOK

	if h.db == nil {
		resp.Database = "unconfigured"
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			resp.Status = "unhealthy"
			resp.Database = "disconnected"
			status = http.StatusServiceUnavailable
		}
	}
	c.JSON(status, resp)
}

// HelpEndpoint documents one route in the help document
type HelpEndpoint struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
	Public      bool   `json:"public,omitempty"`
}

// HelpDocument is the body of GET /api/v1/help
type HelpDocument struct {
	Name           string         `json:"name"`
	Version        string         `json:"version,omitempty"`
	Authentication string         `json:"authentication"`
	Endpoints      []HelpEndpoint `json:"endpoints"`

	// BillableActions are the action types charged by the built-in endpoints
	BillableActions []string `json:"billable_actions"`
}

var helpEndpoints = []HelpEndpoint{
	{http.MethodGet, "/health", "Service and database status", true},
	{http.MethodGet, "/api/v1/help", "This document", true},
	{http.MethodPost, "/api/v1/organizations", "Register an organization", true},
	{http.MethodPost, "/api/v1/users", "Register a user in an organization", true},
	{http.MethodPost, "/api/v1/auth/login", "Exchange credentials for a bearer token", true},
	{http.MethodPost, "/api/v1/auth/logout", "Revoke the current token", false},
	{http.MethodGet, "/api/v1/auth/me", "Current user", false},
	{http.MethodGet, "/api/v1/organizations/current", "Current organization", false},
	{http.MethodGet, "/api/v1/users", "Users of the current organization", false},
	{http.MethodPost, "/api/v1/temperature-logs", "Record a temperature reading", false},
	{http.MethodGet, "/api/v1/temperature-logs", "Latest temperature readings", false},
	{http.MethodPost, "/api/v1/products", "Create a product", false},
	{http.MethodGet, "/api/v1/products", "List products", false},
	{http.MethodPost, "/api/v1/suppliers", "Create a supplier", false},
	{http.MethodGet, "/api/v1/suppliers", "List suppliers", false},
	{http.MethodPost, "/api/v1/cleaning-plans", "Create a cleaning plan", false},
	{http.MethodGet, "/api/v1/cleaning-plans", "List cleaning plans", false},
	{http.MethodGet, "/api/v1/cleaning-plans/:id/room-cleanings", "Cleanings recorded against a plan", false},
	{http.MethodPost, "/api/v1/room-cleanings", "Mark a room as cleaned", false},
	{http.MethodPost, "/api/v1/material-receptions", "Record a material reception", false},
	{http.MethodGet, "/api/v1/material-receptions", "Latest material receptions", false},
	{http.MethodPost, "/api/v1/material-receptions/analyze-image", "Read a product label photo", false},
	{http.MethodGet, "/api/v1/configuration", "List configuration entries (?prefix=)", false},
	{http.MethodGet, "/api/v1/configuration/:parameter", "Get one configuration entry", false},
	{http.MethodPut, "/api/v1/configuration/:parameter", "Set a configuration entry", false},
	{http.MethodPost, "/api/v1/configuration/pricing/seed", "Seed the default price table", false},
	{http.MethodGet, "/api/v1/configuration/temperature-ranges", "Storage zone temperature limits", false},
	{http.MethodGet, "/api/v1/usage-report", "Total, monthly and per-action cost", false},
	{http.MethodGet, "/api/v1/usage-records", "Usage audit trail", false},
	{http.MethodGet, "/api/v1/pricing/:action_type", "Effective unit price of an action", false},
}

// Help godoc
// @Summary      API overview
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=HelpDocument}
// @Router       /help [get]
func (h *SystemHandler) Help(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(HelpDocument{
		Name:            "HACCP compliance API",
		Version:         h.version,
		Authentication:  "Authorization: Bearer <token> from POST /api/v1/auth/login",
		Endpoints:       helpEndpoints,
		BillableActions: metering.KnownActionTypes(),
	}))
}

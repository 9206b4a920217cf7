package handler

import (
	complianceapp "github.com/aihaccp/backend/internal/application/compliance"
	"github.com/gin-gonic/gin"
)

// TemperatureLogHandler handles temperature monitoring endpoints
type TemperatureLogHandler struct {
	BaseHandler
	service *complianceapp.TemperatureLogService
}

// NewTemperatureLogHandler creates a new TemperatureLogHandler
func NewTemperatureLogHandler(service *complianceapp.TemperatureLogService) *TemperatureLogHandler {
	return &TemperatureLogHandler{service: service}
}

// Create godoc
// @Summary      Record a temperature reading
// @Description  When is_within_limits is omitted and a storage zone is given, the verdict is computed from the configured ranges
// @Tags         temperature-logs
// @Accept       json
// @Produce      json
// @Param        request body complianceapp.CreateTemperatureLogRequest true "Reading"
// @Success      201 {object} dto.Response{data=complianceapp.TemperatureLogResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /temperature-logs [post]
func (h *TemperatureLogHandler) Create(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req complianceapp.CreateTemperatureLogRequest
	if !h.BindJSON(c, &req) {
		return
	}

	log, err := h.service.Create(c.Request.Context(), caller.OrganizationID, caller.UserID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, log)
}

// List godoc
// @Summary      Latest temperature readings
// @Tags         temperature-logs
// @Produce      json
// @Success      200 {object} dto.Response{data=[]complianceapp.TemperatureLogResponse}
// @Security     BearerAuth
// @Router       /temperature-logs [get]
func (h *TemperatureLogHandler) List(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	logs, err := h.service.ListRecent(c.Request.Context(), caller.OrganizationID, caller.UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, logs)
}

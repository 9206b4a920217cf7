package handler

import (
	"context"
	"strings"

	"github.com/aihaccp/backend/internal/application/metering"
	"github.com/aihaccp/backend/internal/domain/compliance"
	"github.com/aihaccp/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// RangeReader exposes the configured storage zone limits
type RangeReader interface {
	Ranges(ctx context.Context) compliance.TemperatureRanges
}

// ConfigurationHandler serves the administrative configuration store
type ConfigurationHandler struct {
	BaseHandler
	service *metering.ConfigurationService
	ranges  RangeReader
}

// NewConfigurationHandler creates a new ConfigurationHandler
func NewConfigurationHandler(service *metering.ConfigurationService, ranges RangeReader) *ConfigurationHandler {
	return &ConfigurationHandler{service: service, ranges: ranges}
}

// List godoc
// @Summary      List configuration entries
// @Tags         configuration
// @Produce      json
// @Param        prefix query string false "Parameter prefix, e.g. pricing."
// @Success      200 {object} dto.Response{data=[]dto.ConfigurationEntryResponse}
// @Security     BearerAuth
// @Router       /configuration [get]
func (h *ConfigurationHandler) List(c *gin.Context) {
	entries, err := h.service.List(c.Request.Context(), c.Query("prefix"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToConfigurationEntryResponses(entries))
}

// Get godoc
// @Summary      Get one configuration entry
// @Tags         configuration
// @Produce      json
// @Param        parameter path string true "Parameter key"
// @Success      200 {object} dto.Response{data=dto.ConfigurationEntryResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /configuration/{parameter} [get]
func (h *ConfigurationHandler) Get(c *gin.Context) {
	entry, err := h.service.Get(c.Request.Context(), c.Param("parameter"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToConfigurationEntryResponse(entry))
}

// Set godoc
// @Summary      Create or replace a configuration entry
// @Description  pricing.* values must be non-negative decimals; the cached price is dropped on change
// @Tags         configuration
// @Accept       json
// @Produce      json
// @Param        parameter path string true "Parameter key"
// @Param        request body dto.SetConfigurationRequest true "Value"
// @Success      200 {object} dto.Response{data=dto.ConfigurationEntryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /configuration/{parameter} [put]
func (h *ConfigurationHandler) Set(c *gin.Context) {
	var req dto.SetConfigurationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	entry, err := h.service.Set(c.Request.Context(), metering.SetConfigurationInput{
		Parameter:       strings.TrimSpace(c.Param("parameter")),
		Value:           req.Value,
		ParentParameter: req.ParentParameter,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToConfigurationEntryResponse(entry))
}

// SeedPricing godoc
// @Summary      Seed the default price table
// @Description  No-op when any price is already configured
// @Tags         configuration
// @Produce      json
// @Success      200 {object} dto.Response{data=[]dto.ConfigurationEntryResponse}
// @Security     BearerAuth
// @Router       /configuration/pricing/seed [post]
func (h *ConfigurationHandler) SeedPricing(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.service.SeedPricing(ctx); err != nil {
		h.HandleError(c, err)
		return
	}
	entries, err := h.service.List(ctx, "pricing.")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToConfigurationEntryResponses(entries))
}

// TemperatureRanges godoc
// @Summary      Storage zone temperature limits
// @Tags         configuration
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /configuration/temperature-ranges [get]
func (h *ConfigurationHandler) TemperatureRanges(c *gin.Context) {
	h.Success(c, h.ranges.Ranges(c.Request.Context()))
}

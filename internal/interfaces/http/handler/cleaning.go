package handler

import (
	complianceapp "github.com/aihaccp/backend/internal/application/compliance"
	"github.com/aihaccp/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CleaningHandler handles cleaning plans and room cleanings
type CleaningHandler struct {
	BaseHandler
	service *complianceapp.CleaningService
}

// NewCleaningHandler creates a new CleaningHandler
func NewCleaningHandler(service *complianceapp.CleaningService) *CleaningHandler {
	return &CleaningHandler{service: service}
}

// CreatePlan godoc
// @Summary      Create a cleaning plan
// @Tags         cleaning
// @Accept       json
// @Produce      json
// @Param        request body complianceapp.CreateCleaningPlanRequest true "Plan"
// @Success      201 {object} dto.Response{data=complianceapp.CleaningPlanResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cleaning-plans [post]
func (h *CleaningHandler) CreatePlan(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req complianceapp.CreateCleaningPlanRequest
	if !h.BindJSON(c, &req) {
		return
	}

	plan, err := h.service.CreatePlan(c.Request.Context(), caller.OrganizationID, caller.UserID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, plan)
}

// ListPlans godoc
// @Summary      List cleaning plans
// @Tags         cleaning
// @Produce      json
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]complianceapp.CleaningPlanResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /cleaning-plans [get]
func (h *CleaningHandler) ListPlans(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var filter complianceapp.CleaningPlanListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	page, err := h.service.ListPlans(c.Request.Context(), caller.OrganizationID, caller.UserID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// MarkRoomCleaned godoc
// @Summary      Mark a room of a plan as cleaned
// @Tags         cleaning
// @Accept       json
// @Produce      json
// @Param        request body complianceapp.MarkRoomCleanedRequest true "Cleaning"
// @Success      201 {object} dto.Response{data=complianceapp.RoomCleaningResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /room-cleanings [post]
func (h *CleaningHandler) MarkRoomCleaned(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req complianceapp.MarkRoomCleanedRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cleaning, err := h.service.MarkRoomCleaned(c.Request.Context(), caller.OrganizationID, caller.UserID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, cleaning)
}

// ListRoomCleanings godoc
// @Summary      Cleanings recorded against a plan
// @Tags         cleaning
// @Produce      json
// @Param        id path string true "Cleaning plan ID"
// @Success      200 {object} dto.Response{data=[]complianceapp.RoomCleaningResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cleaning-plans/{id}/room-cleanings [get]
func (h *CleaningHandler) ListRoomCleanings(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid cleaning plan ID")
		return
	}
	planID := uuid.MustParse(uri.ID)

	cleanings, err := h.service.ListRoomCleanings(c.Request.Context(), caller.OrganizationID, caller.UserID, planID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cleanings)
}

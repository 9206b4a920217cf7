package handler

import (
	complianceapp "github.com/aihaccp/backend/internal/application/compliance"
	"github.com/gin-gonic/gin"
)

// MaterialReceptionHandler handles supplier deliveries and label analysis
type MaterialReceptionHandler struct {
	BaseHandler
	service *complianceapp.MaterialReceptionService
}

// NewMaterialReceptionHandler creates a new MaterialReceptionHandler
func NewMaterialReceptionHandler(service *complianceapp.MaterialReceptionService) *MaterialReceptionHandler {
	return &MaterialReceptionHandler{service: service}
}

// Create godoc
// @Summary      Record a material reception
// @Description  An attached base64 label photo is analyzed and stored. Analysis failures are kept on the reception instead of failing it.
// @Tags         material-receptions
// @Accept       json
// @Produce      json
// @Param        request body complianceapp.CreateMaterialReceptionRequest true "Reception"
// @Success      201 {object} dto.Response{data=complianceapp.MaterialReceptionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /material-receptions [post]
func (h *MaterialReceptionHandler) Create(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req complianceapp.CreateMaterialReceptionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	reception, err := h.service.Create(c.Request.Context(), caller.OrganizationID, caller.UserID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, reception)
}

// List godoc
// @Summary      Latest material receptions
// @Tags         material-receptions
// @Produce      json
// @Success      200 {object} dto.Response{data=[]complianceapp.MaterialReceptionResponse}
// @Security     BearerAuth
// @Router       /material-receptions [get]
func (h *MaterialReceptionHandler) List(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	receptions, err := h.service.ListRecent(c.Request.Context(), caller.OrganizationID, caller.UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receptions)
}

// AnalyzeImage godoc
// @Summary      Read a product label photo
// @Description  Charged as one ai_image_analysis per call
// @Tags         material-receptions
// @Accept       json
// @Produce      json
// @Param        request body complianceapp.AnalyzeImageRequest true "Base64 image"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /material-receptions/analyze-image [post]
func (h *MaterialReceptionHandler) AnalyzeImage(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req complianceapp.AnalyzeImageRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.AnalyzeImage(c.Request.Context(), caller.OrganizationID, caller.UserID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

package handler

import (
	identityapp "github.com/aihaccp/backend/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// IdentityHandler serves the organization and user bootstrap endpoints
type IdentityHandler struct {
	BaseHandler
	orgService  *identityapp.OrganizationService
	userService *identityapp.UserService
}

// NewIdentityHandler creates a new IdentityHandler
func NewIdentityHandler(orgService *identityapp.OrganizationService, userService *identityapp.UserService) *IdentityHandler {
	return &IdentityHandler{orgService: orgService, userService: userService}
}

// CreateOrganization godoc
// @Summary      Register an organization
// @Description  Public bootstrap endpoint
// @Tags         organizations
// @Accept       json
// @Produce      json
// @Param        request body identityapp.CreateOrganizationRequest true "Organization"
// @Success      201 {object} dto.Response{data=identityapp.OrganizationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /organizations [post]
func (h *IdentityHandler) CreateOrganization(c *gin.Context) {
	var req identityapp.CreateOrganizationRequest
	if !h.BindJSON(c, &req) {
		return
	}
	org, err := h.orgService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, org)
}

// CurrentOrganization godoc
// @Summary      The caller's organization
// @Tags         organizations
// @Security     BearerAuth
// @Success      200 {object} dto.Response{data=identityapp.OrganizationResponse}
// @Router       /organizations/current [get]
func (h *IdentityHandler) CurrentOrganization(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	org, err := h.orgService.GetByID(c.Request.Context(), caller.OrganizationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, org)
}

// CreateUser godoc
// @Summary      Register a user in an organization
// @Description  Public bootstrap endpoint
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body identityapp.CreateUserRequest true "User"
// @Success      201 {object} dto.Response{data=identityapp.UserResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /users [post]
func (h *IdentityHandler) CreateUser(c *gin.Context) {
	var req identityapp.CreateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}
	user, err := h.userService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// ListUsers godoc
// @Summary      Users of the caller's organization
// @Tags         users
// @Security     BearerAuth
// @Success      200 {object} dto.Response{data=[]identityapp.UserResponse}
// @Router       /users [get]
func (h *IdentityHandler) ListUsers(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	users, err := h.userService.ListByOrganization(c.Request.Context(), caller.OrganizationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, users)
}

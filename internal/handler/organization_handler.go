package handler

import (
	"net/http"

	"paisawise/internal/apperr"
	"paisawise/internal/service"
	"paisawise/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrganizationHandler struct {
	orgService service.OrganizationService
}

func NewOrganizationHandler(orgService service.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

// RegisterRoutes expects an authenticated group.
func (h *OrganizationHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/organizations", h.Create)
	router.POST("/organizations/join", h.Join)

	org := router.Group("/organization")
	{
		org.GET("", h.GetProfile)
		org.PUT("", h.UpdateProfile)
		org.GET("/members", h.ListMembers)
		org.GET("/requests", h.ListPending)
		org.PUT("/members/:id/accept", h.Accept)
		org.DELETE("/members/:id", h.Reject)
	}
}

// Create founds a new organization owned by the caller
// @Summary      Create organization
// @Tags         organization
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateOrganizationRequest  true  "Organization"
// @Success      201      {object}  response.Response{data=service.OrganizationResponse}
// @Failure      409      {object}  response.Response
// @Router       /api/organizations [post]
func (h *OrganizationHandler) Create(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req service.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}
	org, err := h.orgService.CreateOrganization(c.Request.Context(), a, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, org))
}

// Join files a membership request
// @Summary      Request to join an organization
// @Tags         organization
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.JoinOrganizationRequest  true  "Target organization"
// @Success      201      {object}  response.Response{data=service.MemberResponse}
// @Router       /api/organizations/join [post]
func (h *OrganizationHandler) Join(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req service.JoinOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}
	orgID, err := uuid.Parse(req.OrganizationID)
	if err != nil {
		fail(c, apperr.Validation("invalid organization_id %q", req.OrganizationID))
		return
	}
	m, err := h.orgService.RequestToJoin(c.Request.Context(), a, orgID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, m))
}

func (h *OrganizationHandler) GetProfile(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	org, err := h.orgService.GetProfile(c.Request.Context(), a)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, org))
}

func (h *OrganizationHandler) UpdateProfile(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req service.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}
	org, err := h.orgService.UpdateProfile(c.Request.Context(), a, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, org))
}

func (h *OrganizationHandler) ListMembers(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	members, err := h.orgService.ListMembers(c.Request.Context(), a)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, members))
}

func (h *OrganizationHandler) ListPending(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	pending, err := h.orgService.ListPendingRequests(c.Request.Context(), a)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, pending))
}

// Accept promotes a pending request to a member
// @Summary      Accept membership request
// @Tags         organization
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Membership ID"
// @Success      200  {object}  response.Response{data=service.MemberResponse}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/organization/members/{id}/accept [put]
func (h *OrganizationHandler) Accept(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	m, err := h.orgService.AcceptMember(c.Request.Context(), a, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, m))
}

func (h *OrganizationHandler) Reject(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.orgService.RejectMember(c.Request.Context(), a, id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Member removed"}))
}

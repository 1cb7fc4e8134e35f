package handler

import (
	"net/http"
	"strconv"

	"paisawise/internal/apperr"
	"paisawise/internal/service"
	"paisawise/pkg/pagination"
	"paisawise/pkg/response"

	"github.com/gin-gonic/gin"
)

type BudgetRequestHandler struct {
	requestService   service.BudgetRequestService
	reconcileService service.ReconcileService
}

func NewBudgetRequestHandler(requestService service.BudgetRequestService, reconcileService service.ReconcileService) *BudgetRequestHandler {
	return &BudgetRequestHandler{requestService: requestService, reconcileService: reconcileService}
}

func (h *BudgetRequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/budget-requests")
	{
		group.GET("", h.List)
		group.POST("", h.Submit)
		group.POST("/reconcile", h.Reconcile)
		group.GET("/:id", h.Get)
		group.PUT("/:id/approval", h.SetApproval)
	}
}

// List returns the request history, newest first
// @Summary      List budget requests
// @Tags         budget-requests
// @Produce      json
// @Security     BearerAuth
// @Param        approved  query     bool  false  "Filter by approval state"
// @Param        page      query     int   false  "Page number (default 1)"
// @Param        limit     query     int   false  "Number of items per page (default 20)"
// @Success      200       {object}  response.Response{data=object}
// @Router       /api/budget-requests [get]
func (h *BudgetRequestHandler) List(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	p := pagination.Parse(c)
	filter := service.BudgetRequestFilter{Page: p.Page, Limit: p.Limit}
	if raw := c.Query("approved"); raw != "" {
		approved, err := strconv.ParseBool(raw)
		if err != nil {
			fail(c, apperr.Validation("approved must be true or false"))
			return
		}
		filter.Approved = &approved
	}

	requests, total, err := h.requestService.List(c.Request.Context(), a, filter)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"requests": requests,
		"total":    total,
		"page":     p.Page,
		"limit":    p.Limit,
	}))
}

// Submit files a budget request. It is approved automatically when the
// involved departments can afford it.
// @Summary      Submit budget request
// @Tags         budget-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.SubmitBudgetRequest  true  "Request"
// @Success      201      {object}  response.Response{data=service.BudgetRequestResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/budget-requests [post]
func (h *BudgetRequestHandler) Submit(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req service.SubmitBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}
	created, err := h.requestService.Submit(c.Request.Context(), a, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, created))
}

// Get returns a single budget request
// @Summary      Get budget request
// @Tags         budget-requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Budget request ID"
// @Success      200  {object}  response.Response{data=service.BudgetRequestResponse}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/budget-requests/{id} [get]
func (h *BudgetRequestHandler) Get(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	req, err := h.requestService.Get(c.Request.Context(), a, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, req))
}

// SetApproval approves or revokes a request
// @Summary      Set budget request approval
// @Tags         budget-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                      true  "Budget request ID"
// @Param        payload  body      service.SetApprovalRequest  true  "Approval flag"
// @Success      200      {object}  response.Response{data=service.BudgetRequestResponse}
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/budget-requests/{id}/approval [put]
func (h *BudgetRequestHandler) SetApproval(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.SetApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}
	updated, err := h.requestService.SetApproval(c.Request.Context(), a, id, *req.Approved)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, updated))
}

// Reconcile repairs balance-sheet drift for the caller's organization
// @Summary      Reconcile balance sheet
// @Tags         budget-requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.ReconcileReport}
// @Failure      403  {object}  response.Response
// @Router       /api/budget-requests/reconcile [post]
func (h *BudgetRequestHandler) Reconcile(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	report, err := h.reconcileService.Reconcile(c.Request.Context(), a)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

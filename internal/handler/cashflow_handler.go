package handler

import (
	"net/http"

	"paisawise/internal/service"
	"paisawise/pkg/response"

	"github.com/gin-gonic/gin"
)

type CashFlowHandler struct {
	cashFlowService service.CashFlowService
}

func NewCashFlowHandler(cashFlowService service.CashFlowService) *CashFlowHandler {
	return &CashFlowHandler{cashFlowService: cashFlowService}
}

func (h *CashFlowHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/cash-flow")
	{
		group.GET("", h.List)
		group.POST("", h.Create)
		group.DELETE("/:id", h.Delete)
	}
}

// List returns cash-flow entries, optionally bounded by start/end
// @Summary      List cash-flow entries
// @Tags         cash-flow
// @Produce      json
// @Security     BearerAuth
// @Param        start  query     string  false  "YYYY-MM-DD or RFC3339"
// @Param        end    query     string  false  "YYYY-MM-DD (inclusive) or RFC3339"
// @Success      200    {object}  response.Response{data=[]service.LedgerEntryResponse}
// @Router       /api/cash-flow [get]
func (h *CashFlowHandler) List(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	start, end := c.Query("start"), c.Query("end")
	var (
		entries []service.LedgerEntryResponse
		err     error
	)
	if start == "" && end == "" {
		entries, err = h.cashFlowService.List(c.Request.Context(), a)
	} else {
		var r service.DateRange
		r, err = service.ParseDateRange(start, end)
		if err == nil {
			entries, err = h.cashFlowService.ListByDateRange(c.Request.Context(), a, r)
		}
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, entries))
}

// Create records a transaction and mirrors it onto the balance sheet
// @Summary      Create cash-flow entry
// @Tags         cash-flow
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateCashFlowRequest  true  "Entry"
// @Success      201      {object}  response.Response{data=service.LedgerEntryResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/cash-flow [post]
func (h *CashFlowHandler) Create(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req service.CreateCashFlowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}
	entry, err := h.cashFlowService.Create(c.Request.Context(), a, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, entry))
}

func (h *CashFlowHandler) Delete(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.cashFlowService.Delete(c.Request.Context(), a, id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Entry deleted"}))
}

package handler

import (
	"net/http"

	"paisawise/internal/service"
	"paisawise/pkg/response"

	"github.com/gin-gonic/gin"
)

type BalanceSheetHandler struct {
	balanceSheetService service.BalanceSheetService
	summaryService      service.SummaryService
}

func NewBalanceSheetHandler(balanceSheetService service.BalanceSheetService, summaryService service.SummaryService) *BalanceSheetHandler {
	return &BalanceSheetHandler{balanceSheetService: balanceSheetService, summaryService: summaryService}
}

func (h *BalanceSheetHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/balance-sheet")
	{
		group.GET("", h.List)
		group.GET("/summary", h.Summary)
	}
}

// List returns the balance-sheet projection
// @Summary      List balance-sheet entries
// @Tags         balance-sheet
// @Produce      json
// @Security     BearerAuth
// @Param        start  query     string  false  "YYYY-MM-DD or RFC3339"
// @Param        end    query     string  false  "YYYY-MM-DD (inclusive) or RFC3339"
// @Success      200    {object}  response.Response{data=[]service.LedgerEntryResponse}
// @Router       /api/balance-sheet [get]
func (h *BalanceSheetHandler) List(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	start, end := c.Query("start"), c.Query("end")
	if start == "" && end == "" {
		entries, err := h.balanceSheetService.List(c.Request.Context(), a)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, response.Success(http.StatusOK, entries))
		return
	}

	r, err := service.ParseDateRange(start, end)
	if err != nil {
		fail(c, err)
		return
	}
	entries, err := h.balanceSheetService.ListByDateRange(c.Request.Context(), a, r)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, entries))
}

// Summary aggregates the projection for the dashboard. Without bounds it
// covers everything recorded.
// @Summary      Balance-sheet summary
// @Tags         balance-sheet
// @Produce      json
// @Security     BearerAuth
// @Param        start  query     string  false  "YYYY-MM-DD or RFC3339"
// @Param        end    query     string  false  "YYYY-MM-DD (inclusive) or RFC3339"
// @Success      200    {object}  response.Response{data=model.LedgerSummary}
// @Router       /api/balance-sheet/summary [get]
func (h *BalanceSheetHandler) Summary(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var r service.DateRange
	if start, end := c.Query("start"), c.Query("end"); start != "" || end != "" {
		var err error
		if r, err = service.ParseDateRange(start, end); err != nil {
			fail(c, err)
			return
		}
	}
	summary, err := h.summaryService.Summary(c.Request.Context(), a, r)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

package handler

import (
	"net/http"

	"paisawise/internal/service"
	"paisawise/pkg/response"

	"github.com/gin-gonic/gin"
)

type BudgetHandler struct {
	budgetService service.BudgetService
}

func NewBudgetHandler(budgetService service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

func (h *BudgetHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/budgets")
	{
		group.GET("", h.GetAll)
		group.GET("/:department", h.GetOne)
		group.PUT("/:department", h.SetBudget)
	}
}

// GetAll lists every department limit of the caller's organization
// @Summary      List department budgets
// @Tags         budgets
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.BudgetResponse}
// @Failure      403  {object}  response.Response
// @Router       /api/budgets [get]
func (h *BudgetHandler) GetAll(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	budgets, err := h.budgetService.GetAll(c.Request.Context(), a)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, budgets))
}

func (h *BudgetHandler) GetOne(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	budget, err := h.budgetService.GetOne(c.Request.Context(), a, c.Param("department"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, budget))
}

// SetBudget replaces a department's limit
// @Summary      Set department budget
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        department  path      string                    true  "Department name"
// @Param        payload     body      service.SetBudgetRequest  true  "New limit"
// @Success      200         {object}  response.Response{data=service.BudgetResponse}
// @Failure      400         {object}  response.Response
// @Failure      403         {object}  response.Response
// @Router       /api/budgets/{department} [put]
func (h *BudgetHandler) SetBudget(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req service.SetBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}
	budget, err := h.budgetService.SetBudget(c.Request.Context(), a, c.Param("department"), req.Limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, budget))
}

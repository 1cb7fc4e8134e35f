package handler

import (
	"net/http"

	"paisawise/internal/service"
	"paisawise/pkg/response"

	"github.com/gin-gonic/gin"
)

type StatementHandler struct {
	statementService service.StatementService
}

func NewStatementHandler(statementService service.StatementService) *StatementHandler {
	return &StatementHandler{statementService: statementService}
}

func (h *StatementHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/statements")
	{
		group.GET("/:year/:quarter", h.Get)
		group.GET("/:year/:quarter/exists", h.Exists)
		group.PUT("/:year/:quarter", h.Save)
	}
}

func (h *StatementHandler) Get(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	stmt, err := h.statementService.Get(c.Request.Context(), a, c.Param("year"), c.Param("quarter"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, stmt))
}

func (h *StatementHandler) Exists(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	exists, err := h.statementService.Exists(c.Request.Context(), a, c.Param("year"), c.Param("quarter"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"exists": exists}))
}

// Save replaces the statement of one quarter
// @Summary      Save quarterly statement
// @Tags         statements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        year     path      string                     true  "YYYY"
// @Param        quarter  path      string                     true  "Q1..Q4"
// @Param        payload  body      service.StatementSections  true  "Sections"
// @Success      200      {object}  response.Response{data=service.StatementResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/statements/{year}/{quarter} [put]
func (h *StatementHandler) Save(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var sections service.StatementSections
	if err := c.ShouldBindJSON(&sections); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}
	stmt, err := h.statementService.Save(c.Request.Context(), a, c.Param("year"), c.Param("quarter"), sections)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, stmt))
}

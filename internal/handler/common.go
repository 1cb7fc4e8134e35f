package handler

import (
	"net/http"

	"paisawise/internal/apperr"
	"paisawise/internal/auth"
	"paisawise/internal/middleware"
	"paisawise/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// fail writes the error envelope for a service failure.
func fail(c *gin.Context, err error) {
	resp := response.FromError(err)
	c.JSON(resp.StatusCode, resp)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, msg))
}

// actor returns the authenticated caller. It aborts with 401 when the
// route was mounted without middleware.Authenticate.
func actor(c *gin.Context) (auth.Actor, bool) {
	a, ok := middleware.ActorFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authorization is missing"))
	}
	return a, ok
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		fail(c, apperr.Validation("invalid %s %q", name, c.Param(name)))
		return uuid.Nil, false
	}
	return id, true
}

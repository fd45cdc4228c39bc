package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"medrelease/internal/backup"
	"medrelease/internal/service"
	"medrelease/internal/store"
	"medrelease/pkg/response"
)

// fail maps core errors onto the response envelope. Nothing below the
// facade panics; unknown errors surface as 500s with their message.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
	case errors.Is(err, backup.ErrInvalidBackupFormat),
		errors.Is(err, service.ErrSequenceOverflow):
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	case errors.Is(err, store.ErrCorruptStore):
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
	}
}

// actor resolves the display name the middleware extracted from the token.
func actor(c *gin.Context) string {
	return c.GetString("userName")
}

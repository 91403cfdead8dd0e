// Package api renders the response envelopes shared by every endpoint:
// {data}, {data, pagination} and {error, details?}.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/apierr"
	"github.com/junaidrashid-git/storefront-api/logger"
)

func OK(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"data": data})
}

func Paginated(c *gin.Context, data any, pagination any) {
	c.JSON(http.StatusOK, gin.H{"data": data, "pagination": pagination})
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// ValidationError reports a malformed request body or query string. The
// binding error text goes into details so clients can see which field failed.
func ValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
}

// Fail maps a service error onto the error envelope. Internal errors are
// logged with their cause and surfaced as a generic message.
func Fail(c *gin.Context, log *logger.Logger, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) && ae.Status < http.StatusInternalServerError {
		c.JSON(ae.Status, gin.H{"error": ae.Error()})
		return
	}
	log.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/actadigital/registry/internal/domain"
	"github.com/actadigital/registry/pkg/logger"
)

// RespondError maps the domain error taxonomy onto HTTP status codes.
func RespondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "invalid_input"})
	case errors.Is(err, domain.ErrStorageUnavailable):
		logger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage unavailable", "kind": "storage_unavailable"})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "request timed out", "kind": "timeout"})
	case errors.Is(err, context.Canceled):
		// client went away; 499 as in nginx
		c.AbortWithStatus(499)
	default:
		logger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

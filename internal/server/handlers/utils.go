// Package handlers contains the gin HTTP handlers. Handlers bind and
// validate request payloads, call the service layer and choose the
// response shape; all domain logic lives below them.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/planora/planora/internal/shared"
)

// respondError maps service errors onto HTTP statuses. Ownership
// failures look identical to missing rows so the API does not leak
// which ids exist.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, shared.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, shared.ErrFileTooLarge), errors.Is(err, shared.ErrUnsupportedType):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, shared.ErrOwnershipMismatch):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, shared.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// pathID parses the named uuid path parameter, answering 404 on
// malformed ids so they are indistinguishable from unknown ones.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return uuid.Nil, false
	}
	return id, true
}

package handlers

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/modelrelay/modelrelay/internal/errors"
)

// writeError renders an AppError and records it on the context so the
// request logger picks it up.
func writeError(c *gin.Context, err *apperrors.AppError) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(err.HTTPStatusCode, gin.H{"error": err})
}

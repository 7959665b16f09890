// Package middleware provides Gin middleware for the API server.
package middleware

import (
	"crypto/subtle"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	apperrors "github.com/modelrelay/modelrelay/internal/errors"
)

// APIKeyAuth validates clients against a mutable key set. An empty key set
// disables authentication. Keys are accepted from the Authorization bearer
// token or the X-Api-Key header.
type APIKeyAuth struct {
	mu   sync.RWMutex
	keys []string
}

// NewAPIKeyAuth creates an authenticator with the initial key set.
func NewAPIKeyAuth(keys []string) *APIKeyAuth {
	auth := &APIKeyAuth{}
	auth.SetKeys(keys)
	return auth
}

// SetKeys replaces the accepted key set. Used by config hot reload.
func (a *APIKeyAuth) SetKeys(keys []string) {
	a.mu.Lock()
	a.keys = append([]string(nil), keys...)
	a.mu.Unlock()
}

// Handler returns the Gin middleware enforcing the key set.
func (a *APIKeyAuth) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		a.mu.RLock()
		keys := a.keys
		a.mu.RUnlock()

		if len(keys) == 0 {
			c.Next()
			return
		}

		presented := presentedKey(c)
		for _, key := range keys {
			if subtle.ConstantTimeCompare([]byte(presented), []byte(key)) == 1 {
				c.Next()
				return
			}
		}
		appErr := apperrors.Unauthorized("invalid_api_key", "invalid or missing api key")
		c.AbortWithStatusJSON(appErr.HTTPStatusCode, gin.H{"error": appErr})
	}
}

func presentedKey(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(c.GetHeader("X-Api-Key"))
}

package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mikemajara/ai-chatbot/internal/server/resp"
)

// SyncKeyAuth guards the capability endpoints with a shared secret sent as
// "x-api-key" or "Authorization: Bearer". An empty secret rejects every request.
func SyncKeyAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			resp.Error(c, http.StatusInternalServerError, resp.ErrSyncKeyNotConfigured)
			return
		}
		key := requestKey(c)
		if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(secret)) != 1 {
			resp.Error(c, http.StatusUnauthorized, resp.ErrUnauthorized)
			return
		}
		c.Next()
	}
}

func requestKey(c *gin.Context) string {
	if key := c.Request.Header.Get("x-api-key"); key != "" {
		return key
	}
	if auth := c.Request.Header.Get("Authorization"); auth != "" {
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok {
			return ""
		}
		return strings.TrimSpace(token)
	}
	return ""
}

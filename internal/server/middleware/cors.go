package middleware

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mikemajara/ai-chatbot/internal/utils/xstrings"
)

// Cors allows origins from a comma-separated list:
//   - empty: no cross-origin requests
//   - "*": every origin
//   - "https://example.com,example2.com": full origins or bare hosts
func Cors(allowOrigins string) gin.HandlerFunc {
	config := cors.DefaultConfig()
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Authorization", "Content-Type", "x-api-key"}

	allowed := strings.TrimSpace(allowOrigins)
	items := xstrings.SplitTrimCompact(",", allowed)
	for i, item := range items {
		items[i] = strings.TrimRight(item, "/")
	}
	config.AllowOriginFunc = func(origin string) bool {
		if allowed == "" {
			return false
		}
		if allowed == "*" {
			return true
		}
		origin = strings.TrimSpace(origin)
		if origin == "" {
			return false
		}
		originHost := origin
		if idx := strings.Index(origin, "://"); idx != -1 {
			originHost = origin[idx+3:]
		}
		originHost = strings.TrimRight(originHost, "/")
		for _, item := range items {
			if item == origin || item == originHost {
				return true
			}
		}
		return false
	}
	return cors.New(config)
}

package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/SscSPs/mini_banking_api/internal/utils"
	"github.com/gin-gonic/gin"
)

// untrackedPrefixes are route prefixes never reported to PostHog.
var untrackedPrefixes = []string{"/health", "/swagger"}

func tracked(route string) bool {
	if route == "" {
		return false
	}
	for _, p := range untrackedPrefixes {
		if strings.HasPrefix(route, p) {
			return false
		}
	}
	return true
}

// EventName turns a route template into a PostHog event name,
// e.g. "POST /api/v1/accounts/:accountID/deposit" -> "post_accounts_deposit".
func EventName(method, route string) string {
	parts := []string{strings.ToLower(method)}
	for _, seg := range strings.Split(strings.TrimPrefix(route, "/api/v1"), "/") {
		if seg == "" || strings.HasPrefix(seg, ":") {
			continue
		}
		parts = append(parts, seg)
	}
	return strings.Join(parts, "_")
}

// PosthogMiddleware reports every successful authenticated API call.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !posthogClient.IsInitialized() {
			c.Next()
			return
		}

		c.Next()

		route := c.FullPath()
		if !tracked(route) || len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		userID, ok := GetUserIDFromContext(c)
		if !ok {
			return
		}

		props := map[string]any{
			"route":       route,
			"status_code": c.Writer.Status(),
		}
		for _, param := range c.Params {
			props[param.Key] = param.Value
		}
		posthogClient.Enqueue(strconv.FormatInt(userID, 10), EventName(c.Request.Method, route), props)
	}
}

// PosthogEvent sends a custom event on behalf of the authenticated caller.
func PosthogEvent(c *gin.Context, posthogClient *utils.PosthogClientWrapper, eventName string, properties map[string]any) {
	if !posthogClient.IsInitialized() {
		return
	}
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		return
	}
	if properties == nil {
		properties = make(map[string]any)
	}
	properties["route"] = c.FullPath()
	posthogClient.Enqueue(strconv.FormatInt(userID, 10), eventName, properties)
}

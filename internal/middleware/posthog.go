package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AnalyticsClient is the part of the PostHog wrapper used by the middleware.
type AnalyticsClient interface {
	IsInitialized() bool
	Enqueue(distinctID string, event string, properties map[string]any)
}

const analyticsPropsKey = "analyticsProps"

// untrackedRoutes are never reported.
var untrackedRoutes = map[string]bool{
	"/health":       true,
	"/swagger/*any": true,
}

// AddAnalyticsProp attaches a property to the event reported for the current request.
func AddAnalyticsProp(c *gin.Context, key string, value any) {
	props, ok := c.Get(analyticsPropsKey)
	if !ok {
		props = map[string]any{}
		c.Set(analyticsPropsKey, props)
	}
	props.(map[string]any)[key] = value
}

// PosthogMiddleware reports every successful authenticated API call. The event is named
// after the method and route template below /api/v1, so PATCH on
// /api/v1/transactions/:transactionID/allocation/rows/:index becomes
// "patch_transactions_transactionID_allocation_rows_index". Route params and any
// properties added with AddAnalyticsProp are sent along.
func PosthogMiddleware(client AnalyticsClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || !client.IsInitialized() {
			c.Next()
			return
		}

		c.Next()

		route := c.FullPath()
		if route == "" || untrackedRoutes[route] {
			return
		}
		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		userID, exists := GetUserIDFromContext(c)
		if !exists {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"route":       route,
			"status_code": c.Writer.Status(),
		}
		for _, param := range c.Params {
			props[param.Key] = param.Value
		}
		if extra, ok := c.Get(analyticsPropsKey); ok {
			for k, v := range extra.(map[string]any) {
				props[k] = v
			}
		}
		client.Enqueue(userID, analyticsEventName(c.Request.Method, route), props)
	}
}

func analyticsEventName(method, route string) string {
	name := strings.Trim(strings.TrimPrefix(route, "/api/v1"), "/")
	name = strings.NewReplacer("/", "_", ":", "").Replace(name)
	return strings.ToLower(method) + "_" + name
}

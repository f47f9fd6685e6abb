package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const corsMaxAge = 12 * time.Hour

// CORSConfig returns the cross-origin policy for diagnostics dashboards at
// origins. Dashboards only read, so no credentials or unsafe methods.
func CORSConfig(origins ...string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = origins
	cfg.AllowMethods = []string{http.MethodGet, http.MethodHead, http.MethodOptions}
	cfg.AllowHeaders = []string{"Accept", "Accept-Encoding", "Cache-Control", "Origin"}
	cfg.ExposeHeaders = []string{"Retry-After"}
	cfg.AllowCredentials = false
	cfg.MaxAge = corsMaxAge
	return cfg
}

// CORS lets dashboards at origins read the diagnostics endpoints. With no
// origins, cross-origin requests get no CORS headers at all.
func CORS(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return cors.New(CORSConfig(origins...))
}

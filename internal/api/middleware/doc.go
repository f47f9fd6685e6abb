// Package middleware provides HTTP middleware for the diagnostics server.
//
// CORS opens the read-only endpoints to dashboards on configured origins.
// RateLimit keeps a token bucket per client IP so a misbehaving scraper
// cannot starve the bus-serving goroutines; idle buckets are swept.
//
//	router.Use(middleware.CORS(cfg.CORSOrigins))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware

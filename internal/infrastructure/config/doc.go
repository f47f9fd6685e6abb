// Package config provides 12-factor configuration for the search provider.
//
// Configuration is loaded from environment variables with defaults matching
// the session bus service.
//
// Configuration Sections:
//   - Bus: bus type, well-known name, object path, subtree or single mode
//   - Content: content directory, result limit, description length
//   - Logging: log level and output format
//   - Metrics: optional diagnostics HTTP server
//
// Example Usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//		return err
//	}
//
// Environment Variables:
//   - BUS_TYPE, BUS_NAME, BUS_OBJECT_PATH, BUS_MODE, BUS_SINGLE_APP_ID
//   - CONTENT_DIR, CONTENT_RESULTS_LIMIT, CONTENT_MAX_DESCRIPTION
//   - LOG_LEVEL, LOG_DEV
//   - METRICS_ENABLED, METRICS_ADDR, METRICS_RATE_LIMIT, METRICS_RATE_BURST
//   - METRICS_CORS_ORIGINS (comma separated)
package config

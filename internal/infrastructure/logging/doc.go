// Package logging provides structured logging using uber/zap.
//
// Two modes are available:
//   - Production: JSON on stderr, picked up by the journal when the service
//     is bus activated
//   - Development: colored console output for human readability
//
// Components receive the embedded *zap.Logger and add their own fields
// (family, service, path, app_id).
//
// Example Usage:
//
//	logger := logging.FromSettings(cfg.Logging.Level, cfg.Logging.Development)
//	defer logger.Sync()
//	logger.Info("Service registered", zap.String("path", path))
package logging

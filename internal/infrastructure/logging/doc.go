// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Example Usage:
//
//	logger, err := logging.New(logging.DefaultConfig())
//	logger.Info("LCMP starting", zap.String("address", "0.0.0.0:8080"))
//	logger.Component("appcontext").Debug("context created", zap.String("context_id", id))
package logging

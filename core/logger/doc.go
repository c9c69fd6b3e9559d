// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments
// (development vs production).
//
// # Run Awareness
//
// The logger is designed to be run-aware. The WithRunID helper attaches the
// export run id to the log entry, ensuring that all logs belonging to a
// specific run can be correlated.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Encoding: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Export started")
//
//	// Once the run id is known:
//	l := logger.WithRunID(log, runID)
//	l.Error("Export failed", zap.Error(err))
package logger

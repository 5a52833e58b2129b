// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments
// (development vs production).
//
// # Context Awareness
//
// Every accepted connection is given a RayID (request id). The WithRayID
// helper attaches it to a logger so that all entries written while serving a
// connection can be correlated.
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
//	log.Info("Server started")
//
//	// While serving a connection:
//	l := logger.WithRayID(log, rayID)
//	l.Error("Handler failed", zap.Error(err))
package logger

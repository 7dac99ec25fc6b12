// Package logging provides structured logging for the kimlik admin API.
//
// # Overview
//
// Logger is a small key/value logging interface implemented on top of
// hashicorp/go-hclog. It supports:
//
//   - Four levels (debug, info, warn, error), changeable at runtime
//   - Text and JSON output formats
//   - Request ID tracking through context.Context
//   - Component scoping (WithSource) and field-based context
//
// # Creating a Logger
//
//	logger := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	    Output: "/var/log/kimlik/kimlik.log",
//	})
//
// For testing, use a no-op logger:
//
//	logger := logging.NewNop()
//
// # Request IDs
//
// The REST layer stores a generated request ID in the request context;
// FromContext tags a logger with it:
//
//	ctx = logging.ContextWithRequestID(ctx, logging.GenerateRequestID())
//	logging.FromContext(ctx, logger).Info("search finished", "matches", 3)
package logging

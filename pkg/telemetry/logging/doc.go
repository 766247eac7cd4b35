// Package logging builds the structured logger used across enginevisor.
//
// It wraps log/slog with the level and format names used in configuration
// files:
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logger.With("component", "artifact").Info("download complete",
//	    "source", "primary",
//	    "bytes", 1234,
//	)
//
// Components receive a *slog.Logger and add their own "component" attribute.
package logging

// Package log provides the structured logging facade used across bag tools.
//
// It exposes a small Logger interface with typed fields and routes records
// through zerolog. Console output is the default; JSON output can be selected
// for machine consumption.
//
// Usage:
//
//	logger := log.New(log.Options{Level: log.InfoLevel})
//	logger = logger.WithComponent("export")
//	logger.Info("export complete", log.Str("bag", path), log.Int("records", n))
package log

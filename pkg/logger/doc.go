// Package logger provides a structured logging interface for the followers analyzer.
//
// It wraps zerolog with a small interface so handlers and packages can log
// with fields without depending on zerolog directly. Console output is the
// default; set logging.format to "json" for machine readable lines.
//
// Basic Usage:
//
//	cfg := &config.LoggingConfig{Level: "info", Format: "console"}
//	if err := logger.Initialize(cfg); err != nil {
//	    return err
//	}
//
//	logger.Info("Server started")
//	logger.WithField("session", id).Info("Upload accepted")
//
// Tests can swap the global logger for a capturing one:
//
//	tl := logger.NewTestLogger()
//	logger.SetLogger(tl)
//	// ...
//	tl.HasMessage("Analysis completed")
package logger

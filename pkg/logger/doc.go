// Package logger builds *slog.Logger values for the CLDF QR toolkit and
// provides the attribute helpers its packages log with.
//
// New takes functional options to pick the output format (text or JSON),
// the minimum level, the destination and static attributes. ParseLevel and
// ParseFormat turn configuration strings into those options.
//
// # Architecture
//
// New selects slog.NewTextHandler or slog.NewJSONHandler. Helpers in
// attr.go (Error, Component, CLID, OutputFormat, Size, ...) keep key names
// consistent across packages.
//
// Library packages never log on their own: their default logger is
// Discard, and callers inject a real one through a WithLogger option.
//
// # Usage
//
//	import "github.com/crushlog/cldfqr/pkg/logger"
//
//	log := logger.New(logger.WithLevel(slog.LevelDebug), logger.WithFormat(logger.FormatText))
//	svc := qr.New(qr.WithLogger(log))
//
//	log.Warn("logo skipped", logger.Component("qrcode"), logger.Error(err))
//
// # Error Handling
//
// Error and Errors return an empty attribute for nil errors, so they can be
// passed unconditionally. WithFormat panics on an unknown format.
package logger

// Package qr ties the payload protocol and the QR image codec together.
//
// Generation runs entity → payload text → module grid → PNG or SVG.
// Scanning runs the other way: a PNG, an SVG document or raw payload text
// is turned back into a payload.Envelope and, on request, into a
// payload.Route or payload.Location.
//
// # Usage
//
//	cfg, err := qr.LoadConfig()
//	if err != nil {
//		return err
//	}
//	svc := qr.New(qr.WithConfig(cfg), qr.WithLogger(log))
//
//	art, err := svc.GenerateRoute(route, svc.DefaultOptions())
//	if err != nil {
//		return err
//	}
//
//	entity, err := svc.Scan(art.PNG)
//
// # Configuration
//
// LoadConfig reads CLDF_QR_BASE_URL, CLDF_QR_FORMAT, CLDF_QR_SIZE,
// CLDF_QR_MARGIN, CLDF_QR_ERROR_CORRECTION, CLDF_QR_FOREGROUND and
// CLDF_QR_BACKGROUND. DefaultOptions derives per-call options from them.
// CLDF_QR_LOG_LEVEL and CLDF_QR_LOG_FORMAT turn on logging to stderr when
// no WithLogger option is given.
//
// # Error Handling
//
// Failures on untrusted input are *payload.Error values: images without a
// readable symbol are ScanError, undecodable text keeps its payload kind
// and rendering failures are GenerationError or ImageError. Caller misuse,
// such as a nil route or empty text, panics.
package qr

package qrcode

import "github.com/cockroachdb/errors"

var (
	// ErrEmptyContent is returned when content string is empty or only whitespace
	ErrEmptyContent = errors.New("content cannot be empty")
	// ErrorFailedToGenerateQRCode is returned when the QR code generation fails.
	ErrorFailedToGenerateQRCode = errors.New("failed to generate QR code")

	ErrInvalidOptions = errors.New("invalid image options")
	ErrInvalidLevel   = errors.New("invalid error correction level")

	// Symbol decoding failures.
	ErrSymbolNotFound = errors.New("no QR code found in image")
	ErrSymbolChecksum = errors.New("QR code checksum validation failed")
	ErrSymbolFormat   = errors.New("invalid QR code format")

	ErrInvalidSVG = errors.New("unsupported SVG document")
)

package raster

import "github.com/cockroachdb/errors"

var (
	// ErrInvalidBitmap is returned when a bitmap is empty, ragged or not square.
	ErrInvalidBitmap = errors.New("bitmap must be square and non-empty")
	// ErrInvalidSize is returned when the requested canvas size is not positive.
	ErrInvalidSize = errors.New("pixel size must be positive")
	// ErrInvalidPixelBuffer is returned when a pixel buffer's dimensions disagree with its data.
	ErrInvalidPixelBuffer = errors.New("pixel buffer dimensions do not match pixel data")

	// ErrNotPNG is returned when the input does not start with the PNG signature.
	ErrNotPNG = errors.New("not a PNG file")
	// ErrTruncated is returned when the input ends before a chunk or the image data is complete.
	ErrTruncated = errors.New("truncated PNG data")
	// ErrInvalidStructure is returned when mandatory chunks are missing or malformed.
	ErrInvalidStructure = errors.New("invalid PNG structure")
	// ErrCorruptData is returned when the compressed image data cannot be inflated.
	ErrCorruptData = errors.New("corrupt PNG image data")
	// ErrUnsupportedFilter is returned for scanline filter types other than 0-4.
	ErrUnsupportedFilter = errors.New("unsupported PNG filter type")
	// ErrUnsupportedFormat is returned for colour types, bit depths or layouts outside the supported subset.
	ErrUnsupportedFormat = errors.New("unsupported PNG format")
)

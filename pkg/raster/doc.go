// Package raster implements the small PNG subset needed to move QR codes in
// and out of raster form without relying on image/png or any platform
// graphics subsystem.
//
// The package owns three things: chunk framing (length, type, payload and
// CRC-32), zlib compression of the image data, and the five PNG scanline
// filters (None, Sub, Up, Average and Paeth).
//
// # Architecture
//
// Encoding starts from a Bitmap, an immutable square grid of modules. The
// encoder scales it with nearest-neighbour sampling to the requested canvas
// and writes an 8-bit truecolour PNG whose scanlines are never filtered.
// EncodeRGBA covers decorated output (logos, transparent corners) by writing
// an 8-bit RGBA PNG straight from a PixelBuffer.
//
// Decoding accepts PNG files produced by other encoders as well: all colour
// types, bit depths from 1 to 16 and every filter type. The result is a
// PixelBuffer holding packed ARGB values, which also implements image.Image.
//
// # Usage
//
//	import "github.com/crushlog/cldfqr/pkg/raster"
//
//	bm, err := raster.NewBitmap(rows)
//	if err != nil {
//		// handle error
//	}
//	data, err := raster.EncodePNG(bm, 256, raster.Black, raster.White)
//	if err != nil {
//		// handle error
//	}
//
//	pb, err := raster.DecodePNG(data)
//	if err != nil {
//		// handle error
//	}
//	_ = pb.Gray() // luminance image for a QR decoder
//
// # Error Handling
//
// DecodePNG never panics on malformed input. Failures are reported through
// the sentinel errors declared in errors.go wrapped with context, so use
// errors.Is:
//
//	if errors.Is(err, raster.ErrTruncated) {
//		// the file was cut short
//	}
//
// All functions are safe for concurrent use; no state is shared between calls.
package raster

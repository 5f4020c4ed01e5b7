// Package qrcode turns text into QR code images and reads them back.
//
// Symbols are encoded with github.com/skip2/go-qrcode and handed over as a
// raster.Bitmap, so the pixels themselves are produced by package raster.
// Decoding goes the other way: a PNG (or an SVG written by ToSVG) is
// rasterised into a raster.PixelBuffer and scanned with
// github.com/makiuchi-d/gozxing.
//
// # Architecture
//
// SymbolEncoder and SymbolDecoder are the seams to the third-party QR
// libraries. A Generator combines them with ImageOptions:
//
//   - Symbol encodes content into a module grid with its quiet zone.
//   - Render draws the grid as PNG, optionally with a centred logo and
//     rounded corners.
//   - PNG and SVG chain the two.
//   - Scan reads a PNG or SVG image and returns the embedded text.
//
// BitmapToPixels and PixelsToBitmap convert between module grids and
// pixel buffers for callers that need the raw pixels.
//
// ImageOptions can be built from the presets (DefaultImageOptions,
// HighQualityImageOptions, CompactImageOptions) or loaded from YAML with
// LoadImageOptions.
//
// # Usage
//
//	import "github.com/crushlog/cldfqr/pkg/qrcode"
//
//	img, err := qrcode.Generate("https://crushlog.pro/g/abc12345", qrcode.DefaultImageOptions())
//	if err != nil {
//		// handle error
//	}
//
//	text, err := qrcode.Scan(img)
//
// # Error Handling
//
// Errors are package-level variables; wrapped errors keep them reachable
// through errors.Is from github.com/cockroachdb/errors. IsDecodeFailure
// tells apart images without a readable symbol from malformed images,
// which surface the sentinels of package raster.
package qrcode

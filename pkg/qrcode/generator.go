package qrcode

import (
	"encoding/base64"
	"log/slog"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/crushlog/cldfqr/pkg/logger"
	"github.com/crushlog/cldfqr/pkg/raster"
)

// Generator produces and reads QR images. The zero value is not usable;
// construct one with NewGenerator.
type Generator struct {
	encoder  SymbolEncoder
	decoder  SymbolDecoder
	logger   *slog.Logger
	readFile func(string) ([]byte, error)
}

// Option configures a Generator.
type Option func(*Generator)

// WithSymbolEncoder replaces the QR symbol encoder.
func WithSymbolEncoder(e SymbolEncoder) Option {
	return func(g *Generator) {
		if e != nil {
			g.encoder = e
		}
	}
}

// WithSymbolDecoder replaces the QR symbol decoder.
func WithSymbolDecoder(d SymbolDecoder) Option {
	return func(g *Generator) {
		if d != nil {
			g.decoder = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithFileReader replaces os.ReadFile for loading logos.
func WithFileReader(fn func(string) ([]byte, error)) Option {
	return func(g *Generator) {
		if fn != nil {
			g.readFile = fn
		}
	}
}

// NewGenerator returns a Generator using skip2 for encoding and gozxing for
// decoding. Logging is discarded unless WithLogger is given.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		encoder:  NewSymbolEncoder(),
		decoder:  NewSymbolDecoder(),
		logger:   logger.Discard(),
		readFile: os.ReadFile,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.With(logger.Component("qrcode"))
	return g
}

// Symbol encodes content into a module grid including the quiet zone. A
// grid with more modules than opts.Size pixels fails with ErrInvalidOptions.
func (g *Generator) Symbol(content string, opts ImageOptions) (raster.Bitmap, error) {
	if err := opts.Validate(); err != nil {
		return raster.Bitmap{}, err
	}
	bm, err := g.encoder.EncodeSymbol(content, opts.ErrorCorrection, opts.Margin)
	if err != nil {
		return raster.Bitmap{}, err
	}
	if err := fits(bm, opts); err != nil {
		return raster.Bitmap{}, err
	}
	return bm, nil
}

// fits rejects grids with more modules than opts.Size has pixels; drawing
// them would crop the symbol.
func fits(bm raster.Bitmap, opts ImageOptions) error {
	if bm.Size() > opts.Size {
		return errors.Wrapf(ErrInvalidOptions, "%d modules do not fit in %d pixels", bm.Size(), opts.Size)
	}
	return nil
}

// PNG encodes content and renders it as PNG bytes.
func (g *Generator) PNG(content string, opts ImageOptions) ([]byte, error) {
	bm, err := g.Symbol(content, opts)
	if err != nil {
		return nil, err
	}
	out, err := g.Render(bm, opts)
	if err != nil {
		return nil, err
	}
	g.logger.Debug("png generated", logger.Size(opts.Size), slog.Int("modules", bm.Size()))
	return out, nil
}

// SVG encodes content and renders it as an SVG document. Logos and
// rounded corners are not applied to SVG output.
func (g *Generator) SVG(content string, opts ImageOptions) (string, error) {
	bm, err := g.Symbol(content, opts)
	if err != nil {
		return "", err
	}
	return ToSVG(bm, opts), nil
}

// Scan reads the text of the QR symbol in a PNG or SVG image.
func (g *Generator) Scan(image []byte) (string, error) {
	var (
		pb  *raster.PixelBuffer
		err error
	)
	switch {
	case raster.IsPNG(image):
		pb, err = raster.DecodePNG(image)
	case IsSVG(image):
		pb, err = RasterizeSVG(image)
	default:
		return "", raster.ErrNotPNG
	}
	if err != nil {
		return "", err
	}
	text, err := g.decoder.DecodeSymbol(pb)
	if err != nil {
		g.logger.Debug("no symbol decoded",
			slog.Int("width", pb.Width),
			slog.Int("height", pb.Height),
			logger.Error(err),
		)
		return "", err
	}
	return text, nil
}

var defaultGenerator = NewGenerator()

// Generate creates a PNG QR code for content with opts.
func Generate(content string, opts ImageOptions) ([]byte, error) {
	return defaultGenerator.PNG(content, opts)
}

// GenerateBase64Image returns the PNG from Generate as a data URI.
//
// Usage:
//
//	src, err := qrcode.GenerateBase64Image("https://crushlog.pro/g/abc12345", qrcode.DefaultImageOptions())
//	if err != nil {
//		return err
//	}
//
// And then use the string in an HTML template like this:
//
//	<img src="{{.QrCode}}">
func GenerateBase64Image(content string, opts ImageOptions) (string, error) {
	png, err := Generate(content, opts)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// Scan reads a PNG or SVG image with the default Generator.
func Scan(image []byte) (string, error) {
	return defaultGenerator.Scan(image)
}

// IsDecodeFailure reports whether err means no readable symbol was found,
// as opposed to an unreadable image.
func IsDecodeFailure(err error) bool {
	return errors.IsAny(err, ErrSymbolNotFound, ErrSymbolChecksum, ErrSymbolFormat)
}

// Render draws bm as PNG with the default Generator.
func Render(bm raster.Bitmap, opts ImageOptions) ([]byte, error) {
	return defaultGenerator.Render(bm, opts)
}

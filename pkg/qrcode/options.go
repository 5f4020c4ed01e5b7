package qrcode

import (
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/crushlog/cldfqr/pkg/raster"
)

// ErrorCorrectionLevel is the QR recovery level.
type ErrorCorrectionLevel string

const (
	LevelL ErrorCorrectionLevel = "L" // ~7% recovery
	LevelM ErrorCorrectionLevel = "M" // ~15%
	LevelQ ErrorCorrectionLevel = "Q" // ~25%
	LevelH ErrorCorrectionLevel = "H" // ~30%
)

// ParseLevel accepts L, M, Q or H in either case.
func ParseLevel(s string) (ErrorCorrectionLevel, error) {
	l := ErrorCorrectionLevel(strings.ToUpper(strings.TrimSpace(s)))
	if err := l.Validate(); err != nil {
		return "", err
	}
	return l, nil
}

func (l ErrorCorrectionLevel) Validate() error {
	switch l {
	case LevelL, LevelM, LevelQ, LevelH:
		return nil
	default:
		return errors.Wrapf(ErrInvalidLevel, "%q", string(l))
	}
}

// Limits enforced by ImageOptions.Validate.
const (
	MaxImageSize = raster.MaxDimension
	MaxMargin    = 64
)

// ImageOptions describes how a symbol is rasterised.
type ImageOptions struct {
	// Size is the edge length of the square output in pixels.
	Size int `yaml:"size"`
	// Margin is the quiet zone in modules on each side.
	Margin          int                  `yaml:"margin"`
	ErrorCorrection ErrorCorrectionLevel `yaml:"error_correction"`
	Foreground      raster.RGB           `yaml:"foreground"`
	Background      raster.RGB           `yaml:"background"`

	// LogoPath points at a PNG drawn over the centre of the symbol.
	LogoPath       string `yaml:"logo_path"`
	LogoSize       int    `yaml:"logo_size"`
	RoundedCorners bool   `yaml:"rounded_corners"`
	CornerRadius   int    `yaml:"corner_radius"`
}

// DefaultImageOptions: 256px, 4 module margin, level M, black on white.
func DefaultImageOptions() ImageOptions {
	return ImageOptions{
		Size:            256,
		Margin:          4,
		ErrorCorrection: LevelM,
		Foreground:      raster.Black,
		Background:      raster.White,
		LogoSize:        60,
		CornerRadius:    10,
	}
}

// HighQualityImageOptions is meant for print: 512px, level H, margin 8.
func HighQualityImageOptions() ImageOptions {
	o := DefaultImageOptions()
	o.Size = 512
	o.ErrorCorrection = LevelH
	o.Margin = 8
	return o
}

// CompactImageOptions trades robustness for size: 128px, level L, margin 2.
func CompactImageOptions() ImageOptions {
	o := DefaultImageOptions()
	o.Size = 128
	o.ErrorCorrection = LevelL
	o.Margin = 2
	return o
}

// Validate checks ranges and the error correction level.
func (o ImageOptions) Validate() error {
	if o.Size <= 0 || o.Size > MaxImageSize {
		return errors.Wrapf(ErrInvalidOptions, "size %d outside 1..%d", o.Size, MaxImageSize)
	}
	if o.Margin < 0 || o.Margin > MaxMargin {
		return errors.Wrapf(ErrInvalidOptions, "margin %d outside 0..%d", o.Margin, MaxMargin)
	}
	if err := o.ErrorCorrection.Validate(); err != nil {
		return errors.Mark(err, ErrInvalidOptions)
	}
	if o.LogoPath != "" && (o.LogoSize <= 0 || o.LogoSize >= o.Size) {
		return errors.Wrapf(ErrInvalidOptions, "logo size %d must be between 1 and the image size", o.LogoSize)
	}
	if o.RoundedCorners && o.CornerRadius < 0 {
		return errors.Wrapf(ErrInvalidOptions, "corner radius %d", o.CornerRadius)
	}
	return nil
}

// LoadImageOptions overlays a YAML document on DefaultImageOptions and
// validates the result. Colours must be quoted in YAML ("#1a2b3c").
func LoadImageOptions(data []byte) (ImageOptions, error) {
	o := DefaultImageOptions()
	if err := yaml.Unmarshal(data, &o); err != nil {
		return ImageOptions{}, errors.Wrap(ErrInvalidOptions, err.Error())
	}
	if err := o.Validate(); err != nil {
		return ImageOptions{}, err
	}
	return o, nil
}

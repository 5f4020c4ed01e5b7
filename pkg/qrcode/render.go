package qrcode

import (
	"github.com/cockroachdb/errors"

	"github.com/crushlog/cldfqr/pkg/logger"
	"github.com/crushlog/cldfqr/pkg/raster"
)

// logoPadding is the background border kept around an overlaid logo.
const logoPadding = 5

// Render rasterises bm according to opts and returns PNG bytes. Without a
// logo or rounded corners this is raster.EncodePNG. A logo that cannot be
// loaded is skipped with a warning.
func (g *Generator) Render(bm raster.Bitmap, opts ImageOptions) ([]byte, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := fits(bm, opts); err != nil {
		return nil, err
	}
	if opts.LogoPath == "" && !opts.RoundedCorners {
		out, err := raster.EncodePNG(bm, opts.Size, opts.Foreground, opts.Background)
		if err != nil {
			return nil, errors.Mark(err, ErrorFailedToGenerateQRCode)
		}
		return out, nil
	}
	if bm.IsZero() {
		return nil, errors.Mark(raster.ErrInvalidBitmap, ErrorFailedToGenerateQRCode)
	}

	pb := BitmapToPixels(bm, opts.Size, opts.Foreground, opts.Background)
	if opts.LogoPath != "" {
		if err := g.overlayLogo(pb, opts); err != nil {
			g.logger.Warn("logo skipped",
				logger.Path(opts.LogoPath),
				logger.Error(err),
			)
		}
	}
	if opts.RoundedCorners && opts.CornerRadius > 0 {
		roundCorners(pb, opts.CornerRadius)
	}
	out, err := raster.EncodeRGBA(pb)
	if err != nil {
		return nil, errors.Mark(err, ErrorFailedToGenerateQRCode)
	}
	return out, nil
}

func (g *Generator) overlayLogo(pb *raster.PixelBuffer, opts ImageOptions) error {
	data, err := g.readFile(opts.LogoPath)
	if err != nil {
		return errors.Wrap(err, "read logo")
	}
	logo, err := raster.DecodePNG(data)
	if err != nil {
		return errors.Wrap(err, "decode logo")
	}
	logo = resize(logo, opts.LogoSize, opts.LogoSize)

	padSize := opts.LogoSize + 2*logoPadding
	x0 := (pb.Width - padSize) / 2
	y0 := (pb.Height - padSize) / 2
	bg := opts.Background.ARGB()
	for y := 0; y < padSize; y++ {
		for x := 0; x < padSize; x++ {
			pb.Set(x0+x, y0+y, bg)
		}
	}
	for y := 0; y < logo.Height; y++ {
		for x := 0; x < logo.Width; x++ {
			px, py := x0+logoPadding+x, y0+logoPadding+y
			pb.Set(px, py, over(logo.Pix[y*logo.Width+x], pb.ARGB(px, py)))
		}
	}
	g.logger.Debug("logo applied", logger.Path(opts.LogoPath), logger.Size(opts.LogoSize))
	return nil
}

// resize scales src to w×h with nearest-neighbour sampling.
func resize(src *raster.PixelBuffer, w, h int) *raster.PixelBuffer {
	if src.Width == w && src.Height == h {
		return src
	}
	dst := &raster.PixelBuffer{Width: w, Height: h, Pix: make([]uint32, w*h)}
	for y := 0; y < h; y++ {
		sy := y * src.Height / h
		for x := 0; x < w; x++ {
			dst.Pix[y*w+x] = src.Pix[sy*src.Width+x*src.Width/w]
		}
	}
	return dst
}

// over composites the ARGB pixel src onto dst.
func over(src, dst uint32) uint32 {
	a := src >> 24
	switch a {
	case 0xff:
		return src
	case 0:
		return dst
	}
	mix := func(shift uint) uint32 {
		s := (src >> shift) & 0xff
		d := (dst >> shift) & 0xff
		return ((s*a + d*(0xff-a)) / 0xff) << shift
	}
	da := dst >> 24
	outA := a + da*(0xff-a)/0xff
	return outA<<24 | mix(16) | mix(8) | mix(0)
}

// roundCorners clears every pixel outside a rounded rectangle of radius r
// spanning the whole buffer.
func roundCorners(pb *raster.PixelBuffer, r int) {
	r = min(r, pb.Width/2, pb.Height/2)
	for y := 0; y < r; y++ {
		for x := 0; x < r; x++ {
			// distance from the corner circle centre, measured at pixel centres
			dx := float64(r-x) - 0.5
			dy := float64(r-y) - 0.5
			if dx*dx+dy*dy <= float64(r*r) {
				continue
			}
			pb.Set(x, y, 0)
			pb.Set(pb.Width-1-x, y, 0)
			pb.Set(x, pb.Height-1-y, 0)
			pb.Set(pb.Width-1-x, pb.Height-1-y, 0)
		}
	}
}

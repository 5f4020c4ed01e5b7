package qrcode_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crushlog/cldfqr/pkg/logger"
	"github.com/crushlog/cldfqr/pkg/qrcode"
	"github.com/crushlog/cldfqr/pkg/raster"
)

func logoReader(t *testing.T, fill raster.RGB) func(string) ([]byte, error) {
	t.Helper()
	logo, err := raster.EncodeRGBA(raster.NewPixelBuffer(20, 20, fill))
	require.NoError(t, err)
	return func(path string) ([]byte, error) {
		if path != "logo.png" {
			return nil, os.ErrNotExist
		}
		return logo, nil
	}
}

func TestRender_Logo(t *testing.T) {
	t.Parallel()

	red := raster.NewRGB(0xff, 0, 0)
	g := qrcode.NewGenerator(qrcode.WithFileReader(logoReader(t, red)))

	opts := qrcode.HighQualityImageOptions()
	opts.LogoPath = "logo.png"
	opts.LogoSize = 60

	img, err := g.PNG(routeURL, opts)
	require.NoError(t, err)

	pb, err := raster.DecodePNG(img)
	require.NoError(t, err)
	require.Equal(t, 512, pb.Width)

	// pad spans 221..290, the logo 226..285
	assert.Equal(t, red.ARGB(), pb.ARGB(256, 256))
	assert.Equal(t, red.ARGB(), pb.ARGB(226, 226))
	assert.Equal(t, raster.White.ARGB(), pb.ARGB(222, 256))
	assert.Equal(t, raster.White.ARGB(), pb.ARGB(256, 288))

	text, err := g.Scan(img)
	require.NoError(t, err, "level H survives the logo")
	assert.Equal(t, routeURL, text)
}

func TestRender_MissingLogoIsSkipped(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	g := qrcode.NewGenerator(
		qrcode.WithFileReader(logoReader(t, raster.Black)),
		qrcode.WithLogger(logger.New(logger.WithOutput(&logs), logger.WithFormat(logger.FormatJSON))),
	)

	opts := qrcode.DefaultImageOptions()
	opts.LogoPath = "missing.png"

	img, err := g.PNG(routeURL, opts)
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "logo skipped")
	assert.Contains(t, logs.String(), "missing.png")

	plain := opts
	plain.LogoPath = ""
	want, err := g.PNG(routeURL, plain)
	require.NoError(t, err)

	a, err := raster.DecodePNG(img)
	require.NoError(t, err)
	b, err := raster.DecodePNG(want)
	require.NoError(t, err)
	assert.Equal(t, b.Pix, a.Pix, "output matches a render without logo")
}

func TestRender_RoundedCorners(t *testing.T) {
	t.Parallel()

	opts := qrcode.DefaultImageOptions()
	opts.RoundedCorners = true
	opts.CornerRadius = 20

	img, err := qrcode.Generate(routeURL, opts)
	require.NoError(t, err)

	pb, err := raster.DecodePNG(img)
	require.NoError(t, err)
	for _, p := range [][2]int{{0, 0}, {255, 0}, {0, 255}, {255, 255}, {3, 3}} {
		assert.Zero(t, pb.ARGB(p[0], p[1])>>24, "corner %v is transparent", p)
	}
	assert.Equal(t, uint32(0xff), pb.ARGB(128, 0)>>24)
	assert.Equal(t, uint32(0xff), pb.ARGB(0, 128)>>24)
	assert.Equal(t, uint32(0xff), pb.ARGB(15, 15)>>24)

	text, err := qrcode.Scan(img)
	require.NoError(t, err)
	assert.Equal(t, routeURL, text)
}

func TestRender_InvalidBitmap(t *testing.T) {
	t.Parallel()

	g := qrcode.NewGenerator()
	_, err := g.Render(raster.Bitmap{}, qrcode.DefaultImageOptions())
	require.Error(t, err)

	opts := qrcode.DefaultImageOptions()
	opts.RoundedCorners = true
	_, err = g.Render(raster.Bitmap{}, opts)
	require.Error(t, err)
}

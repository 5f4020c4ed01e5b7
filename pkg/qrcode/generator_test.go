package qrcode_test

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crushlog/cldfqr/pkg/qrcode"
	"github.com/crushlog/cldfqr/pkg/raster"
)

const routeURL = "https://crushlog.pro/g/550e8400"

func TestGenerate(t *testing.T) {
	t.Parallel()

	t.Run("returns error when content is empty", func(t *testing.T) {
		t.Parallel()
		result, err := qrcode.Generate("", qrcode.DefaultImageOptions())

		require.Error(t, err)
		require.Nil(t, result)
		assert.True(t, errors.Is(err, qrcode.ErrEmptyContent))
	})

	t.Run("returns error when content is whitespace only", func(t *testing.T) {
		t.Parallel()
		result, err := qrcode.Generate("   \t\n", qrcode.DefaultImageOptions())

		require.Error(t, err)
		require.Nil(t, result)
		assert.True(t, errors.Is(err, qrcode.ErrEmptyContent))
	})

	t.Run("rejects invalid options", func(t *testing.T) {
		t.Parallel()
		opts := qrcode.DefaultImageOptions()
		opts.Size = 0

		_, err := qrcode.Generate(routeURL, opts)
		assert.True(t, errors.Is(err, qrcode.ErrInvalidOptions))
	})

	for _, tc := range []struct {
		name string
		opts qrcode.ImageOptions
	}{
		{"default", qrcode.DefaultImageOptions()},
		{"high quality", qrcode.HighQualityImageOptions()},
		{"compact", qrcode.CompactImageOptions()},
	} {
		tc := tc
		t.Run("generates readable PNG with "+tc.name+" options", func(t *testing.T) {
			t.Parallel()
			result, err := qrcode.Generate(routeURL, tc.opts)
			require.NoError(t, err)

			img, err := png.Decode(bytes.NewReader(result))
			require.NoError(t, err, "result should be a valid PNG image")
			assert.Equal(t, tc.opts.Size, img.Bounds().Dx())
			assert.Equal(t, tc.opts.Size, img.Bounds().Dy())

			text, err := qrcode.Scan(result)
			require.NoError(t, err)
			assert.Equal(t, routeURL, text)
		})
	}

	t.Run("rejects symbols wider than the canvas", func(t *testing.T) {
		t.Parallel()
		long := routeURL + "?" + strings.Repeat("a", 1500)

		result, err := qrcode.Generate(long, qrcode.CompactImageOptions())
		require.Error(t, err)
		assert.Nil(t, result)
		assert.True(t, errors.Is(err, qrcode.ErrInvalidOptions), "got %v", err)

		g := qrcode.NewGenerator()
		_, err = g.SVG(long, qrcode.CompactImageOptions())
		assert.True(t, errors.Is(err, qrcode.ErrInvalidOptions))

		bm, err := g.Symbol(long, qrcode.DefaultImageOptions())
		require.NoError(t, err, "the same text fits in 256 pixels")
		require.Greater(t, bm.Size(), 128)
		_, err = g.Render(bm, qrcode.CompactImageOptions())
		assert.True(t, errors.Is(err, qrcode.ErrInvalidOptions))
	})

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()
		a, err := qrcode.Generate(routeURL, qrcode.DefaultImageOptions())
		require.NoError(t, err)
		b, err := qrcode.Generate(routeURL, qrcode.DefaultImageOptions())
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})
}

func TestGenerateBase64Image(t *testing.T) {
	t.Parallel()

	t.Run("returns error when content is empty", func(t *testing.T) {
		t.Parallel()
		result, err := qrcode.GenerateBase64Image("", qrcode.DefaultImageOptions())

		require.Error(t, err)
		require.Empty(t, result)
		assert.True(t, errors.Is(err, qrcode.ErrEmptyContent))
	})

	t.Run("can decode base64 content to valid PNG", func(t *testing.T) {
		t.Parallel()
		result, err := qrcode.GenerateBase64Image(routeURL, qrcode.DefaultImageOptions())
		require.NoError(t, err)

		const prefix = "data:image/png;base64,"
		require.True(t, strings.HasPrefix(result, prefix))

		decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(result, prefix))
		require.NoError(t, err)

		img, err := png.Decode(bytes.NewReader(decoded))
		require.NoError(t, err)
		assert.Equal(t, 256, img.Bounds().Dx())
	})
}

func TestScan(t *testing.T) {
	t.Parallel()

	t.Run("reads SVG output", func(t *testing.T) {
		t.Parallel()
		g := qrcode.NewGenerator()
		svg, err := g.SVG(routeURL, qrcode.DefaultImageOptions())
		require.NoError(t, err)

		text, err := g.Scan([]byte(svg))
		require.NoError(t, err)
		assert.Equal(t, routeURL, text)
	})

	t.Run("blank image has no symbol", func(t *testing.T) {
		t.Parallel()
		blank, err := raster.EncodeRGBA(raster.NewPixelBuffer(64, 64, raster.White))
		require.NoError(t, err)

		_, err = qrcode.Scan(blank)
		require.Error(t, err)
		assert.True(t, qrcode.IsDecodeFailure(err))
	})

	t.Run("rejects non-image input", func(t *testing.T) {
		t.Parallel()
		_, err := qrcode.Scan([]byte("hello"))
		require.Error(t, err)
		assert.False(t, qrcode.IsDecodeFailure(err))
		assert.True(t, errors.Is(err, raster.ErrNotPNG))
	})

	t.Run("reports corrupt PNG", func(t *testing.T) {
		t.Parallel()
		img, err := qrcode.Generate(routeURL, qrcode.DefaultImageOptions())
		require.NoError(t, err)

		_, err = qrcode.Scan(img[:40])
		require.Error(t, err)
		assert.False(t, qrcode.IsDecodeFailure(err))
	})
}

type stubDecoder struct{ text string }

func (s stubDecoder) DecodeSymbol(*raster.PixelBuffer) (string, error) { return s.text, nil }

func TestGenerator_Options(t *testing.T) {
	t.Parallel()

	img, err := qrcode.Generate(routeURL, qrcode.DefaultImageOptions())
	require.NoError(t, err)

	g := qrcode.NewGenerator(
		qrcode.WithSymbolDecoder(stubDecoder{text: "stub"}),
		qrcode.WithLogger(nil),
		qrcode.WithSymbolEncoder(nil),
	)
	text, err := g.Scan(img)
	require.NoError(t, err)
	assert.Equal(t, "stub", text)

	bm, err := g.Symbol(routeURL, qrcode.DefaultImageOptions())
	require.NoError(t, err, "nil encoder option keeps the default")
	assert.False(t, bm.IsZero())
}

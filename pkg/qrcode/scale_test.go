package qrcode_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crushlog/cldfqr/pkg/qrcode"
	"github.com/crushlog/cldfqr/pkg/raster"
)

func TestBitmapToPixels(t *testing.T) {
	t.Parallel()

	bm, err := raster.NewBitmap([][]bool{
		{true, false},
		{false, true},
	})
	require.NoError(t, err)

	red := raster.NewRGB(0xff, 0, 0)
	pb := qrcode.BitmapToPixels(bm, 5, red, raster.White)
	require.Equal(t, 5, pb.Width)

	// scale is 2, the last column and row repeat module 1
	assert.Equal(t, red.ARGB(), pb.ARGB(0, 0))
	assert.Equal(t, red.ARGB(), pb.ARGB(1, 1))
	assert.Equal(t, raster.White.ARGB(), pb.ARGB(2, 0))
	assert.Equal(t, red.ARGB(), pb.ARGB(4, 4))
	assert.Equal(t, raster.White.ARGB(), pb.ARGB(0, 4))
}

func TestPixelsToBitmap(t *testing.T) {
	t.Parallel()

	t.Run("recovers the grid", func(t *testing.T) {
		t.Parallel()
		bm, err := qrcode.NewSymbolEncoder().EncodeSymbol(routeURL, qrcode.LevelM, 2)
		require.NoError(t, err)

		size := bm.Size() * 6
		got, err := qrcode.PixelsToBitmap(qrcode.BitmapToPixels(bm, size, raster.Black, raster.White), bm.Size())
		require.NoError(t, err)
		assert.True(t, bm.Equal(got))
	})

	t.Run("transparent reads as off", func(t *testing.T) {
		t.Parallel()
		pb := &raster.PixelBuffer{Width: 2, Height: 2, Pix: []uint32{0xff000000, 0, 0x00000000, 0xff000000}}
		got, err := qrcode.PixelsToBitmap(pb, 2)
		require.NoError(t, err)
		assert.True(t, got.Get(0, 0))
		assert.False(t, got.Get(1, 0))
		assert.False(t, got.Get(0, 1))
		assert.True(t, got.Get(1, 1))
	})

	t.Run("invalid module count", func(t *testing.T) {
		t.Parallel()
		pb := raster.NewPixelBuffer(4, 4, raster.White)
		for _, n := range []int{0, -1, 5} {
			_, err := qrcode.PixelsToBitmap(pb, n)
			assert.True(t, errors.Is(err, raster.ErrInvalidSize), "modules=%d", n)
		}
	})
}

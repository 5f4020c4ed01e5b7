package raster_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crushlog/cldfqr/pkg/raster"
)

func TestDecodePNG_Filters(t *testing.T) {
	t.Parallel()

	flat := []byte{raster.FilterNone, 50, 50, 50, 50}
	raw := []byte{1, 2, 3, 250}

	tests := []struct {
		name   string
		filter byte
		want   []byte
	}{
		{name: "none", filter: raster.FilterNone, want: []byte{1, 2, 3, 250}},
		{name: "sub", filter: raster.FilterSub, want: []byte{1, 3, 6, 0}},
		{name: "up", filter: raster.FilterUp, want: []byte{51, 52, 53, 44}},
		{name: "average", filter: raster.FilterAverage, want: []byte{26, 40, 48, 43}},
		{name: "paeth", filter: raster.FilterPaeth, want: []byte{51, 53, 56, 50}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			row := append([]byte{tt.filter}, raw...)
			data := fixture{
				width: 4, height: 2, depth: 8, color: raster.ColorGray,
				rows: [][]byte{flat, row},
			}.bytes(t)

			pb, err := raster.DecodePNG(data)
			require.NoError(t, err)
			require.Equal(t, 4, pb.Width)
			require.Equal(t, 2, pb.Height)
			require.Len(t, pb.Pix, pb.Width*pb.Height)

			got := grayValues(pb.Pix)
			assert.Equal(t, []byte{50, 50, 50, 50}, got[:4], "first row is unfiltered")
			assert.Equal(t, tt.want, got[4:], "second row after %s filter", tt.name)
		})
	}
}

func TestDecodePNG_FirstRowUsesZeroPrevious(t *testing.T) {
	t.Parallel()

	data := fixture{
		width: 3, height: 1, depth: 8, color: raster.ColorGray,
		rows: [][]byte{{raster.FilterUp, 7, 8, 9}},
	}.bytes(t)

	pb, err := raster.DecodePNG(data)
	require.NoError(t, err)
	assert.Equal(t, []byte{7, 8, 9}, grayValues(pb.Pix))
}

func TestDecodePNG_ColorTypes(t *testing.T) {
	t.Parallel()

	t.Run("rgb", func(t *testing.T) {
		t.Parallel()
		data := fixture{
			width: 2, height: 1, depth: 8, color: raster.ColorRGB,
			rows: [][]byte{{0, 0x11, 0x22, 0x33, 0xaa, 0xbb, 0xcc}},
		}.bytes(t)
		pb, err := raster.DecodePNG(data)
		require.NoError(t, err)
		assert.Equal(t, []uint32{0xff112233, 0xffaabbcc}, pb.Pix)
	})

	t.Run("rgba", func(t *testing.T) {
		t.Parallel()
		data := fixture{
			width: 1, height: 1, depth: 8, color: raster.ColorRGBA,
			rows: [][]byte{{0, 0x10, 0x20, 0x30, 0x80}},
		}.bytes(t)
		pb, err := raster.DecodePNG(data)
		require.NoError(t, err)
		assert.Equal(t, []uint32{0x80102030}, pb.Pix)
	})

	t.Run("gray alpha", func(t *testing.T) {
		t.Parallel()
		data := fixture{
			width: 2, height: 1, depth: 8, color: raster.ColorGrayAlpha,
			rows: [][]byte{{0, 0x40, 0xff, 0x90, 0x00}},
		}.bytes(t)
		pb, err := raster.DecodePNG(data)
		require.NoError(t, err)
		assert.Equal(t, []uint32{0xff404040, 0x00909090}, pb.Pix)
	})

	t.Run("16-bit rgb keeps the high byte", func(t *testing.T) {
		t.Parallel()
		data := fixture{
			width: 1, height: 1, depth: 16, color: raster.ColorRGB,
			rows: [][]byte{{0, 0x12, 0x01, 0x34, 0x02, 0x56, 0x03}},
		}.bytes(t)
		pb, err := raster.DecodePNG(data)
		require.NoError(t, err)
		assert.Equal(t, []uint32{0xff123456}, pb.Pix)
	})

	t.Run("palette without PLTE reads index as grey", func(t *testing.T) {
		t.Parallel()
		data := fixture{
			width: 2, height: 1, depth: 8, color: raster.ColorPalette,
			rows: [][]byte{{0, 0x00, 0xff}},
		}.bytes(t)
		pb, err := raster.DecodePNG(data)
		require.NoError(t, err)
		assert.Equal(t, []uint32{0xff000000, 0xffffffff}, pb.Pix)
	})

	t.Run("palette with PLTE and tRNS", func(t *testing.T) {
		t.Parallel()
		data := fixture{
			width: 3, height: 1, depth: 8, color: raster.ColorPalette,
			before: []rawChunk{
				{typ: "PLTE", data: []byte{0xff, 0, 0, 0, 0xff, 0, 0, 0, 0xff}},
				{typ: "tRNS", data: []byte{0x00}},
			},
			rows: [][]byte{{0, 0, 1, 2}},
		}.bytes(t)
		pb, err := raster.DecodePNG(data)
		require.NoError(t, err)
		assert.Equal(t, []uint32{0x00ff0000, 0xff00ff00, 0xff0000ff}, pb.Pix)
	})

	t.Run("1-bit grayscale", func(t *testing.T) {
		t.Parallel()
		data := fixture{
			width: 10, height: 1, depth: 1, color: raster.ColorGray,
			rows: [][]byte{{0, 0b10110000, 0b01000000}},
		}.bytes(t)
		pb, err := raster.DecodePNG(data)
		require.NoError(t, err)
		assert.Equal(t, []byte{255, 0, 255, 255, 0, 0, 0, 0, 0, 255}, grayValues(pb.Pix))
	})

	t.Run("2-bit palette", func(t *testing.T) {
		t.Parallel()
		data := fixture{
			width: 4, height: 1, depth: 2, color: raster.ColorPalette,
			before: []rawChunk{
				{typ: "PLTE", data: []byte{0, 0, 0, 0x10, 0x10, 0x10, 0x20, 0x20, 0x20, 0x30, 0x30, 0x30}},
			},
			rows: [][]byte{{0, 0b00011011}},
		}.bytes(t)
		pb, err := raster.DecodePNG(data)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x00, 0x10, 0x20, 0x30}, grayValues(pb.Pix))
	})
}

func TestDecodePNG_MultipleIDAT(t *testing.T) {
	t.Parallel()

	rows := make([][]byte, 16)
	for y := range rows {
		row := []byte{raster.FilterSub}
		for x := 0; x < 16; x++ {
			row = append(row, byte(x+y))
		}
		rows[y] = row
	}
	single := fixture{width: 16, height: 16, depth: 8, color: raster.ColorGray, rows: rows}
	split := single
	split.splitIDAT = 5

	a, err := raster.DecodePNG(single.bytes(t))
	require.NoError(t, err)
	b, err := raster.DecodePNG(split.bytes(t))
	require.NoError(t, err)
	assert.Equal(t, a.Pix, b.Pix)
}

func TestDecodePNG_ShortDataDegrades(t *testing.T) {
	t.Parallel()

	data := fixture{
		width: 2, height: 5, depth: 8, color: raster.ColorGray,
		rows: [][]byte{{0, 1, 2}, {0, 3, 4}, {0, 5}},
	}.bytes(t)

	pb, err := raster.DecodePNG(data)
	require.NoError(t, err)
	assert.Equal(t, 2, pb.Height, "only complete scanlines are kept")
	assert.Equal(t, []byte{1, 2, 3, 4}, grayValues(pb.Pix))
}

func TestDecodePNG_Errors(t *testing.T) {
	t.Parallel()

	valid := fixture{
		width: 2, height: 1, depth: 8, color: raster.ColorGray,
		rows: [][]byte{{0, 1, 2}},
	}

	bm, err := raster.NewBitmap([][]bool{{true, false}, {false, true}})
	require.NoError(t, err)
	encoded, err := raster.EncodePNG(bm, 64, raster.Black, raster.White)
	require.NoError(t, err)
	// signature (8) + IHDR (25) + IDAT header (8) then half the IDAT payload.
	idatLen := len(encoded) - 8 - 25 - 12 - 12
	midIDAT := encoded[:8+25+8+idatLen/2]

	noIDAT := func() []byte {
		var buf bytes.Buffer
		buf.Write(valid.bytes(t)[:8+25])
		appendChunk(&buf, "IEND", nil)
		return buf.Bytes()
	}()

	badFilter := valid
	badFilter.rows = [][]byte{{7, 1, 2}}

	interlaced := valid
	interlaced.interlace = 1

	badDepth := valid
	badDepth.color = raster.ColorRGB
	badDepth.depth = 4

	tooWide := valid
	tooWide.width = raster.MaxDimension + 1

	// a few hundred bytes of IDAT claiming a 16384x16384 canvas
	bomb := fixture{
		width: 16384, height: 16384, depth: 8, color: raster.ColorGray,
		rows: [][]byte{make([]byte, 16385), make([]byte, 16385)},
	}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{name: "empty input", data: nil, want: raster.ErrNotPNG},
		{name: "not a png", data: []byte("GIF89a........"), want: raster.ErrNotPNG},
		{name: "signature only", data: []byte("\x89PNG\r\n\x1a\n"), want: raster.ErrInvalidStructure},
		{name: "cut inside chunk header", data: valid.bytes(t)[:12], want: raster.ErrTruncated},
		{name: "cut mid IDAT", data: midIDAT, want: raster.ErrTruncated},
		{name: "missing IDAT", data: noIDAT, want: raster.ErrInvalidStructure},
		{name: "unknown filter", data: badFilter.bytes(t), want: raster.ErrUnsupportedFilter},
		{name: "interlaced", data: interlaced.bytes(t), want: raster.ErrUnsupportedFormat},
		{name: "bad bit depth", data: badDepth.bytes(t), want: raster.ErrUnsupportedFormat},
		{name: "wider than limit", data: tooWide.bytes(t), want: raster.ErrUnsupportedFormat},
		{name: "oversized canvas", data: bomb.bytes(t), want: raster.ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var (
				pb  *raster.PixelBuffer
				err error
			)
			require.NotPanics(t, func() {
				pb, err = raster.DecodePNG(tt.data)
			})
			require.Error(t, err)
			assert.Nil(t, pb)
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
		})
	}
}

func TestDecodePNG_HugeLengthDoesNotOverread(t *testing.T) {
	t.Parallel()

	data := []byte("\x89PNG\r\n\x1a\n\xff\xff\xff\xf0IDAT\x01\x02")
	pb, err := raster.DecodePNG(data)
	require.Error(t, err)
	assert.Nil(t, pb)
	assert.ErrorIs(t, err, raster.ErrTruncated)
}

func TestDecodePNG_StandardLibraryOutput(t *testing.T) {
	t.Parallel()

	// image/png picks filters adaptively, so a gradient exercises every
	// filter type the decoder must undo.
	src := image.NewNRGBA(image.Rect(0, 0, 37, 23))
	for y := 0; y < 23; y++ {
		for x := 0; x < 37; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 7), G: uint8(y * 11), B: uint8(x * y), A: uint8(255 - x)})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	pb, err := raster.DecodePNG(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, 37, pb.Width)
	require.Equal(t, 23, pb.Height)

	for y := 0; y < 23; y++ {
		for x := 0; x < 37; x++ {
			want := src.NRGBAAt(x, y)
			assert.Equal(t, want, pb.At(x, y), "pixel %d,%d", x, y)
		}
	}
}

func TestDecodePNG_StandardLibraryPaletted(t *testing.T) {
	t.Parallel()

	pal := color.Palette{color.White, color.Black}
	src := image.NewPaletted(image.Rect(0, 0, 9, 3), pal)
	for x := 0; x < 9; x += 2 {
		src.SetColorIndex(x, 1, 1)
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	pb, err := raster.DecodePNG(buf.Bytes())
	require.NoError(t, err)
	for x := 0; x < 9; x++ {
		want := uint32(0xffffffff)
		if x%2 == 0 {
			want = 0xff000000
		}
		assert.Equal(t, want, pb.ARGB(x, 1), "pixel %d", x)
		assert.Equal(t, uint32(0xffffffff), pb.ARGB(x, 0))
	}
}

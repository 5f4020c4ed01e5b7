package raster

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Bitmap is an immutable square grid of QR modules. A set module is
// foreground ("on").
type Bitmap struct {
	size int
	bits []bool
}

// NewBitmap copies rows (indexed rows[y][x]) into a Bitmap.
// Empty, ragged and non-square grids are rejected with ErrInvalidBitmap.
func NewBitmap(rows [][]bool) (Bitmap, error) {
	n := len(rows)
	if n == 0 {
		return Bitmap{}, ErrInvalidBitmap
	}
	bits := make([]bool, 0, n*n)
	for y, row := range rows {
		if len(row) != n {
			return Bitmap{}, errors.Wrapf(ErrInvalidBitmap, "row %d has %d modules, want %d", y, len(row), n)
		}
		bits = append(bits, row...)
	}
	return Bitmap{size: n, bits: bits}, nil
}

// Size returns the number of modules per side.
func (b Bitmap) Size() int { return b.size }

// Width returns the number of modules per row.
func (b Bitmap) Width() int { return b.size }

// Height returns the number of rows.
func (b Bitmap) Height() int { return b.size }

// IsZero reports whether b holds no modules.
func (b Bitmap) IsZero() bool { return b.size == 0 }

// Get reports whether the module at (x, y) is on. Out-of-range
// coordinates report false.
func (b Bitmap) Get(x, y int) bool {
	if x < 0 || y < 0 || x >= b.size || y >= b.size {
		return false
	}
	return b.bits[y*b.size+x]
}

// Rows returns a copy of the grid as rows[y][x].
func (b Bitmap) Rows() [][]bool {
	rows := make([][]bool, b.size)
	for y := range rows {
		rows[y] = append([]bool(nil), b.bits[y*b.size:(y+1)*b.size]...)
	}
	return rows
}

// Equal reports whether both bitmaps hold the same modules.
func (b Bitmap) Equal(o Bitmap) bool {
	if b.size != o.size {
		return false
	}
	for i := range b.bits {
		if b.bits[i] != o.bits[i] {
			return false
		}
	}
	return true
}

// String renders the bitmap with '#' for on modules, one line per row.
func (b Bitmap) String() string {
	var sb strings.Builder
	sb.Grow((b.size + 1) * b.size)
	for y := 0; y < b.size; y++ {
		for x := 0; x < b.size; x++ {
			if b.Get(x, y) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Scale returns the integer number of pixels per module when a grid of
// modules cells is drawn on a canvas of pixelSize pixels. It never returns
// less than 1.
func Scale(pixelSize, modules int) int {
	if modules <= 0 {
		return 1
	}
	s := pixelSize / modules
	if s < 1 {
		return 1
	}
	return s
}

// SourceIndex maps an output pixel coordinate to the module it samples,
// clamped to [0, modules-1]. This is the only nearest-neighbour rule used
// for module grids; callers must not re-derive it.
func SourceIndex(p, scale, modules int) int {
	i := p / scale
	if i >= modules {
		return modules - 1
	}
	if i < 0 {
		return 0
	}
	return i
}

// Sample reports whether the module drawn at output pixel (px, py) is on
// for the given scale.
func (b Bitmap) Sample(px, py, scale int) bool {
	if b.size == 0 {
		return false
	}
	return b.bits[SourceIndex(py, scale, b.size)*b.size+SourceIndex(px, scale, b.size)]
}

// RGB is a 24-bit colour stored as 0xRRGGBB.
type RGB uint32

const (
	Black RGB = 0x000000
	White RGB = 0xffffff
)

// NewRGB builds a colour from its components.
func NewRGB(r, g, b uint8) RGB {
	return RGB(uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// ParseRGB parses "#rrggbb", "rrggbb" or the short "#rgb" form.
func ParseRGB(s string) (RGB, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return 0, errors.Newf("invalid colour %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid colour %q", s)
	}
	return RGB(v), nil
}

func (c RGB) R() uint8 { return uint8(c >> 16) }
func (c RGB) G() uint8 { return uint8(c >> 8) }
func (c RGB) B() uint8 { return uint8(c) }

// ARGB returns the colour as an opaque packed ARGB value.
func (c RGB) ARGB() uint32 { return 0xff000000 | uint32(c)&0xffffff }

// Hex returns the lowercase "#rrggbb" form.
func (c RGB) Hex() string { return fmt.Sprintf("#%06x", uint32(c)&0xffffff) }

func (c RGB) String() string { return c.Hex() }

// MarshalText implements encoding.TextMarshaler.
func (c RGB) MarshalText() ([]byte, error) { return []byte(c.Hex()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *RGB) UnmarshalText(text []byte) error {
	v, err := ParseRGB(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

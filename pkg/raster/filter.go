package raster

import "github.com/cockroachdb/errors"

// PNG scanline filter types.
const (
	FilterNone    byte = 0
	FilterSub     byte = 1
	FilterUp      byte = 2
	FilterAverage byte = 3
	FilterPaeth   byte = 4
)

// Unfilter reverses the PNG filter of one scanline in place. cur holds the
// filtered bytes of the row (without the leading filter byte), prev the
// reconstructed previous row (all zero for the first row) and bpp the
// number of bytes per complete pixel, at least 1. Arithmetic wraps modulo 256.
func Unfilter(filter byte, cur, prev []byte, bpp int) error {
	if bpp < 1 {
		bpp = 1
	}
	switch filter {
	case FilterNone:
	case FilterSub:
		for i := bpp; i < len(cur); i++ {
			cur[i] += cur[i-bpp]
		}
	case FilterUp:
		for i := range cur {
			cur[i] += prev[i]
		}
	case FilterAverage:
		for i := range cur {
			var left int
			if i >= bpp {
				left = int(cur[i-bpp])
			}
			cur[i] += byte((left + int(prev[i])) / 2)
		}
	case FilterPaeth:
		for i := range cur {
			var left, upLeft byte
			if i >= bpp {
				left = cur[i-bpp]
				upLeft = prev[i-bpp]
			}
			cur[i] += paeth(left, prev[i], upLeft)
		}
	default:
		return errors.Wrapf(ErrUnsupportedFilter, "filter type %d", filter)
	}
	return nil
}

// paeth picks whichever of a (left), b (up) and c (upper left) is closest
// to a+b-c, preferring a, then b, then c on ties.
func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

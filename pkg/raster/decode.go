package raster

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/zlib"
)

// MaxDimension bounds the width and height DecodePNG accepts. It is checked
// before any image data is inflated.
const MaxDimension = 4096

// Header is the decoded IHDR chunk.
type Header struct {
	Width     int
	Height    int
	BitDepth  byte
	ColorType byte
	Interlace byte
}

func (h Header) channels() int {
	switch h.ColorType {
	case ColorRGB:
		return 3
	case ColorGrayAlpha:
		return 2
	case ColorRGBA:
		return 4
	default:
		return 1
	}
}

// BytesPerPixel is the filter unit: the bytes of one complete pixel,
// rounded up to 1 for sub-byte depths.
func (h Header) BytesPerPixel() int {
	if b := h.channels() * int(h.BitDepth) / 8; b > 0 {
		return b
	}
	return 1
}

// Stride is the number of image bytes in one scanline, excluding the
// filter byte.
func (h Header) Stride() int {
	return (h.Width*h.channels()*int(h.BitDepth) + 7) / 8
}

func (h Header) validate() error {
	if h.Width <= 0 || h.Height <= 0 {
		return errors.Wrapf(ErrInvalidStructure, "image is %dx%d", h.Width, h.Height)
	}
	if h.Width > MaxDimension || h.Height > MaxDimension {
		return errors.Wrapf(ErrUnsupportedFormat, "image is %dx%d, limit is %d", h.Width, h.Height, MaxDimension)
	}
	if h.Interlace != 0 {
		return errors.Wrap(ErrUnsupportedFormat, "interlaced images")
	}
	var depths []byte
	switch h.ColorType {
	case ColorGray:
		depths = []byte{1, 2, 4, 8, 16}
	case ColorPalette:
		depths = []byte{1, 2, 4, 8}
	case ColorRGB, ColorGrayAlpha, ColorRGBA:
		depths = []byte{8, 16}
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "colour type %d", h.ColorType)
	}
	for _, d := range depths {
		if d == h.BitDepth {
			return nil
		}
	}
	return errors.Wrapf(ErrUnsupportedFormat, "bit depth %d for colour type %d", h.BitDepth, h.ColorType)
}

// DecodePNG parses a PNG file into a PixelBuffer. Malformed input yields an
// error, never a panic. When the image data holds fewer complete scanlines
// than the header promises, the buffer is cut to the rows that are present.
func DecodePNG(data []byte) (*PixelBuffer, error) {
	if !IsPNG(data) {
		return nil, ErrNotPNG
	}

	var (
		hdr     Header
		haveHdr bool
		palette []uint32
		alpha   []byte
		idat    bytes.Buffer
	)
	r := newChunkReader(data)
loop:
	for {
		c, ok, err := r.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		switch c.typ {
		case chunkIHDR:
			if haveHdr {
				continue
			}
			if len(c.data) != 13 {
				return nil, errors.Wrapf(ErrInvalidStructure, "IHDR is %d bytes, want 13", len(c.data))
			}
			hdr = Header{
				Width:     int(binary.BigEndian.Uint32(c.data[0:4])),
				Height:    int(binary.BigEndian.Uint32(c.data[4:8])),
				BitDepth:  c.data[8],
				ColorType: c.data[9],
				Interlace: c.data[12],
			}
			haveHdr = true
		case chunkPLTE:
			palette = parsePalette(c.data)
		case chunkTRNS:
			alpha = c.data
		case chunkIDAT:
			idat.Write(c.data)
		case chunkIEND:
			break loop
		}
	}
	if !haveHdr {
		return nil, errors.Wrap(ErrInvalidStructure, "missing IHDR chunk")
	}
	if idat.Len() == 0 {
		return nil, errors.Wrap(ErrInvalidStructure, "missing IDAT chunk")
	}
	if err := hdr.validate(); err != nil {
		return nil, err
	}
	if len(palette) > 0 && len(alpha) > 0 {
		for i := 0; i < len(alpha) && i < len(palette); i++ {
			palette[i] = uint32(alpha[i])<<24 | palette[i]&0xffffff
		}
	}

	scanline := hdr.Stride() + 1
	expected := hdr.Height * scanline
	raw, err := inflate(idat.Bytes(), expected)
	if err != nil {
		return nil, err
	}

	height := hdr.Height
	if len(raw) < expected {
		height = len(raw) / scanline
		if height < 1 {
			return nil, errors.Wrapf(ErrTruncated, "image data holds %d bytes, one scanline needs %d", len(raw), scanline)
		}
	}

	pb := &PixelBuffer{Width: hdr.Width, Height: height, Pix: make([]uint32, hdr.Width*height)}
	bpp := hdr.BytesPerPixel()
	prev := make([]byte, hdr.Stride())
	for y := 0; y < height; y++ {
		line := raw[y*scanline : (y+1)*scanline]
		cur := line[1:]
		if err := Unfilter(line[0], cur, prev, bpp); err != nil {
			return nil, errors.Wrapf(err, "scanline %d", y)
		}
		convertRow(hdr, palette, cur, pb.Pix[y*hdr.Width:(y+1)*hdr.Width])
		prev = cur
	}
	return pb, nil
}

// inflate decompresses the concatenated IDAT payload. Output beyond limit
// is not read, so a hostile stream cannot expand without bound.
func inflate(compressed []byte, limit int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, errors.Wrapf(ErrCorruptData, "open zlib stream: %v", err)
	}
	defer zr.Close()
	raw, err := io.ReadAll(io.LimitReader(zr, int64(limit)))
	if err != nil {
		return nil, errors.Wrapf(ErrCorruptData, "inflate image data: %v", err)
	}
	return raw, nil
}

func parsePalette(data []byte) []uint32 {
	n := len(data) / 3
	pal := make([]uint32, n)
	for i := 0; i < n; i++ {
		pal[i] = 0xff000000 | uint32(data[3*i])<<16 | uint32(data[3*i+1])<<8 | uint32(data[3*i+2])
	}
	return pal
}

// convertRow maps one reconstructed scanline to packed ARGB pixels.
func convertRow(h Header, palette []uint32, line []byte, out []uint32) {
	depth := int(h.BitDepth)
	if depth < 8 {
		convertPackedRow(h, palette, line, out)
		return
	}
	step := depth / 8 // 16-bit samples contribute their high byte.
	bpp := h.channels() * step
	for x := range out {
		o := x * bpp
		switch h.ColorType {
		case ColorGray:
			out[x] = gray(line[o], 0xff)
		case ColorRGB:
			out[x] = 0xff000000 | uint32(line[o])<<16 | uint32(line[o+step])<<8 | uint32(line[o+2*step])
		case ColorPalette:
			out[x] = lookup(palette, line[o])
		case ColorGrayAlpha:
			out[x] = gray(line[o], line[o+step])
		case ColorRGBA:
			out[x] = uint32(line[o+3*step])<<24 | uint32(line[o])<<16 | uint32(line[o+step])<<8 | uint32(line[o+2*step])
		}
	}
}

// convertPackedRow handles 1, 2 and 4-bit grayscale and palette rows,
// whose samples are packed most significant bit first.
func convertPackedRow(h Header, palette []uint32, line []byte, out []uint32) {
	depth := uint(h.BitDepth)
	mask := byte(1<<depth - 1)
	perByte := 8 / int(depth)
	for x := range out {
		b := line[x/perByte]
		shift := 8 - depth*uint(x%perByte+1)
		v := (b >> shift) & mask
		if h.ColorType == ColorPalette {
			out[x] = lookup(palette, v)
			continue
		}
		out[x] = gray(byte(int(v)*255/int(mask)), 0xff)
	}
}

// lookup resolves a palette index. Without a PLTE chunk the index itself
// is used as a grey level.
func lookup(palette []uint32, idx byte) uint32 {
	if int(idx) < len(palette) {
		return palette[idx]
	}
	return gray(idx, 0xff)
}

func gray(v, a byte) uint32 {
	g := uint32(v)
	return uint32(a)<<24 | g<<16 | g<<8 | g
}

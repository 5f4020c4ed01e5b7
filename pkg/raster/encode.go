package raster

import (
	"bytes"
	"encoding/binary"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/zlib"
)

// PNG colour types.
const (
	ColorGray      byte = 0
	ColorRGB       byte = 2
	ColorPalette   byte = 3
	ColorGrayAlpha byte = 4
	ColorRGBA      byte = 6
)

// EncodePNG renders bm on a pixelSize×pixelSize canvas and returns it as an
// 8-bit truecolour PNG. Each output pixel takes fg when the module it
// samples (nearest neighbour, see SourceIndex) is on and bg otherwise.
// Scanlines are written unfiltered.
func EncodePNG(bm Bitmap, pixelSize int, fg, bg RGB) ([]byte, error) {
	if bm.IsZero() {
		return nil, ErrInvalidBitmap
	}
	if pixelSize <= 0 {
		return nil, errors.Wrapf(ErrInvalidSize, "got %d", pixelSize)
	}
	scale := Scale(pixelSize, bm.Size())

	var buf bytes.Buffer
	buf.Grow(pixelSize * pixelSize / 8)
	buf.WriteString(pngSignature)
	writeIHDR(&buf, pixelSize, pixelSize, 8, ColorRGB)

	fgPix := [3]byte{fg.R(), fg.G(), fg.B()}
	bgPix := [3]byte{bg.R(), bg.G(), bg.B()}

	idat, err := deflate(pixelSize, 1+3*pixelSize, func(y int, line []byte) {
		line[0] = FilterNone
		for x := 0; x < pixelSize; x++ {
			px := bgPix
			if bm.Sample(x, y, scale) {
				px = fgPix
			}
			copy(line[1+3*x:], px[:])
		}
	})
	if err != nil {
		return nil, err
	}
	writeChunk(&buf, chunkIDAT, idat)
	writeChunk(&buf, chunkIEND, nil)
	return buf.Bytes(), nil
}

// EncodeRGBA writes pb as an 8-bit RGBA PNG with unfiltered scanlines.
func EncodeRGBA(pb *PixelBuffer) ([]byte, error) {
	if !pb.Valid() {
		return nil, ErrInvalidPixelBuffer
	}
	var buf bytes.Buffer
	buf.WriteString(pngSignature)
	writeIHDR(&buf, pb.Width, pb.Height, 8, ColorRGBA)

	idat, err := deflate(pb.Height, 1+4*pb.Width, func(y int, line []byte) {
		line[0] = FilterNone
		row := pb.Pix[y*pb.Width : (y+1)*pb.Width]
		for x, v := range row {
			o := 1 + 4*x
			line[o] = byte(v >> 16)
			line[o+1] = byte(v >> 8)
			line[o+2] = byte(v)
			line[o+3] = byte(v >> 24)
		}
	})
	if err != nil {
		return nil, err
	}
	writeChunk(&buf, chunkIDAT, idat)
	writeChunk(&buf, chunkIEND, nil)
	return buf.Bytes(), nil
}

func writeIHDR(buf *bytes.Buffer, width, height int, depth, colorType byte) {
	var hdr [13]byte
	binary.BigEndian.PutUint32(hdr[0:4], uint32(width))
	binary.BigEndian.PutUint32(hdr[4:8], uint32(height))
	hdr[8] = depth
	hdr[9] = colorType
	hdr[10] = 0 // compression: deflate
	hdr[11] = 0 // filter method: adaptive
	hdr[12] = 0 // interlace: none
	writeChunk(buf, chunkIHDR, hdr[:])
}

// deflate builds rows scanlines of lineLen bytes with fill and returns
// them as a single zlib stream.
func deflate(rows, lineLen int, fill func(y int, line []byte)) ([]byte, error) {
	var out bytes.Buffer
	zw, err := zlib.NewWriterLevel(&out, zlib.DefaultCompression)
	if err != nil {
		return nil, errors.Wrap(err, "create zlib writer")
	}
	line := make([]byte, lineLen)
	for y := 0; y < rows; y++ {
		fill(y, line)
		if _, err := zw.Write(line); err != nil {
			return nil, errors.Wrapf(err, "compress scanline %d", y)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(err, "finish zlib stream")
	}
	return out.Bytes(), nil
}

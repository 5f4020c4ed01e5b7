package raster_test

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixture is a hand-built PNG used to exercise the decoder independently
// of the encoder.
type fixture struct {
	width, height int
	depth, color  byte
	interlace     byte
	rows          [][]byte // each row starts with its filter byte
	before        []rawChunk
	splitIDAT     int // number of IDAT chunks, 0 means 1
}

type rawChunk struct {
	typ  string
	data []byte
}

func appendChunk(buf *bytes.Buffer, typ string, data []byte) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(len(data)))
	buf.Write(tmp[:])
	buf.WriteString(typ)
	buf.Write(data)
	binary.BigEndian.PutUint32(tmp[:], crc32.ChecksumIEEE(append([]byte(typ), data...)))
	buf.Write(tmp[:])
}

func (f fixture) bytes(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")

	var hdr [13]byte
	binary.BigEndian.PutUint32(hdr[0:4], uint32(f.width))
	binary.BigEndian.PutUint32(hdr[4:8], uint32(f.height))
	hdr[8] = f.depth
	hdr[9] = f.color
	hdr[12] = f.interlace
	appendChunk(&buf, "IHDR", hdr[:])

	for _, c := range f.before {
		appendChunk(&buf, c.typ, c.data)
	}

	var raw bytes.Buffer
	zw := zlib.NewWriter(&raw)
	for _, row := range f.rows {
		_, err := zw.Write(row)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	parts := f.splitIDAT
	if parts < 1 {
		parts = 1
	}
	data := raw.Bytes()
	step := (len(data) + parts - 1) / parts
	for off := 0; off < len(data); off += step {
		end := min(off+step, len(data))
		appendChunk(&buf, "IDAT", data[off:end])
	}
	appendChunk(&buf, "IEND", nil)
	return buf.Bytes()
}

// grayValues extracts the blue channel of every pixel, which equals the
// grey level for grayscale images.
func grayValues(pix []uint32) []byte {
	out := make([]byte, len(pix))
	for i, v := range pix {
		out[i] = byte(v)
	}
	return out
}

package raster

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"

	"github.com/cockroachdb/errors"
)

const pngSignature = "\x89PNG\r\n\x1a\n"

// Chunk types used by the codec.
const (
	chunkIHDR = "IHDR"
	chunkPLTE = "PLTE"
	chunkTRNS = "tRNS"
	chunkIDAT = "IDAT"
	chunkIEND = "IEND"
)

// IsPNG reports whether data starts with the PNG signature.
func IsPNG(data []byte) bool {
	return len(data) >= len(pngSignature) && string(data[:len(pngSignature)]) == pngSignature
}

// writeChunk frames payload as length, type, payload and CRC-32 over
// type+payload.
func writeChunk(buf *bytes.Buffer, typ string, payload []byte) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(len(payload)))
	buf.Write(tmp[:])
	buf.WriteString(typ)
	buf.Write(payload)

	crc := crc32.NewIEEE()
	crc.Write([]byte(typ))
	crc.Write(payload)
	binary.BigEndian.PutUint32(tmp[:], crc.Sum32())
	buf.Write(tmp[:])
}

type chunk struct {
	typ  string
	data []byte
}

// chunkReader walks the chunk stream after the signature. It never reads
// past the end of the input; a length that overruns the remaining bytes is
// reported as ErrTruncated.
type chunkReader struct {
	data []byte
	off  int
}

func newChunkReader(data []byte) *chunkReader {
	return &chunkReader{data: data, off: len(pngSignature)}
}

// next returns the following chunk, or ok=false when the input is
// exhausted exactly at a chunk boundary.
func (r *chunkReader) next() (c chunk, ok bool, err error) {
	remaining := len(r.data) - r.off
	if remaining == 0 {
		return chunk{}, false, nil
	}
	if remaining < 8 {
		return chunk{}, false, errors.Wrapf(ErrTruncated, "chunk header at offset %d needs 8 bytes, %d remain", r.off, remaining)
	}
	length := binary.BigEndian.Uint32(r.data[r.off : r.off+4])
	typ := string(r.data[r.off+4 : r.off+8])
	// Length, type and CRC take 12 bytes around the payload.
	if int64(remaining) < 12+int64(length) {
		return chunk{}, false, errors.Wrapf(ErrTruncated, "chunk %q declares %d bytes, %d remain", typ, length, remaining-8)
	}
	start := r.off + 8
	end := start + int(length)
	c = chunk{typ: typ, data: r.data[start:end]}
	r.off = end + 4 // CRC is not re-validated.
	return c, true, nil
}

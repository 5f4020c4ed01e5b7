package qrcode

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/makiuchi-d/gozxing"
	zxqrcode "github.com/makiuchi-d/gozxing/qrcode"
	skipqrcode "github.com/skip2/go-qrcode"

	"github.com/crushlog/cldfqr/pkg/raster"
)

// SymbolEncoder turns text into a QR module grid. margin quiet-zone modules
// are added on every side.
type SymbolEncoder interface {
	EncodeSymbol(text string, level ErrorCorrectionLevel, margin int) (raster.Bitmap, error)
}

// SymbolDecoder recovers the text of a QR symbol from a raster image.
type SymbolDecoder interface {
	DecodeSymbol(pb *raster.PixelBuffer) (string, error)
}

type skipEncoder struct{}

// NewSymbolEncoder returns a SymbolEncoder backed by github.com/skip2/go-qrcode.
func NewSymbolEncoder() SymbolEncoder { return skipEncoder{} }

func (skipEncoder) EncodeSymbol(text string, level ErrorCorrectionLevel, margin int) (raster.Bitmap, error) {
	if strings.TrimSpace(text) == "" {
		return raster.Bitmap{}, ErrEmptyContent
	}
	if err := level.Validate(); err != nil {
		return raster.Bitmap{}, err
	}
	if margin < 0 {
		margin = 0
	}

	q, err := skipqrcode.New(text, recoveryLevel(level))
	if err != nil {
		return raster.Bitmap{}, errors.Mark(errors.Wrap(err, "encode symbol"), ErrorFailedToGenerateQRCode)
	}
	q.DisableBorder = true
	return raster.NewBitmap(pad(q.Bitmap(), margin))
}

func recoveryLevel(l ErrorCorrectionLevel) skipqrcode.RecoveryLevel {
	switch l {
	case LevelL:
		return skipqrcode.Low
	case LevelQ:
		return skipqrcode.High
	case LevelH:
		return skipqrcode.Highest
	default:
		return skipqrcode.Medium
	}
}

// pad surrounds rows with margin off modules.
func pad(rows [][]bool, margin int) [][]bool {
	if margin == 0 {
		return rows
	}
	n := len(rows) + 2*margin
	out := make([][]bool, n)
	for y := range out {
		out[y] = make([]bool, n)
		if src := y - margin; src >= 0 && src < len(rows) {
			copy(out[y][margin:], rows[src])
		}
	}
	return out
}

type zxingDecoder struct {
	hints map[gozxing.DecodeHintType]interface{}
}

// NewSymbolDecoder returns a SymbolDecoder backed by
// github.com/makiuchi-d/gozxing. Transparent pixels are read as white.
func NewSymbolDecoder() SymbolDecoder {
	return zxingDecoder{hints: map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}}
}

func (d zxingDecoder) DecodeSymbol(pb *raster.PixelBuffer) (string, error) {
	if !pb.Valid() {
		return "", raster.ErrInvalidPixelBuffer
	}
	bmp, err := gozxing.NewBinaryBitmapFromImage(pb.Gray())
	if err != nil {
		return "", errors.Mark(errors.Wrap(err, "binarize image"), ErrSymbolNotFound)
	}
	res, err := zxqrcode.NewQRCodeReader().Decode(bmp, d.hints)
	if err != nil {
		return "", classify(err)
	}
	return res.GetText(), nil
}

func classify(err error) error {
	switch err.(type) {
	case gozxing.NotFoundException:
		return errors.Mark(err, ErrSymbolNotFound)
	case gozxing.ChecksumException:
		return errors.Mark(err, ErrSymbolChecksum)
	case gozxing.FormatException:
		return errors.Mark(err, ErrSymbolFormat)
	default:
		return errors.Mark(errors.Wrap(err, "decode symbol"), ErrSymbolNotFound)
	}
}

package qrcode

import (
	"github.com/cockroachdb/errors"

	"github.com/crushlog/cldfqr/pkg/raster"
)

// BitmapToPixels draws bm on a pixelSize square canvas with the same
// nearest-neighbour rule EncodePNG uses.
func BitmapToPixels(bm raster.Bitmap, pixelSize int, fg, bg raster.RGB) *raster.PixelBuffer {
	pb := raster.NewPixelBuffer(pixelSize, pixelSize, bg)
	scale := raster.Scale(pixelSize, bm.Size())
	on := fg.ARGB()
	for y := 0; y < pixelSize; y++ {
		for x := 0; x < pixelSize; x++ {
			if bm.Sample(x, y, scale) {
				pb.Pix[y*pixelSize+x] = on
			}
		}
	}
	return pb
}

// PixelsToBitmap reads a modules-wide grid back from a rendered image by
// sampling the centre of each cell. Dark pixels (luminance below 128 over
// white) are on.
func PixelsToBitmap(pb *raster.PixelBuffer, modules int) (raster.Bitmap, error) {
	if !pb.Valid() {
		return raster.Bitmap{}, raster.ErrInvalidPixelBuffer
	}
	if modules <= 0 || modules > pb.Width || modules > pb.Height {
		return raster.Bitmap{}, errors.Wrapf(raster.ErrInvalidSize, "%d modules in %dx%d pixels", modules, pb.Width, pb.Height)
	}
	sx := raster.Scale(pb.Width, modules)
	sy := raster.Scale(pb.Height, modules)
	rows := make([][]bool, modules)
	for my := range rows {
		rows[my] = make([]bool, modules)
		for mx := range rows[my] {
			rows[my][mx] = pb.Luminance(mx*sx+sx/2, my*sy+sy/2) < 128
		}
	}
	return raster.NewBitmap(rows)
}

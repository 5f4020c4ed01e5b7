package raster

import (
	"image"
	"image/color"
)

// PixelBuffer is a decoded raster image: packed 0xAARRGGBB values in
// row-major order, top to bottom. Width*Height always equals len(Pix) for
// buffers returned by this package.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []uint32
}

// NewPixelBuffer allocates a buffer filled with the opaque colour fill.
func NewPixelBuffer(width, height int, fill RGB) *PixelBuffer {
	pb := &PixelBuffer{Width: width, Height: height, Pix: make([]uint32, width*height)}
	v := fill.ARGB()
	for i := range pb.Pix {
		pb.Pix[i] = v
	}
	return pb
}

// Valid reports whether the dimensions agree with the pixel data.
func (p *PixelBuffer) Valid() bool {
	return p != nil && p.Width > 0 && p.Height > 0 && p.Width*p.Height == len(p.Pix)
}

// ARGB returns the packed pixel at (x, y), or 0 outside the buffer.
func (p *PixelBuffer) ARGB(x, y int) uint32 {
	if x < 0 || y < 0 || x >= p.Width || y >= p.Height {
		return 0
	}
	return p.Pix[y*p.Width+x]
}

// Set stores a packed pixel at (x, y); out-of-range writes are ignored.
func (p *PixelBuffer) Set(x, y int, argb uint32) {
	if x < 0 || y < 0 || x >= p.Width || y >= p.Height {
		return
	}
	p.Pix[y*p.Width+x] = argb
}

// Luminance returns the grey level of (x, y) after compositing the pixel
// over a white background, so transparent areas read as paper.
func (p *PixelBuffer) Luminance(x, y int) uint8 {
	v := p.ARGB(x, y)
	a := v >> 24
	r := (v >> 16) & 0xff
	g := (v >> 8) & 0xff
	b := v & 0xff
	// ITU-R BT.601 weights in fixed point.
	lum := (299*r + 587*g + 114*b + 500) / 1000
	return uint8((lum*a + 255*(255-a) + 127) / 255)
}

// Gray converts the buffer into an 8-bit grey image suitable as a
// luminance source for barcode decoders.
func (p *PixelBuffer) Gray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, p.Width, p.Height))
	for y := 0; y < p.Height; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < p.Width; x++ {
			row[x] = p.Luminance(x, y)
		}
	}
	return img
}

// ColorModel implements image.Image.
func (p *PixelBuffer) ColorModel() color.Model { return color.NRGBAModel }

// Bounds implements image.Image.
func (p *PixelBuffer) Bounds() image.Rectangle { return image.Rect(0, 0, p.Width, p.Height) }

// At implements image.Image.
func (p *PixelBuffer) At(x, y int) color.Color {
	v := p.ARGB(x, y)
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: uint8(v >> 24)}
}

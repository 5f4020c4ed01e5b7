package qrcode

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/crushlog/cldfqr/pkg/raster"
)

// ToSVG renders bm as an SVG document of opts.Size pixels: a background
// rect followed by one rect per on module in row-major order. Output is
// byte-identical for identical input.
func ToSVG(bm raster.Bitmap, opts ImageOptions) string {
	size := opts.Size
	moduleSize := raster.Scale(size, bm.Size())

	var sb strings.Builder
	fmt.Fprintf(&sb, "<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%d\" height=\"%d\" viewBox=\"0 0 %d %d\">\n", size, size, size, size)
	fmt.Fprintf(&sb, "  <rect width=\"100%%\" height=\"100%%\" fill=\"%s\"/>\n", opts.Background.Hex())
	fmt.Fprintf(&sb, "  <g fill=\"%s\">\n", opts.Foreground.Hex())
	for y := 0; y < bm.Size(); y++ {
		for x := 0; x < bm.Size(); x++ {
			if bm.Get(x, y) {
				fmt.Fprintf(&sb, "    <rect x=\"%d\" y=\"%d\" width=\"%d\" height=\"%d\"/>\n",
					x*moduleSize, y*moduleSize, moduleSize, moduleSize)
			}
		}
	}
	sb.WriteString("  </g>\n")
	sb.WriteString("</svg>")
	return sb.String()
}

// IsSVG reports whether data looks like an SVG document.
func IsSVG(data []byte) bool {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	return bytes.Contains(head, []byte("<svg"))
}

// RasterizeSVG paints the rect elements of an SVG document onto a pixel
// buffer sized by the root width and height. It understands the subset
// ToSVG writes: integer or percentage geometry and hex fills, inherited
// from enclosing groups.
func RasterizeSVG(svg []byte) (*raster.PixelBuffer, error) {
	dec := xml.NewDecoder(bytes.NewReader(svg))
	var (
		pb    *raster.PixelBuffer
		fills []raster.RGB
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidSVG, "parse: %v", err)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "svg":
				if pb != nil {
					return nil, errors.Wrap(ErrInvalidSVG, "nested svg element")
				}
				w, err := dimension(attr(el, "width"), 0)
				if err != nil {
					return nil, err
				}
				h, err := dimension(attr(el, "height"), 0)
				if err != nil {
					return nil, err
				}
				if w <= 0 || h <= 0 || w > MaxImageSize || h > MaxImageSize {
					return nil, errors.Wrapf(ErrInvalidSVG, "canvas %dx%d", w, h)
				}
				pb = raster.NewPixelBuffer(w, h, raster.White)
				fills = append(fills, raster.Black)
			case "g":
				fill, err := fillOf(el, fills)
				if err != nil {
					return nil, err
				}
				fills = append(fills, fill)
			case "rect":
				if pb == nil {
					return nil, errors.Wrap(ErrInvalidSVG, "rect outside svg element")
				}
				if err := paintRect(pb, el, fills); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			if el.Name.Local == "g" && len(fills) > 1 {
				fills = fills[:len(fills)-1]
			}
		}
	}
	if pb == nil {
		return nil, errors.Wrap(ErrInvalidSVG, "no svg element")
	}
	return pb, nil
}

func paintRect(pb *raster.PixelBuffer, el xml.StartElement, fills []raster.RGB) error {
	fill, err := fillOf(el, fills)
	if err != nil {
		return err
	}
	x, err := dimension(attr(el, "x"), pb.Width)
	if err != nil {
		return err
	}
	y, err := dimension(attr(el, "y"), pb.Height)
	if err != nil {
		return err
	}
	w, err := dimension(attr(el, "width"), pb.Width)
	if err != nil {
		return err
	}
	h, err := dimension(attr(el, "height"), pb.Height)
	if err != nil {
		return err
	}
	v := fill.ARGB()
	for py := max(y, 0); py < min(y+h, pb.Height); py++ {
		for px := max(x, 0); px < min(x+w, pb.Width); px++ {
			pb.Pix[py*pb.Width+px] = v
		}
	}
	return nil
}

func fillOf(el xml.StartElement, inherited []raster.RGB) (raster.RGB, error) {
	s := attr(el, "fill")
	if s == "" {
		if len(inherited) == 0 {
			return raster.Black, nil
		}
		return inherited[len(inherited)-1], nil
	}
	c, err := raster.ParseRGB(s)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidSVG, "fill %q", s)
	}
	return c, nil
}

// dimension parses an integer or a percentage of ref. Empty is 0.
func dimension(s string, ref int) (int, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	if s == "" {
		return 0, nil
	}
	if p, ok := strings.CutSuffix(s, "%"); ok {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, errors.Wrapf(ErrInvalidSVG, "length %q", s)
		}
		return int(f * float64(ref) / 100), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidSVG, "length %q", s)
	}
	return int(f), nil
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

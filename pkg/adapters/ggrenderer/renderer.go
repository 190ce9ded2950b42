// Package ggrenderer renders previews with fogleman/gg, scales with
// x/image/draw and encodes JPEG, PNG or WebP (nativewebp).
package ggrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/HugoSmits86/nativewebp"
	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/user/yuvenc/pkg/ports"
)

type encodeFunc func(w io.Writer, img image.Image, quality int) error

var encoders = map[ports.ImageFormat]encodeFunc{
	ports.FormatJPEG: func(w io.Writer, img image.Image, quality int) error {
		if quality < 1 || quality > 100 {
			quality = jpeg.DefaultQuality
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	},
	ports.FormatPNG: func(w io.Writer, img image.Image, _ int) error {
		return png.Encode(w, img)
	},
	// nativewebp only writes lossless VP8L.
	ports.FormatWebP: func(w io.Writer, img image.Image, _ int) error {
		return nativewebp.Encode(w, img, nil)
	},
}

// Renderer implements ports.Renderer.
type Renderer struct{}

// New returns a Renderer.
func New() *Renderer {
	return &Renderer{}
}

func (r *Renderer) CreateCanvas(width, height int, bg color.Color) ports.Canvas {
	dc := gg.NewContext(width, height)
	dc.SetColor(bg)
	dc.Clear()
	return &Canvas{dc: dc}
}

func (r *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	encode, ok := encoders[format]
	if !ok {
		return nil, fmt.Errorf("unsupported image format %d", format)
	}
	var buf bytes.Buffer
	if err := encode(&buf, img, quality); err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

// ResizeImage uses Catmull-Rom; a non-positive size returns img as is.
func (r *Renderer) ResizeImage(img image.Image, width, height int) image.Image {
	if width <= 0 || height <= 0 {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

var _ ports.Renderer = (*Renderer)(nil)

// Canvas wraps a gg.Context.
type Canvas struct {
	dc *gg.Context
}

func (c *Canvas) DrawImage(img image.Image, x, y int) {
	c.dc.DrawImage(img, x, y)
}

func (c *Canvas) DrawRect(x, y, w, h int, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawRectangle(float64(x), float64(y), float64(w), float64(h))
	c.dc.Fill()
}

func (c *Canvas) DrawText(text string, x, y int, style ports.TextStyle) {
	c.useFont(style)
	c.dc.SetColor(style.Color)

	ax := 0.0
	switch style.Align {
	case ports.AlignCenter:
		ax = 0.5
	case ports.AlignRight:
		ax = 1
	}
	c.dc.DrawStringAnchored(text, float64(x), float64(y), ax, 0.5)
}

func (c *Canvas) MeasureText(text string, style ports.TextStyle) (float64, float64) {
	c.useFont(style)
	return c.dc.MeasureString(text)
}

func (c *Canvas) ToImage() image.Image {
	return c.dc.Image()
}

// useFont loads style.FontPath; on failure gg keeps its current face.
func (c *Canvas) useFont(style ports.TextStyle) {
	if style.FontPath != "" && style.FontSize > 0 {
		_ = c.dc.LoadFontFace(style.FontPath, style.FontSize)
	}
}

var _ ports.Canvas = (*Canvas)(nil)

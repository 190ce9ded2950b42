package ports

import (
	"image"
	"image/color"
)

// Renderer turns decoded frames into preview images.
type Renderer interface {
	CreateCanvas(width, height int, bg color.Color) Canvas

	// EncodeImage serialises img. quality only affects JPEG; values
	// outside 1..100 select the encoder default.
	EncodeImage(img image.Image, format ImageFormat, quality int) ([]byte, error)

	// ResizeImage scales img to exactly width x height.
	ResizeImage(img image.Image, width, height int) image.Image
}

// Canvas is a drawing surface for a labelled preview.
type Canvas interface {
	DrawImage(img image.Image, x, y int)
	DrawRect(x, y, w, h int, c color.Color)

	// DrawText draws text vertically centred on y; x is interpreted
	// according to style.Align.
	DrawText(text string, x, y int, style TextStyle)
	MeasureText(text string, style TextStyle) (width, height float64)

	ToImage() image.Image
}

// TextStyle controls label rendering. An empty FontPath keeps the
// renderer's built-in face.
type TextStyle struct {
	FontSize float64
	FontPath string
	Color    color.Color
	Align    TextAlign
}

// TextAlign is the horizontal anchor of DrawText.
type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

// ImageFormat selects the preview file format.
type ImageFormat int

const (
	FormatJPEG ImageFormat = iota
	FormatPNG
	FormatWebP
)

var imageFormats = [...]struct{ name, ext string }{
	FormatJPEG: {"jpeg", ".jpg"},
	FormatPNG:  {"png", ".png"},
	FormatWebP: {"webp", ".webp"},
}

// ParseImageFormat maps "png" and "webp" to their formats; anything else,
// including "jpg", is JPEG.
func ParseImageFormat(s string) ImageFormat {
	for f, info := range imageFormats {
		if s == info.name {
			return ImageFormat(f)
		}
	}
	return FormatJPEG
}

func (f ImageFormat) String() string {
	if f < 0 || int(f) >= len(imageFormats) {
		return "unknown"
	}
	return imageFormats[f].name
}

// Extension returns the file extension including the dot.
func (f ImageFormat) Extension() string {
	if f < 0 || int(f) >= len(imageFormats) {
		return ".jpg"
	}
	return imageFormats[f].ext
}

// Package preview implements the stage that renders one raw frame as a
// still image for visual inspection.
package preview

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/user/yuvenc/pkg/pipeline"
	"github.com/user/yuvenc/pkg/ports"
	"github.com/user/yuvenc/pkg/yuv"
)

// DefaultQuality is the JPEG quality used when none is set.
const DefaultQuality = 80

const (
	labelHeight   = 24
	labelFontSize = 13
)

var (
	labelBackground = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	labelText       = color.RGBA{R: 230, G: 230, B: 230, A: 255}
)

// Stage renders a preview image.
type Stage struct {
	renderer ports.Renderer
	logger   ports.Logger
}

// NewStage creates a new preview stage.
func NewStage(renderer ports.Renderer, logger ports.Logger) *Stage {
	return &Stage{
		renderer: renderer,
		logger:   logger.WithComponent("preview"),
	}
}

// Execute decodes the frame, scales it to TargetWidth keeping the aspect
// ratio, adds the label strip and encodes the result.
func (s *Stage) Execute(ctx context.Context, input pipeline.PreviewInput) (pipeline.PreviewResult, error) {
	result := pipeline.PreviewResult{ImageFormat: input.ImageFormat}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	s.logger.Info("Rendering preview")

	src, err := yuv.ToYCbCr(input.Frame, input.Format, input.Width, input.Height)
	if err != nil {
		return result, err
	}

	var img image.Image = src
	width, height := input.Width, input.Height
	if input.TargetWidth > 0 && input.TargetWidth != input.Width {
		width = input.TargetWidth
		height = input.Height * input.TargetWidth / input.Width
		if height < 1 {
			height = 1
		}
		img = s.renderer.ResizeImage(src, width, height)
	}

	canvasHeight := height
	if input.Label != "" {
		canvasHeight += labelHeight
	}

	canvas := s.renderer.CreateCanvas(width, canvasHeight, labelBackground)
	canvas.DrawImage(img, 0, 0)
	if input.Label != "" {
		style := ports.TextStyle{
			FontSize: labelFontSize,
			Color:    labelText,
			Align:    ports.AlignLeft,
		}
		canvas.DrawText(fitLabel(canvas, input.Label, width-16, style), 8, height+labelHeight/2, style)
	}

	quality := input.Quality
	if quality <= 0 {
		quality = DefaultQuality
	}

	data, err := s.renderer.EncodeImage(canvas.ToImage(), input.ImageFormat, quality)
	if err != nil {
		return result, fmt.Errorf("encode preview: %w", err)
	}

	result.Data = data
	result.Width = width
	result.Height = canvasHeight
	return result, nil
}

// fitLabel trims text with an ellipsis until it fits maxWidth.
func fitLabel(canvas ports.Canvas, text string, maxWidth int, style ports.TextStyle) string {
	if w, _ := canvas.MeasureText(text, style); w <= float64(maxWidth) {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "..."
		if w, _ := canvas.MeasureText(candidate, style); w <= float64(maxWidth) {
			return candidate
		}
	}
	return ""
}

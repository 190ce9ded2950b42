// Package convert implements the stage that turns source frames into the
// NV12 layout the encoder consumes.
package convert

import (
	"context"
	"fmt"

	"github.com/user/yuvenc/pkg/pipeline"
	"github.com/user/yuvenc/pkg/ports"
	"github.com/user/yuvenc/pkg/yuv"
)

// Stage converts frames to NV12.
type Stage struct {
	logger ports.Logger
}

// NewStage creates a new convert stage.
func NewStage(logger ports.Logger) *Stage {
	return &Stage{
		logger: logger.WithComponent("convert"),
	}
}

// Execute converts every frame. Source buffers are never modified.
func (s *Stage) Execute(ctx context.Context, input pipeline.ConvertInput) (pipeline.ConvertResult, error) {
	result := pipeline.ConvertResult{}

	if len(input.Frames) == 0 {
		return result, fmt.Errorf("no frames to convert")
	}

	s.logger.Info("Converting %d frames from %s to %s", len(input.Frames), input.From, yuv.FormatNV12)

	out := make([][]byte, len(input.Frames))
	for i, frame := range input.Frames {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		converted, err := toNV12(frame, input.From, input.Width, input.Height)
		if err != nil {
			return result, fmt.Errorf("frame %d: %w", i, err)
		}
		out[i] = converted
	}

	result.Frames = out
	return result, nil
}

func toNV12(frame []byte, from yuv.Format, width, height int) ([]byte, error) {
	switch from {
	case yuv.FormatNV21:
		return yuv.NV21ToNV12(frame, width, height)
	case yuv.FormatNV12:
		if err := yuv.ValidateFrame(frame, width, height); err != nil {
			return nil, err
		}
		return append([]byte(nil), frame...), nil
	case yuv.FormatI420:
		img, err := yuv.ToYCbCr(frame, from, width, height)
		if err != nil {
			return nil, err
		}
		return interleave(img.Y, img.Cb, img.Cr), nil
	default:
		return nil, fmt.Errorf("unsupported source format %s", from)
	}
}

// interleave builds an NV12 buffer from planar 4:2:0 planes.
func interleave(y, cb, cr []byte) []byte {
	out := make([]byte, len(y)+2*len(cb))
	copy(out, y)
	uv := out[len(y):]
	for i := range cb {
		uv[2*i] = cb[i]
		uv[2*i+1] = cr[i]
	}
	return out
}

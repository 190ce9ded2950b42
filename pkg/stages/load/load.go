// Package load implements the stage that reads raw YUV frames from disk.
package load

import (
	"context"
	"fmt"

	"github.com/user/yuvenc/pkg/pipeline"
	"github.com/user/yuvenc/pkg/ports"
	"github.com/user/yuvenc/pkg/yuv"
)

// Stage reads a raw asset and splits it into frames.
type Stage struct {
	fs     ports.FileSystem
	logger ports.Logger
}

// NewStage creates a new load stage.
func NewStage(fs ports.FileSystem, logger ports.Logger) *Stage {
	return &Stage{
		fs:     fs,
		logger: logger.WithComponent("load"),
	}
}

// Execute reads input.Path and returns its frames.
func (s *Stage) Execute(ctx context.Context, input pipeline.LoadInput) (pipeline.LoadResult, error) {
	result := pipeline.LoadResult{
		Format: input.Format,
		Width:  input.Width,
		Height: input.Height,
	}

	if err := yuv.ValidateDimensions(input.Width, input.Height); err != nil {
		return result, err
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	s.logger.Info("Loading %s (%s, %dx%d)", input.Path, input.Format, input.Width, input.Height)

	data, err := s.fs.ReadFile(input.Path)
	if err != nil {
		return result, fmt.Errorf("read %s: %w", input.Path, err)
	}

	frames, err := yuv.SplitFrames(data, input.Width, input.Height)
	if err != nil {
		return result, err
	}

	if input.MaxFrames > 0 && len(frames) > input.MaxFrames {
		s.logger.Info("Limiting to %d of %d frames", input.MaxFrames, len(frames))
		frames = frames[:input.MaxFrames]
	}

	result.Frames = frames
	result.TotalBytes = len(frames) * yuv.FrameSize(input.Width, input.Height)

	s.logger.Info("Loaded %d frames (%d bytes)", len(frames), result.TotalBytes)
	return result, nil
}

// Package mux implements the stage that wraps access units in a container.
package mux

import (
	"context"
	"fmt"

	"github.com/user/yuvenc/pkg/pipeline"
	"github.com/user/yuvenc/pkg/ports"
)

// Stage muxes an encoded stream with a ContainerWriter.
type Stage struct {
	writer ports.ContainerWriter
	logger ports.Logger
}

// NewStage creates a new mux stage.
func NewStage(writer ports.ContainerWriter, logger ports.Logger) *Stage {
	return &Stage{
		writer: writer,
		logger: logger.WithComponent("mux"),
	}
}

// Execute builds the container bytes.
func (s *Stage) Execute(ctx context.Context, input pipeline.MuxInput) (pipeline.MuxResult, error) {
	result := pipeline.MuxResult{}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	s.logger.Info("Muxing %d access units into MP4", len(input.Units))

	data, err := s.writer.Mux(input.Format, input.Units)
	if err != nil {
		return result, fmt.Errorf("mux: %w", err)
	}

	s.logger.Info("Container written: %d bytes", len(data))
	result.Data = data
	return result, nil
}

// Package encode implements the video encoding stage.
package encode

import (
	"context"
	"fmt"

	"github.com/user/yuvenc/pkg/adapters/annexb"
	"github.com/user/yuvenc/pkg/pipeline"
	"github.com/user/yuvenc/pkg/ports"
)

// Stage feeds NV12 frames through a VideoEncoder.
type Stage struct {
	encoder ports.VideoEncoder
	logger  ports.Logger
}

// NewStage creates a new encode stage.
func NewStage(encoder ports.VideoEncoder, logger ports.Logger) *Stage {
	return &Stage{
		encoder: encoder,
		logger:  logger.WithComponent("encode"),
	}
}

// Execute encodes all frames and derives the stream format from the
// parameter sets found in the output.
func (s *Stage) Execute(ctx context.Context, input pipeline.EncodeInput) (pipeline.EncodeResult, error) {
	result := pipeline.EncodeResult{}

	if len(input.Frames) == 0 {
		return result, fmt.Errorf("no frames to encode")
	}

	bitrate := input.Bitrate
	if bitrate <= 0 {
		bitrate = pipeline.DefaultBitrate(input.Width, input.Height)
	}

	cfg := ports.EncoderConfig{
		Codec:            input.Codec,
		Width:            input.Width,
		Height:           input.Height,
		FPS:              input.FPS,
		Bitrate:          bitrate,
		KeyframeInterval: input.KeyframeInterval,
	}

	s.logger.Info("Encoding %d frames as %s at %.2f fps, %d bps", len(input.Frames), input.Codec, input.FPS, bitrate)

	if err := s.encoder.Begin(ctx, cfg); err != nil {
		return result, fmt.Errorf("begin encoding: %w", err)
	}

	for i, frame := range input.Frames {
		select {
		case <-ctx.Done():
			// Drain so the encoder releases its resources.
			s.encoder.End()
			return result, ctx.Err()
		default:
		}

		pts := pipeline.FramePTS(input.StartPTSUs, i, input.FPS)
		if err := s.encoder.EncodeFrame(frame, pts); err != nil {
			s.encoder.End()
			return result, fmt.Errorf("encode frame %d at %dus: %w", i, pts, err)
		}
	}

	units, err := s.encoder.End()
	if err != nil {
		return result, fmt.Errorf("end encoding: %w", err)
	}
	if len(units) == 0 {
		return result, fmt.Errorf("encoder produced no output")
	}

	format, err := streamFormat(input, units)
	if err != nil {
		return result, err
	}

	for _, u := range units {
		if u.Keyframe {
			result.Keyframes++
		}
		result.StreamBytes += len(u.Data)
	}

	result.Units = units
	result.Format = format
	result.Bitrate = bitrate
	result.DurationUs = pipeline.FramePTS(0, len(input.Frames), input.FPS)

	s.logger.Info("Encoded %d access units (%d keyframes)", len(units), result.Keyframes)
	return result, nil
}

// streamFormat collects parameter sets, preferring the first keyframe.
func streamFormat(input pipeline.EncodeInput, units []ports.AccessUnit) (ports.StreamFormat, error) {
	format := ports.StreamFormat{
		Codec:  input.Codec,
		Width:  input.Width,
		Height: input.Height,
		FPS:    input.FPS,
	}

	for _, u := range units {
		if !u.Keyframe {
			continue
		}
		format.VPS, format.SPS, format.PPS = annexb.ParameterSets(input.Codec, u.Data)
		if len(format.SPS) > 0 {
			return format, nil
		}
	}

	var stream []byte
	for _, u := range units {
		stream = append(stream, u.Data...)
	}
	format.VPS, format.SPS, format.PPS = annexb.ParameterSets(input.Codec, stream)
	if len(format.SPS) == 0 || len(format.PPS) == 0 {
		return format, fmt.Errorf("no parameter sets in encoder output")
	}
	return format, nil
}

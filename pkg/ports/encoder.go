package ports

import (
	"context"
)

// VideoEncoder abstracts a frame-at-a-time video encoder.
// Input frames are always NV12.
type VideoEncoder interface {
	// Begin starts an encode session.
	Begin(ctx context.Context, cfg EncoderConfig) error

	// EncodeFrame queues one NV12 frame with its presentation timestamp.
	EncodeFrame(frame []byte, ptsUs int64) error

	// End signals end of stream, drains the encoder and returns the
	// access units in decode order.
	End() ([]AccessUnit, error)
}

// EncoderConfig configures an encode session.
type EncoderConfig struct {
	Codec            Codec
	Width            int
	Height           int
	FPS              float64
	Bitrate          int     // Target bitrate in bits/sec
	KeyframeInterval float64 // Seconds between keyframes
}

// AccessUnit is one encoded picture in Annex B byte-stream form.
type AccessUnit struct {
	Data     []byte
	PTSUs    int64
	Keyframe bool
}

package pipeline

import (
	"github.com/user/yuvenc/pkg/ports"
	"github.com/user/yuvenc/pkg/yuv"
)

// DefaultBitrate is the bitrate used when none is configured: six bits
// per pixel per second.
func DefaultBitrate(width, height int) int {
	return width * height * 6
}

// FramePTS returns the presentation timestamp of frame i in microseconds.
func FramePTS(startUs int64, index int, fps float64) int64 {
	if fps <= 0 {
		return startUs
	}
	return startUs + int64(float64(index)*1e6/fps)
}

// =============================================================================
// Load Stage Types
// =============================================================================

// LoadInput describes a raw YUV asset on disk.
type LoadInput struct {
	Path      string
	Format    yuv.Format
	Width     int
	Height    int
	MaxFrames int // 0 = all frames
}

// LoadResult holds the frames read from the asset. Frames alias the file
// contents.
type LoadResult struct {
	Frames     [][]byte
	Format     yuv.Format
	Width      int
	Height     int
	TotalBytes int
}

// =============================================================================
// Preview Stage Types
// =============================================================================

// PreviewInput describes the frame to render as a still image.
type PreviewInput struct {
	Frame       []byte
	Format      yuv.Format
	Width       int
	Height      int
	TargetWidth int // 0 keeps the source width
	ImageFormat ports.ImageFormat
	Quality     int    // JPEG quality
	Label       string // drawn in a strip under the picture when set
}

// PreviewResult holds the encoded still image.
type PreviewResult struct {
	Data        []byte
	ImageFormat ports.ImageFormat
	Width       int
	Height      int
}

// =============================================================================
// Convert Stage Types
// =============================================================================

// ConvertInput holds frames in their source layout.
type ConvertInput struct {
	Frames [][]byte
	From   yuv.Format
	Width  int
	Height int
}

// ConvertResult holds NV12 frames ready for the encoder.
type ConvertResult struct {
	Frames [][]byte
}

// =============================================================================
// Encode Stage Types
// =============================================================================

// EncodeInput holds NV12 frames and the encoder settings.
type EncodeInput struct {
	Frames           [][]byte
	Codec            ports.Codec
	Width            int
	Height           int
	FPS              float64
	Bitrate          int     // bits/sec, 0 = DefaultBitrate
	KeyframeInterval float64 // seconds
	StartPTSUs       int64
}

// EncodeResult holds the encoded access units and the stream format
// derived from their parameter sets.
type EncodeResult struct {
	Units       []ports.AccessUnit
	Format      ports.StreamFormat
	Keyframes   int
	StreamBytes int
	Bitrate     int
	DurationUs  int64
}

// Stream concatenates all access units into one Annex B elementary stream.
func (r EncodeResult) Stream() []byte {
	out := make([]byte, 0, r.StreamBytes)
	for _, u := range r.Units {
		out = append(out, u.Data...)
	}
	return out
}

// =============================================================================
// Mux Stage Types
// =============================================================================

// MuxInput holds what the container writer needs.
type MuxInput struct {
	Format ports.StreamFormat
	Units  []ports.AccessUnit
}

// MuxResult holds the container bytes.
type MuxResult struct {
	Data []byte
}

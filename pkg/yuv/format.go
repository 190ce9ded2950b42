// Package yuv holds the raw YUV 4:2:0 helpers: frame sizing, the
// NV21/NV12 chroma reorder and conversion to image.YCbCr.
package yuv

import (
	"fmt"
	"strings"
)

// Format identifies a 4:2:0 memory layout.
type Format int

const (
	// FormatNV21 is a luma plane followed by interleaved V,U pairs.
	FormatNV21 Format = iota
	// FormatNV12 is a luma plane followed by interleaved U,V pairs.
	FormatNV12
	// FormatI420 is three planes: Y, U, V.
	FormatI420
)

// String returns the lower-case format name.
func (f Format) String() string {
	switch f {
	case FormatNV21:
		return "nv21"
	case FormatNV12:
		return "nv12"
	case FormatI420:
		return "i420"
	default:
		return "unknown"
	}
}

// MarshalText encodes the format by name.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// ParseFormat parses a format name (case insensitive).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nv21":
		return FormatNV21, nil
	case "nv12":
		return FormatNV12, nil
	case "i420", "yuv420p":
		return FormatI420, nil
	default:
		return 0, fmt.Errorf("yuv: unknown format %q", s)
	}
}

// FrameSize returns the byte length of one 4:2:0 frame.
// NV21, NV12 and I420 all share it.
func FrameSize(width, height int) int {
	return width * height * 3 / 2
}

// ValidateDimensions checks that width and height describe a 4:2:0 frame.
func ValidateDimensions(width, height int) error {
	if width <= 0 || height <= 0 || width%2 != 0 || height%2 != 0 {
		return &FrameSizeError{Width: width, Height: height, Got: -1}
	}
	return nil
}

// ValidateFrame checks dimensions and that buf holds exactly one frame.
func ValidateFrame(buf []byte, width, height int) error {
	if err := ValidateDimensions(width, height); err != nil {
		return err
	}
	want := FrameSize(width, height)
	if len(buf) != want {
		return &FrameSizeError{Width: width, Height: height, Got: len(buf), Want: want}
	}
	return nil
}

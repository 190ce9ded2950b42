package ports

import (
	"fmt"
	"strings"
)

// Codec identifies the compressed video format produced by an encoder.
type Codec string

const (
	CodecH264 Codec = "h264"
	CodecHEVC Codec = "hevc"
)

// ParseCodec parses a codec name. "avc", "h265" and MIME types are accepted.
func ParseCodec(s string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "h264", "avc", "video/avc":
		return CodecH264, nil
	case "hevc", "h265", "video/hevc":
		return CodecHEVC, nil
	default:
		return "", fmt.Errorf("unsupported codec %q", s)
	}
}

// MIMEType returns the codec MIME type.
func (c Codec) MIMEType() string {
	switch c {
	case CodecH264:
		return "video/avc"
	case CodecHEVC:
		return "video/hevc"
	default:
		return "application/octet-stream"
	}
}

// StreamFileName returns the default file name for the raw elementary stream.
func (c Codec) StreamFileName() string {
	switch c {
	case CodecH264:
		return "bitstream.h264"
	case CodecHEVC:
		return "bitstream.hevc"
	default:
		return "bitstream.bin"
	}
}

// ContainerFileName returns the default file name for the MP4 container.
func (c Codec) ContainerFileName() string {
	switch c {
	case CodecH264:
		return "h264.mp4"
	case CodecHEVC:
		return "hevc.mp4"
	default:
		return "video.mp4"
	}
}

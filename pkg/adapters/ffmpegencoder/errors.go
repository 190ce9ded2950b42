package ffmpegencoder

import "errors"

var (
	// ErrNotInitialized is returned when encoder methods are called before Begin.
	ErrNotInitialized = errors.New("ffmpegencoder: encoder not initialized")

	// ErrEncodingFailed is returned when ffmpeg exits with an error.
	ErrEncodingFailed = errors.New("ffmpegencoder: encoding failed")

	// ErrFFmpegNotFound is returned when ffmpeg cannot be located.
	ErrFFmpegNotFound = errors.New("ffmpegencoder: ffmpeg not found")

	// ErrUnsupportedCodec is returned for codecs without an ffmpeg mapping.
	ErrUnsupportedCodec = errors.New("ffmpegencoder: unsupported codec")

	// ErrDrainTimeout is returned when ffmpeg does not finish within the drain timeout.
	ErrDrainTimeout = errors.New("ffmpegencoder: timed out draining encoder")

	// ErrTimestampOrder is returned when a frame's PTS is not after the previous one.
	ErrTimestampOrder = errors.New("ffmpegencoder: presentation timestamps must increase")
)

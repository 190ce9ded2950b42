package ports

import (
	"image"
)

// DebugSink abstracts debug output for intermediate results.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveSessionJSON saves the run configuration and result as JSON.
	SaveSessionJSON(data []byte) error

	// SaveSourceImage saves the decoded source frame as PNG.
	SaveSourceImage(index int, img image.Image) error

	// SaveConvertedFrame saves a raw NV12 frame as handed to the encoder.
	SaveConvertedFrame(index int, data []byte) error

	// SaveAccessUnit saves one encoded access unit.
	SaveAccessUnit(index int, data []byte) error
}

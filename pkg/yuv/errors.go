package yuv

import (
	"errors"
	"fmt"
)

// ErrInvalidFrameSize is returned when a buffer does not hold exactly
// width*height*3/2 samples, or when the dimensions cannot describe a
// 4:2:0 frame (non-positive or odd).
var ErrInvalidFrameSize = errors.New("yuv: invalid frame size")

// FrameSizeError describes a rejected buffer or dimension pair.
type FrameSizeError struct {
	Width  int
	Height int
	Got    int // buffer length, -1 when the dimensions themselves are invalid
	Want   int
}

func (e *FrameSizeError) Error() string {
	if e.Got < 0 {
		return fmt.Sprintf("yuv: invalid frame size: dimensions %dx%d must be positive and even", e.Width, e.Height)
	}
	return fmt.Sprintf("yuv: invalid frame size: %dx%d needs %d bytes, got %d", e.Width, e.Height, e.Want, e.Got)
}

// Is reports whether target is ErrInvalidFrameSize.
func (e *FrameSizeError) Is(target error) bool {
	return target == ErrInvalidFrameSize
}

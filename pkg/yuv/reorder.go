package yuv

// NV21ToNV12 returns a new buffer holding src with every interleaved
// chroma pair swapped. The luma plane is copied unchanged.
//
// The transform is its own inverse.
func NV21ToNV12(src []byte, width, height int) ([]byte, error) {
	if err := ValidateFrame(src, width, height); err != nil {
		return nil, err
	}
	dst := make([]byte, len(src))
	swapChroma(dst, src, width*height)
	return dst, nil
}

// NV12ToNV21 is NV21ToNV12 read in the other direction.
func NV12ToNV21(src []byte, width, height int) ([]byte, error) {
	return NV21ToNV12(src, width, height)
}

// ConvertInto writes the reordered frame into dst, which must be the same
// length as src. dst and src must not overlap unless they are the same slice.
func ConvertInto(dst, src []byte, width, height int) error {
	if err := ValidateFrame(src, width, height); err != nil {
		return err
	}
	if len(dst) != len(src) {
		return &FrameSizeError{Width: width, Height: height, Got: len(dst), Want: len(src)}
	}
	swapChroma(dst, src, width*height)
	return nil
}

func swapChroma(dst, src []byte, lumaSize int) {
	copy(dst[:lumaSize], src[:lumaSize])
	for i := lumaSize; i+1 < len(src); i += 2 {
		// read both before writing so dst == src works
		a, b := src[i], src[i+1]
		dst[i], dst[i+1] = b, a
	}
}

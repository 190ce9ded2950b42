package yuv

import (
	"fmt"
	"image"
)

// SplitFrames cuts a headerless raw file into frame buffers. The returned
// slices alias data.
func SplitFrames(data []byte, width, height int) ([][]byte, error) {
	if err := ValidateDimensions(width, height); err != nil {
		return nil, err
	}
	size := FrameSize(width, height)
	if len(data) == 0 || len(data)%size != 0 {
		return nil, &FrameSizeError{Width: width, Height: height, Got: len(data), Want: size}
	}

	frames := make([][]byte, 0, len(data)/size)
	for off := 0; off < len(data); off += size {
		frames = append(frames, data[off:off+size:off+size])
	}
	return frames, nil
}

// ToYCbCr de-interleaves a frame into an image.YCbCr with 4:2:0
// subsampling. The luma plane aliases buf; chroma planes are new.
func ToYCbCr(buf []byte, f Format, width, height int) (*image.YCbCr, error) {
	if err := ValidateFrame(buf, width, height); err != nil {
		return nil, err
	}

	lumaSize := width * height
	chromaSize := lumaSize / 4
	img := &image.YCbCr{
		Y:              buf[:lumaSize],
		YStride:        width,
		CStride:        width / 2,
		SubsampleRatio: image.YCbCrSubsampleRatio420,
		Rect:           image.Rect(0, 0, width, height),
	}

	switch f {
	case FormatI420:
		img.Cb = buf[lumaSize : lumaSize+chromaSize]
		img.Cr = buf[lumaSize+chromaSize:]
		return img, nil
	case FormatNV12, FormatNV21:
	default:
		return nil, fmt.Errorf("yuv: unsupported format %s", f)
	}

	cb := make([]byte, chromaSize)
	cr := make([]byte, chromaSize)
	chroma := buf[lumaSize:]
	for k := 0; k < chromaSize; k++ {
		first, second := chroma[2*k], chroma[2*k+1]
		if f == FormatNV21 {
			cr[k], cb[k] = first, second
		} else {
			cb[k], cr[k] = first, second
		}
	}
	img.Cb = cb
	img.Cr = cr
	return img, nil
}

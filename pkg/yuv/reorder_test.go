package yuv

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomFrame(t *testing.T, rng *rand.Rand, width, height int) []byte {
	t.Helper()
	buf := make([]byte, FrameSize(width, height))
	_, err := rng.Read(buf)
	require.NoError(t, err)
	return buf
}

var testDimensions = []struct {
	width, height int
}{
	{2, 2},
	{4, 2},
	{2, 6},
	{16, 16},
	{18, 10},
	{800, 600},
}

func TestNV21ToNV12_ConcreteScenario(t *testing.T) {
	src := []byte{1, 2, 3, 4, 10, 20}

	out, err := NV21ToNV12(src, 2, 2)
	require.NoError(t, err)

	assert.Equal(t, []byte{1, 2, 3, 4, 20, 10}, out)
	// source untouched
	assert.Equal(t, []byte{1, 2, 3, 4, 10, 20}, src)
}

func TestNV21ToNV12_MinimumFrame(t *testing.T) {
	src := []byte{9, 8, 7, 6, 0xAA, 0x55}

	out, err := NV21ToNV12(src, 2, 2)
	require.NoError(t, err)
	require.Len(t, out, 6)

	assert.Equal(t, src[:4], out[:4])
	assert.Equal(t, byte(0x55), out[4])
	assert.Equal(t, byte(0xAA), out[5])
}

func TestNV21ToNV12_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for _, d := range testDimensions {
		src := randomFrame(t, rng, d.width, d.height)
		orig := bytes.Clone(src)

		out, err := NV21ToNV12(src, d.width, d.height)
		require.NoError(t, err, "%dx%d", d.width, d.height)

		require.Len(t, out, len(src))
		assert.Equal(t, orig, src, "input must not be modified")

		base := d.width * d.height
		assert.Equal(t, src[:base], out[:base], "luma %dx%d", d.width, d.height)

		for k := 0; k < base/4; k++ {
			if out[base+2*k] != src[base+2*k+1] || out[base+2*k+1] != src[base+2*k] {
				t.Fatalf("%dx%d: chroma pair %d not swapped", d.width, d.height, k)
			}
		}

		back, err := NV12ToNV21(out, d.width, d.height)
		require.NoError(t, err)
		assert.Equal(t, src, back, "involution %dx%d", d.width, d.height)
	}
}

func TestNV21ToNV12_FirstPairAligned(t *testing.T) {
	// 4x2: 8 luma bytes, chroma pairs (V0,U0) (V1,U1)
	src := []byte{0, 0, 0, 0, 0, 0, 0, 0, 'v', 'u', 'V', 'U'}

	out, err := NV21ToNV12(src, 4, 2)
	require.NoError(t, err)

	assert.Equal(t, []byte{'u', 'v', 'U', 'V'}, out[8:])
	assert.Equal(t, make([]byte, 8), out[:8], "luma must not receive chroma bytes")
}

func TestNV21ToNV12_InvalidSize(t *testing.T) {
	tests := []struct {
		name          string
		length        int
		width, height int
	}{
		{"one byte short", 5, 2, 2},
		{"one byte long", 7, 2, 2},
		{"empty", 0, 2, 2},
		{"luma only", 800 * 600, 800, 600},
		{"odd width", FrameSize(3, 2), 3, 2},
		{"odd height", FrameSize(2, 3), 2, 3},
		{"zero width", 0, 0, 2},
		{"negative height", 6, 2, -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := NV21ToNV12(make([]byte, tt.length), tt.width, tt.height)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidFrameSize)
			assert.Nil(t, out)
		})
	}
}

func TestFrameSizeError_Details(t *testing.T) {
	_, err := NV21ToNV12(make([]byte, 5), 2, 2)

	var fse *FrameSizeError
	require.ErrorAs(t, err, &fse)
	assert.Equal(t, 5, fse.Got)
	assert.Equal(t, 6, fse.Want)
	assert.Contains(t, err.Error(), "needs 6 bytes, got 5")
}

func TestConvertInto(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	src := randomFrame(t, rng, 16, 8)

	want, err := NV21ToNV12(src, 16, 8)
	require.NoError(t, err)

	dst := make([]byte, len(src))
	require.NoError(t, ConvertInto(dst, src, 16, 8))
	assert.Equal(t, want, dst)

	// in place
	inPlace := bytes.Clone(src)
	require.NoError(t, ConvertInto(inPlace, inPlace, 16, 8))
	assert.Equal(t, want, inPlace)

	err = ConvertInto(make([]byte, len(src)-1), src, 16, 8)
	assert.ErrorIs(t, err, ErrInvalidFrameSize)
}

func BenchmarkNV21ToNV12_800x600(b *testing.B) {
	src := make([]byte, FrameSize(800, 600))
	b.SetBytes(int64(len(src)))
	for i := 0; i < b.N; i++ {
		if _, err := NV21ToNV12(src, 800, 600); err != nil {
			b.Fatal(err)
		}
	}
}

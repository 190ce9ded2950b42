// Package integration contains integration tests for the yuvenc pipeline.
package integration

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/yuvenc/pkg/adapters/codecdetect"
	"github.com/user/yuvenc/pkg/adapters/ffmpegencoder"
	"github.com/user/yuvenc/pkg/adapters/filesink"
	"github.com/user/yuvenc/pkg/adapters/ggrenderer"
	"github.com/user/yuvenc/pkg/adapters/logger"
	"github.com/user/yuvenc/pkg/adapters/mp4muxer"
	"github.com/user/yuvenc/pkg/adapters/nullsink"
	"github.com/user/yuvenc/pkg/adapters/osfilesystem"
	"github.com/user/yuvenc/pkg/mocks"
	"github.com/user/yuvenc/pkg/orchestrator"
	"github.com/user/yuvenc/pkg/ports"
	"github.com/user/yuvenc/pkg/stages/convert"
	"github.com/user/yuvenc/pkg/stages/encode"
	"github.com/user/yuvenc/pkg/stages/load"
	"github.com/user/yuvenc/pkg/stages/mux"
	"github.com/user/yuvenc/pkg/stages/preview"
	"github.com/user/yuvenc/pkg/yuv"
)

const (
	testWidth  = 64
	testHeight = 48
)

// Baseline parameter sets for a 64x48 stream.
var (
	sps     = []byte{0x67, 0x42, 0x00, 0x1e, 0xf4, 0x23, 0xc8}
	pps     = []byte{0x68, 0xce, 0x3c, 0x80}
	idr     = []byte{0x65, 0x88, 0x84, 0x21, 0x43}
	nonIDR  = []byte{0x41, 0x9a, 0x22, 0x10}
	startCd = []byte{0, 0, 0, 1}
)

func annexB(nalus ...[]byte) []byte {
	var out []byte
	for _, n := range nalus {
		out = append(out, startCd...)
		out = append(out, n...)
	}
	return out
}

// nv21Frames builds n frames whose chroma pairs are (V=0x10+i, U=0x80+i).
func nv21Frames(n int) []byte {
	size := yuv.FrameSize(testWidth, testHeight)
	luma := testWidth * testHeight
	data := make([]byte, 0, n*size)
	for f := 0; f < n; f++ {
		frame := make([]byte, size)
		for i := 0; i < luma; i++ {
			frame[i] = byte(i % 251)
		}
		for i := luma; i < size; i += 2 {
			frame[i] = byte(0x10 + f)
			frame[i+1] = byte(0x80 + f)
		}
		data = append(data, frame...)
	}
	return data
}

// fakeH264 returns an encoder that emits one real-looking access unit per frame.
func fakeH264() *mocks.VideoEncoder {
	enc := &mocks.VideoEncoder{}
	enc.EndFunc = func() ([]ports.AccessUnit, error) {
		units := make([]ports.AccessUnit, len(enc.EncodeFrameCalls))
		for i, call := range enc.EncodeFrameCalls {
			if i == 0 {
				units[i] = ports.AccessUnit{Data: annexB(sps, pps, idr), PTSUs: call.PTSUs, Keyframe: true}
				continue
			}
			units[i] = ports.AccessUnit{Data: annexB(nonIDR), PTSUs: call.PTSUs}
		}
		return units, nil
	}
	return enc
}

func newOrchestrator(encoder ports.VideoEncoder, sink ports.DebugSink) *orchestrator.Orchestrator {
	log := logger.NewNoop()
	fs := osfilesystem.New()
	renderer := ggrenderer.New()
	return orchestrator.New(
		load.NewStage(fs, log),
		preview.NewStage(renderer, log),
		convert.NewStage(log),
		encode.NewStage(encoder, log),
		mux.NewStage(mp4muxer.New(), log),
		fs,
		sink,
		log,
	)
}

func writeInput(t *testing.T, dir string, frames int) string {
	t.Helper()
	path := filepath.Join(dir, "input.nv21")
	require.NoError(t, os.WriteFile(path, nv21Frames(frames), 0644))
	return path
}

func testConfig(input, outDir string) orchestrator.Config {
	cfg := orchestrator.DefaultConfig()
	cfg.InputPath = input
	cfg.Width = testWidth
	cfg.Height = testHeight
	cfg.OutputDir = outDir
	return cfg
}

// TestPipeline_EndToEnd runs every stage against the real filesystem and
// muxer with a scripted encoder.
func TestPipeline_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, 3)
	outDir := filepath.Join(dir, "out")

	encoder := fakeH264()
	cfg := testConfig(input, outDir)
	cfg.Preview = true
	cfg.PreviewFormat = ports.FormatPNG
	cfg.StartPTSUs = 1000

	result, err := newOrchestrator(encoder, nullsink.New()).Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 3, result.FrameCount)
	assert.Equal(t, 3, result.AccessUnits)
	assert.Equal(t, 1, result.Keyframes)
	assert.Equal(t, testWidth*testHeight*6, result.Bitrate)
	assert.Equal(t, int64(100000), result.DurationUs)
	assert.NotEmpty(t, result.SessionID)

	// The encoder receives NV12: the chroma pairs are swapped.
	require.Len(t, encoder.EncodeFrameCalls, 3)
	luma := testWidth * testHeight
	for i, call := range encoder.EncodeFrameCalls {
		assert.Equal(t, byte(0x80+i), call.Frame[luma], "frame %d U", i)
		assert.Equal(t, byte(0x10+i), call.Frame[luma+1], "frame %d V", i)
		assert.Equal(t, byte(1%251), call.Frame[1])
	}
	assert.Equal(t, []int64{1000, 34333, 67666}, []int64{
		encoder.EncodeFrameCalls[0].PTSUs,
		encoder.EncodeFrameCalls[1].PTSUs,
		encoder.EncodeFrameCalls[2].PTSUs,
	})

	stream, err := os.ReadFile(filepath.Join(outDir, "bitstream.h264"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(stream, annexB(sps, pps, idr)))
	assert.Equal(t, result.StreamBytes, len(stream))

	info, err := codecdetect.ProbeFile(filepath.Join(outDir, "h264.mp4"))
	require.NoError(t, err)
	assert.Equal(t, codecdetect.CodecH264, info.Codec)
	assert.Equal(t, testWidth, info.Width)
	assert.Equal(t, testHeight, info.Height)
	assert.Equal(t, 3, info.SampleCount)

	pngData, err := os.ReadFile(result.PreviewPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pngData, []byte("\x89PNG")))
}

func TestPipeline_ReplacesExistingOutput(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, 1)
	stale := filepath.Join(dir, "bitstream.h264")
	require.NoError(t, os.WriteFile(stale, []byte("stale"), 0644))

	cfg := testConfig(input, dir)
	cfg.WriteContainer = false

	_, err := newOrchestrator(fakeH264(), nullsink.New()).Run(context.Background(), cfg)
	require.NoError(t, err)

	data, err := os.ReadFile(stale)
	require.NoError(t, err)
	assert.Equal(t, annexB(sps, pps, idr), data)

	_, err = os.Stat(filepath.Join(dir, "h264.mp4"))
	assert.True(t, os.IsNotExist(err))
}

func TestPipeline_DebugOutput(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, 2)
	debugDir := filepath.Join(dir, "debug")

	fs := osfilesystem.New()
	sink := filesink.New(debugDir, fs, ggrenderer.New())

	_, err := newOrchestrator(fakeH264(), sink).Run(context.Background(), testConfig(input, filepath.Join(dir, "out")))
	require.NoError(t, err)

	for _, rel := range []string{
		"session.json",
		"source/frame-0000.png",
		"frames/nv12/frame-0000.nv12",
		"frames/nv12/frame-0001.nv12",
		"units/au-0000.es",
		"units/au-0001.es",
	} {
		_, err := os.Stat(filepath.Join(debugDir, rel))
		assert.NoError(t, err, rel)
	}

	frame, err := os.ReadFile(filepath.Join(debugDir, "frames/nv12/frame-0001.nv12"))
	require.NoError(t, err)
	assert.Len(t, frame, yuv.FrameSize(testWidth, testHeight))
}

func TestPipeline_RejectsTruncatedInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "short.nv21")
	require.NoError(t, os.WriteFile(input, make([]byte, yuv.FrameSize(testWidth, testHeight)-1), 0644))

	encoder := fakeH264()
	_, err := newOrchestrator(encoder, nullsink.New()).Run(context.Background(), testConfig(input, dir))
	require.Error(t, err)
	assert.ErrorIs(t, err, yuv.ErrInvalidFrameSize)
	assert.False(t, encoder.BeginCalled)
}

func TestPipeline_Cancelled(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newOrchestrator(fakeH264(), nullsink.New()).Run(ctx, testConfig(input, dir))
	assert.ErrorIs(t, err, context.Canceled)
}

// TestPipeline_FFmpeg encodes through a real ffmpeg when one is installed.
func TestPipeline_FFmpeg(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping ffmpeg test in short mode")
	}
	if !ffmpegencoder.SupportsCodec("", ports.CodecH264) {
		t.Skip("ffmpeg with libx264 not available")
	}

	dir := t.TempDir()
	input := writeInput(t, dir, 5)

	encoder := ffmpegencoder.New(logger.NewNoop(), ffmpegencoder.Options{})
	defer encoder.Close()

	result, err := newOrchestrator(encoder, nullsink.New()).Run(context.Background(), testConfig(input, dir))
	require.NoError(t, err)

	assert.Equal(t, 5, result.FrameCount)
	assert.GreaterOrEqual(t, result.Keyframes, 1)

	info, err := codecdetect.ProbeFile(filepath.Join(dir, "h264.mp4"))
	require.NoError(t, err)
	assert.Equal(t, codecdetect.CodecH264, info.Codec)
	assert.Equal(t, testWidth, info.Width)
	assert.Equal(t, testHeight, info.Height)
}

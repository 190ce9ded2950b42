package ffmpegencoder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/user/yuvenc/pkg/adapters/logger"
	"github.com/user/yuvenc/pkg/ports"
	"github.com/user/yuvenc/pkg/yuv"
)

// createTestFrame creates an NV12 frame with a horizontal luma gradient.
func createTestFrame(width, height, frameNum int) []byte {
	buf := make([]byte, yuv.FrameSize(width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			buf[y*width+x] = byte((x*255/width + frameNum*10) % 256)
		}
	}
	for i := width * height; i < len(buf); i += 2 {
		buf[i] = 90
		buf[i+1] = 160
	}
	return buf
}

func TestBuildArgs_H264(t *testing.T) {
	args, err := buildArgs(ports.EncoderConfig{
		Codec:            ports.CodecH264,
		Width:            800,
		Height:           600,
		FPS:              30,
		Bitrate:          800 * 600 * 6,
		KeyframeInterval: 1,
	})
	if err != nil {
		t.Fatalf("buildArgs failed: %v", err)
	}

	joined := strings.Join(args, " ")
	for _, want := range []string{
		"-pix_fmt nv12",
		"-s 800x600",
		"-r 30",
		"-c:v libx264",
		"-b:v 2880000",
		"-g 30",
		"-bf 0",
		"-f h264 pipe:1",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected %q in args: %s", want, joined)
		}
	}
}

func TestBuildArgs_HEVC(t *testing.T) {
	args, err := buildArgs(ports.EncoderConfig{
		Codec:  ports.CodecHEVC,
		Width:  64,
		Height: 48,
		FPS:    25,
	})
	if err != nil {
		t.Fatalf("buildArgs failed: %v", err)
	}

	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-c:v libx265") {
		t.Errorf("expected libx265 in args: %s", joined)
	}
	if !strings.Contains(joined, "-f hevc pipe:1") {
		t.Errorf("expected hevc output in args: %s", joined)
	}
	if strings.Contains(joined, "-b:v") {
		t.Errorf("bitrate should be omitted when zero: %s", joined)
	}
}

func TestBuildArgs_UnsupportedCodec(t *testing.T) {
	_, err := buildArgs(ports.EncoderConfig{Codec: "vp9", Width: 2, Height: 2, FPS: 30})
	if !errors.Is(err, ErrUnsupportedCodec) {
		t.Errorf("expected ErrUnsupportedCodec, got %v", err)
	}
}

func TestGopSize(t *testing.T) {
	tests := []struct {
		fps      float64
		interval float64
		want     int
	}{
		{30, 1, 30},
		{29.97, 2, 60},
		{30, 0, 1},
		{30, -1, 1},
		{10, 0.01, 1},
	}
	for _, tt := range tests {
		if got := gopSize(tt.fps, tt.interval); got != tt.want {
			t.Errorf("gopSize(%v, %v) = %d, want %d", tt.fps, tt.interval, got, tt.want)
		}
	}
}

func TestEncoder_NotInitialized(t *testing.T) {
	enc := New(logger.NewNoop(), Options{})

	if err := enc.EncodeFrame(make([]byte, 6), 0); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
	if _, err := enc.End(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestEncoder_BeginRejectsOddDimensions(t *testing.T) {
	enc := New(logger.NewNoop(), Options{})

	err := enc.Begin(context.Background(), ports.EncoderConfig{
		Codec: ports.CodecH264, Width: 801, Height: 600, FPS: 30,
	})
	if !errors.Is(err, yuv.ErrInvalidFrameSize) {
		t.Errorf("expected ErrInvalidFrameSize, got %v", err)
	}
}

func TestEncoder_MissingCustomFFmpeg(t *testing.T) {
	enc := New(logger.NewNoop(), Options{FFmpegPath: "/nonexistent/ffmpeg"})

	err := enc.Begin(context.Background(), ports.EncoderConfig{
		Codec: ports.CodecH264, Width: 64, Height: 48, FPS: 30,
	})
	if !errors.Is(err, ErrFFmpegNotFound) {
		t.Errorf("expected ErrFFmpegNotFound, got %v", err)
	}
}

func TestEncoder_H264(t *testing.T) {
	if !SupportsCodec("", ports.CodecH264) {
		t.Skip("ffmpeg with libx264 not available")
	}

	enc := New(logger.NewNoop(), Options{DrainTimeout: 30 * time.Second})
	cfg := ports.EncoderConfig{
		Codec:            ports.CodecH264,
		Width:            64,
		Height:           48,
		FPS:              30,
		Bitrate:          64 * 48 * 6,
		KeyframeInterval: 1,
	}
	if err := enc.Begin(context.Background(), cfg); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	pts := []int64{1000, 34333, 67666}
	for i, ts := range pts {
		if err := enc.EncodeFrame(createTestFrame(64, 48, i), ts); err != nil {
			t.Fatalf("EncodeFrame failed at frame %d: %v", i, err)
		}
	}

	units, err := enc.End()
	if err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if len(units) != len(pts) {
		t.Fatalf("expected %d access units, got %d", len(pts), len(units))
	}
	if !units[0].Keyframe {
		t.Error("expected first access unit to be a keyframe")
	}
	for i, au := range units {
		if au.PTSUs != pts[i] {
			t.Errorf("unit %d: expected pts %d, got %d", i, pts[i], au.PTSUs)
		}
		if len(au.Data) < 5 {
			t.Errorf("unit %d: too small (%d bytes)", i, len(au.Data))
		}
	}
}

func TestEncoder_RejectsWrongFrameSizeAndOrder(t *testing.T) {
	if !SupportsCodec("", ports.CodecH264) {
		t.Skip("ffmpeg with libx264 not available")
	}

	enc := New(logger.NewNoop(), Options{})
	cfg := ports.EncoderConfig{Codec: ports.CodecH264, Width: 64, Height: 48, FPS: 30}
	if err := enc.Begin(context.Background(), cfg); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	defer enc.Close()

	if err := enc.EncodeFrame(make([]byte, 10), 0); !errors.Is(err, yuv.ErrInvalidFrameSize) {
		t.Errorf("expected ErrInvalidFrameSize, got %v", err)
	}
	if err := enc.EncodeFrame(createTestFrame(64, 48, 0), 100); err != nil {
		t.Fatalf("EncodeFrame failed: %v", err)
	}
	if err := enc.EncodeFrame(createTestFrame(64, 48, 1), 100); !errors.Is(err, ErrTimestampOrder) {
		t.Errorf("expected ErrTimestampOrder, got %v", err)
	}
}

func TestSupportsCodec_Unknown(t *testing.T) {
	if SupportsCodec("", ports.Codec("vp8")) {
		t.Error("vp8 has no encoder mapping")
	}
	if SupportsCodec("/nonexistent/ffmpeg", ports.CodecH264) {
		t.Error("missing binary cannot support anything")
	}
}

func TestFindFFmpeg_EnvPath(t *testing.T) {
	t.Setenv(EnvFFmpegPath, "/nonexistent/ffmpeg")
	if _, err := FindFFmpeg(""); !errors.Is(err, ErrFFmpegNotFound) {
		t.Errorf("expected ErrFFmpegNotFound for a missing $%s, got %v", EnvFFmpegPath, err)
	}
}

// fakeFFmpeg writes a shell script standing in for ffmpeg and returns its path.
func fakeFFmpeg(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("failed to write fake ffmpeg: %v", err)
	}
	return path
}

// printfEscapes renders data as octal escapes for a shell printf format.
func printfEscapes(data []byte) string {
	var sb strings.Builder
	for _, b := range data {
		fmt.Fprintf(&sb, "\\%03o", b)
	}
	return sb.String()
}

func beginFake(t *testing.T, body string, drain time.Duration) *Encoder {
	t.Helper()
	enc := New(logger.NewNoop(), Options{FFmpegPath: fakeFFmpeg(t, body), DrainTimeout: drain})
	cfg := ports.EncoderConfig{Codec: ports.CodecH264, Width: 64, Height: 48, FPS: 30}
	if err := enc.Begin(context.Background(), cfg); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	return enc
}

func TestEncoder_End_DrainTimeout(t *testing.T) {
	enc := beginFake(t, "exec sleep 5", 200*time.Millisecond)

	start := time.Now()
	_, err := enc.End()
	if !errors.Is(err, ErrDrainTimeout) {
		t.Fatalf("expected ErrDrainTimeout, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("End took %s, expected it to stop near the drain timeout", elapsed)
	}
}

func TestEncoder_End_DrainTimeoutWithWrapperScript(t *testing.T) {
	// sleep runs as a grandchild and keeps stdout/stderr open after the
	// script itself is killed.
	enc := beginFake(t, "sleep 5", 200*time.Millisecond)

	start := time.Now()
	_, err := enc.End()
	if !errors.Is(err, ErrDrainTimeout) {
		t.Fatalf("expected ErrDrainTimeout, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("End took %s, expected the kill grace to bound it", elapsed)
	}
}

func TestEncoder_End_ProcessFailure(t *testing.T) {
	enc := beginFake(t, "cat >/dev/null; echo boom >&2; exit 3", 5*time.Second)

	if err := enc.EncodeFrame(createTestFrame(64, 48, 0), 0); err != nil {
		t.Fatalf("EncodeFrame failed: %v", err)
	}

	_, err := enc.End()
	if !errors.Is(err, ErrEncodingFailed) {
		t.Fatalf("expected ErrEncodingFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("expected stderr in error, got %v", err)
	}
}

func TestEncoder_End_StampsAccessUnits(t *testing.T) {
	sps := []byte{0x67, 0x42, 0x00, 0x1e, 0xf4, 0x23, 0xc8}
	pps := []byte{0x68, 0xce, 0x3c, 0x80}
	idr := []byte{0x65, 0x88, 0x84, 0x21, 0x43}
	slice := []byte{0x41, 0x9a, 0x22, 0x10}

	var stream []byte
	for _, nalu := range [][]byte{sps, pps, idr, slice, slice} {
		stream = append(stream, 0, 0, 0, 1)
		stream = append(stream, nalu...)
	}

	enc := beginFake(t, "cat >/dev/null; printf '"+printfEscapes(stream)+"'", 5*time.Second)

	pts := []int64{1000, 34333, 67666}
	for i, ts := range pts {
		if err := enc.EncodeFrame(createTestFrame(64, 48, i), ts); err != nil {
			t.Fatalf("EncodeFrame failed at frame %d: %v", i, err)
		}
	}

	units, err := enc.End()
	if err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if len(units) != len(pts) {
		t.Fatalf("expected %d access units, got %d", len(pts), len(units))
	}

	wantKey := []bool{true, false, false}
	for i, au := range units {
		if au.PTSUs != pts[i] {
			t.Errorf("unit %d: expected pts %d, got %d", i, pts[i], au.PTSUs)
		}
		if au.Keyframe != wantKey[i] {
			t.Errorf("unit %d: expected keyframe=%v, got %v", i, wantKey[i], au.Keyframe)
		}
	}
	if !bytes.HasPrefix(units[0].Data, []byte{0, 0, 0, 1, 0x67}) {
		t.Errorf("expected first unit to start with the SPS, got % x", units[0].Data[:5])
	}
	if !bytes.HasPrefix(units[1].Data, []byte{0, 0, 0, 1, 0x41}) {
		t.Errorf("expected second unit to hold a single slice, got % x", units[1].Data)
	}

	// End resets the session.
	if err := enc.EncodeFrame(createTestFrame(64, 48, 0), 0); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized after End, got %v", err)
	}
}

// Package ffmpegencoder implements ports.VideoEncoder on top of an ffmpeg
// child process. Raw NV12 frames go in on stdin; an Annex B elementary
// stream comes back on stdout.
package ffmpegencoder

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/user/yuvenc/pkg/adapters/annexb"
	"github.com/user/yuvenc/pkg/ports"
	"github.com/user/yuvenc/pkg/yuv"
)

// DefaultDrainTimeout bounds how long End waits for ffmpeg to flush.
const DefaultDrainTimeout = 10 * time.Second

// killGrace is how long Wait keeps copying stdout/stderr after ffmpeg is
// killed or exits. Descendants that inherited the pipes (a wrapper script's
// children) are not waited for beyond it.
const killGrace = 500 * time.Millisecond

// Options configures the encoder.
type Options struct {
	FFmpegPath   string        // Explicit ffmpeg binary; empty means search
	DrainTimeout time.Duration // Zero means DefaultDrainTimeout
}

// Encoder implements ports.VideoEncoder using ffmpeg.
type Encoder struct {
	opts Options
	log  ports.Logger

	mu        sync.Mutex
	cfg       ports.EncoderConfig
	frameSize int
	cmd       *exec.Cmd
	cancel    context.CancelFunc
	stdin     io.WriteCloser
	stdout    bytes.Buffer
	stderr    bytes.Buffer
	exited    chan error
	pts       []int64
}

// New creates a new ffmpeg-backed encoder.
func New(log ports.Logger, opts Options) *Encoder {
	if opts.DrainTimeout <= 0 {
		opts.DrainTimeout = DefaultDrainTimeout
	}
	return &Encoder{
		opts: opts,
		log:  log.WithComponent("ffmpeg"),
	}
}

// Begin starts ffmpeg for the given session.
func (e *Encoder) Begin(ctx context.Context, cfg ports.EncoderConfig) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cmd != nil {
		return fmt.Errorf("ffmpegencoder: session already started")
	}
	if err := yuv.ValidateDimensions(cfg.Width, cfg.Height); err != nil {
		return err
	}
	if cfg.FPS <= 0 {
		return fmt.Errorf("ffmpegencoder: fps must be positive, got %g", cfg.FPS)
	}

	args, err := buildArgs(cfg)
	if err != nil {
		return err
	}

	ffmpegPath, err := FindFFmpeg(e.opts.FFmpegPath)
	if err != nil {
		return err
	}
	e.log.Debug("Starting %s %v", ffmpegPath, args)

	runCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(runCtx, ffmpegPath, args...)
	e.stdout.Reset()
	e.stderr.Reset()
	cmd.Stdout = &e.stdout
	cmd.Stderr = &e.stderr
	cmd.WaitDelay = killGrace

	stdin, err := cmd.StdinPipe()
	if err != nil {
		cancel()
		return fmt.Errorf("failed to get stdin pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	exited := make(chan error, 1)
	go func() {
		exited <- cmd.Wait()
	}()

	e.cfg = cfg
	e.frameSize = yuv.FrameSize(cfg.Width, cfg.Height)
	e.cmd = cmd
	e.cancel = cancel
	e.stdin = stdin
	e.exited = exited
	e.pts = nil

	return nil
}

// EncodeFrame writes one NV12 frame to ffmpeg.
func (e *Encoder) EncodeFrame(frame []byte, ptsUs int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stdin == nil {
		return ErrNotInitialized
	}
	if err := yuv.ValidateFrame(frame, e.cfg.Width, e.cfg.Height); err != nil {
		return err
	}
	if n := len(e.pts); n > 0 && ptsUs <= e.pts[n-1] {
		return fmt.Errorf("%w: %d after %d", ErrTimestampOrder, ptsUs, e.pts[n-1])
	}

	if _, err := e.stdin.Write(frame); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	e.pts = append(e.pts, ptsUs)
	return nil
}

// End closes ffmpeg's input and waits, at most DrainTimeout, for the
// encoded stream.
func (e *Encoder) End() ([]ports.AccessUnit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stdin == nil {
		return nil, ErrNotInitialized
	}
	defer e.reset()

	// end of stream
	e.stdin.Close()
	e.stdin = nil

	select {
	case err := <-e.exited:
		if err != nil {
			return nil, fmt.Errorf("%w: %v\nstderr: %s", ErrEncodingFailed, err, e.stderr.String())
		}
	case <-time.After(e.opts.DrainTimeout):
		e.cancel()
		<-e.exited
		return nil, fmt.Errorf("%w after %s", ErrDrainTimeout, e.opts.DrainTimeout)
	}

	e.log.Debug("ffmpeg produced %d bytes for %d frames", e.stdout.Len(), len(e.pts))
	return e.collect(e.stdout.Bytes()), nil
}

// Close kills a running ffmpeg without collecting output.
func (e *Encoder) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cmd == nil {
		return
	}
	if e.stdin != nil {
		e.stdin.Close()
		e.stdin = nil
	}
	e.cancel()
	<-e.exited
	e.reset()
}

func (e *Encoder) reset() {
	if e.cancel != nil {
		e.cancel()
	}
	e.cmd = nil
	e.cancel = nil
	e.exited = nil
}

// collect splits the stream into access units and stamps them with the
// queued timestamps. ffmpeg runs with B-frames disabled so output order
// matches input order.
func (e *Encoder) collect(stream []byte) []ports.AccessUnit {
	raw := annexb.AccessUnits(e.cfg.Codec, stream)
	if len(raw) != len(e.pts) {
		e.log.Warn("Encoder returned %d access units for %d frames", len(raw), len(e.pts))
	}

	frameDurUs := int64(math.Round(1e6 / e.cfg.FPS))
	units := make([]ports.AccessUnit, len(raw))
	for i, data := range raw {
		var pts int64
		switch {
		case i < len(e.pts):
			pts = e.pts[i]
		case len(e.pts) > 0:
			pts = e.pts[len(e.pts)-1] + int64(i-len(e.pts)+1)*frameDurUs
		default:
			pts = int64(i) * frameDurUs
		}
		units[i] = ports.AccessUnit{
			Data:     bytes.Clone(data),
			PTSUs:    pts,
			Keyframe: annexb.IsKeyframe(e.cfg.Codec, data),
		}
	}
	return units
}

// buildArgs returns the ffmpeg argument list for a session.
func buildArgs(cfg ports.EncoderConfig) ([]string, error) {
	var codecArgs []string
	var muxer string
	switch cfg.Codec {
	case ports.CodecH264:
		codecArgs = []string{"-c:v", libraries[cfg.Codec], "-preset", "fast", "-profile:v", "high"}
		muxer = "h264"
	case ports.CodecHEVC:
		codecArgs = []string{"-c:v", libraries[cfg.Codec], "-preset", "fast", "-x265-params", "log-level=error:bframes=0"}
		muxer = "hevc"
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCodec, cfg.Codec)
	}

	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-f", "rawvideo", // Input format
		"-pix_fmt", "nv12", // Input pixel format
		"-s", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"-r", strconv.FormatFloat(cfg.FPS, 'f', -1, 64),
		"-i", "pipe:0",
	}
	args = append(args, codecArgs...)

	if cfg.Bitrate > 0 {
		args = append(args, "-b:v", strconv.Itoa(cfg.Bitrate))
	}
	args = append(args,
		"-g", strconv.Itoa(gopSize(cfg.FPS, cfg.KeyframeInterval)),
		"-bf", "0",
		"-pix_fmt", "yuv420p",
		"-f", muxer,
		"pipe:1",
	)

	return args, nil
}

// gopSize converts a keyframe interval in seconds to frames. Zero or
// negative intervals mean every frame is a keyframe.
func gopSize(fps, intervalSec float64) int {
	if intervalSec <= 0 {
		return 1
	}
	n := int(math.Round(fps * intervalSec))
	if n < 1 {
		return 1
	}
	return n
}

// Ensure Encoder implements ports.VideoEncoder
var _ ports.VideoEncoder = (*Encoder)(nil)

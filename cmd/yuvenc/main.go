// Package main provides the CLI entry point for yuvenc.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/ideamans/go-l10n"

	"github.com/user/yuvenc/pkg/adapters/codecdetect"
	"github.com/user/yuvenc/pkg/adapters/ffmpegencoder"
	"github.com/user/yuvenc/pkg/adapters/filesink"
	"github.com/user/yuvenc/pkg/adapters/ggrenderer"
	"github.com/user/yuvenc/pkg/adapters/logger"
	"github.com/user/yuvenc/pkg/adapters/mp4muxer"
	"github.com/user/yuvenc/pkg/adapters/nullsink"
	"github.com/user/yuvenc/pkg/adapters/osfilesystem"
	"github.com/user/yuvenc/pkg/config"
	"github.com/user/yuvenc/pkg/orchestrator"
	"github.com/user/yuvenc/pkg/ports"
	"github.com/user/yuvenc/pkg/stages/convert"
	"github.com/user/yuvenc/pkg/stages/encode"
	"github.com/user/yuvenc/pkg/stages/load"
	"github.com/user/yuvenc/pkg/stages/mux"
	"github.com/user/yuvenc/pkg/stages/preview"
	"github.com/user/yuvenc/pkg/summarizer"
	"github.com/user/yuvenc/pkg/yuv"
)

// CLI defines the command-line interface with subcommands.
type CLI struct {
	Encode  EncodeCmd  `cmd:"" help:"Encode a raw NV21 image into H.264/HEVC."`
	Convert ConvertCmd `cmd:"" help:"Swap the chroma order of raw NV21/NV12 frames."`
	Probe   ProbeCmd   `cmd:"" help:"Show the video track of an MP4 file."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// EncodeCmd defines the encode subcommand.
type EncodeCmd struct {
	Input  string  `arg:"" optional:"" help:"Raw input file (overrides the config file)."`
	Config *string `short:"c" help:"YAML configuration file."`

	// Input
	Width     *int    `short:"W" help:"Frame width (default: 800)."`
	Height    *int    `short:"H" help:"Frame height (default: 600)."`
	Format    *string `short:"f" help:"Input pixel format (nv21, nv12, i420)."`
	MaxFrames *int    `help:"Encode at most this many frames."`

	// Encoding
	Codec            *string        `short:"C" help:"Video codec (h264, hevc)."`
	FPS              *float64       `help:"Frame rate (default: 30)."`
	Bitrate          *int           `short:"b" help:"Target bitrate in bits/sec (default: width*height*6)."`
	KeyframeInterval *float64       `short:"k" help:"Seconds between keyframes (default: 1)."`
	StartPTS         *int64         `help:"Presentation timestamp of the first frame in microseconds."`
	FFmpegPath       *string        `help:"Path to ffmpeg (falls back to FFMPEG_PATH env, then PATH)."`
	DrainTimeout     *time.Duration `help:"Maximum time to wait for the encoder to flush."`

	// Output
	Output      *string `short:"o" help:"Output directory (default: current directory)."`
	NoStream    bool    `help:"Do not write the elementary stream."`
	NoContainer bool    `help:"Do not write the MP4 container."`
	Summary     *string `short:"s" help:"Write a summary to this path (Markdown, or JSON for .json)."`

	// Preview
	Preview       bool    `short:"p" help:"Write a preview image of the first frame."`
	PreviewFormat *string `help:"Preview image format (jpeg, png, webp)."`
	PreviewWidth  *int    `help:"Preview width in pixels (default: frame width)."`

	// Debug options
	Debug    bool    `short:"d" help:"Write intermediate outputs to the debug directory."`
	DebugDir *string `help:"Directory for intermediate outputs."`

	// Logging options
	LogLevel  *string `short:"l" help:"Log level (debug, info, warn, error)."`
	LogFormat *string `help:"Log format (console, text, json)."`
	Quiet     bool    `short:"Q" help:"Suppress all log output."`
}

// ConvertCmd defines the convert subcommand.
type ConvertCmd struct {
	Input  string `arg:"" type:"existingfile" help:"Raw input file."`
	Output string `arg:"" help:"Raw output file (replaced if it exists)."`
	Width  int    `short:"W" default:"800" help:"Frame width."`
	Height int    `short:"H" default:"600" help:"Frame height."`
	From   string `short:"f" default:"nv21" enum:"nv21,nv12" help:"Input pixel format (nv21, nv12)."`
	Quiet  bool   `short:"Q" help:"Suppress all log output."`
}

// ProbeCmd defines the probe subcommand.
type ProbeCmd struct {
	File string `arg:"" type:"existingfile" help:"MP4 file to inspect."`
}

// VersionCmd shows version information.
type VersionCmd struct{}

var version = "dev"

func main() {
	cli := CLI{}

	ctx := kong.Parse(&cli,
		kong.Name("yuvenc"),
		kong.Description(l10n.T("Encode raw NV21 images into H.264/HEVC elementary streams and MP4 files.")),
		kong.UsageOnError(),
	)

	err := ctx.Run()
	if errors.Is(err, yuv.ErrInvalidFrameSize) {
		fmt.Fprintln(os.Stderr, l10n.F("Input does not match the frame size: %s", err))
		os.Exit(2)
	}
	ctx.FatalIfErrorf(err)
}

// Run executes the encode command.
func (cmd *EncodeCmd) Run() error {
	cfg, err := cmd.buildConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Input == "" {
		return errors.New(l10n.T("Input file is required"))
	}

	log := newLogger(cfg.Log, cmd.Quiet)

	// Setup context with cancellation
	ctx, cancel := signalContext(log)
	defer cancel()

	// Create adapters
	fs := osfilesystem.New()
	renderer := ggrenderer.New()
	encoder := ffmpegencoder.New(log, ffmpegencoder.Options{
		FFmpegPath:   cfg.FFmpeg.Path,
		DrainTimeout: cfg.FFmpeg.DrainTimeout,
	})
	defer encoder.Close()

	// Create debug sink
	var sink ports.DebugSink
	if cfg.Debug {
		if err := fs.MkdirAll(cfg.DebugDir); err != nil {
			return fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(cfg.DebugDir, fs, renderer)
	} else {
		sink = nullsink.New()
	}

	orch := orchestrator.New(
		load.NewStage(fs, log),
		preview.NewStage(renderer, log),
		convert.NewStage(log),
		encode.NewStage(encoder, log),
		mux.NewStage(mp4muxer.New(), log),
		fs,
		sink,
		log,
	)

	orchConfig, err := cfg.ToOrchestratorConfig()
	if err != nil {
		return err
	}

	result, err := orch.Run(ctx, orchConfig)
	if err != nil {
		return err
	}

	if cfg.SummaryPath != "" {
		markdown := summarizer.NewMarkdownFormatter(
			summarizer.WithTranslator(l10n.T),
			summarizer.WithVersion(version),
		)
		writer := summarizer.NewWriter(summarizer.ForPath(cfg.SummaryPath, markdown), fs)
		if err := writer.Write(cfg.SummaryPath, buildSummary(result)); err != nil {
			log.Error("Failed to write summary: %s", err)
			return fmt.Errorf("write summary: %w", err)
		}
		log.Info("Summary saved to %s", cfg.SummaryPath)
	}

	return nil
}

// buildConfig layers the config file and the flags over the defaults.
func (cmd *EncodeCmd) buildConfig() (config.Config, error) {
	base := config.Defaults()
	if cmd.Config != nil {
		loaded, err := config.LoadFromFile(*cmd.Config)
		if err != nil {
			return base, fmt.Errorf("load config: %w", err)
		}
		base = loaded
	}

	builder := config.From(base)

	if cmd.Input != "" {
		builder.WithInput(cmd.Input)
	}
	if cmd.Width != nil {
		builder.WithWidth(*cmd.Width)
	}
	if cmd.Height != nil {
		builder.WithHeight(*cmd.Height)
	}
	if cmd.Format != nil {
		builder.WithFormat(*cmd.Format)
	}
	if cmd.MaxFrames != nil {
		builder.WithMaxFrames(*cmd.MaxFrames)
	}
	if cmd.Codec != nil {
		builder.WithCodec(*cmd.Codec)
	}
	if cmd.FPS != nil {
		builder.WithFPS(*cmd.FPS)
	}
	if cmd.Bitrate != nil {
		builder.WithBitrate(*cmd.Bitrate)
	}
	if cmd.KeyframeInterval != nil {
		builder.WithKeyframeInterval(*cmd.KeyframeInterval)
	}
	if cmd.StartPTS != nil {
		builder.WithStartPTS(*cmd.StartPTS)
	}
	if cmd.FFmpegPath != nil {
		builder.WithFFmpegPath(*cmd.FFmpegPath)
	}
	if cmd.DrainTimeout != nil {
		builder.WithDrainTimeout(*cmd.DrainTimeout)
	}
	if cmd.Output != nil {
		builder.WithOutputDir(*cmd.Output)
	}
	if cmd.NoStream {
		builder.WithStream(false)
	}
	if cmd.NoContainer {
		builder.WithContainer(false)
	}
	if cmd.Summary != nil {
		builder.WithSummary(*cmd.Summary)
	}
	if cmd.Preview || cmd.PreviewFormat != nil || cmd.PreviewWidth != nil {
		current := builder.Build().Preview
		format, width := current.Format, current.Width
		if cmd.PreviewFormat != nil {
			format = *cmd.PreviewFormat
		}
		if cmd.PreviewWidth != nil {
			width = *cmd.PreviewWidth
		}
		builder.WithPreview(format, width)
	}
	if cmd.Debug {
		dir := ""
		if cmd.DebugDir != nil {
			dir = *cmd.DebugDir
		}
		builder.WithDebug(dir)
	}

	level, format := "", ""
	if cmd.LogLevel != nil {
		level = *cmd.LogLevel
	}
	if cmd.LogFormat != nil {
		format = *cmd.LogFormat
	}
	builder.WithLog(level, format)

	return builder.Build(), nil
}

// Run executes the convert command. The chroma swap is its own inverse,
// so the same operation converts in either direction.
func (cmd *ConvertCmd) Run() error {
	log := newLogger(config.LogConfig{Level: "info", Format: "console"}, cmd.Quiet)
	fs := osfilesystem.New()

	from, err := yuv.ParseFormat(cmd.From)
	if err != nil {
		return err
	}
	to := yuv.FormatNV12
	if from == yuv.FormatNV12 {
		to = yuv.FormatNV21
	}

	data, err := fs.ReadFile(cmd.Input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	frames, err := yuv.SplitFrames(data, cmd.Width, cmd.Height)
	if err != nil {
		return err
	}

	log.Info("Converting %d frames from %s to %s", len(frames), from, to)

	out := make([]byte, len(data))
	size := yuv.FrameSize(cmd.Width, cmd.Height)
	for i, frame := range frames {
		if err := yuv.ConvertInto(out[i*size:(i+1)*size], frame, cmd.Width, cmd.Height); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}

	if exists, _ := fs.Exists(cmd.Output); exists {
		log.Info("Replacing existing file %s", cmd.Output)
	}
	if err := fs.WriteFile(cmd.Output, out); err != nil {
		log.Error("Failed to write output: %s", err)
		return fmt.Errorf("write output: %w", err)
	}

	log.Info("Output saved to %s", cmd.Output)
	return nil
}

// Run executes the probe command.
func (cmd *ProbeCmd) Run() error {
	info, err := codecdetect.ProbeFile(cmd.File)
	if err != nil {
		return err
	}

	fmt.Println(l10n.F("Codec: %s (%s)", info.Codec, info.SampleEntry))
	fmt.Println(l10n.F("Dimensions: %dx%d", info.Width, info.Height))
	fmt.Println(l10n.F("Samples: %d", info.SampleCount))
	fmt.Println(l10n.F("Timescale: %d", info.Timescale))
	if info.Fragmented {
		fmt.Println(l10n.T("Fragmented: yes"))
	}
	return nil
}

// Run executes the version command.
func (cmd *VersionCmd) Run() error {
	fmt.Println(l10n.F("yuvenc version %s", version))
	return nil
}

// newLogger picks the logger backend for the given settings.
func newLogger(cfg config.LogConfig, quiet bool) ports.Logger {
	if quiet {
		return logger.NewNoop()
	}
	// Validate has already rejected unknown names.
	level, _ := ports.ParseLogLevel(cfg.Level)
	switch cfg.Format {
	case "json":
		return logger.NewLogrus(level, true)
	case "text":
		return logger.NewLogrus(level, false)
	default:
		return logger.NewConsole(level)
	}
}

// signalContext returns a context cancelled by SIGINT or SIGTERM.
func signalContext(log ports.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Interrupted, shutting down...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// buildSummary converts a run result into a report.
func buildSummary(result orchestrator.RunResult) *summarizer.Summary {
	return summarizer.NewBuilder().
		WithSession(result.SessionID).
		WithInput(summarizer.InputInfo{
			Path:       result.InputPath,
			Format:     result.InputFormat.String(),
			Width:      result.Width,
			Height:     result.Height,
			FrameCount: result.FrameCount,
			TotalBytes: int64(result.FrameCount * yuv.FrameSize(result.Width, result.Height)),
		}).
		WithEncoding(summarizer.EncodingInfo{
			Codec:            string(result.Codec),
			MIMEType:         result.Codec.MIMEType(),
			FPS:              result.FPS,
			Bitrate:          result.Bitrate,
			KeyframeInterval: result.KeyframeInterval,
			AccessUnits:      result.AccessUnits,
			Keyframes:        result.Keyframes,
			DurationUs:       result.DurationUs,
		}).
		AddOutput("stream", result.StreamPath, int64(result.StreamBytes)).
		AddOutput("container", result.ContainerPath, int64(result.ContainerBytes)).
		AddOutput("preview", result.PreviewPath, 0).
		WithElapsed(result.Elapsed).
		Build()
}

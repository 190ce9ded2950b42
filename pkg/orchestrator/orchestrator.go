// Package orchestrator coordinates all pipeline stages of an encode session.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/user/yuvenc/pkg/pipeline"
	"github.com/user/yuvenc/pkg/ports"
	"github.com/user/yuvenc/pkg/yuv"
)

// Config contains all configuration for the orchestrator.
type Config struct {
	// Input
	InputPath   string
	InputFormat yuv.Format
	Width       int
	Height      int
	MaxFrames   int

	// Encoding
	Codec            ports.Codec
	FPS              float64
	Bitrate          int     // bits/sec, 0 = width*height*6
	KeyframeInterval float64 // seconds
	StartPTSUs       int64

	// Output
	OutputDir      string
	WriteStream    bool
	WriteContainer bool

	// Preview
	Preview       bool
	PreviewFormat ports.ImageFormat
	PreviewWidth  int
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		InputFormat: yuv.FormatNV21,
		Width:       800,
		Height:      600,

		Codec:            ports.CodecH264,
		FPS:              30.0,
		KeyframeInterval: 1.0,

		OutputDir:      ".",
		WriteStream:    true,
		WriteContainer: true,

		PreviewFormat: ports.FormatJPEG,
	}
}

// Orchestrator coordinates the execution of all pipeline stages.
type Orchestrator struct {
	loadStage    pipeline.Stage[pipeline.LoadInput, pipeline.LoadResult]
	previewStage pipeline.Stage[pipeline.PreviewInput, pipeline.PreviewResult]
	convertStage pipeline.Stage[pipeline.ConvertInput, pipeline.ConvertResult]
	encodeStage  pipeline.Stage[pipeline.EncodeInput, pipeline.EncodeResult]
	muxStage     pipeline.Stage[pipeline.MuxInput, pipeline.MuxResult]
	fs           ports.FileSystem
	sink         ports.DebugSink
	logger       ports.Logger
}

// New creates a new Orchestrator.
func New(
	loadStage pipeline.Stage[pipeline.LoadInput, pipeline.LoadResult],
	previewStage pipeline.Stage[pipeline.PreviewInput, pipeline.PreviewResult],
	convertStage pipeline.Stage[pipeline.ConvertInput, pipeline.ConvertResult],
	encodeStage pipeline.Stage[pipeline.EncodeInput, pipeline.EncodeResult],
	muxStage pipeline.Stage[pipeline.MuxInput, pipeline.MuxResult],
	fs ports.FileSystem,
	sink ports.DebugSink,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		loadStage:    loadStage,
		previewStage: previewStage,
		convertStage: convertStage,
		encodeStage:  encodeStage,
		muxStage:     muxStage,
		fs:           fs,
		sink:         sink,
		logger:       logger,
	}
}

// Run executes the complete pipeline: load, preview, convert, encode,
// then write the elementary stream and the container.
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	start := time.Now()
	sessionID := uuid.NewString()
	log := o.logger.WithComponent(sessionID)

	result := RunResult{
		SessionID:        sessionID,
		InputPath:        config.InputPath,
		InputFormat:      config.InputFormat,
		Width:            config.Width,
		Height:           config.Height,
		Codec:            config.Codec,
		FPS:              config.FPS,
		KeyframeInterval: config.KeyframeInterval,
	}

	log.Info("Starting encode session %s", sessionID)

	// 1. Load frames
	loaded, err := pipeline.Timed("load", o.loadStage, log).Execute(ctx, pipeline.LoadInput{
		Path:      config.InputPath,
		Format:    config.InputFormat,
		Width:     config.Width,
		Height:    config.Height,
		MaxFrames: config.MaxFrames,
	})
	if err != nil {
		log.Error("Failed to load input: %s", err)
		return result, fmt.Errorf("load stage: %w", err)
	}
	result.FrameCount = len(loaded.Frames)

	if o.sink.Enabled() {
		if img, err := yuv.ToYCbCr(loaded.Frames[0], config.InputFormat, config.Width, config.Height); err == nil {
			o.saveDebug(log, o.sink.SaveSourceImage(0, img))
		}
	}

	// 2. Preview (optional)
	if config.Preview {
		preview, err := pipeline.Timed("preview", o.previewStage, log).Execute(ctx, pipeline.PreviewInput{
			Frame:       loaded.Frames[0],
			Format:      config.InputFormat,
			Width:       config.Width,
			Height:      config.Height,
			TargetWidth: config.PreviewWidth,
			ImageFormat: config.PreviewFormat,
			Label:       fmt.Sprintf("%s %dx%d frame 0", config.InputFormat, config.Width, config.Height),
		})
		if err != nil {
			log.Error("Failed to render preview: %s", err)
			return result, fmt.Errorf("preview stage: %w", err)
		}

		path := filepath.Join(config.OutputDir, "preview"+config.PreviewFormat.Extension())
		if err := o.writeOutput(log, config.OutputDir, path, preview.Data); err != nil {
			return result, err
		}
		result.PreviewPath = path
		log.Info("Preview saved to %s", path)
	}

	// 3. Convert to NV12
	converted, err := pipeline.Timed("convert", o.convertStage, log).Execute(ctx, pipeline.ConvertInput{
		Frames: loaded.Frames,
		From:   config.InputFormat,
		Width:  config.Width,
		Height: config.Height,
	})
	if err != nil {
		log.Error("Failed to convert frames: %s", err)
		return result, fmt.Errorf("convert stage: %w", err)
	}

	if o.sink.Enabled() {
		for i, frame := range converted.Frames {
			o.saveDebug(log, o.sink.SaveConvertedFrame(i, frame))
		}
	}

	// 4. Encode
	encoded, err := pipeline.Timed("encode", o.encodeStage, log).Execute(ctx, pipeline.EncodeInput{
		Frames:           converted.Frames,
		Codec:            config.Codec,
		Width:            config.Width,
		Height:           config.Height,
		FPS:              config.FPS,
		Bitrate:          config.Bitrate,
		KeyframeInterval: config.KeyframeInterval,
		StartPTSUs:       config.StartPTSUs,
	})
	if err != nil {
		log.Error("Failed to encode video: %s", err)
		return result, fmt.Errorf("encode stage: %w", err)
	}
	result.AccessUnits = len(encoded.Units)
	result.Keyframes = encoded.Keyframes
	result.Bitrate = encoded.Bitrate
	result.DurationUs = encoded.DurationUs

	if o.sink.Enabled() {
		for i, u := range encoded.Units {
			o.saveDebug(log, o.sink.SaveAccessUnit(i, u.Data))
		}
	}

	// 5. Elementary stream
	if config.WriteStream {
		path := filepath.Join(config.OutputDir, config.Codec.StreamFileName())
		if err := o.writeOutput(log, config.OutputDir, path, encoded.Stream()); err != nil {
			return result, err
		}
		result.StreamPath = path
		result.StreamBytes = encoded.StreamBytes
		log.Info("Elementary stream saved to %s", path)
	}

	// 6. Container
	if config.WriteContainer {
		muxed, err := pipeline.Timed("mux", o.muxStage, log).Execute(ctx, pipeline.MuxInput{
			Format: encoded.Format,
			Units:  encoded.Units,
		})
		if err != nil {
			log.Error("Failed to mux container: %s", err)
			return result, fmt.Errorf("mux stage: %w", err)
		}

		path := filepath.Join(config.OutputDir, config.Codec.ContainerFileName())
		if err := o.writeOutput(log, config.OutputDir, path, muxed.Data); err != nil {
			return result, err
		}
		result.ContainerPath = path
		result.ContainerBytes = len(muxed.Data)
		log.Info("Output saved to %s", path)
	}

	result.Elapsed = time.Since(start)

	if o.sink.Enabled() {
		if data, err := json.MarshalIndent(result, "", "  "); err == nil {
			o.saveDebug(log, o.sink.SaveSessionJSON(data))
		}
	}

	log.Info("Encode session completed")
	return result, nil
}

// writeOutput writes data to path, replacing any existing file.
func (o *Orchestrator) writeOutput(log ports.Logger, dir, path string, data []byte) error {
	if dir != "" && dir != "." {
		if err := o.fs.MkdirAll(dir); err != nil {
			log.Error("Failed to write output: %s", err)
			return fmt.Errorf("write output: %w", err)
		}
	}

	if exists, err := o.fs.Exists(path); err == nil && exists {
		log.Info("Replacing existing file %s", path)
	}

	if err := o.fs.WriteFile(path, data); err != nil {
		log.Error("Failed to write output: %s", err)
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func (o *Orchestrator) saveDebug(log ports.Logger, err error) {
	if err != nil {
		log.Warn("Failed to save debug output: %s", err)
	}
}

// RunResult describes a finished encode session.
type RunResult struct {
	SessionID string `json:"sessionId"`

	// Input
	InputPath   string     `json:"inputPath"`
	InputFormat yuv.Format `json:"inputFormat"`
	Width       int        `json:"width"`
	Height      int        `json:"height"`
	FrameCount  int        `json:"frameCount"`

	// Encoding
	Codec            ports.Codec `json:"codec"`
	FPS              float64     `json:"fps"`
	Bitrate          int         `json:"bitrate"`
	KeyframeInterval float64     `json:"keyframeInterval"`
	AccessUnits      int         `json:"accessUnits"`
	Keyframes        int         `json:"keyframes"`
	DurationUs       int64       `json:"durationUs"`

	// Outputs (empty path = not written)
	StreamPath     string `json:"streamPath,omitempty"`
	StreamBytes    int    `json:"streamBytes,omitempty"`
	ContainerPath  string `json:"containerPath,omitempty"`
	ContainerBytes int    `json:"containerBytes,omitempty"`
	PreviewPath    string `json:"previewPath,omitempty"`

	Elapsed time.Duration `json:"elapsed"`
}

// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/user/yuvenc/pkg/orchestrator"
	"github.com/user/yuvenc/pkg/ports"
	"github.com/user/yuvenc/pkg/yuv"
)

// Config represents the full configuration for yuvenc.
type Config struct {
	// Input
	Input     string `yaml:"input"`
	Format    string `yaml:"format"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	MaxFrames int    `yaml:"max_frames"`

	// Encoding
	Codec            string  `yaml:"codec"`
	FPS              float64 `yaml:"fps"`
	Bitrate          int     `yaml:"bitrate"`           // bits/sec, 0 = width*height*6
	KeyframeInterval float64 `yaml:"keyframe_interval"` // seconds
	StartPTSUs       int64   `yaml:"start_pts_us"`

	// Output
	OutputDir      string `yaml:"output_dir"`
	WriteStream    bool   `yaml:"write_stream"`
	WriteContainer bool   `yaml:"write_container"`
	SummaryPath    string `yaml:"summary"`

	Preview PreviewConfig `yaml:"preview"`
	FFmpeg  FFmpegConfig  `yaml:"ffmpeg"`
	Log     LogConfig     `yaml:"log"`

	// Debug
	Debug    bool   `yaml:"debug"`
	DebugDir string `yaml:"debug_dir"`
}

// PreviewConfig configures the still preview of the first frame.
type PreviewConfig struct {
	Enabled bool   `yaml:"enabled"`
	Format  string `yaml:"format"` // jpeg, png, webp
	Width   int    `yaml:"width"`  // 0 = source width
}

// FFmpegConfig configures the encoder subprocess.
type FFmpegConfig struct {
	Path         string        `yaml:"path"`
	DrainTimeout time.Duration `yaml:"drain_timeout"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error, quiet
	Format string `yaml:"format"` // console, text, json
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		// Input
		Format: "nv21",
		Width:  800,
		Height: 600,

		// Encoding
		Codec:            "h264",
		FPS:              30.0,
		KeyframeInterval: 1.0,

		// Output
		OutputDir:      ".",
		WriteStream:    true,
		WriteContainer: true,

		Preview: PreviewConfig{
			Format: "jpeg",
		},
		FFmpeg: FFmpegConfig{
			DrainTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},

		// Debug
		DebugDir: "./debug",
	}
}

// LoadFromFile loads configuration from a YAML file over Defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error

	if err := yuv.ValidateDimensions(c.Width, c.Height); err != nil {
		errs = append(errs, err)
	}
	if _, err := yuv.ParseFormat(c.Format); err != nil {
		errs = append(errs, err)
	}
	if _, err := ports.ParseCodec(c.Codec); err != nil {
		errs = append(errs, err)
	}
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive, got %g", c.FPS))
	}
	if c.Bitrate < 0 {
		errs = append(errs, fmt.Errorf("bitrate must not be negative, got %d", c.Bitrate))
	}
	if c.KeyframeInterval < 0 {
		errs = append(errs, fmt.Errorf("keyframe interval must not be negative, got %g", c.KeyframeInterval))
	}
	if c.MaxFrames < 0 {
		errs = append(errs, fmt.Errorf("max frames must not be negative, got %d", c.MaxFrames))
	}
	if c.FFmpeg.DrainTimeout < 0 {
		errs = append(errs, fmt.Errorf("drain timeout must not be negative, got %s", c.FFmpeg.DrainTimeout))
	}
	switch c.Preview.Format {
	case "jpeg", "jpg", "png", "webp":
	default:
		errs = append(errs, fmt.Errorf("unknown preview format %q", c.Preview.Format))
	}
	if c.Preview.Width < 0 {
		errs = append(errs, fmt.Errorf("preview width must not be negative, got %d", c.Preview.Width))
	}
	if _, err := ports.ParseLogLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "console", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
func (c Config) ToOrchestratorConfig() (orchestrator.Config, error) {
	format, err := yuv.ParseFormat(c.Format)
	if err != nil {
		return orchestrator.Config{}, err
	}
	codec, err := ports.ParseCodec(c.Codec)
	if err != nil {
		return orchestrator.Config{}, err
	}

	return orchestrator.Config{
		InputPath:   c.Input,
		InputFormat: format,
		Width:       c.Width,
		Height:      c.Height,
		MaxFrames:   c.MaxFrames,

		Codec:            codec,
		FPS:              c.FPS,
		Bitrate:          c.Bitrate,
		KeyframeInterval: c.KeyframeInterval,
		StartPTSUs:       c.StartPTSUs,

		OutputDir:      c.OutputDir,
		WriteStream:    c.WriteStream,
		WriteContainer: c.WriteContainer,

		Preview:       c.Preview.Enabled,
		PreviewFormat: ports.ParseImageFormat(c.Preview.Format),
		PreviewWidth:  c.Preview.Width,
	}, nil
}

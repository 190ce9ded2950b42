package config

import "time"

// Builder applies overrides on top of a base Config.
type Builder struct {
	config Config
}

// NewBuilder creates a Builder starting from Defaults.
func NewBuilder() *Builder {
	return &Builder{config: Defaults()}
}

// From creates a Builder starting from cfg.
func From(cfg Config) *Builder {
	return &Builder{config: cfg}
}

// Build returns the resulting Config.
func (b *Builder) Build() Config {
	return b.config
}

// WithInput sets the raw input path.
func (b *Builder) WithInput(path string) *Builder {
	b.config.Input = path
	return b
}

// WithFormat sets the input pixel format name.
func (b *Builder) WithFormat(format string) *Builder {
	b.config.Format = format
	return b
}

// WithSize sets the frame dimensions.
func (b *Builder) WithSize(width, height int) *Builder {
	b.config.Width = width
	b.config.Height = height
	return b
}

// WithWidth sets the frame width.
func (b *Builder) WithWidth(width int) *Builder {
	b.config.Width = width
	return b
}

// WithHeight sets the frame height.
func (b *Builder) WithHeight(height int) *Builder {
	b.config.Height = height
	return b
}

// WithMaxFrames limits how many frames are encoded.
func (b *Builder) WithMaxFrames(n int) *Builder {
	b.config.MaxFrames = n
	return b
}

// WithCodec sets the codec name.
func (b *Builder) WithCodec(codec string) *Builder {
	b.config.Codec = codec
	return b
}

// WithFPS sets the frame rate.
func (b *Builder) WithFPS(fps float64) *Builder {
	b.config.FPS = fps
	return b
}

// WithBitrate sets the target bitrate in bits/sec.
func (b *Builder) WithBitrate(bps int) *Builder {
	b.config.Bitrate = bps
	return b
}

// WithKeyframeInterval sets the keyframe interval in seconds.
func (b *Builder) WithKeyframeInterval(sec float64) *Builder {
	b.config.KeyframeInterval = sec
	return b
}

// WithStartPTS sets the first frame's timestamp in microseconds.
func (b *Builder) WithStartPTS(us int64) *Builder {
	b.config.StartPTSUs = us
	return b
}

// WithOutputDir sets the output directory.
func (b *Builder) WithOutputDir(dir string) *Builder {
	b.config.OutputDir = dir
	return b
}

// WithStream toggles writing the elementary stream.
func (b *Builder) WithStream(enabled bool) *Builder {
	b.config.WriteStream = enabled
	return b
}

// WithContainer toggles writing the MP4 container.
func (b *Builder) WithContainer(enabled bool) *Builder {
	b.config.WriteContainer = enabled
	return b
}

// WithPreview enables the preview in the given format.
func (b *Builder) WithPreview(format string, width int) *Builder {
	b.config.Preview = PreviewConfig{Enabled: true, Format: format, Width: width}
	return b
}

// WithFFmpegPath sets the ffmpeg executable.
func (b *Builder) WithFFmpegPath(path string) *Builder {
	b.config.FFmpeg.Path = path
	return b
}

// WithDrainTimeout bounds how long the encoder may take to flush.
func (b *Builder) WithDrainTimeout(d time.Duration) *Builder {
	b.config.FFmpeg.DrainTimeout = d
	return b
}

// WithSummary sets the Markdown summary path.
func (b *Builder) WithSummary(path string) *Builder {
	b.config.SummaryPath = path
	return b
}

// WithDebug enables the debug sink under dir.
func (b *Builder) WithDebug(dir string) *Builder {
	b.config.Debug = true
	if dir != "" {
		b.config.DebugDir = dir
	}
	return b
}

// WithLog sets the log level and format.
func (b *Builder) WithLog(level, format string) *Builder {
	if level != "" {
		b.config.Log.Level = level
	}
	if format != "" {
		b.config.Log.Format = format
	}
	return b
}

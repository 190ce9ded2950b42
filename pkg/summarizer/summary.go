// Package summarizer builds and writes human-readable reports of encode
// sessions.
package summarizer

import "time"

// Summary contains all data collected during an encode session.
type Summary struct {
	// Metadata
	GeneratedAt time.Time `json:"generatedAt"`
	SessionID   string    `json:"sessionId"`

	Input    InputInfo    `json:"input"`
	Encoding EncodingInfo `json:"encoding"`
	Outputs  []OutputFile `json:"outputs"`

	Elapsed time.Duration `json:"elapsedNs"`
}

// InputInfo describes the raw source.
type InputInfo struct {
	Path       string `json:"path"`
	Format     string `json:"format"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	FrameCount int    `json:"frameCount"`
	TotalBytes int64  `json:"totalBytes"`
}

// EncodingInfo describes the encoder settings and what it produced.
type EncodingInfo struct {
	Codec            string  `json:"codec"`
	MIMEType         string  `json:"mimeType"`
	FPS              float64 `json:"fps"`
	Bitrate          int     `json:"bitrate"`             // bits/sec
	KeyframeInterval float64 `json:"keyframeIntervalSec"` // seconds
	AccessUnits      int     `json:"accessUnits"`
	Keyframes        int     `json:"keyframes"`
	DurationUs       int64   `json:"durationUs"`
}

// OutputFile is one file written by the session.
type OutputFile struct {
	Kind string `json:"kind"` // "stream", "container", "preview"
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithSession sets the session id.
func (b *Builder) WithSession(id string) *Builder {
	b.summary.SessionID = id
	return b
}

// WithInput sets input information.
func (b *Builder) WithInput(input InputInfo) *Builder {
	b.summary.Input = input
	return b
}

// WithEncoding sets encoding information.
func (b *Builder) WithEncoding(encoding EncodingInfo) *Builder {
	b.summary.Encoding = encoding
	return b
}

// AddOutput records a written file. Empty paths are ignored.
func (b *Builder) AddOutput(kind, path string, size int64) *Builder {
	if path == "" {
		return b
	}
	b.summary.Outputs = append(b.summary.Outputs, OutputFile{Kind: kind, Path: path, Size: size})
	return b
}

// WithElapsed sets the wall-clock run time.
func (b *Builder) WithElapsed(d time.Duration) *Builder {
	b.summary.Elapsed = d
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}

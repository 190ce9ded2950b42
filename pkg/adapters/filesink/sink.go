// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/user/yuvenc/pkg/ports"
)

// Sink saves debug output to files under baseDir:
//
//	session.json
//	source/frame-0000.png
//	frames/nv12/frame-0000.nv12
//	units/au-0000.es
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
}

// New creates a new FileSink.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveSessionJSON saves the run configuration and result as JSON.
func (s *Sink) SaveSessionJSON(data []byte) error {
	path := filepath.Join(s.baseDir, "session.json")
	return s.fs.WriteFile(path, data)
}

// SaveSourceImage saves a decoded source frame as PNG.
func (s *Sink) SaveSourceImage(index int, img image.Image) error {
	data, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode source frame: %w", err)
	}
	return s.save("source", fmt.Sprintf("frame-%04d.png", index), data)
}

// SaveConvertedFrame saves a raw NV12 frame.
func (s *Sink) SaveConvertedFrame(index int, data []byte) error {
	return s.save(filepath.Join("frames", "nv12"), fmt.Sprintf("frame-%04d.nv12", index), data)
}

// SaveAccessUnit saves one encoded access unit in Annex B form.
func (s *Sink) SaveAccessUnit(index int, data []byte) error {
	return s.save("units", fmt.Sprintf("au-%04d.es", index), data)
}

func (s *Sink) save(subdir, name string, data []byte) error {
	dir := filepath.Join(s.baseDir, subdir)
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	return s.fs.WriteFile(filepath.Join(dir, name), data)
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)

// Package nullsink provides the DebugSink used when --debug is off.
package nullsink

import (
	"image"

	"github.com/user/yuvenc/pkg/ports"
)

// Sink reports itself disabled and drops anything handed to it.
type Sink struct{}

// New returns a disabled sink.
func New() Sink { return Sink{} }

func (Sink) Enabled() bool                          { return false }
func (Sink) SaveSessionJSON([]byte) error           { return nil }
func (Sink) SaveSourceImage(int, image.Image) error { return nil }
func (Sink) SaveConvertedFrame(int, []byte) error   { return nil }
func (Sink) SaveAccessUnit(int, []byte) error       { return nil }

var _ ports.DebugSink = Sink{}

package mocks

import (
	"image"
	"sync"

	"github.com/user/yuvenc/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	SessionJSON     []byte
	SourceImages    map[int]image.Image
	ConvertedFrames map[int][]byte
	AccessUnits     map[int][]byte
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled:         enabled,
		SourceImages:    make(map[int]image.Image),
		ConvertedFrames: make(map[int][]byte),
		AccessUnits:     make(map[int][]byte),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveSessionJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionJSON = data
	return nil
}

func (m *DebugSink) SaveSourceImage(index int, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourceImages[index] = img
	return nil
}

func (m *DebugSink) SaveConvertedFrame(index int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConvertedFrames[index] = data
	return nil
}

func (m *DebugSink) SaveAccessUnit(index int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AccessUnits[index] = data
	return nil
}

var _ ports.DebugSink = (*DebugSink)(nil)

package mocks

import (
	"context"

	"github.com/user/yuvenc/pkg/ports"
)

// VideoEncoder is a mock implementation of ports.VideoEncoder.
// Without EndFunc, End returns one access unit per encoded frame, the
// first marked as a keyframe, each carrying FakeAccessUnit's payload.
type VideoEncoder struct {
	BeginFunc       func(ctx context.Context, cfg ports.EncoderConfig) error
	EncodeFrameFunc func(frame []byte, ptsUs int64) error
	EndFunc         func() ([]ports.AccessUnit, error)

	// FakeAccessUnit is the payload End returns per frame when EndFunc is nil.
	FakeAccessUnit []byte

	// Recorded calls for verification
	BeginCalled      bool
	Config           ports.EncoderConfig
	EncodeFrameCalls []EncodeFrameCall
	EndCalled        bool
}

// EncodeFrameCall records a call to EncodeFrame.
type EncodeFrameCall struct {
	Frame []byte
	PTSUs int64
}

func (m *VideoEncoder) Begin(ctx context.Context, cfg ports.EncoderConfig) error {
	m.BeginCalled = true
	m.Config = cfg
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, cfg)
	}
	return nil
}

func (m *VideoEncoder) EncodeFrame(frame []byte, ptsUs int64) error {
	m.EncodeFrameCalls = append(m.EncodeFrameCalls, EncodeFrameCall{Frame: frame, PTSUs: ptsUs})
	if m.EncodeFrameFunc != nil {
		return m.EncodeFrameFunc(frame, ptsUs)
	}
	return nil
}

func (m *VideoEncoder) End() ([]ports.AccessUnit, error) {
	m.EndCalled = true
	if m.EndFunc != nil {
		return m.EndFunc()
	}
	units := make([]ports.AccessUnit, len(m.EncodeFrameCalls))
	for i, call := range m.EncodeFrameCalls {
		units[i] = ports.AccessUnit{
			Data:     m.FakeAccessUnit,
			PTSUs:    call.PTSUs,
			Keyframe: i == 0,
		}
	}
	return units, nil
}

var _ ports.VideoEncoder = (*VideoEncoder)(nil)

// ContainerWriter is a mock implementation of ports.ContainerWriter.
type ContainerWriter struct {
	MuxFunc func(format ports.StreamFormat, units []ports.AccessUnit) ([]byte, error)

	MuxCalled bool
	Format    ports.StreamFormat
	Units     []ports.AccessUnit
}

func (m *ContainerWriter) Mux(format ports.StreamFormat, units []ports.AccessUnit) ([]byte, error) {
	m.MuxCalled = true
	m.Format = format
	m.Units = units
	if m.MuxFunc != nil {
		return m.MuxFunc(format, units)
	}
	// ftyp header only
	return []byte{0, 0, 0, 8, 'f', 't', 'y', 'p'}, nil
}

var _ ports.ContainerWriter = (*ContainerWriter)(nil)

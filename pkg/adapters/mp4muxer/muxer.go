// Package mp4muxer writes H.264/HEVC access units into an MP4 file using mp4ff.
package mp4muxer

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/yuvenc/pkg/adapters/annexb"
	"github.com/user/yuvenc/pkg/ports"
)

// DefaultTimescale is used when the stream format does not set one.
const DefaultTimescale = 90000

var (
	// ErrNoAccessUnits is returned when there is nothing to mux.
	ErrNoAccessUnits = errors.New("mp4muxer: no access units")

	// ErrMissingParameterSets is returned when SPS/PPS (or VPS) are absent.
	ErrMissingParameterSets = errors.New("mp4muxer: missing parameter sets")

	// ErrUnsupportedCodec is returned for codecs without an MP4 sample entry.
	ErrUnsupportedCodec = errors.New("mp4muxer: unsupported codec")
)

// Muxer implements ports.ContainerWriter.
type Muxer struct{}

// New creates a new Muxer.
func New() *Muxer {
	return &Muxer{}
}

// Mux builds ftyp + moov + one fragment (moof + mdat) holding all units.
func (m *Muxer) Mux(format ports.StreamFormat, units []ports.AccessUnit) ([]byte, error) {
	if len(units) == 0 {
		return nil, ErrNoAccessUnits
	}
	if format.Width <= 0 || format.Height <= 0 || format.Width > math.MaxUint16 || format.Height > math.MaxUint16 {
		return nil, fmt.Errorf("mp4muxer: invalid dimensions %dx%d", format.Width, format.Height)
	}

	timescale := format.Timescale
	if timescale == 0 {
		timescale = DefaultTimescale
	}
	trackID := uint32(1)

	init := mp4.CreateEmptyInit()
	init.AddEmptyTrack(timescale, "video", "und")
	trak := init.Moov.Trak

	width := uint16(format.Width)
	height := uint16(format.Height)

	var brand string
	switch format.Codec {
	case ports.CodecH264:
		if len(format.SPS) == 0 || len(format.PPS) == 0 {
			return nil, fmt.Errorf("%w: h264 needs SPS and PPS", ErrMissingParameterSets)
		}
		avcC, err := mp4.CreateAvcC(format.SPS, format.PPS, true)
		if err != nil {
			return nil, fmt.Errorf("create avcC: %w", err)
		}
		trak.Mdia.Minf.Stbl.Stsd.AddChild(mp4.CreateVisualSampleEntryBox("avc1", width, height, avcC))
		brand = "avc1"
	case ports.CodecHEVC:
		if len(format.VPS) == 0 || len(format.SPS) == 0 || len(format.PPS) == 0 {
			return nil, fmt.Errorf("%w: hevc needs VPS, SPS and PPS", ErrMissingParameterSets)
		}
		hvcC, err := mp4.CreateHvcC(format.VPS, format.SPS, format.PPS, true, true, true, true)
		if err != nil {
			return nil, fmt.Errorf("create hvcC: %w", err)
		}
		trak.Mdia.Minf.Stbl.Stsd.AddChild(mp4.CreateVisualSampleEntryBox("hvc1", width, height, hvcC))
		brand = "hvc1"
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCodec, format.Codec)
	}

	trak.Tkhd.Width = mp4.Fixed32(format.Width << 16)
	trak.Tkhd.Height = mp4.Fixed32(format.Height << 16)

	frag, err := mp4.CreateFragment(1, trackID)
	if err != nil {
		return nil, fmt.Errorf("create fragment: %w", err)
	}

	defaultDur := frameDuration(timescale, format.FPS)
	basePTS := units[0].PTSUs

	for i, au := range units {
		dur := defaultDur
		if i < len(units)-1 {
			if d := toTimescale(units[i+1].PTSUs-au.PTSUs, timescale); d > 0 {
				dur = uint32(d)
			}
		}

		flags := mp4.NonSyncSampleFlags
		if au.Keyframe {
			flags = mp4.SyncSampleFlags
		}

		sample := annexb.ToLengthPrefixed(format.Codec, au.Data)
		frag.AddFullSample(mp4.FullSample{
			Sample: mp4.Sample{
				Flags: flags,
				Size:  uint32(len(sample)),
				Dur:   dur,
			},
			DecodeTime: uint64(toTimescale(au.PTSUs-basePTS, timescale)),
			Data:       sample,
		})
	}

	var buf bytes.Buffer

	ftyp := mp4.NewFtyp("isom", 0x200, []string{"isom", "iso2", brand, "mp41"})
	if err := ftyp.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode ftyp: %w", err)
	}

	if err := init.Moov.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode moov: %w", err)
	}

	if err := frag.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode fragment: %w", err)
	}

	return buf.Bytes(), nil
}

// frameDuration is one frame in timescale units, falling back to 30 fps.
func frameDuration(timescale uint32, fps float64) uint32 {
	if fps <= 0 {
		fps = 30
	}
	d := uint32(math.Round(float64(timescale) / fps))
	if d == 0 {
		d = 1
	}
	return d
}

func toTimescale(us int64, timescale uint32) int64 {
	if us < 0 {
		return 0
	}
	return us * int64(timescale) / 1000000
}

// Ensure Muxer implements ports.ContainerWriter
var _ ports.ContainerWriter = (*Muxer)(nil)

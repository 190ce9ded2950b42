// Package codecdetect inspects MP4 files: video codec, dimensions and
// sample count.
package codecdetect

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/Eyevinn/mp4ff/mp4"
)

// Codec represents a video codec type.
type Codec string

const (
	CodecH264    Codec = "h264"
	CodecHEVC    Codec = "hevc"
	CodecAV1     Codec = "av1"
	CodecUnknown Codec = "unknown"
)

// Info describes the first video track of an MP4 file.
type Info struct {
	Codec       Codec
	SampleEntry string // avc1, hvc1, ...
	Width       int
	Height      int
	Timescale   uint32
	SampleCount int
	Fragmented  bool
}

// DetectFromBytes detects the video codec from MP4 data bytes.
func DetectFromBytes(data []byte) (Codec, error) {
	info, err := Probe(bytes.NewReader(data))
	return info.Codec, err
}

// ProbeFile probes an MP4 file on disk.
func ProbeFile(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{Codec: CodecUnknown}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return Probe(f)
}

// Probe decodes an MP4 from reader and describes its first video track.
// The reader is rewound afterwards.
func Probe(reader io.ReadSeeker) (Info, error) {
	info := Info{Codec: CodecUnknown}

	mp4File, err := mp4.DecodeFile(reader)
	if err != nil {
		return info, fmt.Errorf("decode mp4: %w", err)
	}

	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return info, fmt.Errorf("seek: %w", err)
	}

	var moov *mp4.MoovBox
	switch {
	case mp4File.IsFragmented() && mp4File.Init != nil:
		moov = mp4File.Init.Moov
		info.Fragmented = true
	case mp4File.Moov != nil:
		moov = mp4File.Moov
	}
	if moov == nil {
		return info, fmt.Errorf("no moov box found")
	}

	for _, trak := range moov.Traks {
		if !describeTrack(trak, &info) {
			continue
		}
		if info.Fragmented {
			info.SampleCount = countFragmentSamples(mp4File, trak.Tkhd.TrackID)
		} else if stsz := trak.Mdia.Minf.Stbl.Stsz; stsz != nil {
			info.SampleCount = int(stsz.SampleNumber)
		}
		return info, nil
	}

	return info, fmt.Errorf("no video track found")
}

// describeTrack fills info from a video track and reports whether trak was one.
func describeTrack(trak *mp4.TrakBox, info *Info) bool {
	if trak.Mdia == nil || trak.Mdia.Hdlr == nil || trak.Mdia.Hdlr.HandlerType != "vide" {
		return false
	}
	if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil || trak.Mdia.Minf.Stbl.Stsd == nil {
		return false
	}
	if trak.Mdia.Mdhd != nil {
		info.Timescale = trak.Mdia.Mdhd.Timescale
	}

	for _, child := range trak.Mdia.Minf.Stbl.Stsd.Children {
		info.SampleEntry = child.Type()
		switch child.Type() {
		case "avc1", "avc3":
			info.Codec = CodecH264
		case "hvc1", "hev1":
			info.Codec = CodecHEVC
		case "av01":
			info.Codec = CodecAV1
		default:
			continue
		}
		if vse, ok := child.(*mp4.VisualSampleEntryBox); ok {
			info.Width = int(vse.Width)
			info.Height = int(vse.Height)
		}
		return true
	}
	return false
}

func countFragmentSamples(f *mp4.File, trackID uint32) int {
	n := 0
	for _, seg := range f.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil {
				continue
			}
			for _, traf := range frag.Moof.Trafs {
				if traf.Tfhd == nil || traf.Tfhd.TrackID != trackID {
					continue
				}
				for _, trun := range traf.Truns {
					n += int(trun.SampleCount())
				}
			}
		}
	}
	return n
}

// Package annexb splits H.264/HEVC Annex B byte streams into NAL units and
// access units, and converts access units to length-prefixed MP4 samples.
package annexb

import (
	"encoding/binary"

	"github.com/Eyevinn/mp4ff/avc"
	"github.com/Eyevinn/mp4ff/hevc"

	"github.com/user/yuvenc/pkg/ports"
)

var startCode = []byte{0, 0, 0, 1}

// Split parses an Annex B byte stream into individual NAL units.
// Both 3- and 4-byte start codes are accepted. Returned slices alias data.
func Split(data []byte) [][]byte {
	var nalus [][]byte
	start := -1
	i := 0

	for i+2 < len(data) {
		if data[i] == 0 && data[i+1] == 0 {
			startCodeLen := 0
			if data[i+2] == 1 {
				startCodeLen = 3
			} else if i+3 < len(data) && data[i+2] == 0 && data[i+3] == 1 {
				startCodeLen = 4
			}

			if startCodeLen > 0 {
				if start >= 0 && i > start {
					nalus = append(nalus, trimTrailingZeros(data[start:i]))
				}
				i += startCodeLen
				start = i
				continue
			}
		}
		i++
	}

	if start >= 0 && start < len(data) {
		nalus = append(nalus, data[start:])
	}

	return nalus
}

// trimTrailingZeros drops trailing_zero_8bits between NAL units.
func trimTrailingZeros(nalu []byte) []byte {
	end := len(nalu)
	for end > 0 && nalu[end-1] == 0 {
		end--
	}
	return nalu[:end]
}

// Join writes NAL units back into a byte stream with 4-byte start codes.
func Join(nalus [][]byte) []byte {
	size := 0
	for _, n := range nalus {
		size += len(startCode) + len(n)
	}
	out := make([]byte, 0, size)
	for _, n := range nalus {
		out = append(out, startCode...)
		out = append(out, n...)
	}
	return out
}

// AccessUnits groups the NAL units of a byte stream into access units.
// Parameter sets, AUDs and prefix SEI attach to the picture that follows them.
func AccessUnits(codec ports.Codec, data []byte) [][]byte {
	var units [][]byte
	var current [][]byte
	hasPicture := false

	flush := func() {
		if hasPicture {
			units = append(units, Join(current))
		}
		current = nil
		hasPicture = false
	}

	for _, nalu := range Split(data) {
		if len(nalu) == 0 {
			continue
		}
		switch {
		case isVCL(codec, nalu):
			if hasPicture && isFirstSlice(codec, nalu) {
				flush()
			}
			current = append(current, nalu)
			hasPicture = true
		case startsAccessUnit(codec, nalu):
			if hasPicture {
				flush()
			}
			current = append(current, nalu)
		default:
			current = append(current, nalu)
		}
	}
	flush()

	return units
}

// IsKeyframe reports whether an access unit holds an IDR (H.264) or
// IRAP (HEVC) picture.
func IsKeyframe(codec ports.Codec, au []byte) bool {
	for _, nalu := range Split(au) {
		if len(nalu) == 0 {
			continue
		}
		switch codec {
		case ports.CodecH264:
			if avc.GetNaluType(nalu[0]) == avc.NALU_IDR {
				return true
			}
		case ports.CodecHEVC:
			t := hevc.GetNaluType(nalu[0])
			if t >= 16 && t <= 23 {
				return true
			}
		}
	}
	return false
}

// ParameterSets collects the first distinct VPS, SPS and PPS NAL units
// found in data. vps is always empty for H.264.
func ParameterSets(codec ports.Codec, data []byte) (vps, sps, pps [][]byte) {
	for _, nalu := range Split(data) {
		if len(nalu) == 0 {
			continue
		}
		switch codec {
		case ports.CodecH264:
			switch avc.GetNaluType(nalu[0]) {
			case avc.NALU_SPS:
				sps = appendUnique(sps, nalu)
			case avc.NALU_PPS:
				pps = appendUnique(pps, nalu)
			}
		case ports.CodecHEVC:
			switch hevc.GetNaluType(nalu[0]) {
			case hevc.NALU_VPS:
				vps = appendUnique(vps, nalu)
			case hevc.NALU_SPS:
				sps = appendUnique(sps, nalu)
			case hevc.NALU_PPS:
				pps = appendUnique(pps, nalu)
			}
		}
	}
	return vps, sps, pps
}

// ToLengthPrefixed converts an Annex B access unit to an MP4 sample with
// 4-byte big-endian NAL lengths. Parameter sets and AUDs are dropped; the
// sample entry carries them.
func ToLengthPrefixed(codec ports.Codec, au []byte) []byte {
	nalus := Split(au)
	if len(nalus) == 0 {
		return nil
	}

	size := 0
	for _, nalu := range nalus {
		size += 4 + len(nalu)
	}
	out := make([]byte, 0, size)

	var length [4]byte
	for _, nalu := range nalus {
		if len(nalu) == 0 || isOutOfBand(codec, nalu) {
			continue
		}
		binary.BigEndian.PutUint32(length[:], uint32(len(nalu)))
		out = append(out, length[:]...)
		out = append(out, nalu...)
	}

	return out
}

func isVCL(codec ports.Codec, nalu []byte) bool {
	switch codec {
	case ports.CodecH264:
		t := avc.GetNaluType(nalu[0])
		return t >= 1 && t <= 5
	case ports.CodecHEVC:
		return hevc.GetNaluType(nalu[0]) < 32
	}
	return false
}

// isFirstSlice reads first_mb_in_slice == 0 (H.264, ue(v) "1") or
// first_slice_segment_in_pic_flag (HEVC).
func isFirstSlice(codec ports.Codec, nalu []byte) bool {
	switch codec {
	case ports.CodecH264:
		return len(nalu) > 1 && nalu[1]&0x80 != 0
	case ports.CodecHEVC:
		return len(nalu) > 2 && nalu[2]&0x80 != 0
	}
	return true
}

func startsAccessUnit(codec ports.Codec, nalu []byte) bool {
	switch codec {
	case ports.CodecH264:
		switch avc.GetNaluType(nalu[0]) {
		case avc.NALU_SPS, avc.NALU_PPS, avc.NALU_AUD, avc.NALU_SEI:
			return true
		}
	case ports.CodecHEVC:
		switch hevc.GetNaluType(nalu[0]) {
		case hevc.NALU_VPS, hevc.NALU_SPS, hevc.NALU_PPS, hevc.NALU_AUD, hevc.NALU_SEI_PREFIX:
			return true
		}
	}
	return false
}

func isOutOfBand(codec ports.Codec, nalu []byte) bool {
	switch codec {
	case ports.CodecH264:
		switch avc.GetNaluType(nalu[0]) {
		case avc.NALU_SPS, avc.NALU_PPS, avc.NALU_AUD:
			return true
		}
	case ports.CodecHEVC:
		switch hevc.GetNaluType(nalu[0]) {
		case hevc.NALU_VPS, hevc.NALU_SPS, hevc.NALU_PPS, hevc.NALU_AUD:
			return true
		}
	}
	return false
}

func appendUnique(list [][]byte, nalu []byte) [][]byte {
	for _, existing := range list {
		if string(existing) == string(nalu) {
			return list
		}
	}
	c := make([]byte, len(nalu))
	copy(c, nalu)
	return append(list, c)
}

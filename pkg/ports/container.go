package ports

// StreamFormat describes an encoded stream once the encoder has produced
// its parameter sets. A container writer needs it before any sample.
type StreamFormat struct {
	Codec     Codec
	Width     int
	Height    int
	FPS       float64
	Timescale uint32

	// Parameter set NAL units without start codes.
	VPS [][]byte // HEVC only
	SPS [][]byte
	PPS [][]byte
}

// ContainerWriter muxes access units into a container file.
type ContainerWriter interface {
	// Mux builds a complete container from the stream format and units.
	Mux(format StreamFormat, units []AccessUnit) ([]byte, error)
}

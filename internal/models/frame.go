package models

import "time"

// Frame is a captured RGBA frame. Data is shared by reference once
// submitted and must not be modified afterwards.
type Frame struct {
	Data      []byte
	Width     int
	Height    int
	Timestamp time.Time
	// Seq is assigned by the analyzer when the frame is accepted.
	Seq uint64
}

// ProcessedFrame pairs a raw frame with its edge-annotated output.
type ProcessedFrame struct {
	Seq       uint64
	Raw       []byte
	Processed []byte
	Width     int
	Height    int
	Timestamp time.Time
	Latency   time.Duration
}

// DisplayMode selects which buffer of a ProcessedFrame a viewer shows.
type DisplayMode string

const (
	DisplayEdges DisplayMode = "edges"
	DisplayRaw   DisplayMode = "raw"
)

func ParseDisplayMode(s string) (DisplayMode, bool) {
	switch DisplayMode(s) {
	case DisplayEdges, "":
		return DisplayEdges, true
	case DisplayRaw:
		return DisplayRaw, true
	default:
		return "", false
	}
}

// Pixels returns the buffer for mode.
func (f *ProcessedFrame) Pixels(mode DisplayMode) []byte {
	if mode == DisplayRaw {
		return f.Raw
	}
	return f.Processed
}

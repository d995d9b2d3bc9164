package analyzer

import (
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

// fpsWindow is the number of recent frame intervals used for the rolling rate.
const fpsWindow = 30

// Stats is a point-in-time view of analyzer activity.
type Stats struct {
	SessionID string `json:"sessionId"`

	Processed uint64 `json:"processed"`
	Errors    uint64 `json:"errors"`
	Dropped   uint64 `json:"dropped"`

	// FPS is the rolling rate over the last fpsWindow frames; InstantFPS
	// uses only the most recent interval.
	FPS        float64 `json:"fps"`
	InstantFPS float64 `json:"instantFps"`
	// JitterMs is the standard deviation of recent frame intervals.
	JitterMs float64 `json:"jitterMs"`

	MeanLatencyMs float64   `json:"meanLatencyMs"`
	LastFrameAt   time.Time `json:"lastFrameAt"`
	Width         int       `json:"width"`
	Height        int       `json:"height"`
}

type statsTracker struct {
	mu sync.Mutex

	processed uint64
	errors    uint64

	lastTimestamp time.Time
	intervals     []float64
	latencies     []float64

	width  int
	height int
}

func newStatsTracker() *statsTracker {
	return &statsTracker{
		intervals: make([]float64, 0, fpsWindow),
		latencies: make([]float64, 0, fpsWindow),
	}
}

func pushWindow(window []float64, v float64) []float64 {
	if len(window) == fpsWindow {
		copy(window, window[1:])
		window = window[:fpsWindow-1]
	}
	return append(window, v)
}

func (st *statsTracker) recordFrame(captured time.Time, latency time.Duration, width, height int) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.processed++
	st.width = width
	st.height = height

	if !st.lastTimestamp.IsZero() {
		if delta := captured.Sub(st.lastTimestamp); delta > 0 {
			st.intervals = pushWindow(st.intervals, delta.Seconds())
		}
	}
	st.lastTimestamp = captured
	st.latencies = pushWindow(st.latencies, float64(latency)/float64(time.Millisecond))
}

func (st *statsTracker) recordError() {
	st.mu.Lock()
	st.errors++
	st.mu.Unlock()
}

func (st *statsTracker) snapshot() Stats {
	st.mu.Lock()
	defer st.mu.Unlock()

	s := Stats{
		Processed:   st.processed,
		Errors:      st.errors,
		LastFrameAt: st.lastTimestamp,
		Width:       st.width,
		Height:      st.height,
	}

	if n := len(st.intervals); n > 0 {
		if mean := stat.Mean(st.intervals, nil); mean > 0 {
			s.FPS = 1 / mean
		}
		if last := st.intervals[n-1]; last > 0 {
			s.InstantFPS = 1 / last
		}
		if n > 1 {
			s.JitterMs = stat.StdDev(st.intervals, nil) * 1000
		}
	}

	if len(st.latencies) > 0 {
		s.MeanLatencyMs = stat.Mean(st.latencies, nil)
	}

	return s
}

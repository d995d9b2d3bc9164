// Package timing keeps rolling per-operation durations.
package timing

import (
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

// DefaultWindow is the number of samples kept per operation.
const DefaultWindow = 64

type Summary struct {
	Count  int     `json:"count"`
	MeanMs float64 `json:"meanMs"`
	MaxMs  float64 `json:"maxMs"`
}

type Tracker struct {
	mu      sync.RWMutex
	window  int
	timings map[string][]float64
	enabled bool
}

func NewTracker(window int) *Tracker {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Tracker{
		window:  window,
		timings: make(map[string][]float64),
		enabled: true,
	}
}

// Start returns a func that records the elapsed time for operation when called.
func (tt *Tracker) Start(operation string) func() {
	start := time.Now()
	return func() {
		tt.Record(operation, time.Since(start))
	}
}

func (tt *Tracker) Record(operation string, d time.Duration) {
	tt.mu.Lock()
	defer tt.mu.Unlock()

	if !tt.enabled {
		return
	}

	samples := tt.timings[operation]
	if len(samples) == tt.window {
		copy(samples, samples[1:])
		samples = samples[:tt.window-1]
	}
	tt.timings[operation] = append(samples, float64(d)/float64(time.Millisecond))
}

func (tt *Tracker) Average(operation string) time.Duration {
	tt.mu.RLock()
	defer tt.mu.RUnlock()

	samples := tt.timings[operation]
	if len(samples) == 0 {
		return 0
	}
	return time.Duration(stat.Mean(samples, nil) * float64(time.Millisecond))
}

// Summaries reports every operation seen so far.
func (tt *Tracker) Summaries() map[string]Summary {
	tt.mu.RLock()
	defer tt.mu.RUnlock()

	result := make(map[string]Summary, len(tt.timings))
	for operation, samples := range tt.timings {
		if len(samples) == 0 {
			continue
		}
		maxMs := samples[0]
		for _, s := range samples[1:] {
			if s > maxMs {
				maxMs = s
			}
		}
		result[operation] = Summary{
			Count:  len(samples),
			MeanMs: stat.Mean(samples, nil),
			MaxMs:  maxMs,
		}
	}
	return result
}

func (tt *Tracker) SetEnabled(enabled bool) {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	tt.enabled = enabled
}

// Reset drops samples for operation, or for everything when operation is empty.
func (tt *Tracker) Reset(operation string) {
	tt.mu.Lock()
	defer tt.mu.Unlock()

	if operation == "" {
		tt.timings = make(map[string][]float64)
	} else {
		delete(tt.timings, operation)
	}
}

// Package edgeconfig holds the tunable edge-detection parameters behind a
// lock. Writes clamp every field into range, reads hand out copies.
package edgeconfig

import (
	"math"
	"sync"
)

const (
	DefaultLowThreshold      = 60.0
	DefaultHighThreshold     = 180.0
	DefaultBlurKernel        = 5
	DefaultEqualizeHistogram = true

	MaxBlurKernel = 15
)

// EdgeConfig is a sanitized parameter set. Values obtained from a Store
// always satisfy LowThreshold >= 0, HighThreshold >= LowThreshold and an odd
// BlurKernel in [1, MaxBlurKernel].
type EdgeConfig struct {
	LowThreshold      float64 `json:"lowThreshold"`
	HighThreshold     float64 `json:"highThreshold"`
	BlurKernel        int     `json:"blurKernel"`
	EqualizeHistogram bool    `json:"equalizeHistogram"`
}

// Params is the raw, unclamped input shape accepted from callers.
type Params struct {
	Low               float64 `json:"low"`
	High              float64 `json:"high"`
	BlurRadius        int     `json:"blurRadius"`
	EqualizeHistogram bool    `json:"equalizeHistogram"`
}

func Defaults() EdgeConfig {
	return EdgeConfig{
		LowThreshold:      DefaultLowThreshold,
		HighThreshold:     DefaultHighThreshold,
		BlurKernel:        DefaultBlurKernel,
		EqualizeHistogram: DefaultEqualizeHistogram,
	}
}

// Params converts c back into the input shape, for round-tripping through
// JSON or partial updates.
func (c EdgeConfig) Params() Params {
	return Params{
		Low:               c.LowThreshold,
		High:              c.HighThreshold,
		BlurRadius:        c.BlurKernel,
		EqualizeHistogram: c.EqualizeHistogram,
	}
}

// SanitizeKernel maps any integer onto an odd kernel size in [1, 15].
// Values <= 1 collapse to 1, which disables blurring.
func SanitizeKernel(k int) int {
	if k <= 1 {
		return 1
	}
	if k%2 == 0 {
		k++
	}
	if k > MaxBlurKernel {
		k = MaxBlurKernel
	}
	return k
}

// Sanitize clamps raw parameters the same way Store.Update does.
func Sanitize(low, high float64, blurRadius int, equalize bool) EdgeConfig {
	if math.IsNaN(low) || low < 0 {
		low = 0
	}
	if math.IsNaN(high) || high < low {
		high = low
	}
	return EdgeConfig{
		LowThreshold:      low,
		HighThreshold:     high,
		BlurKernel:        SanitizeKernel(blurRadius),
		EqualizeHistogram: equalize,
	}
}

// Store owns one EdgeConfig. It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	config EdgeConfig
}

func NewDefaultStore() *Store {
	return NewStore(Defaults())
}

// NewStore seeds a store; the seed goes through the same clamping as Update.
func NewStore(initial EdgeConfig) *Store {
	return &Store{
		config: Sanitize(initial.LowThreshold, initial.HighThreshold, initial.BlurKernel, initial.EqualizeHistogram),
	}
}

// Update replaces the whole configuration atomically and returns the stored value.
func (s *Store) Update(low, high float64, blurRadius int, equalize bool) EdgeConfig {
	sanitized := Sanitize(low, high, blurRadius, equalize)

	s.mu.Lock()
	s.config = sanitized
	s.mu.Unlock()

	return sanitized
}

func (s *Store) Apply(p Params) EdgeConfig {
	return s.Update(p.Low, p.High, p.BlurRadius, p.EqualizeHistogram)
}

// Snapshot returns a copy of the current configuration.
func (s *Store) Snapshot() EdgeConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

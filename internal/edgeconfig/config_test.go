package edgeconfig

import (
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	got := NewDefaultStore().Snapshot()
	want := EdgeConfig{LowThreshold: 60, HighThreshold: 180, BlurKernel: 5, EqualizeHistogram: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("default config mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateScenarios(t *testing.T) {
	tests := []struct {
		name     string
		low      float64
		high     float64
		blur     int
		equalize bool
		want     EdgeConfig
	}{
		{
			name: "negative low, even kernel",
			low:  -5, high: 300, blur: 4, equalize: true,
			want: EdgeConfig{LowThreshold: 0, HighThreshold: 300, BlurKernel: 5, EqualizeHistogram: true},
		},
		{
			name: "high below low, oversized kernel",
			low:  100, high: 50, blur: 20, equalize: false,
			want: EdgeConfig{LowThreshold: 100, HighThreshold: 100, BlurKernel: 15, EqualizeHistogram: false},
		},
		{
			name: "high compared against clamped low",
			low:  -10, high: -3, blur: 1, equalize: true,
			want: EdgeConfig{LowThreshold: 0, HighThreshold: 0, BlurKernel: 1, EqualizeHistogram: true},
		},
		{
			name: "already valid",
			low:  10, high: 20, blur: 7, equalize: false,
			want: EdgeConfig{LowThreshold: 10, HighThreshold: 20, BlurKernel: 7, EqualizeHistogram: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewDefaultStore()
			returned := store.Update(tt.low, tt.high, tt.blur, tt.equalize)

			assert.Equal(t, tt.want, returned)
			assert.Equal(t, tt.want, store.Snapshot())
		})
	}
}

func TestSanitizeKernel(t *testing.T) {
	for k := -20; k <= 40; k++ {
		got := SanitizeKernel(k)

		assert.Equal(t, 1, got%2, "kernel %d -> %d must be odd", k, got)
		assert.GreaterOrEqual(t, got, 1)
		assert.LessOrEqual(t, got, MaxBlurKernel)

		switch {
		case k <= 1:
			assert.Equal(t, 1, got, "k=%d", k)
		case k%2 == 0:
			assert.Equal(t, min(k+1, MaxBlurKernel), got, "k=%d", k)
		default:
			assert.Equal(t, min(k, MaxBlurKernel), got, "k=%d", k)
		}
	}
}

func TestUpdateClampsThresholds(t *testing.T) {
	store := NewDefaultStore()
	values := []float64{-1000, -1, -0.5, 0, 0.5, 1, 50, 255, 1000}

	for _, low := range values {
		for _, high := range values {
			cfg := store.Update(low, high, 3, true)

			require.GreaterOrEqual(t, cfg.LowThreshold, 0.0)
			require.GreaterOrEqual(t, cfg.HighThreshold, cfg.LowThreshold)
			if low < 0 {
				assert.Zero(t, cfg.LowThreshold)
			}
			if high < cfg.LowThreshold {
				assert.Equal(t, cfg.LowThreshold, cfg.HighThreshold)
			}
		}
	}
}

func TestUpdateIsIdempotent(t *testing.T) {
	store := NewDefaultStore()

	first := store.Update(42, 84, 9, false)
	second := store.Update(42, 84, 9, false)

	assert.Equal(t, first, second)
	assert.Equal(t, second, store.Snapshot())
}

func TestUpdateNonFinite(t *testing.T) {
	store := NewDefaultStore()

	cfg := store.Update(math.NaN(), math.NaN(), 3, true)
	assert.Zero(t, cfg.LowThreshold)
	assert.Zero(t, cfg.HighThreshold)

	cfg = store.Update(10, math.Inf(1), 3, true)
	assert.True(t, math.IsInf(cfg.HighThreshold, 1))
}

func TestNewStoreSanitizesSeed(t *testing.T) {
	store := NewStore(EdgeConfig{LowThreshold: -1, HighThreshold: -2, BlurKernel: 8})
	assert.Equal(t, EdgeConfig{LowThreshold: 0, HighThreshold: 0, BlurKernel: 9}, store.Snapshot())
}

func TestApplyParams(t *testing.T) {
	store := NewDefaultStore()
	cfg := store.Apply(Params{Low: -5, High: 300, BlurRadius: 4, EqualizeHistogram: true})
	assert.Equal(t, EdgeConfig{LowThreshold: 0, HighThreshold: 300, BlurKernel: 5, EqualizeHistogram: true}, cfg)
}

func TestConcurrentUpdatesAndSnapshots(t *testing.T) {
	store := NewDefaultStore()

	const writers = 16
	const readers = 16
	const iterations = 500

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				// Every written set keeps a recognisable relation between its
				// fields, so a torn read would break it.
				v := float64(w*iterations + i)
				store.Update(v, v+1, 2*(i%8)+1, i%2 == 0)
			}
		}(w)
	}

	errs := make(chan string, readers)
	for r := 0; r < readers; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				cfg := store.Snapshot()
				if cfg == Defaults() {
					continue
				}
				if cfg.HighThreshold != cfg.LowThreshold+1 {
					errs <- "torn threshold pair"
					return
				}
				if cfg.BlurKernel%2 != 1 || cfg.BlurKernel > MaxBlurKernel {
					errs <- "invalid kernel"
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for msg := range errs {
		t.Error(msg)
	}

	final := store.Update(7, 3, 12, false)
	assert.Equal(t, EdgeConfig{LowThreshold: 7, HighThreshold: 7, BlurKernel: 13}, final)
	assert.Equal(t, final, store.Snapshot())
}

func TestParamsRoundTrip(t *testing.T) {
	s := NewDefaultStore()
	got := s.Apply(s.Snapshot().Params())
	assert.Equal(t, Defaults(), got)
}

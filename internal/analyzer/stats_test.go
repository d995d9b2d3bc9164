package analyzer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatsRollingFPS(t *testing.T) {
	st := newStatsTracker()
	base := time.Unix(0, 0)

	for i := 0; i < 10; i++ {
		st.recordFrame(base.Add(time.Duration(i)*100*time.Millisecond), 2*time.Millisecond, 640, 480)
	}

	s := st.snapshot()
	assert.Equal(t, uint64(10), s.Processed)
	assert.InDelta(t, 10.0, s.FPS, 1e-6)
	assert.InDelta(t, 10.0, s.InstantFPS, 1e-6)
	assert.InDelta(t, 0.0, s.JitterMs, 1e-6)
	assert.InDelta(t, 2.0, s.MeanLatencyMs, 1e-6)
	assert.Equal(t, 640, s.Width)
	assert.Equal(t, 480, s.Height)
}

func TestStatsJitter(t *testing.T) {
	st := newStatsTracker()
	ts := time.Unix(0, 0)

	st.recordFrame(ts, 0, 1, 1)
	for _, d := range []time.Duration{50, 150, 50, 150} {
		ts = ts.Add(d * time.Millisecond)
		st.recordFrame(ts, 0, 1, 1)
	}

	s := st.snapshot()
	assert.InDelta(t, 10.0, s.FPS, 1e-6)
	assert.InDelta(t, 1000.0/150.0, s.InstantFPS, 1e-6)
	assert.Greater(t, s.JitterMs, 50.0)
}

func TestStatsWindowIsBounded(t *testing.T) {
	st := newStatsTracker()
	ts := time.Unix(0, 0)

	for i := 0; i < 3*fpsWindow; i++ {
		ts = ts.Add(10 * time.Millisecond)
		st.recordFrame(ts, 0, 1, 1)
	}

	assert.Len(t, st.intervals, fpsWindow)
	assert.Len(t, st.latencies, fpsWindow)
}

func TestStatsEmpty(t *testing.T) {
	s := newStatsTracker().snapshot()
	assert.Zero(t, s.FPS)
	assert.Zero(t, s.JitterMs)
	assert.True(t, s.LastFrameAt.IsZero())
}

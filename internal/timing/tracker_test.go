package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerSummaries(t *testing.T) {
	tt := NewTracker(4)

	for _, ms := range []int{1, 2, 3, 4, 10} {
		tt.Record("canny", time.Duration(ms)*time.Millisecond)
	}
	tt.Record("blur", 2*time.Millisecond)

	got := tt.Summaries()
	require.Len(t, got, 2)

	// The window keeps the last four samples: 2, 3, 4, 10.
	assert.Equal(t, 4, got["canny"].Count)
	assert.InDelta(t, 4.75, got["canny"].MeanMs, 1e-9)
	assert.InDelta(t, 10.0, got["canny"].MaxMs, 1e-9)
	assert.Equal(t, 4750*time.Microsecond, tt.Average("canny"))

	assert.Equal(t, 1, got["blur"].Count)
}

func TestTrackerStartRecords(t *testing.T) {
	tt := NewTracker(0)

	done := tt.Start("step")
	time.Sleep(2 * time.Millisecond)
	done()

	assert.GreaterOrEqual(t, tt.Average("step"), 2*time.Millisecond)
}

func TestTrackerDisabledAndReset(t *testing.T) {
	tt := NewTracker(8)
	tt.Record("a", time.Millisecond)
	tt.Record("b", time.Millisecond)

	tt.Reset("a")
	assert.Zero(t, tt.Average("a"))
	assert.NotZero(t, tt.Average("b"))

	tt.Reset("")
	assert.Empty(t, tt.Summaries())

	tt.SetEnabled(false)
	tt.Record("a", time.Millisecond)
	assert.Empty(t, tt.Summaries())
}

package analyzer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edgeviewer/internal/models"
)

// fakeProcessor inverts every byte, fails on width 0 and panics on width -1.
type fakeProcessor struct {
	mu    sync.Mutex
	calls int
	gate  chan struct{}
}

func (f *fakeProcessor) ProcessRGBA(ctx context.Context, rgba []byte, width, height int) ([]byte, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.gate != nil {
		<-f.gate
	}

	switch width {
	case 0:
		return nil, errors.New("bad frame")
	case -1:
		panic("boom")
	}

	out := make([]byte, len(rgba))
	for i, b := range rgba {
		out[i] = ^b
	}
	return out, nil
}

type collector struct {
	mu     sync.Mutex
	frames []models.ProcessedFrame
	seen   chan struct{}
}

func newCollector() *collector {
	return &collector{seen: make(chan struct{}, 64)}
}

func (c *collector) handle(frame models.ProcessedFrame) {
	c.mu.Lock()
	c.frames = append(c.frames, frame)
	c.mu.Unlock()
	c.seen <- struct{}{}
}

func (c *collector) wait(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-c.seen:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for frame %d of %d", i+1, n)
		}
	}
}

func TestAnalyzerProcessesFrames(t *testing.T) {
	c := newCollector()
	latest := NewLatest()
	a := New(&fakeProcessor{}, nil, c.handle, latest.Handle)
	require.NoError(t, a.Start(context.Background()))
	defer a.Stop()

	ts := time.Unix(100, 0)
	require.True(t, a.Submit(&models.Frame{Data: []byte{0, 1, 2, 3}, Width: 1, Height: 1, Timestamp: ts}))
	c.wait(t, 1)

	c.mu.Lock()
	frame := c.frames[0]
	c.mu.Unlock()

	assert.Equal(t, []byte{0, 1, 2, 3}, frame.Raw)
	assert.Equal(t, []byte{255, 254, 253, 252}, frame.Processed)
	assert.Equal(t, 1, frame.Width)
	assert.Equal(t, ts, frame.Timestamp)
	assert.Equal(t, uint64(1), frame.Seq)

	got, ok := latest.Get()
	require.True(t, ok)
	assert.Equal(t, frame.Seq, got.Seq)

	st := a.Stats()
	assert.Equal(t, uint64(1), st.Processed)
	assert.Equal(t, a.SessionID(), st.SessionID)
	assert.NotEmpty(t, st.SessionID)
}

func TestAnalyzerSurvivesProcessorFailures(t *testing.T) {
	c := newCollector()
	a := New(&fakeProcessor{}, nil, c.handle)
	require.NoError(t, a.Start(context.Background()))
	defer a.Stop()

	a.Submit(&models.Frame{Data: []byte{1, 1, 1, 1}, Width: 0, Height: 1})
	require.Eventually(t, func() bool { return a.Stats().Errors == 1 }, 2*time.Second, 5*time.Millisecond)

	a.Submit(&models.Frame{Data: []byte{1, 1, 1, 1}, Width: -1, Height: 1})
	require.Eventually(t, func() bool { return a.Stats().Errors == 2 }, 2*time.Second, 5*time.Millisecond)

	a.Submit(&models.Frame{Data: []byte{1, 1, 1, 1}, Width: 1, Height: 1})
	c.wait(t, 1)

	st := a.Stats()
	assert.Equal(t, uint64(1), st.Processed)
	assert.Equal(t, uint64(2), st.Errors)
}

func TestAnalyzerDropsStaleFrames(t *testing.T) {
	gate := make(chan struct{})
	proc := &fakeProcessor{gate: gate}
	c := newCollector()
	a := New(proc, nil, c.handle)
	require.NoError(t, a.Start(context.Background()))
	defer a.Stop()

	a.Submit(&models.Frame{Data: []byte{0, 0, 0, 0}, Width: 1, Height: 1})
	require.Eventually(t, func() bool {
		proc.mu.Lock()
		defer proc.mu.Unlock()
		return proc.calls == 1
	}, 2*time.Second, 5*time.Millisecond)

	// The processor is busy; only the last of these survives.
	for i := 0; i < 4; i++ {
		a.Submit(&models.Frame{Data: []byte{byte(i), 0, 0, 0}, Width: 1, Height: 1})
	}
	close(gate)
	c.wait(t, 2)

	c.mu.Lock()
	last := c.frames[1]
	c.mu.Unlock()
	assert.Equal(t, byte(3), last.Raw[0])
	assert.Equal(t, uint64(3), a.Stats().Dropped)
}

func TestAnalyzerStartTwiceFails(t *testing.T) {
	a := New(&fakeProcessor{}, nil)
	require.NoError(t, a.Start(context.Background()))
	defer a.Stop()

	assert.Error(t, a.Start(context.Background()))
}

func TestAnalyzerStartAfterStopFails(t *testing.T) {
	a := New(&fakeProcessor{}, nil)
	a.Stop()

	assert.Error(t, a.Start(context.Background()))
	assert.False(t, a.Submit(&models.Frame{Width: 1, Height: 1}))

	b := New(&fakeProcessor{}, nil)
	require.NoError(t, b.Start(context.Background()))
	b.Stop()
	assert.Error(t, b.Start(context.Background()))
}

func TestAnalyzerStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	a := New(&fakeProcessor{}, nil)
	require.NoError(t, a.Start(ctx))

	cancel()
	require.Eventually(t, func() bool {
		return !a.Submit(&models.Frame{Width: 1, Height: 1})
	}, 2*time.Second, 5*time.Millisecond)

	a.Stop()
	a.Stop()
}

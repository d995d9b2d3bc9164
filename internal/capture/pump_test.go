package capture

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

type scriptedSource struct {
	mu     sync.Mutex
	reads  int
	failAt map[int]bool
	always error
}

func (s *scriptedSource) Read() (*models.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reads++
	if s.always != nil {
		return nil, s.always
	}
	if s.failAt[s.reads] {
		return nil, errors.New("glitch")
	}
	return &models.Frame{Data: []byte{0, 0, 0, 255}, Width: 1, Height: 1, Timestamp: time.Now()}, nil
}

func (s *scriptedSource) Close() error { return nil }

type countingSink struct {
	mu    sync.Mutex
	count int
	limit int
}

func (c *countingSink) Submit(*models.Frame) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
	return c.count < c.limit
}

func TestPumpStopsWhenSinkCloses(t *testing.T) {
	src := &scriptedSource{failAt: map[int]bool{2: true}}
	sink := &countingSink{limit: 3}

	err := Pump(context.Background(), src, sink, 500, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, sink.count)
	assert.Equal(t, 4, src.reads)
}

func TestPumpStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := Pump(ctx, &scriptedSource{}, &countingSink{limit: 1 << 30}, 200, nil)
	assert.NoError(t, err)
}

func TestPumpGivesUpAfterRepeatedFailures(t *testing.T) {
	src := &scriptedSource{always: errors.New("unplugged")}

	err := Pump(context.Background(), src, &countingSink{limit: 10}, 1000, nil)
	require.Error(t, err)
	assert.Equal(t, MaxConsecutiveFailures, src.reads)
}

func TestPumpReturnsOnClosedSource(t *testing.T) {
	src := &scriptedSource{always: ErrSourceClosed}

	err := Pump(context.Background(), src, &countingSink{limit: 10}, 1000, nil)
	assert.ErrorIs(t, err, ErrSourceClosed)
	assert.Equal(t, 1, src.reads)
}

func TestPumpRejectsBadRate(t *testing.T) {
	assert.Error(t, Pump(context.Background(), &scriptedSource{}, &countingSink{limit: 1}, 0, nil))
}

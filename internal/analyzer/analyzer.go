// Package analyzer runs the edge processor on a stream of frames.
//
// Frames are submitted into a single-slot mailbox, so a slow processor sees
// only the newest frame and older ones are dropped rather than queued.
// A single goroutine consumes the mailbox; failures on one frame are logged
// and counted and never stop the loop.
package analyzer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"edgeviewer/internal/logger"
	"edgeviewer/internal/models"
)

// FrameProcessor is the subset of processor.Processor the analyzer needs.
type FrameProcessor interface {
	ProcessRGBA(ctx context.Context, rgba []byte, width, height int) ([]byte, error)
}

// Handler receives every successfully processed frame on the analyzer
// goroutine. It must not block for long.
type Handler func(frame models.ProcessedFrame)

type Analyzer struct {
	processor FrameProcessor
	handlers  []Handler
	logger    logger.Logger

	inbox     *Mailbox
	stats     *statsTracker
	sessionID string

	mu      sync.Mutex
	started bool
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func New(processor FrameProcessor, log logger.Logger, handlers ...Handler) *Analyzer {
	if log == nil {
		log = logger.NewNop()
	}

	return &Analyzer{
		processor: processor,
		handlers:  handlers,
		logger:    log,
		inbox:     NewMailbox(),
		stats:     newStatsTracker(),
		sessionID: uuid.New().String(),
	}
}

// Submit hands a frame to the analyzer without blocking. The frame's Data
// must not be modified afterwards. It reports false once the analyzer has
// been stopped.
func (a *Analyzer) Submit(frame *models.Frame) bool {
	if frame.Timestamp.IsZero() {
		frame.Timestamp = time.Now()
	}
	return a.inbox.Put(frame)
}

// Start launches the processing goroutine. It stops when ctx is cancelled
// or Stop is called. A stopped analyzer cannot be started again.
func (a *Analyzer) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped {
		return fmt.Errorf("analyzer stopped")
	}
	if a.started {
		return fmt.Errorf("analyzer already started")
	}

	ctx, a.cancel = context.WithCancel(ctx)
	a.started = true

	a.wg.Add(2)
	go func() {
		defer a.wg.Done()
		<-ctx.Done()
		a.inbox.Close()
	}()
	go func() {
		defer a.wg.Done()
		a.loop(ctx)
	}()

	a.logger.Info("Analyzer", "started", map[string]interface{}{
		"session_id": a.sessionID,
	})

	return nil
}

// Stop ends processing and waits for the goroutine to exit. Safe to call
// more than once.
func (a *Analyzer) Stop() {
	a.mu.Lock()
	a.stopped = true
	if !a.started {
		a.mu.Unlock()
		a.inbox.Close()
		return
	}
	cancel := a.cancel
	a.mu.Unlock()

	cancel()
	a.wg.Wait()

	st := a.Stats()
	a.logger.Info("Analyzer", "stopped", map[string]interface{}{
		"session_id": a.sessionID,
		"processed":  st.Processed,
		"dropped":    st.Dropped,
		"errors":     st.Errors,
	})
}

// Shutdown adapts Stop to the shutdown manager's component contract.
func (a *Analyzer) Shutdown() {
	a.Stop()
}

func (a *Analyzer) SessionID() string {
	return a.sessionID
}

func (a *Analyzer) Stats() Stats {
	s := a.stats.snapshot()
	s.SessionID = a.sessionID
	s.Dropped = a.inbox.Drops()
	return s
}

func (a *Analyzer) loop(ctx context.Context) {
	for {
		frame := a.inbox.Take()
		if frame == nil {
			return
		}

		processed, err := a.process(ctx, frame)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			a.stats.recordError()
			a.logger.Error("Analyzer", err, map[string]interface{}{
				"seq":    frame.Seq,
				"width":  frame.Width,
				"height": frame.Height,
			})
			continue
		}

		a.stats.recordFrame(frame.Timestamp, processed.Latency, frame.Width, frame.Height)

		for _, handle := range a.handlers {
			handle(processed)
		}
	}
}

func (a *Analyzer) process(ctx context.Context, frame *models.Frame) (result models.ProcessedFrame, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("frame %d: processor panic: %v", frame.Seq, r)
		}
	}()

	start := time.Now()
	out, err := a.processor.ProcessRGBA(ctx, frame.Data, frame.Width, frame.Height)
	if err != nil {
		return models.ProcessedFrame{}, fmt.Errorf("frame %d: %w", frame.Seq, err)
	}

	return models.ProcessedFrame{
		Seq:       frame.Seq,
		Raw:       frame.Data,
		Processed: out,
		Width:     frame.Width,
		Height:    frame.Height,
		Timestamp: frame.Timestamp,
		Latency:   time.Since(start),
	}, nil
}

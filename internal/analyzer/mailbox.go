package analyzer

import (
	"sync"
	"sync/atomic"

	"edgeviewer/internal/models"
)

// Mailbox is a single-slot, overwrite-on-put frame buffer. Only the most
// recent frame is kept; an unconsumed frame that gets replaced counts as a
// drop. Put never blocks, Take blocks until a frame arrives or the mailbox
// is closed.
type Mailbox struct {
	mu     sync.Mutex
	cond   *sync.Cond
	frame  *models.Frame
	closed bool

	drops uint64
	seq   uint64
}

func NewMailbox() *Mailbox {
	m := &Mailbox{}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// Put stores frame, replacing any unconsumed one, and stamps its sequence
// number. It reports false if the mailbox is closed.
func (m *Mailbox) Put(frame *models.Frame) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return false
	}

	if m.frame != nil {
		atomic.AddUint64(&m.drops, 1)
	}

	m.seq++
	frame.Seq = m.seq
	m.frame = frame
	m.cond.Signal()
	return true
}

// Take returns the pending frame, waiting if there is none. It returns nil
// once the mailbox is closed.
func (m *Mailbox) Take() *models.Frame {
	m.mu.Lock()
	defer m.mu.Unlock()

	for m.frame == nil {
		if m.closed {
			return nil
		}
		m.cond.Wait()
	}

	frame := m.frame
	m.frame = nil
	return frame
}

// Close wakes any waiting Take. A pending frame is discarded.
func (m *Mailbox) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.frame = nil
	m.cond.Broadcast()
}

func (m *Mailbox) Drops() uint64 {
	return atomic.LoadUint64(&m.drops)
}

package analyzer

import (
	"sync"

	"edgeviewer/internal/models"
)

// Latest keeps the most recent processed frame for viewers.
type Latest struct {
	mu    sync.RWMutex
	frame *models.ProcessedFrame
}

func NewLatest() *Latest {
	return &Latest{}
}

// Handle stores frame; it has the Handler signature so it can be passed to New.
func (l *Latest) Handle(frame models.ProcessedFrame) {
	l.mu.Lock()
	l.frame = &frame
	l.mu.Unlock()
}

func (l *Latest) Get() (models.ProcessedFrame, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.frame == nil {
		return models.ProcessedFrame{}, false
	}
	return *l.frame, true
}

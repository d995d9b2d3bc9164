package capture

import (
	"context"
	"errors"
	"fmt"
	"time"

	"edgeviewer/internal/logger"
	"edgeviewer/internal/models"
)

// MaxConsecutiveFailures is how many reads in a row may fail before Pump
// gives up on a source.
const MaxConsecutiveFailures = 30

// Sink accepts frames; it reports false once it no longer takes any.
type Sink interface {
	Submit(frame *models.Frame) bool
}

// Pump reads from src at up to fps frames per second and submits every
// frame to sink. It returns nil when ctx is cancelled or the sink closes.
func Pump(ctx context.Context, src Source, sink Sink, fps int, log logger.Logger) error {
	if fps <= 0 {
		return fmt.Errorf("invalid frame rate: %d", fps)
	}
	if log == nil {
		log = logger.NewNop()
	}

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		frame, err := src.Read()
		if err != nil {
			if errors.Is(err, ErrSourceClosed) {
				return err
			}

			failures++
			log.Warning("Capture", "frame read failed", map[string]interface{}{
				"error":    err.Error(),
				"failures": failures,
			})
			if failures >= MaxConsecutiveFailures {
				return fmt.Errorf("capture source failed %d times in a row: %w", failures, err)
			}
			continue
		}
		failures = 0

		if !sink.Submit(frame) {
			return nil
		}
	}
}

// Package capture produces RGBA frames from cameras and still images and
// pumps them into a frame sink at a target rate.
package capture

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"edgeviewer/internal/models"
)

// ErrSourceClosed is returned by Read after Close.
var ErrSourceClosed = errors.New("capture source is closed")

// Source yields RGBA frames. Each returned frame owns its Data.
type Source interface {
	Read() (*models.Frame, error)
	Close() error
}

// Open resolves a source descriptor. "camera:N" opens device N; anything
// else is treated as a path to a still image.
func Open(descriptor string, width, height, fps int) (Source, error) {
	if id, ok := strings.CutPrefix(descriptor, "camera:"); ok {
		deviceID, err := strconv.Atoi(id)
		if err != nil {
			return nil, fmt.Errorf("invalid camera device %q: %w", id, err)
		}

		camera := NewCamera(deviceID, width, height, fps)
		if err := camera.Open(); err != nil {
			return nil, err
		}
		return camera, nil
	}

	if descriptor == "" {
		return nil, fmt.Errorf("empty capture source")
	}

	return NewStillImage(descriptor)
}

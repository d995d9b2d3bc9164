package capture

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"edgeviewer/internal/models"
	"edgeviewer/internal/opencv/conversion"
	"edgeviewer/internal/opencv/safe"
)

var stillImageFormats = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".bmp": true, ".tif": true, ".tiff": true,
}

// StillImage replays one decoded image as an endless frame stream.
type StillImage struct {
	path   string
	width  int
	height int

	mu     sync.Mutex
	rgba   []byte
	closed bool
}

func NewStillImage(path string) (*StillImage, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !stillImageFormats[ext] {
		return nil, fmt.Errorf("unsupported image format: %s", path)
	}

	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		mat.Close()
		return nil, fmt.Errorf("failed to load image: %s", path)
	}

	img, err := safe.NewMatFromMat(mat)
	if err != nil {
		mat.Close()
		return nil, err
	}
	defer img.Close()

	rgba, err := conversion.MatToRGBA(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s: %w", path, err)
	}

	return &StillImage{
		path:   path,
		width:  img.Cols(),
		height: img.Rows(),
		rgba:   rgba,
	}, nil
}

func (s *StillImage) Size() (width, height int) {
	return s.width, s.height
}

// Read returns a fresh copy of the image stamped with the current time.
func (s *StillImage) Read() (*models.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSourceClosed
	}

	data := make([]byte, len(s.rgba))
	copy(data, s.rgba)

	return &models.Frame{
		Data:      data,
		Width:     s.width,
		Height:    s.height,
		Timestamp: time.Now(),
	}, nil
}

func (s *StillImage) Close() error {
	s.mu.Lock()
	s.closed = true
	s.rgba = nil
	s.mu.Unlock()
	return nil
}

package capture

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"edgeviewer/internal/models"
	"edgeviewer/internal/opencv/conversion"
	"edgeviewer/internal/opencv/safe"
)

// Camera reads BGR frames from a video device and converts them to RGBA.
type Camera struct {
	deviceID int
	width    int
	height   int
	fps      int

	mu      sync.Mutex
	capture *gocv.VideoCapture
}

func NewCamera(deviceID, width, height, fps int) *Camera {
	return &Camera{
		deviceID: deviceID,
		width:    width,
		height:   height,
		fps:      fps,
	}
}

func (c *Camera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capture != nil {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(c.deviceID)
	if err != nil {
		return fmt.Errorf("failed to open camera %d: %w", c.deviceID, err)
	}

	if c.width > 0 && c.height > 0 {
		capture.Set(gocv.VideoCaptureFrameWidth, float64(c.width))
		capture.Set(gocv.VideoCaptureFrameHeight, float64(c.height))
	}
	if c.fps > 0 {
		capture.Set(gocv.VideoCaptureFPS, float64(c.fps))
	}

	c.capture = capture
	return nil
}

func (c *Camera) Read() (*models.Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capture == nil {
		return nil, ErrSourceClosed
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok || mat.Empty() {
		mat.Close()
		return nil, errors.New("failed to read frame from camera")
	}
	captured := time.Now()

	frame, err := safe.NewMatFromMat(mat)
	if err != nil {
		mat.Close()
		return nil, err
	}
	defer frame.Close()

	rgba, err := conversion.MatToRGBA(frame)
	if err != nil {
		return nil, err
	}

	return &models.Frame{
		Data:      rgba,
		Width:     frame.Cols(),
		Height:    frame.Rows(),
		Timestamp: captured,
	}, nil
}

func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capture == nil {
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	return err
}

package filters

import (
	"context"

	"edgeviewer/internal/edgeconfig"
	"edgeviewer/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// CannyDetector produces a binary edge mask (0 or 255) from a grayscale Mat.
type CannyDetector struct{}

func NewCannyDetector() *CannyDetector {
	return &CannyDetector{}
}

func (c *CannyDetector) Name() string {
	return "canny_detector"
}

func (c *CannyDetector) ShouldExecute(edgeconfig.EdgeConfig) bool {
	return true
}

func (c *CannyDetector) Apply(ctx context.Context, input *safe.Mat, cfg edgeconfig.EdgeConfig) (*safe.Mat, error) {
	if err := safe.ValidateChannels(input, 1, "Canny"); err != nil {
		return nil, err
	}

	low := float32(cfg.LowThreshold)
	high := float32(cfg.HighThreshold)

	return run(ctx, input, "Canny", func(src gocv.Mat, dst *gocv.Mat) {
		gocv.Canny(src, dst, low, high)
	})
}

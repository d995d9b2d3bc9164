package filters

import (
	"context"
	"image"

	"edgeviewer/internal/edgeconfig"
	"edgeviewer/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// GaussianFilter blurs with a square kernel taken from the config. Sigma is
// left at zero so OpenCV derives it from the kernel size.
type GaussianFilter struct{}

func NewGaussianFilter() *GaussianFilter {
	return &GaussianFilter{}
}

func (g *GaussianFilter) Name() string {
	return "gaussian_filter"
}

func (g *GaussianFilter) ShouldExecute(cfg edgeconfig.EdgeConfig) bool {
	return edgeconfig.SanitizeKernel(cfg.BlurKernel) > 1
}

func (g *GaussianFilter) Apply(ctx context.Context, input *safe.Mat, cfg edgeconfig.EdgeConfig) (*safe.Mat, error) {
	kernelSize := edgeconfig.SanitizeKernel(cfg.BlurKernel)
	if kernelSize <= 1 {
		return input.Clone()
	}

	return run(ctx, input, "GaussianBlur", func(src gocv.Mat, dst *gocv.Mat) {
		gocv.GaussianBlur(src, dst, image.Point{X: kernelSize, Y: kernelSize}, 0, 0, gocv.BorderDefault)
	})
}

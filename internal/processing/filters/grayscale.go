package filters

import (
	"context"

	"edgeviewer/internal/edgeconfig"
	"edgeviewer/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// GrayscaleConverter turns an RGBA frame into a single-channel luminance Mat.
type GrayscaleConverter struct{}

func NewGrayscaleConverter() *GrayscaleConverter {
	return &GrayscaleConverter{}
}

func (g *GrayscaleConverter) Name() string {
	return "grayscale_converter"
}

func (g *GrayscaleConverter) ShouldExecute(edgeconfig.EdgeConfig) bool {
	return true
}

func (g *GrayscaleConverter) Apply(ctx context.Context, input *safe.Mat, _ edgeconfig.EdgeConfig) (*safe.Mat, error) {
	if input != nil && input.IsValid() && input.Channels() == 1 {
		return input.Clone()
	}

	if err := safe.ValidateColorConversion(input, gocv.ColorRGBAToGray); err != nil {
		return nil, err
	}

	return run(ctx, input, "RGBA to gray", func(src gocv.Mat, dst *gocv.Mat) {
		gocv.CvtColor(src, dst, gocv.ColorRGBAToGray)
	})
}

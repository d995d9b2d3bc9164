package filters

import (
	"context"

	"edgeviewer/internal/edgeconfig"
	"edgeviewer/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// HistogramEqualizer stretches the grayscale histogram before blurring.
type HistogramEqualizer struct{}

func NewHistogramEqualizer() *HistogramEqualizer {
	return &HistogramEqualizer{}
}

func (h *HistogramEqualizer) Name() string {
	return "histogram_equalizer"
}

func (h *HistogramEqualizer) ShouldExecute(cfg edgeconfig.EdgeConfig) bool {
	return cfg.EqualizeHistogram
}

func (h *HistogramEqualizer) Apply(ctx context.Context, input *safe.Mat, _ edgeconfig.EdgeConfig) (*safe.Mat, error) {
	if err := safe.ValidateChannels(input, 1, "EqualizeHist"); err != nil {
		return nil, err
	}

	return run(ctx, input, "EqualizeHist", func(src gocv.Mat, dst *gocv.Mat) {
		gocv.EqualizeHist(src, dst)
	})
}

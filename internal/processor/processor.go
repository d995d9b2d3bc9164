// Package processor turns RGBA camera frames into edge-annotated RGBA frames.
//
// A Processor reads a configuration snapshot at the start of every call and
// then runs without holding any lock, so concurrent calls never block each
// other. Input buffers are borrowed read-only; every call returns a freshly
// allocated output of the same length.
package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"edgeviewer/internal/edgeconfig"
	"edgeviewer/internal/logger"
	"edgeviewer/internal/opencv/safe"
	"edgeviewer/internal/processing/chain"
	"edgeviewer/internal/processing/filters"
	"edgeviewer/internal/timing"

	"gocv.io/x/gocv"
)

// ErrInvalidFrame is returned when a buffer does not match its dimensions.
var ErrInvalidFrame = errors.New("invalid frame")

// OutputMode selects how edges are rendered into the output frame.
type OutputMode string

const (
	// ModeOverlay paints edge pixels opaque green on top of the input.
	ModeOverlay OutputMode = "overlay"
	// ModeEdges replaces the frame with the white-on-black edge mask.
	ModeEdges OutputMode = "edges"
)

func ParseOutputMode(s string) (OutputMode, error) {
	switch OutputMode(s) {
	case ModeOverlay, "":
		return ModeOverlay, nil
	case ModeEdges:
		return ModeEdges, nil
	default:
		return "", fmt.Errorf("unknown output mode %q", s)
	}
}

// EdgeColor is the RGBA marker written over edge pixels in overlay mode.
var EdgeColor = [4]uint8{0, 255, 0, 255}

// ConfigSource supplies configuration snapshots. *edgeconfig.Store satisfies it.
type ConfigSource interface {
	Snapshot() edgeconfig.EdgeConfig
}

type Processor struct {
	config  ConfigSource
	chain   *chain.ProcessingChain
	timings *timing.Tracker
	mode    OutputMode
	logger  logger.Logger
}

type Option func(*Processor)

func WithMode(mode OutputMode) Option {
	return func(p *Processor) {
		p.mode = mode
	}
}

func WithLogger(log logger.Logger) Option {
	return func(p *Processor) {
		p.logger = log
	}
}

func New(config ConfigSource, opts ...Option) *Processor {
	p := &Processor{
		config: config,
		chain: chain.NewProcessingChain([]chain.ProcessingStep{
			filters.NewGrayscaleConverter(),
			filters.NewHistogramEqualizer(),
			filters.NewGaussianFilter(),
			filters.NewCannyDetector(),
		}),
		timings: timing.NewTracker(timing.DefaultWindow),
		mode:    ModeOverlay,
		logger:  logger.NewNop(),
	}
	p.chain.SetRecorder(p.timings)

	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *Processor) Mode() OutputMode {
	return p.mode
}

// StepTimings summarizes recent per-step durations, plus the output
// composition under "compose".
func (p *Processor) StepTimings() map[string]timing.Summary {
	return p.timings.Summaries()
}

// ProcessRGBA runs the edge pipeline on one packed RGBA frame.
func (p *Processor) ProcessRGBA(ctx context.Context, rgba []byte, width, height int) ([]byte, error) {
	if err := safe.ValidateRGBABuffer(rgba, width, height, "ProcessRGBA"); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFrame, err)
	}

	startTime := time.Now()
	cfg := p.config.Snapshot()

	input, err := safe.NewMatFromBytes(height, width, gocv.MatTypeCV8UC4, rgba)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFrame, err)
	}
	defer input.Close()

	edges, err := p.chain.Execute(ctx, input, cfg)
	if err != nil {
		return nil, fmt.Errorf("edge pipeline failed: %w", err)
	}
	defer edges.Close()

	done := p.timings.Start("compose")
	var out []byte
	switch p.mode {
	case ModeEdges:
		out, err = renderEdges(edges)
	default:
		out, err = overlayEdges(input, edges)
	}
	done()
	if err != nil {
		return nil, err
	}

	if len(out) != len(rgba) {
		return nil, fmt.Errorf("output length %d does not match input length %d", len(out), len(rgba))
	}

	p.logger.Debug("Processor", "frame processed", map[string]interface{}{
		"width":    width,
		"height":   height,
		"mode":     string(p.mode),
		"steps":    p.chain.ActiveStepNames(cfg),
		"low":      cfg.LowThreshold,
		"high":     cfg.HighThreshold,
		"kernel":   cfg.BlurKernel,
		"duration": time.Since(startTime).String(),
	})

	return out, nil
}

// overlayEdges paints EdgeColor into canvas wherever mask is set. canvas is
// the processor's private copy of the input, so writing to it is safe.
func overlayEdges(canvas, mask *safe.Mat) ([]byte, error) {
	if err := safe.ValidateChannels(canvas, 4, "overlay canvas"); err != nil {
		return nil, err
	}
	if err := safe.ValidateChannels(mask, 1, "overlay mask"); err != nil {
		return nil, err
	}

	marker := gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(float64(EdgeColor[0]), float64(EdgeColor[1]), float64(EdgeColor[2]), float64(EdgeColor[3])),
		canvas.Rows(), canvas.Cols(), gocv.MatTypeCV8UC4,
	)
	defer marker.Close()

	marker.CopyToWithMask(canvas.GetMatPtr(), mask.GetMat())

	return canvas.ToBytes()
}

func renderEdges(mask *safe.Mat) ([]byte, error) {
	if err := safe.ValidateColorConversion(mask, gocv.ColorGrayToBGRA); err != nil {
		return nil, err
	}

	// Gray to 4 channels is byte-identical for BGRA and RGBA.
	dst := gocv.NewMat()
	defer dst.Close()
	gocv.CvtColor(mask.GetMat(), &dst, gocv.ColorGrayToBGRA)

	if dst.Empty() {
		return nil, fmt.Errorf("gray to RGBA conversion produced no output")
	}

	return dst.ToBytes(), nil
}

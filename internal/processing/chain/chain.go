package chain

import (
	"context"
	"fmt"
	"time"

	"edgeviewer/internal/edgeconfig"
	"edgeviewer/internal/opencv/safe"
)

// StepRecorder receives the duration of every step that runs.
type StepRecorder interface {
	Record(step string, d time.Duration)
}

// ProcessingStep is one stage of the edge pipeline. Apply must not close or
// modify its input; the chain owns intermediate results.
type ProcessingStep interface {
	Apply(ctx context.Context, input *safe.Mat, cfg edgeconfig.EdgeConfig) (*safe.Mat, error)
	Name() string
	ShouldExecute(cfg edgeconfig.EdgeConfig) bool
}

type ProcessingChain struct {
	steps    []ProcessingStep
	recorder StepRecorder
}

func NewProcessingChain(steps []ProcessingStep) *ProcessingChain {
	return &ProcessingChain{
		steps: steps,
	}
}

// Execute runs every enabled step against cfg. The returned Mat is owned by
// the caller. When no step runs the result is a clone of input.
func (pc *ProcessingChain) Execute(ctx context.Context, input *safe.Mat, cfg edgeconfig.EdgeConfig) (*safe.Mat, error) {
	current := input

	release := func() {
		if current != input {
			current.Close()
		}
	}

	for _, step := range pc.steps {
		select {
		case <-ctx.Done():
			release()
			return nil, ctx.Err()
		default:
		}

		if !step.ShouldExecute(cfg) {
			continue
		}

		start := time.Now()
		result, err := step.Apply(ctx, current, cfg)
		if pc.recorder != nil {
			pc.recorder.Record(step.Name(), time.Since(start))
		}
		if err != nil {
			release()
			return nil, fmt.Errorf("step %s failed: %w", step.Name(), err)
		}

		release()
		current = result
	}

	if current == input {
		return input.Clone()
	}

	return current, nil
}

func (pc *ProcessingChain) SetRecorder(recorder StepRecorder) {
	pc.recorder = recorder
}

func (pc *ProcessingChain) StepCount() int {
	return len(pc.steps)
}

func (pc *ProcessingChain) GetStepNames() []string {
	names := make([]string, len(pc.steps))
	for i, step := range pc.steps {
		names[i] = step.Name()
	}
	return names
}

// ActiveStepNames lists the steps that would run for cfg, in order.
func (pc *ProcessingChain) ActiveStepNames(cfg edgeconfig.EdgeConfig) []string {
	names := make([]string, 0, len(pc.steps))
	for _, step := range pc.steps {
		if step.ShouldExecute(cfg) {
			names = append(names, step.Name())
		}
	}
	return names
}

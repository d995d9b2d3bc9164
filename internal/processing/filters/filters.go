// Package filters holds the individual OpenCV stages of the edge pipeline.
// Each filter reads a *safe.Mat and returns a new one; inputs are never
// modified.
package filters

import (
	"context"
	"fmt"

	"edgeviewer/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// run allocates a destination, applies op and wraps the result.
func run(ctx context.Context, input *safe.Mat, operation string, op func(src gocv.Mat, dst *gocv.Mat)) (*safe.Mat, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if err := safe.ValidateMatForOperation(input, operation); err != nil {
		return nil, err
	}

	dst := gocv.NewMat()
	op(input.GetMat(), &dst)

	result, err := safe.NewMatFromMat(dst)
	if err != nil {
		dst.Close()
		return nil, fmt.Errorf("%s produced no output: %w", operation, err)
	}

	return result, nil
}

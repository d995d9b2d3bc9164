package processor

import (
	"context"
	"fmt"

	"edgeviewer/internal/yuv"
)

// ProcessYUV420 converts camera planes to RGBA and runs the edge pipeline.
// It returns both the converted frame and the processed one.
func (p *Processor) ProcessYUV420(ctx context.Context, width, height int, y, u, v yuv.Plane) (raw, processed []byte, err error) {
	raw, err = yuv.ToRGBA(width, height, y, u, v)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidFrame, err)
	}

	processed, err = p.ProcessRGBA(ctx, raw, width, height)
	if err != nil {
		return nil, nil, err
	}

	return raw, processed, nil
}

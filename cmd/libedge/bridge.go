package main

import (
	"context"
	"errors"
	"os"

	"edgeviewer/internal/edgeconfig"
	"edgeviewer/internal/logger"
	"edgeviewer/internal/processor"
	"edgeviewer/internal/yuv"
)

// Result codes returned across the C boundary. Non-negative values are
// output lengths.
const (
	codeInvalidFrame   = -1
	codeOutputTooSmall = -2
	codeFailed         = -3
)

// The library serves one caller process, so one store and processor are
// shared by every exported call.
var (
	store = edgeconfig.NewDefaultStore()
	proc  = processor.New(store, processor.WithLogger(
		logger.NewZerolog(os.Stderr, logger.LevelFromEnv("warn")),
	))
)

func resultCode(err error) int {
	if errors.Is(err, processor.ErrInvalidFrame) {
		return codeInvalidFrame
	}
	return codeFailed
}

// processInto runs the pipeline on in and copies the result into out.
func processInto(p *processor.Processor, in []byte, width, height int, out []byte) int {
	result, err := p.ProcessRGBA(context.Background(), in, width, height)
	if err != nil {
		return resultCode(err)
	}
	if len(out) < len(result) {
		return codeOutputTooSmall
	}
	return copy(out, result)
}

func processYUVInto(p *processor.Processor, width, height int, y, u, v yuv.Plane, out []byte) int {
	if len(out) < width*height*4 {
		return codeOutputTooSmall
	}

	_, result, err := p.ProcessYUV420(context.Background(), width, height, y, u, v)
	if err != nil {
		return resultCode(err)
	}
	return copy(out, result)
}

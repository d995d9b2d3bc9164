// Command libedge builds the edge processor as a C shared library:
//
//	go build -buildmode=c-shared -o libedge.so ./cmd/libedge
package main

/*
#include <stdint.h>
*/
import "C"

import (
	"unsafe"

	"edgeviewer/internal/yuv"
)

func bytesOf(p *C.uchar, n C.int) []byte {
	if p == nil || n <= 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), int(n))
}

// EdgeProcessRGBA processes one RGBA frame. in is read, never retained;
// the result is written to out. It returns the number of bytes written or
// a negative code.
//
//export EdgeProcessRGBA
func EdgeProcessRGBA(in *C.uchar, inLen, width, height C.int, out *C.uchar, outLen C.int) C.int {
	if in == nil || out == nil {
		return C.int(codeInvalidFrame)
	}
	return C.int(processInto(proc, bytesOf(in, inLen), int(width), int(height), bytesOf(out, outLen)))
}

// EdgeProcessYUV420 converts strided YUV_420_888 planes and processes them.
//
//export EdgeProcessYUV420
func EdgeProcessYUV420(width, height C.int,
	yData *C.uchar, yLen, yRowStride, yPixelStride C.int,
	uData *C.uchar, uLen, uRowStride, uPixelStride C.int,
	vData *C.uchar, vLen, vRowStride, vPixelStride C.int,
	out *C.uchar, outLen C.int,
) C.int {
	if yData == nil || uData == nil || vData == nil || out == nil {
		return C.int(codeInvalidFrame)
	}

	y := yuv.Plane{Data: bytesOf(yData, yLen), RowStride: int(yRowStride), PixelStride: int(yPixelStride)}
	u := yuv.Plane{Data: bytesOf(uData, uLen), RowStride: int(uRowStride), PixelStride: int(uPixelStride)}
	v := yuv.Plane{Data: bytesOf(vData, vLen), RowStride: int(vRowStride), PixelStride: int(vPixelStride)}

	return C.int(processYUVInto(proc, int(width), int(height), y, u, v, bytesOf(out, outLen)))
}

// EdgeSetParameters replaces the shared configuration. Values are clamped.
//
//export EdgeSetParameters
func EdgeSetParameters(low, high C.double, blurRadius, equalize C.int) {
	store.Update(float64(low), float64(high), int(blurRadius), equalize != 0)
}

// EdgeGetParameters reads the shared configuration. Nil pointers are skipped.
//
//export EdgeGetParameters
func EdgeGetParameters(low, high *C.double, blurKernel, equalize *C.int) {
	cfg := store.Snapshot()

	if low != nil {
		*low = C.double(cfg.LowThreshold)
	}
	if high != nil {
		*high = C.double(cfg.HighThreshold)
	}
	if blurKernel != nil {
		*blurKernel = C.int(cfg.BlurKernel)
	}
	if equalize != nil {
		*equalize = 0
		if cfg.EqualizeHistogram {
			*equalize = 1
		}
	}
}

func main() {}

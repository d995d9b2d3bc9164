// Package yuv converts YUV_420_888 camera planes into packed RGBA.
//
// Planes may be fully planar (I420, PixelStride 1) or semi-planar with
// interleaved chroma (NV12/NV21, PixelStride 2). Row and pixel strides are
// honoured, so padded camera buffers can be passed as-is.
package yuv

import "fmt"

// Plane is one channel of a YUV_420_888 image.
type Plane struct {
	Data        []byte
	RowStride   int
	PixelStride int
}

// Coefficients of the full-range BT.601 conversion used by the camera
// pipeline. Products are truncated toward zero before clamping.
const (
	crToR = 1.370705
	cbToG = 0.337633
	crToG = 0.698001
	cbToB = 1.732446
)

// Validate checks that the planes cover a width x height image.
func Validate(width, height int, y, u, v Plane) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d", width, height)
	}
	if y.PixelStride != 1 {
		return fmt.Errorf("luma pixel stride must be 1, got %d", y.PixelStride)
	}
	if y.RowStride < width {
		return fmt.Errorf("luma row stride %d smaller than width %d", y.RowStride, width)
	}
	if need := y.RowStride*(height-1) + width; len(y.Data) < need {
		return fmt.Errorf("luma plane has %d bytes, need %d", len(y.Data), need)
	}

	chromaW := (width + 1) / 2
	chromaH := (height + 1) / 2
	for name, p := range map[string]Plane{"u": u, "v": v} {
		if p.PixelStride <= 0 {
			return fmt.Errorf("%s plane pixel stride must be positive, got %d", name, p.PixelStride)
		}
		rowSpan := (chromaW-1)*p.PixelStride + 1
		if p.RowStride < 0 || (chromaH > 1 && p.RowStride < rowSpan) {
			return fmt.Errorf("%s plane row stride %d smaller than row span %d", name, p.RowStride, rowSpan)
		}
		if need := p.RowStride*(chromaH-1) + (chromaW-1)*p.PixelStride + 1; len(p.Data) < need {
			return fmt.Errorf("%s plane has %d bytes, need %d", name, len(p.Data), need)
		}
	}
	return nil
}

// ToRGBA converts the planes into a new width*height*4 buffer with opaque alpha.
func ToRGBA(width, height int, y, u, v Plane) ([]byte, error) {
	if err := Validate(width, height, y, u, v); err != nil {
		return nil, err
	}

	out := make([]byte, width*height*4)
	offset := 0
	for row := 0; row < height; row++ {
		yRow := y.RowStride * row
		uRow := u.RowStride * (row / 2)
		vRow := v.RowStride * (row / 2)
		for col := 0; col < width; col++ {
			luma := int(y.Data[yRow+col])
			cb := float32(int(u.Data[uRow+(col/2)*u.PixelStride]) - 128)
			cr := float32(int(v.Data[vRow+(col/2)*v.PixelStride]) - 128)

			out[offset] = clamp(luma + int(crToR*cr))
			out[offset+1] = clamp(luma - int(cbToG*cb+crToG*cr))
			out[offset+2] = clamp(luma + int(cbToB*cb))
			out[offset+3] = 0xFF
			offset += 4
		}
	}
	return out, nil
}

func clamp(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

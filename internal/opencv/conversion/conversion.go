// Package conversion moves pixels between OpenCV Mats, packed RGBA buffers
// and encoded images.
package conversion

import (
	"encoding/base64"
	"fmt"
	"image"

	"edgeviewer/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// MatToRGBA converts a 3-channel BGR or 4-channel BGRA Mat, as delivered by
// VideoCapture and IMRead, into a packed RGBA buffer.
func MatToRGBA(src *safe.Mat) ([]byte, error) {
	if err := safe.ValidateMatForOperation(src, "RGBA conversion"); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var code gocv.ColorConversionCode
	switch src.Channels() {
	case 3:
		code = gocv.ColorBGRToRGBA
	case 4:
		code = gocv.ColorBGRAToRGBA
	case 1:
		code = gocv.ColorGrayToBGRA
	default:
		return nil, fmt.Errorf("unsupported channel count: %d", src.Channels())
	}

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.CvtColor(src.GetMat(), &dst, code)

	if dst.Empty() || dst.Channels() != 4 {
		return nil, fmt.Errorf("RGBA conversion produced no output")
	}

	return dst.ToBytes(), nil
}

// EncodePNG encodes a packed RGBA buffer as PNG.
func EncodePNG(rgba []byte, width, height int) ([]byte, error) {
	if err := safe.ValidateRGBABuffer(rgba, width, height, "PNG encode"); err != nil {
		return nil, err
	}

	src, err := safe.NewMatFromBytes(height, width, gocv.MatTypeCV8UC4, rgba)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	// The R/B swap is symmetric, so BGRAToRGBA also turns RGBA into BGRA.
	bgra := gocv.NewMat()
	defer bgra.Close()
	gocv.CvtColor(src.GetMat(), &bgra, gocv.ColorBGRAToRGBA)

	buf, err := gocv.IMEncode(gocv.PNGFileExt, bgra)
	if err != nil {
		return nil, fmt.Errorf("png encode failed: %w", err)
	}
	defer buf.Close()

	encoded := buf.GetBytes()
	out := make([]byte, len(encoded))
	copy(out, encoded)

	return out, nil
}

// PNGDataURL returns png as a data URL suitable for an <img> src.
func PNGDataURL(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}

// RGBAImage wraps a packed RGBA buffer as an image.RGBA without copying.
func RGBAImage(rgba []byte, width, height int) (*image.RGBA, error) {
	if err := safe.ValidateRGBABuffer(rgba, width, height, "RGBA image"); err != nil {
		return nil, err
	}

	return &image.RGBA{
		Pix:    rgba,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}, nil
}

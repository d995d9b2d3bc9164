package conversion

import (
	"bytes"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edgeviewer/internal/opencv/safe"

	"gocv.io/x/gocv"
)

func TestMatToRGBAFromBGR(t *testing.T) {
	mat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(10, 20, 30, 0), 2, 3, gocv.MatTypeCV8UC3)
	src, err := safe.NewMatFromMat(mat)
	require.NoError(t, err)
	defer src.Close()

	out, err := MatToRGBA(src)
	require.NoError(t, err)
	require.Len(t, out, 2*3*4)

	for i := 0; i < len(out); i += 4 {
		assert.Equal(t, []byte{30, 20, 10, 255}, out[i:i+4])
	}
}

func TestMatToRGBARejectsClosedMat(t *testing.T) {
	src, err := safe.NewMat(2, 2, gocv.MatTypeCV8UC3)
	require.NoError(t, err)
	src.Close()

	_, err = MatToRGBA(src)
	assert.Error(t, err)
}

func TestEncodePNGRoundTrip(t *testing.T) {
	rgba := []byte{
		255, 0, 0, 255, 0, 255, 0, 255,
		0, 0, 255, 255, 255, 255, 255, 255,
	}

	encoded, err := EncodePNG(rgba, 2, 2)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(encoded))
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())

	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), 255})
	r, g, b, _ = img.At(0, 1).RGBA()
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), 255})
}

func TestEncodePNGRejectsBadBuffer(t *testing.T) {
	_, err := EncodePNG(make([]byte, 7), 1, 2)
	assert.Error(t, err)
}

func TestPNGDataURL(t *testing.T) {
	url := PNGDataURL([]byte{1, 2, 3})
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))
	assert.Equal(t, "data:image/png;base64,AQID", url)
}

func TestRGBAImageSharesBuffer(t *testing.T) {
	rgba := make([]byte, 3*2*4)
	img, err := RGBAImage(rgba, 3, 2)
	require.NoError(t, err)

	img.Set(1, 1, color.RGBA{1, 2, 3, 4})
	assert.Equal(t, []byte{1, 2, 3, 4}, rgba[(1*3+1)*4:(1*3+1)*4+4])

	_, err = RGBAImage(rgba, 4, 2)
	assert.Error(t, err)
}

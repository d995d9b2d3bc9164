package safe

import (
	"fmt"

	"gocv.io/x/gocv"
)

// MaxDimension bounds frame width and height.
const MaxDimension = 32768

func ValidateMatForOperation(mat *Mat, operation string) error {
	if mat == nil {
		return fmt.Errorf("Mat is nil for operation: %s", operation)
	}

	if !mat.IsValid() {
		return fmt.Errorf("Mat is invalid for operation: %s", operation)
	}

	if mat.Empty() {
		return fmt.Errorf("Mat is empty for operation: %s", operation)
	}

	if mat.Rows() <= 0 || mat.Cols() <= 0 {
		return fmt.Errorf("Mat has invalid dimensions %dx%d for operation: %s",
			mat.Cols(), mat.Rows(), operation)
	}

	return nil
}

func ValidateChannels(mat *Mat, want int, operation string) error {
	if err := ValidateMatForOperation(mat, operation); err != nil {
		return err
	}

	if got := mat.Channels(); got != want {
		return fmt.Errorf("%s requires %d channels, got %d", operation, want, got)
	}

	return nil
}

func ValidateColorConversion(src *Mat, code gocv.ColorConversionCode) error {
	if err := ValidateMatForOperation(src, "CvtColor"); err != nil {
		return err
	}

	channels := src.Channels()

	switch code {
	case gocv.ColorRGBAToGray, gocv.ColorBGRAToRGBA:
		if channels != 4 {
			return fmt.Errorf("RGBA conversion requires 4 channels, got %d", channels)
		}
	case gocv.ColorBGRToRGBA, gocv.ColorBGRToGray:
		if channels != 3 {
			return fmt.Errorf("BGR conversion requires 3 channels, got %d", channels)
		}
	case gocv.ColorGrayToBGRA:
		if channels != 1 {
			return fmt.Errorf("Gray to 4-channel conversion requires 1 channel, got %d", channels)
		}
	}

	return nil
}

func ValidateDimensions(width, height int, operation string) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d for operation: %s", width, height, operation)
	}

	if width > MaxDimension || height > MaxDimension {
		return fmt.Errorf("dimensions %dx%d exceed maximum size for operation: %s", width, height, operation)
	}

	return nil
}

// ValidateRGBABuffer checks that a packed RGBA buffer matches its dimensions.
func ValidateRGBABuffer(data []byte, width, height int, operation string) error {
	if err := ValidateDimensions(width, height, operation); err != nil {
		return err
	}

	if want := width * height * 4; len(data) != want {
		return fmt.Errorf("buffer length %d does not match %dx%d RGBA (want %d) for operation: %s",
			len(data), width, height, want, operation)
	}

	return nil
}

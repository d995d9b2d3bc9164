package widgets

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	ImageAreaWidth  = 640
	ImageAreaHeight = 480
)

// FrameDisplay shows one frame scaled to fit, with a caption above it.
type FrameDisplay struct {
	container fyne.CanvasObject
	caption   *widget.Label
	image     *canvas.Image
}

func NewFrameDisplay() *FrameDisplay {
	img := canvas.NewImageFromImage(nil)
	img.FillMode = canvas.ImageFillContain
	img.ScaleMode = canvas.ImageScaleFastest
	img.SetMinSize(fyne.NewSize(ImageAreaWidth, ImageAreaHeight))

	caption := widget.NewLabelWithStyle("Waiting for frames", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	return &FrameDisplay{
		container: container.NewBorder(caption, nil, nil, nil, img),
		caption:   caption,
		image:     img,
	}
}

func (fd *FrameDisplay) GetContainer() fyne.CanvasObject {
	return fd.container
}

func (fd *FrameDisplay) SetFrame(img image.Image, caption string) {
	fd.image.Image = img
	fd.image.Refresh()
	fd.caption.SetText(caption)
}

func (fd *FrameDisplay) Image() image.Image {
	return fd.image.Image
}

func (fd *FrameDisplay) Caption() string {
	return fd.caption.Text
}

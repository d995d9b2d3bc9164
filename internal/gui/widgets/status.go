package widgets

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

type StatusBar struct {
	container  *fyne.Container
	fpsLabel   *widget.Label
	sizeLabel  *widget.Label
	modeLabel  *widget.Label
	dropsLabel *widget.Label
}

func NewStatusBar() *StatusBar {
	sb := &StatusBar{
		fpsLabel:   widget.NewLabel("FPS: --"),
		sizeLabel:  widget.NewLabel("Resolution: --"),
		modeLabel:  widget.NewLabel("Mode: --"),
		dropsLabel: widget.NewLabel("Dropped: 0"),
	}

	sb.container = container.NewHBox(
		sb.fpsLabel,
		widget.NewSeparator(),
		sb.sizeLabel,
		widget.NewSeparator(),
		sb.modeLabel,
		widget.NewSeparator(),
		sb.dropsLabel,
	)

	return sb
}

func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}

func (sb *StatusBar) SetStats(fps float64, width, height int, mode string, dropped uint64) {
	sb.fpsLabel.SetText(fmt.Sprintf("FPS: %.1f", fps))
	sb.sizeLabel.SetText(fmt.Sprintf("Resolution: %dx%d", width, height))
	sb.modeLabel.SetText("Mode: " + mode)
	sb.dropsLabel.SetText(fmt.Sprintf("Dropped: %d", dropped))
}

func (sb *StatusBar) Text() string {
	return fmt.Sprintf("%s | %s | %s | %s", sb.fpsLabel.Text, sb.sizeLabel.Text, sb.modeLabel.Text, sb.dropsLabel.Text)
}

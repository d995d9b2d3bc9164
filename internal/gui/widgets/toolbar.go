package widgets

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Toolbar holds the display mode toggle and the parameter reset button.
type Toolbar struct {
	container    *fyne.Container
	toggleButton *widget.Button
	resetButton  *widget.Button

	toggleHandler func()
	resetHandler  func()
}

func NewToolbar() *Toolbar {
	tb := &Toolbar{}

	tb.toggleButton = widget.NewButton("Show Raw", func() {
		if tb.toggleHandler != nil {
			tb.toggleHandler()
		}
	})
	tb.toggleButton.Importance = widget.HighImportance

	tb.resetButton = widget.NewButton("Reset Parameters", func() {
		if tb.resetHandler != nil {
			tb.resetHandler()
		}
	})

	tb.container = container.NewHBox(tb.toggleButton, tb.resetButton)
	return tb
}

func (tb *Toolbar) GetContainer() *fyne.Container {
	return tb.container
}

func (tb *Toolbar) SetToggleHandler(handler func()) {
	tb.toggleHandler = handler
}

func (tb *Toolbar) SetResetHandler(handler func()) {
	tb.resetHandler = handler
}

// SetShowingRaw labels the toggle with the mode it switches to.
func (tb *Toolbar) SetShowingRaw(raw bool) {
	if raw {
		tb.toggleButton.SetText("Show Edges")
	} else {
		tb.toggleButton.SetText("Show Raw")
	}
}

func (tb *Toolbar) ToggleLabel() string {
	return tb.toggleButton.Text
}

package widgets

import (
	"math"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"edgeviewer/internal/edgeconfig"
)

// MaxThreshold is the upper end of both threshold sliders. Larger stored
// thresholds are shown in the labels and kept until the user moves that
// slider.
const MaxThreshold = 500

// ParameterPanel edits the edge parameters. Each change sends the stored
// configuration with only the touched field replaced, and the panel then
// shows the values the handler stored, so clamping is visible to the user.
type ParameterPanel struct {
	container *fyne.Container

	lowSlider  *widget.Slider
	highSlider *widget.Slider
	blurSlider *widget.Slider
	lowLabel   *widget.Label
	highLabel  *widget.Label
	blurLabel  *widget.Label
	equalize   *widget.Check

	current       edgeconfig.EdgeConfig
	source        func() edgeconfig.EdgeConfig
	changeHandler func(edgeconfig.Params) edgeconfig.EdgeConfig
	syncing       bool
}

func NewParameterPanel(initial edgeconfig.EdgeConfig) *ParameterPanel {
	pp := &ParameterPanel{}

	pp.lowSlider = widget.NewSlider(0, MaxThreshold)
	pp.lowSlider.Step = 1
	pp.highSlider = widget.NewSlider(0, MaxThreshold)
	pp.highSlider.Step = 1
	pp.blurSlider = widget.NewSlider(1, edgeconfig.MaxBlurKernel)
	pp.blurSlider.Step = 2

	pp.lowLabel = widget.NewLabel("")
	pp.highLabel = widget.NewLabel("")
	pp.blurLabel = widget.NewLabel("")
	pp.equalize = widget.NewCheck("Equalize Histogram", nil)

	pp.SetValues(initial)

	pp.lowSlider.OnChanged = pp.SetLowThreshold
	pp.highSlider.OnChanged = pp.SetHighThreshold
	pp.blurSlider.OnChanged = func(v float64) { pp.SetBlurKernel(int(v)) }
	pp.equalize.OnChanged = pp.SetEqualize

	pp.container = container.NewVBox(
		widget.NewLabel("Parameters:"),
		container.NewGridWithColumns(3,
			container.NewVBox(pp.lowLabel, pp.lowSlider),
			container.NewVBox(pp.highLabel, pp.highSlider),
			container.NewVBox(pp.blurLabel, pp.blurSlider),
		),
		pp.equalize,
	)

	return pp
}

func (pp *ParameterPanel) GetContainer() *fyne.Container {
	return pp.container
}

func (pp *ParameterPanel) SetChangeHandler(handler func(edgeconfig.Params) edgeconfig.EdgeConfig) {
	pp.changeHandler = handler
}

// SetSource sets where a change reads the fields it leaves untouched.
// Without a source the panel uses the last configuration it showed.
func (pp *ParameterPanel) SetSource(source func() edgeconfig.EdgeConfig) {
	pp.source = source
}

// Current returns the configuration the panel is showing.
func (pp *ParameterPanel) Current() edgeconfig.EdgeConfig {
	return pp.current
}

// Params returns the shown configuration as a parameter update.
func (pp *ParameterPanel) Params() edgeconfig.Params {
	return pp.current.Params()
}

func (pp *ParameterPanel) SetLowThreshold(v float64) {
	pp.emit(func(p *edgeconfig.Params) { p.Low = v })
}

func (pp *ParameterPanel) SetHighThreshold(v float64) {
	pp.emit(func(p *edgeconfig.Params) { p.High = v })
}

func (pp *ParameterPanel) SetBlurKernel(k int) {
	pp.emit(func(p *edgeconfig.Params) { p.BlurRadius = k })
}

func (pp *ParameterPanel) SetEqualize(on bool) {
	pp.emit(func(p *edgeconfig.Params) { p.EqualizeHistogram = on })
}

// SetValues moves the widgets to cfg without notifying the change handler.
func (pp *ParameterPanel) SetValues(cfg edgeconfig.EdgeConfig) {
	pp.syncing = true
	defer func() { pp.syncing = false }()

	pp.current = cfg

	pp.lowSlider.SetValue(math.Min(cfg.LowThreshold, MaxThreshold))
	pp.highSlider.SetValue(math.Min(cfg.HighThreshold, MaxThreshold))
	pp.blurSlider.SetValue(float64(cfg.BlurKernel))
	pp.equalize.SetChecked(cfg.EqualizeHistogram)

	pp.lowLabel.SetText("Low Threshold: " + strconv.FormatFloat(cfg.LowThreshold, 'f', 0, 64))
	pp.highLabel.SetText("High Threshold: " + strconv.FormatFloat(cfg.HighThreshold, 'f', 0, 64))
	pp.blurLabel.SetText("Blur Kernel: " + strconv.Itoa(cfg.BlurKernel))
}

func (pp *ParameterPanel) emit(edit func(*edgeconfig.Params)) {
	if pp.syncing || pp.changeHandler == nil {
		return
	}

	base := pp.current
	if pp.source != nil {
		base = pp.source()
	}

	params := base.Params()
	edit(&params)
	pp.SetValues(pp.changeHandler(params))
}

// Package gui is the fyne desktop viewer: the latest processed frame, a
// raw/edges toggle, live statistics and the edge parameter controls.
package gui

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"

	"edgeviewer/internal/analyzer"
	"edgeviewer/internal/edgeconfig"
	"edgeviewer/internal/gui/widgets"
	"edgeviewer/internal/logger"
	"edgeviewer/internal/models"
	"edgeviewer/internal/opencv/conversion"
)

// RefreshInterval is how often the viewer polls for a new frame.
const RefreshInterval = 33 * time.Millisecond

type ParamStore interface {
	Snapshot() edgeconfig.EdgeConfig
	Apply(p edgeconfig.Params) edgeconfig.EdgeConfig
}

type FrameSource interface {
	Get() (models.ProcessedFrame, bool)
}

type StatsSource interface {
	Stats() analyzer.Stats
}

type Config struct {
	Store  ParamStore
	Frames FrameSource
	Stats  StatsSource
	Logger logger.Logger
}

type Viewer struct {
	window fyne.Window
	store  ParamStore
	frames FrameSource
	stats  StatsSource
	logger logger.Logger

	display *widgets.FrameDisplay
	panel   *widgets.ParameterPanel
	toolbar *widgets.Toolbar
	status  *widgets.StatusBar
	content fyne.CanvasObject

	mu       sync.Mutex
	mode     models.DisplayMode
	shownSeq uint64
	shown    models.DisplayMode
}

func NewViewer(window fyne.Window, cfg Config) *Viewer {
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}

	v := &Viewer{
		window:  window,
		store:   cfg.Store,
		frames:  cfg.Frames,
		stats:   cfg.Stats,
		logger:  log,
		mode:    models.DisplayEdges,
		display: widgets.NewFrameDisplay(),
		panel:   widgets.NewParameterPanel(cfg.Store.Snapshot()),
		toolbar: widgets.NewToolbar(),
		status:  widgets.NewStatusBar(),
	}

	v.panel.SetChangeHandler(v.applyParams)
	v.panel.SetSource(cfg.Store.Snapshot)
	v.toolbar.SetToggleHandler(v.ToggleMode)
	v.toolbar.SetResetHandler(v.resetParams)

	v.content = container.NewBorder(
		v.toolbar.GetContainer(),
		container.NewVBox(v.panel.GetContainer(), v.status.GetContainer()),
		nil, nil,
		v.display.GetContainer(),
	)

	return v
}

func (v *Viewer) Content() fyne.CanvasObject {
	return v.content
}

func (v *Viewer) Show() {
	v.window.SetContent(v.content)
	v.window.Show()
}

func (v *Viewer) Mode() models.DisplayMode {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mode
}

// ToggleMode switches between the raw and the edge-annotated frame.
func (v *Viewer) ToggleMode() {
	v.mu.Lock()
	if v.mode == models.DisplayEdges {
		v.mode = models.DisplayRaw
	} else {
		v.mode = models.DisplayEdges
	}
	mode := v.mode
	v.mu.Unlock()

	v.toolbar.SetShowingRaw(mode == models.DisplayRaw)
	v.logger.Debug("Viewer", "display mode changed", map[string]interface{}{"mode": string(mode)})
}

// Run polls for frames and parameter changes made outside the viewer
// until ctx is cancelled.
func (v *Viewer) Run(ctx context.Context) {
	ticker := time.NewTicker(RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fyne.Do(v.syncParams)

			img, caption, ok := v.nextFrame()
			if !ok {
				continue
			}
			st := v.currentStats()
			mode := string(v.Mode())
			fyne.Do(func() {
				v.display.SetFrame(img, caption)
				v.status.SetStats(st.FPS, st.Width, st.Height, mode, st.Dropped)
			})
		}
	}
}

// nextFrame returns the image to show, or false when nothing changed
// since the last call.
func (v *Viewer) nextFrame() (image.Image, string, bool) {
	if v.frames == nil {
		return nil, "", false
	}

	frame, ok := v.frames.Get()
	if !ok {
		return nil, "", false
	}

	v.mu.Lock()
	mode := v.mode
	if frame.Seq == v.shownSeq && mode == v.shown {
		v.mu.Unlock()
		return nil, "", false
	}
	v.shownSeq = frame.Seq
	v.shown = mode
	v.mu.Unlock()

	// Frame buffers are never written after publication, so they can be
	// wrapped without a copy.
	img, err := conversion.RGBAImage(frame.Pixels(mode), frame.Width, frame.Height)
	if err != nil {
		v.logger.Error("Viewer", err, map[string]interface{}{"seq": frame.Seq})
		return nil, "", false
	}

	caption := "Edges"
	if mode == models.DisplayRaw {
		caption = "Raw"
	}
	return img, fmt.Sprintf("%s (frame %d)", caption, frame.Seq), true
}

func (v *Viewer) currentStats() analyzer.Stats {
	if v.stats == nil {
		return analyzer.Stats{}
	}
	return v.stats.Stats()
}

func (v *Viewer) applyParams(p edgeconfig.Params) edgeconfig.EdgeConfig {
	stored := v.store.Apply(p)
	v.logger.Debug("Viewer", "edge parameters updated", map[string]interface{}{
		"low":      stored.LowThreshold,
		"high":     stored.HighThreshold,
		"kernel":   stored.BlurKernel,
		"equalize": stored.EqualizeHistogram,
	})
	return stored
}

// syncParams shows the stored parameters when another writer changed them.
func (v *Viewer) syncParams() {
	if cfg := v.store.Snapshot(); cfg != v.panel.Current() {
		v.panel.SetValues(cfg)
	}
}

func (v *Viewer) resetParams() {
	v.panel.SetValues(v.applyParams(edgeconfig.Defaults().Params()))
}

func (v *Viewer) Shutdown() {
	fyne.Do(func() {
		v.window.Close()
	})
}

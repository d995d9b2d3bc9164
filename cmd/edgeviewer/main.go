package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"edgeviewer/internal/analyzer"
	"edgeviewer/internal/capture"
	"edgeviewer/internal/config"
	"edgeviewer/internal/edgeconfig"
	"edgeviewer/internal/gui"
	"edgeviewer/internal/logger"
	"edgeviewer/internal/processor"
	"edgeviewer/internal/server"
	"edgeviewer/internal/shutdown"
)

const (
	AppName    = "Edge Viewer"
	AppID      = "com.imageprocessing.edgeviewer"
	AppVersion = "1.0.0"
)

func main() {
	configPath := flag.String("config", "", "path to a JSON config file")
	headless := flag.Bool("headless", false, "run without the desktop viewer")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "edgeviewer: %v\n", err)
		os.Exit(2)
	}

	log := logger.NewConsoleLogger(logger.LevelFromEnv(cfg.LogLevel))
	if err := run(cfg, *headless, log); err != nil {
		log.Error("Main", err, nil)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func run(cfg *config.Config, headless bool, log logger.Logger) error {
	mode, err := processor.ParseOutputMode(cfg.OutputMode)
	if err != nil {
		return err
	}
	timeout, err := cfg.Timeout()
	if err != nil {
		return err
	}

	store := edgeconfig.NewDefaultStore()
	store.Apply(cfg.Edge)

	proc := processor.New(store, processor.WithMode(mode), processor.WithLogger(log))
	latest := analyzer.NewLatest()
	frames := analyzer.New(proc, log, latest.Handle)

	log.Info("Main", "starting", map[string]interface{}{
		"version":    AppVersion,
		"go_version": runtime.Version(),
		"session_id": frames.SessionID(),
		"mode":       string(mode),
		"source":     cfg.Source,
		"http_addr":  cfg.HTTPAddr,
		"headless":   headless,
	})

	mgr := shutdown.NewManager(log, timeout)
	ctx := mgr.Context()

	if cfg.HTTPAddr != "" {
		srv := server.New(server.Config{
			Address:   cfg.HTTPAddr,
			Store:     store,
			Processor: proc,
			Frames:    latest,
			Stats:     frames,
			Timings:   proc,
			Logger:    log,
		})
		mgr.Register("http", srv)

		go func() {
			if err := srv.Start(ctx); err != nil {
				log.Error("Main", err, nil)
				mgr.Shutdown()
			}
		}()
	}

	if err := frames.Start(ctx); err != nil {
		return err
	}
	mgr.Register("analyzer", frames)

	if cfg.Source != "" {
		src, err := capture.Open(cfg.Source, cfg.CaptureWidth, cfg.CaptureHeight, cfg.CaptureFPS)
		if err != nil {
			mgr.Shutdown()
			mgr.Wait()
			return err
		}
		mgr.Register("capture", shutdown.Func(func() {
			if err := src.Close(); err != nil {
				log.Warning("Main", "capture close failed", map[string]interface{}{"error": err.Error()})
			}
		}))

		go pump(ctx, src, frames, cfg.CaptureFPS, log, mgr)
	}

	mgr.Listen()

	if headless {
		mgr.Wait()
		return nil
	}

	runViewer(ctx, store, latest, frames, log, mgr)
	mgr.Shutdown()
	mgr.Wait()
	return nil
}

func pump(ctx context.Context, src capture.Source, sink capture.Sink, fps int, log logger.Logger, mgr *shutdown.Manager) {
	if err := capture.Pump(ctx, src, sink, fps, log); err != nil && ctx.Err() == nil {
		log.Error("Main", fmt.Errorf("capture stopped: %w", err), nil)
		mgr.Shutdown()
	}
}

// runViewer blocks until the window is closed.
func runViewer(ctx context.Context, store *edgeconfig.Store, latest *analyzer.Latest, frames *analyzer.Analyzer, log logger.Logger, mgr *shutdown.Manager) {
	app.SetMetadata(fyne.AppMetadata{
		ID:      AppID,
		Name:    AppName,
		Version: AppVersion,
	})
	fyneApp := app.NewWithID(AppID)

	window := fyneApp.NewWindow(AppName)
	window.Resize(fyne.NewSize(900, 760))
	window.CenterOnScreen()
	window.SetMaster()

	viewer := gui.NewViewer(window, gui.Config{
		Store:  store,
		Frames: latest,
		Stats:  frames,
		Logger: log,
	})
	mgr.Register("viewer", viewer)

	window.SetOnClosed(func() {
		log.Info("Main", "window closed", nil)
		go mgr.Shutdown()
	})

	go viewer.Run(ctx)

	viewer.Show()
	fyneApp.Run()
}

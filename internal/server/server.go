// Package server exposes the edge processor and its configuration over HTTP.
//
// Routes:
//
//	GET  /healthz
//	GET  /api/params             current edge parameters
//	PUT  /api/params             update parameters (clamped, never rejected)
//	GET  /api/frame?mode=        latest frame as a PNG data URL, mode edges|raw
//	GET  /api/stats              analyzer statistics
//	GET  /api/timings            per-step processing durations
//	POST /api/process?width=&height=  process a raw RGBA body
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"edgeviewer/internal/analyzer"
	"edgeviewer/internal/edgeconfig"
	"edgeviewer/internal/logger"
	"edgeviewer/internal/models"
	"edgeviewer/internal/opencv/conversion"
	"edgeviewer/internal/processor"
	"edgeviewer/internal/timing"
)

// MaxFrameBytes caps /api/process bodies (a 4K RGBA frame is ~33MB).
const MaxFrameBytes = 64 << 20

type ParamStore interface {
	Snapshot() edgeconfig.EdgeConfig
	Apply(p edgeconfig.Params) edgeconfig.EdgeConfig
}

type FrameProcessor interface {
	ProcessRGBA(ctx context.Context, rgba []byte, width, height int) ([]byte, error)
}

type LatestFrame interface {
	Get() (models.ProcessedFrame, bool)
}

type StatsSource interface {
	Stats() analyzer.Stats
}

type TimingSource interface {
	StepTimings() map[string]timing.Summary
}

type Config struct {
	Address   string
	Store     ParamStore
	Processor FrameProcessor
	// Frames, Stats and Timings are optional; without them the matching
	// endpoints answer 404.
	Frames  LatestFrame
	Stats   StatsSource
	Timings TimingSource
	Logger  logger.Logger
}

type Server struct {
	store     ParamStore
	processor FrameProcessor
	frames    LatestFrame
	stats     StatsSource
	timings   TimingSource
	logger    logger.Logger
	respond   responder
	server    *http.Server
}

// FrameStats mirrors the web viewer's stats object.
type FrameStats struct {
	FPS       float64 `json:"fps"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Mode      string  `json:"mode"`
	Timestamp int64   `json:"timestamp"`
}

type FrameResponse struct {
	ImageData string     `json:"imageData"`
	Stats     FrameStats `json:"stats"`
}

func New(cfg Config) *Server {
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}

	s := &Server{
		store:     cfg.Store,
		processor: cfg.Processor,
		frames:    cfg.Frames,
		stats:     cfg.Stats,
		timings:   cfg.Timings,
		logger:    log,
		respond:   responder{logger: log},
	}

	s.server = &http.Server{
		Addr:              cfg.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/params", s.handleParams)
	mux.HandleFunc("/api/frame", s.handleFrame)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/timings", s.handleTimings)
	mux.HandleFunc("/api/process", s.handleProcess)
	return mux
}

// Start serves until ctx is cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTPServer", "listening", map[string]interface{}{"address": s.server.Addr})
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.Shutdown()
		return nil
	}
}

func (s *Server) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Warning("HTTPServer", "graceful shutdown failed", map[string]interface{}{"error": err.Error()})
		if err := s.server.Close(); err != nil {
			s.logger.Error("HTTPServer", err, nil)
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respond.ok(w, map[string]string{
		"status":    "ok",
		"service":   "edgeviewer",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleParams(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.respond.ok(w, s.store.Snapshot())
	case http.MethodPut, http.MethodPost:
		// Start from the current values so partial bodies only touch what they name.
		p := s.store.Snapshot().Params()

		dec := json.NewDecoder(io.LimitReader(r.Body, 1<<16))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil {
			s.respond.badRequest(w, fmt.Sprintf("invalid parameters: %v", err))
			return
		}

		updated := s.store.Apply(p)
		s.logger.Info("HTTPServer", "edge parameters updated", map[string]interface{}{
			"low":      updated.LowThreshold,
			"high":     updated.HighThreshold,
			"kernel":   updated.BlurKernel,
			"equalize": updated.EqualizeHistogram,
		})
		s.respond.ok(w, updated)
	default:
		s.respond.methodNotAllowed(w)
	}
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respond.methodNotAllowed(w)
		return
	}

	mode, ok := models.ParseDisplayMode(r.URL.Query().Get("mode"))
	if !ok {
		s.respond.badRequest(w, "mode must be edges or raw")
		return
	}

	if s.frames == nil {
		s.respond.notFound(w, "no frame source")
		return
	}
	frame, ok := s.frames.Get()
	if !ok {
		s.respond.notFound(w, "no frame processed yet")
		return
	}

	png, err := conversion.EncodePNG(frame.Pixels(mode), frame.Width, frame.Height)
	if err != nil {
		s.logger.Error("HTTPServer", err, map[string]interface{}{"seq": frame.Seq})
		s.respond.internalError(w, "failed to encode frame")
		return
	}

	var fps float64
	if s.stats != nil {
		fps = s.stats.Stats().FPS
	}

	s.respond.ok(w, FrameResponse{
		ImageData: conversion.PNGDataURL(png),
		Stats: FrameStats{
			FPS:       fps,
			Width:     frame.Width,
			Height:    frame.Height,
			Mode:      string(mode),
			Timestamp: frame.Timestamp.UnixMilli(),
		},
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respond.methodNotAllowed(w)
		return
	}
	if s.stats == nil {
		s.respond.notFound(w, "no analyzer running")
		return
	}
	s.respond.ok(w, s.stats.Stats())
}

func (s *Server) handleTimings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respond.methodNotAllowed(w)
		return
	}
	if s.timings == nil {
		s.respond.notFound(w, "timings unavailable")
		return
	}
	s.respond.ok(w, s.timings.StepTimings())
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respond.methodNotAllowed(w)
		return
	}

	width, err := strconv.Atoi(r.URL.Query().Get("width"))
	if err != nil {
		s.respond.badRequest(w, "width must be an integer")
		return
	}
	height, err := strconv.Atoi(r.URL.Query().Get("height"))
	if err != nil {
		s.respond.badRequest(w, "height must be an integer")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, MaxFrameBytes+1))
	if err != nil {
		s.respond.badRequest(w, "failed to read body")
		return
	}
	if len(body) > MaxFrameBytes {
		s.respond.writeError(w, http.StatusRequestEntityTooLarge, "frame too large")
		return
	}

	out, err := s.processor.ProcessRGBA(r.Context(), body, width, height)
	if err != nil {
		if errors.Is(err, processor.ErrInvalidFrame) {
			s.respond.badRequest(w, err.Error())
			return
		}
		s.logger.Error("HTTPServer", err, map[string]interface{}{"width": width, "height": height})
		s.respond.internalError(w, "processing failed")
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out); err != nil {
		s.logger.Warning("HTTPServer", "failed to write frame", map[string]interface{}{"error": err.Error()})
	}
}

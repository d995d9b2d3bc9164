// Package config loads edgeviewer runtime settings from a JSON file and
// the environment.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"edgeviewer/internal/edgeconfig"
	"edgeviewer/internal/processor"
)

const maxFileSize = 1 * 1024 * 1024

// Environment variables that override file values.
const (
	EnvLogLevel = "LOG_LEVEL"
	EnvHTTPAddr = "EDGEVIEWER_HTTP_ADDR"
	EnvSource   = "EDGEVIEWER_SOURCE"
)

type Config struct {
	// HTTPAddr is the viewer API listen address; empty disables the server.
	HTTPAddr string `json:"http_addr"`
	// Source is "camera:N" or a still image path; empty runs without capture.
	Source        string `json:"source"`
	CaptureWidth  int    `json:"capture_width"`
	CaptureHeight int    `json:"capture_height"`
	CaptureFPS    int    `json:"capture_fps"`

	OutputMode      string `json:"output_mode"`
	LogLevel        string `json:"log_level"`
	ShutdownTimeout string `json:"shutdown_timeout"`

	// Edge seeds the configuration store. Values are clamped, not rejected.
	Edge edgeconfig.Params `json:"edge"`
}

func Default() *Config {
	return &Config{
		HTTPAddr:        ":8080",
		Source:          "camera:0",
		CaptureWidth:    640,
		CaptureHeight:   480,
		CaptureFPS:      15,
		OutputMode:      string(processor.ModeOverlay),
		LogLevel:        "info",
		ShutdownTimeout: "10s",
		Edge:            edgeconfig.Defaults().Params(),
	}
}

// Load reads path over Default, so omitted fields keep their defaults.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides fields from the environment when the variables are set.
func (c *Config) ApplyEnv() {
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvHTTPAddr); ok {
		c.HTTPAddr = v
	}
	if v, ok := os.LookupEnv(EnvSource); ok {
		c.Source = v
	}
}

func (c *Config) Validate() error {
	if c.CaptureFPS < 1 || c.CaptureFPS > 120 {
		return fmt.Errorf("capture_fps must be between 1 and 120, got %d", c.CaptureFPS)
	}
	if c.CaptureWidth < 0 || c.CaptureHeight < 0 {
		return fmt.Errorf("capture size must not be negative, got %dx%d", c.CaptureWidth, c.CaptureHeight)
	}

	if _, err := processor.ParseOutputMode(c.OutputMode); err != nil {
		return fmt.Errorf("invalid output_mode: %w", err)
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}

	if _, err := c.Timeout(); err != nil {
		return err
	}

	return nil
}

// Timeout parses ShutdownTimeout, defaulting to ten seconds when empty.
func (c *Config) Timeout() (time.Duration, error) {
	if c.ShutdownTimeout == "" {
		return 10 * time.Second, nil
	}

	d, err := time.ParseDuration(c.ShutdownTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid shutdown_timeout '%s': %w", c.ShutdownTimeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("shutdown_timeout must be positive, got %s", d)
	}

	return d, nil
}

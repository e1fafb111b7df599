package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeBackend()
	c.normalizeMedia()
	c.normalizeStore()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ScratchDir) == "" {
		c.Paths.ScratchDir = defaultScratchDir
	}
	if c.Paths.ScratchDir, err = expandPath(c.Paths.ScratchDir); err != nil {
		return fmt.Errorf("paths.scratch_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeBackend() {
	c.Backend.BaseURL = strings.TrimRight(strings.TrimSpace(c.Backend.BaseURL), "/")
	if c.Backend.APIKey == "" {
		if value, ok := os.LookupEnv("PLAZA_API_KEY"); ok {
			c.Backend.APIKey = value
		}
	}
	c.Backend.APIKey = strings.TrimSpace(c.Backend.APIKey)
	c.Backend.UserID = strings.TrimSpace(c.Backend.UserID)
	if c.Backend.RequestTimeout <= 0 {
		c.Backend.RequestTimeout = defaultBackendTimeout
	}
}

func (c *Config) normalizeMedia() {
	if c.Media.MaxImageWidth <= 0 {
		c.Media.MaxImageWidth = defaultMaxImageWidth
	}
	if c.Media.MaxVideoHeight <= 0 {
		c.Media.MaxVideoHeight = defaultMaxVideoHeight
	}
	if c.Media.VideoBitrateKbps <= 0 {
		c.Media.VideoBitrateKbps = defaultVideoBitrateKbps
	}
	if c.Media.SmallVideoBytes <= 0 {
		c.Media.SmallVideoBytes = defaultSmallVideoBytes
	}
	c.Media.FFmpegBinary = strings.TrimSpace(c.Media.FFmpegBinary)
	c.Media.FFprobeBinary = strings.TrimSpace(c.Media.FFprobeBinary)
	c.Media.HeifBinary = strings.TrimSpace(c.Media.HeifBinary)
}

func (c *Config) normalizeStore() {
	if c.Store.ScrollTTLMinutes <= 0 {
		c.Store.ScrollTTLMinutes = defaultScrollTTLMinutes
	}
	if c.Store.PreviewTTLMinutes <= 0 {
		c.Store.PreviewTTLMinutes = defaultPreviewTTLMinutes
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

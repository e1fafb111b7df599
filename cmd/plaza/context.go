package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"plaza/internal/backend"
	"plaza/internal/config"
	"plaza/internal/localstore"
	"plaza/internal/logging"
	"plaza/internal/media/imageconv"
	"plaza/internal/media/videoconv"
	"plaza/internal/notifications"
	"plaza/internal/services/ffmpeg"
	"plaza/internal/services/heif"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg := c.configValue()
		if cfg == nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) imageConverter() (*imageconv.Converter, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	decoder := heif.NewDecoder(cfg.HeifBinary())
	return imageconv.New(cfg, decoder, c.ensureLogger()), nil
}

func (c *commandContext) videoCompressor() (*videoconv.Compressor, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	client := ffmpeg.NewClient(cfg.FFmpegBinary(), c.ensureLogger())
	prober := videoconv.NewProber(cfg.FFprobeBinary())
	return videoconv.New(cfg, client, prober, c.ensureLogger()), nil
}

func (c *commandContext) backendClient() (*backend.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return backend.New(cfg, c.ensureLogger()), nil
}

func (c *commandContext) notifier() notifications.Service {
	cfg := c.configValue()
	if cfg == nil {
		return notifications.NewService(&config.Config{})
	}
	return notifications.NewService(cfg)
}

// withStore opens the local store for the duration of fn. Opening takes the
// single-writer lock, so commands hold the store as briefly as possible.
func (c *commandContext) withStore(fn func(*localstore.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := localstore.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateBackend(); err != nil {
		return err
	}
	if err := c.validateMedia(); err != nil {
		return err
	}
	if err := c.validateAds(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateBackend() error {
	if c.Backend.BaseURL == "" {
		return nil
	}
	parsed, err := url.Parse(c.Backend.BaseURL)
	if err != nil {
		return fmt.Errorf("backend.base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("backend.base_url must be an http(s) URL, got %q", c.Backend.BaseURL)
	}
	return nil
}

func (c *Config) validateMedia() error {
	if c.Media.MaxImageWidth < 16 {
		return errors.New("media.max_image_width must be at least 16")
	}
	if c.Media.MaxVideoHeight < 144 {
		return errors.New("media.max_video_height must be at least 144")
	}
	if c.Media.VideoBitrateKbps < 100 {
		return errors.New("media.video_bitrate_kbps must be at least 100")
	}
	return nil
}

func (c *Config) validateAds() error {
	if c.Ads.Weight <= 0 {
		return errors.New("ads.weight must be positive")
	}
	if c.Ads.UrgencyWindowDays <= 0 {
		return errors.New("ads.urgency_window_days must be positive")
	}
	for name, value := range map[string]float64{
		"ads.priority_boost":     c.Ads.PriorityBoost,
		"ads.urgency_bonus":      c.Ads.UrgencyBonus,
		"ads.ctr_bonus_cap":      c.Ads.CTRBonusCap,
		"ads.impression_penalty": c.Ads.ImpressionPenalty,
		"ads.jitter_max":         c.Ads.JitterMax,
	} {
		if value < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout < 0 {
		return errors.New("notifications.request_timeout must not be negative")
	}
	if topic := strings.TrimSpace(c.Notifications.NtfyTopic); topic != "" {
		if parsed, err := url.Parse(topic); err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("notifications.ntfy_topic must be a full URL, got %q", topic)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StateDir   string `toml:"state_dir"`
	LogDir     string `toml:"log_dir"`
	ScratchDir string `toml:"scratch_dir"`
	OutputDir  string `toml:"output_dir"`
}

// Backend contains connection settings for the community backend service.
type Backend struct {
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	UserID         string `toml:"user_id"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Media contains settings for the conversion pipelines.
type Media struct {
	MaxImageWidth    int    `toml:"max_image_width"`
	MaxVideoHeight   int    `toml:"max_video_height"`
	VideoBitrateKbps int    `toml:"video_bitrate_kbps"`
	SmallVideoBytes  int64  `toml:"small_video_bytes"`
	FFmpegBinary     string `toml:"ffmpeg_binary"`
	FFprobeBinary    string `toml:"ffprobe_binary"`
	HeifBinary       string `toml:"heif_binary"`
}

// Ads contains the scoring weights for ad ranking.
type Ads struct {
	Weight            float64 `toml:"weight"`
	PriorityBoost     float64 `toml:"priority_boost"`
	UrgencyWindowDays int     `toml:"urgency_window_days"`
	UrgencyBonus      float64 `toml:"urgency_bonus"`
	CTRBonusCap       float64 `toml:"ctr_bonus_cap"`
	ImpressionPenalty float64 `toml:"impression_penalty"`
	JitterMax         float64 `toml:"jitter_max"`
}

// Store contains TTL settings for the local state store.
type Store struct {
	ScrollTTLMinutes  int `toml:"scroll_ttl_minutes"`
	PreviewTTLMinutes int `toml:"preview_ttl_minutes"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Uploads        bool   `toml:"uploads"`
	Errors         bool   `toml:"errors"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for Plaza.
//
// Configuration sections by subsystem:
//   - Paths: state, log, scratch, and output directories
//   - Backend: community backend base URL and credentials
//   - Media: image/video conversion bounds and external tool binaries
//   - Ads: ad ranking weights
//   - Store: local state TTLs
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Backend       Backend       `toml:"backend"`
	Media         Media         `toml:"media"`
	Ads           Ads           `toml:"ads"`
	Store         Store         `toml:"store"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/plaza/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a file existed at the resolved path.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("plaza.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories client operation requires.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir, c.Paths.ScratchDir, c.Paths.OutputDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable name.
func (c *Config) FFmpegBinary() string {
	if binary := strings.TrimSpace(c.Media.FFmpegBinary); binary != "" {
		return binary
	}
	return "ffmpeg"
}

// FFprobeBinary returns the ffprobe executable name used for media inspection.
func (c *Config) FFprobeBinary() string {
	if binary := strings.TrimSpace(c.Media.FFprobeBinary); binary != "" {
		return binary
	}
	return "ffprobe"
}

// HeifBinary returns the HEIC/HEIF decode executable name.
func (c *Config) HeifBinary() string {
	if binary := strings.TrimSpace(c.Media.HeifBinary); binary != "" {
		return binary
	}
	return "heif-convert"
}

// BackendTimeout returns the backend request timeout as a duration.
func (c *Config) BackendTimeout() time.Duration {
	if c.Backend.RequestTimeout <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.Backend.RequestTimeout) * time.Second
}

// ScrollTTL returns the scroll-position retention window.
func (c *Config) ScrollTTL() time.Duration {
	if c.Store.ScrollTTLMinutes <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.Store.ScrollTTLMinutes) * time.Minute
}

// PreviewTTL returns the link-preview cache retention window.
func (c *Config) PreviewTTL() time.Duration {
	if c.Store.PreviewTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.Store.PreviewTTLMinutes) * time.Minute
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

package config

const (
	defaultStateDir   = "~/.local/share/plaza/state"
	defaultLogDir     = "~/.local/share/plaza/logs"
	defaultScratchDir = "~/.cache/plaza/scratch"
	defaultOutputDir  = "~/.cache/plaza/converted"

	defaultBackendTimeout = 15

	defaultMaxImageWidth    = 1024
	defaultMaxVideoHeight   = 720
	defaultVideoBitrateKbps = 2500
	defaultSmallVideoBytes  = 10 << 20

	defaultAdWeight            = 1.0
	defaultAdPriorityBoost     = 10
	defaultAdUrgencyWindowDays = 3
	defaultAdUrgencyBonus      = 100
	defaultAdCTRBonusCap       = 30
	defaultAdImpressionPenalty = 15
	defaultAdJitterMax         = 50

	defaultScrollTTLMinutes  = 5
	defaultPreviewTTLMinutes = 60

	defaultNotifyTimeout = 10

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir:   defaultStateDir,
			LogDir:     defaultLogDir,
			ScratchDir: defaultScratchDir,
			OutputDir:  defaultOutputDir,
		},
		Backend: Backend{
			RequestTimeout: defaultBackendTimeout,
		},
		Media: Media{
			MaxImageWidth:    defaultMaxImageWidth,
			MaxVideoHeight:   defaultMaxVideoHeight,
			VideoBitrateKbps: defaultVideoBitrateKbps,
			SmallVideoBytes:  defaultSmallVideoBytes,
		},
		Ads: Ads{
			Weight:            defaultAdWeight,
			PriorityBoost:     defaultAdPriorityBoost,
			UrgencyWindowDays: defaultAdUrgencyWindowDays,
			UrgencyBonus:      defaultAdUrgencyBonus,
			CTRBonusCap:       defaultAdCTRBonusCap,
			ImpressionPenalty: defaultAdImpressionPenalty,
			JitterMax:         defaultAdJitterMax,
		},
		Store: Store{
			ScrollTTLMinutes:  defaultScrollTTLMinutes,
			PreviewTTLMinutes: defaultPreviewTTLMinutes,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Uploads:        true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

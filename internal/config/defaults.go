package config

const (
	defaultDataDir            = "~/.local/share/waymark"
	defaultLogDir             = "~/.local/share/waymark/logs"
	defaultQueueCeiling       = 2000
	defaultProvider           = "gps"
	defaultBatchSize          = 25
	defaultPollInterval       = 30
	defaultErrorRetryInterval = 120
	defaultRequestTimeout     = 15
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Queue: Queue{
			Ceiling:         defaultQueueCeiling,
			DefaultProvider: defaultProvider,
		},
		Uploader: Uploader{
			Enabled:            false,
			BatchSize:          defaultBatchSize,
			PollInterval:       defaultPollInterval,
			ErrorRetryInterval: defaultErrorRetryInterval,
			RequestTimeout:     defaultRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

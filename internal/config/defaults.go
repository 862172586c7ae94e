package config

const (
	defaultWatchDir            = "~/Downloads"
	defaultLibraryDir          = "~/Downloads"
	defaultLogDir              = "~/.local/share/downfileorg/logs"
	defaultModelPath           = "~/.config/downfileorg/model.json"
	defaultThresholdProfile    = "confident"
	defaultStabilityWindowMS   = 2000
	defaultPollIntervalMS      = 500
	defaultMinFileSize         = 1024
	defaultRestartAttempts     = 3
	defaultMoveRetries         = 3
	defaultRetryBackoffMS      = 500
	defaultQueuePollInterval   = 2
	defaultErrorRetryInterval  = 5
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WatchDir:   defaultWatchDir,
			LibraryDir: defaultLibraryDir,
			LogDir:     defaultLogDir,
		},
		Classifier: Classifier{
			ModelPath:        defaultModelPath,
			ThresholdProfile: defaultThresholdProfile,
		},
		Monitor: Monitor{
			Enabled:           true,
			StabilityWindowMS: defaultStabilityWindowMS,
			PollIntervalMS:    defaultPollIntervalMS,
			MinFileSize:       defaultMinFileSize,
			RestartAttempts:   defaultRestartAttempts,
			OrganizeExisting:  true,
		},
		Organizer: Organizer{
			MoveRetries:    defaultMoveRetries,
			RetryBackoffMS: defaultRetryBackoffMS,
		},
		Workflow: Workflow{
			QueuePollInterval:  defaultQueuePollInterval,
			ErrorRetryInterval: defaultErrorRetryInterval,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

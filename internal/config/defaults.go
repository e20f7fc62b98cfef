package config

const (
	defaultStagingDir     = "~/.local/share/recap/staging"
	defaultOutputDir      = "~/recaps"
	defaultLogDir         = "~/.local/share/recap/logs"
	defaultGeminiBaseURL  = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel    = "gemini-1.5-flash-latest"
	defaultGeminiTimeout  = 60
	defaultWhisperBinary  = "whisper"
	defaultWhisperModel   = "base"
	defaultYtDlpBinary    = "yt-dlp"
	defaultNotifyTimeout  = 10
	defaultHistoryEnabled = true
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			OutputDir:  defaultOutputDir,
			LogDir:     defaultLogDir,
		},
		Gemini: Gemini{
			BaseURL:        defaultGeminiBaseURL,
			Model:          defaultGeminiModel,
			TimeoutSeconds: defaultGeminiTimeout,
		},
		Whisper: Whisper{
			Binary: defaultWhisperBinary,
			Model:  defaultWhisperModel,
		},
		YtDlp: YtDlp{
			Binary: defaultYtDlpBinary,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		History: History{
			Enabled: defaultHistoryEnabled,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

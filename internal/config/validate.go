package config

import (
	"fmt"

	"recap/internal/services/whisper"
)

// Validate ensures the configuration is usable. The Gemini API key is
// intentionally not required here; the CLI resolves it per run and can
// prompt interactively.
func (c *Config) Validate() error {
	if err := c.validateWhisper(); err != nil {
		return err
	}
	if err := ensurePositiveMap(map[string]int{
		"gemini.timeout_seconds":        c.Gemini.TimeoutSeconds,
		"notifications.request_timeout": c.Notifications.RequestTimeout,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateWhisper() error {
	if _, err := whisper.ParseModel(c.Whisper.Model); err != nil {
		return fmt.Errorf("whisper.model: %w", err)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}

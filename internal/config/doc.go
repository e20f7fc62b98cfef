// Package config loads, normalizes, and validates recap's TOML
// configuration.
//
// Configuration is resolved from --config, then
// ~/.config/recap/config.toml, then ./recap.toml; a missing file is
// fine and yields defaults. Path fields are tilde-expanded and made
// absolute during load. The Gemini API key may come from the file or
// the GEMINI_API_KEY environment variable; it is deliberately not
// required at load time so the CLI can prompt for it.
package config

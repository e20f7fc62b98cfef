// Package notifications delivers run lifecycle events via ntfy.
//
// The service publishes to the topic configured in config.toml and
// gracefully degrades to a no-op when notifications are disabled, so
// callers can publish unconditionally. Events cover run completion and
// failure; all pipeline code depends only on the simple Service
// interface.
package notifications

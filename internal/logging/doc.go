// Package logging configures slog output for the CLI.
//
// Console format renders compact single-line records (UTC timestamp,
// level, component prefix, key=value attributes); json format emits
// machine-readable records with normalized ts/level/msg keys. Helpers
// mirror the slog attribute constructors so call sites stay terse, and
// WithContext stamps run and stage correlation fields pulled from the
// request context.
package logging

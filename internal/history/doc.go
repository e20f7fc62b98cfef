// Package history records completed summarization runs in a local
// SQLite database. Recording is best effort; callers treat failures
// as non-fatal.
package history

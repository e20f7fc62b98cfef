// Package record renders, persists, and parses stored summary files.
package record

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"recap/internal/logging"
	"recap/internal/services"
)

const stageName = "persist"

const (
	delimiter  = "=================================================="
	timeLayout = "2006-01-02 15:04:05"
	nameLayout = "20060102-150405"
)

// StoredSummary is the parsed form of a persisted summary file.
type StoredSummary struct {
	Source    string
	CreatedAt time.Time
	Summary   string
}

// Render produces the canonical file content for a summary.
func Render(summary, source string, createdAt time.Time) string {
	var b strings.Builder
	b.Grow(len(summary) + len(source) + 160)
	b.WriteString("Summary of: ")
	b.WriteString(source)
	b.WriteString("\n")
	b.WriteString("Date: ")
	b.WriteString(createdAt.Format(timeLayout))
	b.WriteString("\n")
	b.WriteString(delimiter)
	b.WriteString("\n\n")
	b.WriteString(strings.TrimRight(summary, "\n"))
	b.WriteString("\n\n")
	b.WriteString(delimiter)
	b.WriteString("\n")
	return b.String()
}

// Parse reads a rendered record back into its parts.
func Parse(data []byte) (StoredSummary, error) {
	var stored StoredSummary
	lines := strings.Split(string(data), "\n")
	if len(lines) < 5 {
		return stored, fmt.Errorf("parse record: truncated content")
	}

	source, ok := strings.CutPrefix(lines[0], "Summary of: ")
	if !ok {
		return stored, fmt.Errorf("parse record: missing source header")
	}
	dateText, ok := strings.CutPrefix(lines[1], "Date: ")
	if !ok {
		return stored, fmt.Errorf("parse record: missing date header")
	}
	createdAt, err := time.ParseInLocation(timeLayout, strings.TrimSpace(dateText), time.Local)
	if err != nil {
		return stored, fmt.Errorf("parse record: bad date: %w", err)
	}
	if lines[2] != delimiter {
		return stored, fmt.Errorf("parse record: missing opening delimiter")
	}

	rest := strings.Join(lines[3:], "\n")
	end := strings.LastIndex(rest, "\n"+delimiter)
	if end < 0 {
		return stored, fmt.Errorf("parse record: missing closing delimiter")
	}

	stored.Source = strings.TrimSpace(source)
	stored.CreatedAt = createdAt
	stored.Summary = strings.TrimSpace(rest[:end])
	return stored, nil
}

// Writer persists summaries into an output directory with
// clock-derived file names.
type Writer struct {
	outputDir string
	now       func() time.Time
	logger    *slog.Logger
}

// NewWriter constructs a Writer for the given output directory.
func NewWriter(outputDir string, logger *slog.Logger) *Writer {
	return &Writer{
		outputDir: strings.TrimSpace(outputDir),
		now:       time.Now,
		logger:    logging.NewComponentLogger(logger, "recorder"),
	}
}

// WithClock sets a custom clock (for testing).
func (w *Writer) WithClock(now func() time.Time) {
	if now != nil {
		w.now = now
	}
}

// Write persists the summary and returns the file path. Failures are
// tagged as persistence errors, which the pipeline treats as non-fatal.
func (w *Writer) Write(summary, source string) (string, error) {
	if strings.TrimSpace(summary) == "" {
		return "", services.Wrap(services.ErrPersistence, stageName, "validate", "no summary to persist", nil)
	}
	if w.outputDir == "" {
		return "", services.Wrap(services.ErrPersistence, stageName, "configure", "no output directory configured", nil)
	}
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrPersistence, stageName, "prepare", "could not create output directory", err)
	}

	createdAt := w.now()
	path := filepath.Join(w.outputDir, "summary-"+createdAt.Format(nameLayout)+".txt")
	if err := os.WriteFile(path, []byte(Render(summary, source, createdAt)), 0o644); err != nil {
		return "", services.Wrap(services.ErrPersistence, stageName, "write", "could not write summary file", err)
	}

	w.logger.Info("summary persisted", logging.String("path", path))
	return path, nil
}

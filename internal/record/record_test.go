package record_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"recap/internal/logging"
	"recap/internal/record"
	"recap/internal/services"
)

func TestRenderLayout(t *testing.T) {
	createdAt := time.Date(2024, 5, 17, 9, 30, 45, 0, time.Local)
	content := record.Render("- first point\n- second point", "https://example.com/watch?v=abc", createdAt)

	lines := strings.Split(content, "\n")
	if lines[0] != "Summary of: https://example.com/watch?v=abc" {
		t.Fatalf("unexpected source line: %q", lines[0])
	}
	if lines[1] != "Date: 2024-05-17 09:30:45" {
		t.Fatalf("unexpected date line: %q", lines[1])
	}
	if lines[2] != strings.Repeat("=", 50) {
		t.Fatalf("unexpected opening delimiter: %q", lines[2])
	}
	if !strings.HasSuffix(content, "\n\n"+strings.Repeat("=", 50)+"\n") {
		t.Fatalf("content missing closing delimiter: %q", content)
	}
}

func TestParseRoundTrip(t *testing.T) {
	createdAt := time.Date(2024, 5, 17, 9, 30, 45, 0, time.Local)
	summary := "- covers the main argument\n- lists three supporting examples"
	content := record.Render(summary, "https://example.com/v/1", createdAt)

	stored, err := record.Parse([]byte(content))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if stored.Source != "https://example.com/v/1" {
		t.Fatalf("unexpected source: %q", stored.Source)
	}
	if !stored.CreatedAt.Equal(createdAt) {
		t.Fatalf("unexpected timestamp: %v", stored.CreatedAt)
	}
	if stored.Summary != summary {
		t.Fatalf("unexpected summary: %q", stored.Summary)
	}
}

func TestParseRejectsMalformedContent(t *testing.T) {
	cases := map[string]string{
		"empty":             "",
		"missing source":    "Date: 2024-05-17 09:30:45\nrest\nrest\nrest\nrest",
		"missing date":      "Summary of: x\nrest\nrest\nrest\nrest",
		"bad date":          "Summary of: x\nDate: yesterday\n" + strings.Repeat("=", 50) + "\n\nbody\n\n" + strings.Repeat("=", 50) + "\n",
		"missing delimiter": "Summary of: x\nDate: 2024-05-17 09:30:45\nbody\nbody\nbody",
		"unterminated":      "Summary of: x\nDate: 2024-05-17 09:30:45\n" + strings.Repeat("=", 50) + "\n\nbody",
	}
	for name, content := range cases {
		if _, err := record.Parse([]byte(content)); err == nil {
			t.Fatalf("%s: expected parse error", name)
		}
	}
}

func TestWriterNamesFileFromClock(t *testing.T) {
	dir := t.TempDir()
	writer := record.NewWriter(dir, logging.NewNop())
	writer.WithClock(func() time.Time {
		return time.Date(2024, 5, 17, 9, 30, 45, 0, time.Local)
	})

	path, err := writer.Write("- a point", "https://example.com/v/2")
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if filepath.Base(path) != "summary-20240517-093045.txt" {
		t.Fatalf("unexpected file name: %q", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading record: %v", err)
	}
	stored, err := record.Parse(data)
	if err != nil {
		t.Fatalf("parsing written record: %v", err)
	}
	if stored.Summary != "- a point" {
		t.Fatalf("unexpected stored summary: %q", stored.Summary)
	}
}

func TestWriterCreatesOutputDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "summaries")
	writer := record.NewWriter(dir, logging.NewNop())

	path, err := writer.Write("- a point", "https://example.com/v/3")
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected record file on disk: %v", err)
	}
}

func TestWriterWrapsFailuresAsPersistence(t *testing.T) {
	dir := t.TempDir()
	blocked := filepath.Join(dir, "blocked")
	if err := os.WriteFile(blocked, []byte("file, not dir"), 0o644); err != nil {
		t.Fatalf("seeding blocking file: %v", err)
	}

	writer := record.NewWriter(filepath.Join(blocked, "out"), logging.NewNop())
	_, err := writer.Write("- a point", "https://example.com/v/4")
	if err == nil {
		t.Fatal("expected write failure")
	}
	if !errors.Is(err, services.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}

func TestWriterRejectsEmptySummary(t *testing.T) {
	writer := record.NewWriter(t.TempDir(), logging.NewNop())
	if _, err := writer.Write("   ", "https://example.com/v/5"); !errors.Is(err, services.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}

package ytdlp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Format selectors passed to yt-dlp's -f flag.
const (
	FormatBestAudio = "bestaudio"
	FormatWorst     = "worst"
)

// DefaultBinary is the command name used when none is configured.
const DefaultBinary = "yt-dlp"

// downloadStem is the fixed artifact base name inside the destination dir.
const downloadStem = "download"

// Config captures runtime settings for yt-dlp operations.
type Config struct {
	// Binary is the yt-dlp command name or path.
	Binary string
	// TimeoutSeconds bounds a single download, 0 means no limit.
	TimeoutSeconds int
}

// Client wraps yt-dlp CLI interactions.
type Client struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewClient constructs a yt-dlp client with the given configuration.
func NewClient(cfg Config) *Client {
	cfg.Binary = strings.TrimSpace(cfg.Binary)
	if cfg.Binary == "" {
		cfg.Binary = DefaultBinary
	}
	return &Client{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (c *Client) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	c.commandRunner = runner
}

// Binary returns the configured command name for diagnostics.
func (c *Client) Binary() string {
	return c.cfg.Binary
}

// FetchAudio downloads the audio stream of source into destDir and returns
// the path of the produced file. The best available audio-only format is
// requested first; when the source offers no separated audio stream the
// download is retried once with the lowest-quality muxed format.
func (c *Client) FetchAudio(ctx context.Context, source, destDir string) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", errors.New("yt-dlp fetch: source required")
	}
	if strings.TrimSpace(destDir) == "" {
		return "", errors.New("yt-dlp fetch: destination directory required")
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("yt-dlp fetch: ensure destination: %w", err)
	}

	if c.cfg.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	template := filepath.Join(destDir, downloadStem+".%(ext)s")
	if _, err := c.run(ctx, buildFetchArgs(FormatBestAudio, template, source)...); err != nil {
		if ctx.Err() != nil || !formatUnavailable(err) {
			return "", fmt.Errorf("yt-dlp fetch: %w", err)
		}
		if _, retryErr := c.run(ctx, buildFetchArgs(FormatWorst, template, source)...); retryErr != nil {
			return "", fmt.Errorf("yt-dlp fetch fallback: %w", retryErr)
		}
	}
	return locateDownload(destDir)
}

// Update runs the binary's self-updater and returns its output.
func (c *Client) Update(ctx context.Context) (string, error) {
	output, err := c.run(ctx, "-U")
	if err != nil {
		return "", fmt.Errorf("yt-dlp update: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// Version reports the installed yt-dlp version.
func (c *Client) Version(ctx context.Context) (string, error) {
	output, err := c.run(ctx, "--version")
	if err != nil {
		return "", fmt.Errorf("yt-dlp version: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	if c.commandRunner != nil {
		return c.commandRunner(ctx, c.cfg.Binary, args...)
	}
	cmd := exec.CommandContext(ctx, c.cfg.Binary, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, fmt.Errorf("%s: %w: %s", c.cfg.Binary, err, strings.TrimSpace(string(output)))
	}
	return output, nil
}

func buildFetchArgs(format, template, source string) []string {
	return []string{
		"-f", format,
		"--no-playlist",
		"--no-progress",
		"-o", template,
		source,
	}
}

// formatUnavailable reports whether err is yt-dlp's refusal to satisfy the
// requested format selector.
func formatUnavailable(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "requested format is not available")
}

// locateDownload finds the produced artifact, skipping partial-download
// droppings yt-dlp may leave behind.
func locateDownload(destDir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(destDir, downloadStem+".*"))
	if err != nil {
		return "", fmt.Errorf("yt-dlp fetch: scan destination: %w", err)
	}
	var best string
	var bestSize int64
	for _, match := range matches {
		switch strings.ToLower(filepath.Ext(match)) {
		case ".part", ".ytdl", ".tmp":
			continue
		}
		info, err := os.Stat(match)
		if err != nil || info.IsDir() || info.Size() == 0 {
			continue
		}
		if best == "" || info.Size() > bestSize {
			best = match
			bestSize = info.Size()
		}
	}
	if best == "" {
		return "", fmt.Errorf("yt-dlp fetch: no audio artifact under %s", destDir)
	}
	return best, nil
}

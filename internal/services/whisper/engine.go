package whisper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultBinary is the command name used when none is configured.
const DefaultBinary = "whisper"

// Config captures runtime settings for transcription.
type Config struct {
	// Binary is the whisper command name or path.
	Binary string
	// Model selects the model size.
	Model Model
	// Language is the spoken-language hint, empty means auto-detect.
	Language string
	// Threads bounds CPU threads, 0 leaves the tool's default.
	Threads int
}

// Engine wraps whisper CLI interactions.
type Engine struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewEngine creates an engine with the given configuration.
func NewEngine(cfg Config) *Engine {
	cfg.Binary = strings.TrimSpace(cfg.Binary)
	if cfg.Binary == "" {
		cfg.Binary = DefaultBinary
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	cfg.Language = strings.TrimSpace(cfg.Language)
	return &Engine{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (e *Engine) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	e.commandRunner = runner
}

// Model returns the configured model size for logging.
func (e *Engine) Model() Model {
	return e.cfg.Model
}

// Binary returns the configured command name for diagnostics.
func (e *Engine) Binary() string {
	return e.cfg.Binary
}

// Transcribe runs whisper on audioPath, writing tool output into
// outputDir, and returns the transcript text.
func (e *Engine) Transcribe(ctx context.Context, audioPath, outputDir string) (string, error) {
	if strings.TrimSpace(audioPath) == "" {
		return "", errors.New("whisper: audio path required")
	}
	if outputDir == "" {
		outputDir = filepath.Dir(audioPath)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("whisper: ensure output dir: %w", err)
	}

	if err := e.run(ctx, e.cfg.Binary, e.buildArgs(audioPath, outputDir)...); err != nil {
		return "", fmt.Errorf("whisper: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	transcriptPath := filepath.Join(outputDir, stem+".txt")
	data, err := os.ReadFile(transcriptPath)
	if err != nil {
		return "", fmt.Errorf("whisper: read transcript: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// buildArgs constructs the whisper command arguments.
func (e *Engine) buildArgs(audioPath, outputDir string) []string {
	args := []string{
		audioPath,
		"--model", string(e.cfg.Model),
		"--output_dir", outputDir,
		"--output_format", "txt",
		"--fp16", "False",
	}
	if e.cfg.Language != "" {
		args = append(args, "--language", e.cfg.Language)
	}
	if e.cfg.Threads > 0 {
		args = append(args, "--threads", strconv.Itoa(e.cfg.Threads))
	}
	return args
}

// run executes a command, using the custom runner if set.
func (e *Engine) run(ctx context.Context, name string, args ...string) error {
	if e.commandRunner != nil {
		return e.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

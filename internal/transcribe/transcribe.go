// Package transcribe turns staged audio into transcript text.
package transcribe

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"

	"recap/internal/logging"
	"recap/internal/services"
)

const stageName = "transcribe"

// Engine converts an audio file into transcript text, writing tool
// output into outputDir.
type Engine interface {
	Transcribe(ctx context.Context, audioPath, outputDir string) (string, error)
}

// Transcriber wraps an Engine with lazy construction: the expensive
// model setup happens on the first Transcribe call only, and the warmed
// engine is reused by every later call in the same process.
type Transcriber struct {
	build  func() (Engine, error)
	logger *slog.Logger

	once    sync.Once
	engine  Engine
	initErr error
}

// New constructs a Transcriber around an engine builder. The builder
// runs at most once.
func New(build func() (Engine, error), logger *slog.Logger) *Transcriber {
	return &Transcriber{
		build:  build,
		logger: logging.NewComponentLogger(logger, "transcriber"),
	}
}

// Transcribe returns the transcript of the staged audio artifact. Tool
// output lands next to the audio so run-directory cleanup covers it.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if audioPath == "" {
		return "", services.Wrap(services.ErrTranscription, stageName, "validate", "no audio artifact to transcribe", nil)
	}
	if t.build == nil {
		return "", services.Wrap(services.ErrTranscription, stageName, "configure", "no transcription engine configured", nil)
	}

	log := logging.WithContext(ctx, t.logger)
	t.once.Do(func() {
		log.Info("initializing transcription engine")
		t.engine, t.initErr = t.build()
	})
	if t.initErr != nil {
		return "", services.Wrap(services.ErrTranscription, stageName, "initialize", "could not initialize transcription engine", t.initErr)
	}

	log.Info("transcribing audio", logging.String("audio", audioPath))
	text, err := t.engine.Transcribe(ctx, audioPath, filepath.Dir(audioPath))
	if err != nil {
		return "", services.Wrap(services.ErrTranscription, stageName, "run", "audio transcription failed", err)
	}
	if text == "" {
		return "", services.Wrap(services.ErrTranscription, stageName, "run", "transcription produced an empty transcript", nil)
	}
	return text, nil
}

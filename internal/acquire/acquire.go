// Package acquire stages remote audio into per-run working directories.
package acquire

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"recap/internal/fileutil"
	"recap/internal/logging"
	"recap/internal/services"
)

const stageName = "acquire"

// AudioFileName is the well-known artifact name inside a run directory.
const AudioFileName = "audio.m4a"

// Fetcher downloads the audio stream of a source into destDir and
// returns the path of the produced file.
type Fetcher interface {
	FetchAudio(ctx context.Context, source, destDir string) (string, error)
}

// Artifact is a staged audio file owned by a single pipeline run.
type Artifact struct {
	// Path is the staged audio file.
	Path string

	runDir string
	logger *slog.Logger
	once   sync.Once
}

// Release removes the artifact's run directory. Safe to call multiple
// times, on a nil artifact, and on partially staged state.
func (a *Artifact) Release() {
	if a == nil {
		return
	}
	a.once.Do(func() {
		if a.runDir == "" {
			return
		}
		if err := os.RemoveAll(a.runDir); err != nil {
			a.logger.Warn("artifact cleanup failed",
				logging.Error(err),
				logging.String("run_dir", a.runDir))
			return
		}
		a.logger.Debug("artifact released", logging.String("run_dir", a.runDir))
	})
}

// Acquirer stages audio artifacts under the configured staging root.
type Acquirer struct {
	stagingRoot string
	fetcher     Fetcher
	logger      *slog.Logger
}

// New constructs an Acquirer. The fetcher is typically the yt-dlp client.
func New(stagingRoot string, fetcher Fetcher, logger *slog.Logger) *Acquirer {
	return &Acquirer{
		stagingRoot: strings.TrimSpace(stagingRoot),
		fetcher:     fetcher,
		logger:      logging.NewComponentLogger(logger, "acquirer"),
	}
}

// Acquire downloads the source's audio into a fresh run directory and
// returns the staged artifact. The caller owns Release.
func (a *Acquirer) Acquire(ctx context.Context, source string) (*Artifact, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, services.Wrap(services.ErrAcquisition, stageName, "validate", "no source locator provided", nil)
	}
	if a.fetcher == nil {
		return nil, services.Wrap(services.ErrAcquisition, stageName, "configure", "no audio fetcher configured", nil)
	}
	if a.stagingRoot == "" {
		return nil, services.Wrap(services.ErrAcquisition, stageName, "configure", "no staging directory configured", nil)
	}

	runID, ok := services.RunIDFromContext(ctx)
	if !ok {
		runID = uuid.NewString()
	}
	runDir := filepath.Join(a.stagingRoot, "runs", runID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrAcquisition, stageName, "stage", "could not create run directory", err)
	}
	artifact := &Artifact{runDir: runDir, logger: a.logger}

	log := logging.WithContext(ctx, a.logger)
	log.Info("fetching audio", logging.String("source", source))

	downloaded, err := a.fetcher.FetchAudio(ctx, source, runDir)
	if err != nil {
		artifact.Release()
		return nil, services.Wrap(services.ErrAcquisition, stageName, "fetch", "could not download audio from source", err)
	}

	staged := filepath.Join(runDir, AudioFileName)
	if downloaded != staged {
		if err := fileutil.MoveFile(downloaded, staged); err != nil {
			artifact.Release()
			return nil, services.Wrap(services.ErrAcquisition, stageName, "stage", "could not stage downloaded audio", err)
		}
	}
	artifact.Path = staged

	log.Info("audio staged", logging.String("path", staged))
	return artifact, nil
}

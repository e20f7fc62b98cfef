package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"recap/internal/acquire"
	"recap/internal/history"
	"recap/internal/logging"
	"recap/internal/notifications"
	"recap/internal/progress"
	"recap/internal/services"
)

// Acquirer stages the audio artifact for a source.
type Acquirer interface {
	Acquire(ctx context.Context, source string) (*acquire.Artifact, error)
}

// Transcriber turns staged audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Summarizer condenses a transcript into bullet points.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}

// Recorder persists a finished summary and returns the file path.
type Recorder interface {
	Write(summary, source string) (string, error)
}

// Request describes one summarization run.
type Request struct {
	Source string
	Save   bool
}

// Outcome is the uniform result of a successful run. PersistenceErr is
// set when the caller asked to save and the write failed; the summary
// is still good.
type Outcome struct {
	RunID          string
	Source         string
	Summary        string
	OutputPath     string
	PersistenceErr error
	Duration       time.Duration
}

// Config wires the runner's collaborators. Acquirer, Transcriber, and
// Summarizer are required; the rest degrade gracefully when absent.
type Config struct {
	Acquirer    Acquirer
	Transcriber Transcriber
	Summarizer  Summarizer
	Recorder    Recorder
	History     *history.Store
	Notifier    notifications.Service
	Spinner     progress.Starter
	Logger      *slog.Logger
	Model       string
}

// Runner executes summarization runs one at a time.
type Runner struct {
	acquirer    Acquirer
	transcriber Transcriber
	summarizer  Summarizer
	recorder    Recorder
	history     *history.Store
	notifier    notifications.Service
	spin        progress.Starter
	logger      *slog.Logger
	model       string

	mu          sync.Mutex
	state       State
	failedStage string
}

// NewRunner validates the wiring and constructs a Runner.
func NewRunner(cfg Config) (*Runner, error) {
	if cfg.Acquirer == nil || cfg.Transcriber == nil || cfg.Summarizer == nil {
		return nil, errors.New("pipeline requires acquirer, transcriber, and summarizer")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		acquirer:    cfg.Acquirer,
		transcriber: cfg.Transcriber,
		summarizer:  cfg.Summarizer,
		recorder:    cfg.Recorder,
		history:     cfg.History,
		notifier:    cfg.Notifier,
		spin:        cfg.Spinner,
		logger:      logging.NewComponentLogger(logger, "pipeline"),
		model:       strings.TrimSpace(cfg.Model),
		state:       StateIdle,
	}, nil
}

// CurrentState reports the runner's position in the state machine.
func (r *Runner) CurrentState() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// FailedStage names the stage a failed run stopped at, or empty.
func (r *Runner) FailedStage() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failedStage
}

// Run executes the pipeline for one request. On failure the returned
// error carries the stage and a user-facing message; the staged audio
// is released on every path, including cancellation.
func (r *Runner) Run(ctx context.Context, req Request) (*Outcome, error) {
	source := strings.TrimSpace(req.Source)
	if source == "" {
		return nil, services.Wrap(services.ErrConfiguration, "run", "validate", "no video address provided", nil)
	}
	if req.Save && r.recorder == nil {
		return nil, services.Wrap(services.ErrConfiguration, "run", "configure", "saving requested but no recorder configured", nil)
	}

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	logger := r.logger.With(logging.String(logging.FieldRunID, runID))

	r.reset()
	started := time.Now()
	outcome := &Outcome{RunID: runID, Source: source}
	logger.Info("run started", logging.String("source", source), logging.Bool("save", req.Save))

	if err := r.advance(StateAcquiring); err != nil {
		return nil, err
	}
	artifact, err := r.runAcquire(ctx, logger, source)
	if err != nil {
		return nil, r.failRun(ctx, outcome, err, started, logger)
	}
	defer artifact.Release()

	if err := r.advance(StateTranscribing); err != nil {
		return nil, err
	}
	transcript, err := r.runTranscribe(ctx, logger, artifact.Path)
	if err != nil {
		return nil, r.failRun(ctx, outcome, err, started, logger)
	}

	if err := r.advance(StateSummarizing); err != nil {
		return nil, err
	}
	summary, err := r.runSummarize(ctx, logger, transcript)
	if err != nil {
		return nil, r.failRun(ctx, outcome, err, started, logger)
	}
	outcome.Summary = summary

	if req.Save {
		if err := r.advance(StatePersisting); err != nil {
			return nil, err
		}
		outcome.OutputPath, outcome.PersistenceErr = r.runPersist(logger, summary, source)
	}

	if err := r.advance(StateDone); err != nil {
		return nil, err
	}
	outcome.Duration = time.Since(started)
	logger.Info("run completed",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Duration("elapsed", outcome.Duration),
		logging.Bool("persisted", outcome.OutputPath != ""),
	)
	r.report(ctx, outcome, nil)
	return outcome, nil
}

func (r *Runner) runAcquire(ctx context.Context, logger *slog.Logger, source string) (*acquire.Artifact, error) {
	ctx = services.WithStage(ctx, "acquire")
	finish := r.stageStart(logger, "acquire", "Fetching audio")
	artifact, err := r.acquirer.Acquire(ctx, source)
	finish(err)
	return artifact, err
}

func (r *Runner) runTranscribe(ctx context.Context, logger *slog.Logger, audioPath string) (string, error) {
	ctx = services.WithStage(ctx, "transcribe")
	finish := r.stageStart(logger, "transcribe", "Transcribing audio")
	transcript, err := r.transcriber.Transcribe(ctx, audioPath)
	finish(err)
	return transcript, err
}

func (r *Runner) runSummarize(ctx context.Context, logger *slog.Logger, transcript string) (string, error) {
	ctx = services.WithStage(ctx, "summarize")
	finish := r.stageStart(logger, "summarize", "Summarizing transcript")
	summary, err := r.summarizer.Summarize(ctx, transcript)
	finish(err)
	return summary, err
}

func (r *Runner) runPersist(logger *slog.Logger, summary, source string) (string, error) {
	finish := r.stageStart(logger, "persist", "Saving summary")
	path, err := r.recorder.Write(summary, source)
	finish(err)
	if err != nil {
		logger.Warn("summary not saved",
			logging.String(logging.FieldStage, "persist"),
			logging.Error(err),
		)
		return "", err
	}
	return path, nil
}

// stageStart logs the stage boundary and starts its spinner. The
// returned func stops the spinner and logs completion; it must run
// before the stage returns.
func (r *Runner) stageStart(logger *slog.Logger, stage, label string) func(error) {
	logger.Info("stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.String(logging.FieldStage, stage),
	)
	started := time.Now()
	spin := r.startSpinner(label)
	return func(err error) {
		spin.Stop()
		if err == nil {
			logger.Info("stage completed",
				logging.String(logging.FieldEventType, "stage_complete"),
				logging.String(logging.FieldStage, stage),
				logging.Duration("elapsed", time.Since(started)),
			)
		}
	}
}

func (r *Runner) startSpinner(label string) *progress.Spinner {
	if r.spin == nil {
		return nil
	}
	return r.spin(label)
}

// failRun marks the state machine failed, reports the run, and returns
// the original error for the caller.
func (r *Runner) failRun(ctx context.Context, outcome *Outcome, err error, started time.Time, logger *slog.Logger) error {
	details := services.Details(err)

	r.mu.Lock()
	r.state = StateFailed
	r.failedStage = details.Stage
	r.mu.Unlock()

	outcome.Duration = time.Since(started)
	logger.Error("run failed",
		logging.String(logging.FieldEventType, "run_failed"),
		logging.String(logging.FieldStage, details.Stage),
		logging.Duration("elapsed", outcome.Duration),
		logging.Error(err),
	)
	r.report(ctx, outcome, err)
	return err
}

// report appends the run to history and publishes a notification. Both
// are best effort and survive a cancelled run context.
func (r *Runner) report(ctx context.Context, outcome *Outcome, runErr error) {
	reportCtx := context.WithoutCancel(ctx)

	if r.history != nil {
		entry := history.Entry{
			RunID:       outcome.RunID,
			Source:      outcome.Source,
			Status:      history.StatusDone,
			SummaryPath: outcome.OutputPath,
			Model:       r.model,
			Duration:    outcome.Duration,
		}
		if runErr != nil {
			entry.Status = history.StatusFailed
			entry.Stage = services.Details(runErr).Stage
		}
		if _, err := r.history.Append(reportCtx, entry); err != nil {
			r.logger.Warn("history append failed", logging.Error(err))
		}
	}

	if r.notifier != nil {
		var err error
		if runErr != nil {
			err = r.notifier.Publish(reportCtx, notifications.EventRunFailed, notifications.Payload{
				"stage": services.Details(runErr).Stage,
				"error": services.UserMessage(runErr),
			})
		} else {
			err = r.notifier.Publish(reportCtx, notifications.EventRunCompleted, notifications.Payload{
				"source":      outcome.Source,
				"summaryPath": outcome.OutputPath,
			})
		}
		if err != nil {
			r.logger.Warn("notification failed", logging.Error(err))
		}
	}
}

func (r *Runner) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = StateIdle
	r.failedStage = ""
}

func (r *Runner) advance(to State) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !canTransition(r.state, to) {
		return fmt.Errorf("illegal state transition %s -> %s", r.state, to)
	}
	r.state = to
	return nil
}

package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recap/internal/acquire"
	"recap/internal/history"
	"recap/internal/logging"
	"recap/internal/notifications"
	"recap/internal/pipeline"
	"recap/internal/services"
)

type fetchFunc func(ctx context.Context, source, destDir string) (string, error)

func (f fetchFunc) FetchAudio(ctx context.Context, source, destDir string) (string, error) {
	return f(ctx, source, destDir)
}

func stagedFetcher() acquire.Fetcher {
	return fetchFunc(func(_ context.Context, _, destDir string) (string, error) {
		path := filepath.Join(destDir, "download.m4a")
		if err := os.WriteFile(path, []byte("audio-bytes"), 0o644); err != nil {
			return "", err
		}
		return path, nil
	})
}

type stubTranscriber struct {
	calls     int
	audioPath string
	text      string
	err       error
}

func (s *stubTranscriber) Transcribe(_ context.Context, audioPath string) (string, error) {
	s.calls++
	s.audioPath = audioPath
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

type stubSummarizer struct {
	calls      int
	transcript string
	text       string
	err        error
}

func (s *stubSummarizer) Summarize(_ context.Context, transcript string) (string, error) {
	s.calls++
	s.transcript = transcript
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

type stubRecorder struct {
	calls   int
	summary string
	source  string
	path    string
	err     error
}

func (s *stubRecorder) Write(summary, source string) (string, error) {
	s.calls++
	s.summary = summary
	s.source = source
	if s.err != nil {
		return "", s.err
	}
	return s.path, nil
}

type recordingNotifier struct {
	events   []notifications.Event
	payloads []notifications.Payload
}

func (n *recordingNotifier) Publish(_ context.Context, event notifications.Event, payload notifications.Payload) error {
	n.events = append(n.events, event)
	n.payloads = append(n.payloads, payload)
	return nil
}

func baseConfig(staging string) (pipeline.Config, *stubTranscriber, *stubSummarizer) {
	transcriber := &stubTranscriber{text: "transcript text"}
	summarizer := &stubSummarizer{text: "- first point\n- second point"}
	cfg := pipeline.Config{
		Acquirer:    acquire.New(staging, stagedFetcher(), logging.NewNop()),
		Transcriber: transcriber,
		Summarizer:  summarizer,
		Logger:      logging.NewNop(),
	}
	return cfg, transcriber, summarizer
}

func newTestRunner(t *testing.T, cfg pipeline.Config) *pipeline.Runner {
	t.Helper()
	runner, err := pipeline.NewRunner(cfg)
	if err != nil {
		t.Fatalf("NewRunner returned error: %v", err)
	}
	return runner
}

func runDirs(t *testing.T, staging string) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(staging, "runs"))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		t.Fatalf("reading staging runs: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

func TestRunProducesSummary(t *testing.T) {
	staging := t.TempDir()
	cfg, transcriber, summarizer := baseConfig(staging)
	runner := newTestRunner(t, cfg)

	outcome, err := runner.Run(context.Background(), pipeline.Request{Source: "https://example.com/watch?v=abc"})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if outcome.Summary != "- first point\n- second point" {
		t.Fatalf("unexpected summary: %q", outcome.Summary)
	}
	if outcome.RunID == "" {
		t.Fatal("expected outcome to carry a run ID")
	}
	if outcome.OutputPath != "" || outcome.PersistenceErr != nil {
		t.Fatalf("unexpected persistence outcome: path=%q err=%v", outcome.OutputPath, outcome.PersistenceErr)
	}
	if outcome.Duration <= 0 {
		t.Fatalf("expected positive duration, got %v", outcome.Duration)
	}
	if transcriber.calls != 1 {
		t.Fatalf("transcriber called %d times", transcriber.calls)
	}
	if !strings.HasSuffix(transcriber.audioPath, "audio.m4a") {
		t.Fatalf("transcriber received unexpected audio path %q", transcriber.audioPath)
	}
	if summarizer.transcript != "transcript text" {
		t.Fatalf("summarizer received transcript %q", summarizer.transcript)
	}
	if got := runner.CurrentState(); got != pipeline.StateDone {
		t.Fatalf("runner state = %s, want done", got)
	}
	if stage := runner.FailedStage(); stage != "" {
		t.Fatalf("unexpected failed stage %q", stage)
	}
	if dirs := runDirs(t, staging); len(dirs) != 0 {
		t.Fatalf("staged audio not released, leftover dirs: %v", dirs)
	}
}

func TestRunWithSaveRecordsSummary(t *testing.T) {
	staging := t.TempDir()
	cfg, _, _ := baseConfig(staging)
	recorder := &stubRecorder{path: filepath.Join(t.TempDir(), "summary-20240101-000000.txt")}
	cfg.Recorder = recorder
	runner := newTestRunner(t, cfg)

	outcome, err := runner.Run(context.Background(), pipeline.Request{Source: "https://example.com/v", Save: true})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if outcome.OutputPath != recorder.path {
		t.Fatalf("outcome path = %q, want %q", outcome.OutputPath, recorder.path)
	}
	if outcome.PersistenceErr != nil {
		t.Fatalf("unexpected persistence error: %v", outcome.PersistenceErr)
	}
	if recorder.calls != 1 {
		t.Fatalf("recorder called %d times", recorder.calls)
	}
	if recorder.summary != outcome.Summary {
		t.Fatalf("recorder received summary %q, want %q", recorder.summary, outcome.Summary)
	}
	if recorder.source != "https://example.com/v" {
		t.Fatalf("recorder received source %q", recorder.source)
	}
}

func TestRunPersistenceFailureDoesNotFailRun(t *testing.T) {
	staging := t.TempDir()
	cfg, _, _ := baseConfig(staging)
	cfg.Recorder = &stubRecorder{
		err: services.Wrap(services.ErrPersistence, "persist", "write", "could not write summary file", nil),
	}
	runner := newTestRunner(t, cfg)

	outcome, err := runner.Run(context.Background(), pipeline.Request{Source: "https://example.com/v", Save: true})
	if err != nil {
		t.Fatalf("persistence failure must not fail the run, got %v", err)
	}
	if outcome.Summary == "" {
		t.Fatal("summary lost on persistence failure")
	}
	if !errors.Is(outcome.PersistenceErr, services.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", outcome.PersistenceErr)
	}
	if outcome.OutputPath != "" {
		t.Fatalf("unexpected output path %q", outcome.OutputPath)
	}
	if got := runner.CurrentState(); got != pipeline.StateDone {
		t.Fatalf("runner state = %s, want done", got)
	}
}

func TestRunStopsAtTranscriptionFailure(t *testing.T) {
	staging := t.TempDir()
	cfg, transcriber, summarizer := baseConfig(staging)
	transcriber.err = services.Wrap(services.ErrTranscription, "transcribe", "execute", "whisper exited with status 1", nil)
	runner := newTestRunner(t, cfg)

	outcome, err := runner.Run(context.Background(), pipeline.Request{Source: "https://example.com/v"})
	if outcome != nil {
		t.Fatalf("expected nil outcome on failure, got %+v", outcome)
	}
	if !errors.Is(err, services.ErrTranscription) {
		t.Fatalf("expected transcription failure, got %v", err)
	}
	if summarizer.calls != 0 {
		t.Fatalf("summarizer ran after transcription failure (%d calls)", summarizer.calls)
	}
	if got := runner.CurrentState(); got != pipeline.StateFailed {
		t.Fatalf("runner state = %s, want failed", got)
	}
	if stage := runner.FailedStage(); stage != "transcribe" {
		t.Fatalf("failed stage = %q, want transcribe", stage)
	}
	if dirs := runDirs(t, staging); len(dirs) != 0 {
		t.Fatalf("staged audio not released after failure, leftover dirs: %v", dirs)
	}
}

func TestRunAcquisitionFailureLeavesNoArtifacts(t *testing.T) {
	staging := t.TempDir()
	cfg, transcriber, _ := baseConfig(staging)
	cfg.Acquirer = acquire.New(staging, fetchFunc(func(context.Context, string, string) (string, error) {
		return "", errors.New("network unreachable")
	}), logging.NewNop())
	runner := newTestRunner(t, cfg)

	_, err := runner.Run(context.Background(), pipeline.Request{Source: "https://example.com/v"})
	if !errors.Is(err, services.ErrAcquisition) {
		t.Fatalf("expected acquisition failure, got %v", err)
	}
	if transcriber.calls != 0 {
		t.Fatalf("transcriber ran after acquisition failure (%d calls)", transcriber.calls)
	}
	if stage := runner.FailedStage(); stage != "acquire" {
		t.Fatalf("failed stage = %q, want acquire", stage)
	}
	if dirs := runDirs(t, staging); len(dirs) != 0 {
		t.Fatalf("acquisition failure left staging dirs: %v", dirs)
	}
}

func TestRunRecordsHistory(t *testing.T) {
	staging := t.TempDir()
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("opening history store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	cfg, transcriber, _ := baseConfig(staging)
	cfg.History = store
	cfg.Model = "gemini-1.5-flash-latest"
	runner := newTestRunner(t, cfg)

	outcome, err := runner.Run(context.Background(), pipeline.Request{Source: "https://example.com/first"})
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	transcriber.err = services.Wrap(services.ErrTranscription, "transcribe", "execute", "whisper crashed", nil)
	if _, err := runner.Run(context.Background(), pipeline.Request{Source: "https://example.com/second"}); err == nil {
		t.Fatal("expected second run to fail")
	}

	entries, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("reading history: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(entries))
	}

	failed := entries[0]
	if failed.Status != history.StatusFailed || failed.Stage != "transcribe" {
		t.Fatalf("failed entry = %+v", failed)
	}
	if failed.Source != "https://example.com/second" {
		t.Fatalf("failed entry source = %q", failed.Source)
	}

	done := entries[1]
	if done.Status != history.StatusDone {
		t.Fatalf("done entry status = %q", done.Status)
	}
	if done.RunID != outcome.RunID {
		t.Fatalf("done entry run ID = %q, want %q", done.RunID, outcome.RunID)
	}
	if done.Model != "gemini-1.5-flash-latest" {
		t.Fatalf("done entry model = %q", done.Model)
	}
}

func TestRunSurvivesHistoryFailure(t *testing.T) {
	staging := t.TempDir()
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("opening history store: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("closing history store: %v", err)
	}

	cfg, _, _ := baseConfig(staging)
	cfg.History = store
	runner := newTestRunner(t, cfg)

	outcome, err := runner.Run(context.Background(), pipeline.Request{Source: "https://example.com/v"})
	if err != nil {
		t.Fatalf("run must survive a failing history store, got %v", err)
	}
	if outcome.Summary == "" {
		t.Fatal("expected a summary despite the history failure")
	}
}

func TestRunPublishesNotifications(t *testing.T) {
	staging := t.TempDir()
	cfg, _, summarizer := baseConfig(staging)
	notifier := &recordingNotifier{}
	cfg.Notifier = notifier
	runner := newTestRunner(t, cfg)

	if _, err := runner.Run(context.Background(), pipeline.Request{Source: "https://example.com/v"}); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	summarizer.err = services.Wrap(services.ErrSummarization, "summarize", "request", "model unavailable", nil)
	if _, err := runner.Run(context.Background(), pipeline.Request{Source: "https://example.com/v"}); err == nil {
		t.Fatal("expected summarization failure")
	}

	if len(notifier.events) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(notifier.events))
	}
	if notifier.events[0] != notifications.EventRunCompleted {
		t.Fatalf("first event = %q", notifier.events[0])
	}
	if got := notifier.payloads[0]["source"]; got != "https://example.com/v" {
		t.Fatalf("completed payload source = %q", got)
	}
	if notifier.events[1] != notifications.EventRunFailed {
		t.Fatalf("second event = %q", notifier.events[1])
	}
	if got := notifier.payloads[1]["stage"]; got != "summarize" {
		t.Fatalf("failed payload stage = %q", got)
	}
	if got := notifier.payloads[1]["error"]; got != "model unavailable" {
		t.Fatalf("failed payload error = %q", got)
	}
}

func TestRunRejectsEmptySource(t *testing.T) {
	cfg, _, _ := baseConfig(t.TempDir())
	runner := newTestRunner(t, cfg)

	_, err := runner.Run(context.Background(), pipeline.Request{Source: "  "})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestRunRejectsSaveWithoutRecorder(t *testing.T) {
	cfg, _, _ := baseConfig(t.TempDir())
	runner := newTestRunner(t, cfg)

	_, err := runner.Run(context.Background(), pipeline.Request{Source: "https://example.com/v", Save: true})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestNewRunnerRequiresCoreStages(t *testing.T) {
	cfg, _, _ := baseConfig(t.TempDir())
	cfg.Transcriber = nil
	if _, err := pipeline.NewRunner(cfg); err == nil {
		t.Fatal("expected error for missing transcriber")
	}

	cfg, _, _ = baseConfig(t.TempDir())
	cfg.Acquirer = nil
	if _, err := pipeline.NewRunner(cfg); err == nil {
		t.Fatal("expected error for missing acquirer")
	}
}

func TestRunnerCanBeReused(t *testing.T) {
	staging := t.TempDir()
	cfg, transcriber, _ := baseConfig(staging)
	runner := newTestRunner(t, cfg)

	transcriber.err = services.Wrap(services.ErrTranscription, "transcribe", "execute", "first attempt failed", nil)
	if _, err := runner.Run(context.Background(), pipeline.Request{Source: "https://example.com/v"}); err == nil {
		t.Fatal("expected first run to fail")
	}

	transcriber.err = nil
	outcome, err := runner.Run(context.Background(), pipeline.Request{Source: "https://example.com/v"})
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if outcome.Summary == "" {
		t.Fatal("second run produced no summary")
	}
	if got := runner.CurrentState(); got != pipeline.StateDone {
		t.Fatalf("runner state = %s, want done", got)
	}
	if stage := runner.FailedStage(); stage != "" {
		t.Fatalf("failed stage not cleared, got %q", stage)
	}
}

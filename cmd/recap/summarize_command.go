package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"recap/internal/acquire"
	"recap/internal/config"
	"recap/internal/deps"
	"recap/internal/history"
	"recap/internal/langtag"
	"recap/internal/logging"
	"recap/internal/notifications"
	"recap/internal/pipeline"
	"recap/internal/preflight"
	"recap/internal/progress"
	"recap/internal/record"
	"recap/internal/runlock"
	"recap/internal/services"
	"recap/internal/services/gemini"
	"recap/internal/services/whisper"
	"recap/internal/services/ytdlp"
	"recap/internal/summarize"
	"recap/internal/transcribe"
)

const summaryBanner = "============================================================"

func newSummarizeCommand(cmdCtx *commandContext) *cobra.Command {
	var urlFlag string
	var keyFlag string
	var modelFlag string
	var outputDirFlag string
	var saveFlag bool
	var noSpinner bool

	cmd := &cobra.Command{
		Use:   "summarize [url]",
		Short: "Summarize a remote video",
		Long:  "Download the audio track of a video, transcribe it locally, and print a bullet-point summary. The staged audio is removed when the run finishes, whether it succeeds or not.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := cmdCtx.ensureLogger()
			if err != nil {
				return err
			}

			source := strings.TrimSpace(urlFlag)
			if source == "" && len(args) > 0 {
				source = strings.TrimSpace(args[0])
			}
			if source == "" {
				if source, err = promptLine(cmd.OutOrStdout(), "Video URL: "); err != nil {
					return err
				}
			}
			if source == "" {
				return errors.New("no video address provided")
			}

			apiKey, err := resolveAPIKey(cmd.OutOrStdout(), cfg, keyFlag)
			if err != nil {
				return err
			}

			whisperModel := cfg.Whisper.Model
			if trimmed := strings.TrimSpace(modelFlag); trimmed != "" {
				parsed, err := whisper.ParseModel(trimmed)
				if err != nil {
					return err
				}
				whisperModel = string(parsed)
			}

			outputDir := cfg.Paths.OutputDir
			if trimmed := strings.TrimSpace(outputDirFlag); trimmed != "" {
				if outputDir, err = config.ExpandPath(trimmed); err != nil {
					return fmt.Errorf("resolve output directory: %w", err)
				}
			}

			lock, err := runlock.New(cfg.Paths.StagingDir)
			if err != nil {
				return fmt.Errorf("prepare run lock: %w", err)
			}
			if err := lock.Acquire(); err != nil {
				return err
			}
			defer func() { _ = lock.Release() }()

			warnMissingTools(cmd.ErrOrStderr(), cfg)

			runner, store, err := buildRunner(cmd, cfg, logger, runnerOptions{
				apiKey:       apiKey,
				whisperModel: whisperModel,
				outputDir:    outputDir,
				spinner:      !noSpinner,
			})
			if err != nil {
				return err
			}
			if store != nil {
				defer func() { _ = store.Close() }()
			}

			outcome, err := runner.Run(ctx, pipeline.Request{Source: source, Save: saveFlag})
			if err != nil {
				if hint := remediationHint(err); hint != "" {
					fmt.Fprintln(cmd.ErrOrStderr(), "Hint: "+hint)
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out)
			fmt.Fprintln(out, summaryBanner)
			fmt.Fprintln(out, outcome.Summary)
			fmt.Fprintln(out, summaryBanner)
			if outcome.OutputPath != "" {
				fmt.Fprintf(out, "Saved to %s\n", outcome.OutputPath)
			}
			if outcome.PersistenceErr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: summary not saved: %s\n", services.UserMessage(outcome.PersistenceErr))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&urlFlag, "url", "u", "", "Video address to summarize")
	cmd.Flags().StringVarP(&keyFlag, "key", "k", "", "Gemini API key (overrides config and environment)")
	cmd.Flags().StringVarP(&modelFlag, "model", "m", "", "Whisper model size ("+whisper.ModelNames()+")")
	cmd.Flags().StringVarP(&outputDirFlag, "output-dir", "o", "", "Directory for saved summaries")
	cmd.Flags().BoolVarP(&saveFlag, "save", "s", false, "Save the summary to a timestamped text file")
	cmd.Flags().BoolVar(&noSpinner, "no-spinner", false, "Disable stage progress spinners")

	return cmd
}

type runnerOptions struct {
	apiKey       string
	whisperModel string
	outputDir    string
	spinner      bool
}

// warnMissingTools reports absent external binaries without blocking
// the run; the failing stage gives the authoritative error.
func warnMissingTools(w io.Writer, cfg *config.Config) {
	statuses := preflight.CheckSystemDeps(cfg)
	if missing := deps.MissingRequired(statuses); len(missing) > 0 {
		fmt.Fprintf(w, "Warning: missing tools: %s (run `recap check` for details)\n", strings.Join(missing, ", "))
	}
}

// buildRunner assembles the pipeline collaborators from configuration.
// The returned history store, when non-nil, is owned by the caller.
func buildRunner(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, opts runnerOptions) (*pipeline.Runner, *history.Store, error) {
	fetcher := ytdlp.NewClient(ytdlp.Config{
		Binary:         cfg.YtDlp.Binary,
		TimeoutSeconds: cfg.YtDlp.TimeoutSeconds,
	})
	acquirer := acquire.New(cfg.Paths.StagingDir, fetcher, logger)

	transcriber := transcribe.New(func() (transcribe.Engine, error) {
		whisperModel, err := whisper.ParseModel(opts.whisperModel)
		if err != nil {
			return nil, err
		}
		language, err := langtag.Normalize(cfg.Whisper.Language)
		if err != nil {
			return nil, err
		}
		return whisper.NewEngine(whisper.Config{
			Binary:   cfg.Whisper.Binary,
			Model:    whisperModel,
			Language: language,
			Threads:  cfg.Whisper.Threads,
		}), nil
	}, logger)

	summarizer := summarize.New(gemini.NewClient(gemini.Config{
		APIKey:         opts.apiKey,
		BaseURL:        cfg.Gemini.BaseURL,
		Model:          cfg.Gemini.Model,
		TimeoutSeconds: cfg.Gemini.TimeoutSeconds,
	}), logger)

	var store *history.Store
	if cfg.History.Enabled {
		opened, err := history.Open(cfg.HistoryPath())
		if err != nil {
			logger.Warn("run history unavailable", logging.Error(err))
		} else {
			store = opened
		}
	}

	var spin progress.Starter
	if opts.spinner && isTerminal(cmd.ErrOrStderr()) {
		spin = progress.WriterStarter(cmd.ErrOrStderr())
	}

	runner, err := pipeline.NewRunner(pipeline.Config{
		Acquirer:    acquirer,
		Transcriber: transcriber,
		Summarizer:  summarizer,
		Recorder:    record.NewWriter(opts.outputDir, logger),
		History:     store,
		Notifier:    notifications.NewService(cfg.Notifications.NtfyTopic, cfg.Notifications.RequestTimeout),
		Spinner:     spin,
		Logger:      logger,
		Model:       cfg.Gemini.Model,
	})
	if err != nil {
		if store != nil {
			_ = store.Close()
		}
		return nil, nil, err
	}
	return runner, store, nil
}

// resolveAPIKey applies the credential precedence: the --key flag wins,
// then the configured key (config file over GEMINI_API_KEY), and as a
// last resort an interactive prompt.
func resolveAPIKey(out io.Writer, cfg *config.Config, flagValue string) (string, error) {
	if key := strings.TrimSpace(flagValue); key != "" {
		return key, nil
	}
	if key := strings.TrimSpace(cfg.Gemini.APIKey); key != "" {
		return key, nil
	}
	key, err := promptSecret(out, "Gemini API key: ")
	if err != nil {
		return "", err
	}
	if key == "" {
		return "", errors.New("no Gemini API key provided (set [gemini] api_key, GEMINI_API_KEY, or --key)")
	}
	return key, nil
}

func remediationHint(err error) string {
	switch {
	case errors.Is(err, services.ErrAcquisition):
		return "check that the address is correct and publicly reachable; if downloads recently broke, refresh the downloader with `recap deps update`"
	case errors.Is(err, services.ErrTranscription):
		return "confirm whisper and ffmpeg are installed and on PATH; `recap check` verifies the tools"
	case errors.Is(err, services.ErrSummarization):
		return "verify the API key and network connectivity; `recap check` probes the API"
	}
	return ""
}

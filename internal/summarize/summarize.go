// Package summarize turns transcript text into a bullet-point summary
// via the remote generative-text API.
package summarize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"recap/internal/logging"
	"recap/internal/services"
	"recap/internal/services/gemini"
)

const stageName = "summarize"

// Transcript delimiters inside the prompt body.
const (
	transcriptOpen  = "--- VIDEO TRANSCRIPT ---"
	transcriptClose = "--- END OF TRANSCRIPT ---"
)

// BuildPrompt renders the fixed summarization prompt for a transcript.
// Identical transcripts always produce byte-identical prompts.
func BuildPrompt(transcript string) string {
	var b strings.Builder
	b.Grow(len(transcript) + 320)
	b.WriteString("Based on the following transcript of a video, write a summary.\n")
	b.WriteString("The summary must be direct and concise, covering the main points and central ideas.\n")
	b.WriteString("Structure the summary as bullet points.\n")
	b.WriteString("\n")
	b.WriteString(transcriptOpen)
	b.WriteString("\n")
	b.WriteString(transcript)
	b.WriteString("\n")
	b.WriteString(transcriptClose)
	b.WriteString("\n")
	b.WriteString("\n")
	b.WriteString("Bullet-point summary:")
	return b.String()
}

// Client produces generated text from a prompt.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Summarizer drives a single prompt/response exchange per transcript.
type Summarizer struct {
	client Client
	logger *slog.Logger
}

// New constructs a Summarizer. The client is typically the gemini client.
func New(client Client, logger *slog.Logger) *Summarizer {
	return &Summarizer{
		client: client,
		logger: logging.NewComponentLogger(logger, "summarizer"),
	}
}

// Summarize requests a bullet-point summary of the transcript.
func (s *Summarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", services.Wrap(services.ErrSummarization, stageName, "validate", "no transcript to summarize", nil)
	}
	if s.client == nil {
		return "", services.Wrap(services.ErrSummarization, stageName, "configure", "no summarization client configured", nil)
	}

	log := logging.WithContext(ctx, s.logger)
	log.Info("requesting summary", logging.Int("transcript_chars", len(transcript)))

	summary, err := s.client.Generate(ctx, BuildPrompt(transcript))
	if err != nil {
		var statusErr *gemini.StatusError
		if errors.As(err, &statusErr) {
			return "", services.Wrap(
				services.ErrSummarization,
				stageName,
				"request",
				fmt.Sprintf("summarization API returned HTTP %d", statusErr.StatusCode),
				err,
			)
		}
		return "", services.Wrap(services.ErrSummarization, stageName, "request", "summarization request failed", err)
	}

	log.Info("summary received", logging.Int("summary_chars", len(summary)))
	return summary, nil
}

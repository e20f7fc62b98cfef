package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const userAgent = "recap/0.1.0"

// Event identifies a run lifecycle milestone worth announcing.
type Event string

const (
	// EventRunCompleted fires after a summary has been produced.
	EventRunCompleted Event = "run_completed"
	// EventRunFailed fires when a run aborts at any stage.
	EventRunFailed Event = "run_failed"
	// EventTest exercises the notification path on demand.
	EventTest Event = "test"
)

// Payload carries event-specific fields used to format the message.
type Payload map[string]string

// Service defines the notification surface exposed to the pipeline.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService builds a notification service backed by ntfy when a topic
// is configured. When topic is empty, a noop implementation is returned.
func NewService(topic string, requestTimeoutSeconds int) Service {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(requestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	msg, ok := format(event, payload)
	if !ok {
		return nil
	}
	return n.send(ctx, msg)
}

func format(event Event, payload Payload) (message, bool) {
	get := func(key string) string {
		return strings.TrimSpace(payload[key])
	}

	switch event {
	case EventRunCompleted:
		body := fmt.Sprintf("Summary ready: %s", get("source"))
		if path := get("summaryPath"); path != "" {
			body = fmt.Sprintf("%s\nSaved to: %s", body, path)
		}
		return message{
			title: "Recap - Summary Ready",
			body:  body,
			tags:  []string{"recap", "run", "completed"},
		}, true
	case EventRunFailed:
		stage := get("stage")
		if stage == "" {
			stage = "run"
		}
		reason := get("error")
		if reason == "" {
			reason = "unknown"
		}
		return message{
			title:    "Recap - Run Failed",
			body:     fmt.Sprintf("Failed during %s: %s", stage, reason),
			tags:     []string{"recap", "run", "failed"},
			priority: "high",
		}, true
	case EventTest:
		return message{
			title:    "Recap - Test",
			body:     "Notification system test",
			tags:     []string{"recap", "test"},
			priority: "low",
		}, true
	default:
		return message{}, false
	}
}

func (n *ntfyService) send(ctx context.Context, msg message) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(msg.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if msg.title != "" {
		req.Header.Set("Title", msg.title)
	}
	if len(msg.tags) > 0 {
		req.Header.Set("Tags", strings.Join(msg.tags, ","))
	}
	if msg.priority != "" && msg.priority != "default" {
		req.Header.Set("Priority", msg.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }

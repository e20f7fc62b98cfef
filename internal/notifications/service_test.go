package notifications_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"recap/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	svc := notifications.NewService("", 5)
	err := svc.Publish(context.Background(), notifications.EventRunCompleted, notifications.Payload{"source": "https://example.com"})
	if err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	tests := []struct {
		name           string
		event          notifications.Event
		payload        notifications.Payload
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name:  "run completed",
			event: notifications.EventRunCompleted,
			payload: notifications.Payload{
				"source":      "https://example.com/watch?v=abc",
				"summaryPath": "/data/summaries/summary-20240517-093045.txt",
			},
			expectTitle:   "Recap - Summary Ready",
			expectMessage: "Summary ready: https://example.com/watch?v=abc\nSaved to: /data/summaries/summary-20240517-093045.txt",
			expectTags:    "recap,run,completed",
		},
		{
			name:  "run completed without persistence",
			event: notifications.EventRunCompleted,
			payload: notifications.Payload{
				"source": "https://example.com/watch?v=abc",
			},
			expectTitle:   "Recap - Summary Ready",
			expectMessage: "Summary ready: https://example.com/watch?v=abc",
			expectTags:    "recap,run,completed",
		},
		{
			name:  "run failed",
			event: notifications.EventRunFailed,
			payload: notifications.Payload{
				"stage": "transcribe",
				"error": "whisper exited with status 1",
			},
			expectTitle:    "Recap - Run Failed",
			expectMessage:  "Failed during transcribe: whisper exited with status 1",
			expectTags:     "recap,run,failed",
			expectPriority: "high",
		},
		{
			name:           "test event",
			event:          notifications.EventTest,
			payload:        nil,
			expectTitle:    "Recap - Test",
			expectMessage:  "Notification system test",
			expectTags:     "recap,test",
			expectPriority: "low",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var captured struct {
				title    string
				tags     string
				priority string
				body     string
			}

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Fatalf("unexpected method: %s", r.Method)
				}
				captured.title = r.Header.Get("Title")
				captured.tags = r.Header.Get("Tags")
				captured.priority = r.Header.Get("Priority")
				body, err := io.ReadAll(r.Body)
				if err != nil {
					t.Fatalf("read body: %v", err)
				}
				captured.body = string(body)
				_ = r.Body.Close()
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			svc := notifications.NewService(server.URL, 5)
			if err := svc.Publish(context.Background(), tc.event, tc.payload); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}

			if captured.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, captured.title)
			}
			if captured.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, captured.body)
			}
			if captured.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, captured.tags)
			}
			if captured.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, captured.priority)
			}
		})
	}
}

func TestNtfyServiceIgnoresUnknownEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected call for unknown event: %s", r.URL.String())
	}))
	defer server.Close()

	svc := notifications.NewService(server.URL, 5)
	if err := svc.Publish(context.Background(), notifications.Event("mystery"), nil); err != nil {
		t.Fatalf("expected no error for unknown event, got %v", err)
	}
}

func TestNtfyServiceSurfacesHTTPFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	svc := notifications.NewService(server.URL, 5)
	err := svc.Publish(context.Background(), notifications.EventTest, nil)
	if err == nil {
		t.Fatal("expected error from failing endpoint")
	}
}

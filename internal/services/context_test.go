package services_test

import (
	"context"
	"testing"

	"recap/internal/services"
)

func TestRunIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	if _, ok := services.RunIDFromContext(ctx); ok {
		t.Fatal("expected no run id on fresh context")
	}

	ctx = services.WithRunID(ctx, "run-123")
	id, ok := services.RunIDFromContext(ctx)
	if !ok || id != "run-123" {
		t.Fatalf("unexpected run id: %q ok=%v", id, ok)
	}
}

func TestWithRunIDIgnoresEmpty(t *testing.T) {
	ctx := services.WithRunID(context.Background(), "")
	if _, ok := services.RunIDFromContext(ctx); ok {
		t.Fatal("empty run id should not be stored")
	}
}

func TestStageRoundTrip(t *testing.T) {
	ctx := services.WithStage(context.Background(), "transcribe")
	stage, ok := services.StageFromContext(ctx)
	if !ok || stage != "transcribe" {
		t.Fatalf("unexpected stage: %q ok=%v", stage, ok)
	}
}

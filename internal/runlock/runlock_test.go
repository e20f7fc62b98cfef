package runlock_test

import (
	"errors"
	"path/filepath"
	"testing"

	"recap/internal/runlock"
)

func TestAcquireAndRelease(t *testing.T) {
	dir := t.TempDir()
	lock, err := runlock.New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := lock.Acquire(); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
}

func TestSecondAcquireBlockedWhileHeld(t *testing.T) {
	dir := t.TempDir()
	first, err := runlock.New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := first.Acquire(); err != nil {
		t.Fatalf("first Acquire failed: %v", err)
	}
	defer func() {
		if err := first.Release(); err != nil {
			t.Errorf("Release failed: %v", err)
		}
	}()

	second, err := runlock.New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	err = second.Acquire()
	if !errors.Is(err, runlock.ErrHeld) {
		t.Fatalf("expected ErrHeld, got %v", err)
	}
}

func TestAcquireAfterRelease(t *testing.T) {
	dir := t.TempDir()
	first, err := runlock.New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := first.Acquire(); err != nil {
		t.Fatalf("first Acquire failed: %v", err)
	}
	if err := first.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	second, err := runlock.New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := second.Acquire(); err != nil {
		t.Fatalf("expected acquire after release, got %v", err)
	}
	if err := second.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
}

func TestNewCreatesLockDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "staging")
	lock, err := runlock.New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if lock.Path() != filepath.Join(dir, "recap.lock") {
		t.Fatalf("unexpected lock path: %q", lock.Path())
	}
}

func TestNewRejectsEmptyDir(t *testing.T) {
	if _, err := runlock.New("  "); err == nil {
		t.Fatal("expected error for empty dir")
	}
}

func TestReleaseNilSafe(t *testing.T) {
	var lock *runlock.Lock
	if err := lock.Release(); err != nil {
		t.Fatalf("expected nil-safe release, got %v", err)
	}
}

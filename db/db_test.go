package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "data", "cache.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSetAndGetTranscript(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	videoID := "dQw4w9WgXcQ"
	text := "Never gonna give you up"

	if err := store.SetTranscript(ctx, videoID, text); err != nil {
		t.Fatalf("Failed to set transcript: %v", err)
	}

	got, ok, err := store.GetTranscript(ctx, videoID)
	if err != nil {
		t.Fatalf("Failed to get transcript: %v", err)
	}
	if !ok {
		t.Fatal("expected transcript to be found")
	}
	if got != text {
		t.Errorf("expected text '%s', got '%s'", text, got)
	}
}

func TestGetTranscript_Missing(t *testing.T) {
	store := openTestStore(t)

	_, ok, err := store.GetTranscript(context.Background(), "missing0000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected no transcript")
	}
}

func TestSetTranscript_Overwrites(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.SetTranscript(ctx, "dQw4w9WgXcQ", "first"); err != nil {
		t.Fatal(err)
	}
	if err := store.SetTranscript(ctx, "dQw4w9WgXcQ", "second"); err != nil {
		t.Fatal(err)
	}

	got, _, err := store.GetTranscript(ctx, "dQw4w9WgXcQ")
	if err != nil {
		t.Fatal(err)
	}
	if got != "second" {
		t.Errorf("expected 'second', got '%s'", got)
	}
}

func TestOpen_Error(t *testing.T) {
	// A regular file where a directory is expected makes MkdirAll fail.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Open(filepath.Join(blocker, "sub", "cache.db")); err == nil {
		t.Fatal("expected error, got nil")
	}
}

package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pi2-study/planor/pkg/domain"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store := NewFileStore(t.TempDir())

	want := domain.Tokens{Access: "acc", Refresh: "ref"}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestFileStoreMissingFileIsLoggedOut(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nope"))

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error for missing file: %v", err)
	}
	if got.Valid() {
		t.Errorf("Load() = %+v, want zero tokens", got)
	}
}

func TestFileStoreCorruptFileIsLoggedOut(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, tokensFileName), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	store := NewFileStore(dir)

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error for corrupt file: %v", err)
	}
	if got.Valid() {
		t.Errorf("Load() = %+v, want zero tokens for corrupt file", got)
	}
}

func TestFileStoreCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "planor")
	store := NewFileStore(dir)

	if err := store.Save(domain.Tokens{Access: "a", Refresh: "r"}); err != nil {
		t.Fatalf("Save() into missing dir error: %v", err)
	}
	info, err := os.Stat(filepath.Join(dir, tokensFileName))
	if err != nil {
		t.Fatalf("stat token file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("token file mode = %o, want 600", perm)
	}
}

func TestFileStoreClear(t *testing.T) {
	store := NewFileStore(t.TempDir())
	if err := store.Save(domain.Tokens{Access: "a", Refresh: "r"}); err != nil {
		t.Fatal(err)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() after Clear error: %v", err)
	}
	if got.Valid() {
		t.Errorf("Load() after Clear = %+v, want zero tokens", got)
	}

	// Clearing an already-empty store is not an error.
	if err := store.Clear(); err != nil {
		t.Errorf("second Clear() error: %v", err)
	}
}

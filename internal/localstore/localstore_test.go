package localstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/makerburg/makerburg/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func TestStore_GetMissingKey(t *testing.T) {
	s := newTestStore(t)

	data, ok, err := s.Get("never-set")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("Get() ok = true for a key that was never set")
	}
	if data != nil {
		t.Errorf("Get() data = %q, want nil", data)
	}
}

func TestStore_SetGetRoundTrip(t *testing.T) {
	s := newTestStore(t)

	if err := s.Set("greeting", []byte("hello")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	data, ok, err := s.Get("greeting")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok || string(data) != "hello" {
		t.Errorf("Get() = %q, %v; want %q, true", data, ok, "hello")
	}
}

func TestStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	s1, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := s1.Set(KeySaved, []byte(`[{"kind":"story","id":"s1"}]`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	// A new Store over the same directory sees the value - this is the
	// across-restarts persistence the client relies on.
	s2, err := New(dir)
	if err != nil {
		t.Fatalf("New() reopen error = %v", err)
	}
	data, ok, err := s2.Get(KeySaved)
	if err != nil || !ok {
		t.Fatalf("Get() after reopen = %q, %v, %v", data, ok, err)
	}
	if string(data) != `[{"kind":"story","id":"s1"}]` {
		t.Errorf("Get() after reopen = %q", data)
	}
}

func TestStore_SetLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := s.Set("k", []byte("v1")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set("k", []byte("v2")); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory has %v, want exactly one file", names)
	}
	if entries[0].Name() != "k.json" {
		t.Errorf("file name = %q, want k.json", entries[0].Name())
	}
}

func TestStore_DeleteAbsentKey(t *testing.T) {
	s := newTestStore(t)
	if err := s.Delete("never-set"); err != nil {
		t.Errorf("Delete() of absent key error = %v, want nil", err)
	}
}

func TestLoginFlag_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	// Never set: false, no error.
	logged, err := s.LoggedIn()
	if err != nil {
		t.Fatalf("LoggedIn() error = %v", err)
	}
	if logged {
		t.Error("LoggedIn() = true before any SetLoggedIn")
	}

	if err := s.SetLoggedIn(true); err != nil {
		t.Fatalf("SetLoggedIn(true) error = %v", err)
	}
	if logged, _ = s.LoggedIn(); !logged {
		t.Error("LoggedIn() = false after SetLoggedIn(true)")
	}

	if err := s.SetLoggedIn(false); err != nil {
		t.Fatalf("SetLoggedIn(false) error = %v", err)
	}
	if logged, _ = s.LoggedIn(); logged {
		t.Error("LoggedIn() = true after SetLoggedIn(false)")
	}
}

func TestSavedStore_LoadMissingIsEmpty(t *testing.T) {
	saved := NewSavedStore(newTestStore(t))

	refs, err := saved.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(refs) != 0 {
		t.Errorf("Load() = %v, want empty", refs)
	}
}

func TestSavedStore_AddRemovePersist(t *testing.T) {
	dir := t.TempDir()
	kv, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	saved := NewSavedStore(kv)
	ctx := context.Background()

	s1 := model.ContentRef{Kind: model.KindStory, ID: "s1"}
	v1 := model.ContentRef{Kind: model.KindVideo, ID: "v1"}

	if err := saved.Add(ctx, s1); err != nil {
		t.Fatalf("Add(s1) error = %v", err)
	}
	if err := saved.Add(ctx, v1); err != nil {
		t.Fatalf("Add(v1) error = %v", err)
	}
	// Re-adding is a no-op, not a duplicate.
	if err := saved.Add(ctx, s1); err != nil {
		t.Fatalf("Add(s1) again error = %v", err)
	}

	// Reopen from disk: newest first, no duplicates.
	reopened := NewSavedStore(mustOpen(t, dir))
	refs, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("Load() after reopen error = %v", err)
	}
	if len(refs) != 2 || refs[0] != v1 || refs[1] != s1 {
		t.Errorf("Load() = %v, want [v1 s1]", refs)
	}

	if err := reopened.Remove(ctx, s1); err != nil {
		t.Fatalf("Remove(s1) error = %v", err)
	}
	// Removing an absent ref is a no-op.
	if err := reopened.Remove(ctx, s1); err != nil {
		t.Fatalf("Remove(s1) again error = %v", err)
	}

	refs, _ = reopened.Load(ctx)
	if len(refs) != 1 || refs[0] != v1 {
		t.Errorf("Load() after remove = %v, want [v1]", refs)
	}
}

func mustOpen(t *testing.T, dir string) *Store {
	t.Helper()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New(%s) error = %v", dir, err)
	}
	return s
}

func TestSavedStore_CorruptFileSurfacesPersistenceError(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, KeySaved+".json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("writing corrupt file: %v", err)
	}

	saved := NewSavedStore(mustOpen(t, dir))
	if _, err := saved.Load(context.Background()); err == nil {
		t.Fatal("Load() should fail on a corrupt saved file")
	}
}

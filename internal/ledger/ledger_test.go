package ledger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/makerburg/makerburg/internal/apperror"
	"github.com/makerburg/makerburg/internal/model"
)

// fakeStore is an in-memory ledger store. failNext makes the next write
// fail, simulating a full disk or an unreachable server.
type fakeStore struct {
	refs     []model.ContentRef
	failNext error
	loadErr  error
}

func (f *fakeStore) Load(ctx context.Context) ([]model.ContentRef, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	out := make([]model.ContentRef, len(f.refs))
	copy(out, f.refs)
	return out, nil
}

func (f *fakeStore) Add(ctx context.Context, ref model.ContentRef) error {
	if err := f.takeErr(); err != nil {
		return err
	}
	for _, r := range f.refs {
		if r == ref {
			return nil
		}
	}
	f.refs = append([]model.ContentRef{ref}, f.refs...)
	return nil
}

func (f *fakeStore) Remove(ctx context.Context, ref model.ContentRef) error {
	if err := f.takeErr(); err != nil {
		return err
	}
	out := f.refs[:0]
	for _, r := range f.refs {
		if r != ref {
			out = append(out, r)
		}
	}
	f.refs = out
	return nil
}

func (f *fakeStore) takeErr() error {
	err := f.failNext
	f.failNext = nil
	return err
}

// fakeResolver resolves refs against a fixed set of known IDs.
type fakeResolver struct {
	known map[string]any
	err   error
}

func (f *fakeResolver) Resolve(ctx context.Context, ref model.ContentRef) (any, error) {
	if f.err != nil {
		return nil, f.err
	}
	entity, ok := f.known[ref.Key()]
	if !ok {
		return nil, apperror.NotFound(string(ref.Kind), ref.ID)
	}
	return entity, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestLedger(t *testing.T, store Store) *Ledger {
	t.Helper()
	l, err := New(context.Background(), ForUser("u1"), store, testLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return l
}

func TestNew_HydratesFromStore(t *testing.T) {
	store := &fakeStore{refs: []model.ContentRef{
		ref(model.KindStory, "s1"),
		ref(model.KindVideo, "v1"),
	}}
	l := newTestLedger(t, store)

	if !l.IsSaved(ref(model.KindStory, "s1")) {
		t.Error("hydrated ref not reported as saved")
	}
	if got := l.Snapshot().Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
}

func TestToggle_AddThenRemove(t *testing.T) {
	store := &fakeStore{}
	l := newTestLedger(t, store)
	r := ref(model.KindStory, "s1")

	// First toggle: saves
	if _, err := l.Toggle(context.Background(), r); err != nil {
		t.Fatalf("Toggle() add error = %v", err)
	}
	if !l.IsSaved(r) {
		t.Error("ref not saved after first toggle")
	}
	if len(store.refs) != 1 {
		t.Errorf("store has %d refs, want 1 - write-through missed", len(store.refs))
	}

	// Second toggle: removes. Double toggle restores the original set.
	if _, err := l.Toggle(context.Background(), r); err != nil {
		t.Fatalf("Toggle() remove error = %v", err)
	}
	if l.IsSaved(r) {
		t.Error("ref still saved after second toggle")
	}
	if len(store.refs) != 0 {
		t.Errorf("store has %d refs, want 0", len(store.refs))
	}
}

func TestToggle_NewestFirst(t *testing.T) {
	l := newTestLedger(t, &fakeStore{})

	for _, r := range []model.ContentRef{
		ref(model.KindStory, "s1"),
		ref(model.KindVideo, "v1"),
		ref(model.KindCulture, "c1"),
	} {
		if _, err := l.Toggle(context.Background(), r); err != nil {
			t.Fatalf("Toggle(%s) error = %v", r.Key(), err)
		}
	}

	got := l.List()
	want := []model.ContentRef{
		ref(model.KindCulture, "c1"),
		ref(model.KindVideo, "v1"),
		ref(model.KindStory, "s1"),
	}
	if len(got) != 3 {
		t.Fatalf("List() returned %d refs, want 3", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestToggle_WriteFailureLeavesViewUnchanged(t *testing.T) {
	store := &fakeStore{}
	l := newTestLedger(t, store)
	r := ref(model.KindStory, "s1")

	store.failNext = errors.New("disk full")
	_, err := l.Toggle(context.Background(), r)
	if err == nil {
		t.Fatal("Toggle() should have returned the store's error")
	}
	if !errors.Is(err, apperror.ErrPersistence) {
		t.Errorf("Toggle() error = %v, want ErrPersistence", err)
	}

	// Write-through: the in-memory view must not have applied the change.
	if l.IsSaved(r) {
		t.Error("failed toggle leaked into the in-memory set")
	}

	// A retry with a healthy store succeeds normally.
	if _, err := l.Toggle(context.Background(), r); err != nil {
		t.Fatalf("Toggle() retry error = %v", err)
	}
	if !l.IsSaved(r) {
		t.Error("retry did not save the ref")
	}
}

func TestToggle_DoesNotValidateAgainstCatalog(t *testing.T) {
	l := newTestLedger(t, &fakeStore{})

	// The catalog has no "ghost" story, and the ledger must not care.
	if _, err := l.Toggle(context.Background(), ref(model.KindStory, "ghost")); err != nil {
		t.Fatalf("Toggle() on unknown content error = %v", err)
	}
	if !l.IsSaved(ref(model.KindStory, "ghost")) {
		t.Error("ref not saved")
	}
}

func TestEnumerateResolved_MarksDriftedRefsAbsent(t *testing.T) {
	store := &fakeStore{refs: []model.ContentRef{
		ref(model.KindStory, "s1"),
		ref(model.KindStory, "gone"),
	}}
	l := newTestLedger(t, store)

	resolver := &fakeResolver{known: map[string]any{
		"story:s1": "story one",
	}}

	items, err := l.EnumerateResolved(context.Background(), resolver)
	if err != nil {
		t.Fatalf("EnumerateResolved() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}

	if !items[0].Present || items[0].Entity != "story one" {
		t.Errorf("items[0] = %+v, want present with entity", items[0])
	}
	// Drifted ref: kept in the listing, marked absent, does not fail the call.
	if items[1].Present || items[1].Entity != nil {
		t.Errorf("items[1] = %+v, want absent", items[1])
	}
	if items[1].Ref != ref(model.KindStory, "gone") {
		t.Errorf("items[1].Ref = %v, want the drifted ref", items[1].Ref)
	}
}

func TestEnumerateResolved_PropagatesResolverFailure(t *testing.T) {
	store := &fakeStore{refs: []model.ContentRef{ref(model.KindStory, "s1")}}
	l := newTestLedger(t, store)

	resolver := &fakeResolver{err: apperror.Persistence("querying catalog", errors.New("db closed"))}
	if _, err := l.EnumerateResolved(context.Background(), resolver); err == nil {
		t.Fatal("EnumerateResolved() should propagate non-drift resolver failures")
	}
}

func TestNew_LoadFailure(t *testing.T) {
	store := &fakeStore{loadErr: apperror.Persistence("reading saved set", errors.New("corrupt"))}
	if _, err := New(context.Background(), Anonymous(), store, testLogger()); err == nil {
		t.Fatal("New() should fail when the store cannot load")
	}
}

func TestScopeKey(t *testing.T) {
	if got := Anonymous().Key(); got != "anon" {
		t.Errorf("Anonymous().Key() = %q, want %q", got, "anon")
	}
	if got := ForUser("u42").Key(); got != "user:u42" {
		t.Errorf("ForUser(u42).Key() = %q, want %q", got, "user:u42")
	}
	if !Anonymous().IsAnonymous() || ForUser("u42").IsAnonymous() {
		t.Error("IsAnonymous() misreported")
	}
}

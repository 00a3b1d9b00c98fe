// Package ledger maintains the authoritative saved-item set for a single
// principal and exposes toggle/query operations that are safe to call
// repeatedly and out of order.
//
// One Ledger instance is bound to exactly one scope (an anonymous device
// context or one authenticated user) and one durable store. The client
// state synchronizer builds a fresh Ledger whenever the principal changes;
// anonymous and authenticated sets never share an instance and never merge.
//
// WRITE-THROUGH, NOT WRITE-BACK:
// Toggle performs the durable write FIRST and swaps the in-memory snapshot
// only after the store confirms it. A failed write therefore leaves the
// in-memory view exactly as it was - the caller gets a persistence error
// and the UI shows a retry, but the view never silently diverges from what
// is on disk (or in the bookmark table).
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/makerburg/makerburg/internal/apperror"
	"github.com/makerburg/makerburg/internal/model"
)

// Scope identifies whose saved set a Ledger manages.
// The zero value is the anonymous scope.
type Scope struct {
	userID string
}

// Anonymous returns the local-only device scope.
func Anonymous() Scope { return Scope{} }

// ForUser returns the scope for an authenticated principal.
func ForUser(userID string) Scope { return Scope{userID: userID} }

// IsAnonymous reports whether this is the local-only scope.
func (s Scope) IsAnonymous() bool { return s.userID == "" }

// UserID returns the principal's ID, or "" for the anonymous scope.
func (s Scope) UserID() string { return s.userID }

// Key returns a stable identifier for the scope, used in logs and as a
// storage namespace.
func (s Scope) Key() string {
	if s.userID == "" {
		return "anon"
	}
	return "user:" + s.userID
}

// Store is the durable home of a scope's saved set.
//
// Implementations: a JSON file in the client's local store (anonymous), the
// saved_items table (server side), or the /api/saved endpoints (client side,
// authenticated). Add and Remove must be idempotent - re-adding a present
// ref or removing an absent one is a no-op, not an error.
type Store interface {
	Load(ctx context.Context) ([]model.ContentRef, error)
	Add(ctx context.Context, ref model.ContentRef) error
	Remove(ctx context.Context, ref model.ContentRef) error
}

// Resolver joins a content reference to its catalog entity.
// Resolve returns apperror.ErrNotFound when the referenced content no
// longer exists (or the kind is unknown) - the one place referential
// integrity is checked.
type Resolver interface {
	Resolve(ctx context.Context, ref model.ContentRef) (any, error)
}

// ResolvedItem is one entry of an enumerate-with-join: the reference plus
// its catalog entity, or Present=false when the content has drifted away.
type ResolvedItem struct {
	Ref     model.ContentRef
	Entity  any
	Present bool
}

// Ledger owns the saved set for one scope.
type Ledger struct {
	scope  Scope
	store  Store
	logger *slog.Logger

	mu  sync.RWMutex
	set *SavedSet
}

// New creates a Ledger for scope, hydrating its set from the store.
// The load happens once; after that the in-memory snapshot is authoritative
// and every mutation writes through.
func New(ctx context.Context, scope Scope, store Store, logger *slog.Logger) (*Ledger, error) {
	refs, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("ledger: loading saved set for %s: %w", scope.Key(), err)
	}
	return &Ledger{
		scope:  scope,
		store:  store,
		logger: logger,
		set:    newSavedSet(refs),
	}, nil
}

// NewEmpty creates a Ledger with an empty set, skipping the initial load.
// Used on degraded paths (e.g. logout when the local store is unreadable)
// where an empty view beats no view.
func NewEmpty(scope Scope, store Store, logger *slog.Logger) *Ledger {
	return &Ledger{
		scope:  scope,
		store:  store,
		logger: logger,
		set:    newSavedSet(nil),
	}
}

// Scope returns the scope this ledger is bound to.
func (l *Ledger) Scope() Scope {
	return l.scope
}

// Toggle flips membership of ref: present → removed, absent → inserted at
// the front. Applying Toggle twice with no intervening change returns the
// set to its original contents.
//
// The ledger never checks whether ref points at real catalog content;
// save/unsave must not fail because the catalog is unreachable. Integrity
// is enforced lazily at EnumerateResolved time.
//
// ORDERING:
// The caller serializes toggles on the SAME ref (the UI disables the
// control while its write is in flight). Toggles on different refs may run
// concurrently: each one re-reads membership of its own ref at apply time,
// so the final set is the union of all completed toggles regardless of
// interleaving.
func (l *Ledger) Toggle(ctx context.Context, ref model.ContentRef) (*SavedSet, error) {
	l.mu.RLock()
	saved := l.set.Contains(ref)
	l.mu.RUnlock()

	// Durable write first. The in-memory snapshot is untouched until the
	// store confirms, so a failure here needs no rollback.
	var err error
	if saved {
		err = l.store.Remove(ctx, ref)
	} else {
		err = l.store.Add(ctx, ref)
	}
	if err != nil {
		l.logger.Warn("saved-set write failed",
			slog.String("scope", l.scope.Key()),
			slog.String("ref", ref.Key()),
			slog.Bool("removing", saved),
			slog.String("error", err.Error()),
		)
		if errors.Is(err, apperror.ErrPersistence) {
			return nil, fmt.Errorf("ledger: toggling %s: %w", ref.Key(), err)
		}
		return nil, fmt.Errorf("ledger: toggling %s: %w", ref.Key(), apperror.Persistence("writing saved set", err))
	}

	l.mu.Lock()
	if saved {
		l.set = l.set.withRemoved(ref)
	} else {
		l.set = l.set.withAdded(ref)
	}
	next := l.set
	l.mu.Unlock()

	l.logger.Info("saved-set toggled",
		slog.String("scope", l.scope.Key()),
		slog.String("ref", ref.Key()),
		slog.Bool("saved", !saved),
		slog.Int("count", next.Len()),
	)

	return next, nil
}

// IsSaved reports whether ref is currently in the set. Pure query, no side
// effects.
func (l *Ledger) IsSaved(ref model.ContentRef) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.set.Contains(ref)
}

// List returns the current set in display order (most recent first).
// Each call returns a fresh, consistent snapshot.
func (l *Ledger) List() []model.ContentRef {
	return l.Snapshot().Refs()
}

// Snapshot returns the current immutable set.
func (l *Ledger) Snapshot() *SavedSet {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.set
}

// EnumerateResolved joins each saved reference against the catalog.
//
// References whose content no longer exists come back with Present=false
// instead of failing the whole listing - ids drift, content gets
// unpublished, and a stale bookmark must never break the library screen.
// Any other resolver failure (the catalog itself erroring) does propagate.
func (l *Ledger) EnumerateResolved(ctx context.Context, resolver Resolver) ([]ResolvedItem, error) {
	refs := l.Snapshot().Refs()

	items := make([]ResolvedItem, 0, len(refs))
	for _, ref := range refs {
		entity, err := resolver.Resolve(ctx, ref)
		if err != nil {
			if errors.Is(err, apperror.ErrNotFound) || errors.Is(err, apperror.ErrValidation) {
				// Referential drift: keep the ref, mark it absent.
				items = append(items, ResolvedItem{Ref: ref})
				continue
			}
			return nil, fmt.Errorf("ledger: resolving %s: %w", ref.Key(), err)
		}
		items = append(items, ResolvedItem{Ref: ref, Entity: entity, Present: true})
	}
	return items, nil
}

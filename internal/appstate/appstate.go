// Package appstate is the client-side state synchronizer: it routes
// save/unsave intents through the authentication gate and manages the
// principal transition without losing in-flight intents.
//
// WHY AN EXPLICIT STATE MACHINE?
// The save action is the one interaction point where the anonymous and
// authenticated identity models intersect. Without explicit states, races
// between "user dismissed the login modal" and "user tapped save again"
// produce duplicate or lost pending-intent bugs. The machine is:
//
//	Unresolved → Anonymous ⇄ Authenticating → Authenticated → (logout) Anonymous
//
// Startup resolves the session exactly once (Resolve); bookmark operations
// before that are rejected, so the UI gates the save buttons until
// resolution finishes.
package appstate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/makerburg/makerburg/internal/apperror"
	"github.com/makerburg/makerburg/internal/ledger"
	"github.com/makerburg/makerburg/internal/model"
)

// State is the synchronizer's position in the session lifecycle.
type State int

const (
	// StateUnresolved is the startup state: the principal is unknown and
	// bookmark operations are rejected until Resolve completes.
	StateUnresolved State = iota
	StateAnonymous
	// StateAuthenticating means a login/register UI is open, holding a
	// pending save intent (possibly nil if the user opened it directly).
	StateAuthenticating
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateUnresolved:
		return "unresolved"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Principal is an authenticated identity. A nil *Principal means anonymous.
type Principal struct {
	ID    string
	Email string
}

// IdentityProvider is the auth backend the synchronizer talks to.
//
// ResolveSession never returns an error: on any failure (network down,
// expired session, no session at all) it returns nil, because anonymous
// browsing must always be possible. Logout is best-effort - the local
// transition to anonymous proceeds even when the remote call fails.
type IdentityProvider interface {
	Register(ctx context.Context, email, password string) (*Principal, error)
	Login(ctx context.Context, email, password string) (*Principal, error)
	ResolveSession(ctx context.Context) *Principal
	Logout(ctx context.Context) error
}

// StoreFactory returns the durable saved-item store for a scope: the local
// JSON store for the anonymous scope, the remote bookmark table for a user
// scope. The synchronizer calls it on every principal transition, building
// a fresh ledger each time - anonymous and authenticated sets are separate
// and are never merged.
type StoreFactory func(scope ledger.Scope) ledger.Store

// LoginMarker persists the "locally marked as logged in" flag. Optional;
// updated best-effort on principal transitions so the UI can render an
// optimistic auth state on next launch before resolution completes.
type LoginMarker interface {
	SetLoggedIn(bool) error
}

// ErrAuthRequired is returned by ToggleSave when the user is anonymous:
// the intent has been captured as pending and the caller should open the
// login/register UI, then call CompleteLogin/CompleteRegister or CancelAuth.
var ErrAuthRequired = errors.New("appstate: authentication required")

// ErrToggleInFlight is returned when a toggle for the same content ref is
// already being written. The UI disables the control during the write; this
// is the backstop for a double-tap that slips through.
var ErrToggleInFlight = errors.New("appstate: toggle already in flight for this item")

// Synchronizer bridges ledger state between the durable local store and an
// optional remote principal.
type Synchronizer struct {
	provider IdentityProvider
	stores   StoreFactory
	marker   LoginMarker // may be nil
	logger   *slog.Logger

	mu        sync.Mutex
	state     State
	principal *Principal
	led       *ledger.Ledger
	pending   *model.ContentRef
	inflight  map[string]struct{}
	// epoch increments on every principal transition. A toggle completion
	// carrying a stale epoch is discarded - its write went to a ledger that
	// has already been replaced, and must not surface into the new scope.
	epoch uint64
}

// New creates a Synchronizer in the Unresolved state. marker may be nil.
func New(provider IdentityProvider, stores StoreFactory, marker LoginMarker, logger *slog.Logger) *Synchronizer {
	return &Synchronizer{
		provider: provider,
		stores:   stores,
		marker:   marker,
		logger:   logger,
		state:    StateUnresolved,
		inflight: make(map[string]struct{}),
	}
}

// Resolve determines the startup principal and hydrates the matching
// ledger. It must complete before any bookmark operation; calling it again
// after a successful resolution is a no-op.
func (s *Synchronizer) Resolve(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateUnresolved {
		return nil
	}

	principal := s.provider.ResolveSession(ctx)
	if err := s.adoptLocked(ctx, principal); err != nil {
		// Resolution failed on the storage side; stay Unresolved so the
		// caller can retry rather than silently presenting an empty set.
		return fmt.Errorf("appstate: resolving session: %w", err)
	}

	s.logger.Info("session resolved",
		slog.String("state", s.state.String()),
		slog.Int("saved", s.led.Snapshot().Len()),
	)
	return nil
}

// State returns the current lifecycle state.
func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Principal returns a copy of the authenticated principal, or nil.
func (s *Synchronizer) Principal() *Principal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.principal == nil {
		return nil
	}
	p := *s.principal
	return &p
}

// PendingSave returns the captured save intent, if any. Exposed so the
// login UI can show "sign in to save this story".
func (s *Synchronizer) PendingSave() *model.ContentRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return nil
	}
	r := *s.pending
	return &r
}

// IsSaved reports membership in the active scope's set. Always false before
// resolution completes.
func (s *Synchronizer) IsSaved(ref model.ContentRef) bool {
	s.mu.Lock()
	led := s.led
	s.mu.Unlock()
	if led == nil {
		return false
	}
	return led.IsSaved(ref)
}

// List returns the active scope's saved refs, most recent first.
func (s *Synchronizer) List() []model.ContentRef {
	s.mu.Lock()
	led := s.led
	s.mu.Unlock()
	if led == nil {
		return nil
	}
	return led.List()
}

// EnumerateResolved joins the active set against the catalog; entries whose
// content has drifted away come back marked absent.
func (s *Synchronizer) EnumerateResolved(ctx context.Context, resolver ledger.Resolver) ([]ledger.ResolvedItem, error) {
	s.mu.Lock()
	led := s.led
	s.mu.Unlock()
	if led == nil {
		return nil, apperror.ValidationFailed("state", "session not resolved")
	}
	return led.EnumerateResolved(ctx, resolver)
}

// ToggleSave routes a save/unsave intent.
//
// Authenticated: the toggle goes straight to the ledger (write-through).
// Anonymous: the ref is captured as the pending intent, the machine moves
// to Authenticating, and ErrAuthRequired tells the caller to open the auth
// UI. While Authenticating, another tap just replaces the pending intent.
func (s *Synchronizer) ToggleSave(ctx context.Context, ref model.ContentRef) error {
	s.mu.Lock()

	switch s.state {
	case StateUnresolved:
		s.mu.Unlock()
		return apperror.ValidationFailed("state", "session not resolved")

	case StateAnonymous:
		r := ref
		s.pending = &r
		s.state = StateAuthenticating
		s.mu.Unlock()
		s.logger.Info("save intent captured, authentication required",
			slog.String("ref", ref.Key()))
		return ErrAuthRequired

	case StateAuthenticating:
		r := ref
		s.pending = &r
		s.mu.Unlock()
		return ErrAuthRequired
	}

	// Authenticated.
	key := ref.Key()
	if _, busy := s.inflight[key]; busy {
		s.mu.Unlock()
		return ErrToggleInFlight
	}
	s.inflight[key] = struct{}{}
	led := s.led
	epoch := s.epoch
	s.mu.Unlock()

	// The durable write happens outside the lock: toggles on different refs
	// may proceed concurrently, and reads must not block behind a slow
	// store.
	_, err := led.Toggle(ctx, ref)

	s.mu.Lock()
	delete(s.inflight, key)
	stale := s.epoch != epoch
	s.mu.Unlock()

	if stale {
		// The principal changed (logout) while the write was in flight.
		// The write targeted the old scope's ledger, which is gone; drop
		// the result - success or failure - silently.
		s.logger.Info("discarding toggle completion from previous principal",
			slog.String("ref", ref.Key()))
		return nil
	}
	if err != nil {
		return fmt.Errorf("appstate: toggling %s: %w", ref.Key(), err)
	}
	return nil
}

// CompleteLogin finishes the auth gate with an existing account.
//
// On provider failure the machine STAYS in Authenticating - the form shows
// the error and the user retries without losing the pending intent (a
// timeout surfaces apperror.ErrNetwork the same way). On success the
// pending intent, if any, is replayed exactly once against the new
// principal's ledger.
func (s *Synchronizer) CompleteLogin(ctx context.Context, email, password string) error {
	principal, err := s.provider.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("appstate: logging in: %w", err)
	}
	return s.completeAuth(ctx, principal)
}

// CompleteRegister finishes the auth gate by creating a new account.
func (s *Synchronizer) CompleteRegister(ctx context.Context, email, password string) error {
	principal, err := s.provider.Register(ctx, email, password)
	if err != nil {
		return fmt.Errorf("appstate: registering: %w", err)
	}
	return s.completeAuth(ctx, principal)
}

func (s *Synchronizer) completeAuth(ctx context.Context, principal *Principal) error {
	if principal == nil {
		return apperror.Unauthorized("authentication did not produce a principal")
	}

	s.mu.Lock()
	if err := s.adoptLocked(ctx, principal); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("appstate: adopting principal: %w", err)
	}
	var replay *model.ContentRef
	if s.pending != nil {
		r := *s.pending
		replay = &r
		s.pending = nil
	}
	led := s.led
	s.mu.Unlock()

	s.logger.Info("authenticated",
		slog.String("userID", principal.ID),
		slog.String("email", principal.Email),
	)

	if replay == nil {
		return nil
	}
	// Replay the captured intent exactly once. A failure here leaves the
	// user logged in with the item unsaved - surfaced so the UI can offer
	// a retry, never silently dropped.
	if _, err := led.Toggle(ctx, *replay); err != nil {
		return fmt.Errorf("appstate: replaying pending save %s: %w", replay.Key(), err)
	}
	return nil
}

// CancelAuth dismisses the auth gate: the pending intent is discarded by
// design (no silent auto-save after a cancelled login) and the machine
// returns to Anonymous. The anonymous set is untouched.
func (s *Synchronizer) CancelAuth() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAuthenticating {
		return
	}
	s.pending = nil
	s.state = StateAnonymous
	s.logger.Info("authentication cancelled, pending save discarded")
}

// Logout ends the authenticated session. The remote invalidation is
// best-effort; locally the view always reverts to the anonymous-scope set
// (a separate set - nothing from the authenticated scope leaks into it).
func (s *Synchronizer) Logout(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateAuthenticated {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	if err := s.provider.Logout(ctx); err != nil {
		s.logger.Warn("remote logout failed, continuing locally",
			slog.String("error", err.Error()))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.adoptLocked(ctx, nil); err != nil {
		// Local store unreadable: degrade to an empty anonymous view
		// rather than staying stuck in the authenticated state.
		scope := ledger.Anonymous()
		s.led = ledger.NewEmpty(scope, s.stores(scope), s.logger)
		s.principal = nil
		s.state = StateAnonymous
		s.epoch++
		s.logger.Warn("anonymous saved set unavailable after logout",
			slog.String("error", err.Error()))
	}
	return nil
}

// adoptLocked swaps in the given principal (nil = anonymous), building and
// hydrating the matching ledger. Callers hold s.mu. Every call bumps the
// epoch so stale toggle completions are discarded.
func (s *Synchronizer) adoptLocked(ctx context.Context, principal *Principal) error {
	scope := ledger.Anonymous()
	if principal != nil {
		scope = ledger.ForUser(principal.ID)
	}

	led, err := ledger.New(ctx, scope, s.stores(scope), s.logger)
	if err != nil {
		return err
	}

	s.led = led
	s.principal = principal
	s.epoch++
	if principal != nil {
		s.state = StateAuthenticated
	} else {
		s.state = StateAnonymous
	}

	if s.marker != nil {
		if err := s.marker.SetLoggedIn(principal != nil); err != nil {
			s.logger.Warn("persisting login marker failed",
				slog.String("error", err.Error()))
		}
	}
	return nil
}

// Package repository defines the storage interfaces the service and ledger
// layers program against. The sqlite subpackage provides the concrete
// implementation; tests substitute in-memory fakes.
package repository

import (
	"context"

	"github.com/makerburg/makerburg/internal/model"
)

// UserRepository manages account records. Users are created on registration
// and read on login/session resolution - never updated or deleted here.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// ContentRepository is the read-only view over the four catalog tables.
// List methods return only published rows; Get methods return any row by id
// so a direct link to an unpublished draft still resolves for editors.
type ContentRepository interface {
	ListStories(ctx context.Context) ([]model.Story, error)
	GetStory(ctx context.Context, id string) (*model.Story, error)
	ListOpportunities(ctx context.Context) ([]model.Opportunity, error)
	GetOpportunity(ctx context.Context, id string) (*model.Opportunity, error)
	ListVideos(ctx context.Context) ([]model.Video, error)
	GetVideo(ctx context.Context, id string) (*model.Video, error)
	ListCultureEntries(ctx context.Context) ([]model.CultureEntry, error)
	GetCultureEntry(ctx context.Context, id string) (*model.CultureEntry, error)
}

// SavedItemRepository manages the bookmark join table.
//
// AddSavedItem reports whether a row was actually inserted - saving an
// already-saved item is a no-op, not an error, so toggles stay idempotent
// even if a client retries a request. RemoveSavedItem is likewise a no-op
// when the row is already gone.
type SavedItemRepository interface {
	ListSavedItems(ctx context.Context, userID string) ([]model.SavedItem, error)
	AddSavedItem(ctx context.Context, userID string, ref model.ContentRef) (created bool, err error)
	RemoveSavedItem(ctx context.Context, userID string, ref model.ContentRef) error
}

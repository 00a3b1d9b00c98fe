package sqlite

import (
	"context"
	"fmt"

	"github.com/makerburg/makerburg/internal/apperror"
	"github.com/makerburg/makerburg/internal/model"
	"github.com/makerburg/makerburg/internal/repository"
)

// SavedStore adapts the saved_items table to the ledger's store interface
// for one user. Server-side code that runs a ledger directly over the
// database (batch jobs, tests) uses this instead of going through HTTP.
type SavedStore struct {
	repo   repository.SavedItemRepository
	userID string
}

// NewSavedStore binds a store to one user's rows.
func NewSavedStore(repo repository.SavedItemRepository, userID string) *SavedStore {
	return &SavedStore{repo: repo, userID: userID}
}

func (s *SavedStore) Load(ctx context.Context) ([]model.ContentRef, error) {
	items, err := s.repo.ListSavedItems(ctx, s.userID)
	if err != nil {
		return nil, apperror.Persistence("loading saved set", err)
	}
	refs := make([]model.ContentRef, 0, len(items))
	for _, item := range items {
		refs = append(refs, item.Ref())
	}
	return refs, nil
}

func (s *SavedStore) Add(ctx context.Context, ref model.ContentRef) error {
	// created=false (already saved) is still success - idempotent by contract.
	if _, err := s.repo.AddSavedItem(ctx, s.userID, ref); err != nil {
		return apperror.Persistence(fmt.Sprintf("saving %s", ref.Key()), err)
	}
	return nil
}

func (s *SavedStore) Remove(ctx context.Context, ref model.ContentRef) error {
	if err := s.repo.RemoveSavedItem(ctx, s.userID, ref); err != nil {
		return apperror.Persistence(fmt.Sprintf("removing %s", ref.Key()), err)
	}
	return nil
}

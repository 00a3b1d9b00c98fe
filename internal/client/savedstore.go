package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/makerburg/makerburg/internal/apperror"
	"github.com/makerburg/makerburg/internal/model"
)

// SavedStore returns the durable saved-item store backed by the server's
// bookmark endpoints. Valid only while the client holds a session cookie;
// calls without one come back as ErrUnauthorized wrapped in ErrPersistence.
func (c *Client) SavedStore() *SavedStore {
	return &SavedStore{client: c}
}

// SavedStore speaks the /api/saved endpoints as a ledger store.
type SavedStore struct {
	client *Client
}

// Load fetches the full saved set, most recently saved first.
func (s *SavedStore) Load(ctx context.Context) ([]model.ContentRef, error) {
	var payload []struct {
		Kind string `json:"kind"`
		ID   string `json:"id"`
	}
	if err := s.client.do(ctx, http.MethodGet, "/api/saved", nil, &payload); err != nil {
		return nil, apperror.Persistence("loading saved set", err)
	}

	refs := make([]model.ContentRef, 0, len(payload))
	for _, p := range payload {
		refs = append(refs, model.ContentRef{Kind: model.Kind(p.Kind), ID: p.ID})
	}
	return refs, nil
}

// Add saves ref on the server. Idempotent: the server answers 200 instead
// of 201 when the ref was already saved, and both are success here.
func (s *SavedStore) Add(ctx context.Context, ref model.ContentRef) error {
	body := map[string]string{"kind": string(ref.Kind), "id": ref.ID}
	if err := s.client.do(ctx, http.MethodPost, "/api/saved", body, nil); err != nil {
		return apperror.Persistence(fmt.Sprintf("saving %s", ref.Key()), err)
	}
	return nil
}

// Remove unsaves ref on the server. Removing an absent ref is a no-op.
func (s *SavedStore) Remove(ctx context.Context, ref model.ContentRef) error {
	path := fmt.Sprintf("/api/saved/%s/%s", url.PathEscape(string(ref.Kind)), url.PathEscape(ref.ID))
	if err := s.client.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return apperror.Persistence(fmt.Sprintf("removing %s", ref.Key()), err)
	}
	return nil
}

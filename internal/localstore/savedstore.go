package localstore

import (
	"context"
	"encoding/json"

	"github.com/makerburg/makerburg/internal/apperror"
	"github.com/makerburg/makerburg/internal/model"
)

// SavedStore is the durable home of the ANONYMOUS saved set: a JSON array
// of content references under KeySaved. It satisfies the ledger's Store
// interface (implicitly - no import needed).
//
// Each Add/Remove rewrites the whole array. The set is small (a person's
// bookmarks, not a feed), so wholesale replace keeps the on-disk format
// identical to what the mobile client historically stored and makes the
// write atomic for free via Store.Set.
type SavedStore struct {
	kv  *Store
	key string
}

// NewSavedStore returns the anonymous-scope saved store over kv.
func NewSavedStore(kv *Store) *SavedStore {
	return &SavedStore{kv: kv, key: KeySaved}
}

// Load reads the persisted refs. A missing key is an empty set.
func (s *SavedStore) Load(_ context.Context) ([]model.ContentRef, error) {
	data, ok, err := s.kv.Get(s.key)
	if err != nil {
		return nil, apperror.Persistence("reading saved set", err)
	}
	if !ok {
		return nil, nil
	}

	var refs []model.ContentRef
	if err := json.Unmarshal(data, &refs); err != nil {
		return nil, apperror.Persistence("decoding saved set", err)
	}
	return refs, nil
}

// Add persists ref at the front of the stored array. Already-present refs
// are a no-op.
func (s *SavedStore) Add(ctx context.Context, ref model.ContentRef) error {
	refs, err := s.Load(ctx)
	if err != nil {
		return err
	}
	for _, r := range refs {
		if r == ref {
			return nil
		}
	}
	return s.write(append([]model.ContentRef{ref}, refs...))
}

// Remove persists the array without ref. Absent refs are a no-op.
func (s *SavedStore) Remove(ctx context.Context, ref model.ContentRef) error {
	refs, err := s.Load(ctx)
	if err != nil {
		return err
	}
	out := refs[:0]
	for _, r := range refs {
		if r != ref {
			out = append(out, r)
		}
	}
	if len(out) == len(refs) {
		return nil
	}
	return s.write(out)
}

func (s *SavedStore) write(refs []model.ContentRef) error {
	if refs == nil {
		refs = []model.ContentRef{}
	}
	data, err := json.Marshal(refs)
	if err != nil {
		return apperror.Persistence("encoding saved set", err)
	}
	if err := s.kv.Set(s.key, data); err != nil {
		return apperror.Persistence("writing saved set", err)
	}
	return nil
}

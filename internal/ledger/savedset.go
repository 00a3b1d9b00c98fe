package ledger

import "github.com/makerburg/makerburg/internal/model"

// SavedSet is one principal's bookmarks: an ordered collection of unique
// content references, most recently saved first.
//
// COPY-ON-WRITE:
// A SavedSet is immutable once built. Every mutation produces a brand new
// set and the ledger swaps its pointer, so any number of UI components can
// read a snapshot concurrently without locking - a reader always sees a
// complete, consistent set, never a half-applied toggle.
//
// The index maps ContentRef.Key() ("kind:id") to membership, making
// Contains O(1) regardless of how many items are saved.
type SavedSet struct {
	refs  []model.ContentRef
	index map[string]struct{}
}

// newSavedSet builds a set from refs, preserving order and dropping
// duplicates (first occurrence wins). Input order is assumed to already be
// display order.
func newSavedSet(refs []model.ContentRef) *SavedSet {
	s := &SavedSet{
		refs:  make([]model.ContentRef, 0, len(refs)),
		index: make(map[string]struct{}, len(refs)),
	}
	for _, r := range refs {
		key := r.Key()
		if _, ok := s.index[key]; ok {
			continue
		}
		s.index[key] = struct{}{}
		s.refs = append(s.refs, r)
	}
	return s
}

// Contains reports whether ref is in the set. O(1).
func (s *SavedSet) Contains(ref model.ContentRef) bool {
	_, ok := s.index[ref.Key()]
	return ok
}

// Len returns the number of saved references.
func (s *SavedSet) Len() int {
	return len(s.refs)
}

// Refs returns the references in display order (most recently saved first).
// The returned slice is a copy: callers may keep or modify it freely, and
// may re-enumerate at any time for a fresh snapshot.
func (s *SavedSet) Refs() []model.ContentRef {
	out := make([]model.ContentRef, len(s.refs))
	copy(out, s.refs)
	return out
}

// withAdded returns a new set with ref inserted at the front.
// Adding a ref that's already present returns the receiver unchanged.
func (s *SavedSet) withAdded(ref model.ContentRef) *SavedSet {
	if s.Contains(ref) {
		return s
	}
	next := &SavedSet{
		refs:  make([]model.ContentRef, 0, len(s.refs)+1),
		index: make(map[string]struct{}, len(s.refs)+1),
	}
	next.refs = append(next.refs, ref)
	next.index[ref.Key()] = struct{}{}
	for _, r := range s.refs {
		next.refs = append(next.refs, r)
		next.index[r.Key()] = struct{}{}
	}
	return next
}

// withRemoved returns a new set with ref removed, preserving the order of
// the remaining entries. Removing an absent ref returns the receiver.
func (s *SavedSet) withRemoved(ref model.ContentRef) *SavedSet {
	if !s.Contains(ref) {
		return s
	}
	key := ref.Key()
	next := &SavedSet{
		refs:  make([]model.ContentRef, 0, len(s.refs)-1),
		index: make(map[string]struct{}, len(s.refs)-1),
	}
	for _, r := range s.refs {
		if r.Key() == key {
			continue
		}
		next.refs = append(next.refs, r)
		next.index[r.Key()] = struct{}{}
	}
	return next
}

// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data - similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

// Kind identifies which catalog collection a piece of content belongs to.
//
// WHY A NAMED STRING TYPE?
// The four content kinds appear everywhere: in bookmark rows, in API paths,
// in the ledger's composite keys. A named type means the compiler catches
// `ref.Kind = "storey"` style typos wherever a Kind is expected, while the
// value still serializes as a plain JSON string.
type Kind string

const (
	KindStory       Kind = "story"
	KindOpportunity Kind = "opportunity"
	KindVideo       Kind = "video"
	KindCulture     Kind = "culture"
)

// Valid reports whether k is one of the four known content kinds.
// Unknown kinds are rejected at the API boundary and at resolution time,
// never inside the ledger (saving must not depend on catalog knowledge).
func (k Kind) Valid() bool {
	switch k {
	case KindStory, KindOpportunity, KindVideo, KindCulture:
		return true
	}
	return false
}

// ContentRef is a tagged reference to any bookmarkable entity.
//
// The ledger stores ONLY references, never content payloads - the catalog
// owns the entities, and copying them into bookmark state would go stale the
// moment an editor updates a story. Two refs are equal iff both Kind and ID
// match, which Go gives us for free on this comparable struct.
type ContentRef struct {
	Kind Kind   `json:"kind"`
	ID   string `json:"id"`
}

// Key returns the composite "kind:id" string used to index saved sets.
//
// The saved-set membership check must be O(1), so implementations key their
// lookup maps on this string rather than scanning slices. The format matches
// what the mobile client historically persisted.
func (r ContentRef) Key() string {
	return string(r.Kind) + ":" + r.ID
}

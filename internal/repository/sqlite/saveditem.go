package sqlite

import (
	"context"
	"fmt"

	"github.com/makerburg/makerburg/internal/model"
	"github.com/makerburg/makerburg/internal/repository"
	"github.com/rs/xid"
)

// compile-time check that *DB implements repository.SavedItemRepository
var _ repository.SavedItemRepository = (*DB)(nil)

// ListSavedItems returns every bookmark row for the given user.
//
// Rows come back in rowid order, which happens to be insertion order - but
// that is an implementation detail, not a contract. Clients keep their own
// display ordering; see the ledger.
func (db *DB) ListSavedItems(ctx context.Context, userID string) ([]model.SavedItem, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, item_kind, item_id FROM saved_items WHERE user_id = ?`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing saved items for %s: %w", userID, err)
	}
	defer rows.Close()

	items := []model.SavedItem{}
	for rows.Next() {
		var it model.SavedItem
		if err := rows.Scan(&it.ID, &it.UserID, &it.ItemKind, &it.ItemID); err != nil {
			return nil, fmt.Errorf("sqlite: scanning saved item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating saved items: %w", err)
	}
	return items, nil
}

// AddSavedItem inserts a bookmark row for (userID, ref).
//
// INSERT OR IGNORE against the composite UNIQUE index makes duplicate saves
// a silent no-op instead of a constraint error - a retried toggle must not
// fail. The returned bool reports whether a row was actually created, which
// the HTTP layer uses to pick 201 vs 200.
func (db *DB) AddSavedItem(ctx context.Context, userID string, ref model.ContentRef) (bool, error) {
	res, err := db.conn.ExecContext(ctx,
		`INSERT OR IGNORE INTO saved_items (id, user_id, item_kind, item_id)
		 VALUES (?, ?, ?, ?)`,
		xid.New().String(), userID, string(ref.Kind), ref.ID,
	)
	if err != nil {
		return false, fmt.Errorf("sqlite: inserting saved item %s for %s: %w", ref.Key(), userID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: checking saved item insert: %w", err)
	}
	return n > 0, nil
}

// RemoveSavedItem deletes the bookmark row for (userID, ref).
// Removing a row that doesn't exist is a no-op - unsave is idempotent too.
func (db *DB) RemoveSavedItem(ctx context.Context, userID string, ref model.ContentRef) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM saved_items WHERE user_id = ? AND item_kind = ? AND item_id = ?`,
		userID, string(ref.Kind), ref.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting saved item %s for %s: %w", ref.Key(), userID, err)
	}
	return nil
}

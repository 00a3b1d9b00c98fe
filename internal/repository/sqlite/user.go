package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/makerburg/makerburg/internal/apperror"
	"github.com/makerburg/makerburg/internal/model"
	"github.com/makerburg/makerburg/internal/repository"
	"github.com/rs/xid"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// CreateUser inserts a new account and fills in ID and CreatedOn.
//
// Email uniqueness is enforced case-insensitively: the column stores the
// lowercased form, and we check for an existing row before inserting so the
// caller gets a clean apperror.ErrConflict instead of a driver-specific
// constraint error. The UNIQUE constraint stays as a backstop.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	email := strings.ToLower(strings.TrimSpace(user.Email))

	var existingID string
	err := db.conn.QueryRowContext(ctx,
		`SELECT id FROM users WHERE email = ?`, email,
	).Scan(&existingID)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("sqlite: checking email %s: %w", email, err)
	}
	if existingID != "" {
		return apperror.Conflict("an account with this email already exists")
	}

	user.ID = xid.New().String()
	user.Email = email
	user.CreatedOn = time.Now()

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_on) VALUES (?, ?, ?, ?)`,
		user.ID, user.Email, user.PasswordHash, user.CreatedOn,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting user %s: %w", email, err)
	}

	return nil
}

// GetUserByEmail retrieves a user by email (matched case-insensitively).
// Returns apperror.ErrNotFound if no such account exists.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var u model.User
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_on FROM users WHERE email = ?`,
		email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedOn)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", email)
		}
		return nil, fmt.Errorf("sqlite: getting user by email %s: %w", email, err)
	}

	return &u, nil
}

// GetUserByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_on FROM users WHERE id = ?`,
		id,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedOn)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}

	return &u, nil
}

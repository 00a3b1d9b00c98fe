package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/makerburg/makerburg/internal/apperror"
	"github.com/makerburg/makerburg/internal/model"
)

func TestCreateUser(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{
		Email:        "alice@example.com",
		PasswordHash: "hash",
	}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	// Verify the user was modified in-place (pointer receiver)
	if user.ID == "" {
		t.Error("CreateUser() did not set user.ID")
	}
	if user.CreatedOn.IsZero() {
		t.Error("CreateUser() did not set user.CreatedOn")
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "taken@example.com")

	dup := &model.User{Email: "taken@example.com", PasswordHash: "hash"}
	err := db.CreateUser(context.Background(), dup)
	if err == nil {
		t.Fatal("CreateUser() should have failed for a duplicate email")
	}
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("CreateUser() error = %v, want ErrConflict", err)
	}
}

func TestCreateUser_DuplicateEmailCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "mixed@example.com")

	// Same address, different casing - still the same account.
	dup := &model.User{Email: "MIXED@Example.COM", PasswordHash: "hash"}
	err := db.CreateUser(context.Background(), dup)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("CreateUser() error = %v, want ErrConflict for case-variant email", err)
	}
}

func TestGetUserByEmail(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "bob@example.com")

	found, err := db.GetUserByEmail(context.Background(), "bob@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q", found.ID, created.ID)
	}
	if found.PasswordHash == "" {
		t.Error("GetUserByEmail() must return the stored hash for login verification")
	}
}

func TestGetUserByEmail_NormalizesCase(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "carol@example.com")

	found, err := db.GetUserByEmail(context.Background(), "Carol@Example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() with case-variant email error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q", found.ID, created.ID)
	}
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetUserByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetUserByEmail() error = %v, want ErrNotFound", err)
	}
}

func TestGetUserByID(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "dave@example.com")

	found, err := db.GetUserByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if found.Email != "dave@example.com" {
		t.Errorf("Email = %q, want %q", found.Email, "dave@example.com")
	}
}

func TestGetUserByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetUserByID(context.Background(), "nonexistent")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetUserByID() error = %v, want ErrNotFound", err)
	}
}

package sqlite

import (
	"context"
	"testing"

	"github.com/makerburg/makerburg/internal/model"
)

// newTestDB returns an in-memory DB with the schema migrated.
// t.Cleanup closes it when the test (or subtest) finishes.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// newSeededDB returns an in-memory DB populated with the sample catalog.
func newSeededDB(t *testing.T) *DB {
	t.Helper()
	db := newTestDB(t)
	seeded, err := db.Seed(context.Background())
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if !seeded {
		t.Fatal("Seed() reported nothing seeded on an empty database")
	}
	return db
}

// createTestUser creates a user and fails the test if it errors.
func createTestUser(t *testing.T, db *DB, email string) *model.User {
	t.Helper()
	user := &model.User{
		Email:        email,
		PasswordHash: "$2a$04$fakehashforrepositorytests0000000000000000000000000000",
	}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func TestSeed_SecondCallIsNoOp(t *testing.T) {
	db := newSeededDB(t)

	seeded, err := db.Seed(context.Background())
	if err != nil {
		t.Fatalf("Seed() second call error = %v", err)
	}
	if seeded {
		t.Error("Seed() reported seeding on an already-populated database")
	}
}

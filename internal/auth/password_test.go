package auth

import (
	"strings"
	"testing"
)

// All tests use NewPasswordServiceForTest (bcrypt cost 4) - production cost
// would add ~250ms per Hash call and the security property doesn't depend
// on the cost here.

func TestHashAndVerify(t *testing.T) {
	p := NewPasswordServiceForTest()

	hash, err := p.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "" {
		t.Fatal("Hash() returned empty string")
	}
	if hash == "correct horse battery staple" {
		t.Fatal("Hash() returned the plaintext")
	}

	if err := p.Verify(hash, "correct horse battery staple"); err != nil {
		t.Errorf("Verify() with correct password error = %v", err)
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	p := NewPasswordServiceForTest()

	hash, err := p.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if err := p.Verify(hash, "secret2"); err == nil {
		t.Error("Verify() accepted the wrong password")
	}
}

func TestHash_SaltedPerCall(t *testing.T) {
	p := NewPasswordServiceForTest()

	h1, err := p.Hash("same password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	h2, err := p.Hash("same password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	// bcrypt salts every hash; identical passwords must not produce
	// identical hashes.
	if h1 == h2 {
		t.Error("two hashes of the same password are identical - salt missing?")
	}

	if err := p.Verify(h1, "same password"); err != nil {
		t.Errorf("Verify(h1) error = %v", err)
	}
	if err := p.Verify(h2, "same password"); err != nil {
		t.Errorf("Verify(h2) error = %v", err)
	}
}

func TestHash_RejectsOver72Bytes(t *testing.T) {
	p := NewPasswordServiceForTest()

	// bcrypt silently truncates past 72 bytes; we reject instead.
	if _, err := p.Hash(strings.Repeat("x", 73)); err == nil {
		t.Error("Hash() accepted a 73-byte password")
	}
	if _, err := p.Hash(strings.Repeat("x", 72)); err != nil {
		t.Errorf("Hash() rejected a 72-byte password: %v", err)
	}
}

func TestNewPasswordService_CostFallback(t *testing.T) {
	// Costs below bcrypt's minimum fall back to the production default.
	p := NewPasswordService(0)
	if p.cost != DefaultCost {
		t.Errorf("cost = %d, want DefaultCost", p.cost)
	}

	p = NewPasswordService(10)
	if p.cost != 10 {
		t.Errorf("cost = %d, want 10", p.cost)
	}
}

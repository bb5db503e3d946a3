package security

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")

	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if hash == "s3cret-pass" {
		t.Fatal("hash equals plaintext")
	}

	if err := CheckPassword(hash, "s3cret-pass"); err != nil {
		t.Errorf("CheckPassword rejected correct password: %v", err)
	}

	if err := CheckPassword(hash, "wrong-pass"); err == nil {
		t.Error("CheckPassword accepted wrong password")
	}
}

func TestHashIsSalted(t *testing.T) {
	h1, err := HashPassword("same-input")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	h2, err := HashPassword("same-input")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if h1 == h2 {
		t.Error("two hashes of the same password are identical, salt missing")
	}
}

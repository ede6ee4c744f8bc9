package security

import (
	"errors"
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	ok, err := VerifyPassword(hash, "secret1")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !ok {
		t.Fatal("expected password verification success")
	}
	ok, err = VerifyPassword(hash, "wrong-pass")
	if err != nil {
		t.Fatalf("verify wrong password errored: %v", err)
	}
	if ok {
		t.Fatal("expected password verification failure")
	}
}

func TestHashPasswordUsesFreshSalt(t *testing.T) {
	a, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash a: %v", err)
	}
	b, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash b: %v", err)
	}
	if a == b {
		t.Fatal("expected distinct hashes for the same password")
	}
	if !IsPasswordHash(a) {
		t.Fatalf("expected %q to be recognised as a hash", a)
	}
	if IsPasswordHash("secret1") {
		t.Fatal("plaintext must not be recognised as a hash")
	}
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	for _, encoded := range []string{"", "plain", "$argon2i$v=19$m=1,t=1,p=1$AA$AA", "$argon2id$v=19$m=x$AA$AA", "$argon2id$v=19$m=0,t=1,p=1$AA$AA"} {
		if _, err := VerifyPassword(encoded, "secret1"); !errors.Is(err, ErrInvalidPasswordHash) {
			t.Fatalf("expected ErrInvalidPasswordHash for %q, got %v", encoded, err)
		}
	}
}

func TestHashPasswordEncodesDefaultParams(t *testing.T) {
	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=3,p=2$") {
		t.Fatalf("unexpected hash prefix: %s", hash)
	}
	p, salt, key, err := decodeHash(hash)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p != defaultArgonParams || len(salt) != argonSaltLen || len(key) != int(argonKeyLen) {
		t.Fatalf("unexpected decoded hash: params=%+v salt=%d key=%d", p, len(salt), len(key))
	}
}

package crypto

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

const testKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func TestEncryptDecrypt(t *testing.T) {
	svc, err := New(testKey)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !svc.Configured() {
		t.Fatal("expected configured service")
	}

	sealed, err := svc.Encrypt([]byte("JBSWY3DPEHPK3PXP"))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if bytes.Contains(sealed, []byte("JBSWY3DPEHPK3PXP")) {
		t.Fatal("ciphertext contains plaintext")
	}
	plain, err := svc.Decrypt(sealed)
	if err != nil || string(plain) != "JBSWY3DPEHPK3PXP" {
		t.Fatalf("decrypt: %q err=%v", plain, err)
	}

	again, _ := svc.Encrypt([]byte("JBSWY3DPEHPK3PXP"))
	if bytes.Equal(sealed, again) {
		t.Fatal("expected a fresh nonce per encryption")
	}
}

func TestDecryptRejectsTampering(t *testing.T) {
	svc, _ := New(testKey)
	sealed, _ := svc.Encrypt([]byte("secret"))
	sealed[len(sealed)-1] ^= 0xff
	if _, err := svc.Decrypt(sealed); err == nil {
		t.Fatal("expected authentication failure")
	}
	if _, err := svc.Decrypt([]byte("short")); !errors.Is(err, ErrCiphertextTooShort) {
		t.Fatalf("expected short ciphertext error, got %v", err)
	}
}

func TestUnconfiguredPassesThrough(t *testing.T) {
	svc, err := New("")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if svc.Configured() {
		t.Fatal("expected unconfigured service")
	}
	sealed, _ := svc.Encrypt([]byte("plain"))
	if string(sealed) != "plain" {
		t.Fatalf("expected passthrough, got %q", sealed)
	}
}

func TestNewRejectsShortKey(t *testing.T) {
	if _, err := New("too-short"); err == nil || !strings.Contains(err.Error(), "32 bytes") {
		t.Fatalf("expected key length error, got %v", err)
	}
}

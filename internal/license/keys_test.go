package license

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestKeyPairRoundTrip(t *testing.T) {
	dir := t.TempDir()
	privPath := filepath.Join(dir, "private.pem")
	pubPath := filepath.Join(dir, "public.pem")

	key, err := GenerateKeyPair(2048)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	if err := SavePrivateKey(key, privPath, "", false); err != nil {
		t.Fatalf("SavePrivateKey: %v", err)
	}
	if err := SavePublicKey(key, pubPath, false); err != nil {
		t.Fatalf("SavePublicKey: %v", err)
	}

	info, err := os.Stat(privPath)
	if err != nil {
		t.Fatalf("stat private key: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("private key permissions = %o, want 600", info.Mode().Perm())
	}

	loaded, err := LoadPrivateKey(privPath, "")
	if err != nil {
		t.Fatalf("LoadPrivateKey: %v", err)
	}
	if loaded.N.Cmp(key.N) != 0 {
		t.Error("loaded private key does not match generated key")
	}

	pub, err := LoadPublicKey(pubPath)
	if err != nil {
		t.Fatalf("LoadPublicKey: %v", err)
	}
	if pub.N.Cmp(key.PublicKey.N) != 0 {
		t.Error("loaded public key does not match generated key")
	}
}

func TestEncryptedPrivateKey(t *testing.T) {
	dir := t.TempDir()
	privPath := filepath.Join(dir, "private.pem")

	key, err := GenerateKeyPair(2048)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	if err := SavePrivateKey(key, privPath, "hunter2", false); err != nil {
		t.Fatalf("SavePrivateKey: %v", err)
	}

	loaded, err := LoadPrivateKey(privPath, "hunter2")
	if err != nil {
		t.Fatalf("LoadPrivateKey with password: %v", err)
	}
	if loaded.N.Cmp(key.N) != 0 {
		t.Error("decrypted key does not match")
	}

	if _, err := LoadPrivateKey(privPath, "wrong"); err == nil {
		t.Error("expected error with wrong password")
	}
	if _, err := LoadPrivateKey(privPath, ""); err == nil {
		t.Error("expected error with missing password")
	}
}

func TestSaveRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	privPath := filepath.Join(dir, "private.pem")

	key, err := GenerateKeyPair(2048)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	if err := SavePrivateKey(key, privPath, "", false); err != nil {
		t.Fatalf("first save: %v", err)
	}
	err = SavePrivateKey(key, privPath, "", false)
	if err == nil || !strings.Contains(err.Error(), "refusing to overwrite") {
		t.Errorf("expected overwrite refusal, got %v", err)
	}

	if err := SavePrivateKey(key, privPath, "", true); err != nil {
		t.Errorf("forced save should succeed: %v", err)
	}
}

func TestGenerateKeyPairSizeValidation(t *testing.T) {
	for _, bits := range []int{512, 1024, 3072} {
		if _, err := GenerateKeyPair(bits); err == nil {
			t.Errorf("expected error for %d-bit key", bits)
		}
	}
}

func TestParsePrivateKeyRejectsGarbage(t *testing.T) {
	if _, err := ParsePrivateKey([]byte("not a pem"), ""); err == nil {
		t.Error("expected error for non-PEM input")
	}
	if _, err := ParsePublicKey([]byte("not a pem")); err == nil {
		t.Error("expected error for non-PEM input")
	}
}

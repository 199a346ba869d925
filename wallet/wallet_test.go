package wallet

import (
	"path/filepath"
	"testing"

	"github.com/esrbwt1/zelealem/crypto"
	"github.com/esrbwt1/zelealem/ledger"
)

func TestSaveLoadKeyRoundTrip(t *testing.T) {
	w, err := Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	path := filepath.Join(t.TempDir(), "keystore.json")

	if err := SaveKey(path, "correct horse battery staple", w.SecretKey()); err != nil {
		t.Fatalf("SaveKey: %v", err)
	}
	loaded, err := LoadKey(path, "correct horse battery staple")
	if err != nil {
		t.Fatalf("LoadKey: %v", err)
	}
	if loaded != w.SecretKey() {
		t.Error("loaded key does not match the saved one")
	}
}

func TestLoadKeyWrongPassword(t *testing.T) {
	w, err := Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	path := filepath.Join(t.TempDir(), "keystore.json")
	if err := SaveKey(path, "correct password", w.SecretKey()); err != nil {
		t.Fatalf("SaveKey: %v", err)
	}
	if _, err := LoadKey(path, "wrong password"); err == nil {
		t.Fatal("expected an error when decrypting with the wrong password")
	}
}

func TestLoadKeyMissingFile(t *testing.T) {
	if _, err := LoadKey(filepath.Join(t.TempDir(), "missing.json"), "pw"); err == nil {
		t.Fatal("expected an error for a missing keystore file")
	}
}

func TestSpendTransaction(t *testing.T) {
	w, err := Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	input := w.NewStateObject([]byte("in"), nil)
	output := w.NewStateObject([]byte("out"), nil)

	tx := w.SpendTransaction([]crypto.Hash{input.ID}, []ledger.StateObject{output}, nil)
	if err := crypto.Verify(tx.Signature, tx.ID[:], w.PublicKey()); err != nil {
		t.Errorf("spend transaction should be signed by the wallet's own key: %v", err)
	}
}

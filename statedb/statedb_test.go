package statedb

import (
	"errors"
	"testing"

	"github.com/esrbwt1/zelealem/crypto"
	"github.com/esrbwt1/zelealem/ledger"
)

func newSO(t *testing.T) ledger.StateObject {
	t.Helper()
	pub, _, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	return ledger.NewStateObject(pub, []byte("payload"), nil)
}

func TestAddGetRemove(t *testing.T) {
	db := New()
	so := newSO(t)

	if err := db.Add(so); err != nil {
		t.Fatalf("Add: %v", err)
	}
	got, err := db.Get(so.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != so.ID {
		t.Errorf("got id %x, want %x", got.ID[:], so.ID[:])
	}

	removed, err := db.Remove(so.ID)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if removed.ID != so.ID {
		t.Errorf("removed id %x, want %x", removed.ID[:], so.ID[:])
	}
	if _, err := db.Get(so.ID); err == nil {
		t.Fatal("expected ErrNotFound after Remove")
	}
}

func TestAddDuplicateFails(t *testing.T) {
	db := New()
	so := newSO(t)
	if err := db.Add(so); err != nil {
		t.Fatalf("Add: %v", err)
	}
	err := db.Add(so)
	var alreadyExists *ErrAlreadyExists
	if !errors.As(err, &alreadyExists) {
		t.Fatalf("got %v, want ErrAlreadyExists", err)
	}
}

func TestGetMissingFails(t *testing.T) {
	db := New()
	_, err := db.Get(crypto.Hash{1, 2, 3})
	var notFound *ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestRemoveMissingFails(t *testing.T) {
	db := New()
	_, err := db.Remove(crypto.Hash{9})
	var notFound *ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestLen(t *testing.T) {
	db := New()
	if db.Len() != 0 {
		t.Fatalf("got %d, want 0", db.Len())
	}
	so := newSO(t)
	db.Add(so)
	if db.Len() != 1 {
		t.Fatalf("got %d, want 1", db.Len())
	}
}

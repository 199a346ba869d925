package mempool

import (
	"testing"

	"github.com/esrbwt1/zelealem/crypto"
	"github.com/esrbwt1/zelealem/ledger"
)

func dummyTx(t *testing.T, tag byte) *ledger.Transaction {
	t.Helper()
	pub, _, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	so := ledger.NewStateObject(pub, []byte{tag}, nil)
	return ledger.NewTransaction([]crypto.Hash{so.ID}, []ledger.StateObject{so}, nil)
}

func TestAddAndGetBatchPreservesOrder(t *testing.T) {
	p := New(0)
	tx1 := dummyTx(t, 1)
	tx2 := dummyTx(t, 2)
	tx3 := dummyTx(t, 3)

	for _, tx := range []*ledger.Transaction{tx1, tx2, tx3} {
		if err := p.Add(tx); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	batch := p.GetBatch(2)
	if len(batch) != 2 || batch[0] != tx1 || batch[1] != tx2 {
		t.Fatalf("got %v, want [tx1, tx2] in FIFO order", batch)
	}
	if p.Len() != 1 {
		t.Fatalf("got len %d, want 1", p.Len())
	}
}

func TestAddNoDeduplication(t *testing.T) {
	p := New(0)
	tx := dummyTx(t, 1)
	if err := p.Add(tx); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := p.Add(tx); err != nil {
		t.Fatalf("Add should accept the same transaction twice: %v", err)
	}
	if p.Len() != 2 {
		t.Fatalf("got len %d, want 2", p.Len())
	}
}

func TestAddRejectsWhenFull(t *testing.T) {
	p := New(1)
	if err := p.Add(dummyTx(t, 1)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := p.Add(dummyTx(t, 2)); err == nil {
		t.Fatal("expected ErrFull when pool is at capacity")
	}
}

func TestGetBatchCapsAtAvailable(t *testing.T) {
	p := New(0)
	p.Add(dummyTx(t, 1))
	batch := p.GetBatch(10)
	if len(batch) != 1 {
		t.Fatalf("got %d, want 1", len(batch))
	}
}

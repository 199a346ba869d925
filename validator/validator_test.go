package validator

import (
	"errors"
	"testing"

	"github.com/esrbwt1/zelealem/crypto"
	"github.com/esrbwt1/zelealem/ledger"
)

// memView is a minimal StateView backed by a plain map, enough to drive
// Validate without pulling in the statedb package.
type memView map[crypto.Hash]ledger.StateObject

func (v memView) Get(id crypto.Hash) (ledger.StateObject, error) {
	so, ok := v[id]
	if !ok {
		return ledger.StateObject{}, errors.New("not found")
	}
	return so, nil
}

func setup(t *testing.T) (crypto.PublicKey, crypto.SecretKey, ledger.StateObject) {
	t.Helper()
	pub, sec, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	input := ledger.NewStateObject(pub, []byte("input"), nil)
	return pub, sec, input
}

func TestValidateAccepts(t *testing.T) {
	pub, sec, input := setup(t)
	view := memView{input.ID: input}
	output := ledger.NewStateObject(pub, []byte("output"), nil)
	tx := ledger.NewTransaction([]crypto.Hash{input.ID}, []ledger.StateObject{output}, nil)
	tx.Sign(sec)

	if err := Validate(view, tx); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRejectsMismatchedID(t *testing.T) {
	pub, sec, input := setup(t)
	view := memView{input.ID: input}
	tx := ledger.NewTransaction([]crypto.Hash{input.ID}, nil, nil)
	tx.Sign(sec)
	tx.Outputs = append(tx.Outputs, ledger.NewStateObject(pub, []byte("sneaky"), nil))

	if err := Validate(view, tx); !errors.Is(err, ErrMismatchedID) {
		t.Fatalf("got %v, want ErrMismatchedID", err)
	}
}

func TestValidateRejectsNoInputs(t *testing.T) {
	_, sec, _ := setup(t)
	tx := ledger.NewTransaction(nil, nil, nil)
	tx.Sign(sec)

	if err := Validate(memView{}, tx); !errors.Is(err, ErrNoInputs) {
		t.Fatalf("got %v, want ErrNoInputs", err)
	}
}

func TestValidateRejectsMissingInput(t *testing.T) {
	_, sec, input := setup(t)
	tx := ledger.NewTransaction([]crypto.Hash{input.ID}, nil, nil)
	tx.Sign(sec)

	err := Validate(memView{}, tx)
	var notFound *ErrInputNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("got %v, want ErrInputNotFound", err)
	}
}

func TestValidateRejectsMultipleOwners(t *testing.T) {
	pub1, sec1, input1 := setup(t)
	_ = pub1
	pub2, _, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	input2 := ledger.NewStateObject(pub2, []byte("other owner"), nil)
	view := memView{input1.ID: input1, input2.ID: input2}

	tx := ledger.NewTransaction([]crypto.Hash{input1.ID, input2.ID}, nil, nil)
	tx.Sign(sec1)

	if err := Validate(view, tx); !errors.Is(err, ErrMultipleOwners) {
		t.Fatalf("got %v, want ErrMultipleOwners", err)
	}
}

// TestValidateReportsMissingInputBeforeOwnershipMismatch ensures existence
// is checked over every input to completion before ownership is compared,
// so a missing third input wins over an ownership mismatch at the second.
func TestValidateReportsMissingInputBeforeOwnershipMismatch(t *testing.T) {
	pub1, sec1, input1 := setup(t)
	_ = pub1
	pub2, _, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	input2 := ledger.NewStateObject(pub2, []byte("other owner"), nil)

	missingID := ledger.NewStateObject(pub2, []byte("never stored"), nil).ID
	view := memView{input1.ID: input1, input2.ID: input2}

	tx := ledger.NewTransaction([]crypto.Hash{input1.ID, input2.ID, missingID}, nil, nil)
	tx.Sign(sec1)

	err = Validate(view, tx)
	var notFound *ErrInputNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("got %v, want ErrInputNotFound for the missing third input", err)
	}
	if notFound.ID != missingID {
		t.Fatalf("got ErrInputNotFound{%x}, want %x", notFound.ID[:], missingID[:])
	}
}

func TestValidateRejectsInvalidSignature(t *testing.T) {
	_, _, input := setup(t)
	view := memView{input.ID: input}
	tx := ledger.NewTransaction([]crypto.Hash{input.ID}, nil, nil)

	otherPub, otherSec, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	_ = otherPub
	tx.Sign(otherSec)

	if err := Validate(view, tx); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("got %v, want ErrInvalidSignature", err)
	}
}

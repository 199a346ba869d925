// Package validator checks a transaction against the current state
// database before it is applied.
package validator

import (
	"errors"
	"fmt"

	"github.com/esrbwt1/zelealem/crypto"
	"github.com/esrbwt1/zelealem/ledger"
)

// ErrMismatchedID is returned when a transaction's declared ID does not
// match the id recomputed from its contents.
var ErrMismatchedID = errors.New("transaction id does not match its contents")

// ErrNoInputs is returned when a transaction declares zero inputs.
var ErrNoInputs = errors.New("transaction has no inputs")

// ErrInputNotFound is returned when a declared input does not exist in
// the state database.
type ErrInputNotFound struct{ ID crypto.Hash }

func (e *ErrInputNotFound) Error() string {
	return fmt.Sprintf("input state object %x not found", e.ID[:])
}

// ErrMultipleOwners is returned when a transaction's inputs are not all
// owned by the same public key.
var ErrMultipleOwners = errors.New("transaction inputs have more than one owner")

// ErrInvalidSignature is returned when a transaction's signature does not
// verify against its sole input owner.
var ErrInvalidSignature = errors.New("transaction signature is invalid")

// StateView is the read-only view of the state database that validation
// needs. *statedb.DB satisfies it.
type StateView interface {
	Get(id crypto.Hash) (ledger.StateObject, error)
}

// Validate runs the five ordered checks a transaction must pass before it
// may be applied: id integrity, non-empty inputs, input existence, single
// ownership, and signature validity. Each check runs to completion over
// every input before the next begins: a missing input always reports as
// ErrInputNotFound even if an earlier, existing input belongs to a
// different owner than a later one. It returns the first check that
// fails.
func Validate(view StateView, tx *ledger.Transaction) error {
	if tx.RecomputeID() != tx.ID {
		return ErrMismatchedID
	}
	if len(tx.Inputs) == 0 {
		return ErrNoInputs
	}

	inputs := make([]ledger.StateObject, len(tx.Inputs))
	for i, inputID := range tx.Inputs {
		so, err := view.Get(inputID)
		if err != nil {
			return &ErrInputNotFound{ID: inputID}
		}
		inputs[i] = so
	}

	owner := inputs[0].Owner
	for _, so := range inputs[1:] {
		if so.Owner != owner {
			return ErrMultipleOwners
		}
	}

	if err := crypto.Verify(tx.Signature, tx.ID[:], owner); err != nil {
		return ErrInvalidSignature
	}
	return nil
}

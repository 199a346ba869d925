package ledger

import "github.com/esrbwt1/zelealem/crypto"

// StateObject is a content-addressed, consumable unit of state: the
// node's analogue of an unspent output. It is created by a Transaction's
// outputs and destroyed when a later Transaction consumes it as an input.
type StateObject struct {
	ID              crypto.Hash
	Owner           crypto.PublicKey
	Data            []byte
	ValidationLogic []byte
}

// hashableStateObject mirrors the field set and order that §3 of the spec
// fixes for State Object identity: owner, data, validation_logic. ID is
// deliberately absent — it is the hash of this very view.
type hashableStateObject struct {
	Owner           crypto.PublicKey
	Data            []byte
	ValidationLogic []byte
}

// NewStateObject builds a StateObject and computes its content-addressed ID.
func NewStateObject(owner crypto.PublicKey, data, validationLogic []byte) StateObject {
	id := canonicalHash(hashableStateObject{
		Owner:           owner,
		Data:            data,
		ValidationLogic: validationLogic,
	})
	return StateObject{
		ID:              id,
		Owner:           owner,
		Data:            data,
		ValidationLogic: validationLogic,
	}
}

// CausalLink lets one transaction reference the validation logic of
// another State Object. Endpoint resolution is reserved for a future
// extension; the validator does not currently check it.
type CausalLink struct {
	SourceSOID crypto.Hash
	TargetSOID crypto.Hash
}

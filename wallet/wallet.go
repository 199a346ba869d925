package wallet

import (
	"github.com/esrbwt1/zelealem/crypto"
	"github.com/esrbwt1/zelealem/ledger"
)

// Wallet holds a key pair and builds signed transactions on its behalf.
type Wallet struct {
	sec crypto.SecretKey
	pub crypto.PublicKey
}

// New creates a Wallet from an existing secret key.
func New(sec crypto.SecretKey) *Wallet {
	return &Wallet{sec: sec, pub: sec.Public()}
}

// Generate creates a Wallet with a freshly generated key pair.
func Generate() (*Wallet, error) {
	_, sec, err := crypto.GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	return New(sec), nil
}

// SecretKey returns the raw secret key (handle with care).
func (w *Wallet) SecretKey() crypto.SecretKey {
	return w.sec
}

// PublicKey returns the wallet's public key.
func (w *Wallet) PublicKey() crypto.PublicKey {
	return w.pub
}

// NewStateObject builds a new State Object owned by this wallet.
func (w *Wallet) NewStateObject(data, validationLogic []byte) ledger.StateObject {
	return ledger.NewStateObject(w.pub, data, validationLogic)
}

// SpendTransaction builds and signs a transaction consuming inputs (which
// must all be owned by this wallet) and producing outputs.
func (w *Wallet) SpendTransaction(inputs []crypto.Hash, outputs []ledger.StateObject, causalLinks []ledger.CausalLink) *ledger.Transaction {
	tx := ledger.NewTransaction(inputs, outputs, causalLinks)
	tx.Sign(w.sec)
	return tx
}

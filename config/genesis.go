package config

import (
	"encoding/hex"
	"fmt"

	"github.com/esrbwt1/zelealem/consensus"
	"github.com/esrbwt1/zelealem/crypto"
	"github.com/esrbwt1/zelealem/ledger"
	"github.com/esrbwt1/zelealem/statedb"
)

// BuildValidatorSet registers every validator in cfg into a fresh
// consensus.ValidatorSet.
func (c *Config) BuildValidatorSet() (*consensus.ValidatorSet, error) {
	vs := consensus.NewValidatorSet()
	for i, v := range c.Validators {
		pub, err := crypto.PublicKeyFromHex(v.PubKey)
		if err != nil {
			return nil, fmt.Errorf("validators[%d]: %w", i, err)
		}
		vs.AddValidator(pub, v.Stake)
	}
	return vs, nil
}

// BuildGenesisState mints every allocation in cfg.Genesis.Alloc into db,
// giving a fresh chain its initial spendable State Objects.
func (c *Config) BuildGenesisState(db *statedb.DB) error {
	for i, a := range c.Genesis.Alloc {
		owner, err := crypto.PublicKeyFromHex(a.Owner)
		if err != nil {
			return fmt.Errorf("genesis.alloc[%d]: %w", i, err)
		}
		data, err := hex.DecodeString(a.Data)
		if err != nil {
			return fmt.Errorf("genesis.alloc[%d]: %w", i, err)
		}
		so := ledger.NewStateObject(owner, data, nil)
		if err := db.Add(so); err != nil {
			return fmt.Errorf("genesis.alloc[%d]: %w", i, err)
		}
	}
	return nil
}

// Package chain implements the node's append-only block sequence.
package chain

import (
	"fmt"
	"sync"

	"github.com/esrbwt1/zelealem/crypto"
	"github.com/esrbwt1/zelealem/ledger"
)

// ErrPreviousHashMismatch is returned by Append when a candidate block's
// PreviousHash does not equal the current chain tip's ID.
type ErrPreviousHashMismatch struct {
	Got, Want crypto.Hash
}

func (e *ErrPreviousHashMismatch) Error() string {
	return fmt.Sprintf("previous hash mismatch: got %x, want %x", e.Got[:], e.Want[:])
}

// Chain is the ordered, append-only sequence of blocks starting at
// genesis. Structural linkage (Append's previous-hash check) is all this
// package guarantees; transaction-level validation happens one layer up.
type Chain struct {
	mu     sync.RWMutex
	blocks []*ledger.Block
}

// New creates a chain seeded with the canonical genesis block.
func New() *Chain {
	return &Chain{blocks: []*ledger.Block{ledger.Genesis()}}
}

// Latest returns the current chain tip.
func (c *Chain) Latest() *ledger.Block {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks[len(c.blocks)-1]
}

// Height returns the number of blocks in the chain, including genesis.
func (c *Chain) Height() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.blocks)
}

// CheckLinksToTip reports whether b.PreviousHash equals the current tip's
// id, without mutating the chain. It is the structural check of
// ProcessBlock's phase A.
func (c *Chain) CheckLinksToTip(b *ledger.Block) error {
	c.mu.RLock()
	tip := c.blocks[len(c.blocks)-1]
	c.mu.RUnlock()
	if b.PreviousHash != tip.ID {
		return &ErrPreviousHashMismatch{Got: b.PreviousHash, Want: tip.ID}
	}
	return nil
}

// Append links b to the current tip and adds it to the chain. Callers
// must have already run CheckLinksToTip and the full validation sweep;
// Append re-checks linkage defensively but performs no other validation.
func (c *Chain) Append(b *ledger.Block) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	tip := c.blocks[len(c.blocks)-1]
	if b.PreviousHash != tip.ID {
		return &ErrPreviousHashMismatch{Got: b.PreviousHash, Want: tip.ID}
	}
	c.blocks = append(c.blocks, b)
	return nil
}

// BlockAt returns the block at the given height, or nil if out of range.
func (c *Chain) BlockAt(height int) *ledger.Block {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if height < 0 || height >= len(c.blocks) {
		return nil
	}
	return c.blocks[height]
}

// Package mempool implements the node's pending-transaction queue: a
// bounded, first-in-first-out buffer with no duplicate detection, matching
// the reference node's behavior.
package mempool

import (
	"sync"

	"github.com/esrbwt1/zelealem/ledger"
)

// DefaultCapacity is the maximum number of pending transactions held at
// once. Once full, Add rejects new transactions until room is freed by
// GetBatch.
const DefaultCapacity = 1000

// ErrFull is returned by Add when the pool is at capacity.
type ErrFull struct{}

func (ErrFull) Error() string { return "mempool is full" }

// Pool is a bounded FIFO queue of pending transactions. It performs no
// deduplication: submitting the same transaction twice queues it twice,
// exactly as the reference node does.
type Pool struct {
	mu       sync.Mutex
	capacity int
	pending  []*ledger.Transaction
}

// New creates a pool with the given capacity. A capacity of 0 uses
// DefaultCapacity.
func New(capacity int) *Pool {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Pool{capacity: capacity}
}

// Add appends tx to the back of the queue, failing if the pool is full.
func (p *Pool) Add(tx *ledger.Transaction) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.pending) >= p.capacity {
		return ErrFull{}
	}
	p.pending = append(p.pending, tx)
	return nil
}

// GetBatch removes and returns up to n transactions from the front of the
// queue, in the order they were added.
func (p *Pool) GetBatch(n int) []*ledger.Transaction {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n > len(p.pending) {
		n = len(p.pending)
	}
	batch := make([]*ledger.Transaction, n)
	copy(batch, p.pending[:n])
	p.pending = p.pending[n:]
	return batch
}

// Len reports the number of pending transactions.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

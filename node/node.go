// Package node wires the ledger, state database, mempool, chain and
// gossip transport into a single running participant: validating and
// applying blocks, proposing new ones on its turn, and handling received
// gossip. Received messages are not rebroadcast.
package node

import (
	"fmt"
	"log"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/esrbwt1/zelealem/chain"
	"github.com/esrbwt1/zelealem/consensus"
	"github.com/esrbwt1/zelealem/crypto"
	"github.com/esrbwt1/zelealem/gossip"
	"github.com/esrbwt1/zelealem/ledger"
	"github.com/esrbwt1/zelealem/mempool"
	"github.com/esrbwt1/zelealem/statedb"
	"github.com/esrbwt1/zelealem/validator"
)

// BatchSize is the default number of pending transactions pulled from the
// mempool into each proposed block.
const BatchSize = 10

// DefaultProposerTick is the default interval between proposal attempts.
const DefaultProposerTick = 10 * time.Second

// gossipEvent is how the transport hands a received envelope payload to
// the node's single event-loop goroutine.
type gossipEvent struct {
	topic   string
	peerID  string
	payload []byte
}

// Node is the single-writer owner of the chain and state database. All
// mutation happens on the goroutine running Run; gossip I/O and the
// proposer ticker feed it events over a channel.
type Node struct {
	Chain      *chain.Chain
	State      *statedb.DB
	Mempool    *mempool.Pool
	Validators *consensus.ValidatorSet
	Transport  gossip.Transport

	secretKey crypto.SecretKey
	publicKey crypto.PublicKey

	proposerTick time.Duration
	batchSize    int

	events chan gossipEvent
}

// Config bundles the dependencies Node needs at construction; all fields
// are required except ProposerTick and BatchSize, which fall back to
// DefaultProposerTick and BatchSize when zero.
type Config struct {
	Chain        *chain.Chain
	State        *statedb.DB
	Mempool      *mempool.Pool
	Validators   *consensus.ValidatorSet
	Transport    gossip.Transport
	SecretKey    crypto.SecretKey
	ProposerTick time.Duration
	BatchSize    int
}

// New builds a Node and subscribes it to the gossip topics it cares
// about. Run must be called afterward to start processing.
func New(cfg Config) *Node {
	tick := cfg.ProposerTick
	if tick <= 0 {
		tick = DefaultProposerTick
	}
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = BatchSize
	}

	n := &Node{
		Chain:        cfg.Chain,
		State:        cfg.State,
		Mempool:      cfg.Mempool,
		Validators:   cfg.Validators,
		Transport:    cfg.Transport,
		secretKey:    cfg.SecretKey,
		publicKey:    cfg.SecretKey.Public(),
		proposerTick: tick,
		batchSize:    batch,
		events:       make(chan gossipEvent, 256),
	}

	n.Transport.Subscribe(gossip.TopicTransactions, func(peerID string, payload []byte) {
		n.events <- gossipEvent{topic: gossip.TopicTransactions, peerID: peerID, payload: payload}
	})
	n.Transport.Subscribe(gossip.TopicBlocks, func(peerID string, payload []byte) {
		n.events <- gossipEvent{topic: gossip.TopicBlocks, peerID: peerID, payload: payload}
	})

	return n
}

// Run is the node's single-threaded cooperative event loop: one
// goroutine selects between the proposer ticker and incoming gossip
// events, so exactly one handler body executes at a time. It blocks
// until done is closed.
func (n *Node) Run(done <-chan struct{}) {
	ticker := time.NewTicker(n.proposerTick)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			n.tryPropose()
		case ev := <-n.events:
			n.handleGossipEvent(ev)
		}
	}
}

func (n *Node) handleGossipEvent(ev gossipEvent) {
	switch ev.topic {
	case gossip.TopicTransactions:
		n.handleIncomingTransaction(ev.payload)
	case gossip.TopicBlocks:
		n.handleIncomingBlock(ev.payload)
	}
}

// handleIncomingTransaction deserializes and validates a gossiped
// transaction. A malformed payload or an invalid transaction is logged
// and dropped, never rebroadcast or penalized.
func (n *Node) handleIncomingTransaction(payload []byte) {
	var tx ledger.Transaction
	if err := cbor.Unmarshal(payload, &tx); err != nil {
		log.Printf("[node] dropping malformed transaction gossip: %v", err)
		return
	}
	if err := validator.Validate(n.State, &tx); err != nil {
		log.Printf("[node] dropping invalid transaction %x: %v", tx.ID[:], err)
		return
	}
	if err := n.Mempool.Add(&tx); err != nil {
		log.Printf("[node] mempool rejected transaction %x: %v", tx.ID[:], err)
	}
}

// handleIncomingBlock deserializes a gossiped block and runs it through
// ProcessBlock. A malformed payload or a failed block is logged and
// dropped; there is no fork-choice logic.
func (n *Node) handleIncomingBlock(payload []byte) {
	var block ledger.Block
	if err := cbor.Unmarshal(payload, &block); err != nil {
		log.Printf("[node] dropping malformed block gossip: %v", err)
		return
	}
	if err := n.ProcessBlock(&block); err != nil {
		log.Printf("[node] dropping block %x: %v", block.ID[:], err)
	}
}

// tryPropose builds and applies a new block if this node is the selected
// proposer for the current chain tip, then gossips it.
func (n *Node) tryPropose() {
	proposer, ok := consensus.SelectProposer(n.Validators, n.Chain.Latest().ID)
	if !ok || proposer != n.publicKey {
		return
	}

	txs := n.Mempool.GetBatch(n.batchSize)
	block := ledger.NewBlock(n.Chain.Latest().ID, n.publicKey, txs, nil)

	if err := n.ProcessBlock(block); err != nil {
		log.Printf("[node] proposer failed to apply own block: %v", err)
		return
	}

	data, err := cbor.Marshal(block)
	if err != nil {
		log.Printf("[node] marshal proposed block: %v", err)
		return
	}
	if err := n.Transport.Publish(gossip.TopicBlocks, data); err != nil {
		log.Printf("[node] publish proposed block: %v", err)
	}
}

// ProcessBlock runs the four-phase block transition: (A) structural
// previous-hash check against the current tip, with no mutation; (B) a
// full validation sweep of every transaction against current state, with
// no mutation; (C) apply every transaction's effects to the state
// database; (D) append the block to the chain. A failure in phase C is
// an invariant violation, not a recoverable error — phase B having
// already passed guarantees phase C cannot fail under correct operation.
func (n *Node) ProcessBlock(block *ledger.Block) error {
	// Phase A: structural linkage, no mutation.
	if err := n.Chain.CheckLinksToTip(block); err != nil {
		return fmt.Errorf("phase A link check: %w", err)
	}

	// Phase B: full validation sweep, no mutation.
	for _, tx := range block.Transactions {
		if err := validator.Validate(n.State, tx); err != nil {
			return fmt.Errorf("phase B validation of transaction %x: %w", tx.ID[:], err)
		}
	}

	// Phase C: apply. A failure here means phase B's guarantee was
	// violated; that is a programming error, not a gossip-induced one.
	for _, tx := range block.Transactions {
		for _, inputID := range tx.Inputs {
			if _, err := n.State.Remove(inputID); err != nil {
				log.Fatalf("[node] FATAL: block %x phase C invariant violated removing input %x: %v",
					block.ID[:], inputID[:], err)
			}
		}
		for _, out := range tx.Outputs {
			if err := n.State.Add(out); err != nil {
				log.Fatalf("[node] FATAL: block %x phase C invariant violated adding output %x: %v",
					block.ID[:], out.ID[:], err)
			}
		}
	}

	// Phase D: append.
	if err := n.Chain.Append(block); err != nil {
		return fmt.Errorf("phase D append: %w", err)
	}
	return nil
}

package ledger

import "github.com/esrbwt1/zelealem/crypto"

// Block is an ordered batch of transactions linked to its predecessor by
// hash. VDFProof is reserved for a future proof-of-delay consensus
// extension and is opaque to this package.
type Block struct {
	ID           crypto.Hash
	PreviousHash crypto.Hash
	Proposer     crypto.PublicKey
	Transactions []*Transaction
	VDFProof     []byte
}

// hashableBlock mirrors §3's identity fields for a Block: previous_hash,
// proposer, transactions, vdf_proof, in that order.
type hashableBlock struct {
	PreviousHash crypto.Hash
	Proposer     crypto.PublicKey
	Transactions []*Transaction
	VDFProof     []byte
}

// NewBlock builds a Block and computes its content-addressed ID.
func NewBlock(previousHash crypto.Hash, proposer crypto.PublicKey, txs []*Transaction, vdfProof []byte) *Block {
	id := canonicalHash(hashableBlock{
		PreviousHash: previousHash,
		Proposer:     proposer,
		Transactions: txs,
		VDFProof:     vdfProof,
	})
	return &Block{
		ID:           id,
		PreviousHash: previousHash,
		Proposer:     proposer,
		Transactions: txs,
		VDFProof:     vdfProof,
	}
}

// Genesis returns the canonical genesis block: all-zero previous hash and
// proposer, no transactions, no VDF proof.
func Genesis() *Block {
	return NewBlock(crypto.Hash{}, crypto.PublicKey{}, nil, nil)
}

package ledger

import "github.com/esrbwt1/zelealem/crypto"

// Transaction is the atomic unit of state transition: it consumes Inputs
// (by id) and produces Outputs, authorized by a Signature from the single
// owner of all inputs. Signature is proof over ID, not part of it.
type Transaction struct {
	ID          crypto.Hash
	Inputs      []crypto.Hash
	Outputs     []StateObject
	CausalLinks []CausalLink
	Signature   crypto.Signature
}

// hashableTransaction mirrors §3's identity fields for a Transaction:
// inputs, outputs, causal_links, in that order. Signature and ID are
// excluded — the signature is proof over ID, not covered by it.
type hashableTransaction struct {
	Inputs      []crypto.Hash
	Outputs     []StateObject
	CausalLinks []CausalLink
}

// NewTransaction builds an unsigned Transaction and computes its
// content-addressed ID. Call Sign afterward to authorize it.
func NewTransaction(inputs []crypto.Hash, outputs []StateObject, causalLinks []CausalLink) *Transaction {
	id := canonicalHash(hashableTransaction{
		Inputs:      inputs,
		Outputs:     outputs,
		CausalLinks: causalLinks,
	})
	return &Transaction{
		ID:          id,
		Inputs:      inputs,
		Outputs:     outputs,
		CausalLinks: causalLinks,
	}
}

// Sign authorizes the transaction: the signature is computed over ID.
func (tx *Transaction) Sign(sec crypto.SecretKey) {
	tx.Signature = crypto.Sign(tx.ID[:], sec)
}

// RecomputeID returns the id that tx.ID should equal, recomputed from its
// current contents. Used by the validator's id-integrity check and by
// tests asserting the content-addressing law.
func (tx *Transaction) RecomputeID() crypto.Hash {
	return canonicalHash(hashableTransaction{
		Inputs:      tx.Inputs,
		Outputs:     tx.Outputs,
		CausalLinks: tx.CausalLinks,
	})
}

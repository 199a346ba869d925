// Package consensus selects the block proposer for a given chain tip.
//
// Selection is deterministic and stake-blind: validators are sorted
// lexicographically by public key, the latest block hash seeds an index
// into that sorted list, and the validator at that index proposes the
// next block. Stake is tracked on Validator for a future weighted
// strategy but does not currently influence selection.
package consensus

import (
	"encoding/binary"
	"sort"
	"sync"

	"github.com/esrbwt1/zelealem/crypto"
)

// Validator is a participant in block proposal, identified by PubKey and
// carrying a Stake weight reserved for future use.
type Validator struct {
	PubKey crypto.PublicKey
	Stake  uint64
}

// ValidatorSet is the registered set of validators for the chain.
type ValidatorSet struct {
	mu         sync.RWMutex
	validators map[crypto.PublicKey]uint64
}

// NewValidatorSet creates an empty validator set.
func NewValidatorSet() *ValidatorSet {
	return &ValidatorSet{validators: make(map[crypto.PublicKey]uint64)}
}

// AddValidator registers a validator with the given stake, overwriting
// any existing entry for the same public key.
func (vs *ValidatorSet) AddValidator(pubKey crypto.PublicKey, stake uint64) {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	vs.validators[pubKey] = stake
}

// Contains reports whether pubKey is a registered validator.
func (vs *ValidatorSet) Contains(pubKey crypto.PublicKey) bool {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	_, ok := vs.validators[pubKey]
	return ok
}

// Len reports the number of registered validators.
func (vs *ValidatorSet) Len() int {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	return len(vs.validators)
}

// StakeOf reports the stake registered for pubKey. It reports false if
// pubKey is not a registered validator.
func (vs *ValidatorSet) StakeOf(pubKey crypto.PublicKey) (uint64, bool) {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	stake, ok := vs.validators[pubKey]
	return stake, ok
}

// TotalStake sums the stake of every registered validator.
func (vs *ValidatorSet) TotalStake() uint64 {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	var total uint64
	for _, stake := range vs.validators {
		total += stake
	}
	return total
}

// sortedKeys returns the registered public keys in ascending
// lexicographic byte order.
func (vs *ValidatorSet) sortedKeys() []crypto.PublicKey {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	keys := make([]crypto.PublicKey, 0, len(vs.validators))
	for k := range vs.validators {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return string(keys[i][:]) < string(keys[j][:])
	})
	return keys
}

// ProposerStrategy picks the proposer for the block following latestHash
// against the given validator set. It reports false if no validator can
// be selected. HashSeededRoundRobin is the only implementation; it
// ignores stake entirely. node.Node holds no ProposerStrategy: it calls
// the package-level SelectProposer directly, so using a different
// strategy also means changing Node.
type ProposerStrategy interface {
	SelectProposer(vs *ValidatorSet, latestHash crypto.Hash) (crypto.PublicKey, bool)
}

// HashSeededRoundRobin implements ProposerStrategy using the sorted-keys
// / latest-hash-seed-mod-N rule.
type HashSeededRoundRobin struct{}

// SelectProposer deterministically picks the proposer for the block that
// follows latestHash: it seeds on the first 8 bytes of latestHash,
// interpreted as a little-endian uint64, reduced modulo the number of
// registered validators sorted by public key. It reports false if no
// validators are registered.
func (HashSeededRoundRobin) SelectProposer(vs *ValidatorSet, latestHash crypto.Hash) (crypto.PublicKey, bool) {
	return SelectProposer(vs, latestHash)
}

// SelectProposer is the package-level convenience form of
// HashSeededRoundRobin.SelectProposer, used directly by node.Node today.
func SelectProposer(vs *ValidatorSet, latestHash crypto.Hash) (crypto.PublicKey, bool) {
	keys := vs.sortedKeys()
	if len(keys) == 0 {
		return crypto.PublicKey{}, false
	}
	seed := binary.LittleEndian.Uint64(latestHash[:8])
	idx := seed % uint64(len(keys))
	return keys[idx], true
}

// Package statedb implements the node's content-addressed state database:
// a mapping from a State Object's id to the object itself.
package statedb

import (
	"fmt"
	"sync"

	"github.com/esrbwt1/zelealem/crypto"
	"github.com/esrbwt1/zelealem/ledger"
)

// ErrAlreadyExists is returned by Add when a State Object with the same id
// is already present.
type ErrAlreadyExists struct{ ID crypto.Hash }

func (e *ErrAlreadyExists) Error() string {
	return fmt.Sprintf("state object %x already exists", e.ID[:])
}

// ErrNotFound is returned by Get and Remove when no State Object with the
// given id is present.
type ErrNotFound struct{ ID crypto.Hash }

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("state object %x not found", e.ID[:])
}

// DB is the in-memory store of unspent State Objects. The node's event
// loop is its sole writer (§5 of the spec); the mutex exists as a second
// line of defense, the way the teacher repo guards Blockchain and Mempool
// even under a documented single-owner model.
type DB struct {
	mu      sync.RWMutex
	objects map[crypto.Hash]ledger.StateObject
}

// New creates an empty state database.
func New() *DB {
	return &DB{objects: make(map[crypto.Hash]ledger.StateObject)}
}

// Add inserts so, failing if its id is already present.
func (db *DB) Add(so ledger.StateObject) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, exists := db.objects[so.ID]; exists {
		return &ErrAlreadyExists{ID: so.ID}
	}
	db.objects[so.ID] = so
	return nil
}

// Get returns the State Object with the given id.
func (db *DB) Get(id crypto.Hash) (ledger.StateObject, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	so, ok := db.objects[id]
	if !ok {
		return ledger.StateObject{}, &ErrNotFound{ID: id}
	}
	return so, nil
}

// Remove deletes and returns the State Object with the given id.
func (db *DB) Remove(id crypto.Hash) (ledger.StateObject, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	so, ok := db.objects[id]
	if !ok {
		return ledger.StateObject{}, &ErrNotFound{ID: id}
	}
	delete(db.objects, id)
	return so, nil
}

// Len reports the number of unspent State Objects currently held.
func (db *DB) Len() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.objects)
}

// Package ledger implements the node's content-addressed state model:
// State Objects, Transactions and Blocks, all identified by the hash of
// their canonical serialization.
package ledger

import (
	"fmt"
	"sync"

	"github.com/fxamacker/cbor/v2"

	"github.com/esrbwt1/zelealem/crypto"
)

// canonicalMode is the CBOR encoding mode used for every hashing-relevant
// serialization in this package: RFC 8949 §4.2 deterministic encoding
// (sorted map keys, shortest-form integers, no indefinite-length items).
// This is the wire contract — changing it changes every content id.
var canonicalMode = sync.OnceValue(func() cbor.EncMode {
	opts := cbor.CanonicalEncOptions()
	mode, err := opts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("ledger: build canonical CBOR mode: %v", err))
	}
	return mode
})

// canonicalHash serializes v with the canonical encoder and returns its
// content hash.
func canonicalHash(v any) crypto.Hash {
	data, err := canonicalMode().Marshal(v)
	if err != nil {
		// Every hashable shadow struct in this package is built from
		// plain bytes, slices and fixed-size arrays, none of which CBOR
		// can fail to encode.
		panic(fmt.Sprintf("ledger: canonical encode: %v", err))
	}
	return crypto.HashData(data)
}

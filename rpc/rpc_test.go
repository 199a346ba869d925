package rpc

import (
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/fxamacker/cbor/v2"

	"github.com/esrbwt1/zelealem/chain"
	"github.com/esrbwt1/zelealem/consensus"
	"github.com/esrbwt1/zelealem/crypto"
	"github.com/esrbwt1/zelealem/ledger"
	"github.com/esrbwt1/zelealem/mempool"
	"github.com/esrbwt1/zelealem/statedb"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	return &Handler{
		Chain:      chain.New(),
		State:      statedb.New(),
		Mempool:    mempool.New(0),
		Validators: consensus.NewValidatorSet(),
	}
}

func dispatch(h *Handler, method string, params any) Response {
	raw, _ := json.Marshal(params)
	return h.Dispatch(Request{JSONRPC: "2.0", ID: 1, Method: method, Params: raw})
}

func TestGetChainHeightOnFreshChain(t *testing.T) {
	h := newTestHandler(t)
	resp := dispatch(h, "getChainHeight", struct{}{})
	if resp.Error != nil {
		t.Fatalf("error: %v", resp.Error.Message)
	}
	m := resp.Result.(map[string]int)
	if m["height"] != 1 {
		t.Errorf("got height %d, want 1 (genesis only)", m["height"])
	}
}

func TestGetStateObjectMissing(t *testing.T) {
	h := newTestHandler(t)
	resp := dispatch(h, "getStateObject", getStateObjectParams{ID: hex.EncodeToString(make([]byte, 32))})
	if resp.Error == nil {
		t.Fatal("expected an error for a missing state object")
	}
}

func TestGetStateObjectFound(t *testing.T) {
	h := newTestHandler(t)
	pub, _, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	so := ledger.NewStateObject(pub, []byte("payload"), nil)
	if err := h.State.Add(so); err != nil {
		t.Fatalf("Add: %v", err)
	}

	resp := dispatch(h, "getStateObject", getStateObjectParams{ID: hex.EncodeToString(so.ID[:])})
	if resp.Error != nil {
		t.Fatalf("error: %v", resp.Error.Message)
	}
	view := resp.Result.(stateObjectResponse)
	if view.ID != hex.EncodeToString(so.ID[:]) {
		t.Errorf("got id %q, want %q", view.ID, hex.EncodeToString(so.ID[:]))
	}
}

func TestSubmitTransactionAddsToMempool(t *testing.T) {
	h := newTestHandler(t)
	pub, sec, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	input := ledger.NewStateObject(pub, []byte("input"), nil)
	if err := h.State.Add(input); err != nil {
		t.Fatalf("Add: %v", err)
	}
	tx := ledger.NewTransaction([]crypto.Hash{input.ID}, nil, nil)
	tx.Sign(sec)

	raw, err := cbor.Marshal(tx)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	resp := dispatch(h, "submitTransaction", submitTransactionParams{TxHex: hex.EncodeToString(raw)})
	if resp.Error != nil {
		t.Fatalf("error: %v", resp.Error.Message)
	}
	if h.Mempool.Len() != 1 {
		t.Fatalf("got mempool len %d, want 1", h.Mempool.Len())
	}
}

func TestSubmitTransactionRejectsInvalid(t *testing.T) {
	h := newTestHandler(t)
	pub, _, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	input := ledger.NewStateObject(pub, []byte("input"), nil)
	if err := h.State.Add(input); err != nil {
		t.Fatalf("Add: %v", err)
	}
	// Unsigned transaction: zero signature won't verify against the owner.
	tx := ledger.NewTransaction([]crypto.Hash{input.ID}, nil, nil)
	raw, err := cbor.Marshal(tx)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	resp := dispatch(h, "submitTransaction", submitTransactionParams{TxHex: hex.EncodeToString(raw)})
	if resp.Error == nil {
		t.Fatal("expected an error for an unsigned transaction")
	}
	if h.Mempool.Len() != 0 {
		t.Error("invalid transaction must not be queued")
	}
}

func TestGetValidatorStakeFound(t *testing.T) {
	h := newTestHandler(t)
	pub, _, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	h.Validators.AddValidator(pub, 42)

	resp := dispatch(h, "getValidatorStake", getValidatorStakeParams{PubKey: pub.Hex()})
	if resp.Error != nil {
		t.Fatalf("error: %v", resp.Error.Message)
	}
	m := resp.Result.(map[string]uint64)
	if m["stake"] != 42 {
		t.Errorf("got stake %d, want 42", m["stake"])
	}
}

func TestGetValidatorStakeUnknown(t *testing.T) {
	h := newTestHandler(t)
	pub, _, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	resp := dispatch(h, "getValidatorStake", getValidatorStakeParams{PubKey: pub.Hex()})
	if resp.Error == nil {
		t.Fatal("expected an error for an unregistered validator")
	}
}

func TestGetTotalStake(t *testing.T) {
	h := newTestHandler(t)
	pub1, _, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	pub2, _, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	h.Validators.AddValidator(pub1, 10)
	h.Validators.AddValidator(pub2, 5)

	resp := dispatch(h, "getTotalStake", struct{}{})
	if resp.Error != nil {
		t.Fatalf("error: %v", resp.Error.Message)
	}
	m := resp.Result.(map[string]uint64)
	if m["total_stake"] != 15 {
		t.Errorf("got total_stake %d, want 15", m["total_stake"])
	}
}

func TestDispatchUnknownMethod(t *testing.T) {
	h := newTestHandler(t)
	resp := dispatch(h, "notAMethod", struct{}{})
	if resp.Error == nil || resp.Error.Code != CodeMethodNotFound {
		t.Fatalf("got %v, want CodeMethodNotFound", resp.Error)
	}
}

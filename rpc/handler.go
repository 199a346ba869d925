package rpc

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

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

// Handler dispatches JSON-RPC methods against a node's read-only state.
// Transport is used only to gossip a transaction accepted by
// submitTransaction; Handler never mutates Chain, State or Validators
// directly.
type Handler struct {
	Chain      *chain.Chain
	State      *statedb.DB
	Mempool    *mempool.Pool
	Validators *consensus.ValidatorSet
	Transport  gossip.Transport
}

// Dispatch routes req to the matching method and returns a Response.
func (h *Handler) Dispatch(req Request) Response {
	switch req.Method {
	case "getChainHeight":
		return h.getChainHeight(req)
	case "getBlock":
		return h.getBlock(req)
	case "getStateObject":
		return h.getStateObject(req)
	case "getMempoolSize":
		return h.getMempoolSize(req)
	case "submitTransaction":
		return h.submitTransaction(req)
	case "getValidatorStake":
		return h.getValidatorStake(req)
	case "getTotalStake":
		return h.getTotalStake(req)
	default:
		return errResponse(req.ID, CodeMethodNotFound, fmt.Sprintf("unknown method %q", req.Method))
	}
}

func (h *Handler) getChainHeight(req Request) Response {
	return okResponse(req.ID, map[string]int{"height": h.Chain.Height()})
}

type getBlockParams struct {
	Height int `json:"height"`
}

func (h *Handler) getBlock(req Request) Response {
	var params getBlockParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errResponse(req.ID, CodeInvalidParams, err.Error())
	}
	block := h.Chain.BlockAt(params.Height)
	if block == nil {
		return errResponse(req.ID, CodeInvalidParams, fmt.Sprintf("no block at height %d", params.Height))
	}
	return okResponse(req.ID, blockView(block))
}

type getStateObjectParams struct {
	ID string `json:"id"` // hex-encoded 32-byte id
}

func (h *Handler) getStateObject(req Request) Response {
	var params getStateObjectParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errResponse(req.ID, CodeInvalidParams, err.Error())
	}
	id, err := hashFromHex(params.ID)
	if err != nil {
		return errResponse(req.ID, CodeInvalidParams, err.Error())
	}
	so, err := h.State.Get(id)
	if err != nil {
		return errResponse(req.ID, CodeInvalidParams, err.Error())
	}
	return okResponse(req.ID, stateObjectView(so))
}

func (h *Handler) getMempoolSize(req Request) Response {
	return okResponse(req.ID, map[string]int{"size": h.Mempool.Len()})
}

type submitTransactionParams struct {
	TxHex string `json:"tx_hex"` // hex-encoded canonical-CBOR Transaction
}

func (h *Handler) submitTransaction(req Request) Response {
	var params submitTransactionParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errResponse(req.ID, CodeInvalidParams, err.Error())
	}
	raw, err := hex.DecodeString(params.TxHex)
	if err != nil {
		return errResponse(req.ID, CodeInvalidParams, fmt.Sprintf("tx_hex: %v", err))
	}
	var tx ledger.Transaction
	if err := cbor.Unmarshal(raw, &tx); err != nil {
		return errResponse(req.ID, CodeInvalidParams, fmt.Sprintf("decode transaction: %v", err))
	}
	if err := validator.Validate(h.State, &tx); err != nil {
		return errResponse(req.ID, CodeInvalidParams, fmt.Sprintf("invalid transaction: %v", err))
	}
	if err := h.Mempool.Add(&tx); err != nil {
		return errResponse(req.ID, CodeInternalError, err.Error())
	}
	if h.Transport != nil {
		if err := h.Transport.Publish(gossip.TopicTransactions, raw); err != nil {
			return errResponse(req.ID, CodeInternalError, fmt.Sprintf("gossip publish: %v", err))
		}
	}
	return okResponse(req.ID, map[string]string{"id": hex.EncodeToString(tx.ID[:])})
}

type getValidatorStakeParams struct {
	PubKey string `json:"pub_key"` // hex-encoded 32-byte public key
}

func (h *Handler) getValidatorStake(req Request) Response {
	var params getValidatorStakeParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errResponse(req.ID, CodeInvalidParams, err.Error())
	}
	pub, err := crypto.PublicKeyFromHex(params.PubKey)
	if err != nil {
		return errResponse(req.ID, CodeInvalidParams, err.Error())
	}
	stake, ok := h.Validators.StakeOf(pub)
	if !ok {
		return errResponse(req.ID, CodeInvalidParams, fmt.Sprintf("unknown validator %s", params.PubKey))
	}
	return okResponse(req.ID, map[string]uint64{"stake": stake})
}

func (h *Handler) getTotalStake(req Request) Response {
	return okResponse(req.ID, map[string]uint64{"total_stake": h.Validators.TotalStake()})
}

func hashFromHex(s string) (crypto.Hash, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return crypto.Hash{}, fmt.Errorf("invalid hex: %w", err)
	}
	if len(b) != 32 {
		return crypto.Hash{}, fmt.Errorf("hash must be 32 bytes, got %d", len(b))
	}
	var h crypto.Hash
	copy(h[:], b)
	return h, nil
}

type stateObjectResponse struct {
	ID    string `json:"id"`
	Owner string `json:"owner"`
	Data  string `json:"data"`
}

func stateObjectView(so ledger.StateObject) stateObjectResponse {
	return stateObjectResponse{
		ID:    hex.EncodeToString(so.ID[:]),
		Owner: hex.EncodeToString(so.Owner[:]),
		Data:  hex.EncodeToString(so.Data),
	}
}

type blockResponse struct {
	ID           string   `json:"id"`
	PreviousHash string   `json:"previous_hash"`
	Proposer     string   `json:"proposer"`
	TxCount      int      `json:"tx_count"`
	TxIDs        []string `json:"tx_ids"`
}

func blockView(b *ledger.Block) blockResponse {
	ids := make([]string, len(b.Transactions))
	for i, tx := range b.Transactions {
		ids[i] = hex.EncodeToString(tx.ID[:])
	}
	return blockResponse{
		ID:           hex.EncodeToString(b.ID[:]),
		PreviousHash: hex.EncodeToString(b.PreviousHash[:]),
		Proposer:     hex.EncodeToString(b.Proposer[:]),
		TxCount:      len(b.Transactions),
		TxIDs:        ids,
	}
}

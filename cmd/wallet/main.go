// Command wallet manages a keystore and submits transactions to a
// running node's RPC endpoint.
package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/fxamacker/cbor/v2"

	"github.com/esrbwt1/zelealem/crypto"
	"github.com/esrbwt1/zelealem/ledger"
	"github.com/esrbwt1/zelealem/wallet"
)

func main() {
	keyPath := flag.String("key", "validator.key", "path to keystore file")
	genKey := flag.Bool("genkey", false, "generate a new key and exit")
	rpcAddr := flag.String("rpc", "http://127.0.0.1:8545", "node RPC endpoint")
	inputHex := flag.String("input", "", "hex-encoded id of the state object to spend")
	outputDataHex := flag.String("output-data", "", "hex-encoded payload for the new output, owned by this wallet")
	flag.Parse()

	password := os.Getenv("ZELEALEM_PASSWORD")
	if password == "" {
		log.Println("WARNING: ZELEALEM_PASSWORD not set — keystore will use an empty password")
	}

	if *genKey {
		w, err := wallet.Generate()
		if err != nil {
			log.Fatal(err)
		}
		if err := wallet.SaveKey(*keyPath, password, w.SecretKey()); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Generated key. Public key: %s\n", w.PublicKey().Hex())
		fmt.Printf("Saved to: %s\n", *keyPath)
		return
	}

	sec, err := wallet.LoadKey(*keyPath, password)
	if err != nil {
		log.Fatalf("load key: %v", err)
	}
	w := wallet.New(sec)

	if *inputHex == "" {
		fmt.Printf("Public key: %s\n", w.PublicKey().Hex())
		return
	}

	inputID, err := hashFromHex(*inputHex)
	if err != nil {
		log.Fatalf("input: %v", err)
	}
	outputData, err := hex.DecodeString(*outputDataHex)
	if err != nil {
		log.Fatalf("output-data: %v", err)
	}

	output := w.NewStateObject(outputData, nil)
	tx := w.SpendTransaction([]crypto.Hash{inputID}, []ledger.StateObject{output}, nil)

	if err := submitTransaction(*rpcAddr, tx); err != nil {
		log.Fatalf("submit: %v", err)
	}
	fmt.Printf("Submitted transaction %s\n", tx.ID.Hex())
}

func hashFromHex(s string) (crypto.Hash, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return crypto.Hash{}, err
	}
	if len(b) != 32 {
		return crypto.Hash{}, fmt.Errorf("hash must be 32 bytes, got %d", len(b))
	}
	var h crypto.Hash
	copy(h[:], b)
	return h, nil
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result any       `json:"result"`
	Error  *rpcError `json:"error"`
}

func submitTransaction(addr string, tx *ledger.Transaction) error {
	raw, err := cbor.Marshal(tx)
	if err != nil {
		return err
	}
	reqBody, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "submitTransaction",
		Params:  map[string]string{"tx_hex": hex.EncodeToString(raw)},
	})
	if err != nil {
		return err
	}

	resp, err := http.Post(addr, "application/json", bytes.NewReader(reqBody))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return err
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("rpc error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}
	return nil
}

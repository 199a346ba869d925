// Package config loads and validates the JSON configuration a node
// starts from: network addresses, the validator/stake table, genesis
// allocation, and optional mTLS material.
package config

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
)

// TLSConfig holds paths to the PEM files needed for mTLS. When nil or
// all paths are empty, the node falls back to plain TCP.
type TLSConfig struct {
	CACert   string `json:"ca_cert"`
	NodeCert string `json:"node_cert"`
	NodeKey  string `json:"node_key"`
}

// SeedPeer identifies a remote node to connect to on startup.
type SeedPeer struct {
	ID   string `json:"id"`
	Addr string `json:"addr"`
}

// ValidatorEntry registers one validator's public key and stake weight.
type ValidatorEntry struct {
	PubKey string `json:"pub_key"` // hex-encoded 32-byte public key
	Stake  uint64 `json:"stake"`
}

// GenesisAllocation mints one spendable State Object at genesis, owned
// by Owner and carrying Data as its payload.
type GenesisAllocation struct {
	Owner string `json:"owner"` // hex-encoded 32-byte public key
	Data  string `json:"data"`  // hex-encoded payload bytes
}

// GenesisConfig describes the chain's initial state.
type GenesisConfig struct {
	ChainID string              `json:"chain_id"`
	Alloc   []GenesisAllocation `json:"alloc"`
}

// Config holds all node configuration.
type Config struct {
	NodeID       string            `json:"node_id"`
	KeystorePath string            `json:"keystore_path"`
	RPCPort      int               `json:"rpc_port"`
	P2PPort      int               `json:"p2p_port"`
	MempoolCap   int               `json:"mempool_capacity"` // 0 → mempool.DefaultCapacity
	BatchSize    int               `json:"batch_size"`       // 0 → node.BatchSize
	ProposerTick string            `json:"proposer_tick"`    // Go duration string, "" → node.DefaultProposerTick
	Validators   []ValidatorEntry  `json:"validators"`
	Genesis      GenesisConfig     `json:"genesis"`
	SeedPeers    []SeedPeer        `json:"seed_peers,omitempty"`
	TLS          *TLSConfig        `json:"tls,omitempty"`
	RPCAuthToken string            `json:"rpc_auth_token,omitempty"`
}

// DefaultConfig returns a single-node development configuration.
func DefaultConfig() *Config {
	return &Config{
		NodeID:       "node0",
		KeystorePath: "./keystore.json",
		RPCPort:      8545,
		P2PPort:      30303,
		Genesis: GenesisConfig{
			ChainID: "zelealem-dev",
		},
	}
}

// Load reads a JSON config file from path and validates required fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// Validate checks that all required fields are present and well-formed.
func (c *Config) Validate() error {
	if c.NodeID == "" {
		return fmt.Errorf("node_id must not be empty")
	}
	if c.Genesis.ChainID == "" {
		return fmt.Errorf("genesis.chain_id must not be empty")
	}
	if c.RPCPort <= 0 || c.RPCPort > 65535 {
		return fmt.Errorf("rpc_port must be 1-65535, got %d", c.RPCPort)
	}
	if c.P2PPort <= 0 || c.P2PPort > 65535 {
		return fmt.Errorf("p2p_port must be 1-65535, got %d", c.P2PPort)
	}
	if c.RPCPort == c.P2PPort {
		return fmt.Errorf("rpc_port and p2p_port must not be the same (%d)", c.RPCPort)
	}
	if len(c.Validators) == 0 {
		return fmt.Errorf("validators list must not be empty")
	}
	for i, v := range c.Validators {
		b, err := hex.DecodeString(v.PubKey)
		if err != nil || len(b) != 32 {
			return fmt.Errorf("validators[%d]: pub_key must be 64-char hex (32 bytes), got %q", i, v.PubKey)
		}
	}
	for i, a := range c.Genesis.Alloc {
		b, err := hex.DecodeString(a.Owner)
		if err != nil || len(b) != 32 {
			return fmt.Errorf("genesis.alloc[%d]: owner must be 64-char hex (32 bytes), got %q", i, a.Owner)
		}
		if _, err := hex.DecodeString(a.Data); err != nil {
			return fmt.Errorf("genesis.alloc[%d]: data must be hex-encoded: %w", i, err)
		}
	}
	if c.TLS != nil {
		t := c.TLS
		allSet := t.CACert != "" && t.NodeCert != "" && t.NodeKey != ""
		allEmpty := t.CACert == "" && t.NodeCert == "" && t.NodeKey == ""
		if !allSet && !allEmpty {
			return fmt.Errorf("tls: all three paths (ca_cert, node_cert, node_key) must be set or all empty")
		}
	}
	return nil
}

// Save writes the config to path as formatted JSON.
func Save(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Command node starts a Zelealem node.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/esrbwt1/zelealem/chain"
	"github.com/esrbwt1/zelealem/config"
	"github.com/esrbwt1/zelealem/crypto/certgen"
	"github.com/esrbwt1/zelealem/gossip"
	"github.com/esrbwt1/zelealem/mempool"
	"github.com/esrbwt1/zelealem/node"
	"github.com/esrbwt1/zelealem/rpc"
	"github.com/esrbwt1/zelealem/statedb"
	"github.com/esrbwt1/zelealem/wallet"
)

func main() {
	cfgPath := flag.String("config", "config.json", "path to config file")
	keyPath := flag.String("key", "validator.key", "path to keystore file")
	genKey := flag.Bool("genkey", false, "generate a new validator key and exit")
	genCerts := flag.String("gencerts", "", "generate CA + node TLS certs into the given directory and exit (requires node ID from config)")
	flag.Parse()

	// Read keystore password from the environment, not a CLI flag — flags
	// leak via ps.
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
		fmt.Printf("Generated key. Public key (validator address): %s\n", w.PublicKey().Hex())
		fmt.Printf("Saved to: %s\n", *keyPath)
		return
	}

	if *genCerts != "" {
		cfgForCerts, err := loadConfig(*cfgPath)
		if err != nil {
			log.Fatalf("config: %v", err)
		}
		if err := certgen.GenerateAll(*genCerts, cfgForCerts.NodeID, nil); err != nil {
			log.Fatalf("gencerts: %v", err)
		}
		fmt.Printf("Certificates generated in %s for node %q\n", *genCerts, cfgForCerts.NodeID)
		return
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	secretKey, err := wallet.LoadKey(*keyPath, password)
	if err != nil {
		log.Fatalf("load key: %v", err)
	}

	// ---- state ----
	state := statedb.New()
	if err := cfg.BuildGenesisState(state); err != nil {
		log.Fatalf("genesis state: %v", err)
	}
	log.Printf("Genesis state loaded: %d state object(s)", state.Len())

	validators, err := cfg.BuildValidatorSet()
	if err != nil {
		log.Fatalf("validator set: %v", err)
	}

	chn := chain.New()
	pool := mempool.New(cfg.MempoolCap)

	// ---- TLS ----
	tlsCfg, err := config.LoadTLS(cfg.TLS)
	if err != nil {
		log.Fatalf("tls: %v", err)
	}
	if tlsCfg != nil {
		log.Println("mTLS enabled for gossip")
	}

	// ---- gossip transport ----
	p2pAddr := fmt.Sprintf(":%d", cfg.P2PPort)
	transport := gossip.NewTCPTransport(cfg.NodeID, p2pAddr, tlsCfg)
	if err := transport.Start(); err != nil {
		log.Fatalf("gossip start: %v", err)
	}
	defer transport.Stop()
	log.Printf("Gossip listening on %s", p2pAddr)

	for _, sp := range cfg.SeedPeers {
		if err := transport.Dial(sp.ID, sp.Addr); err != nil {
			log.Printf("seed peer %s (%s): %v", sp.ID, sp.Addr, err)
			continue
		}
		log.Printf("Connected to seed peer %s (%s)", sp.ID, sp.Addr)
	}

	proposerTick := node.DefaultProposerTick
	if cfg.ProposerTick != "" {
		d, err := time.ParseDuration(cfg.ProposerTick)
		if err != nil {
			log.Fatalf("proposer_tick: %v", err)
		}
		proposerTick = d
	}

	n := node.New(node.Config{
		Chain:        chn,
		State:        state,
		Mempool:      pool,
		Validators:   validators,
		Transport:    transport,
		SecretKey:    secretKey,
		ProposerTick: proposerTick,
		BatchSize:    cfg.BatchSize,
	})

	// ---- RPC ----
	rpcAddr := fmt.Sprintf(":%d", cfg.RPCPort)
	rpcHandler := &rpc.Handler{Chain: chn, State: state, Mempool: pool, Validators: validators, Transport: transport}
	rpcServer := rpc.NewServer(rpcAddr, rpcHandler, cfg.RPCAuthToken)
	if err := rpcServer.Start(); err != nil {
		log.Fatalf("rpc start: %v", err)
	}
	defer rpcServer.Stop()
	log.Printf("RPC listening on %s", rpcAddr)
	if cfg.RPCAuthToken != "" {
		log.Println("RPC Bearer token authentication enabled")
	}

	// ---- event loop ----
	done := make(chan struct{})
	go n.Run(done)
	log.Printf("Node running (validator: %s)", secretKey.Public().Hex())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Println("Shutting down...")

	close(done)
	// Deferred calls run in LIFO: rpcServer.Stop → transport.Stop.
	log.Println("Shutdown complete.")
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Config file not found at %s, using defaults.", path)
			return config.DefaultConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

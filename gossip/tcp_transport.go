package gossip

import (
	"crypto/tls"
	"fmt"
	"log"
	"net"
	"sync"
	"time"
)

// DefaultMaxPeers is the default limit on simultaneous peer connections.
const DefaultMaxPeers = 50

// TCPTransport is a Transport implementation over length-prefixed,
// JSON-framed TCP connections, with optional mTLS. It is the node's
// default, swappable gossip collaborator: peer dialing and handshake are
// deliberately shallow, since the hard engineering lives in the node and
// ledger packages, not here.
type TCPTransport struct {
	nodeID     string
	listenAddr string
	tlsConfig  *tls.Config // nil → plain TCP
	maxPeers   int

	mu       sync.RWMutex
	peers    map[string]*peer
	handlers map[string][]Handler

	listener net.Listener
	stopCh   chan struct{}
}

// NewTCPTransport creates a transport that will listen on listenAddr once
// Start is called. If tlsCfg is non-nil, the listener and outgoing
// connections use mTLS.
func NewTCPTransport(nodeID, listenAddr string, tlsCfg *tls.Config) *TCPTransport {
	return &TCPTransport{
		nodeID:     nodeID,
		listenAddr: listenAddr,
		tlsConfig:  tlsCfg,
		maxPeers:   DefaultMaxPeers,
		peers:      make(map[string]*peer),
		handlers:   make(map[string][]Handler),
		stopCh:     make(chan struct{}),
	}
}

// Subscribe registers handler to be invoked for every envelope received
// on topic, from any peer. Multiple handlers may share a topic.
func (t *TCPTransport) Subscribe(topic string, handler Handler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers[topic] = append(t.handlers[topic], handler)
}

// Publish broadcasts payload on topic to every connected peer.
func (t *TCPTransport) Publish(topic string, payload []byte) error {
	t.mu.RLock()
	peers := make([]*peer, 0, len(t.peers))
	for _, p := range t.peers {
		peers = append(peers, p)
	}
	t.mu.RUnlock()

	env := envelope{Topic: topic, Payload: payload}
	var firstErr error
	for _, p := range peers {
		if err := p.send(env); err != nil {
			log.Printf("[gossip] publish to %s on %q: %v", p.id, topic, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Start begins accepting incoming connections.
func (t *TCPTransport) Start() error {
	var ln net.Listener
	var err error
	if t.tlsConfig != nil {
		ln, err = tls.Listen("tcp", t.listenAddr, t.tlsConfig)
	} else {
		ln, err = net.Listen("tcp", t.listenAddr)
	}
	if err != nil {
		return fmt.Errorf("listen %s: %w", t.listenAddr, err)
	}
	t.listener = ln
	go t.acceptLoop()
	return nil
}

// Stop shuts down the transport and closes all peer connections.
func (t *TCPTransport) Stop() {
	close(t.stopCh)
	if t.listener != nil {
		t.listener.Close()
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, p := range t.peers {
		p.close()
	}
}

// Dial connects to a remote peer and begins reading its envelopes.
func (t *TCPTransport) Dial(id, addr string) error {
	p, err := dialPeer(id, addr, t.tlsConfig)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.peers[id] = p
	t.mu.Unlock()
	go t.readLoop(p)
	return nil
}

func (t *TCPTransport) acceptLoop() {
	for {
		conn, err := t.listener.Accept()
		if err != nil {
			select {
			case <-t.stopCh:
				return
			default:
				log.Printf("[gossip] accept error: %v", err)
				time.Sleep(100 * time.Millisecond)
				continue
			}
		}
		t.mu.RLock()
		peerCount := len(t.peers)
		t.mu.RUnlock()
		if peerCount >= t.maxPeers {
			log.Printf("[gossip] max peers (%d) reached, rejecting %s", t.maxPeers, conn.RemoteAddr())
			conn.Close()
			continue
		}
		p := newPeer(conn.RemoteAddr().String(), conn.RemoteAddr().String(), conn)
		t.mu.Lock()
		t.peers[p.id] = p
		t.mu.Unlock()
		go t.readLoop(p)
	}
}

func (t *TCPTransport) readLoop(p *peer) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[gossip] readLoop panic from %s: %v", p.id, r)
		}
		p.close()
		t.mu.Lock()
		delete(t.peers, p.id)
		t.mu.Unlock()
	}()
	for {
		env, err := p.receive()
		if err != nil {
			return
		}
		t.mu.RLock()
		handlers := append([]Handler(nil), t.handlers[env.Topic]...)
		t.mu.RUnlock()
		for _, h := range handlers {
			h(p.id, env.Payload)
		}
	}
}

package gossip

import (
	"crypto/tls"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"sync"
	"time"
)

// envelope is the wire message for all peer-to-peer communication: a
// topic name and an opaque payload (canonical-CBOR-encoded domain
// objects, from the caller's point of view).
type envelope struct {
	Topic   string `json:"topic"`
	Payload []byte `json:"payload"`
}

// peer represents a connected remote node.
type peer struct {
	id   string
	addr string

	conn   net.Conn
	mu     sync.Mutex
	closed bool
}

// newPeer wraps an established TCP connection as a peer.
func newPeer(id, addr string, conn net.Conn) *peer {
	return &peer{id: id, addr: addr, conn: conn}
}

// dialPeer connects to the remote address and returns a connected peer.
// If tlsCfg is non-nil the connection is established over mTLS.
func dialPeer(id, addr string, tlsCfg *tls.Config) (*peer, error) {
	var conn net.Conn
	var err error
	if tlsCfg != nil {
		conn, err = tls.Dial("tcp", addr, tlsCfg)
	} else {
		conn, err = net.Dial("tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", addr, err)
	}
	return newPeer(id, addr, conn), nil
}

// send writes a length-prefixed JSON envelope to the peer.
func (p *peer) send(env envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return fmt.Errorf("peer %s closed", p.id)
	}
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(data)))
	if _, err := p.conn.Write(header[:]); err != nil {
		return err
	}
	_, err = p.conn.Write(data)
	return err
}

// maxEnvelopeBytes bounds a single envelope to guard against a peer
// claiming an unreasonable length prefix.
const maxEnvelopeBytes = 32 * 1024 * 1024

// receive reads the next length-prefixed JSON envelope. A read deadline
// prevents a stalled peer from blocking the reader goroutine forever.
func (p *peer) receive() (envelope, error) {
	_ = p.conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	var header [4]byte
	if _, err := io.ReadFull(p.conn, header[:]); err != nil {
		return envelope{}, err
	}
	length := binary.BigEndian.Uint32(header[:])
	if length > maxEnvelopeBytes {
		return envelope{}, fmt.Errorf("envelope too large: %d bytes", length)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(p.conn, buf); err != nil {
		return envelope{}, err
	}
	var env envelope
	if err := json.Unmarshal(buf, &env); err != nil {
		return envelope{}, err
	}
	return env, nil
}

// close terminates the peer connection.
func (p *peer) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		p.conn.Close()
	}
}

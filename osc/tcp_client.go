package osc

import (
	"context"
	"fmt"
	"net"
	"sync"
)

// ClientState is a TCPClient's connection state.
type ClientState int

const (
	// Disconnected is the initial state, and the terminal state after a
	// clean stop or a read-side EOF/error.
	Disconnected ClientState = iota
	// Connecting is the state between Connect and a successful or failed
	// dial.
	Connecting
	// Connected is the state in which Send is accepted.
	Connected
	// Failed is a terminal state reachable from any intermediate state
	// (a failed dial, or a cancelled connect).
	Failed
)

func (s ClientState) String() string {
	switch s {
	case Disconnected:
		return "Disconnected"
	case Connecting:
		return "Connecting"
	case Connected:
		return "Connected"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// StateEvent reports a TCPClient state transition.
type StateEvent struct {
	State ClientState
	Err   error
}

// IncomingPacket pairs a decoded packet with the identity of its sender:
// the ConnID of the connection for a TCPServer, nil for a TCPClient. UDP
// transports emit UDPPacketEvent instead.
type IncomingPacket struct {
	Packet Packet
	Sender any
}

// TCPClient is an asynchronous single-connection OSC client over TCP,
// using the chosen stream framing to delimit messages. Its operations are
// totally ordered by an internal mutex; Connect is fire-and-forget and
// callers observe progress via States.
type TCPClient struct {
	host    string
	port    int
	framing Framing

	mu     sync.Mutex
	state  ClientState
	conn   net.Conn
	cancel context.CancelFunc

	packets   chan IncomingPacket
	states    chan StateEvent
	closeOnce sync.Once
}

// NewTCPClient returns a disconnected TCPClient targeting host:port with
// the given stream framing.
func NewTCPClient(host string, port int, framing Framing) *TCPClient {
	return &TCPClient{
		host:    host,
		port:    port,
		framing: framing,
		state:   Disconnected,
		packets: make(chan IncomingPacket, 64),
		states:  make(chan StateEvent, 8),
	}
}

// Packets returns the event stream of decoded incoming packets. It closes
// when the client disconnects.
func (c *TCPClient) Packets() <-chan IncomingPacket {
	return c.packets
}

// States returns the event stream of state transitions. It closes when
// the client disconnects.
func (c *TCPClient) States() <-chan StateEvent {
	return c.states
}

// State returns the client's current state.
func (c *TCPClient) State() ClientState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect dials the target asynchronously. It is fire-and-forget:
// observers await updates on States. A cancelled ctx yields a Failed
// state.
func (c *TCPClient) Connect(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	c.cancel = cancel
	c.setState(Connecting, nil)
	c.mu.Unlock()

	go c.run(ctx)
}

func (c *TCPClient) run(ctx context.Context) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", fmt.Sprintf("%s:%d", c.host, c.port))
	if err != nil {
		c.mu.Lock()
		c.setState(Failed, err)
		c.mu.Unlock()
		c.closeStreams()
		return
	}

	c.mu.Lock()
	c.conn = conn
	c.setState(Connected, nil)
	c.mu.Unlock()

	c.readLoop(conn)
}

func (c *TCPClient) readLoop(conn net.Conn) {
	df := c.framing.newDeframer()
	buf := make([]byte, 4096)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			for _, payload := range df.Feed(buf[:n]) {
				p, perr := ParsePacket(payload)
				if perr != nil {
					continue
				}
				c.packets <- IncomingPacket{Packet: p, Sender: nil}
			}
		}
		if err != nil {
			c.mu.Lock()
			c.setState(Disconnected, nil)
			c.mu.Unlock()
			c.closeStreams()
			return
		}
	}
}

// setState must be called with c.mu held. It records the new state and
// emits a StateEvent, dropping the event if no one is listening promptly
// rather than blocking forever.
func (c *TCPClient) setState(state ClientState, err error) {
	c.state = state
	select {
	case c.states <- StateEvent{State: state, Err: err}:
	default:
	}
}

func (c *TCPClient) closeStreams() {
	c.closeOnce.Do(func() {
		close(c.packets)
		close(c.states)
	})
}

// Send encodes and frames p and writes it to the connection. It is
// rejected with ErrNotConnected unless the client is Connected. A write
// error does not by itself disconnect the client.
func (c *TCPClient) Send(p Packet) error {
	c.mu.Lock()
	if c.state != Connected {
		c.mu.Unlock()
		return ErrNotConnected
	}
	conn := c.conn
	c.mu.Unlock()

	payload, err := p.MarshalBinary()
	if err != nil {
		return err
	}
	_, err = conn.Write(c.framing.frame(payload))
	return err
}

// Stop closes the connection, if any, and transitions to Disconnected; a
// client stopped while its dial is still in progress ends in Failed
// instead. It is idempotent.
func (c *TCPClient) Stop() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	conn := c.conn
	already := c.state == Disconnected || c.state == Failed
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	if already && conn == nil {
		c.closeStreams()
	}
}

package osc

import (
	"context"
	"fmt"
	"net"
	"sync"
	"syscall"
)

// UDPPeer is a single bound UDP socket usable both to receive datagrams
// asynchronously and to initiate sends to arbitrary destinations,
// unlike UDPServer, which only replies to endpoints it has already
// heard from. The local endpoint is bound with SO_REUSEADDR so two
// peers can coexist on the same host for loopback testing. Outbound
// sends are made over a cache of connected sockets keyed by
// (host, port) and reused across sends, separate from the receive
// socket.
type UDPPeer struct {
	wantPort int

	mu      sync.Mutex
	conn    *net.UDPConn
	port    int
	out     map[string]*net.UDPConn
	stopped bool

	wg     sync.WaitGroup
	done   chan struct{}
	events chan UDPPacketEvent
}

// NewUDPPeer returns a UDPPeer that will bind port (0 for an ephemeral
// port).
func NewUDPPeer(port int) *UDPPeer {
	return &UDPPeer{
		wantPort: port,
		out:      make(map[string]*net.UDPConn),
		done:     make(chan struct{}),
		events:   make(chan UDPPacketEvent, 64),
	}
}

// Packets returns the event stream of decoded incoming packets, each
// tagged with the SenderEndpoint that sent it.
func (p *UDPPeer) Packets() <-chan UDPPacketEvent {
	return p.events
}

// Port returns the bound port, resolved after Start.
func (p *UDPPeer) Port() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.port
}

// Start binds the socket, with local endpoint reuse enabled, and begins
// receiving datagrams.
func (p *UDPPeer) Start() error {
	lc := net.ListenConfig{Control: reuseAddrControl}
	pc, err := lc.ListenPacket(context.Background(), "udp", fmt.Sprintf(":%d", p.wantPort))
	if err != nil {
		return fmt.Errorf("osc: udp peer listen: %w", err)
	}
	conn := pc.(*net.UDPConn)

	p.mu.Lock()
	p.conn = conn
	p.port = conn.LocalAddr().(*net.UDPAddr).Port
	p.mu.Unlock()

	p.wg.Add(1)
	go p.receiveLoop(conn)
	return nil
}

func (p *UDPPeer) receiveLoop(conn *net.UDPConn) {
	defer p.wg.Done()
	buf := make([]byte, 65535)
	for {
		n, raddr, err := conn.ReadFromUDP(buf)
		if err != nil {
			return
		}

		pkt, perr := ParsePacket(buf[:n])
		if perr != nil {
			continue
		}
		p.emit(UDPPacketEvent{Packet: pkt, Sender: newSenderEndpoint(raddr)})
	}
}

// emit races the send against done so that a reader who stops draining
// Packets cannot wedge Stop behind a full buffered channel forever.
func (p *UDPPeer) emit(evt UDPPacketEvent) {
	select {
	case p.events <- evt:
	case <-p.done:
	}
}

// SendTo writes packet to an arbitrary host:port, independent of
// whether that endpoint has ever sent this peer a datagram. The
// outbound socket for (host, port) is created on first use and reused
// for subsequent sends to the same destination.
func (p *UDPPeer) SendTo(pkt Packet, host string, port int) error {
	key := fmt.Sprintf("%s:%d", host, port)

	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return ErrNotConnected
	}
	conn, ok := p.out[key]
	if !ok {
		raddr, err := net.ResolveUDPAddr("udp", key)
		if err != nil {
			p.mu.Unlock()
			return err
		}
		conn, err = net.DialUDP("udp", nil, raddr)
		if err != nil {
			p.mu.Unlock()
			return err
		}
		p.out[key] = conn
	}
	p.mu.Unlock()

	payload, err := pkt.MarshalBinary()
	if err != nil {
		return err
	}
	_, err = conn.Write(payload)
	return err
}

// Send replies to the endpoint a packet was received from, using the
// same outbound connection cache as SendTo.
func (p *UDPPeer) Send(pkt Packet, to SenderEndpoint) error {
	return p.SendTo(pkt, to.Host(), to.Port())
}

// Stop closes the receive socket and every cached outbound connection.
// It is idempotent.
func (p *UDPPeer) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	conn := p.conn
	out := p.out
	p.out = make(map[string]*net.UDPConn)
	p.mu.Unlock()

	close(p.done)
	if conn != nil {
		conn.Close()
	}
	for _, c := range out {
		c.Close()
	}
	p.wg.Wait()
	close(p.events)
}

// reuseAddrControl sets SO_REUSEADDR on the listening socket before
// bind, letting two UDPPeers share a local address pattern.
func reuseAddrControl(network, address string, c syscall.RawConn) error {
	var sockErr error
	if err := c.Control(func(fd uintptr) {
		sockErr = syscall.SetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_REUSEADDR, 1)
	}); err != nil {
		return err
	}
	return sockErr
}

package osc

import (
	"fmt"
	"net"
	"sync"
)

// UDPPacketEvent pairs a decoded packet with the endpoint that sent it.
type UDPPacketEvent struct {
	Packet Packet
	Sender SenderEndpoint
}

// UDPServer binds a UDP port and asynchronously receives datagrams. Each
// unique remote endpoint that sends a datagram is remembered as a flow;
// Send replies to a remembered flow and fails with ErrUnknownSender for
// one that has never sent a datagram (or has been torn down).
type UDPServer struct {
	wantHost string
	wantPort int

	mu      sync.Mutex
	conn    *net.UDPConn
	port    int
	flows   map[SenderEndpoint]struct{}
	stopped bool

	wg     sync.WaitGroup
	done   chan struct{}
	events chan UDPPacketEvent
}

// NewUDPServer returns a UDPServer that will bind host:port (port 0 for
// an ephemeral port).
func NewUDPServer(host string, port int) *UDPServer {
	return &UDPServer{
		wantHost: host,
		wantPort: port,
		flows:    make(map[SenderEndpoint]struct{}),
		done:     make(chan struct{}),
		events:   make(chan UDPPacketEvent, 64),
	}
}

// Packets returns the event stream of decoded incoming packets, each
// tagged with the SenderEndpoint that sent it.
func (s *UDPServer) Packets() <-chan UDPPacketEvent {
	return s.events
}

// Port returns the bound port, resolved after Start.
func (s *UDPServer) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// Start binds the socket and begins receiving datagrams.
func (s *UDPServer) Start() error {
	addr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", s.wantHost, s.wantPort))
	if err != nil {
		return err
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("osc: udp server listen: %w", err)
	}

	s.mu.Lock()
	s.conn = conn
	s.port = conn.LocalAddr().(*net.UDPAddr).Port
	s.mu.Unlock()

	s.wg.Add(1)
	go s.receiveLoop(conn)
	return nil
}

func (s *UDPServer) receiveLoop(conn *net.UDPConn) {
	defer s.wg.Done()
	buf := make([]byte, 65535)
	for {
		n, raddr, err := conn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		s.recordFlow(newSenderEndpoint(raddr))

		p, perr := ParsePacket(buf[:n])
		if perr != nil {
			continue
		}
		s.emit(UDPPacketEvent{Packet: p, Sender: newSenderEndpoint(raddr)})
	}
}

func (s *UDPServer) recordFlow(sender SenderEndpoint) {
	s.mu.Lock()
	s.flows[sender] = struct{}{}
	s.mu.Unlock()
}

// emit races the send against done so that a consumer who stops draining
// Packets with the buffer full cannot wedge Stop's s.wg.Wait() behind a
// goroutine parked on a full channel forever.
func (s *UDPServer) emit(evt UDPPacketEvent) {
	select {
	case s.events <- evt:
	case <-s.done:
	}
}

// Send writes packet to the given sender's flow. It fails with
// ErrUnknownSender if the sender has never sent a datagram, or its flow
// was torn down.
func (s *UDPServer) Send(p Packet, to SenderEndpoint) error {
	s.mu.Lock()
	_, ok := s.flows[to]
	conn := s.conn
	s.mu.Unlock()

	if !ok {
		return ErrUnknownSender
	}

	payload, err := p.MarshalBinary()
	if err != nil {
		return err
	}
	_, err = conn.WriteToUDP(payload, to.udpAddr())
	return err
}

// Stop cancels every per-flow channel and the listener. It is idempotent.
func (s *UDPServer) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	conn := s.conn
	s.flows = make(map[SenderEndpoint]struct{})
	s.mu.Unlock()

	close(s.done)
	if conn != nil {
		conn.Close()
	}
	s.wg.Wait()
	close(s.events)
}

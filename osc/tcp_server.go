package osc

import (
	"fmt"
	"net"
	"sync"
)

// ConnID is a monotonically increasing identifier assigned to each
// connection accepted by a TCPServer.
type ConnID uint64

// ConnEvent reports a TCPServer connection lifecycle transition.
type ConnEvent struct {
	Conn      ConnID
	Connected bool
}

type serverConn struct {
	id   ConnID
	conn net.Conn
}

// TCPServer is an asynchronous multi-connection OSC server over TCP. Each
// accepted connection gets its own deframer and read loop; Send/Broadcast/
// Disconnect operate on the server's shared connection table under a
// single mutex.
type TCPServer struct {
	wantPort int
	framing  Framing

	mu       sync.Mutex
	listener net.Listener
	nextID   ConnID
	conns    map[ConnID]*serverConn
	port     int
	stopped  bool

	wg         sync.WaitGroup
	done       chan struct{}
	packets    chan IncomingPacket
	connEvents chan ConnEvent
}

// NewTCPServer returns a TCPServer that will listen on port (0 for an
// ephemeral port) using the given stream framing.
func NewTCPServer(port int, framing Framing) *TCPServer {
	return &TCPServer{
		wantPort:   port,
		framing:    framing,
		conns:      make(map[ConnID]*serverConn),
		done:       make(chan struct{}),
		packets:    make(chan IncomingPacket, 64),
		connEvents: make(chan ConnEvent, 64),
	}
}

// Packets returns the event stream of decoded incoming packets, each
// tagged with the ConnID of the connection it arrived on.
func (s *TCPServer) Packets() <-chan IncomingPacket {
	return s.packets
}

// ConnEvents returns the event stream of connected(id)/disconnected(id)
// events.
func (s *TCPServer) ConnEvents() <-chan ConnEvent {
	return s.connEvents
}

// Port returns the bound port, resolved after Start.
func (s *TCPServer) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// Start binds the listener and begins accepting connections. It returns a
// transport-level error if the port is already bound by another process.
func (s *TCPServer) Start() error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.wantPort))
	if err != nil {
		return fmt.Errorf("osc: tcp server listen: %w", err)
	}

	s.mu.Lock()
	s.listener = listener
	s.port = listener.Addr().(*net.TCPAddr).Port
	s.mu.Unlock()

	s.wg.Add(1)
	go s.acceptLoop(listener)
	return nil
}

func (s *TCPServer) acceptLoop(listener net.Listener) {
	defer s.wg.Done()
	for {
		conn, err := listener.Accept()
		if err != nil {
			return
		}

		s.mu.Lock()
		if s.stopped {
			s.mu.Unlock()
			conn.Close()
			continue
		}
		s.nextID++
		id := s.nextID
		sc := &serverConn{id: id, conn: conn}
		s.conns[id] = sc
		s.mu.Unlock()

		s.emitConnEvent(ConnEvent{Conn: id, Connected: true})
		s.wg.Add(1)
		go s.readLoop(sc)
	}
}

func (s *TCPServer) readLoop(sc *serverConn) {
	defer s.wg.Done()
	df := s.framing.newDeframer()
	buf := make([]byte, 4096)
	for {
		n, err := sc.conn.Read(buf)
		if n > 0 {
			for _, payload := range df.Feed(buf[:n]) {
				p, perr := ParsePacket(payload)
				if perr != nil {
					continue
				}
				s.emitPacket(IncomingPacket{Packet: p, Sender: sc.id})
			}
		}
		if err != nil {
			s.disconnect(sc.id)
			return
		}
	}
}

// emitPacket and emitConnEvent race their send against done so that a
// consumer who stops draining Packets/ConnEvents with the buffer full
// cannot wedge Stop's s.wg.Wait() behind a goroutine parked on a full
// channel forever.
func (s *TCPServer) emitPacket(evt IncomingPacket) {
	select {
	case s.packets <- evt:
	case <-s.done:
	}
}

func (s *TCPServer) emitConnEvent(evt ConnEvent) {
	select {
	case s.connEvents <- evt:
	case <-s.done:
	}
}

// Send writes the encoded, framed packet to the connection identified by
// id. It fails with ErrNotConnected if id is unknown.
func (s *TCPServer) Send(p Packet, to ConnID) error {
	s.mu.Lock()
	sc, ok := s.conns[to]
	s.mu.Unlock()
	if !ok {
		return ErrNotConnected
	}

	payload, err := p.MarshalBinary()
	if err != nil {
		return err
	}
	_, err = sc.conn.Write(s.framing.frame(payload))
	return err
}

// Broadcast writes the encoded, framed packet to every currently
// connected client, tolerating per-connection write failures.
func (s *TCPServer) Broadcast(p Packet) error {
	payload, err := p.MarshalBinary()
	if err != nil {
		return err
	}
	framed := s.framing.frame(payload)

	s.mu.Lock()
	conns := make([]*serverConn, 0, len(s.conns))
	for _, sc := range s.conns {
		conns = append(conns, sc)
	}
	s.mu.Unlock()

	for _, sc := range conns {
		sc.conn.Write(framed)
	}
	return nil
}

// Disconnect cancels the connection identified by id and synchronously
// removes it. The disconnected event fires exactly once regardless of
// whether the disconnection originated here, from the peer, or from the
// network. It is a no-op if id is unknown.
func (s *TCPServer) Disconnect(id ConnID) {
	s.disconnect(id)
}

func (s *TCPServer) disconnect(id ConnID) {
	s.mu.Lock()
	sc, ok := s.conns[id]
	if ok {
		delete(s.conns, id)
	}
	s.mu.Unlock()

	if !ok {
		return
	}
	sc.conn.Close()
	s.emitConnEvent(ConnEvent{Conn: id, Connected: false})
}

// Stop disconnects every connection and closes the listener. It is
// idempotent; the event streams are closed exactly once, after every
// in-flight read/accept loop has observably stopped.
func (s *TCPServer) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	listener := s.listener
	ids := make([]ConnID, 0, len(s.conns))
	for id := range s.conns {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	close(s.done)
	if listener != nil {
		listener.Close()
	}
	for _, id := range ids {
		s.disconnect(id)
	}

	s.wg.Wait()
	close(s.packets)
	close(s.connEvents)
}

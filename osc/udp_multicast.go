package osc

import (
	"fmt"
	"net"
	"sync"

	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

// UDPMulticast joins a multicast group and asynchronously receives
// datagrams sent to it, while also being able to send to the group or
// unicast-reply to a specific sender. net.ListenMulticastUDP disables
// IP_MULTICAST_LOOP on the underlying socket, so loopback is turned back
// on explicitly, matching the requirement that a sole group member
// receive its own packets. IPv4 and IPv6 groups each need their own
// packet-level connection type (golang.org/x/net/ipv4 vs. ipv6) to set
// that option, so Start picks one based on the resolved group address.
type UDPMulticast struct {
	group string
	port  int

	mu      sync.Mutex
	conn    *net.UDPConn
	pconn   multicastLoopbackSetter
	gaddr   *net.UDPAddr
	ready   bool
	stopped bool

	wg     sync.WaitGroup
	done   chan struct{}
	events chan UDPPacketEvent
}

// multicastLoopbackSetter is satisfied by both *ipv4.PacketConn and
// *ipv6.PacketConn, letting Start pick the address-family-appropriate
// packet connection without duplicating the rest of UDPMulticast.
type multicastLoopbackSetter interface {
	SetMulticastLoopback(bool) error
}

// NewUDPMulticast returns a UDPMulticast targeting the given multicast
// group address and port.
func NewUDPMulticast(group string, port int) *UDPMulticast {
	return &UDPMulticast{
		group:  group,
		port:   port,
		done:   make(chan struct{}),
		events: make(chan UDPPacketEvent, 64),
	}
}

// Packets returns the event stream of decoded incoming packets, each
// tagged with the SenderEndpoint that sent it.
func (m *UDPMulticast) Packets() <-chan UDPPacketEvent {
	return m.events
}

// Start joins the multicast group and begins receiving datagrams sent
// to it. It blocks until the socket is bound and ready to send.
func (m *UDPMulticast) Start() error {
	gaddr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", m.group, m.port))
	if err != nil {
		return err
	}

	conn, err := net.ListenMulticastUDP("udp", nil, gaddr)
	if err != nil {
		return fmt.Errorf("osc: udp multicast join: %w", err)
	}

	var pconn multicastLoopbackSetter
	if gaddr.IP.To4() != nil {
		pconn = ipv4.NewPacketConn(conn)
	} else {
		pconn = ipv6.NewPacketConn(conn)
	}
	if err := pconn.SetMulticastLoopback(true); err != nil {
		conn.Close()
		return fmt.Errorf("osc: udp multicast enable loopback: %w", err)
	}

	m.mu.Lock()
	m.conn = conn
	m.pconn = pconn
	m.gaddr = gaddr
	m.ready = true
	m.mu.Unlock()

	m.wg.Add(1)
	go m.receiveLoop(conn)
	return nil
}

func (m *UDPMulticast) receiveLoop(conn *net.UDPConn) {
	defer m.wg.Done()
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
		m.emit(UDPPacketEvent{Packet: pkt, Sender: newSenderEndpoint(raddr)})
	}
}

// emit races the send against done so that a reader who stops draining
// Packets cannot wedge Stop behind a full buffered channel forever.
func (m *UDPMulticast) emit(evt UDPPacketEvent) {
	select {
	case m.events <- evt:
	case <-m.done:
	}
}

// Send writes packet to every member of the group.
func (m *UDPMulticast) Send(pkt Packet) error {
	m.mu.Lock()
	conn, gaddr, ready := m.conn, m.gaddr, m.ready
	m.mu.Unlock()
	if !ready {
		return ErrNotConnected
	}

	payload, err := pkt.MarshalBinary()
	if err != nil {
		return err
	}
	_, err = conn.WriteToUDP(payload, gaddr)
	return err
}

// SendTo writes packet as a unicast reply to a specific group member.
func (m *UDPMulticast) SendTo(pkt Packet, to SenderEndpoint) error {
	m.mu.Lock()
	conn, ready := m.conn, m.ready
	m.mu.Unlock()
	if !ready {
		return ErrNotConnected
	}

	payload, err := pkt.MarshalBinary()
	if err != nil {
		return err
	}
	_, err = conn.WriteToUDP(payload, to.udpAddr())
	return err
}

// Stop leaves the group and closes the socket. It is idempotent.
func (m *UDPMulticast) Stop() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	conn := m.conn
	m.mu.Unlock()

	close(m.done)
	if conn != nil {
		conn.Close()
	}
	m.wg.Wait()
	close(m.events)
}

package osc

import (
	"context"
	"fmt"
	"net"
	"sync"
	"syscall"
)

// UDPClient is an asynchronous fire-and-forget OSC sender over UDP. The
// outbound socket is created lazily on the first Send and reused for
// subsequent sends.
type UDPClient struct {
	host      string
	port      int
	broadcast bool
	laddr     *net.UDPAddr

	mu   sync.Mutex
	conn net.Conn
}

// UDPClientOption configures a UDPClient at construction time.
type UDPClientOption func(*UDPClient)

// WithBroadcast marks the client as targeting a broadcast address (for
// example 255.255.255.255 or a subnet's directed broadcast address). It
// is off by default. When set, the outbound socket is created with
// SO_BROADCAST enabled via a Dialer Control hook, since the stdlib net
// package does not set it by default and broadcast sends otherwise fail
// with EACCES/EPERM on most platforms.
func WithBroadcast() UDPClientOption {
	return func(c *UDPClient) { c.broadcast = true }
}

// Broadcast reports whether the client was constructed with
// WithBroadcast.
func (c *UDPClient) Broadcast() bool {
	return c.broadcast
}

// WithLocalAddr binds the client's outbound socket to a specific local
// host/port.
func WithLocalAddr(host string, port int) UDPClientOption {
	return func(c *UDPClient) {
		c.laddr = &net.UDPAddr{IP: net.ParseIP(host), Port: port}
	}
}

// NewUDPClient returns a UDPClient targeting host:port.
func NewUDPClient(host string, port int, opts ...UDPClientOption) *UDPClient {
	c := &UDPClient{host: host, port: port}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send encodes p and writes it as a single UDP datagram, creating and
// caching the outbound socket on first use.
func (c *UDPClient) Send(p Packet) error {
	payload, err := p.MarshalBinary()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		dialer := net.Dialer{LocalAddr: c.laddr}
		if c.broadcast {
			dialer.Control = enableSocketBroadcast
		}
		conn, err := dialer.DialContext(context.Background(), "udp", fmt.Sprintf("%s:%d", c.host, c.port))
		if err != nil {
			return err
		}
		c.conn = conn
	}

	_, err = c.conn.Write(payload)
	return err
}

// enableSocketBroadcast sets SO_BROADCAST on the socket before it
// connects, allowing sends to broadcast addresses.
func enableSocketBroadcast(network, address string, raw syscall.RawConn) error {
	var sockErr error
	if err := raw.Control(func(fd uintptr) {
		sockErr = syscall.SetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_BROADCAST, 1)
	}); err != nil {
		return err
	}
	return sockErr
}

// Close cancels and clears the outbound socket. It is safe to call
// multiple times, including before any Send.
func (c *UDPClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

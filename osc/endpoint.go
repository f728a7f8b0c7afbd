package osc

import (
	"net"
	"strconv"
)

// SenderEndpoint identifies the remote host/port of an incoming UDP
// datagram. It is comparable and hashable so it can be used as a map key
// and as the destination of a reply.
type SenderEndpoint struct {
	host string
	port int
}

// newSenderEndpoint builds a SenderEndpoint from a UDP address.
func newSenderEndpoint(addr *net.UDPAddr) SenderEndpoint {
	return SenderEndpoint{host: addr.IP.String(), port: addr.Port}
}

// Host returns the remote IP address as a string.
func (s SenderEndpoint) Host() string {
	return s.host
}

// Port returns the remote port.
func (s SenderEndpoint) Port() int {
	return s.port
}

// String renders the endpoint as "host:port".
func (s SenderEndpoint) String() string {
	return net.JoinHostPort(s.host, strconv.Itoa(s.port))
}

func (s SenderEndpoint) udpAddr() *net.UDPAddr {
	return &net.UDPAddr{IP: net.ParseIP(s.host), Port: s.port}
}

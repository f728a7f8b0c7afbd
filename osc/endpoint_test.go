package osc

import (
	"net"
	"testing"
)

func TestSenderEndpointEquality(t *testing.T) {
	a := newSenderEndpoint(&net.UDPAddr{IP: net.ParseIP("192.168.1.5"), Port: 9000})
	b := newSenderEndpoint(&net.UDPAddr{IP: net.ParseIP("192.168.1.5"), Port: 9000})
	c := newSenderEndpoint(&net.UDPAddr{IP: net.ParseIP("192.168.1.5"), Port: 9001})

	if a != b {
		t.Errorf("endpoints built from equal addresses should be equal: %v != %v", a, b)
	}
	if a == c {
		t.Errorf("endpoints with different ports should not be equal: %v == %v", a, c)
	}

	set := map[SenderEndpoint]bool{}
	set[a] = true
	if !set[b] {
		t.Errorf("SenderEndpoint is not usable as a map key consistently")
	}
}

func TestSenderEndpointAccessors(t *testing.T) {
	e := newSenderEndpoint(&net.UDPAddr{IP: net.ParseIP("10.0.0.1"), Port: 8080})
	if e.Host() != "10.0.0.1" {
		t.Errorf("Host() = %q, want 10.0.0.1", e.Host())
	}
	if e.Port() != 8080 {
		t.Errorf("Port() = %d, want 8080", e.Port())
	}
	if want := "10.0.0.1:8080"; e.String() != want {
		t.Errorf("String() = %q, want %q", e.String(), want)
	}
}

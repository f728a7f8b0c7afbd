package osc

import (
	"testing"
	"time"
)

func TestUDPClientServerRoundTrip(t *testing.T) {
	server := NewUDPServer("127.0.0.1", 0)
	if err := server.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer server.Stop()

	client := NewUDPClient("127.0.0.1", server.Port())
	defer client.Close()

	msg := NewMessage("/greet", "hi")
	if err := client.Send(msg); err != nil {
		t.Fatalf("client.Send() error = %v", err)
	}

	var sender SenderEndpoint
	select {
	case evt := <-server.Packets():
		got, ok := evt.Packet.(*Message)
		if !ok || !got.Equal(msg) {
			t.Errorf("server received %v, want %v", evt.Packet, msg)
		}
		sender = evt.Sender
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for server to receive packet")
	}

	reply := NewMessage("/ack")
	if err := server.Send(reply, sender); err != nil {
		t.Fatalf("server.Send() to known sender error = %v", err)
	}
}

func TestUDPServerSendUnknownSender(t *testing.T) {
	server := NewUDPServer("127.0.0.1", 0)
	if err := server.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer server.Stop()

	unknown := SenderEndpoint{}
	if err := server.Send(NewMessage("/a"), unknown); err != ErrUnknownSender {
		t.Errorf("Send() to unknown sender error = %v, want ErrUnknownSender", err)
	}
}

func TestUDPPeerBidirectional(t *testing.T) {
	a := NewUDPPeer(0)
	if err := a.Start(); err != nil {
		t.Fatalf("peer a Start() error = %v", err)
	}
	defer a.Stop()

	b := NewUDPPeer(0)
	if err := b.Start(); err != nil {
		t.Fatalf("peer b Start() error = %v", err)
	}
	defer b.Stop()

	msg := NewMessage("/hello")
	if err := a.SendTo(msg, "127.0.0.1", b.Port()); err != nil {
		t.Fatalf("a.SendTo() error = %v", err)
	}

	var bSender SenderEndpoint
	select {
	case evt := <-b.Packets():
		got, ok := evt.Packet.(*Message)
		if !ok || !got.Equal(msg) {
			t.Errorf("b received %v, want %v", evt.Packet, msg)
		}
		bSender = evt.Sender
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for peer b to receive packet")
	}

	reply := NewMessage("/world")
	if err := b.Send(reply, bSender); err != nil {
		t.Fatalf("b.Send() reply error = %v", err)
	}

	select {
	case evt := <-a.Packets():
		got, ok := evt.Packet.(*Message)
		if !ok || !got.Equal(reply) {
			t.Errorf("a received %v, want %v", evt.Packet, reply)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for peer a to receive reply")
	}
}

func TestUDPMulticastLoopback(t *testing.T) {
	m := NewUDPMulticast("224.0.0.200", 30201)
	if err := m.Start(); err != nil {
		t.Skipf("multicast join unavailable in this environment: %v", err)
	}
	defer m.Stop()

	msg := NewMessage("/shout")
	if err := m.Send(msg); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	select {
	case evt := <-m.Packets():
		got, ok := evt.Packet.(*Message)
		if !ok || !got.Equal(msg) {
			t.Errorf("received %v, want %v", evt.Packet, msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for multicast loopback delivery")
	}
}

func TestUDPClientCloseIdempotent(t *testing.T) {
	c := NewUDPClient("127.0.0.1", 9)
	if err := c.Close(); err != nil {
		t.Errorf("Close() before any Send error = %v, want nil", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close() error = %v, want nil", err)
	}
}

func TestUDPClientBroadcastFlag(t *testing.T) {
	c := NewUDPClient("127.0.0.1", 9, WithBroadcast())
	if !c.Broadcast() {
		t.Errorf("Broadcast() = false, want true after WithBroadcast()")
	}
}

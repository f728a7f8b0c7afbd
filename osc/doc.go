// Copyright 2013 - 2015 Sebastian Ruml <sebastian.ruml@gmail.com>

/*
Package osc implements Open Sound Control (OSC) 1.0: a binary codec for
messages and bundles, a wildcard address pattern matcher with a dispatching
registry, two TCP stream framers (length-prefixed and SLIP), and a family of
asynchronous transports over TCP and UDP (unicast client/server, a
bidirectional peer, and multicast).

The implementation follows the Open Sound Control 1.0 Specification
(http://opensoundcontrol.org/spec-1_0). It carries no OSC Query support and
no bundle time-tag scheduling: received bundle content dispatches
immediately, and time tags are carried verbatim for the caller to interpret.
It adds no transport reliability layer beyond what TCP itself provides, and
does no logging of its own — malformed input is either returned as a typed
error or silently dropped at a transport's ingress boundary, per the OSC
convention that a single malformed sender must never disrupt a control
network.

Supported argument types: int32 ('i'), int64 ('h'), float32 ('f'), float64
('d'), string ('s'), symbol ('S'), blob ('b'), bool ('T'/'F'), nil ('N'),
impulse ('I'), OSC time tag ('t'), char ('c'), RGBA color ('r'), MIDI
message ('m'), and nested arrays ('['/']').

Client example:

	client := osc.NewUDPClient("localhost", 8765)
	defer client.Close()

	msg := osc.NewMessage("/test/address")
	msg.Append(int32(111))
	msg.Append(true)
	msg.Append("hello")
	client.Send(msg)

Server example:

	space := osc.NewAddressSpace()
	space.Register("/test/address", osc.HandlerFunc(func(msg *osc.Message) {
		fmt.Println(msg.String())
	}))

	server := osc.NewUDPServer("localhost", 8765)
	server.Start()
	defer server.Stop()

	for evt := range server.Packets() {
		space.Dispatch(evt.Packet)
	}
*/
package osc

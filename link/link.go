// Package link defines the narrow interface the router core (package
// router) consumes for a point-to-point sequenced-packet channel to one
// neighbor, plus its endpoint-addressing convention, and a real transport
// (unixpacket.go) implementing it. The core never depends on the concrete
// transport — only on this interface — so an alternative link-addressing
// scheme could be substituted without touching the dispatcher.
package link

import (
	"github.com/routepath/asrouter/policy"
	"github.com/routepath/asrouter/wire"
)

// Endpoint is a link's address as it appears in message src/dst fields —
// a filesystem-style socket path for the unixpacket transport, but the
// core treats it as an opaque string.
type Endpoint string

// LocalEndpoint derives the router's own endpoint on a link from the
// remote endpoint, by convention: a remote address ending in ".2" has the
// router's local address ending in ".1". This is a test-harness
// convention, not a protocol feature, so it is isolated behind this one
// function.
func LocalEndpoint(remote Endpoint) Endpoint {
	s := string(remote)
	if len(s) == 0 {
		return remote
	}
	i := len(s) - 1
	for i >= 0 && s[i] != '.' {
		i--
	}
	if i < 0 {
		return remote
	}
	return Endpoint(s[:i+1] + "1")
}

// Link is a bidirectional channel to one neighbor.
type Link interface {
	// Remote is the neighbor's endpoint address, as named in link
	// configuration and used as msg.src/dst on messages from/to it.
	Remote() Endpoint
	// Local is this router's own endpoint on the link.
	Local() Endpoint
	// Relation is this link's fixed business relationship.
	Relation() policy.Relation
	// Send transmits one framed message on the link.
	Send(wire.Message) error
	// ReadFrame blocks for exactly one framed message. A
	// zero-length read or transport error terminates the loop.
	ReadFrame() ([]byte, error)
	// Close releases the underlying transport resource.
	Close() error
}

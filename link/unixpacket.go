package link

import (
	"fmt"
	"net"

	"github.com/routepath/asrouter/policy"
	"github.com/routepath/asrouter/wire"
)

// maxFrameSize bounds a single read; unixpacket (SOCK_SEQPACKET) preserves
// datagram boundaries, so one Read call yields exactly one frame as long as
// it's not larger than this buffer.
const maxFrameSize = 64 * 1024

// UnixLink is a link.Link backed by a "unixpacket" (AF_UNIX,
// SOCK_SEQPACKET) socket — a point-to-point channel that preserves message
// boundaries. The router core never imports this type directly; it is
// wired up in cmd/run.go and consumed only via the Link interface.
type UnixLink struct {
	conn     *net.UnixConn
	remote   Endpoint
	local    Endpoint
	relation policy.Relation
}

// Dial connects to a neighbor's unixpacket socket at remote.
func Dial(remote Endpoint, relation policy.Relation) (*UnixLink, error) {
	addr := &net.UnixAddr{Name: string(remote), Net: "unixpacket"}
	c, err := net.DialUnix("unixpacket", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("link: dial %s: %w", remote, err)
	}
	return &UnixLink{conn: c, remote: remote, local: LocalEndpoint(remote), relation: relation}, nil
}

func (l *UnixLink) Remote() Endpoint          { return l.remote }
func (l *UnixLink) Local() Endpoint           { return l.local }
func (l *UnixLink) Relation() policy.Relation { return l.relation }

// Send marshals and writes one framed message, returning any failure to
// the caller. The router's dispatcher logs a failed send and keeps
// running; it does not stop the loop.
func (l *UnixLink) Send(m wire.Message) error {
	frame, err := wire.Marshal(m)
	if err != nil {
		return fmt.Errorf("link: marshal to %s: %w", l.remote, err)
	}
	if _, err := l.conn.Write(frame); err != nil {
		return fmt.Errorf("link: send to %s: %w", l.remote, err)
	}
	return nil
}

// ReadFrame blocks for exactly one framed message. A read returning zero
// bytes or an error terminates the main loop.
func (l *UnixLink) ReadFrame() ([]byte, error) {
	buf := make([]byte, maxFrameSize)
	n, err := l.conn.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("link: read from %s: %w", l.remote, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("link: %s hung up", l.remote)
	}
	return buf[:n], nil
}

func (l *UnixLink) Close() error {
	return l.conn.Close()
}

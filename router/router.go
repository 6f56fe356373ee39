// Package router routes each inbound message to its update/revoke/data/dump
// handler, driven by the single-threaded cooperative event loop in
// loop.go.
package router

import (
	"log/slog"

	"github.com/routepath/asrouter/history"
	"github.com/routepath/asrouter/link"
	"github.com/routepath/asrouter/table"
)

// Router owns the forwarding table, the announcement history, and the set
// of configured links. All of its exported methods are meant to be called
// from a single goroutine.
type Router struct {
	asn   int
	links map[link.Endpoint]link.Link
	tbl   *table.Table
	hist  *history.History
	log   *slog.Logger
}

// New builds a Router over the given links, keyed by their remote endpoint.
func New(asn int, links []link.Link, log *slog.Logger) *Router {
	m := make(map[link.Endpoint]link.Link, len(links))
	for _, l := range links {
		m[l.Remote()] = l
	}
	return &Router{
		asn:   asn,
		links: m,
		tbl:   table.New(),
		hist:  history.New(),
		log:   log,
	}
}

// Links returns the configured links, keyed by remote endpoint.
func (r *Router) Links() map[link.Endpoint]link.Link {
	return r.links
}

// Table exposes the current forwarding table, chiefly for tests and
// diagnostics — the dispatcher itself is the only writer.
func (r *Router) Table() *table.Table {
	return r.tbl
}

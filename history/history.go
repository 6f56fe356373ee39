// Package history implements the append-only announcement log: the ground
// truth every table rebuild replays from, and the derived revocation set
// that marks entries of that log as nullified.
package history

import (
	"github.com/routepath/asrouter/addr"
	"github.com/routepath/asrouter/route"
)

// UpdateRecord is one historical update message, retained verbatim.
type UpdateRecord struct {
	Src          route.Peer
	Announcement route.Announcement
}

// RevokedPrefix is one (network, netmask) named by a historical revoke
// message.
type RevokedPrefix struct {
	Network addr.IP
	Netmask addr.IP
}

// RevokeRecord is one historical revoke message, retained verbatim
// alongside the updates log even though table rebuilds
// consume the revocation set (RecordRevocation) rather than replaying
// revokes directly.
type RevokeRecord struct {
	Src      route.Peer
	Prefixes []RevokedPrefix
}

// revocationKey is the tuple a revocation entry and a historical update are
// compared against for nullification: (src, network, netmask), not just
// (src, network) — a revoke naming the wrong netmask must not nullify an
// update it doesn't actually cover.
type revocationKey struct {
	Src     route.Peer
	Network addr.IP
	Netmask addr.IP
}

// History is an append-only log of every update and revoke message seen.
// It is never pruned; the revocation set persists across rebuilds.
type History struct {
	updates     []UpdateRecord
	revokes     []RevokeRecord
	revocations map[revocationKey]struct{}
}

// New returns an empty History.
func New() *History {
	return &History{revocations: make(map[revocationKey]struct{})}
}

// AppendUpdate records an update message in arrival order.
func (h *History) AppendUpdate(src route.Peer, ann route.Announcement) {
	h.updates = append(h.updates, UpdateRecord{Src: src, Announcement: ann})
}

// RecordRevocation marks (src, network, netmask) as nullified for every
// current and future rebuild. A single revoke message names a list of
// prefixes; callers call this once per entry in that list.
func (h *History) RecordRevocation(src route.Peer, network, netmask addr.IP) {
	h.revocations[revocationKey{Src: src, Network: network, Netmask: netmask}] = struct{}{}
}

// AppendRevoke records a revoke message verbatim in arrival order,
// alongside (but independent from) the RecordRevocation calls that build
// the nullification set used by rebuild.
func (h *History) AppendRevoke(src route.Peer, prefixes []RevokedPrefix) {
	h.revokes = append(h.revokes, RevokeRecord{Src: src, Prefixes: prefixes})
}

// Revokes returns the historical revoke messages in arrival order.
func (h *History) Revokes() []RevokeRecord {
	return h.revokes
}

// Updates returns the historical updates in arrival order. Callers must not
// mutate the returned announcements' ASPath slices in place — Clone
// (route.Entry.Clone) first if extension is needed, since these slices are
// shared with every future rebuild.
func (h *History) Updates() []UpdateRecord {
	return h.updates
}

// Live reports whether an update is not nullified by any recorded
// revocation.
func (h *History) Live(rec UpdateRecord) bool {
	key := revocationKey{
		Src:     rec.Src,
		Network: rec.Announcement.Network,
		Netmask: rec.Announcement.Netmask,
	}
	_, revoked := h.revocations[key]
	return !revoked
}

// Package table implements the forwarding table, wrapping
// gaissmai/bart's compressed-trie Table for longest-prefix-match storage,
// with the five-step selector (selector.go) and the coalescing aggregator
// (aggregate.go) layered on top.
package table

import (
	"net/netip"

	"github.com/gaissmai/bart"
	"github.com/routepath/asrouter/addr"
	"github.com/routepath/asrouter/history"
	"github.com/routepath/asrouter/policy"
	"github.com/routepath/asrouter/route"
)

// Row is one forwarding-table entry reduced to the fields a dump response
// reports: network, netmask and the announcing peer.
type Row struct {
	Network addr.IP
	Netmask addr.IP
	Peer    route.Peer
}

// Table is the router's forwarding table. It stores, for each distinct
// announced (network, netmask) key, every candidate entry announced for it
// by different peers — per-peer uniqueness is enforced within that slice,
// not by the underlying bart.Table, which only keys on the prefix.
type Table struct {
	bt bart.Table[[]route.Entry]
}

// New returns an empty Table.
func New() *Table {
	return &Table{}
}

// Insert applies ann through the aggregator's insertion protocol:
// replace-by-peer, then cascade coalescing with any adjacent equivalent
// entry until no further merge applies.
func (t *Table) Insert(ann route.Announcement) {
	network, netmask, entry := ann.Network, ann.Netmask, ann.Entry.Clone()
	for {
		t.replaceAtPrefix(network, netmask, entry)
		merged, mNet, mMask, ok := t.tryCoalesce(network, netmask, entry)
		if !ok {
			return
		}
		// the merge replaces both source entries with the single wider one;
		// loop to see if the wider entry cascades into a higher-order merge.
		network, netmask, entry = mNet, mMask, merged
	}
}

// replaceAtPrefix inserts entry at (network, netmask), replacing any
// existing entry from the same peer at that exact prefix.
func (t *Table) replaceAtPrefix(network, netmask addr.IP, entry route.Entry) {
	pfx := addr.Prefix(network, netmask)
	entries, _ := t.bt.Get(pfx)
	replaced := false
	for i, e := range entries {
		if e.Peer == entry.Peer {
			entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, entry)
	}
	t.bt.Insert(pfx, entries)
}

// deleteEntry removes the single entry for peer at (network, netmask),
// dropping the prefix from the table entirely if it was the last one there.
func (t *Table) deleteEntry(network, netmask addr.IP, peer route.Peer) {
	pfx := addr.Prefix(network, netmask)
	entries, ok := t.bt.Get(pfx)
	if !ok {
		return
	}
	kept := entries[:0]
	for _, e := range entries {
		if e.Peer != peer {
			kept = append(kept, e)
		}
	}
	if len(kept) == 0 {
		t.bt.Delete(pfx)
		return
	}
	t.bt.Insert(pfx, kept)
}

// Rows enumerates every (network, netmask, peer) entry currently in the
// table, the form a dump response lists.
func (t *Table) Rows() []Row {
	var rows []Row
	for pfx, entries := range t.bt.All() {
		net, mask := fromPrefix(pfx)
		for _, e := range entries {
			rows = append(rows, Row{Network: net, Netmask: mask, Peer: e.Peer})
		}
	}
	return rows
}

// BestRoute computes the best route to dest: longest-prefix match, the
// five-step selector, then the policy filter. relationOf maps a
// candidate's peer to its link relation so the policy check can run; it
// returns ok=false for a peer with no known link, which BestRoute treats
// as "no surviving candidate".
func (t *Table) BestRoute(dest addr.IP, ingress policy.Relation, relationOf func(route.Peer) (policy.Relation, bool)) (route.Peer, bool) {
	a := ipToAddr(dest)
	candidates, ok := t.bt.Lookup(a)
	if !ok || len(candidates) == 0 {
		return "", false
	}
	best := Select(candidates)
	rel, ok := relationOf(best.Peer)
	if !ok || !policy.Allowed(ingress, rel) {
		return "", false
	}
	return best.Peer, true
}

func ipToAddr(ip addr.IP) netip.Addr {
	pfx := addr.Prefix(ip, 0xFFFFFFFF)
	return pfx.Addr()
}

func fromPrefix(pfx netip.Prefix) (network, netmask addr.IP) {
	b := pfx.Addr().As4()
	network, _ = addr.ParseIP(netip.AddrFrom4(b).String())
	netmask = addr.MaskFromLength(pfx.Bits())
	return
}

// Rebuild clears the table and replays every historical update not
// nullified by a recorded revocation, in arrival order, through the
// normal insertion protocol so coalescing reforms where it is still
// valid.
func Rebuild(h *history.History) *Table {
	t := New()
	for _, rec := range h.Updates() {
		if !h.Live(rec) {
			continue
		}
		t.Insert(rec.Announcement)
	}
	return t
}

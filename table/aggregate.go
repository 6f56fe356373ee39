package table

import (
	"github.com/routepath/asrouter/addr"
	"github.com/routepath/asrouter/route"
)

// Coalescible reports whether two entries at prefixes of the given mask
// can merge: identical netmask (implied by the caller comparing entries
// within the same mask length), adjacent prefixes, and identical
// peer/localpref/selfOrigin/origin/ASPath. lo is the combined prefix's
// network (the lower of the pair) when the entries coalesce.
func Coalescible(netA addr.IP, a route.Entry, netB addr.IP, b route.Entry, mask addr.IP) (lo addr.IP, ok bool) {
	if !a.Equal(b) {
		return 0, false
	}
	return addr.AdjacentPair(netA, netB, mask)
}

// tryCoalesce scans the whole table for an entry coalescible with
// (network, netmask, entry), which the caller has just inserted. On a
// match it removes both source entries and returns the merged entry and
// its wider prefix so the caller can re-insert and let the cascade
// continue.
func (t *Table) tryCoalesce(network, netmask addr.IP, entry route.Entry) (merged route.Entry, mNet, mMask addr.IP, ok bool) {
	selfPfx := addr.Prefix(network, netmask)
	targetBits := addr.MaskLength(netmask)

	for pfx, entries := range t.bt.All() {
		if pfx == selfPfx || pfx.Bits() != targetBits {
			continue
		}
		candNet, candMask := fromPrefix(pfx)
		for _, cand := range entries {
			lo, adj := Coalescible(network, entry, candNet, cand, netmask)
			if !adj {
				continue
			}
			t.deleteEntry(network, netmask, entry.Peer)
			t.deleteEntry(candNet, candMask, cand.Peer)
			return entry.Clone(), lo, addr.WidenMask(netmask), true
		}
	}
	return route.Entry{}, 0, 0, false
}

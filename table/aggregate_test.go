package table

import (
	"testing"

	"github.com/routepath/asrouter/addr"
	"github.com/routepath/asrouter/route"
)

func TestCoalescibleRequiresIdenticalAttributes(t *testing.T) {
	mask, _ := addr.ParseIP("255.255.255.0")
	netA, _ := addr.ParseIP("192.168.0.0")
	netB, _ := addr.ParseIP("192.168.1.0")

	a := route.Entry{Peer: "10.0.0.2", LocalPref: 100}
	b := route.Entry{Peer: "10.0.0.2", LocalPref: 50} // differs: not coalescible

	if _, ok := Coalescible(netA, a, netB, b, mask); ok {
		t.Error("expected differing localpref to prevent coalescing")
	}

	c := route.Entry{Peer: "10.0.0.2", LocalPref: 100}
	lo, ok := Coalescible(netA, a, netB, c, mask)
	if !ok || lo != netA {
		t.Errorf("Coalescible = %v,%v, want %v,true", lo, ok, netA)
	}
}

func TestCoalescibleRequiresAdjacency(t *testing.T) {
	mask, _ := addr.ParseIP("255.255.255.0")
	netA, _ := addr.ParseIP("192.168.0.0")
	netC, _ := addr.ParseIP("192.168.2.0") // not adjacent to netA under /24

	e := route.Entry{Peer: "10.0.0.2"}
	if _, ok := Coalescible(netA, e, netC, e, mask); ok {
		t.Error("expected non-adjacent prefixes to not be coalescible")
	}
}

// Cascading: four consecutive /24s coalesce pairwise into two adjacent
// /23s, and the second /23 cascades into a merge with the first, leaving
// a single /22.
func TestInsertCascadesAcrossMultipleMerges(t *testing.T) {
	tbl := New()
	e := route.Entry{Peer: "10.0.0.2"}
	tbl.Insert(ann(t, "192.168.0.0", "255.255.255.0", e))
	tbl.Insert(ann(t, "192.168.1.0", "255.255.255.0", e))
	tbl.Insert(ann(t, "192.168.2.0", "255.255.255.0", e))
	tbl.Insert(ann(t, "192.168.3.0", "255.255.255.0", e))

	rows := tbl.Rows()
	if len(rows) != 1 {
		t.Fatalf("Rows() = %v, want a single /22 after cascading merges", rows)
	}
	wantNet, _ := addr.ParseIP("192.168.0.0")
	wantMask, _ := addr.ParseIP("255.255.252.0")
	if rows[0].Network != wantNet || rows[0].Netmask != wantMask {
		t.Errorf("got %+v, want %s/%s", rows[0], wantNet, wantMask)
	}
}

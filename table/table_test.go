package table

import (
	"testing"

	"github.com/routepath/asrouter/addr"
	"github.com/routepath/asrouter/history"
	"github.com/routepath/asrouter/policy"
	"github.com/routepath/asrouter/route"
)

func ann(t *testing.T, network, netmask string, e route.Entry) route.Announcement {
	t.Helper()
	n, err := addr.ParseIP(network)
	if err != nil {
		t.Fatal(err)
	}
	m, err := addr.ParseIP(netmask)
	if err != nil {
		t.Fatal(err)
	}
	return route.Announcement{Network: n, Netmask: m, Entry: e}
}

func allCust(route.Peer) (policy.Relation, bool) { return policy.Customer, true }

func TestBestRouteLongestPrefixMatch(t *testing.T) {
	tbl := New()
	tbl.Insert(ann(t, "192.168.0.0", "255.255.0.0", route.Entry{Peer: "10.0.0.2"}))
	tbl.Insert(ann(t, "192.168.4.0", "255.255.255.0", route.Entry{Peer: "10.0.1.2"}))

	dest, _ := addr.ParseIP("192.168.4.5")
	peer, ok := tbl.BestRoute(dest, policy.Customer, allCust)
	if !ok || peer != "10.0.1.2" {
		t.Fatalf("BestRoute = %v,%v, want 10.0.1.2,true", peer, ok)
	}
}

func TestBestRouteLocalPrefTiebreak(t *testing.T) {
	tbl := New()
	tbl.Insert(ann(t, "172.16.0.0", "255.255.0.0", route.Entry{Peer: "10.0.0.2", LocalPref: 100}))
	tbl.Insert(ann(t, "172.16.0.0", "255.255.0.0", route.Entry{Peer: "10.0.1.2", LocalPref: 50}))

	dest, _ := addr.ParseIP("172.16.1.1")
	peer, ok := tbl.BestRoute(dest, policy.Customer, allCust)
	if !ok || peer != "10.0.0.2" {
		t.Fatalf("BestRoute = %v,%v, want 10.0.0.2,true", peer, ok)
	}
}

func TestInsertAggregatesAdjacentPrefixes(t *testing.T) {
	tbl := New()
	e := route.Entry{Peer: "10.0.0.2", LocalPref: 100, Origin: route.OriginIGP}
	tbl.Insert(ann(t, "192.168.0.0", "255.255.255.0", e))
	tbl.Insert(ann(t, "192.168.1.0", "255.255.255.0", e))

	rows := tbl.Rows()
	if len(rows) != 1 {
		t.Fatalf("Rows() = %v, want exactly one coalesced row", rows)
	}
	if got, _ := addr.ParseIP("192.168.0.0"); rows[0].Network != got {
		t.Errorf("network = %s, want 192.168.0.0", rows[0].Network)
	}
	if got, _ := addr.ParseIP("255.255.254.0"); rows[0].Netmask != got {
		t.Errorf("netmask = %s, want 255.255.254.0", rows[0].Netmask)
	}
}

func TestRebuildDecoalescesOnRevoke(t *testing.T) {
	h := history.New()
	e := route.Entry{Peer: "10.0.0.2", LocalPref: 100, Origin: route.OriginIGP}
	a1 := ann(t, "192.168.0.0", "255.255.255.0", e)
	a2 := ann(t, "192.168.1.0", "255.255.255.0", e)
	h.AppendUpdate(e.Peer, a1)
	h.AppendUpdate(e.Peer, a2)

	tbl := Rebuild(h)
	if len(tbl.Rows()) != 1 {
		t.Fatalf("expected coalesced table before revoke, got %v", tbl.Rows())
	}

	h.RecordRevocation(e.Peer, a2.Network, a2.Netmask)
	tbl = Rebuild(h)

	rows := tbl.Rows()
	if len(rows) != 1 {
		t.Fatalf("Rows() = %v, want exactly one row after revoke", rows)
	}
	if rows[0].Network != a1.Network || rows[0].Netmask != a1.Netmask {
		t.Errorf("got %+v, want standalone %s/%s", rows[0], a1.Network, a1.Netmask)
	}

	dest, _ := addr.ParseIP("192.168.1.5")
	if _, ok := tbl.BestRoute(dest, policy.Customer, allCust); ok {
		t.Errorf("expected no route to 192.168.1.5 after revoke")
	}
}

// Re-announcement from the same peer replaces rather than duplicates.
func TestInsertSamePeerReplaces(t *testing.T) {
	tbl := New()
	tbl.Insert(ann(t, "10.0.0.0", "255.0.0.0", route.Entry{Peer: "10.0.0.2", LocalPref: 100}))
	tbl.Insert(ann(t, "10.0.0.0", "255.0.0.0", route.Entry{Peer: "10.0.0.2", LocalPref: 200}))

	rows := tbl.Rows()
	if len(rows) != 1 {
		t.Fatalf("Rows() = %v, want exactly one row", rows)
	}
}

// Repeated insertion of an identical announcement is idempotent.
func TestInsertIdempotent(t *testing.T) {
	tbl := New()
	a := ann(t, "10.0.0.0", "255.0.0.0", route.Entry{Peer: "10.0.0.2", LocalPref: 100})
	tbl.Insert(a)
	tbl.Insert(a)
	if len(tbl.Rows()) != 1 {
		t.Fatalf("Rows() = %v, want exactly one row", tbl.Rows())
	}
}

// Policy denial: a covering route exists but policy forbids forwarding to it.
func TestBestRouteDeniedByPolicy(t *testing.T) {
	tbl := New()
	tbl.Insert(ann(t, "10.0.0.0", "255.0.0.0", route.Entry{Peer: "10.0.0.2"}))

	relationOf := func(route.Peer) (policy.Relation, bool) { return policy.Provider, true }
	dest, _ := addr.ParseIP("10.1.2.3")
	if _, ok := tbl.BestRoute(dest, policy.Peer, relationOf); ok {
		t.Errorf("expected no route: peer ingress to provider egress must be denied")
	}
}

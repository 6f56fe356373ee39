// Package policy enforces the customer/peer/provider business-relationship
// rules: which data flows are permitted, and which announcements get
// re-advertised to which neighbors.
package policy

import "fmt"

// Relation is a link's business relationship to the router, fixed for the
// lifetime of the link.
type Relation int

const (
	Customer Relation = iota
	Peer
	Provider
)

func (r Relation) String() string {
	switch r {
	case Customer:
		return "cust"
	case Peer:
		return "peer"
	case Provider:
		return "prov"
	default:
		return "unknown"
	}
}

// ParseRelation maps a wire token ("cust", "peer", "prov") to a Relation.
func ParseRelation(s string) (Relation, error) {
	switch s {
	case "cust":
		return Customer, nil
	case "peer":
		return Peer, nil
	case "prov":
		return Provider, nil
	default:
		return 0, fmt.Errorf("policy: unknown relation %q", s)
	}
}

// Allowed is the single rule governing both the data plane and the control
// plane: traffic between ingress relation in and egress relation out is
// permitted iff at least one side is a customer.
//
//	cust <-> cust   allowed
//	cust <-> peer   allowed
//	cust <-> prov   allowed
//	peer <-> peer   denied
//	peer <-> prov   denied
//	prov <-> prov   denied
//	prov <-> peer   denied
func Allowed(in, out Relation) bool {
	return in == Customer || out == Customer
}

package policy

import "testing"

func TestAllowed(t *testing.T) {
	cases := []struct {
		in, out Relation
		want    bool
	}{
		{Customer, Customer, true},
		{Customer, Peer, true},
		{Customer, Provider, true},
		{Peer, Customer, true},
		{Provider, Customer, true},
		{Peer, Peer, false},
		{Peer, Provider, false},
		{Provider, Peer, false},
		{Provider, Provider, false},
	}
	for _, c := range cases {
		if got := Allowed(c.in, c.out); got != c.want {
			t.Errorf("Allowed(%s, %s) = %v, want %v", c.in, c.out, got, c.want)
		}
	}
}

func TestParseRelation(t *testing.T) {
	for token, want := range map[string]Relation{"cust": Customer, "peer": Peer, "prov": Provider} {
		got, err := ParseRelation(token)
		if err != nil {
			t.Fatalf("ParseRelation(%q): %v", token, err)
		}
		if got != want {
			t.Errorf("ParseRelation(%q) = %v, want %v", token, got, want)
		}
	}
	if _, err := ParseRelation("bogus"); err == nil {
		t.Error("expected error for unknown relation")
	}
}

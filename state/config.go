// Package state holds the router's startup configuration: the ASN and
// link/relation set passed as positional CLI arguments, plus optional
// ambient runtime options (log level, log file) read from
// an optional YAML file — operational scaffolding, not part of the
// routing protocol.
package state

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/routepath/asrouter/policy"
)

// LinkSpec is one parsed "<endpoint>-<relation>" startup token.
type LinkSpec struct {
	Endpoint string
	Relation policy.Relation
}

// Config is the router's parsed startup configuration.
type Config struct {
	ASN   int
	Links []LinkSpec
}

// ParseLinkToken splits a "<endpoint>-<relation>" token on its last hyphen
// — endpoints are filesystem paths and may themselves contain hyphens, so
// splitting from the right is the only unambiguous rule.
func ParseLinkToken(token string) (LinkSpec, error) {
	i := strings.LastIndex(token, "-")
	if i <= 0 || i == len(token)-1 {
		return LinkSpec{}, fmt.Errorf("state: malformed link token %q, want <endpoint>-<relation>", token)
	}
	endpoint, relStr := token[:i], token[i+1:]
	rel, err := policy.ParseRelation(relStr)
	if err != nil {
		return LinkSpec{}, fmt.Errorf("state: link token %q: %w", token, err)
	}
	return LinkSpec{Endpoint: endpoint, Relation: rel}, nil
}

// ParseConfig parses one positive integer asn, followed by one or more
// "<endpoint>-<relation>" tokens, in any order. This is the sole
// validation point for startup arguments; an error here makes the run
// command exit nonzero before any link is dialed. Later startup failures
// (dialing a link, opening the log file) also exit nonzero.
func ParseConfig(args []string) (Config, error) {
	if len(args) < 2 {
		return Config{}, fmt.Errorf("state: expected an asn followed by at least one <endpoint>-<relation> token")
	}

	var asn int
	var asnSeen bool
	var links []LinkSpec

	for _, arg := range args {
		if n, err := strconv.Atoi(arg); err == nil {
			if asnSeen {
				return Config{}, fmt.Errorf("state: multiple asn-looking arguments (%q); only one is allowed", arg)
			}
			if n <= 0 {
				return Config{}, fmt.Errorf("state: asn must be a positive integer, got %d", n)
			}
			asn = n
			asnSeen = true
			continue
		}
		spec, err := ParseLinkToken(arg)
		if err != nil {
			return Config{}, err
		}
		links = append(links, spec)
	}

	if !asnSeen {
		return Config{}, fmt.Errorf("state: no asn argument found among %v", args)
	}
	if len(links) == 0 {
		return Config{}, fmt.Errorf("state: at least one <endpoint>-<relation> link is required")
	}

	return Config{ASN: asn, Links: links}, nil
}

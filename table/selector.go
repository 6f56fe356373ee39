package table

import (
	"github.com/routepath/asrouter/addr"
	"github.com/routepath/asrouter/route"
)

// Select applies five ordered tie-break rules to a set of candidate
// entries sharing the longest-matching prefix, returning the single
// surviving entry. Select assumes candidates is non-empty; callers check
// coverage before calling in.
func Select(candidates []route.Entry) route.Entry {
	cur := candidates

	// 1. Highest localpref wins.
	cur = narrow(cur, func(e route.Entry) int64 { return int64(e.LocalPref) })

	// 2. selfOrigin = true wins; if none are self-originated, keep all.
	if only := filter(cur, func(e route.Entry) bool { return e.SelfOrigin }); len(only) > 0 {
		cur = only
	}

	// 3. Shortest ASPath wins; ties keep all.
	cur = narrow(cur, func(e route.Entry) int64 { return -int64(len(e.ASPath)) })

	// 4. Origin class IGP > EGP > UNK; keep only the top non-empty class.
	cur = narrow(cur, func(e route.Entry) int64 { return int64(e.Origin.Rank()) })

	// 5. Lowest peer address, numeric, is the final disambiguator.
	best := cur[0]
	bestVal, _ := addr.ParseIP(string(best.Peer))
	for _, e := range cur[1:] {
		v, _ := addr.ParseIP(string(e.Peer))
		if v < bestVal {
			best = e
			bestVal = v
		}
	}
	return best
}

// narrow keeps only the candidates with the maximal key(candidate), or all
// of cur if it's already down to one.
func narrow(cur []route.Entry, key func(route.Entry) int64) []route.Entry {
	if len(cur) <= 1 {
		return cur
	}
	best := key(cur[0])
	for _, e := range cur[1:] {
		if k := key(e); k > best {
			best = k
		}
	}
	var kept []route.Entry
	for _, e := range cur {
		if key(e) == best {
			kept = append(kept, e)
		}
	}
	return kept
}

func filter(cur []route.Entry, pred func(route.Entry) bool) []route.Entry {
	var kept []route.Entry
	for _, e := range cur {
		if pred(e) {
			kept = append(kept, e)
		}
	}
	return kept
}

// Package addr implements the bit-level CIDR arithmetic the forwarding
// table and aggregator are built on: mask lengths, prefix coverage,
// adjacency of sibling prefixes, and mask widening/narrowing.
//
// Addresses and masks cross the wire as dotted-quad strings; internally
// everything is a 32-bit big-endian value so prefix arithmetic is plain
// integer bit-twiddling.
package addr

import (
	"encoding/binary"
	"fmt"
	"net/netip"
)

// IP is an IPv4 address or netmask packed into its 32-bit value.
type IP uint32

// ParseIP parses a dotted-quad string ("10.0.0.1") into an IP.
func ParseIP(s string) (IP, error) {
	a, err := netip.ParseAddr(s)
	if err != nil || !a.Is4() {
		return 0, fmt.Errorf("addr: malformed dotted-quad %q: %w", s, err)
	}
	b := a.As4()
	return IP(binary.BigEndian.Uint32(b[:])), nil
}

// String renders the IP back to dotted-quad form.
func (ip IP) String() string {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(ip))
	return netip.AddrFrom4(b).String()
}

// MaskLength counts the leading one-bits of a contiguous-ones mask.
// Behavior is undefined for a non-contiguous mask.
func MaskLength(mask IP) int {
	n := 0
	for i := 31; i >= 0; i-- {
		if mask&(1<<uint(i)) == 0 {
			break
		}
		n++
	}
	return n
}

// MaskFromLength builds the contiguous mask with the top n bits set.
func MaskFromLength(n int) IP {
	switch {
	case n <= 0:
		return 0
	case n >= 32:
		return 0xFFFFFFFF
	default:
		return IP(0xFFFFFFFF << uint(32-n))
	}
}

// PrefixMatchLength returns the number of matching high-order bits of a and
// b, capped at limit, but reports 0 if the very first bit differs — callers
// only ever compare the result against limit, so "0" and "some other short
// match" both read as "does not match under this mask".
func PrefixMatchLength(a, b IP, limit int) int {
	if limit <= 0 {
		return 0
	}
	if limit > 32 {
		limit = 32
	}
	if (a^b)&(1<<31) != 0 {
		return 0
	}
	n := 0
	for i := 31; i >= 32-limit; i-- {
		if (a^b)&(1<<uint(i)) != 0 {
			break
		}
		n++
	}
	return n
}

// PrefixCovers reports whether address falls under the prefix
// (prefixNet, prefixMask).
func PrefixCovers(prefixNet, prefixMask, address IP) bool {
	l := MaskLength(prefixMask)
	return PrefixMatchLength(prefixNet, address, l) >= l
}

// AdjacentPair reports whether pfxA and pfxB, both under mask, are siblings:
// agreeing on bits 0..m-2 and differing on bit m-1, where m = MaskLength(mask).
// When true, lo is the numerically lower of the two — the combined prefix
// under a mask one bit shorter.
func AdjacentPair(pfxA, pfxB, mask IP) (lo IP, ok bool) {
	m := MaskLength(mask)
	if m == 0 {
		return 0, false
	}
	bit := IP(1) << uint(32-m)
	parentMask := MaskFromLength(m - 1)
	if pfxA&parentMask != pfxB&parentMask {
		return 0, false
	}
	if pfxA&bit == pfxB&bit {
		return 0, false
	}
	if pfxA < pfxB {
		return pfxA, true
	}
	return pfxB, true
}

// WidenMask clears the lowest set bit, shortening the mask by one.
func WidenMask(mask IP) IP {
	return mask & (mask - 1)
}

// NarrowMask sets the bit immediately after the current lowest set bit,
// lengthening the mask by one.
func NarrowMask(mask IP) IP {
	l := MaskLength(mask)
	if l >= 32 {
		return mask
	}
	return mask | (IP(1) << uint(32-l-1))
}

// Prefix pairs a network address with its mask length, the form
// gaissmai/bart's Table keys on.
func Prefix(network IP, mask IP) netip.Prefix {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(network))
	return netip.PrefixFrom(netip.AddrFrom4(b), MaskLength(mask))
}

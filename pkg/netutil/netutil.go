// ABOUTME: Address classification for outbound request filtering
// ABOUTME: Read-only tables of loopback, private, link-local and reserved ranges

package netutil

import (
	"net"
	"net/netip"
)

// blockedPrefixes are ranges that must never be the target of an outbound fetch.
var blockedPrefixes = []netip.Prefix{
	netip.MustParsePrefix("0.0.0.0/8"),
	netip.MustParsePrefix("10.0.0.0/8"),
	netip.MustParsePrefix("127.0.0.0/8"),
	netip.MustParsePrefix("169.254.0.0/16"),
	netip.MustParsePrefix("172.16.0.0/12"),
	netip.MustParsePrefix("192.168.0.0/16"),
	netip.MustParsePrefix("::/128"),
	netip.MustParsePrefix("::1/128"),
	// Matches only through IsInternal; IsInternalIP sees mapped forms as IPv4
	netip.MustParsePrefix("::ffff:0:0/96"),
	netip.MustParsePrefix("fc00::/7"),
	netip.MustParsePrefix("fe80::/10"),
	netip.MustParsePrefix("fec0::/10"),
	netip.MustParsePrefix("ff00::/8"),
}

// IsInternal reports whether addr is loopback, unspecified, link-local,
// private, multicast or an IPv4-mapped IPv6 address.
func IsInternal(addr netip.Addr) bool {
	if !addr.IsValid() {
		return true
	}
	addr = addr.WithZone("")
	if addr.IsLoopback() || addr.IsUnspecified() || addr.IsPrivate() ||
		addr.IsLinkLocalUnicast() || addr.IsLinkLocalMulticast() || addr.IsMulticast() {
		return true
	}
	for _, p := range blockedPrefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// IsInternalIP is IsInternal for net.IP values as returned by the resolver.
// IPv4 addresses in 16-byte form are classified as plain IPv4. net.IP keeps
// no record of whether an address came from an A or a mapped AAAA answer,
// so a mapped address is judged by the IPv4 address it carries.
func IsInternalIP(ip net.IP) bool {
	return IsInternal(AddrFromIP(ip))
}

// AddrFromIP converts a net.IP to netip.Addr, collapsing 16-byte IPv4 forms.
// An invalid input yields the zero Addr.
func AddrFromIP(ip net.IP) netip.Addr {
	if v4 := ip.To4(); v4 != nil {
		return netip.AddrFrom4([4]byte(v4))
	}
	addr, ok := netip.AddrFromSlice(ip)
	if !ok {
		return netip.Addr{}
	}
	return addr
}

// IsIPLiteral reports whether host parses as an IP address, with or without
// IPv6 brackets or a zone.
func IsIPLiteral(host string) bool {
	if len(host) > 1 && host[0] == '[' && host[len(host)-1] == ']' {
		host = host[1 : len(host)-1]
	}
	if _, err := netip.ParseAddr(host); err == nil {
		return true
	}
	return net.ParseIP(host) != nil
}

// Package privacy masks personal data before it reaches logs and traces.
package privacy

import (
	"crypto/sha256"
	"encoding/hex"
	"net/netip"
)

// AnonymizeIP truncates an address to its network prefix: /24 for IPv4
// (IPv4-mapped IPv6 included) and /48 for IPv6.
// Returns "unknown" for empty input and "invalid" for unparseable input.
func AnonymizeIP(ip string) string {
	if ip == "" || ip == "unknown" {
		return "unknown"
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return "invalid"
	}
	addr = addr.Unmap()
	bits := 48
	if addr.Is4() {
		bits = 24
	}
	prefix, err := addr.WithZone("").Prefix(bits)
	if err != nil {
		return "invalid"
	}
	return prefix.Addr().String()
}

// HashIdentifier returns a short SHA-256 digest of a personal identifier so
// traces can correlate the same person without carrying the identifier.
func HashIdentifier(value string) string {
	if value == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:8])
}

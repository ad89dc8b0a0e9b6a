// Package addr provides the MAC, IPv4 and IPv6 address value types shared
// by every protocol codec in the layer package.
package addr

import (
	"encoding/binary"
	"fmt"
	"net"
)

// MAC is a 48-bit Ethernet hardware address.
type MAC [6]byte

// String formats the address as "xx:xx:xx:xx:xx:xx", lowercase hex.
func (m MAC) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x",
		m[0], m[1], m[2], m[3], m[4], m[5])
}

// Equal reports whether two MAC addresses hold the same bytes.
func (m MAC) Equal(o MAC) bool {
	return m == o
}

// IsBroadcast reports whether m is ff:ff:ff:ff:ff:ff.
func (m MAC) IsBroadcast() bool {
	return m == BroadcastMAC
}

// IsMulticast reports whether the I/G bit of the first octet is set.
func (m MAC) IsMulticast() bool {
	return m[0]&0x01 != 0
}

// BroadcastMAC is the Ethernet broadcast address.
var BroadcastMAC = MAC{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}

// ParseMAC parses the case-insensitive colon-hex form "xx:xx:xx:xx:xx:xx".
func ParseMAC(s string) (MAC, error) {
	hw, err := net.ParseMAC(s)
	if err != nil {
		return MAC{}, fmt.Errorf("addr: parse MAC %q: %w", s, err)
	}
	if len(hw) != 6 {
		return MAC{}, fmt.Errorf("addr: MAC %q has %d bytes, want 6", s, len(hw))
	}
	var m MAC
	copy(m[:], hw)
	return m, nil
}

// IPv4 is a 32-bit IPv4 address, stored in network byte order.
type IPv4 [4]byte

// String formats the address in dotted-quad form.
func (ip IPv4) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", ip[0], ip[1], ip[2], ip[3])
}

// Equal reports whether two IPv4 addresses hold the same bytes.
func (ip IPv4) Equal(o IPv4) bool {
	return ip == o
}

// ToUint32 returns the address as a big-endian (network byte order) uint32.
func (ip IPv4) ToUint32() uint32 {
	return binary.BigEndian.Uint32(ip[:])
}

// ToInt returns the address as a host-order integer, for arithmetic such as
// subnet masking where byte order must not leak into comparisons.
func (ip IPv4) ToInt() uint32 {
	return uint32(ip[0])<<24 | uint32(ip[1])<<16 | uint32(ip[2])<<8 | uint32(ip[3])
}

// IPv4FromUint32 builds an IPv4 address from a big-endian uint32.
func IPv4FromUint32(v uint32) IPv4 {
	var ip IPv4
	binary.BigEndian.PutUint32(ip[:], v)
	return ip
}

// ParseIPv4 parses a dotted-quad string into an IPv4 address.
func ParseIPv4(s string) (IPv4, error) {
	parsed := net.ParseIP(s)
	if parsed == nil {
		return IPv4{}, fmt.Errorf("addr: parse IPv4 %q: invalid address", s)
	}
	v4 := parsed.To4()
	if v4 == nil {
		return IPv4{}, fmt.Errorf("addr: %q is not an IPv4 address", s)
	}
	var ip IPv4
	copy(ip[:], v4)
	return ip, nil
}

// IPv6 is a 128-bit IPv6 address, stored in network byte order.
type IPv6 [16]byte

// String formats the address in its canonical compressed textual form.
func (ip IPv6) String() string {
	return net.IP(ip[:]).String()
}

// Equal reports whether two IPv6 addresses hold the same bytes.
func (ip IPv6) Equal(o IPv6) bool {
	return ip == o
}

// CopyTo writes the 16 address bytes, network-order, into buf[:16].
// It follows copy semantics: if buf is shorter than 16 bytes, only the
// first len(buf) address bytes are written and no error is reported —
// callers own bounds-checking the window they pass in.
func (ip IPv6) CopyTo(buf []byte) {
	copy(buf, ip[:])
}

// ParseIPv6 parses canonical IPv6 text, including "::" compression, via the
// standard library's address parser.
func ParseIPv6(s string) (IPv6, error) {
	parsed := net.ParseIP(s)
	if parsed == nil {
		return IPv6{}, fmt.Errorf("addr: parse IPv6 %q: invalid address", s)
	}
	v6 := parsed.To16()
	if v6 == nil || parsed.To4() != nil {
		return IPv6{}, fmt.Errorf("addr: %q is not an IPv6 address", s)
	}
	var ip IPv6
	copy(ip[:], v6)
	return ip, nil
}

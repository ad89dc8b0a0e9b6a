package layer

import (
	"encoding/binary"
	"fmt"

	"github.com/therealutkarshpriyadarshi/packetlayer/addr"
	"github.com/therealutkarshpriyadarshi/packetlayer/checksum"
	"github.com/therealutkarshpriyadarshi/packetlayer/rawbuf"
)

// IPv4HeaderLen is the minimum (no options) IPv4 header length.
const IPv4HeaderLen = 20

// IPv4 protocol numbers used for next-layer dispatch.
const (
	IPProtoTCP = 6
	IPProtoUDP = 17
)

// IPv4Layer is an IPv4 header, possibly followed by options padding it to
// IHL*4 bytes.
type IPv4Layer struct {
	base
}

// NewIPv4 builds a detached IPv4 layer with no options (IHL=5). Total
// length, header checksum and protocol are left at zero; call
// ComputeCalculateFields (directly or via a Packet) to fill them in from
// the attached chain.
func NewIPv4(src, dst addr.IPv4, ttl uint8, id uint16, flagsFrag uint16, tos uint8) *IPv4Layer {
	data := make([]byte, IPv4HeaderLen)
	data[0] = 0x40 | 5 // version=4, IHL=5
	data[1] = tos
	binary.BigEndian.PutUint16(data[4:6], id)
	binary.BigEndian.PutUint16(data[6:8], flagsFrag)
	data[8] = ttl
	copy(data[12:16], src[:])
	copy(data[16:20], dst[:])
	return &IPv4Layer{base: newDetached(IPv4, data)}
}

func parseIPv4(buf *rawbuf.Buffer, offset int) (*IPv4Layer, error) {
	if buf.Len()-offset < IPv4HeaderLen {
		return nil, fmt.Errorf("layer: IPv4 header needs %d bytes, have %d", IPv4HeaderLen, buf.Len()-offset)
	}
	ihl := int(buf.At(offset)&0x0F) * 4
	if ihl < IPv4HeaderLen {
		return nil, fmt.Errorf("layer: IPv4 IHL %d below minimum %d", ihl, IPv4HeaderLen)
	}
	if buf.Len()-offset < ihl {
		return nil, fmt.Errorf("layer: IPv4 header claims %d bytes, have %d", ihl, buf.Len()-offset)
	}
	return &IPv4Layer{base: newParsed(IPv4, buf, offset, ihl)}, nil
}

// Version returns the 4-bit version field (always 4 for a well-formed
// header, but reported as parsed).
func (p *IPv4Layer) Version() uint8 { return p.Bytes()[0] >> 4 }

// IHL returns the header length in 32-bit words.
func (p *IPv4Layer) IHL() uint8 { return p.Bytes()[0] & 0x0F }

// TOS returns the type-of-service / DSCP+ECN byte.
func (p *IPv4Layer) TOS() uint8 { return p.Bytes()[1] }

// TotalLength returns the total-length field (header + data).
func (p *IPv4Layer) TotalLength() uint16 { return binary.BigEndian.Uint16(p.Bytes()[2:4]) }

// Identification returns the fragmentation identification field.
func (p *IPv4Layer) Identification() uint16 { return binary.BigEndian.Uint16(p.Bytes()[4:6]) }

// FlagsAndFragmentOffset returns the combined flags+fragment-offset field.
func (p *IPv4Layer) FlagsAndFragmentOffset() uint16 { return binary.BigEndian.Uint16(p.Bytes()[6:8]) }

// TTL returns the time-to-live field.
func (p *IPv4Layer) TTL() uint8 { return p.Bytes()[8] }

// SetTTL overwrites the time-to-live field.
func (p *IPv4Layer) SetTTL(ttl uint8) { p.Bytes()[8] = ttl }

// NextProtocol returns the protocol field (6=TCP, 17=UDP, ...).
func (p *IPv4Layer) NextProtocol() uint8 { return p.Bytes()[9] }

// HeaderChecksum returns the header checksum field.
func (p *IPv4Layer) HeaderChecksum() uint16 { return binary.BigEndian.Uint16(p.Bytes()[10:12]) }

// Source returns the source address.
func (p *IPv4Layer) Source() addr.IPv4 {
	var ip addr.IPv4
	copy(ip[:], p.Bytes()[12:16])
	return ip
}

// SetSource overwrites the source address.
func (p *IPv4Layer) SetSource(ip addr.IPv4) { copy(p.Bytes()[12:16], ip[:]) }

// Destination returns the destination address.
func (p *IPv4Layer) Destination() addr.IPv4 {
	var ip addr.IPv4
	copy(ip[:], p.Bytes()[16:20])
	return ip
}

// SetDestination overwrites the destination address.
func (p *IPv4Layer) SetDestination(ip addr.IPv4) { copy(p.Bytes()[16:20], ip[:]) }

// Options returns the option bytes following the fixed 20-byte header, or
// an empty slice if IHL==5.
func (p *IPv4Layer) Options() []byte {
	return p.Bytes()[IPv4HeaderLen:]
}

// ParseNextLayer dispatches on the protocol field.
func (p *IPv4Layer) ParseNextLayer() (Layer, error) {
	next := p.offset + p.localLen
	remaining := p.buf.Len() - next
	if remaining <= 0 {
		return nil, nil
	}
	switch p.NextProtocol() {
	case IPProtoTCP:
		l, err := parseTCP(p.buf, next)
		if err == nil {
			return l, nil
		}
		p.logger.Debugf("layer: truncated TCP after IPv4: %v", err)
	case IPProtoUDP:
		l, err := parseUDP(p.buf, next)
		if err == nil {
			return l, nil
		}
		p.logger.Debugf("layer: truncated UDP after IPv4: %v", err)
	}
	return newPayload(p.buf, next, remaining), nil
}

// ComputeCalculateFields sets version/IHL, total length, protocol, and
// recomputes the header checksum.
func (p *IPv4Layer) ComputeCalculateFields() error {
	b := p.Bytes()
	if len(b) == IPv4HeaderLen {
		b[0] = 0x40 | 5
	} else {
		b[0] = 0x40 | byte(len(b)/4)
	}
	binary.BigEndian.PutUint16(b[2:4], uint16(p.DataLen()))

	switch n := p.Next(); {
	case n == nil:
		// leave protocol as already set
	case n.Protocol() == TCP:
		b[9] = IPProtoTCP
	case n.Protocol() == UDP:
		b[9] = IPProtoUDP
	}

	b[10], b[11] = 0, 0
	sum := checksum.Of(b)
	binary.BigEndian.PutUint16(b[10:12], sum)
	return nil
}

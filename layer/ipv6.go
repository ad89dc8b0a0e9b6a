package layer

import (
	"encoding/binary"
	"fmt"

	"github.com/therealutkarshpriyadarshi/packetlayer/addr"
	"github.com/therealutkarshpriyadarshi/packetlayer/rawbuf"
)

// IPv6HeaderLen is the fixed size of an IPv6 header (no extension headers).
const IPv6HeaderLen = 40

// IPv6Layer is a fixed 40-byte IPv6 header.
type IPv6Layer struct {
	base
}

// NewIPv6 builds a detached IPv6 layer. Payload length and next-header are
// left at zero; ComputeCalculateFields fills them in from the attached
// chain.
func NewIPv6(src, dst addr.IPv6, hopLimit uint8, trafficClass uint8, flowLabel uint32) *IPv6Layer {
	data := make([]byte, IPv6HeaderLen)
	vtf := uint32(6)<<28 | uint32(trafficClass)<<20 | (flowLabel & 0x000FFFFF)
	binary.BigEndian.PutUint32(data[0:4], vtf)
	data[7] = hopLimit
	src.CopyTo(data[8:24])
	dst.CopyTo(data[24:40])
	return &IPv6Layer{base: newDetached(IPv6, data)}
}

func parseIPv6(buf *rawbuf.Buffer, offset int) (*IPv6Layer, error) {
	if buf.Len()-offset < IPv6HeaderLen {
		return nil, fmt.Errorf("layer: IPv6 header needs %d bytes, have %d", IPv6HeaderLen, buf.Len()-offset)
	}
	return &IPv6Layer{base: newParsed(IPv6, buf, offset, IPv6HeaderLen)}, nil
}

func (p *IPv6Layer) vtf() uint32 { return binary.BigEndian.Uint32(p.Bytes()[0:4]) }

// Version returns the 4-bit version field.
func (p *IPv6Layer) Version() uint8 { return uint8(p.vtf() >> 28) }

// TrafficClass returns the 8-bit traffic class field.
func (p *IPv6Layer) TrafficClass() uint8 { return uint8(p.vtf() >> 20) }

// FlowLabel returns the 20-bit flow label.
func (p *IPv6Layer) FlowLabel() uint32 { return p.vtf() & 0x000FFFFF }

// PayloadLength returns the payload-length field (bytes after this header).
func (p *IPv6Layer) PayloadLength() uint16 { return binary.BigEndian.Uint16(p.Bytes()[4:6]) }

// NextHeader returns the next-header field (6=TCP, 17=UDP, ...).
func (p *IPv6Layer) NextHeader() uint8 { return p.Bytes()[6] }

// HopLimit returns the hop-limit field.
func (p *IPv6Layer) HopLimit() uint8 { return p.Bytes()[7] }

// SetHopLimit overwrites the hop-limit field.
func (p *IPv6Layer) SetHopLimit(h uint8) { p.Bytes()[7] = h }

// Source returns the source address.
func (p *IPv6Layer) Source() addr.IPv6 {
	var ip addr.IPv6
	copy(ip[:], p.Bytes()[8:24])
	return ip
}

// SetSource overwrites the source address.
func (p *IPv6Layer) SetSource(ip addr.IPv6) { copy(p.Bytes()[8:24], ip[:]) }

// Destination returns the destination address.
func (p *IPv6Layer) Destination() addr.IPv6 {
	var ip addr.IPv6
	copy(ip[:], p.Bytes()[24:40])
	return ip
}

// SetDestination overwrites the destination address.
func (p *IPv6Layer) SetDestination(ip addr.IPv6) { copy(p.Bytes()[24:40], ip[:]) }

// ParseNextLayer mirrors IPv4's policy, keyed on NextHeader.
func (p *IPv6Layer) ParseNextLayer() (Layer, error) {
	next := p.offset + p.localLen
	remaining := p.buf.Len() - next
	if remaining <= 0 {
		return nil, nil
	}
	switch p.NextHeader() {
	case IPProtoTCP:
		l, err := parseTCP(p.buf, next)
		if err == nil {
			return l, nil
		}
		p.logger.Debugf("layer: truncated TCP after IPv6: %v", err)
	case IPProtoUDP:
		l, err := parseUDP(p.buf, next)
		if err == nil {
			return l, nil
		}
		p.logger.Debugf("layer: truncated UDP after IPv6: %v", err)
	}
	return newPayload(p.buf, next, remaining), nil
}

// ComputeCalculateFields sets version, payload length and next-header from
// the attached chain.
func (p *IPv6Layer) ComputeCalculateFields() error {
	b := p.Bytes()
	vtf := (uint32(6) << 28) | (p.vtf() & 0x0FFFFFFF)
	binary.BigEndian.PutUint32(b[0:4], vtf)

	payloadLen := 0
	for l := p.Next(); l != nil; l = l.Next() {
		payloadLen += l.LocalLen()
	}
	binary.BigEndian.PutUint16(b[4:6], uint16(payloadLen))

	switch n := p.Next(); {
	case n == nil:
	case n.Protocol() == TCP:
		b[6] = IPProtoTCP
	case n.Protocol() == UDP:
		b[6] = IPProtoUDP
	}
	return nil
}

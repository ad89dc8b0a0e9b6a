package layer

import (
	"encoding/binary"
	"fmt"

	"github.com/therealutkarshpriyadarshi/packetlayer/addr"
	"github.com/therealutkarshpriyadarshi/packetlayer/plog"
	"github.com/therealutkarshpriyadarshi/packetlayer/rawbuf"
)

// EtherType is the 16-bit next-protocol selector in an Ethernet or VLAN
// header.
type EtherType uint16

// Recognized EtherType values.
const (
	EtherTypeIPv4 EtherType = 0x0800
	EtherTypeARP  EtherType = 0x0806
	EtherTypeIPv6 EtherType = 0x86DD
	EtherTypeVLAN EtherType = 0x8100
)

// EthernetHeaderLen is the fixed size of an Ethernet II header.
const EthernetHeaderLen = 14

// EthernetLayer is the Ethernet II header: destination MAC, source MAC,
// EtherType.
type EthernetLayer struct {
	base
}

// NewEthernet builds a detached Ethernet layer.
func NewEthernet(dst, src addr.MAC, etherType EtherType) *EthernetLayer {
	data := make([]byte, EthernetHeaderLen)
	copy(data[0:6], dst[:])
	copy(data[6:12], src[:])
	binary.BigEndian.PutUint16(data[12:14], uint16(etherType))
	return &EthernetLayer{base: newDetached(Ethernet, data)}
}

func parseEthernet(buf *rawbuf.Buffer, offset int) (*EthernetLayer, error) {
	if buf.Len()-offset < EthernetHeaderLen {
		return nil, fmt.Errorf("layer: Ethernet header needs %d bytes, have %d", EthernetHeaderLen, buf.Len()-offset)
	}
	return &EthernetLayer{base: newParsed(Ethernet, buf, offset, EthernetHeaderLen)}, nil
}

// ParseEthernet parses the Ethernet header at the start of buf. It is the
// entry point a Packet uses to begin parsing a raw captured frame:
// Ethernet is always the first layer instantiated by policy.
func ParseEthernet(buf *rawbuf.Buffer) (Layer, error) {
	return parseEthernet(buf, 0)
}

// Destination returns the destination MAC address.
func (e *EthernetLayer) Destination() addr.MAC {
	var m addr.MAC
	copy(m[:], e.Bytes()[0:6])
	return m
}

// SetDestination overwrites the destination MAC address.
func (e *EthernetLayer) SetDestination(m addr.MAC) {
	copy(e.Bytes()[0:6], m[:])
}

// Source returns the source MAC address.
func (e *EthernetLayer) Source() addr.MAC {
	var m addr.MAC
	copy(m[:], e.Bytes()[6:12])
	return m
}

// SetSource overwrites the source MAC address.
func (e *EthernetLayer) SetSource(m addr.MAC) {
	copy(e.Bytes()[6:12], m[:])
}

// EtherType returns the next-protocol selector.
func (e *EthernetLayer) EtherType() EtherType {
	return EtherType(binary.BigEndian.Uint16(e.Bytes()[12:14]))
}

// SetEtherType overwrites the next-protocol selector.
func (e *EthernetLayer) SetEtherType(t EtherType) {
	binary.BigEndian.PutUint16(e.Bytes()[12:14], uint16(t))
}

// ParseNextLayer dispatches on EtherType, falling back to an opaque
// Payload layer for anything unrecognized or for a next header too short
// to parse. It returns nil when no bytes follow this header.
func (e *EthernetLayer) ParseNextLayer() (Layer, error) {
	return parseByEtherType(e.EtherType(), e.buf, e.offset+e.localLen, e.logger)
}

// ComputeCalculateFields sets EtherType from the actual next layer's
// protocol tag when that tag maps to a known EtherType; an unrecognized
// or absent next layer leaves the field as already set, so an Ethernet
// layer directly precedes an opaque Payload layer keeps the caller's
// explicit EtherType rather than having it overwritten.
func (e *EthernetLayer) ComputeCalculateFields() error {
	if t, ok := etherTypeFor(e.Next()); ok {
		e.SetEtherType(t)
	}
	return nil
}

func etherTypeFor(next Layer) (EtherType, bool) {
	if next == nil {
		return 0, false
	}
	switch next.Protocol() {
	case IPv4:
		return EtherTypeIPv4, true
	case IPv6:
		return EtherTypeIPv6, true
	case ARP:
		return EtherTypeARP, true
	case VLAN:
		return EtherTypeVLAN, true
	default:
		return 0, false
	}
}

// parseByEtherType is shared by EthernetLayer and VLANLayer, which apply
// the identical next-layer policy.
func parseByEtherType(et EtherType, buf *rawbuf.Buffer, offset int, logger plog.Logger) (Layer, error) {
	remaining := buf.Len() - offset
	if remaining <= 0 {
		return nil, nil
	}

	switch et {
	case EtherTypeIPv4:
		l, err := parseIPv4(buf, offset)
		if err == nil {
			return l, nil
		}
		logger.Debugf("layer: truncated IPv4 after EtherType 0x0800: %v", err)
	case EtherTypeIPv6:
		l, err := parseIPv6(buf, offset)
		if err == nil {
			return l, nil
		}
		logger.Debugf("layer: truncated IPv6 after EtherType 0x86dd: %v", err)
	case EtherTypeARP:
		l, err := parseARP(buf, offset)
		if err == nil {
			return l, nil
		}
		logger.Debugf("layer: truncated ARP after EtherType 0x0806: %v", err)
	case EtherTypeVLAN:
		l, err := parseVLAN(buf, offset)
		if err == nil {
			return l, nil
		}
		logger.Debugf("layer: truncated VLAN after EtherType 0x8100: %v", err)
	}

	return newPayload(buf, offset, remaining), nil
}

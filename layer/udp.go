package layer

import (
	"encoding/binary"
	"fmt"

	"github.com/therealutkarshpriyadarshi/packetlayer/rawbuf"
)

// UDPHeaderLen is the fixed size of a UDP header.
const UDPHeaderLen = 8

// UDPLayer is an 8-byte UDP header.
type UDPLayer struct {
	base
}

// NewUDP builds a detached UDP layer. Length and checksum are left at
// zero; ComputeCalculateFields fills them in once attached.
func NewUDP(srcPort, dstPort uint16) *UDPLayer {
	data := make([]byte, UDPHeaderLen)
	binary.BigEndian.PutUint16(data[0:2], srcPort)
	binary.BigEndian.PutUint16(data[2:4], dstPort)
	return &UDPLayer{base: newDetached(UDP, data)}
}

func parseUDP(buf *rawbuf.Buffer, offset int) (*UDPLayer, error) {
	if buf.Len()-offset < UDPHeaderLen {
		return nil, fmt.Errorf("layer: UDP header needs %d bytes, have %d", UDPHeaderLen, buf.Len()-offset)
	}
	return &UDPLayer{base: newParsed(UDP, buf, offset, UDPHeaderLen)}, nil
}

// SourcePort returns the source port.
func (u *UDPLayer) SourcePort() uint16 { return binary.BigEndian.Uint16(u.Bytes()[0:2]) }

// SetSourcePort overwrites the source port.
func (u *UDPLayer) SetSourcePort(p uint16) { binary.BigEndian.PutUint16(u.Bytes()[0:2], p) }

// DestinationPort returns the destination port.
func (u *UDPLayer) DestinationPort() uint16 { return binary.BigEndian.Uint16(u.Bytes()[2:4]) }

// SetDestinationPort overwrites the destination port.
func (u *UDPLayer) SetDestinationPort(p uint16) { binary.BigEndian.PutUint16(u.Bytes()[2:4], p) }

// Length returns the length field (header + data).
func (u *UDPLayer) Length() uint16 { return binary.BigEndian.Uint16(u.Bytes()[4:6]) }

// Checksum returns the checksum field.
func (u *UDPLayer) Checksum() uint16 { return binary.BigEndian.Uint16(u.Bytes()[6:8]) }

// ParseNextLayer always yields a Payload over any residual bytes.
func (u *UDPLayer) ParseNextLayer() (Layer, error) {
	next := u.offset + u.localLen
	remaining := u.buf.Len() - next
	if remaining <= 0 {
		return nil, nil
	}
	return newPayload(u.buf, next, remaining), nil
}

// ComputeCalculateFields sets the length field from the attached chain and
// recomputes the checksum against the preceding IPv4/IPv6 pseudo-header.
// A zero result over an IPv4 pseudo-header is transmitted as 0xFFFF, per
// RFC 768.
func (u *UDPLayer) ComputeCalculateFields() error {
	b := u.Bytes()
	segLen := u.DataLen()
	binary.BigEndian.PutUint16(b[4:6], uint16(segLen))
	b[6], b[7] = 0, 0

	segment := u.buf.Slice(u.offset, segLen)
	sum := transportChecksum(u.Prev(), IPProtoUDP, segment)
	if sum == 0 {
		if _, isV4 := u.Prev().(*IPv4Layer); isV4 {
			sum = 0xFFFF
		}
	}
	binary.BigEndian.PutUint16(b[6:8], sum)
	return nil
}

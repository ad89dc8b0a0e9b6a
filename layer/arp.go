package layer

import (
	"encoding/binary"
	"fmt"

	"github.com/therealutkarshpriyadarshi/packetlayer/addr"
	"github.com/therealutkarshpriyadarshi/packetlayer/rawbuf"
)

// ARPHeaderLen is the fixed size of an ARP packet for Ethernet/IPv4.
const ARPHeaderLen = 28

// ARPOperation is the ARP opcode.
type ARPOperation uint16

const (
	ARPRequest ARPOperation = 1
	ARPReply   ARPOperation = 2
)

func (op ARPOperation) String() string {
	switch op {
	case ARPRequest:
		return "Request"
	case ARPReply:
		return "Reply"
	default:
		return fmt.Sprintf("Unknown(%d)", uint16(op))
	}
}

// arpHardwareEthernet and arpProtocolIPv4 are the only hardware/protocol
// type combination this codec supports: Ethernet over IPv4.
const (
	arpHardwareEthernet = 1
	arpProtocolIPv4     = uint16(EtherTypeIPv4)
)

// ARPLayer is a 28-byte ARP packet for Ethernet/IPv4: no next layer ever
// follows it.
type ARPLayer struct {
	base
}

// NewARPRequest builds a detached ARP request: "who has targetIP? tell
// senderIP".
func NewARPRequest(senderMAC addr.MAC, senderIP, targetIP addr.IPv4) *ARPLayer {
	return newARP(ARPRequest, senderMAC, senderIP, addr.MAC{}, targetIP)
}

// NewARPReply builds a detached ARP reply: "targetIP is at targetMAC".
func NewARPReply(senderMAC addr.MAC, senderIP addr.IPv4, targetMAC addr.MAC, targetIP addr.IPv4) *ARPLayer {
	return newARP(ARPReply, senderMAC, senderIP, targetMAC, targetIP)
}

func newARP(op ARPOperation, senderMAC addr.MAC, senderIP addr.IPv4, targetMAC addr.MAC, targetIP addr.IPv4) *ARPLayer {
	data := make([]byte, ARPHeaderLen)
	binary.BigEndian.PutUint16(data[0:2], arpHardwareEthernet)
	binary.BigEndian.PutUint16(data[2:4], arpProtocolIPv4)
	data[4] = 6
	data[5] = 4
	binary.BigEndian.PutUint16(data[6:8], uint16(op))
	copy(data[8:14], senderMAC[:])
	copy(data[14:18], senderIP[:])
	copy(data[18:24], targetMAC[:])
	copy(data[24:28], targetIP[:])
	return &ARPLayer{base: newDetached(ARP, data)}
}

func parseARP(buf *rawbuf.Buffer, offset int) (*ARPLayer, error) {
	if buf.Len()-offset < ARPHeaderLen {
		return nil, fmt.Errorf("layer: ARP header needs %d bytes, have %d", ARPHeaderLen, buf.Len()-offset)
	}
	return &ARPLayer{base: newParsed(ARP, buf, offset, ARPHeaderLen)}, nil
}

func (a *ARPLayer) HardwareType() uint16 { return binary.BigEndian.Uint16(a.Bytes()[0:2]) }
func (a *ARPLayer) ProtocolType() uint16 { return binary.BigEndian.Uint16(a.Bytes()[2:4]) }
func (a *ARPLayer) HardwareSize() uint8  { return a.Bytes()[4] }
func (a *ARPLayer) ProtocolSize() uint8  { return a.Bytes()[5] }

// Operation returns the ARP opcode.
func (a *ARPLayer) Operation() ARPOperation {
	return ARPOperation(binary.BigEndian.Uint16(a.Bytes()[6:8]))
}

// SenderMAC returns the sender hardware address.
func (a *ARPLayer) SenderMAC() addr.MAC {
	var m addr.MAC
	copy(m[:], a.Bytes()[8:14])
	return m
}

// SenderIP returns the sender protocol address.
func (a *ARPLayer) SenderIP() addr.IPv4 {
	var ip addr.IPv4
	copy(ip[:], a.Bytes()[14:18])
	return ip
}

// TargetMAC returns the target hardware address.
func (a *ARPLayer) TargetMAC() addr.MAC {
	var m addr.MAC
	copy(m[:], a.Bytes()[18:24])
	return m
}

// SetTargetMAC overwrites the target hardware address.
func (a *ARPLayer) SetTargetMAC(m addr.MAC) {
	copy(a.Bytes()[18:24], m[:])
}

// TargetIP returns the target protocol address.
func (a *ARPLayer) TargetIP() addr.IPv4 {
	var ip addr.IPv4
	copy(ip[:], a.Bytes()[24:28])
	return ip
}

// ParseNextLayer always returns nil: ARP never has a next layer.
func (a *ARPLayer) ParseNextLayer() (Layer, error) {
	return nil, nil
}

// ComputeCalculateFields sets the hardware/protocol type and length
// fields to their only supported values and, for a
// request, zeroes the target MAC — the convention for "who has
// targetIP", where the target's hardware address is by definition
// unknown to the sender.
func (a *ARPLayer) ComputeCalculateFields() error {
	b := a.Bytes()
	binary.BigEndian.PutUint16(b[0:2], arpHardwareEthernet)
	binary.BigEndian.PutUint16(b[2:4], arpProtocolIPv4)
	b[4] = 6
	b[5] = 4
	if a.Operation() == ARPRequest {
		a.SetTargetMAC(addr.MAC{})
	}
	return nil
}

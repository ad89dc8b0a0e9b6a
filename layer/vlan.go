package layer

import (
	"encoding/binary"
	"fmt"

	"github.com/therealutkarshpriyadarshi/packetlayer/rawbuf"
)

// VLANHeaderLen is the fixed size of an 802.1Q tag.
const VLANHeaderLen = 4

// VLANLayer is an 802.1Q tag: 3-bit priority, 1-bit CFI, 12-bit VLAN ID
// packed into one 16-bit field (the TCI), followed by the EtherType of
// whatever comes next. VLAN tags nest: a VLAN whose EtherType is itself
// 0x8100 is followed by another VLANLayer.
type VLANLayer struct {
	base
}

// NewVLAN builds a detached VLAN layer with the given priority (0-7) and
// VLAN ID (0-4095); CFI is always zero, matching Ethernet (not Token
// Ring) framing.
func NewVLAN(priority uint8, vlanID uint16, etherType EtherType) *VLANLayer {
	data := make([]byte, VLANHeaderLen)
	tci := (uint16(priority&0x7) << 13) | (vlanID & 0x0FFF)
	binary.BigEndian.PutUint16(data[0:2], tci)
	binary.BigEndian.PutUint16(data[2:4], uint16(etherType))
	return &VLANLayer{base: newDetached(VLAN, data)}
}

func parseVLAN(buf *rawbuf.Buffer, offset int) (*VLANLayer, error) {
	if buf.Len()-offset < VLANHeaderLen {
		return nil, fmt.Errorf("layer: VLAN header needs %d bytes, have %d", VLANHeaderLen, buf.Len()-offset)
	}
	return &VLANLayer{base: newParsed(VLAN, buf, offset, VLANHeaderLen)}, nil
}

func (v *VLANLayer) tci() uint16 {
	return binary.BigEndian.Uint16(v.Bytes()[0:2])
}

// Priority returns the 3-bit priority code point.
func (v *VLANLayer) Priority() uint8 {
	return uint8(v.tci() >> 13)
}

// CFI returns the canonical format indicator bit.
func (v *VLANLayer) CFI() bool {
	return v.tci()&0x1000 != 0
}

// VLANID returns the 12-bit VLAN identifier.
func (v *VLANLayer) VLANID() uint16 {
	return v.tci() & 0x0FFF
}

// SetVLANID overwrites the VLAN identifier, leaving priority and CFI
// untouched.
func (v *VLANLayer) SetVLANID(id uint16) {
	tci := (v.tci() &^ 0x0FFF) | (id & 0x0FFF)
	binary.BigEndian.PutUint16(v.Bytes()[0:2], tci)
}

// EtherType returns the encapsulated next-protocol selector.
func (v *VLANLayer) EtherType() EtherType {
	return EtherType(binary.BigEndian.Uint16(v.Bytes()[2:4]))
}

// SetEtherType overwrites the encapsulated next-protocol selector.
func (v *VLANLayer) SetEtherType(t EtherType) {
	binary.BigEndian.PutUint16(v.Bytes()[2:4], uint16(t))
}

// ParseNextLayer applies the same EtherType policy as Ethernet, including
// nested VLAN tags.
func (v *VLANLayer) ParseNextLayer() (Layer, error) {
	return parseByEtherType(v.EtherType(), v.buf, v.offset+v.localLen, v.logger)
}

// ComputeCalculateFields sets EtherType from the next layer's protocol
// tag when recognized, otherwise preserves the caller-set value — the
// same policy as EthernetLayer.
func (v *VLANLayer) ComputeCalculateFields() error {
	if t, ok := etherTypeFor(v.Next()); ok {
		v.SetEtherType(t)
	}
	return nil
}

package layer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/therealutkarshpriyadarshi/packetlayer/addr"
	"github.com/therealutkarshpriyadarshi/packetlayer/rawbuf"
)

func TestNewARPRequest(t *testing.T) {
	sender, _ := addr.ParseMAC("aa:aa:aa:aa:aa:aa")
	senderIP, _ := addr.ParseIPv4("10.0.0.1")
	targetIP, _ := addr.ParseIPv4("10.0.0.2")

	a := NewARPRequest(sender, senderIP, targetIP)

	assert.Equal(t, ARP, a.Protocol())
	assert.Equal(t, ARPHeaderLen, a.LocalLen())
	assert.Equal(t, ARPRequest, a.Operation())
	assert.Equal(t, uint16(1), a.HardwareType())
	assert.Equal(t, uint16(EtherTypeIPv4), a.ProtocolType())
	assert.Equal(t, uint8(6), a.HardwareSize())
	assert.Equal(t, uint8(4), a.ProtocolSize())
	assert.Equal(t, sender, a.SenderMAC())
	assert.Equal(t, senderIP, a.SenderIP())
	assert.Equal(t, addr.MAC{}, a.TargetMAC())
	assert.Equal(t, targetIP, a.TargetIP())
}

func TestNewARPReply(t *testing.T) {
	sender, _ := addr.ParseMAC("aa:aa:aa:aa:aa:aa")
	senderIP, _ := addr.ParseIPv4("10.0.0.1")
	target, _ := addr.ParseMAC("bb:bb:bb:bb:bb:bb")
	targetIP, _ := addr.ParseIPv4("10.0.0.2")

	a := NewARPReply(sender, senderIP, target, targetIP)

	assert.Equal(t, ARPReply, a.Operation())
	assert.Equal(t, target, a.TargetMAC())
}

func TestParseARP(t *testing.T) {
	sender, _ := addr.ParseMAC("aa:aa:aa:aa:aa:aa")
	senderIP, _ := addr.ParseIPv4("10.0.0.1")
	targetIP, _ := addr.ParseIPv4("10.0.0.2")
	built := NewARPRequest(sender, senderIP, targetIP)

	buf := rawbuf.FromBytes(append([]byte(nil), built.Bytes()...), rawbuf.Timestamp{})
	parsed, err := parseARP(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, ARPRequest, parsed.Operation())
	assert.Equal(t, sender, parsed.SenderMAC())
	assert.Equal(t, targetIP, parsed.TargetIP())
}

func TestParseARPTruncated(t *testing.T) {
	buf := rawbuf.FromBytes(make([]byte, ARPHeaderLen-1), rawbuf.Timestamp{})
	_, err := parseARP(buf, 0)
	assert.Error(t, err)
}

func TestARPParseNextLayerIsNil(t *testing.T) {
	sender, _ := addr.ParseMAC("aa:aa:aa:aa:aa:aa")
	senderIP, _ := addr.ParseIPv4("10.0.0.1")
	targetIP, _ := addr.ParseIPv4("10.0.0.2")
	a := NewARPRequest(sender, senderIP, targetIP)

	next, err := a.ParseNextLayer()
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestARPComputeCalculateFieldsZeroesTargetOnRequest(t *testing.T) {
	sender, _ := addr.ParseMAC("aa:aa:aa:aa:aa:aa")
	senderIP, _ := addr.ParseIPv4("10.0.0.1")
	target, _ := addr.ParseMAC("bb:bb:bb:bb:bb:bb")
	targetIP, _ := addr.ParseIPv4("10.0.0.2")

	a := NewARPRequest(sender, senderIP, targetIP)
	a.SetTargetMAC(target)
	require.NoError(t, a.ComputeCalculateFields())
	assert.Equal(t, addr.MAC{}, a.TargetMAC())
}

package layer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/therealutkarshpriyadarshi/packetlayer/addr"
	"github.com/therealutkarshpriyadarshi/packetlayer/rawbuf"
)

func TestNewUDPFields(t *testing.T) {
	u := NewUDP(63628, 1900)
	assert.Equal(t, uint16(63628), u.SourcePort())
	assert.Equal(t, uint16(1900), u.DestinationPort())
	assert.Equal(t, UDPHeaderLen, u.LocalLen())
}

func TestParseUDPTruncated(t *testing.T) {
	buf := rawbuf.FromBytes(make([]byte, UDPHeaderLen-1), rawbuf.Timestamp{})
	_, err := parseUDP(buf, 0)
	assert.Error(t, err)
}

func TestUDPChecksumOverIPv4ZeroBecomesAllOnes(t *testing.T) {
	src, _ := addr.ParseIPv4("0.0.0.0")
	dst, _ := addr.ParseIPv4("0.0.0.0")
	ip := NewIPv4(src, dst, 64, 0, 0, 0)
	// With zero addresses the pseudo-header contributes 0x0011+0x0008 and
	// the header's length field 0x0008; a source port of 0xFFDE brings the
	// one's-complement sum to 0xFFFF, so the computed checksum is zero.
	udp := NewUDP(0xFFDE, 0)

	ip.SetNext(udp)
	udp.SetPrev(ip)

	raw := append(append([]byte{}, ip.Bytes()...), udp.Bytes()...)
	buf := rawbuf.FromBytes(raw, rawbuf.Timestamp{})
	ip.Rebind(buf, 0)
	udp.Rebind(buf, ip.LocalLen())

	require.NoError(t, udp.ComputeCalculateFields())
	assert.Equal(t, uint16(0xFFFF), udp.Checksum())
}

func TestUDPParseNextLayerYieldsPayload(t *testing.T) {
	u := NewUDP(1, 2)
	payload := []byte{9, 9, 9}
	raw := append(append([]byte{}, u.Bytes()...), payload...)
	buf := rawbuf.FromBytes(raw, rawbuf.Timestamp{})
	parsed, err := parseUDP(buf, 0)
	require.NoError(t, err)

	next, err := parsed.ParseNextLayer()
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, Payload, next.Protocol())
	assert.Equal(t, payload, next.Bytes())
}

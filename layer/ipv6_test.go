package layer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/therealutkarshpriyadarshi/packetlayer/addr"
	"github.com/therealutkarshpriyadarshi/packetlayer/rawbuf"
)

func TestNewIPv6Fields(t *testing.T) {
	src, _ := addr.ParseIPv6("fe80::4dc7:f593:1f7b:dc11")
	dst, _ := addr.ParseIPv6("ff02::c")

	p := NewIPv6(src, dst, 255, 0, 0)

	assert.Equal(t, uint8(6), p.Version())
	assert.Equal(t, IPv6HeaderLen, p.LocalLen())
	assert.Equal(t, uint8(255), p.HopLimit())
	assert.Equal(t, src, p.Source())
	assert.Equal(t, dst, p.Destination())
}

func TestParseIPv6Truncated(t *testing.T) {
	buf := rawbuf.FromBytes(make([]byte, IPv6HeaderLen-1), rawbuf.Timestamp{})
	_, err := parseIPv6(buf, 0)
	assert.Error(t, err)
}

func TestIPv6ComputeCalculateFieldsSetsPayloadLengthAndNextHeader(t *testing.T) {
	src, _ := addr.ParseIPv6("fe80::4dc7:f593:1f7b:dc11")
	dst, _ := addr.ParseIPv6("ff02::c")
	ip := NewIPv6(src, dst, 1, 0, 0)
	udp := NewUDP(63628, 1900)
	payload := NewPayload(make([]byte, 146))

	ip.SetNext(udp)
	udp.SetPrev(ip)
	udp.SetNext(payload)
	payload.SetPrev(udp)

	raw := append(append(append([]byte{}, ip.Bytes()...), udp.Bytes()...), payload.Bytes()...)
	buf := rawbuf.FromBytes(raw, rawbuf.Timestamp{})
	ip.Rebind(buf, 0)
	udp.Rebind(buf, ip.LocalLen())
	payload.Rebind(buf, ip.LocalLen()+udp.LocalLen())

	require.NoError(t, udp.ComputeCalculateFields())
	require.NoError(t, ip.ComputeCalculateFields())

	assert.Equal(t, uint8(IPProtoUDP), ip.NextHeader())
	assert.Equal(t, uint16(UDPHeaderLen+146), ip.PayloadLength())
}

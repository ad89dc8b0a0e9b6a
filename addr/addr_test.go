package addr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMACString(t *testing.T) {
	mac := MAC{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}
	assert.Equal(t, "00:11:22:33:44:55", mac.String())
}

func TestMACBroadcastMulticast(t *testing.T) {
	assert.True(t, BroadcastMAC.IsBroadcast())
	assert.False(t, MAC{0, 1, 2, 3, 4, 5}.IsBroadcast())

	assert.True(t, MAC{0x01, 0x00, 0x5E, 0x00, 0x00, 0x01}.IsMulticast())
	assert.False(t, MAC{0x02, 0x00, 0x5E, 0x00, 0x00, 0x01}.IsMulticast())
}

func TestParseMAC(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    MAC
		wantErr bool
	}{
		{"valid lowercase", "aa:bb:cc:dd:ee:ff", MAC{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}, false},
		{"valid uppercase", "AA:BB:CC:DD:EE:FF", MAC{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}, false},
		{"broadcast", "ff:ff:ff:ff:ff:ff", BroadcastMAC, false},
		{"garbage", "not-a-mac", MAC{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMAC(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMACRoundTrip(t *testing.T) {
	mac, err := ParseMAC("30:46:9a:23:fb:fa")
	require.NoError(t, err)
	assert.Equal(t, "30:46:9a:23:fb:fa", mac.String())
}

func TestIPv4StringAndConversions(t *testing.T) {
	ip := IPv4{192, 168, 1, 1}
	assert.Equal(t, "192.168.1.1", ip.String())
	assert.Equal(t, uint32(0xC0A80101), ip.ToUint32())
	assert.Equal(t, uint32(0xC0A80101), ip.ToInt())
}

func TestParseIPv4(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    IPv4
		wantErr bool
	}{
		{"dotted quad", "212.199.202.9", IPv4{212, 199, 202, 9}, false},
		{"localhost", "127.0.0.1", IPv4{127, 0, 0, 1}, false},
		{"garbage", "not-an-ip", IPv4{}, true},
		{"v6 rejected", "::1", IPv4{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIPv4(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIPv4FromUint32RoundTrip(t *testing.T) {
	original := IPv4{10, 0, 0, 6}
	got := IPv4FromUint32(original.ToUint32())
	assert.Equal(t, original, got)
}

func TestParseIPv6(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"link local compressed", "fe80::4dc7:f593:1f7b:dc11", false},
		{"multicast compressed", "ff02::c", false},
		{"v4 rejected", "10.0.0.1", true},
		{"garbage", "not-an-ip", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ip, err := ParseIPv6(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, ip.String())
		})
	}
}

func TestIPv6CopyTo(t *testing.T) {
	ip, err := ParseIPv6("ff02::c")
	require.NoError(t, err)

	buf := make([]byte, 16)
	ip.CopyTo(buf)
	assert.Equal(t, ip[:], buf)
}

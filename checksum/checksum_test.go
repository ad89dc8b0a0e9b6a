package checksum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOf(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected uint16
	}{
		{"empty data", []byte{}, 0xFFFF},
		{"single byte", []byte{0x12}, 0xEDFF},
		{"two bytes", []byte{0x12, 0x34}, 0xEDCB},
		{
			// RFC 1071 worked example.
			name:     "RFC 1071 example",
			data:     []byte{0x00, 0x01, 0xf2, 0x03, 0xf4, 0xf5, 0xf6, 0xf7},
			expected: 0x220d,
		},
		{"all zeros", []byte{0x00, 0x00, 0x00, 0x00}, 0xFFFF},
		{"all ones", []byte{0xFF, 0xFF, 0xFF, 0xFF}, 0x0000},
		{"odd length", []byte{0x12, 0x34, 0x56}, 0x97CB},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Of(tt.data))
		})
	}
}

func TestInternetMatchesConcatenation(t *testing.T) {
	// Splitting one buffer into any combination of regions must produce the
	// same checksum as summing it as a single region, including splits
	// that land on an odd byte boundary.
	whole := []byte{0x45, 0x00, 0x00, 0x3c, 0x1c, 0x46, 0x40, 0x00, 0x40, 0x06}

	want := Of(whole)

	got := Internet(Region(whole[:3]), Region(whole[3:7]), Region(whole[7:]))
	assert.Equal(t, want, got)

	got2 := Internet(Region(whole[:1]), Region(whole[1:2]), Region(whole[2:]))
	assert.Equal(t, want, got2)
}

func TestInternetEmptyScatter(t *testing.T) {
	assert.Equal(t, uint16(0xFFFF), Internet())
}

func TestVerify(t *testing.T) {
	data := []byte{0x45, 0x00, 0x00, 0x14, 0x00, 0x00, 0x00, 0x00, 0x40, 0x06, 0, 0, 10, 0, 0, 1, 10, 0, 0, 2}
	sum := Of(data)
	// Write the checksum back into its own field and verify it folds to zero.
	withChecksum := append([]byte{}, data...)
	withChecksum[10] = byte(sum >> 8)
	withChecksum[11] = byte(sum)
	assert.True(t, Verify(withChecksum))
}

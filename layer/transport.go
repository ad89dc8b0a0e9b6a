package layer

import (
	"encoding/binary"

	"github.com/therealutkarshpriyadarshi/packetlayer/checksum"
)

// transportChecksum computes the Internet checksum for a UDP or TCP
// segment (header, with checksum field already zeroed, plus all bytes
// that follow it) against the pseudo-header contributed by the preceding
// IPv4 or IPv6 layer. prev must be an *IPv4Layer or *IPv6Layer; any other
// preceding layer (or none) yields a checksum computed over segment
// alone, which the caller may choose to ignore.
func transportChecksum(prev Layer, protocol uint8, segment []byte) uint16 {
	switch p := prev.(type) {
	case *IPv4Layer:
		var pseudo [12]byte
		src := p.Source()
		dst := p.Destination()
		copy(pseudo[0:4], src[:])
		copy(pseudo[4:8], dst[:])
		pseudo[8] = 0
		pseudo[9] = protocol
		binary.BigEndian.PutUint16(pseudo[10:12], uint16(len(segment)))
		return checksum.Internet(checksum.Region(pseudo[:]), checksum.Region(segment))
	case *IPv6Layer:
		// 36-byte pseudo-header: source(16) + destination(16) + length
		// masked to the low 16 bits(2) + zero(1) + next-header(1).
		var pseudo [36]byte
		src := p.Source()
		dst := p.Destination()
		src.CopyTo(pseudo[0:16])
		dst.CopyTo(pseudo[16:32])
		binary.BigEndian.PutUint16(pseudo[32:34], uint16(len(segment)))
		pseudo[34] = 0
		pseudo[35] = protocol
		return checksum.Internet(checksum.Region(pseudo[:]), checksum.Region(segment))
	default:
		return checksum.Internet(checksum.Region(segment))
	}
}

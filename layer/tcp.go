package layer

import (
	"encoding/binary"
	"fmt"

	"github.com/therealutkarshpriyadarshi/packetlayer/rawbuf"
)

// TCPBaseHeaderLen is the fixed portion of a TCP header, before options.
const TCPBaseHeaderLen = 20

// TCP option kinds recognized by this codec.
const (
	TCPOptEnd       = 0
	TCPOptNOP       = 1
	TCPOptMSS       = 2
	TCPOptWindow    = 3
	TCPOptSACKPerm  = 4
	TCPOptTimestamp = 8
)

// TCPFlag is one bit of the 9-bit TCP control-flags field.
type TCPFlag uint16

const (
	FlagFIN TCPFlag = 1 << iota
	FlagSYN
	FlagRST
	FlagPSH
	FlagACK
	FlagURG
	FlagECE
	FlagCWR
	FlagNS
)

// TCPOption is a single TCP option to pass to NewTCP: Kind plus any
// value bytes the kind requires, built by the With* constructors below
// rather than assembled by hand.
type TCPOption struct {
	Kind  byte
	Value []byte
}

// WithMSS builds a 4-byte maximum-segment-size option.
func WithMSS(mss uint16) TCPOption {
	v := make([]byte, 2)
	binary.BigEndian.PutUint16(v, mss)
	return TCPOption{Kind: TCPOptMSS, Value: v}
}

// WithWindowScale builds a 3-byte window-scale option.
func WithWindowScale(shift uint8) TCPOption {
	return TCPOption{Kind: TCPOptWindow, Value: []byte{shift}}
}

// WithSACKPermitted builds a 2-byte SACK-permitted option.
func WithSACKPermitted() TCPOption {
	return TCPOption{Kind: TCPOptSACKPerm, Value: nil}
}

// WithTimestamp builds a 10-byte timestamp option (value, echo-reply).
func WithTimestamp(value, echo uint32) TCPOption {
	v := make([]byte, 8)
	binary.BigEndian.PutUint32(v[0:4], value)
	binary.BigEndian.PutUint32(v[4:8], echo)
	return TCPOption{Kind: TCPOptTimestamp, Value: v}
}

// WithNOP builds a single no-operation padding byte.
func WithNOP() TCPOption {
	return TCPOption{Kind: TCPOptNOP}
}

func (o TCPOption) encodedLen() int {
	switch o.Kind {
	case TCPOptEnd, TCPOptNOP:
		return 1
	default:
		return 2 + len(o.Value)
	}
}

// TCPLayer is a TCP header: the 20-byte base fields plus zero or more
// options padded to a 4-byte boundary.
type TCPLayer struct {
	base
}

// NewTCP builds a detached TCP layer from the base fields and a variadic
// list of options; the codec reserves the correct byte counts, populates
// kind/length, pads to a 4-byte boundary with NOPs, and sets the data
// offset accordingly.
func NewTCP(srcPort, dstPort uint16, seq, ack uint32, flags TCPFlag, window uint16, opts ...TCPOption) *TCPLayer {
	optLen := 0
	for _, o := range opts {
		optLen += o.encodedLen()
	}
	padded := (optLen + 3) &^ 3

	data := make([]byte, TCPBaseHeaderLen+padded)
	binary.BigEndian.PutUint16(data[0:2], srcPort)
	binary.BigEndian.PutUint16(data[2:4], dstPort)
	binary.BigEndian.PutUint32(data[4:8], seq)
	binary.BigEndian.PutUint32(data[8:12], ack)
	binary.BigEndian.PutUint16(data[12:14], (uint16((TCPBaseHeaderLen+padded)/4)<<12)|uint16(flags))
	binary.BigEndian.PutUint16(data[14:16], window)

	pos := TCPBaseHeaderLen
	for _, o := range opts {
		switch o.Kind {
		case TCPOptEnd, TCPOptNOP:
			data[pos] = o.Kind
			pos++
		default:
			data[pos] = o.Kind
			data[pos+1] = byte(2 + len(o.Value))
			copy(data[pos+2:], o.Value)
			pos += o.encodedLen()
		}
	}
	for pos < len(data) {
		data[pos] = TCPOptNOP
		pos++
	}

	return &TCPLayer{base: newDetached(TCP, data)}
}

func parseTCP(buf *rawbuf.Buffer, offset int) (*TCPLayer, error) {
	if buf.Len()-offset < TCPBaseHeaderLen {
		return nil, fmt.Errorf("layer: TCP header needs %d bytes, have %d", TCPBaseHeaderLen, buf.Len()-offset)
	}
	dataOffsetWords := buf.At(offset+12) >> 4
	headerLen := int(dataOffsetWords) * 4
	if headerLen < TCPBaseHeaderLen {
		return nil, fmt.Errorf("layer: TCP data offset %d below minimum header length", headerLen)
	}
	if buf.Len()-offset < headerLen {
		return nil, fmt.Errorf("layer: TCP header claims %d bytes, have %d", headerLen, buf.Len()-offset)
	}
	return &TCPLayer{base: newParsed(TCP, buf, offset, headerLen)}, nil
}

// SourcePort returns the source port.
func (t *TCPLayer) SourcePort() uint16 { return binary.BigEndian.Uint16(t.Bytes()[0:2]) }

// DestinationPort returns the destination port.
func (t *TCPLayer) DestinationPort() uint16 { return binary.BigEndian.Uint16(t.Bytes()[2:4]) }

// Sequence returns the sequence number.
func (t *TCPLayer) Sequence() uint32 { return binary.BigEndian.Uint32(t.Bytes()[4:8]) }

// Ack returns the acknowledgment number.
func (t *TCPLayer) Ack() uint32 { return binary.BigEndian.Uint32(t.Bytes()[8:12]) }

// DataOffset returns the header length in 32-bit words.
func (t *TCPLayer) DataOffset() uint8 { return t.Bytes()[12] >> 4 }

func (t *TCPLayer) offsetFlagsWord() uint16 { return binary.BigEndian.Uint16(t.Bytes()[12:14]) }

// Flags returns the 9-bit control-flags field.
func (t *TCPLayer) Flags() TCPFlag { return TCPFlag(t.offsetFlagsWord() & 0x01FF) }

// HasFlag reports whether f is set.
func (t *TCPLayer) HasFlag(f TCPFlag) bool { return t.Flags()&f != 0 }

// Window returns the window field.
func (t *TCPLayer) Window() uint16 { return binary.BigEndian.Uint16(t.Bytes()[14:16]) }

// Checksum returns the checksum field.
func (t *TCPLayer) Checksum() uint16 { return binary.BigEndian.Uint16(t.Bytes()[16:18]) }

// UrgentPointer returns the urgent-pointer field.
func (t *TCPLayer) UrgentPointer() uint16 { return binary.BigEndian.Uint16(t.Bytes()[18:20]) }

// OptionBytes returns the raw option bytes following the base header.
func (t *TCPLayer) OptionBytes() []byte { return t.Bytes()[TCPBaseHeaderLen:] }

// ParsedOption is one decoded TCP option: Kind, total on-wire Length
// (including the kind/length bytes themselves for TLV kinds), and Data
// aliasing the value bytes within the owning buffer.
type ParsedOption struct {
	Kind   byte
	Length int
	Data   []byte
}

// OptionCount returns the number of options this header carries,
// tolerating a malformed trailing option by stopping there.
func (t *TCPLayer) OptionCount() int {
	return len(t.parseOptions())
}

// OptionByKind returns the first option matching kind, and whether one was
// found.
func (t *TCPLayer) OptionByKind(kind byte) (ParsedOption, bool) {
	for _, o := range t.parseOptions() {
		if o.Kind == kind {
			return o, true
		}
	}
	return ParsedOption{}, false
}

func (t *TCPLayer) parseOptions() []ParsedOption {
	raw := t.OptionBytes()
	var opts []ParsedOption
	i := 0
	for i < len(raw) {
		kind := raw[i]
		if kind == TCPOptEnd {
			break
		}
		if kind == TCPOptNOP {
			i++
			continue
		}
		if i+1 >= len(raw) {
			t.logger.Debugf("layer: TCP option kind %d missing length byte", kind)
			break
		}
		length := int(raw[i+1])
		if length < 2 || i+length > len(raw) {
			t.logger.Debugf("layer: TCP option kind %d has inconsistent length %d", kind, length)
			break
		}
		opts = append(opts, ParsedOption{Kind: kind, Length: length, Data: raw[i+2 : i+length]})
		i += length
	}
	return opts
}

// ParseNextLayer yields a Payload over any residual bytes.
func (t *TCPLayer) ParseNextLayer() (Layer, error) {
	next := t.offset + t.localLen
	remaining := t.buf.Len() - next
	if remaining <= 0 {
		return nil, nil
	}
	return newPayload(t.buf, next, remaining), nil
}

// ComputeCalculateFields recomputes the checksum against the preceding
// IPv4/IPv6 pseudo-header, using protocol 6.
func (t *TCPLayer) ComputeCalculateFields() error {
	b := t.Bytes()
	b[16], b[17] = 0, 0

	segLen := t.DataLen()
	segment := t.buf.Slice(t.offset, segLen)
	sum := transportChecksum(t.Prev(), IPProtoTCP, segment)
	binary.BigEndian.PutUint16(b[16:18], sum)
	return nil
}

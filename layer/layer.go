// Package layer implements the layer abstraction shared by every protocol
// codec (Ethernet, VLAN, ARP, IPv4, IPv6, UDP, TCP, Payload) and the codecs
// themselves. A Layer is a view over a contiguous sub-range of a shared
// rawbuf.Buffer, not a parsed copy of its fields: every accessor reads
// (and every setter writes) straight through the window, so a change made
// through one layer is immediately visible through the raw buffer and vice
// versa. This lets several protocol headers coexist as live, mutable
// views over one buffer rather than each owning an independent byte
// slice.
package layer

import (
	"github.com/therealutkarshpriyadarshi/packetlayer/plog"
	"github.com/therealutkarshpriyadarshi/packetlayer/rawbuf"
)

// Protocol tags the closed set of protocols this library understands.
type Protocol uint8

const (
	Unknown Protocol = iota
	Ethernet
	VLAN
	ARP
	IPv4
	IPv6
	TCP
	UDP
	Payload

	numProtocols
)

// String names the protocol tag, for logging and test failure messages.
func (p Protocol) String() string {
	switch p {
	case Ethernet:
		return "Ethernet"
	case VLAN:
		return "VLAN"
	case ARP:
		return "ARP"
	case IPv4:
		return "IPv4"
	case IPv6:
		return "IPv6"
	case TCP:
		return "TCP"
	case UDP:
		return "UDP"
	case Payload:
		return "Payload"
	default:
		return "Unknown"
	}
}

// Set is a bitset of protocol tags, giving the packet package's
// IsPacketOfType an O(1) lookup instead of a chain walk.
type Set uint16

// Has reports whether p is present in the set.
func (s Set) Has(p Protocol) bool {
	return s&(1<<p) != 0
}

// With returns a copy of s with p added.
func (s Set) With(p Protocol) Set {
	return s | (1 << p)
}

// Layer is the contract every protocol codec implements: a window into a
// shared buffer (or, before attachment, into a private byte slice) plus
// two virtual operations — discovering the next layer during parse, and
// recomputing this layer's length/checksum/next-protocol fields during
// finalization.
type Layer interface {
	// Protocol returns this layer's tag.
	Protocol() Protocol

	// LocalLen is the number of bytes this layer itself contributes:
	// header plus any fixed-format body such as TCP options. It does not
	// include any following layer.
	LocalLen() int

	// DataLen is LocalLen plus every following layer's LocalLen — the
	// number of in-buffer bytes from this layer's start to the end of
	// the chain.
	DataLen() int

	// Bytes returns this layer's LocalLen-byte window: into the owning
	// buffer once attached or parsed, into private storage while
	// detached. The returned slice aliases live storage; writes through
	// it are visible immediately and it is invalidated by the next
	// buffer mutation.
	Bytes() []byte

	Prev() Layer
	Next() Layer
	SetPrev(Layer)
	SetNext(Layer)

	// Owner identifies the Packet this layer is attached to, or nil if
	// it is still detached. Comparison is by identity (==).
	Owner() any
	SetOwner(any)

	// Offset is this layer's starting byte offset into the owning
	// buffer. Meaningless while detached.
	Offset() int
	SetOffset(int)

	// Rebind points this layer at buf starting at offset, discarding any
	// private detached storage — the transfer-of-ownership step.
	Rebind(buf *rawbuf.Buffer, offset int)

	// SetLogger installs the two-level logger used to report tolerated
	// parse problems (Truncated, MalformedOption) encountered by this
	// layer. Layers default to a discarding logger.
	SetLogger(plog.Logger)

	// ParseNextLayer inspects this layer's header fields and, if the
	// buffer holds more bytes after this layer and they identify a known
	// next protocol, returns the next layer parsed from the buffer; if
	// none can be identified but residual bytes remain, it returns a
	// Payload layer over them. It returns (nil, nil) when there is
	// nothing left to parse. It never returns a non-nil error for a
	// truncated header or an unrecognized protocol — those are logged
	// and tolerated.
	ParseNextLayer() (Layer, error)

	// ComputeCalculateFields recomputes any field this layer owns that
	// depends on the layers after it: lengths, checksums, next-protocol
	// selectors. Called tail-to-head by packet.Packet.ComputeCalculateFields.
	ComputeCalculateFields() error
}

// base is embedded by every concrete protocol codec and implements every
// Layer method that does not need protocol-specific knowledge.
type base struct {
	protocol Protocol
	localLen int

	buf    *rawbuf.Buffer
	offset int

	detached []byte

	owner      any
	prev, next Layer

	logger plog.Logger
}

func newDetached(protocol Protocol, data []byte) base {
	return base{protocol: protocol, localLen: len(data), detached: data, logger: plog.Discard()}
}

func newParsed(protocol Protocol, buf *rawbuf.Buffer, offset, localLen int) base {
	return base{protocol: protocol, localLen: localLen, buf: buf, offset: offset, logger: plog.Discard()}
}

func (b *base) Protocol() Protocol { return b.protocol }
func (b *base) LocalLen() int      { return b.localLen }

func (b *base) DataLen() int {
	n := b.localLen
	for l := b.next; l != nil; l = l.Next() {
		n += l.LocalLen()
	}
	return n
}

func (b *base) Bytes() []byte {
	if b.buf != nil {
		return b.buf.Slice(b.offset, b.localLen)
	}
	return b.detached
}

func (b *base) Prev() Layer      { return b.prev }
func (b *base) Next() Layer      { return b.next }
func (b *base) SetPrev(l Layer)  { b.prev = l }
func (b *base) SetNext(l Layer)  { b.next = l }
func (b *base) Owner() any       { return b.owner }
func (b *base) SetOwner(o any)   { b.owner = o }
func (b *base) Offset() int      { return b.offset }
func (b *base) SetOffset(o int)  { b.offset = o }

func (b *base) Rebind(buf *rawbuf.Buffer, offset int) {
	b.buf = buf
	b.offset = offset
	b.detached = nil
}

func (b *base) SetLogger(l plog.Logger) {
	if l == nil {
		l = plog.Discard()
	}
	b.logger = l
}

// residual returns the bytes in the owning buffer after this layer's
// window, or nil if this layer is detached or nothing follows it yet.
func (b *base) residual() []byte {
	if b.buf == nil {
		return nil
	}
	start := b.offset + b.localLen
	n := b.buf.Len() - start
	if n <= 0 {
		return nil
	}
	return b.buf.Slice(start, n)
}

// growLocalLen sets how many bytes of the buffer this layer's window
// covers. No codec in this package calls it: IPv4 and TCP take their
// header length, options included, from the IHL or data-offset field at
// parse time, or from the option list at construction.
func (b *base) growLocalLen(n int) {
	b.localLen = n
}

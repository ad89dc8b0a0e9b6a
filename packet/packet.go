// Package packet implements the Packet type: the owner of one raw buffer
// and the layer chain addressing into it, providing construction,
// structural mutation, lookup, and whole-chain finalization.
package packet

import (
	"errors"
	"fmt"

	"github.com/therealutkarshpriyadarshi/packetlayer/layer"
	"github.com/therealutkarshpriyadarshi/packetlayer/plog"
	"github.com/therealutkarshpriyadarshi/packetlayer/rawbuf"
)

// Sentinel errors. Use errors.Is to test for these; wrapped
// forms carry additional context.
var (
	// ErrOwnershipConflict is returned by AddLayer/InsertLayer when the
	// layer being attached already belongs to a Packet, or when
	// InsertLayer's "after" reference belongs to a different Packet.
	ErrOwnershipConflict = errors.New("packet: ownership conflict")

	// ErrNotFound is returned by RemoveLayer when the target layer is not
	// present in this Packet's chain. Lookups report a miss by returning nil.
	ErrNotFound = errors.New("packet: layer not found")
)

// Packet owns one raw buffer and the doubly-linked layer chain addressing
// into it.
type Packet struct {
	buf    *rawbuf.Buffer
	first  layer.Layer
	last   layer.Layer
	types  layer.Set
	logger plog.Logger
}

// New returns an empty Packet with a raw buffer reserving the given
// starting capacity.
func New(initialCapacity int) *Packet {
	return &Packet{buf: rawbuf.New(initialCapacity), logger: plog.Discard()}
}

// SetLogger installs the logger used to report tolerated parse problems
// (Truncated, MalformedOption) across every layer this Packet parses or
// attaches.
func (p *Packet) SetLogger(l plog.Logger) {
	if l == nil {
		l = plog.Discard()
	}
	p.logger = l
	for cur := p.first; cur != nil; cur = cur.Next() {
		cur.SetLogger(p.logger)
	}
}

// FromRaw takes ownership of raw and parses it by constructing an Ethernet
// layer and cascading ParseNextLayer until a layer declines to continue.
// Truncated or unrecognized headers end the chain with a Payload layer
// over the residual — this never fails on malformed input, only on a
// non-empty buffer too short to hold even the initial Ethernet header. An
// empty buffer yields an empty Packet with no layers.
func FromRaw(raw []byte, ts rawbuf.Timestamp) (*Packet, error) {
	p := &Packet{buf: rawbuf.FromBytes(raw, ts), logger: plog.Discard()}

	if p.buf.Len() == 0 {
		return p, nil
	}

	first, err := layer.ParseEthernet(p.buf)
	if err != nil {
		return nil, fmt.Errorf("packet: parse: %w", err)
	}
	p.attachParsedChain(first)
	return p, nil
}

// attachParsedChain walks a chain of already-parsed (buffer-bound) layers,
// setting owner/types and cascading ParseNextLayer to build the rest.
func (p *Packet) attachParsedChain(head layer.Layer) {
	p.first = head
	cur := head
	cur.SetOwner(p)
	cur.SetLogger(p.logger)
	p.types = p.types.With(cur.Protocol())

	for {
		next, err := cur.ParseNextLayer()
		if err != nil || next == nil {
			break
		}
		next.SetOwner(p)
		next.SetLogger(p.logger)
		next.SetPrev(cur)
		cur.SetNext(next)
		p.types = p.types.With(next.Protocol())
		cur = next
	}
	p.last = cur
}

// AddLayer appends l at the tail of the chain. Fails with
// ErrOwnershipConflict if l is already attached to a Packet.
func (p *Packet) AddLayer(l layer.Layer) error {
	if l.Owner() != nil {
		return fmt.Errorf("%w: layer already attached", ErrOwnershipConflict)
	}

	offset := p.buf.Len()
	p.buf.Append(l.Bytes())
	l.Rebind(p.buf, offset)
	l.SetOwner(p)
	l.SetLogger(p.logger)

	if p.last != nil {
		p.last.SetNext(l)
		l.SetPrev(p.last)
	} else {
		p.first = l
	}
	p.last = l
	p.types = p.types.With(l.Protocol())
	return nil
}

// InsertLayer inserts l directly after after; after == nil means "at head".
// Fails with ErrOwnershipConflict if l is already attached, or if after is
// non-nil and owned by a different Packet.
func (p *Packet) InsertLayer(after layer.Layer, l layer.Layer) error {
	if l.Owner() != nil {
		return fmt.Errorf("%w: layer already attached", ErrOwnershipConflict)
	}
	if after != nil && after.Owner() != p {
		return fmt.Errorf("%w: insertion point belongs to a different packet", ErrOwnershipConflict)
	}

	offset := 0
	var oldNext layer.Layer
	if after != nil {
		offset = after.Offset() + after.LocalLen()
		oldNext = after.Next()
	} else if p.first != nil {
		oldNext = p.first
	}

	p.buf.Insert(offset, l.Bytes())
	l.Rebind(p.buf, offset)
	l.SetOwner(p)
	l.SetLogger(p.logger)

	l.SetPrev(after)
	l.SetNext(oldNext)
	if after != nil {
		after.SetNext(l)
	} else {
		p.first = l
	}
	if oldNext != nil {
		oldNext.SetPrev(l)
	} else {
		p.last = l
	}

	p.rebindFrom(l.Next(), l.Offset()+l.LocalLen())
	p.types = p.types.With(l.Protocol())
	return nil
}

// RemoveLayer unlinks target, removes its bytes from the raw buffer, and
// rebinds every following layer's window. Fails with ErrNotFound if target
// is not owned by this Packet.
func (p *Packet) RemoveLayer(target layer.Layer) error {
	if target == nil || target.Owner() != p {
		return fmt.Errorf("%w", ErrNotFound)
	}

	prev := target.Prev()
	next := target.Next()

	p.buf.Remove(target.Offset(), target.LocalLen())

	if prev != nil {
		prev.SetNext(next)
	} else {
		p.first = next
	}
	if next != nil {
		next.SetPrev(prev)
	} else {
		p.last = prev
	}

	target.SetOwner(nil)
	target.SetPrev(nil)
	target.SetNext(nil)

	startOffset := target.Offset()
	p.rebindFrom(next, startOffset)
	p.recomputeTypes()
	return nil
}

// rebindFrom walks from l to the tail, rebinding each layer's window to
// start at offset and advancing offset by each layer's LocalLen in turn —
// required after any structural mutation so every layer's window stays
// aligned with its actual position in the buffer.
func (p *Packet) rebindFrom(l layer.Layer, offset int) {
	for l != nil {
		l.Rebind(p.buf, offset)
		offset += l.LocalLen()
		l = l.Next()
	}
}

func (p *Packet) recomputeTypes() {
	var s layer.Set
	for l := p.first; l != nil; l = l.Next() {
		s = s.With(l.Protocol())
	}
	p.types = s
}

// FirstLayer returns the head of the chain, or nil if empty.
func (p *Packet) FirstLayer() layer.Layer { return p.first }

// LastLayer returns the tail of the chain, or nil if empty.
func (p *Packet) LastLayer() layer.Layer { return p.last }

// LayerOfType returns the first layer in the chain with the given
// protocol tag, or nil if none matches.
func (p *Packet) LayerOfType(tag layer.Protocol) layer.Layer {
	return p.NextLayerOfType(nil, tag)
}

// NextLayerOfType scans forward from (but not including) from — or from
// the head if from is nil — and returns the first layer matching tag, or
// nil.
func (p *Packet) NextLayerOfType(from layer.Layer, tag layer.Protocol) layer.Layer {
	start := p.first
	if from != nil {
		start = from.Next()
	}
	for l := start; l != nil; l = l.Next() {
		if l.Protocol() == tag {
			return l
		}
	}
	return nil
}

// IsPacketOfType reports whether any layer in the chain carries tag, via
// an O(1) bitset lookup maintained on every structural mutation.
func (p *Packet) IsPacketOfType(tag layer.Protocol) bool {
	return p.types.Has(tag)
}

// ComputeCalculateFields walks the chain from tail to head, invoking each
// layer's ComputeCalculateFields. The backward order ensures
// length-dependent fields and next-protocol selectors see already-
// finalized successors; a head-to-tail order would compute stale values.
func (p *Packet) ComputeCalculateFields() error {
	for l := p.last; l != nil; l = l.Prev() {
		if err := l.ComputeCalculateFields(); err != nil {
			return fmt.Errorf("packet: finalize %s layer: %w", l.Protocol(), err)
		}
	}
	return nil
}

// RawPacket returns the current byte image of the packet, for transmission
// or comparison. The returned slice aliases the Packet's internal buffer
// and is invalidated by any subsequent structural mutation.
func (p *Packet) RawPacket() []byte {
	return p.buf.Data()
}

// Timestamp returns the capture timestamp carried by the raw buffer.
func (p *Packet) Timestamp() rawbuf.Timestamp {
	return p.buf.Timestamp()
}

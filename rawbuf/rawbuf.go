// Package rawbuf implements the raw buffer that every layer window
// addresses into: a single contiguous, mutable, growable byte region plus
// a capture timestamp.
//
// Layers never hold a Go slice into this buffer across a mutation: a grow
// or shrink can reallocate the backing array, which would silently alias
// the old memory. Instead every layer stores byte offsets (see the layer
// package) and resolves them against the buffer at access time, avoiding
// an entire class of dangling-view bugs that raw pointer rebinding would
// otherwise require.
package rawbuf

// Timestamp is a capture timestamp with microsecond resolution, mirroring
// the (seconds, microseconds) pair carried by a captured frame.
type Timestamp struct {
	Sec  int64
	Usec int64
}

// Buffer owns one contiguous, growable byte region.
type Buffer struct {
	data []byte
	ts   Timestamp
}

// New returns an empty buffer with the given starting capacity reserved.
func New(capacity int) *Buffer {
	return &Buffer{data: make([]byte, 0, capacity)}
}

// FromBytes wraps an existing byte slice as a raw buffer, taking ownership
// of it — the caller must not retain or mutate the slice afterward.
func FromBytes(data []byte, ts Timestamp) *Buffer {
	return &Buffer{data: data, ts: ts}
}

// Data returns the buffer's current contents. The returned slice aliases
// the buffer's backing array and is invalidated by any subsequent mutating
// call (Append, Insert, Remove) — callers that need a stable copy for
// comparison or transmission should copy it immediately.
func (b *Buffer) Data() []byte {
	return b.data
}

// Len returns the current length of the buffer in bytes.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Timestamp returns the buffer's capture timestamp.
func (b *Buffer) Timestamp() Timestamp {
	return b.ts
}

// SetTimestamp overrides the buffer's capture timestamp.
func (b *Buffer) SetTimestamp(ts Timestamp) {
	b.ts = ts
}

// At returns the byte at offset.
func (b *Buffer) At(offset int) byte {
	return b.data[offset]
}

// Slice returns the region [offset, offset+length) of the buffer. Like
// Data, the result aliases the backing array and is invalidated by the
// next mutation.
func (b *Buffer) Slice(offset, length int) []byte {
	return b.data[offset : offset+length]
}

// Append grows the buffer by appending data to its tail.
func (b *Buffer) Append(data []byte) {
	b.data = append(b.data, data...)
}

// Insert grows the buffer by inserting data at offset, shifting everything
// from offset onward toward the tail. Any window addressing bytes at or
// after offset must be rebound by the caller (the packet package does
// this for every layer after an InsertLayer).
func (b *Buffer) Insert(offset int, data []byte) {
	if len(data) == 0 {
		return
	}
	grown := make([]byte, len(b.data)+len(data))
	copy(grown, b.data[:offset])
	copy(grown[offset:], data)
	copy(grown[offset+len(data):], b.data[offset:])
	b.data = grown
}

// Remove shrinks the buffer by deleting the k bytes starting at offset.
func (b *Buffer) Remove(offset, k int) {
	if k == 0 {
		return
	}
	b.data = append(b.data[:offset], b.data[offset+k:]...)
}

package layer

import "github.com/therealutkarshpriyadarshi/packetlayer/rawbuf"

// PayloadLayer is an opaque trailing byte range with no internal structure
// and no next layer.
type PayloadLayer struct {
	base
}

// NewPayload builds a detached Payload layer wrapping data. The slice is
// taken by reference and must not be mutated by the caller afterward.
func NewPayload(data []byte) *PayloadLayer {
	return &PayloadLayer{base: newDetached(Payload, data)}
}

func newPayload(buf *rawbuf.Buffer, offset, length int) *PayloadLayer {
	return &PayloadLayer{base: newParsed(Payload, buf, offset, length)}
}

// ParseNextLayer always returns nil: Payload is always the tail of a chain.
func (p *PayloadLayer) ParseNextLayer() (Layer, error) {
	return nil, nil
}

// ComputeCalculateFields is a no-op: Payload owns no derived fields.
func (p *PayloadLayer) ComputeCalculateFields() error {
	return nil
}

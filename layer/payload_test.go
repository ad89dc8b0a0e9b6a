package layer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPayload(t *testing.T) {
	p := NewPayload([]byte{1, 2, 3, 4})
	assert.Equal(t, Payload, p.Protocol())
	assert.Equal(t, 4, p.LocalLen())
	assert.Equal(t, []byte{1, 2, 3, 4}, p.Bytes())

	next, err := p.ParseNextLayer()
	require.NoError(t, err)
	assert.Nil(t, next)
	assert.NoError(t, p.ComputeCalculateFields())
}

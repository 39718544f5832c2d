package rope

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyRope(t *testing.T) {
	r := New()
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 0, r.NumChunks())
	flat, ok := r.TryFlat()
	assert.True(t, ok)
	assert.Empty(t, flat)
}

func TestAppendCopies(t *testing.T) {
	src := []byte("mutable")
	r := New()
	r.Append(src)
	src[0] = 'X'
	assert.Equal(t, "mutable", r.String())
}

func TestTryFlat(t *testing.T) {
	r := FromBytes([]byte("flat"))
	flat, ok := r.TryFlat()
	require.True(t, ok)
	assert.Equal(t, "flat", string(flat))

	r.Append([]byte("more"))
	_, ok = r.TryFlat()
	assert.False(t, ok)
	assert.Equal(t, "flatmore", string(r.Flatten()))
}

func TestChunkSharing(t *testing.T) {
	released := false
	data := bytes.Repeat([]byte("c"), 100)
	ch := NewChunkWithRelease(data, func([]byte) { released = true })

	a := New()
	a.AppendChunk(ch)
	b := New()
	b.AppendChunk(ch)
	ch.Unref() // drop the creating reference

	assert.Equal(t, a.String(), b.String())
	a.Release()
	assert.False(t, released)
	b.Release()
	assert.True(t, released)
}

func TestEmptyChunkIgnored(t *testing.T) {
	r := New()
	r.Append(nil)
	ch := NewChunk(nil)
	r.AppendChunk(ch)
	assert.Equal(t, 0, r.NumChunks())
}

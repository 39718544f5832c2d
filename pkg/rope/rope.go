// Package rope provides a reference-counted rope of flat byte fragments.
//
// A Rope is the lightweight interchange structure used when byte payloads
// cross package boundaries without copying: each fragment (Chunk) carries
// its own reference count, so several ropes and chains can share the same
// underlying memory.
package rope

import "sync/atomic"

// Chunk is a flat, reference-counted byte fragment.
type Chunk struct {
	refs    atomic.Int64
	data    []byte
	release func([]byte)
}

// NewChunk creates a chunk owning data, with an initial reference count of 1.
func NewChunk(data []byte) *Chunk {
	c := &Chunk{data: data}
	c.refs.Store(1)
	return c
}

// NewChunkWithRelease creates a chunk whose release function is invoked when
// the last reference is dropped.
func NewChunkWithRelease(data []byte, release func([]byte)) *Chunk {
	c := &Chunk{data: data, release: release}
	c.refs.Store(1)
	return c
}

// Data returns the fragment bytes. The slice must not be mutated.
func (c *Chunk) Data() []byte { return c.data }

// Len returns the fragment length.
func (c *Chunk) Len() int { return len(c.data) }

// Ref acquires an additional reference and returns the chunk.
func (c *Chunk) Ref() *Chunk {
	c.refs.Add(1)
	return c
}

// Unref drops a reference, invoking the release function when the count
// reaches zero.
func (c *Chunk) Unref() {
	if c.refs.Add(-1) == 0 && c.release != nil {
		c.release(c.data)
	}
}

// Rope is an ordered sequence of chunks presenting one logical byte string.
type Rope struct {
	chunks []*Chunk
	size   int
}

// New returns an empty rope.
func New() *Rope {
	return &Rope{}
}

// FromBytes returns a single-chunk rope containing a copy of b.
func FromBytes(b []byte) *Rope {
	r := New()
	r.Append(b)
	return r
}

// Len returns the total number of bytes in the rope.
func (r *Rope) Len() int { return r.size }

// NumChunks returns the number of fragments.
func (r *Rope) NumChunks() int { return len(r.chunks) }

// ChunkAt returns the i-th fragment without acquiring a reference.
func (r *Rope) ChunkAt(i int) *Chunk { return r.chunks[i] }

// Append copies b into a new chunk at the end of the rope.
func (r *Rope) Append(b []byte) {
	if len(b) == 0 {
		return
	}
	data := make([]byte, len(b))
	copy(data, b)
	r.chunks = append(r.chunks, NewChunk(data))
	r.size += len(b)
}

// AppendChunk shares c at the end of the rope, acquiring a reference.
// Empty chunks are ignored.
func (r *Rope) AppendChunk(c *Chunk) {
	if c.Len() == 0 {
		return
	}
	r.chunks = append(r.chunks, c.Ref())
	r.size += c.Len()
}

// TryFlat returns the rope contents as a single contiguous slice when the
// rope consists of at most one chunk. The second result reports success.
func (r *Rope) TryFlat() ([]byte, bool) {
	switch len(r.chunks) {
	case 0:
		return nil, true
	case 1:
		return r.chunks[0].Data(), true
	default:
		return nil, false
	}
}

// Flatten copies the rope contents into a fresh contiguous slice.
func (r *Rope) Flatten() []byte {
	out := make([]byte, 0, r.size)
	for _, c := range r.chunks {
		out = append(out, c.Data()...)
	}
	return out
}

// String copies the rope contents into a string.
func (r *Rope) String() string { return string(r.Flatten()) }

// Release drops the rope's references to all chunks and empties it.
func (r *Rope) Release() {
	for _, c := range r.chunks {
		c.Unref()
	}
	r.chunks = nil
	r.size = 0
}

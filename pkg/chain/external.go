package chain

import (
	"fmt"

	"github.com/douzebis/riegeli/pkg/rope"
)

// External owns the bytes of an external block. The block views a sub-slice
// of Data; the payload keeps that memory alive until Release is called by
// the last block reference.
//
// Implementations may additionally implement fmt.Stringer to improve
// structure dumps, and Footprinter to report their memory usage.
type External interface {
	// Data returns the full payload bytes. The slice must stay valid and
	// immutable until Release.
	Data() []byte
	// Release is invoked exactly once, when the last block reference to the
	// payload is dropped.
	Release()
}

// Footprinter optionally reports the memory held by an external payload.
type Footprinter interface {
	Footprint() int
}

// ownedBytes is an external payload backed by an ordinary byte slice.
type ownedBytes struct {
	data []byte
}

func (o *ownedBytes) Data() []byte   { return o.data }
func (o *ownedBytes) Release()       {}
func (o *ownedBytes) Footprint() int { return len(o.data) }
func (o *ownedBytes) String() string {
	return fmt.Sprintf("owned bytes (%d)", len(o.data))
}

// blockSubstring keeps a donor block alive so that an external block can view
// a retained sub-range of it. Blocks citing other blocks is how RemovePrefix
// and RemoveSuffix share large residuals instead of copying them.
type blockSubstring struct {
	donor *block
}

func newBlockSubstring(donor *block) *blockSubstring {
	donor.Ref()
	return &blockSubstring{donor: donor}
}

func (s *blockSubstring) Data() []byte { return s.donor.data }
func (s *blockSubstring) Release()     { s.donor.Unref() }
func (s *blockSubstring) Footprint() int {
	return s.donor.footprint()
}
func (s *blockSubstring) String() string {
	return fmt.Sprintf("block substring (%d)", len(s.donor.data))
}

// chunkRef keeps a rope chunk alive while a block views its bytes.
type chunkRef struct {
	chunk *rope.Chunk
}

func newChunkRef(c *rope.Chunk) *chunkRef {
	return &chunkRef{chunk: c.Ref()}
}

func (r *chunkRef) Data() []byte   { return r.chunk.Data() }
func (r *chunkRef) Release()       { r.chunk.Unref() }
func (r *chunkRef) Footprint() int { return r.chunk.Len() }
func (r *chunkRef) String() string {
	return fmt.Sprintf("rope chunk (%d)", r.chunk.Len())
}

// zeroPageSize is the granularity of zero-filled chains.
const zeroPageSize = 64 << 10

// zeroPage is a singleton all-zero buffer viewed by every zero block.
var zeroPage = make([]byte, zeroPageSize)

type zeroRef struct{}

func (zeroRef) Data() []byte   { return zeroPage }
func (zeroRef) Release()       {}
func (zeroRef) Footprint() int { return 0 }
func (zeroRef) String() string { return "zero page" }

// NewZero returns a chain of n zero bytes. The blocks view a shared static
// buffer, so no payload memory is allocated regardless of n.
func NewZero(n int) *Chain {
	c := NewChain()
	for n > 0 {
		m := n
		if m > zeroPageSize {
			m = zeroPageSize
		}
		c.AppendExternal(zeroRef{}, zeroPage[:m])
		n -= m
	}
	return c
}

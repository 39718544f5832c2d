package chain

import (
	"bytes"
	"strings"

	"github.com/douzebis/riegeli/pkg/rope"
)

// Flatten collapses the chain into a single contiguous block and returns a
// read-only view of it. Chains of at most one block return their existing
// storage without copying.
func (c *Chain) Flatten() []byte {
	if !c.hasBlocks() {
		return c.shortData()
	}
	if c.nblocks() == 1 {
		return c.front().data
	}
	nb := newInternal(c.newBlockCapacity(0, c.size, c.size, Options{}))
	n := c.nblocks()
	for i := 0; i < n; i++ {
		nb.appendBytes(c.blockAt(i).data)
	}
	c.detachAllBlocks()
	c.pushBack(nb)
	return nb.data
}

func (c *Chain) detachAllBlocks() {
	n := c.nblocks()
	for i := 0; i < n; i++ {
		c.blockAt(i).Unref()
	}
	c.here[0], c.here[1] = nil, nil
	c.hereLen = 0
	c.slots = nil
	c.offsets = nil
	c.begin = 0
	c.end = 0
}

// Bytes returns a copy of the chain contents.
func (c *Chain) Bytes() []byte {
	out := make([]byte, 0, c.size)
	for i := 0; i < c.NumBlocks(); i++ {
		out = append(out, c.BlockBytes(i)...)
	}
	return out
}

// String returns a copy of the chain contents as a string.
func (c *Chain) String() string {
	var sb strings.Builder
	sb.Grow(c.size)
	for i := 0; i < c.NumBlocks(); i++ {
		sb.Write(c.BlockBytes(i))
	}
	return sb.String()
}

// ToRope converts the chain to a rope: small or wasteful blocks are copied,
// large compact blocks transfer shared ownership without copying.
func (c *Chain) ToRope() *rope.Rope {
	r := rope.New()
	if !c.hasBlocks() {
		r.Append(c.shortData())
		return r
	}
	n := c.nblocks()
	for i := 0; i < n; i++ {
		b := c.blockAt(i)
		if b.size() < DefaultMinBlockSize || b.wasteful(0) {
			r.Append(b.data)
			continue
		}
		b.Ref()
		ch := rope.NewChunkWithRelease(b.data, func([]byte) { b.Unref() })
		r.AppendChunk(ch)
		ch.Unref()
	}
	return r
}

// Compare orders two chains byte-wise, returning -1, 0 or 1.
func (c *Chain) Compare(d *Chain) int {
	var cb, db []byte
	ci, di := 0, 0
	for {
		for len(cb) == 0 && ci < c.NumBlocks() {
			cb = c.BlockBytes(ci)
			ci++
		}
		for len(db) == 0 && di < d.NumBlocks() {
			db = d.BlockBytes(di)
			di++
		}
		if len(cb) == 0 || len(db) == 0 {
			switch {
			case len(cb) == len(db):
				return 0
			case len(cb) == 0:
				return -1
			default:
				return 1
			}
		}
		n := minInt(len(cb), len(db))
		if r := bytes.Compare(cb[:n], db[:n]); r != 0 {
			return r
		}
		cb, db = cb[n:], db[n:]
	}
}

// Equal reports whether two chains hold the same bytes, regardless of block
// boundaries.
func (c *Chain) Equal(d *Chain) bool {
	return c.size == d.size && c.Compare(d) == 0
}

// EqualBytes reports whether the chain holds exactly the bytes of b.
func (c *Chain) EqualBytes(b []byte) bool {
	if c.size != len(b) {
		return false
	}
	for i := 0; i < c.NumBlocks(); i++ {
		view := c.BlockBytes(i)
		if !bytes.Equal(view, b[:len(view)]) {
			return false
		}
		b = b[len(view):]
	}
	return true
}

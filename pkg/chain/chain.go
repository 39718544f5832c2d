// Package chain implements a segmented byte buffer with cheap concatenation,
// slicing, prepending and zero-copy wrapping of externally-owned memory.
//
// A Chain is an ordered sequence of reference-counted blocks presenting one
// logical byte string. Very short contents live inline in the Chain itself;
// longer contents live in internal blocks (mutable while uniquely owned) or
// external blocks viewing memory owned by someone else. Appends and prepends
// merge tiny fragments and rewrite wasteful blocks so that byte-wise growth
// stays amortized constant-time and long chains do not degenerate into runs
// of small allocations.
package chain

import (
	"fmt"
	"io"
	"sort"

	"github.com/douzebis/riegeli/pkg/rope"
)

// MaxShortDataSize is the largest payload stored inline in the Chain object
// instead of in allocated blocks.
const MaxShortDataSize = 15

// Chain is a mutable byte string stored as a sequence of shared blocks.
//
// A Chain must not be copied by value after first use; use Clone, which
// shares the underlying blocks.
type Chain struct {
	size int

	// short holds the contents inline while no blocks are attached.
	short [MaxShortDataSize]byte

	// here holds up to two block pointers without a heap slot array.
	here    [2]*block
	hereLen int

	// slots/offsets are the heap slot array and its parallel table of
	// cumulative block offsets; the active window is [begin, end).
	// offsets[i] is the byte offset of slots[i]'s first byte in an
	// arbitrary coordinate system anchored at offsets[begin].
	slots   []*block
	offsets []int
	begin   int
	end     int
}

// NewChain returns an empty chain.
func NewChain() *Chain {
	return &Chain{}
}

// FromBytes returns a chain containing a copy of b.
func FromBytes(b []byte) *Chain {
	c := NewChain()
	c.Append(b)
	return c
}

// FromString returns a chain containing s.
func FromString(s string) *Chain {
	c := NewChain()
	c.AppendString(s)
	return c
}

// FromRope returns a chain sharing or copying the fragments of r per the
// bridging policy of AppendRope.
func FromRope(r *rope.Rope) *Chain {
	c := NewChain()
	c.AppendRope(r)
	return c
}

// Len returns the total number of bytes.
func (c *Chain) Len() int { return c.size }

// Empty reports whether the chain has no bytes.
func (c *Chain) Empty() bool { return c.size == 0 }

// Reset drops all contents, releasing block references.
func (c *Chain) Reset() {
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
	c.size = 0
}

// Clone returns a chain with the same contents, sharing blocks by reference.
func (c *Chain) Clone() *Chain {
	d := NewChain()
	d.size = c.size
	if !c.hasBlocks() {
		copy(d.short[:], c.shortData())
		return d
	}
	n := c.nblocks()
	for i := 0; i < n; i++ {
		d.pushBack(c.blockAt(i).Ref())
	}
	return d
}

// shortData returns the inline bytes. Valid only while no blocks are
// attached.
func (c *Chain) shortData() []byte { return c.short[:c.size] }

func (c *Chain) hasBlocks() bool { return c.nblocks() > 0 }

func (c *Chain) nblocks() int {
	if c.slots != nil {
		return c.end - c.begin
	}
	return c.hereLen
}

func (c *Chain) blockAt(i int) *block {
	if c.slots != nil {
		return c.slots[c.begin+i]
	}
	return c.here[i]
}

func (c *Chain) front() *block { return c.blockAt(0) }
func (c *Chain) back() *block  { return c.blockAt(c.nblocks() - 1) }

// setFront replaces the first block, refreshing its offset in place.
func (c *Chain) setFront(b *block) {
	if c.slots != nil {
		c.slots[c.begin] = b
		if c.end-c.begin > 1 {
			c.offsets[c.begin] = c.offsets[c.begin+1] - b.size()
		} else {
			c.offsets[c.begin] = 0
		}
		return
	}
	c.here[0] = b
}

// setBack replaces the last block. Its start offset does not move.
func (c *Chain) setBack(b *block) {
	if c.slots != nil {
		c.slots[c.end-1] = b
		return
	}
	c.here[c.hereLen-1] = b
}

// promote moves the two in-object slots into a heap slot array with a
// parallel offsets table.
func (c *Chain) promote() {
	const initialCap = 16
	c.slots = make([]*block, initialCap)
	c.offsets = make([]int, initialCap)
	c.begin = (initialCap - c.hereLen) / 2
	c.end = c.begin + c.hereLen
	off := 0
	for i := 0; i < c.hereLen; i++ {
		c.slots[c.begin+i] = c.here[i]
		c.offsets[c.begin+i] = off
		off += c.here[i].size()
		c.here[i] = nil
	}
	c.hereLen = 0
}

// reserveBack ensures room for one more slot after end. When the window
// occupies at most half the array it is shifted in place, which keeps
// amortized slot insertion constant at either end; otherwise the array
// grows geometrically keeping the space before the window unchanged.
func (c *Chain) reserveBack() {
	if c.end < len(c.slots) {
		return
	}
	used := c.end - c.begin
	if 2*(used+1) <= len(c.slots) {
		newBegin := (len(c.slots) - used - 1) / 2
		c.moveWindow(newBegin)
		return
	}
	newCap := maxInt(len(c.slots)+len(c.slots)/2, 16)
	c.reallocWindow(newCap, c.begin)
}

// reserveFront ensures room for one more slot before begin.
func (c *Chain) reserveFront() {
	if c.begin > 0 {
		return
	}
	used := c.end - c.begin
	if 2*(used+1) <= len(c.slots) {
		newBegin := maxInt(1, (len(c.slots)-used)/2)
		c.moveWindow(newBegin)
		return
	}
	newCap := maxInt(len(c.slots)+len(c.slots)/2, 16)
	newEnd := newCap - (len(c.slots) - c.end)
	c.reallocWindow(newCap, newEnd-used)
}

func (c *Chain) moveWindow(newBegin int) {
	used := c.end - c.begin
	copy(c.slots[newBegin:newBegin+used], c.slots[c.begin:c.end])
	copy(c.offsets[newBegin:newBegin+used], c.offsets[c.begin:c.end])
	for i := c.begin; i < c.end; i++ {
		if i < newBegin || i >= newBegin+used {
			c.slots[i] = nil
		}
	}
	c.begin = newBegin
	c.end = newBegin + used
}

func (c *Chain) reallocWindow(newCap, newBegin int) {
	used := c.end - c.begin
	slots := make([]*block, newCap)
	offsets := make([]int, newCap)
	copy(slots[newBegin:newBegin+used], c.slots[c.begin:c.end])
	copy(offsets[newBegin:newBegin+used], c.offsets[c.begin:c.end])
	c.slots = slots
	c.offsets = offsets
	c.begin = newBegin
	c.end = newBegin + used
}

// pushBack appends a block slot, taking over the caller's reference.
func (c *Chain) pushBack(b *block) {
	if c.slots == nil {
		if c.hereLen < 2 {
			c.here[c.hereLen] = b
			c.hereLen++
			return
		}
		c.promote()
	}
	c.reserveBack()
	c.slots[c.end] = b
	if c.end > c.begin {
		c.offsets[c.end] = c.offsets[c.end-1] + c.slots[c.end-1].size()
	} else {
		c.offsets[c.end] = 0
	}
	c.end++
}

// pushFront prepends a block slot, taking over the caller's reference.
func (c *Chain) pushFront(b *block) {
	if c.slots == nil {
		if c.hereLen < 2 {
			if c.hereLen == 1 {
				c.here[1] = c.here[0]
			}
			c.here[0] = b
			c.hereLen++
			return
		}
		c.promote()
	}
	c.reserveFront()
	c.begin--
	c.slots[c.begin] = b
	if c.end > c.begin+1 {
		c.offsets[c.begin] = c.offsets[c.begin+1] - b.size()
	} else {
		c.offsets[c.begin] = 0
	}
}

// popFront detaches and returns the first block without dropping its
// reference.
func (c *Chain) popFront() *block {
	if c.slots != nil {
		b := c.slots[c.begin]
		c.slots[c.begin] = nil
		c.begin++
		return b
	}
	b := c.here[0]
	c.here[0] = c.here[1]
	c.here[1] = nil
	c.hereLen--
	return b
}

// popBack detaches and returns the last block without dropping its
// reference.
func (c *Chain) popBack() *block {
	if c.slots != nil {
		c.end--
		b := c.slots[c.end]
		c.slots[c.end] = nil
		return b
	}
	c.hereLen--
	b := c.here[c.hereLen]
	c.here[c.hereLen] = nil
	return b
}

// frontGrew records that the first block grew by n bytes at its front.
func (c *Chain) frontGrew(n int) {
	if c.slots != nil {
		c.offsets[c.begin] -= n
	}
}

// frontShrank records that the first block lost n bytes at its front.
func (c *Chain) frontShrank(n int) {
	if c.slots != nil {
		c.offsets[c.begin] += n
	}
}

// NumBlocks returns the number of blocks seen by iteration. A chain in
// short-data mode presents its inline bytes as a single pseudo-block.
func (c *Chain) NumBlocks() int {
	if c.hasBlocks() {
		return c.nblocks()
	}
	if c.size > 0 {
		return 1
	}
	return 0
}

// BlockBytes returns a read-only view of the i-th block's bytes.
func (c *Chain) BlockBytes(i int) []byte {
	if !c.hasBlocks() {
		if i != 0 || c.size == 0 {
			panic(fmt.Sprintf("chain: block index %d out of range", i))
		}
		return c.shortData()
	}
	if i < 0 || i >= c.nblocks() {
		panic(fmt.Sprintf("chain: block index %d out of range", i))
	}
	return c.blockAt(i).data
}

// Locate returns the block index and intra-block offset of the logical byte
// at pos. For pos == Len() it returns (NumBlocks(), 0).
func (c *Chain) Locate(pos int) (blockIndex, offset int) {
	if pos < 0 || pos > c.size {
		panic(fmt.Sprintf("chain: position %d out of range [0, %d]", pos, c.size))
	}
	if pos == c.size {
		return c.NumBlocks(), 0
	}
	if !c.hasBlocks() {
		return 0, pos
	}
	n := c.nblocks()
	if c.slots != nil && n > 2 {
		base := c.offsets[c.begin]
		// Upper bound over block start offsets.
		i := sort.Search(n, func(j int) bool {
			return c.offsets[c.begin+j]-base > pos
		}) - 1
		return i, pos - (c.offsets[c.begin+i] - base)
	}
	for i := 0; i < n; i++ {
		b := c.blockAt(i)
		if pos < b.size() {
			return i, pos
		}
		pos -= b.size()
	}
	panic("chain: position lookup out of sync with block sizes")
}

// At returns the byte at logical position pos.
func (c *Chain) At(pos int) byte {
	i, off := c.Locate(pos)
	return c.BlockBytes(i)[off]
}

// WriteTo writes the chain contents to w, implementing io.WriterTo.
func (c *Chain) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for i := 0; i < c.NumBlocks(); i++ {
		n, err := w.Write(c.BlockBytes(i))
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

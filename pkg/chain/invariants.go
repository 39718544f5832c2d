package chain

import "fmt"

// selfCheck verifies the structural invariants. It is exercised by tests
// after every mutating operation; production code never calls it.
func (c *Chain) selfCheck() error {
	if !c.hasBlocks() {
		if c.size > MaxShortDataSize {
			return fmt.Errorf("short data size %d exceeds %d", c.size, MaxShortDataSize)
		}
		return nil
	}
	n := c.nblocks()
	total := 0
	for i := 0; i < n; i++ {
		b := c.blockAt(i)
		total += b.size()
		if b.ref.Count() < 1 {
			return fmt.Errorf("block %d has refcount %d", i, b.ref.Count())
		}
		if b.size() > b.capacity() || b.capacity() > MaxBlockCapacity {
			return fmt.Errorf("block %d: size %d, capacity %d out of bounds", i, b.size(), b.capacity())
		}
		if !b.internal() && (b.spaceBefore() != 0 || b.spaceAfter() != 0) {
			return fmt.Errorf("external block %d has free space", i)
		}
		if i > 0 && b.tiny(0) && c.blockAt(i-1).tiny(0) {
			return fmt.Errorf("adjacent tiny blocks at %d and %d", i-1, i)
		}
		if i > 0 && i < n-1 {
			if b.empty() {
				return fmt.Errorf("interior block %d is empty", i)
			}
			if b.wasteful(0) {
				return fmt.Errorf("interior block %d is wasteful (%d of %d)", i, b.size(), b.capacity())
			}
		}
	}
	if total != c.size {
		return fmt.Errorf("chain size %d does not match block sizes %d", c.size, total)
	}
	if c.slots != nil {
		for i := c.begin + 1; i < c.end; i++ {
			want := c.offsets[i-1] + c.slots[i-1].size()
			if c.offsets[i] != want {
				return fmt.Errorf("offset of block %d is %d, want %d", i-c.begin, c.offsets[i], want)
			}
		}
	}
	return nil
}

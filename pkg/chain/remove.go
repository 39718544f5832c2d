package chain

import "fmt"

// RemovePrefix drops the first n bytes. Whole leading blocks are released;
// a partially covered boundary block is trimmed in place when uniquely
// owned, copied when the residual is small, or shared as a substring view
// of the old block when the residual is large.
func (c *Chain) RemovePrefix(n int, opts ...Options) {
	o := getOpts(opts)
	if n < 0 || n > c.size {
		panic(fmt.Sprintf("chain: remove prefix of %d from chain of %d", n, c.size))
	}
	if n == 0 {
		return
	}
	if !c.hasBlocks() {
		copy(c.short[:], c.short[n:c.size])
		c.size -= n
		return
	}
	c.size -= n
	for n > 0 {
		f := c.front()
		if n < f.size() {
			break
		}
		n -= f.size()
		c.popFront().Unref()
	}
	if n == 0 {
		return
	}
	f := c.front()
	residual := f.size() - n
	switch {
	case f.ref.Unique():
		f.trimFront(n)
		c.frontShrank(n)
	case residual < DefaultMinBlockSize:
		nb := newInternal(residual)
		nb.appendBytes(f.data[n:])
		f.Unref()
		c.setFront(nb)
	default:
		nb := newExternal(newBlockSubstring(f), f.data[n:])
		f.Unref()
		c.setFront(nb)
	}
	c.mergeFrontIfTiny(o)
}

// RemoveSuffix drops the last n bytes, mirroring RemovePrefix.
func (c *Chain) RemoveSuffix(n int, opts ...Options) {
	o := getOpts(opts)
	if n < 0 || n > c.size {
		panic(fmt.Sprintf("chain: remove suffix of %d from chain of %d", n, c.size))
	}
	if n == 0 {
		return
	}
	if !c.hasBlocks() {
		c.size -= n
		return
	}
	c.size -= n
	for n > 0 {
		b := c.back()
		if n < b.size() {
			break
		}
		n -= b.size()
		c.popBack().Unref()
	}
	if n == 0 {
		return
	}
	b := c.back()
	residual := b.size() - n
	switch {
	case b.ref.Unique():
		b.trimBack(n)
	case residual < DefaultMinBlockSize:
		nb := newInternal(residual)
		nb.appendBytes(b.data[:residual])
		b.Unref()
		c.setBack(nb)
	default:
		nb := newExternal(newBlockSubstring(b), b.data[:residual])
		b.Unref()
		c.setBack(nb)
	}
	c.mergeBackIfTiny(o)
}

// mergeFrontIfTiny restores the no-adjacent-tiny invariant after the front
// block shrank past the tiny boundary.
func (c *Chain) mergeFrontIfTiny(o Options) {
	if c.nblocks() < 2 {
		return
	}
	f, s := c.blockAt(0), c.blockAt(1)
	if !f.tiny(0) || !s.tiny(0) {
		return
	}
	m := newInternal(c.newBlockCapacity(f.size()+s.size(), 0, 0, o))
	m.appendBytes(f.data)
	m.appendBytes(s.data)
	c.popFront().Unref()
	c.popFront().Unref()
	c.pushFront(m)
}

// mergeBackIfTiny restores the no-adjacent-tiny invariant after the back
// block shrank past the tiny boundary.
func (c *Chain) mergeBackIfTiny(o Options) {
	n := c.nblocks()
	if n < 2 {
		return
	}
	b, p := c.blockAt(n-1), c.blockAt(n-2)
	if !b.tiny(0) || !p.tiny(0) {
		return
	}
	m := newInternal(c.newBlockCapacity(p.size()+b.size(), 0, 0, o))
	m.appendBytes(p.data)
	m.appendBytes(b.data)
	c.popBack().Unref()
	c.popBack().Unref()
	c.pushBack(m)
}

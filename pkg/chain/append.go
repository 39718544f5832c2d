package chain

import (
	"fmt"

	"github.com/douzebis/riegeli/pkg/rope"
)

// newBlockCapacity returns the capacity for a freshly allocated block that
// will absorb replaced bytes of rewritten content plus at least minLen new
// bytes. The candidate starts from the current chain size so repeated small
// appends grow block sizes geometrically, is raised to the size hint's
// remainder when one is given, and is clamped into
// [minLen, maxBlockSize-replaced] with the lower bound taking precedence.
func (c *Chain) newBlockCapacity(replaced, minLen, recommended int, o Options) int {
	cand := recommended
	if s := c.size - replaced; s > cand {
		cand = s
	}
	if m := o.minBlockSize() - replaced; m > cand {
		cand = m
	}
	if hint, ok := o.sizeHint(); ok && hint > c.size {
		if d := hint - c.size; d > cand {
			cand = d
		}
	}
	if mx := o.maxBlockSize() - replaced; cand > mx {
		cand = mx
	}
	if cand < minLen {
		cand = minLen
	}
	capacity := cand + replaced
	if capacity > MaxBlockCapacity {
		capacity = MaxBlockCapacity
	}
	return capacity
}

// AppendBuffer makes room for at least minLen more bytes and returns a
// writable window of between minLen and maxLen bytes at the end of the
// chain. The window is accounted into Len immediately; append less than the
// window size by following with RemoveSuffix. recommendedLen advises the
// allocation size when a new block is needed.
func (c *Chain) AppendBuffer(minLen, recommendedLen, maxLen int, opts ...Options) []byte {
	o := getOpts(opts)
	if minLen < 0 || maxLen < minLen {
		panic(fmt.Sprintf("chain: invalid buffer request [%d, %d]", minLen, maxLen))
	}
	if minLen > MaxBlockCapacity {
		panic("chain: block capacity overflow")
	}
	var b *block
	if !c.hasBlocks() {
		avail := MaxShortDataSize - c.size
		if minLen <= avail {
			hint, hasHint := o.sizeHint()
			// Do not bother handing out short data if the caller expects
			// more than fits inline; it would only be copied out later.
			if recommendedLen <= avail && (!hasHint || hint <= MaxShortDataSize) {
				w := minInt(maxLen, avail)
				buf := c.short[c.size : c.size+w]
				c.size += w
				return buf
			}
			if minLen == 0 {
				return nil
			}
		}
		// Promote the inline bytes into a block, merged with the new space.
		if minLen > MaxBlockCapacity-c.size {
			b = newInternal(MaxShortDataSize)
			b.appendBytes(c.shortData())
			c.pushBack(b)
			b = newInternal(c.newBlockCapacity(0, minLen, recommendedLen, o))
			c.pushBack(b)
		} else {
			b = newInternal(c.newBlockCapacity(
				c.size, maxInt(minLen, MaxShortDataSize-c.size), recommendedLen, o))
			b.appendBytes(c.shortData())
			c.pushBack(b)
		}
	} else {
		last := c.back()
		switch {
		case last.canAppend(minLen):
			b = last
		case minLen == 0:
			return nil
		case last.tiny(0) && minLen <= MaxBlockCapacity-last.size():
			// Merge the tiny last block with the new space into one block.
			b = newInternal(c.newBlockCapacity(last.size(), minLen, recommendedLen, o))
			b.appendBytes(last.data)
			last.Unref()
			c.setBack(b)
		default:
			if last.wasteful(0) {
				// Rewrite the last block compactly, separately from the new
				// block, so its bytes are not copied again if the new block
				// only partially fills.
				c.setBack(last.copyToInternal())
				if last.tryClear() && last.canAppend(minLen) {
					b = last
				} else {
					last.Unref()
				}
			}
			if b == nil {
				b = newInternal(c.newBlockCapacity(0, minLen, recommendedLen, o))
			}
			c.pushBack(b)
		}
	}
	buf := b.appendBuffer(maxLen)
	c.size += len(buf)
	return buf
}

// PrependBuffer is the mirror of AppendBuffer at the front of the chain.
func (c *Chain) PrependBuffer(minLen, recommendedLen, maxLen int, opts ...Options) []byte {
	o := getOpts(opts)
	if minLen < 0 || maxLen < minLen {
		panic(fmt.Sprintf("chain: invalid buffer request [%d, %d]", minLen, maxLen))
	}
	var b *block
	if !c.hasBlocks() {
		avail := MaxShortDataSize - c.size
		if minLen <= avail {
			hint, hasHint := o.sizeHint()
			if recommendedLen <= avail && (!hasHint || hint <= MaxShortDataSize) {
				w := minInt(maxLen, avail)
				copy(c.short[w:w+c.size], c.short[:c.size])
				c.size += w
				return c.short[:w]
			}
			if minLen == 0 {
				return nil
			}
		}
		if minLen > MaxBlockCapacity-c.size {
			b = newInternal(MaxShortDataSize)
			b.appendBytes(c.shortData())
			c.pushBack(b)
			b = newInternal(c.newBlockCapacity(0, minLen, recommendedLen, o))
			c.pushFront(b)
		} else {
			b = newInternal(c.newBlockCapacity(
				c.size, maxInt(minLen, MaxShortDataSize-c.size), recommendedLen, o))
			b.prependBytes(c.shortData())
			c.pushBack(b)
		}
	} else {
		first := c.front()
		switch {
		case first.canPrepend(minLen):
			b = first
		case minLen == 0:
			return nil
		case first.tiny(0) && minLen <= MaxBlockCapacity-first.size():
			b = newInternal(c.newBlockCapacity(first.size(), minLen, recommendedLen, o))
			b.prependBytes(first.data)
			first.Unref()
			c.setFront(b)
		default:
			if first.wasteful(0) {
				c.setFront(first.copyToInternal())
				if first.tryClear() && first.canPrepend(minLen) {
					b = first
				} else {
					first.Unref()
				}
			}
			if b == nil {
				b = newInternal(c.newBlockCapacity(0, minLen, recommendedLen, o))
			}
			c.pushFront(b)
		}
	}
	buf := b.prependBuffer(maxLen)
	c.size += len(buf)
	c.frontGrew(len(buf))
	return buf
}

// Append appends a copy of src.
func (c *Chain) Append(src []byte, opts ...Options) {
	o := getOpts(opts)
	if len(src) == 0 {
		return
	}
	// Slide the last block's content when that makes the copy fit in place.
	if c.hasBlocks() && c.back().makeRoomAfter(len(src)) {
		c.back().appendBytes(src)
		c.size += len(src)
		return
	}
	for len(src) > 0 {
		buf := c.AppendBuffer(1, len(src), len(src), o)
		n := copy(buf, src)
		src = src[n:]
	}
}

// AppendString appends a copy of s.
func (c *Chain) AppendString(s string, opts ...Options) {
	o := getOpts(opts)
	for len(s) > 0 {
		buf := c.AppendBuffer(1, len(s), len(s), o)
		n := copy(buf, s)
		s = s[n:]
	}
}

// Prepend prepends a copy of src.
func (c *Chain) Prepend(src []byte, opts ...Options) {
	o := getOpts(opts)
	if len(src) == 0 {
		return
	}
	if c.hasBlocks() && c.front().makeRoomBefore(len(src)) {
		c.front().prependBytes(src)
		c.frontGrew(len(src))
		c.size += len(src)
		return
	}
	for len(src) > 0 {
		buf := c.PrependBuffer(1, len(src), len(src), o)
		n := len(buf)
		copy(buf, src[len(src)-n:])
		src = src[:len(src)-n]
	}
}

// PrependString prepends a copy of s.
func (c *Chain) PrependString(s string, opts ...Options) {
	o := getOpts(opts)
	for len(s) > 0 {
		buf := c.PrependBuffer(1, len(s), len(s), o)
		n := len(buf)
		copy(buf, s[len(s)-n:])
		s = s[:len(s)-n]
	}
}

// promoteShortIfNeeded moves inline bytes into a block so block attachment
// can proceed uniformly. The resulting block is tiny and will be merged by
// the usual boundary policy.
func (c *Chain) promoteShortIfNeeded() {
	if c.hasBlocks() || c.size == 0 {
		return
	}
	b := newInternal(MaxShortDataSize)
	b.appendBytes(c.shortData())
	c.pushBack(b)
}

// appendBlock attaches nb at the back, taking over the caller's reference.
// The boundary-join policy: merge when both seam blocks are tiny, drop an
// empty last block, absorb into or rewrite a wasteful last block, otherwise
// attach by reference.
func (c *Chain) appendBlock(nb *block, o Options) {
	if nb.empty() {
		nb.Unref()
		return
	}
	added := nb.size()
	c.promoteShortIfNeeded()
	if !c.hasBlocks() {
		c.pushBack(nb)
		c.size += added
		return
	}
	last := c.back()
	switch {
	case last.tiny(0) && nb.tiny(0):
		if last.canAppend(nb.size()) && !last.wasteful(nb.size()) {
			last.appendBytes(nb.data)
			nb.Unref()
		} else {
			m := newInternal(c.newBlockCapacity(last.size(), nb.size(), 0, o))
			m.appendBytes(last.data)
			m.appendBytes(nb.data)
			last.Unref()
			nb.Unref()
			c.setBack(m)
		}
	case last.empty():
		last.Unref()
		c.setBack(nb)
	case last.wasteful(0):
		if last.canAppend(nb.size()) && !last.wasteful(nb.size()) {
			last.appendBytes(nb.data)
			nb.Unref()
		} else {
			c.setBack(last.copyToInternal())
			last.Unref()
			c.pushBack(nb)
		}
	default:
		c.pushBack(nb)
	}
	c.size += added
}

// prependBlock is the mirror of appendBlock at the front.
func (c *Chain) prependBlock(nb *block, o Options) {
	if nb.empty() {
		nb.Unref()
		return
	}
	added := nb.size()
	c.promoteShortIfNeeded()
	if !c.hasBlocks() {
		c.pushFront(nb)
		c.size += added
		return
	}
	first := c.front()
	switch {
	case first.tiny(0) && nb.tiny(0):
		if first.canPrepend(nb.size()) && !first.wasteful(nb.size()) {
			first.prependBytes(nb.data)
			c.frontGrew(nb.size())
			nb.Unref()
		} else {
			m := newInternal(c.newBlockCapacity(first.size(), nb.size(), 0, o))
			m.prependBytes(first.data)
			m.prependBytes(nb.data)
			first.Unref()
			nb.Unref()
			c.setFront(m)
		}
	case first.empty():
		first.Unref()
		c.setFront(nb)
	case first.wasteful(0):
		if first.canPrepend(nb.size()) && !first.wasteful(nb.size()) {
			first.prependBytes(nb.data)
			c.frontGrew(nb.size())
			nb.Unref()
		} else {
			c.setFront(first.copyToInternal())
			first.Unref()
			c.pushFront(nb)
		}
	default:
		c.pushFront(nb)
	}
	c.size += added
}

// AppendChain appends the contents of src, sharing its blocks by reference.
// The seam between the two chains is subject to the boundary-join policy;
// the remaining blocks of src are shared wholesale.
func (c *Chain) AppendChain(src *Chain, opts ...Options) {
	o := getOpts(opts)
	if src.Len() == 0 {
		return
	}
	if src == c {
		src = c.Clone()
		defer src.Reset()
	}
	if !src.hasBlocks() {
		c.Append(src.shortData(), o)
		return
	}
	if !c.hasBlocks() && c.size+src.size <= MaxShortDataSize {
		p := c.size
		for i := 0; i < src.nblocks(); i++ {
			p += copy(c.short[p:], src.blockAt(i).data)
		}
		c.size += src.size
		return
	}
	n := src.nblocks()
	for i := 0; i < n; i++ {
		c.appendBlock(src.blockAt(i).Ref(), o)
	}
}

// PrependChain prepends the contents of src, sharing its blocks by
// reference.
func (c *Chain) PrependChain(src *Chain, opts ...Options) {
	o := getOpts(opts)
	if src.Len() == 0 {
		return
	}
	if src == c {
		src = c.Clone()
		defer src.Reset()
	}
	if !src.hasBlocks() {
		c.Prepend(src.shortData(), o)
		return
	}
	if !c.hasBlocks() && c.size+src.size <= MaxShortDataSize {
		copy(c.short[src.size:src.size+c.size], c.short[:c.size])
		p := 0
		for i := 0; i < src.nblocks(); i++ {
			p += copy(c.short[p:], src.blockAt(i).data)
		}
		c.size += src.size
		return
	}
	for i := src.nblocks() - 1; i >= 0; i-- {
		c.prependBlock(src.blockAt(i).Ref(), o)
	}
}

// AppendExternal appends a block viewing bytes owned by ext. view must
// alias ext.Data(). Ownership of ext transfers to the chain; an empty view
// releases it immediately.
func (c *Chain) AppendExternal(ext External, view []byte, opts ...Options) {
	if len(view) == 0 {
		ext.Release()
		return
	}
	c.appendBlock(newExternal(ext, view), getOpts(opts))
}

// PrependExternal prepends a block viewing bytes owned by ext.
func (c *Chain) PrependExternal(ext External, view []byte, opts ...Options) {
	if len(view) == 0 {
		ext.Release()
		return
	}
	c.prependBlock(newExternal(ext, view), getOpts(opts))
}

// AppendRope appends the fragments of r: small fragments are copied and
// merged into internal blocks, large ones are shared as external blocks.
func (c *Chain) AppendRope(r *rope.Rope, opts ...Options) {
	o := getOpts(opts)
	for i := 0; i < r.NumChunks(); i++ {
		ch := r.ChunkAt(i)
		if ch.Len() < DefaultMinBlockSize {
			c.Append(ch.Data(), o)
		} else {
			c.appendBlock(newExternal(newChunkRef(ch), ch.Data()), o)
		}
	}
}

// PrependRope prepends the fragments of r, mirroring AppendRope.
func (c *Chain) PrependRope(r *rope.Rope, opts ...Options) {
	o := getOpts(opts)
	for i := r.NumChunks() - 1; i >= 0; i-- {
		ch := r.ChunkAt(i)
		if ch.Len() < DefaultMinBlockSize {
			c.Prepend(ch.Data(), o)
		} else {
			c.prependBlock(newExternal(newChunkRef(ch), ch.Data()), o)
		}
	}
}

// AppendSubstring appends src[start:end], sharing whole blocks by reference,
// sharing large partial blocks through substring payloads, and copying
// small partial blocks.
func (c *Chain) AppendSubstring(src *Chain, start, end int, opts ...Options) {
	o := getOpts(opts)
	if start < 0 || end > src.size || start > end {
		panic(fmt.Sprintf("chain: substring [%d, %d) out of range [0, %d]", start, end, src.size))
	}
	if start == end {
		return
	}
	if src == c {
		src = c.Clone()
		defer src.Reset()
	}
	if !src.hasBlocks() {
		c.Append(src.shortData()[start:end], o)
		return
	}
	bi, off := src.Locate(start)
	remaining := end - start
	for remaining > 0 {
		b := src.blockAt(bi)
		take := minInt(b.size()-off, remaining)
		switch {
		case take == b.size():
			c.appendBlock(b.Ref(), o)
		case take < DefaultMinBlockSize:
			c.Append(b.data[off:off+take], o)
		default:
			c.appendBlock(newExternal(newBlockSubstring(b), b.data[off:off+take]), o)
		}
		remaining -= take
		off = 0
		bi++
	}
}

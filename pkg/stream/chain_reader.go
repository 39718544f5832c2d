package stream

import (
	"io"

	"github.com/douzebis/riegeli/pkg/chain"
)

// ChainReader reads from an in-memory chain without copying: the window is
// a direct view of the current block, and ReadChain shares blocks with the
// destination.
type ChainReader struct {
	src     *chain.Chain
	pos     int64
	view    []byte
	scratch []byte
	err     error
}

// NewChainReader returns a reader over src. The chain must not be mutated
// while the reader is in use.
func NewChainReader(src *chain.Chain) *ChainReader {
	return &ChainReader{src: src}
}

// Pull ensures min contiguous bytes in the window. Windows normally view a
// single block; requests spanning blocks are gathered into a scratch
// buffer.
func (r *ChainReader) Pull(min int) bool {
	if r.err != nil {
		return false
	}
	if len(r.view) >= min {
		return true
	}
	remaining := r.src.Len() - int(r.pos)
	if remaining == 0 {
		r.view = nil
		return min <= 0
	}
	bi, off := r.src.Locate(int(r.pos))
	frag := r.src.BlockBytes(bi)[off:]
	if len(frag) >= min {
		r.view = frag
		return true
	}
	want := min
	if want > remaining {
		want = remaining
	}
	r.scratch = r.scratch[:0]
	for len(r.scratch) < want {
		r.scratch = append(r.scratch, frag...)
		bi++
		if bi >= r.src.NumBlocks() {
			break
		}
		frag = r.src.BlockBytes(bi)
	}
	if len(r.scratch) > want {
		r.scratch = r.scratch[:want]
	}
	r.view = r.scratch
	return len(r.view) >= min
}

// Data returns the current readable window.
func (r *ChainReader) Data() []byte { return r.view }

// Advance consumes n bytes of the window.
func (r *ChainReader) Advance(n int) {
	r.pos += int64(n)
	r.view = r.view[n:]
}

// Pos returns the logical position.
func (r *ChainReader) Pos() int64 { return r.pos }

// OK reports reader health. A ChainReader only fails on an invalid seek.
func (r *ChainReader) OK() bool { return r.err == nil }

// Err returns the failure status, or nil.
func (r *ChainReader) Err() error { return r.err }

// Size returns the chain length.
func (r *ChainReader) Size() (int64, bool) { return int64(r.src.Len()), true }

// Seek repositions the reader.
func (r *ChainReader) Seek(pos int64) bool {
	if r.err != nil {
		return false
	}
	if pos < 0 || pos > int64(r.src.Len()) {
		r.err = outOfRange("seek past end of chain")
		return false
	}
	r.pos = pos
	r.view = nil
	return true
}

// Close is a no-op for chain readers.
func (r *ChainReader) Close() error { return nil }

// Read implements io.Reader.
func (r *ChainReader) Read(p []byte) (int, error) {
	if !r.Pull(1) {
		if r.err != nil {
			return 0, r.err
		}
		return 0, io.EOF
	}
	n := copy(p, r.view)
	r.Advance(n)
	return n, nil
}

// readChain shares blocks of the source range with dest.
func (r *ChainReader) readChain(n int, dest *chain.Chain) bool {
	if r.err != nil {
		return false
	}
	if int(r.pos)+n > r.src.Len() {
		return false
	}
	dest.AppendSubstring(r.src, int(r.pos), int(r.pos)+n)
	r.pos += int64(n)
	r.view = nil
	return true
}

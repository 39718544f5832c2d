// Package stream provides pull/push buffered byte streams over files,
// chains and flat buffers.
//
// A Reader exposes a readable window of buffered bytes for zero-copy
// consumption; a Writer exposes a writable window. Both carry a sticky
// health status: after a failure every operation is a no-op reporting
// false, and Err returns the cause. A Pull that returns false with OK still
// true is a clean end of data.
package stream

import (
	"github.com/douzebis/riegeli/pkg/chain"
	"github.com/douzebis/riegeli/pkg/rope"
)

// Reader is a pull-based byte source with a buffered window.
type Reader interface {
	// Pull ensures at least min bytes are available in the window,
	// refilling as needed. It returns false at end of data or on failure;
	// consult OK to tell the two apart.
	Pull(min int) bool
	// Data returns the current readable window. Valid until the next Pull,
	// Advance or Seek.
	Data() []byte
	// Advance consumes n bytes of the window.
	Advance(n int)
	// Pos returns the logical byte position.
	Pos() int64
	// OK reports whether the reader is healthy.
	OK() bool
	// Err returns the failure status, or nil.
	Err() error
	// Close releases the underlying source. The reader stays in its final
	// health state.
	Close() error
}

// Writer is a push-based byte sink with a buffered window.
type Writer interface {
	// Push ensures at least min bytes of writable window are available.
	Push(min int) bool
	// Data returns the current writable window.
	Data() []byte
	// Advance commits n bytes written into the window.
	Advance(n int)
	// Pos returns the logical byte position.
	Pos() int64
	// OK reports whether the writer is healthy.
	OK() bool
	// Err returns the failure status, or nil.
	Err() error
	// Flush pushes committed bytes to the underlying sink.
	Flush() bool
	// Close flushes and releases the underlying sink.
	Close() error
}

// Sizer is implemented by readers that know their total size.
type Sizer interface {
	Size() (int64, bool)
}

// Seeker is implemented by readers that support repositioning.
type Seeker interface {
	Seek(pos int64) bool
}

// WriteSizeHinter is implemented by writers that can pre-size their sink.
type WriteSizeHinter interface {
	SetWriteSizeHint(n int64)
}

// chainSource is the zero-copy fast path for readers backed by a chain.
type chainSource interface {
	readChain(n int, dest *chain.Chain) bool
}

// chainSink is the zero-copy fast path for writers backed by a chain.
type chainSink interface {
	writeChain(src *chain.Chain) bool
}

// Skip consumes n bytes from r, seeking when the reader supports it.
// It returns false when fewer than n bytes were available or r failed.
func Skip(r Reader, n int64) bool {
	if n < 0 {
		return false
	}
	if int64(len(r.Data())) >= n {
		r.Advance(int(n))
		return true
	}
	if s, ok := r.(Seeker); ok {
		if sz, known := size(r); known && r.Pos()+n <= sz {
			return s.Seek(r.Pos() + n)
		}
	}
	for n > 0 {
		if !r.Pull(1) {
			return false
		}
		step := int64(len(r.Data()))
		if step > n {
			step = n
		}
		r.Advance(int(step))
		n -= step
	}
	return true
}

func size(r Reader) (int64, bool) {
	if s, ok := r.(Sizer); ok {
		return s.Size()
	}
	return 0, false
}

// ReadBytes reads exactly n bytes from r into a fresh slice. It returns
// false (with the bytes actually read) when the source ends early or fails.
func ReadBytes(r Reader, n int) ([]byte, bool) {
	out := make([]byte, 0, n)
	for len(out) < n {
		if !r.Pull(1) {
			return out, false
		}
		win := r.Data()
		take := n - len(out)
		if take > len(win) {
			take = len(win)
		}
		out = append(out, win[:take]...)
		r.Advance(take)
	}
	return out, true
}

// ReadChain reads exactly n bytes from r into dest, sharing underlying
// blocks when the source permits.
func ReadChain(r Reader, n int, dest *chain.Chain) bool {
	if cs, ok := r.(chainSource); ok {
		return cs.readChain(n, dest)
	}
	remaining := n
	for remaining > 0 {
		if !r.Pull(1) {
			return false
		}
		win := r.Data()
		take := remaining
		if take > len(win) {
			take = len(win)
		}
		dest.Append(win[:take], chain.Options{SizeHint: dest.Len() + remaining})
		r.Advance(take)
		remaining -= take
	}
	return true
}

// ReadRope reads exactly n bytes from r into a rope, sharing underlying
// blocks when the source permits.
func ReadRope(r Reader, n int) (*rope.Rope, bool) {
	dest := chain.NewChain()
	if !ReadChain(r, n, dest) {
		dest.Reset()
		return nil, false
	}
	out := dest.ToRope()
	dest.Reset()
	return out, true
}

// WriteBytes writes all of p to w.
func WriteBytes(w Writer, p []byte) bool {
	for len(p) > 0 {
		if !w.Push(1) {
			return false
		}
		win := w.Data()
		n := copy(win, p)
		w.Advance(n)
		p = p[n:]
	}
	return true
}

// WriteChain writes the contents of src to w, sharing blocks when the sink
// permits.
func WriteChain(w Writer, src *chain.Chain) bool {
	if cs, ok := w.(chainSink); ok {
		return cs.writeChain(src)
	}
	for i := 0; i < src.NumBlocks(); i++ {
		if !WriteBytes(w, src.BlockBytes(i)) {
			return false
		}
	}
	return true
}

// Copy moves exactly n bytes from src to dest. It returns false when either
// side fails or src ends early.
func Copy(src Reader, n int64, dest Writer) bool {
	for n > 0 {
		if !src.Pull(1) {
			return false
		}
		win := src.Data()
		take := int64(len(win))
		if take > n {
			take = n
		}
		if !WriteBytes(dest, win[:take]) {
			return false
		}
		src.Advance(int(take))
		n -= take
	}
	return true
}

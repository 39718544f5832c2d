package stream

import "github.com/douzebis/riegeli/pkg/chain"

// ChainWriter appends to an in-memory chain. Window space is carved out of
// the chain's own blocks, so committed bytes are never copied again, and
// WriteChain shares the source's blocks.
type ChainWriter struct {
	dest    *chain.Chain
	window  []byte
	written int
	opts    chain.Options
}

// NewChainWriter returns a writer appending to dest.
func NewChainWriter(dest *chain.Chain) *ChainWriter {
	return &ChainWriter{dest: dest}
}

// SetWriteSizeHint forwards the expected total size to the chain's block
// sizing.
func (w *ChainWriter) SetWriteSizeHint(n int64) {
	w.opts.SizeHint = int(n)
}

// Push ensures min bytes of writable window.
func (w *ChainWriter) Push(min int) bool {
	if len(w.window)-w.written >= min {
		return true
	}
	w.dropUnwritten()
	w.window = w.dest.AppendBuffer(min, min, chain.MaxBlockCapacity, w.opts)
	w.written = 0
	return len(w.window) >= min
}

// Data returns the current writable window.
func (w *ChainWriter) Data() []byte { return w.window[w.written:] }

// Advance commits n bytes written into the window.
func (w *ChainWriter) Advance(n int) { w.written += n }

// Pos returns the number of bytes committed so far.
func (w *ChainWriter) Pos() int64 {
	return int64(w.dest.Len() - (len(w.window) - w.written))
}

// OK reports writer health. A ChainWriter cannot fail.
func (w *ChainWriter) OK() bool { return true }

// Err returns nil; chain writers do not fail.
func (w *ChainWriter) Err() error { return nil }

// Flush returns uncommitted window space to the chain.
func (w *ChainWriter) Flush() bool {
	w.dropUnwritten()
	return true
}

// Close flushes. The chain remains usable by the caller.
func (w *ChainWriter) Close() error {
	w.dropUnwritten()
	return nil
}

func (w *ChainWriter) dropUnwritten() {
	if unused := len(w.window) - w.written; unused > 0 {
		w.dest.RemoveSuffix(unused)
	}
	w.window = nil
	w.written = 0
}

// writeChain flushes pending window space and shares src's blocks.
func (w *ChainWriter) writeChain(src *chain.Chain) bool {
	w.dropUnwritten()
	w.dest.AppendChain(src, w.opts)
	return true
}

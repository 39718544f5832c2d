package chain

// Options tunes how a chain sizes freshly allocated blocks.
//
// The zero value selects the defaults, so callers can pass Options{} or use
// the variadic forms without constructing anything.
type Options struct {
	// SizeHint is the caller's advance estimate of the final chain size.
	// When set (non-zero), new blocks are sized so that a single block can
	// hold the remaining expected bytes, up to MaxBlockSize. Zero means no
	// hint.
	SizeHint int

	// MinBlockSize is the floor for new blocks. Zero selects
	// DefaultMinBlockSize. Whether a block counts as tiny (and gets merged
	// with neighbors) is always judged against DefaultMinBlockSize, not
	// against this value.
	MinBlockSize int

	// MaxBlockSize is the ceiling for new blocks; beyond it appends
	// allocate additional blocks. Zero selects DefaultMaxBlockSize.
	MaxBlockSize int
}

func (o Options) minBlockSize() int {
	if o.MinBlockSize <= 0 {
		return DefaultMinBlockSize
	}
	return o.MinBlockSize
}

func (o Options) maxBlockSize() int {
	if o.MaxBlockSize <= 0 {
		return DefaultMaxBlockSize
	}
	return o.MaxBlockSize
}

// sizeHint returns the hint and whether one was given.
func (o Options) sizeHint() (int, bool) {
	if o.SizeHint <= 0 {
		return 0, false
	}
	return o.SizeHint, true
}

func getOpts(opts []Options) Options {
	if len(opts) > 0 {
		return opts[0]
	}
	return Options{}
}

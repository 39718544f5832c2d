package stream

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/douzebis/riegeli/pkg/chain"
)

func TestBytesReaderPullSkipRead(t *testing.T) {
	r := NewBytesReader([]byte{0, 1, 2, 3, 4})

	require.True(t, r.Pull(5))
	assert.GreaterOrEqual(t, len(r.Data()), 5)

	require.True(t, Skip(r, 3))
	got, ok := ReadBytes(r, 2)
	require.True(t, ok)
	assert.Equal(t, []byte{3, 4}, got)

	// Clean end of data: Pull fails but the reader stays healthy.
	assert.False(t, r.Pull(1))
	assert.True(t, r.OK())
	assert.NoError(t, r.Err())
	assert.Equal(t, int64(5), r.Pos())
}

func TestBytesReaderSeek(t *testing.T) {
	r := NewBytesReader([]byte("0123456789"))
	require.True(t, r.Seek(7))
	got, ok := ReadBytes(r, 3)
	require.True(t, ok)
	assert.Equal(t, "789", string(got))

	assert.False(t, r.Seek(11))
	assert.False(t, r.OK())
	assert.True(t, IsOutOfRange(r.Err()))
}

func TestChainReaderWindowsFollowBlocks(t *testing.T) {
	src := chain.NewChain()
	src.Append(bytes.Repeat([]byte("a"), 1000), chain.Options{MaxBlockSize: 256})
	src.Append(bytes.Repeat([]byte("b"), 1000), chain.Options{MaxBlockSize: 256})

	r := NewChainReader(src)
	var out []byte
	for r.Pull(1) {
		out = append(out, r.Data()...)
		r.Advance(len(r.Data()))
	}
	assert.True(t, r.OK())
	assert.Equal(t, src.String(), string(out))
}

func TestChainReaderPullAcrossBlocks(t *testing.T) {
	src := chain.NewChain()
	src.Append(make([]byte, 300), chain.Options{MaxBlockSize: 256})
	require.Greater(t, src.NumBlocks(), 1)

	r := NewChainReader(src)
	// The request spans the block seam, forcing a gathered window.
	require.True(t, r.Pull(300))
	assert.GreaterOrEqual(t, len(r.Data()), 300)
}

func TestChainReaderReadChainShares(t *testing.T) {
	src := chain.FromBytes(bytes.Repeat([]byte("s"), 4000))
	r := NewChainReader(src)
	require.True(t, Skip(r, 500))

	dest := chain.NewChain()
	require.True(t, ReadChain(r, 3000, dest))
	assert.Equal(t, 3000, dest.Len())
	assert.Equal(t, int64(3500), r.Pos())
	// The read shares the source block instead of copying.
	assert.Same(t, &src.BlockBytes(0)[500], &dest.BlockBytes(0)[0])
}

func TestReadRope(t *testing.T) {
	src := chain.FromBytes(bytes.Repeat([]byte("r"), 1000))
	r := NewChainReader(src)

	rp, ok := ReadRope(r, 600)
	require.True(t, ok)
	assert.Equal(t, 600, rp.Len())
	assert.Equal(t, strings.Repeat("r", 600), rp.String())

	_, ok = ReadRope(r, 500)
	assert.False(t, ok)
}

func TestChainWriterRoundTrip(t *testing.T) {
	dest := chain.NewChain()
	w := NewChainWriter(dest)

	require.True(t, WriteBytes(w, []byte("hello ")))
	require.True(t, WriteBytes(w, bytes.Repeat([]byte("w"), 5000)))
	require.True(t, w.Flush())

	assert.Equal(t, "hello "+strings.Repeat("w", 5000), dest.String())
	assert.Equal(t, int64(dest.Len()), w.Pos())
}

func TestChainWriterWriteChainShares(t *testing.T) {
	src := chain.FromBytes(bytes.Repeat([]byte("z"), 2000))
	dest := chain.NewChain()
	w := NewChainWriter(dest)

	require.True(t, WriteChain(w, src))
	require.True(t, w.Flush())
	assert.Equal(t, src.String(), dest.String())
	assert.Same(t, &src.BlockBytes(0)[0], &dest.BlockBytes(0)[0])
}

func TestChainWriterPartialWindow(t *testing.T) {
	dest := chain.NewChain()
	w := NewChainWriter(dest)

	require.True(t, w.Push(100))
	copy(w.Data(), "abc")
	w.Advance(3)
	require.True(t, w.Flush())
	assert.Equal(t, "abc", dest.String())
}

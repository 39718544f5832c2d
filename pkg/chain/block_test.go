package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternalBlockAppend(t *testing.T) {
	b := newInternal(64)
	assert.Equal(t, 0, b.size())
	assert.Equal(t, 64, b.capacity())
	assert.True(t, b.mutable())

	require.True(t, b.canAppend(10))
	b.appendBytes([]byte("0123456789"))
	assert.Equal(t, 10, b.size())
	assert.Equal(t, 54, b.spaceAfter())
	assert.Equal(t, 0, b.spaceBefore())
	assert.Equal(t, "0123456789", string(b.data))
}

func TestInternalBlockPrepend(t *testing.T) {
	b := newInternal(64)
	b.prependBytes([]byte("tail"))
	assert.Equal(t, "tail", string(b.data))
	assert.Equal(t, 60, b.spaceBefore())
	assert.Equal(t, 0, b.spaceAfter())

	require.True(t, b.canPrepend(4))
	b.prependBytes([]byte("head"))
	assert.Equal(t, "headtail", string(b.data))
}

func TestBlockSlideMakesRoom(t *testing.T) {
	b := newInternal(64)
	// Content sits at the end of the arena after a prepend.
	b.prependBytes([]byte("abc"))
	assert.False(t, b.canAppend(10))

	// Content is at most half the arena, so it may slide to the front.
	require.True(t, b.makeRoomAfter(10))
	assert.True(t, b.canAppend(10))
	b.appendBytes([]byte("0123456789"))
	assert.Equal(t, "abc0123456789", string(b.data))
}

func TestBlockSlideRefusesWhenContentLarge(t *testing.T) {
	b := newInternal(64)
	b.appendBytes(make([]byte, 40))
	// More than half the arena is occupied; sliding is not allowed.
	assert.False(t, b.makeRoomBefore(10))
	// And plainly impossible when the total does not fit.
	assert.False(t, b.makeRoomAfter(30))
}

func TestSharedBlockIsFrozen(t *testing.T) {
	b := newInternal(64)
	b.appendBytes([]byte("x"))
	b.Ref()
	assert.False(t, b.mutable())
	assert.False(t, b.canAppend(1))
	assert.False(t, b.makeRoomAfter(1))
	b.Unref()
	assert.True(t, b.mutable())
}

func TestBlockTinyAndWasteful(t *testing.T) {
	b := newInternal(1024)
	b.appendBytes(make([]byte, 10))
	assert.True(t, b.tiny(0))
	assert.False(t, b.tiny(DefaultMinBlockSize))
	assert.True(t, b.wasteful(0))

	b2 := newInternal(256)
	b2.appendBytes(make([]byte, 256))
	assert.False(t, b2.tiny(0))
	assert.False(t, b2.wasteful(0))
}

func TestExternalBlockNeverMutable(t *testing.T) {
	released := false
	payload := &testPayload{data: []byte("external bytes"), released: &released}
	b := newExternal(payload, payload.Data())

	assert.False(t, b.internal())
	assert.False(t, b.mutable())
	assert.False(t, b.tiny(0))
	assert.False(t, b.wasteful(0))
	assert.Equal(t, b.size(), b.capacity())

	b.Unref()
	assert.True(t, released)
}

func TestBlockCopyIsCompact(t *testing.T) {
	b := newInternal(1024)
	b.appendBytes([]byte("payload"))
	b.Ref() // freeze

	cp := b.copyToInternal()
	assert.Equal(t, "payload", string(cp.data))
	assert.Equal(t, cp.size(), cp.capacity())
	assert.False(t, cp.wasteful(0))
	assert.True(t, cp.mutable())

	b.Unref()
	b.Unref()
}

func TestBlockTrim(t *testing.T) {
	b := newInternal(64)
	b.appendBytes([]byte("0123456789"))
	b.trimFront(3)
	assert.Equal(t, "3456789", string(b.data))
	assert.Equal(t, 3, b.spaceBefore())
	b.trimBack(2)
	assert.Equal(t, "34567", string(b.data))
}

// testPayload is an External implementation recording its release.
type testPayload struct {
	data     []byte
	released *bool
}

func (p *testPayload) Data() []byte { return p.data }

func (p *testPayload) Release() { *p.released = true }

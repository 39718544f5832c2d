package chain

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefCountStartsUnique(t *testing.T) {
	r := newRefCount()
	assert.True(t, r.Unique())
	assert.Equal(t, int64(1), r.Count())
}

func TestRefCountRefUnref(t *testing.T) {
	r := newRefCount()
	r.Ref()
	assert.False(t, r.Unique())
	assert.Equal(t, int64(2), r.Count())

	assert.False(t, r.Unref())
	assert.True(t, r.Unique())
	assert.True(t, r.Unref())
	assert.Equal(t, int64(0), r.Count())
}

func TestRefCountLastUnrefWinsOnce(t *testing.T) {
	r := newRefCount()
	const extra = 64
	for i := 0; i < extra; i++ {
		r.Ref()
	}

	var wg sync.WaitGroup
	reachedZero := make(chan bool, extra+1)
	for i := 0; i < extra+1; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r.Unref() {
				reachedZero <- true
			}
		}()
	}
	wg.Wait()
	close(reachedZero)

	count := 0
	for range reachedZero {
		count++
	}
	assert.Equal(t, 1, count)
}

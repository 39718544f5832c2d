package records

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/douzebis/riegeli/pkg/chain"
	"github.com/douzebis/riegeli/pkg/codec"
	"github.com/douzebis/riegeli/pkg/stream"
)

func writeTestFile(t *testing.T, path string, config WriterConfig, n int) []string {
	t.Helper()
	writer, err := Create(path, config)
	require.NoError(t, err)

	recs := make([]string, n)
	for i := 0; i < n; i++ {
		recs[i] = fmt.Sprintf("record %05d payload", i)
		require.NoError(t, writer.WriteRecordString(recs[i]))
	}
	require.NoError(t, writer.Close())
	return recs
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.riegeli")
	recs := writeTestFile(t, path, WriterConfig{Codec: codec.CodecZstd}, 100)

	reader, err := Open(path)
	require.NoError(t, err)
	defer reader.Close()

	for i := 0; i < len(recs); i++ {
		rec, ok := reader.Next()
		require.True(t, ok, "record %d", i)
		assert.Equal(t, recs[i], string(rec))
	}
	_, ok := reader.Next()
	assert.False(t, ok)
	assert.NoError(t, reader.Err())
}

func TestSmallChunksProduceMultipleChunks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.riegeli")
	recs := writeTestFile(t, path, WriterConfig{ChunkSize: 128, Codec: codec.CodecSnappy}, 200)

	index, err := BuildIndex(path)
	require.NoError(t, err)
	assert.Equal(t, 200, index.NumRecords())
	assert.Greater(t, index.NumChunks(), 1)

	reader, err := Open(path)
	require.NoError(t, err)
	defer reader.Close()

	it := reader.Iterator()
	i := 0
	for it.Next() {
		assert.Equal(t, recs[i], string(it.Record()))
		i++
	}
	assert.Equal(t, 200, i)
	assert.NoError(t, reader.Err())
}

func TestOpenTwiceNoSingleton(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.riegeli")
	recs := writeTestFile(t, path, WriterConfig{}, 10)

	// Two independent handles over the same file.
	r1, err := Open(path)
	require.NoError(t, err)
	r2, err := Open(path)
	require.NoError(t, err)

	rec1, ok := r1.Next()
	require.True(t, ok)
	rec2, ok := r2.Next()
	require.True(t, ok)
	assert.Equal(t, recs[0], string(rec1))
	assert.Equal(t, recs[0], string(rec2))

	require.NoError(t, r1.Close())

	// The second handle keeps working after the first is closed.
	rec2, ok = r2.Next()
	require.True(t, ok)
	assert.Equal(t, recs[1], string(rec2))
	require.NoError(t, r2.Close())

	// And reopening after close works too.
	r3, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, r3.Close())
}

func TestOpenRejectsForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-riegeli.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain text, not records"), 0600))

	_, err := Open(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadSignature))
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.riegeli"))
	require.Error(t, err)
	assert.True(t, stream.IsIO(err))
}

func TestSeekToPosition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.riegeli")
	recs := writeTestFile(t, path, WriterConfig{ChunkSize: 256}, 100)

	index, err := BuildIndex(path)
	require.NoError(t, err)

	reader, err := Open(path)
	require.NoError(t, err)
	defer reader.Close()

	for _, ordinal := range []int{0, 57, 99, 3} {
		pos, err := index.Lookup(ordinal)
		require.NoError(t, err)
		require.NoError(t, reader.SeekToPosition(pos))
		rec, ok := reader.Next()
		require.True(t, ok, "ordinal %d", ordinal)
		assert.Equal(t, recs[ordinal], string(rec))
	}

	_, err = index.Lookup(100)
	assert.True(t, errors.Is(err, ErrOutOfRange))
	_, err = index.Lookup(-1)
	assert.Error(t, err)
}

func TestCorruptionDetected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.riegeli")
	writeTestFile(t, path, WriterConfig{}, 50)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// Flip a byte inside the chunk payload.
	data[len(data)-10] ^= 0x01
	require.NoError(t, os.WriteFile(path, data, 0600))

	reader, err := Open(path)
	require.NoError(t, err)
	defer reader.Close()

	for {
		if _, ok := reader.Next(); !ok {
			break
		}
	}
	require.Error(t, reader.Err())
	assert.True(t, errors.Is(reader.Err(), codec.ErrCorruption))
}

func TestTruncatedFileDetected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.riegeli")
	writeTestFile(t, path, WriterConfig{}, 50)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data[:len(data)-7], 0600))

	reader, err := Open(path)
	require.NoError(t, err)
	defer reader.Close()

	for {
		if _, ok := reader.Next(); !ok {
			break
		}
	}
	require.Error(t, reader.Err())
}

func TestInMemoryRoundTrip(t *testing.T) {
	buf := chain.NewChain()
	writer := NewWriter(stream.NewChainWriter(buf), WriterConfig{Codec: codec.CodecGzip})
	require.NoError(t, writer.WriteRecordString("alpha"))
	require.NoError(t, writer.WriteRecordString("beta"))
	require.NoError(t, writer.Close())

	reader := NewReader(stream.NewChainReader(buf))
	rec, ok := reader.Next()
	require.True(t, ok)
	assert.Equal(t, "alpha", string(rec))
	rec, ok = reader.Next()
	require.True(t, ok)
	assert.Equal(t, "beta", string(rec))
	_, ok = reader.Next()
	assert.False(t, ok)
	assert.NoError(t, reader.Err())
}

func TestEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.riegeli")
	writer, err := Create(path, WriterConfig{})
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader, err := Open(path)
	require.NoError(t, err)
	defer reader.Close()

	_, ok := reader.Next()
	assert.False(t, ok)
	assert.NoError(t, reader.Err())

	index, err := BuildIndex(path)
	require.NoError(t, err)
	assert.Equal(t, 0, index.NumRecords())
}

func TestWriterPosAdvances(t *testing.T) {
	buf := chain.NewChain()
	writer := NewWriter(stream.NewChainWriter(buf), WriterConfig{ChunkSize: 64})

	start := writer.Pos()
	require.NoError(t, writer.WriteRecordString("0123456789"))
	mid := writer.Pos()
	assert.True(t, start.Less(mid) || start.ChunkOffset < mid.ChunkOffset || mid.RecordIndex > 0)

	require.NoError(t, writer.Close())
}

func TestUseAfterClose(t *testing.T) {
	buf := chain.NewChain()
	writer := NewWriter(stream.NewChainWriter(buf), WriterConfig{})
	require.NoError(t, writer.Close())
	assert.True(t, errors.Is(writer.WriteRecord([]byte("late")), ErrClosed))
	assert.True(t, errors.Is(writer.Flush(), ErrClosed))
}

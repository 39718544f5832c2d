// Package records reads and writes riegeli record files: sequences of
// length-prefixed records grouped into hashed, optionally compressed
// chunks.
//
// A Writer buffers records in a chain and cuts a chunk whenever the pending
// payload reaches the configured chunk size. A Reader pulls chunks from the
// underlying stream, validates them and hands out records in order. Readers
// and writers are independent handles with normal lifecycles; any number
// may exist concurrently over different streams.
package records

import "github.com/douzebis/riegeli/pkg/codec"

// fileSignature begins every record file.
var fileSignature = [8]byte{'R', 'G', 'L', 'F', 0, 0, 0, 1}

// SignatureSize is the length of the file signature.
const SignatureSize = 8

// DefaultChunkSize is the target uncompressed payload size of a chunk.
const DefaultChunkSize = 1 << 20

// Position identifies a record in a file: the file offset of its chunk and
// the record's index within that chunk.
type Position struct {
	ChunkOffset int64
	RecordIndex int
}

// Less orders positions by file layout.
func (p Position) Less(q Position) bool {
	if p.ChunkOffset != q.ChunkOffset {
		return p.ChunkOffset < q.ChunkOffset
	}
	return p.RecordIndex < q.RecordIndex
}

// WriterConfig holds configuration for a record writer.
type WriterConfig struct {
	ChunkSize  int         // Target uncompressed chunk payload size (0 = DefaultChunkSize)
	Codec      codec.Codec // Compression applied to chunk payloads
	BufferSize int         // Write buffer size for file-backed writers
}

func (c WriterConfig) chunkSize() int {
	if c.ChunkSize <= 0 {
		return DefaultChunkSize
	}
	return c.ChunkSize
}

// RecordIterator provides streaming access to records.
type RecordIterator interface {
	Next() bool
	Record() []byte
	Close() error
}

// Errors
var (
	ErrClosed       = &RecordError{"records: handle is closed"}
	ErrTruncated    = &RecordError{"records: truncated file"}
	ErrBadSignature = &RecordError{"records: not a riegeli records file"}
	ErrOutOfRange   = &RecordError{"records: position out of range"}
	ErrUnseekable   = &RecordError{"records: underlying stream does not support seeking"}
)

// RecordError represents a record stream error.
type RecordError struct {
	Message string
}

func (e *RecordError) Error() string {
	return e.Message
}

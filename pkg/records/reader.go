package records

import (
	"bytes"
	"fmt"

	"github.com/douzebis/riegeli/pkg/codec"
	"github.com/douzebis/riegeli/pkg/stream"
)

// Reader reads records sequentially from a stream, one validated chunk at a
// time.
type Reader struct {
	in          stream.Reader
	ownsIn      bool
	codec       *codec.ChunkCodec
	chunkOffset int64
	records     [][]byte
	next        int
	started     bool
	closed      bool
	err         error
}

// NewReader returns a reader over in. When in is at position 0 the file
// signature is verified before the first chunk.
func NewReader(in stream.Reader) *Reader {
	return &Reader{
		in:    in,
		codec: codec.NewChunkCodec(),
	}
}

// Open opens the record file at path and returns a reader owning it.
func Open(path string) (*Reader, error) {
	in, err := stream.NewFileReader(stream.FileReaderConfig{FilePath: path})
	if err != nil {
		return nil, fmt.Errorf("failed to open record file: %w", err)
	}
	r := NewReader(in)
	r.ownsIn = true
	if !r.checkSignature() {
		in.Close()
		if r.err != nil {
			return nil, r.err
		}
		return nil, ErrBadSignature
	}
	return r, nil
}

// checkSignature verifies the file signature when reading from the start.
func (r *Reader) checkSignature() bool {
	if r.started {
		return true
	}
	r.started = true
	if r.in.Pos() != 0 {
		return true
	}
	if !r.in.Pull(SignatureSize) {
		if r.in.OK() {
			r.err = ErrBadSignature
		} else {
			r.err = r.in.Err()
		}
		return false
	}
	if !bytes.Equal(r.in.Data()[:SignatureSize], fileSignature[:]) {
		r.err = ErrBadSignature
		return false
	}
	r.in.Advance(SignatureSize)
	return true
}

// Next returns the next record. It returns false at end of file or on
// failure; consult Err to tell the two apart. The returned slice is valid
// until the next chunk is read.
func (r *Reader) Next() ([]byte, bool) {
	if r.closed || r.err != nil {
		return nil, false
	}
	if !r.checkSignature() {
		return nil, false
	}
	for r.next >= len(r.records) {
		if !r.readChunk() {
			return nil, false
		}
	}
	rec := r.records[r.next]
	r.next++
	return rec, true
}

// readChunk pulls, validates and decodes the next chunk.
func (r *Reader) readChunk() bool {
	r.chunkOffset = r.in.Pos()
	if !r.in.Pull(codec.HeaderSize) {
		if !r.in.OK() {
			r.err = r.in.Err()
		} else if len(r.in.Data()) != 0 {
			r.err = ErrTruncated
		}
		return false
	}
	hdr, err := r.codec.DecodeHeader(r.in.Data()[:codec.HeaderSize])
	if err != nil {
		r.err = err
		return false
	}
	r.in.Advance(codec.HeaderSize)
	compressed, ok := stream.ReadBytes(r.in, int(hdr.CompressedSize))
	if !ok {
		if !r.in.OK() {
			r.err = r.in.Err()
		} else {
			r.err = ErrTruncated
		}
		return false
	}
	payload, err := r.codec.DecodePayload(hdr, compressed)
	if err != nil {
		r.err = err
		return false
	}
	records, err := r.codec.SplitRecords(payload, int(hdr.NumRecords))
	if err != nil {
		r.err = err
		return false
	}
	r.records = records
	r.next = 0
	return true
}

// Pos returns the position of the next record.
func (r *Reader) Pos() Position {
	if r.next >= len(r.records) {
		return Position{ChunkOffset: r.in.Pos(), RecordIndex: 0}
	}
	return Position{ChunkOffset: r.chunkOffset, RecordIndex: r.next}
}

// SeekToPosition repositions the reader onto the record at p. The
// underlying stream must support seeking.
func (r *Reader) SeekToPosition(p Position) error {
	if r.closed {
		return ErrClosed
	}
	s, ok := r.in.(stream.Seeker)
	if !ok {
		return ErrUnseekable
	}
	if p.ChunkOffset < SignatureSize || p.RecordIndex < 0 {
		return ErrOutOfRange
	}
	if !s.Seek(p.ChunkOffset) {
		r.err = r.in.Err()
		return r.err
	}
	r.err = nil
	r.started = true
	r.records = nil
	r.next = 0
	if p.RecordIndex > 0 {
		if !r.readChunk() {
			if r.err == nil {
				r.err = ErrOutOfRange
			}
			return r.err
		}
		if p.RecordIndex > len(r.records) {
			r.err = ErrOutOfRange
			return r.err
		}
		r.next = p.RecordIndex
	}
	return nil
}

// Err returns the failure status, or nil after a clean end of file.
func (r *Reader) Err() error { return r.err }

// Iterator returns a streaming iterator over the remaining records.
func (r *Reader) Iterator() RecordIterator {
	return &recordIterator{reader: r}
}

// Close releases the underlying stream if the reader owns it.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if r.ownsIn {
		return r.in.Close()
	}
	return nil
}

// recordIterator implements RecordIterator for streaming access.
type recordIterator struct {
	reader *Reader
	record []byte
}

func (it *recordIterator) Next() bool {
	rec, ok := it.reader.Next()
	it.record = rec
	return ok
}

func (it *recordIterator) Record() []byte {
	return it.record
}

func (it *recordIterator) Close() error {
	// The underlying reader is owned by the caller.
	return nil
}

package records

import (
	"fmt"
	"sort"

	"github.com/douzebis/riegeli/pkg/codec"
	"github.com/douzebis/riegeli/pkg/stream"
)

// Index maps record ordinals to positions for random access. It is built
// by scanning chunk headers only; payloads are skipped, not decompressed.
type Index struct {
	chunks []chunkEntry
	total  int
}

type chunkEntry struct {
	offset       int64
	firstOrdinal int
	numRecords   int
}

// BuildIndex scans the record file at path and returns its index.
func BuildIndex(path string) (*Index, error) {
	in, err := stream.NewFileReader(stream.FileReaderConfig{FilePath: path})
	if err != nil {
		return nil, fmt.Errorf("failed to open record file: %w", err)
	}
	defer in.Close()
	return buildIndex(in)
}

func buildIndex(in stream.Reader) (*Index, error) {
	r := NewReader(in)
	if !r.checkSignature() {
		if r.err != nil {
			return nil, r.err
		}
		return nil, ErrBadSignature
	}
	cc := codec.NewChunkCodec()
	ix := &Index{}
	for {
		offset := in.Pos()
		if !in.Pull(codec.HeaderSize) {
			if !in.OK() {
				return nil, in.Err()
			}
			if len(in.Data()) != 0 {
				return nil, ErrTruncated
			}
			return ix, nil
		}
		hdr, err := cc.DecodeHeader(in.Data()[:codec.HeaderSize])
		if err != nil {
			return nil, err
		}
		in.Advance(codec.HeaderSize)
		if !stream.Skip(in, int64(hdr.CompressedSize)) {
			return nil, ErrTruncated
		}
		ix.chunks = append(ix.chunks, chunkEntry{
			offset:       offset,
			firstOrdinal: ix.total,
			numRecords:   int(hdr.NumRecords),
		})
		ix.total += int(hdr.NumRecords)
	}
}

// NumRecords returns the total record count.
func (ix *Index) NumRecords() int { return ix.total }

// NumChunks returns the chunk count.
func (ix *Index) NumChunks() int { return len(ix.chunks) }

// Lookup returns the position of the record with the given ordinal.
func (ix *Index) Lookup(ordinal int) (Position, error) {
	if ordinal < 0 || ordinal >= ix.total {
		return Position{}, ErrOutOfRange
	}
	i := sort.Search(len(ix.chunks), func(j int) bool {
		return ix.chunks[j].firstOrdinal > ordinal
	}) - 1
	e := ix.chunks[i]
	return Position{
		ChunkOffset: e.offset,
		RecordIndex: ordinal - e.firstOrdinal,
	}, nil
}

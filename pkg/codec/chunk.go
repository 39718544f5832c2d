package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/minio/highwayhash"
)

// Codec identifies the compression applied to a chunk payload.
type Codec byte

const (
	CodecNone   Codec = 0
	CodecSnappy Codec = 1
	CodecZstd   Codec = 2
	CodecGzip   Codec = 3
)

func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecSnappy:
		return "snappy"
	case CodecZstd:
		return "zstd"
	case CodecGzip:
		return "gzip"
	default:
		return fmt.Sprintf("unknown(%d)", byte(c))
	}
}

// ParseCodec maps a codec name to its identifier.
func ParseCodec(name string) (Codec, error) {
	switch name {
	case "none", "":
		return CodecNone, nil
	case "snappy":
		return CodecSnappy, nil
	case "zstd":
		return CodecZstd, nil
	case "gzip":
		return CodecGzip, nil
	default:
		return 0, fmt.Errorf("%w: unknown codec %q", ErrInvalidChunk, name)
	}
}

// chunkMagic starts every chunk header.
var chunkMagic = [4]byte{'R', 'G', 'L', 'C'}

// HeaderSize is the fixed encoded size of a chunk header.
// Layout: [Magic(4)][Codec(1)][NumRecords(4)][UncompressedSize(4)]
// [CompressedSize(4)][Hash(8)], little-endian.
const HeaderSize = 25

// MaxChunkSize bounds the uncompressed payload of a single chunk.
const MaxChunkSize = 1 << 30

// hashKey is the fixed HighwayHash key used for chunk integrity. Changing
// it breaks compatibility with existing files.
var hashKey = [32]byte{
	'r', 'i', 'e', 'g', 'e', 'l', 'i', '/',
	'r', 'e', 'c', 'o', 'r', 'd', 's', '/',
	'c', 'h', 'u', 'n', 'k', '/', 'h', 'a',
	's', 'h', '/', 'k', 'e', 'y', '/', '1',
}

// Errors reported by chunk decoding.
var (
	ErrInvalidChunk = &ChunkError{"invalid chunk"}
	ErrCorruption   = &ChunkError{"chunk corruption detected"}
)

// ChunkError represents a chunk encoding or decoding error.
type ChunkError struct {
	Message string
}

func (e *ChunkError) Error() string {
	return e.Message
}

// Header describes one chunk of records.
type Header struct {
	Codec            Codec
	NumRecords       uint32
	UncompressedSize uint32
	CompressedSize   uint32
	Hash             uint64
}

// ChunkCodec encodes and decodes record chunks. The payload of a chunk is
// the varint-length-prefixed concatenation of its records, hashed with
// HighwayHash-64 before compression.
type ChunkCodec struct{}

// NewChunkCodec creates a new chunk codec instance.
func NewChunkCodec() *ChunkCodec {
	return &ChunkCodec{}
}

// HashPayload returns the integrity hash of an uncompressed payload.
func (c *ChunkCodec) HashPayload(payload []byte) uint64 {
	return highwayhash.Sum64(payload, hashKey[:])
}

// EncodeChunk serializes an uncompressed payload of numRecords records into
// a framed chunk: header followed by the compressed payload.
func (c *ChunkCodec) EncodeChunk(cc Codec, payload []byte, numRecords int) ([]byte, error) {
	if len(payload) > MaxChunkSize {
		return nil, fmt.Errorf("%w: payload of %d exceeds %d", ErrInvalidChunk, len(payload), MaxChunkSize)
	}
	compressed, err := compress(cc, payload)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, HeaderSize+len(compressed))
	copy(buf[0:4], chunkMagic[:])
	buf[4] = byte(cc)
	binary.LittleEndian.PutUint32(buf[5:], uint32(numRecords))
	binary.LittleEndian.PutUint32(buf[9:], uint32(len(payload)))
	binary.LittleEndian.PutUint32(buf[13:], uint32(len(compressed)))
	binary.LittleEndian.PutUint64(buf[17:], c.HashPayload(payload))
	copy(buf[HeaderSize:], compressed)
	return buf, nil
}

// DecodeHeader parses a chunk header from data.
func (c *ChunkCodec) DecodeHeader(data []byte) (Header, error) {
	var h Header
	if len(data) < HeaderSize {
		return h, fmt.Errorf("%w: header truncated at %d bytes", ErrInvalidChunk, len(data))
	}
	if [4]byte(data[0:4]) != chunkMagic {
		return h, fmt.Errorf("%w: bad magic", ErrCorruption)
	}
	h.Codec = Codec(data[4])
	h.NumRecords = binary.LittleEndian.Uint32(data[5:])
	h.UncompressedSize = binary.LittleEndian.Uint32(data[9:])
	h.CompressedSize = binary.LittleEndian.Uint32(data[13:])
	h.Hash = binary.LittleEndian.Uint64(data[17:])
	if h.UncompressedSize > MaxChunkSize {
		return h, fmt.Errorf("%w: uncompressed size %d exceeds %d", ErrCorruption, h.UncompressedSize, MaxChunkSize)
	}
	return h, nil
}

// DecodePayload decompresses and validates a chunk payload against its
// header.
func (c *ChunkCodec) DecodePayload(h Header, compressed []byte) ([]byte, error) {
	if len(compressed) != int(h.CompressedSize) {
		return nil, fmt.Errorf("%w: payload is %d bytes, header says %d", ErrCorruption, len(compressed), h.CompressedSize)
	}
	payload, err := decompress(h.Codec, compressed, int(h.UncompressedSize))
	if err != nil {
		return nil, err
	}
	if len(payload) != int(h.UncompressedSize) {
		return nil, fmt.Errorf("%w: decompressed to %d bytes, header says %d", ErrCorruption, len(payload), h.UncompressedSize)
	}
	if c.HashPayload(payload) != h.Hash {
		return nil, fmt.Errorf("%w: payload hash mismatch", ErrCorruption)
	}
	return payload, nil
}

// SplitRecords parses a decoded payload into its records. The returned
// slices alias payload.
func (c *ChunkCodec) SplitRecords(payload []byte, numRecords int) ([][]byte, error) {
	records := make([][]byte, 0, numRecords)
	for i := 0; i < numRecords; i++ {
		size, n := binary.Uvarint(payload)
		if n <= 0 || uint64(len(payload)-n) < size {
			return nil, fmt.Errorf("%w: record %d framing", ErrCorruption, i)
		}
		records = append(records, payload[n:n+int(size)])
		payload = payload[n+int(size):]
	}
	if len(payload) != 0 {
		return nil, fmt.Errorf("%w: %d trailing payload bytes", ErrCorruption, len(payload))
	}
	return records, nil
}

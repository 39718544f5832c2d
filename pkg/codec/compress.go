package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
)

// Shared one-shot zstd coders; both are safe for concurrent use.
var (
	zstdEncoder, _ = zstd.NewWriter(nil)
	zstdDecoder, _ = zstd.NewReader(nil)
)

func compress(c Codec, payload []byte) ([]byte, error) {
	switch c {
	case CodecNone:
		return payload, nil
	case CodecSnappy:
		return snappy.Encode(nil, payload), nil
	case CodecZstd:
		return zstdEncoder.EncodeAll(payload, nil), nil
	case CodecGzip:
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(payload); err != nil {
			return nil, fmt.Errorf("gzip compression failed: %w", err)
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("gzip compression failed: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: codec %d", ErrInvalidChunk, byte(c))
	}
}

func decompress(c Codec, compressed []byte, uncompressedSize int) ([]byte, error) {
	switch c {
	case CodecNone:
		return compressed, nil
	case CodecSnappy:
		payload, err := snappy.Decode(nil, compressed)
		if err != nil {
			return nil, fmt.Errorf("%w: snappy: %v", ErrCorruption, err)
		}
		return payload, nil
	case CodecZstd:
		payload, err := zstdDecoder.DecodeAll(compressed, make([]byte, 0, uncompressedSize))
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %v", ErrCorruption, err)
		}
		return payload, nil
	case CodecGzip:
		zr, err := gzip.NewReader(bytes.NewReader(compressed))
		if err != nil {
			return nil, fmt.Errorf("%w: gzip: %v", ErrCorruption, err)
		}
		payload, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("%w: gzip: %v", ErrCorruption, err)
		}
		if err := zr.Close(); err != nil {
			return nil, fmt.Errorf("%w: gzip: %v", ErrCorruption, err)
		}
		return payload, nil
	default:
		return nil, fmt.Errorf("%w: codec %d", ErrCorruption, byte(c))
	}
}

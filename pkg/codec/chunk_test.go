package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPayload frames records the way the record layer does.
func buildPayload(records ...[]byte) []byte {
	var payload []byte
	for _, rec := range records {
		payload = binary.AppendUvarint(payload, uint64(len(rec)))
		payload = append(payload, rec...)
	}
	return payload
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cc := NewChunkCodec()
	records := [][]byte{
		[]byte("first"),
		[]byte(""),
		bytes.Repeat([]byte("bulk"), 1000),
	}
	payload := buildPayload(records...)

	for _, comp := range []Codec{CodecNone, CodecSnappy, CodecZstd, CodecGzip} {
		framed, err := cc.EncodeChunk(comp, payload, len(records))
		require.NoError(t, err, comp)

		hdr, err := cc.DecodeHeader(framed)
		require.NoError(t, err, comp)
		assert.Equal(t, comp, hdr.Codec)
		assert.Equal(t, uint32(len(records)), hdr.NumRecords)
		assert.Equal(t, uint32(len(payload)), hdr.UncompressedSize)
		assert.Equal(t, len(framed)-HeaderSize, int(hdr.CompressedSize))

		decoded, err := cc.DecodePayload(hdr, framed[HeaderSize:])
		require.NoError(t, err, comp)
		assert.Equal(t, payload, decoded)

		got, err := cc.SplitRecords(decoded, len(records))
		require.NoError(t, err, comp)
		require.Len(t, got, len(records))
		for i := range records {
			assert.Equal(t, records[i], got[i])
		}
	}
}

func TestCompressionShrinksRepetitivePayload(t *testing.T) {
	cc := NewChunkCodec()
	payload := buildPayload(bytes.Repeat([]byte("repetitive "), 5000))

	framed, err := cc.EncodeChunk(CodecZstd, payload, 1)
	require.NoError(t, err)
	assert.Less(t, len(framed), len(payload)/2)
}

func TestDecodeHeaderRejectsBadMagic(t *testing.T) {
	cc := NewChunkCodec()
	framed, err := cc.EncodeChunk(CodecNone, buildPayload([]byte("x")), 1)
	require.NoError(t, err)

	framed[0] ^= 0xff
	_, err = cc.DecodeHeader(framed)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorruption))
}

func TestDecodeHeaderTruncated(t *testing.T) {
	cc := NewChunkCodec()
	_, err := cc.DecodeHeader(make([]byte, HeaderSize-1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidChunk))
}

func TestPayloadCorruptionDetected(t *testing.T) {
	cc := NewChunkCodec()
	payload := buildPayload(bytes.Repeat([]byte("guarded"), 100))

	framed, err := cc.EncodeChunk(CodecNone, payload, 1)
	require.NoError(t, err)

	// Flip one payload byte; the hash comparison must catch it.
	framed[HeaderSize+10] ^= 0x01
	hdr, err := cc.DecodeHeader(framed)
	require.NoError(t, err)
	_, err = cc.DecodePayload(hdr, framed[HeaderSize:])
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorruption))
}

func TestSplitRecordsRejectsBrokenFraming(t *testing.T) {
	cc := NewChunkCodec()

	// Declared record size runs past the payload end.
	payload := binary.AppendUvarint(nil, 100)
	payload = append(payload, []byte("short")...)
	_, err := cc.SplitRecords(payload, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorruption))

	// Trailing bytes after the declared records.
	payload = buildPayload([]byte("a"))
	payload = append(payload, 0xff)
	_, err = cc.SplitRecords(payload, 1)
	require.Error(t, err)
}

func TestParseCodec(t *testing.T) {
	for name, want := range map[string]Codec{
		"none":   CodecNone,
		"":       CodecNone,
		"snappy": CodecSnappy,
		"zstd":   CodecZstd,
		"gzip":   CodecGzip,
	} {
		got, err := ParseCodec(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseCodec("lz77")
	assert.Error(t, err)
}

func TestHashIsStable(t *testing.T) {
	cc := NewChunkCodec()
	payload := []byte("stable input")
	assert.Equal(t, cc.HashPayload(payload), cc.HashPayload(payload))
	assert.NotEqual(t, cc.HashPayload(payload), cc.HashPayload([]byte("stable inpuT")))
}

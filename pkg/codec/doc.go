// Package codec provides chunk serialization for riegeli record files.
//
// Records are grouped into chunks. A chunk's payload is the
// varint-length-prefixed concatenation of its records; the payload is
// hashed with HighwayHash-64 for integrity, then optionally compressed.
//
// # Chunk Format
//
// Every chunk is serialized as a fixed header followed by the compressed
// payload:
//
//	[Magic(4)][Codec(1)][NumRecords(4)][UncompressedSize(4)][CompressedSize(4)][Hash(8)][Payload]
//
// Fields:
//   - Magic: the bytes "RGLC"
//   - Codec: compression identifier (none, snappy, zstd, gzip)
//   - NumRecords: number of records in the payload (little-endian)
//   - UncompressedSize: payload size before compression (little-endian)
//   - CompressedSize: payload size as stored (little-endian)
//   - Hash: HighwayHash-64 of the uncompressed payload (little-endian)
//
// The hash is computed before compression, so corruption introduced by a
// broken compressor or a bit flip in storage is detected either by the
// decompressor or by the hash comparison.
//
// # Error Handling
//
// Decoding reports ErrCorruption for damaged data (bad magic, hash
// mismatch, size mismatch, broken record framing) and ErrInvalidChunk for
// malformed requests. Both support errors.Is through wrapped returns.
package codec

package records

import (
	"encoding/binary"
	"fmt"

	"github.com/douzebis/riegeli/pkg/chain"
	"github.com/douzebis/riegeli/pkg/codec"
	"github.com/douzebis/riegeli/pkg/stream"
)

// Writer appends records to a stream, grouping them into chunks.
type Writer struct {
	out            stream.Writer
	ownsOut        bool
	codec          *codec.ChunkCodec
	config         WriterConfig
	pending        *chain.Chain
	pendingRecords int
	varint         [binary.MaxVarintLen64]byte
	closed         bool
	err            error
}

// NewWriter returns a writer appending to out. When out is at position 0
// the file signature is written first.
func NewWriter(out stream.Writer, config WriterConfig) *Writer {
	w := &Writer{
		out:     out,
		codec:   codec.NewChunkCodec(),
		config:  config,
		pending: chain.NewChain(),
	}
	if out.Pos() == 0 {
		if !stream.WriteBytes(out, fileSignature[:]) {
			w.err = out.Err()
		}
	}
	return w
}

// Create creates (or truncates) a record file at path and returns a writer
// owning it.
func Create(path string, config WriterConfig) (*Writer, error) {
	out, err := stream.NewFileWriter(stream.FileWriterConfig{
		FilePath:   path,
		BufferSize: config.BufferSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create record file: %w", err)
	}
	w := NewWriter(out, config)
	if w.err != nil {
		out.Close()
		return nil, w.err
	}
	w.ownsOut = true
	return w, nil
}

// WriteRecord appends one record. The record is buffered; Flush or Close
// forces it onto the underlying stream.
func (w *Writer) WriteRecord(rec []byte) error {
	if w.closed {
		return ErrClosed
	}
	if w.err != nil {
		return w.err
	}
	n := binary.PutUvarint(w.varint[:], uint64(len(rec)))
	w.pending.Append(w.varint[:n])
	w.pending.Append(rec, chain.Options{SizeHint: w.pending.Len() + len(rec)})
	w.pendingRecords++
	if w.pending.Len() >= w.config.chunkSize() {
		return w.cutChunk()
	}
	return nil
}

// WriteRecordString appends one record given as a string.
func (w *Writer) WriteRecordString(rec string) error {
	return w.WriteRecord([]byte(rec))
}

// cutChunk encodes the pending records as one chunk and writes it out.
func (w *Writer) cutChunk() error {
	if w.pendingRecords == 0 {
		return nil
	}
	payload := w.pending.Flatten()
	framed, err := w.codec.EncodeChunk(w.config.Codec, payload, w.pendingRecords)
	if err != nil {
		w.err = err
		return err
	}
	if !stream.WriteBytes(w.out, framed) {
		w.err = w.out.Err()
		return w.err
	}
	w.pending.Reset()
	w.pendingRecords = 0
	return nil
}

// Flush cuts the pending chunk and flushes the underlying stream.
func (w *Writer) Flush() error {
	if w.closed {
		return ErrClosed
	}
	if err := w.cutChunk(); err != nil {
		return err
	}
	if !w.out.Flush() {
		w.err = w.out.Err()
		return w.err
	}
	return nil
}

// Pos returns the position the next record will be written at.
func (w *Writer) Pos() Position {
	return Position{ChunkOffset: w.out.Pos(), RecordIndex: w.pendingRecords}
}

// Err returns the sticky failure status, or nil.
func (w *Writer) Err() error { return w.err }

// Close flushes pending records and releases the underlying stream if the
// writer owns it.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	err := w.cutChunk()
	if !w.out.Flush() && err == nil {
		err = w.out.Err()
	}
	if w.ownsOut {
		if closeErr := w.out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	return err
}

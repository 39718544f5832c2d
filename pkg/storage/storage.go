// Package storage persists record-position indexes in a pebble database so
// random access to large record files does not require rescanning chunk
// headers on every open.
package storage

import (
	"encoding/binary"
	"errors"

	"github.com/cockroachdb/pebble"

	"github.com/douzebis/riegeli/pkg/records"
)

// ErrNotFound is returned when an ordinal has no stored position.
var ErrNotFound = errors.New("storage: ordinal not found")

// IndexStore maps record ordinals to positions in a pebble database.
type IndexStore struct {
	db *pebble.DB
}

// OpenIndexStore opens (or creates) an index store at path.
func OpenIndexStore(path string) (*IndexStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &IndexStore{db: db}, nil
}

// PutPosition stores the position of one record ordinal.
func (s *IndexStore) PutPosition(ordinal int, pos records.Position) error {
	return s.db.Set(ordinalKey(ordinal), encodePosition(pos), pebble.NoSync)
}

// GetPosition returns the stored position of a record ordinal.
func (s *IndexStore) GetPosition(ordinal int) (records.Position, error) {
	data, closer, err := s.db.Get(ordinalKey(ordinal))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return records.Position{}, ErrNotFound
		}
		return records.Position{}, err
	}
	defer closer.Close()

	return decodePosition(data)
}

// PutIndex stores every position of a scanned index.
func (s *IndexStore) PutIndex(ix *records.Index) error {
	for ordinal := 0; ordinal < ix.NumRecords(); ordinal++ {
		pos, err := ix.Lookup(ordinal)
		if err != nil {
			return err
		}
		if err := s.PutPosition(ordinal, pos); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *IndexStore) Close() error {
	return s.db.Close()
}

// ordinalKey is the big-endian ordinal, so pebble iterates in record order.
func ordinalKey(ordinal int) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(ordinal))
	return key
}

func encodePosition(pos records.Position) []byte {
	val := make([]byte, 12)
	binary.LittleEndian.PutUint64(val[0:], uint64(pos.ChunkOffset))
	binary.LittleEndian.PutUint32(val[8:], uint32(pos.RecordIndex))
	return val
}

func decodePosition(data []byte) (records.Position, error) {
	if len(data) != 12 {
		return records.Position{}, errors.New("storage: malformed position entry")
	}
	return records.Position{
		ChunkOffset: int64(binary.LittleEndian.Uint64(data[0:])),
		RecordIndex: int(binary.LittleEndian.Uint32(data[8:])),
	}, nil
}

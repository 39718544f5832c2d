package api

import (
	"encoding/base64"
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/douzebis/riegeli/pkg/records"
)

// handleHealth reports server liveness
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleRecord serves a single record by ordinal
func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	ordinal, err := strconv.Atoi(chi.URLParam(r, "ordinal"))
	if err != nil {
		s.metrics.lookupErrorsTotal.WithLabelValues("bad_ordinal").Inc()
		sendError(w, "ordinal must be an integer", http.StatusBadRequest)
		return
	}

	pos, err := s.index.Lookup(ordinal)
	if err != nil {
		s.metrics.lookupErrorsTotal.WithLabelValues("not_found").Inc()
		sendError(w, "record not found", http.StatusNotFound)
		return
	}

	rec, err := s.readRecord(pos)
	if err != nil {
		s.metrics.lookupErrorsTotal.WithLabelValues("read_failed").Inc()
		sendError(w, "failed to read record: "+err.Error(), http.StatusInternalServerError)
		return
	}

	s.metrics.recordsServedTotal.Inc()
	s.metrics.recordBytesServed.Add(float64(len(rec)))

	sendSuccess(w, RecordResponse{
		Ordinal:     ordinal,
		ChunkOffset: pos.ChunkOffset,
		RecordIndex: pos.RecordIndex,
		Size:        len(rec),
		Data:        base64.StdEncoding.EncodeToString(rec),
	})
}

// readRecord opens the file and reads the record at pos
func (s *Server) readRecord(pos records.Position) ([]byte, error) {
	reader, err := records.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	if err := reader.SeekToPosition(pos); err != nil {
		return nil, err
	}
	rec, ok := reader.Next()
	if !ok {
		if reader.Err() != nil {
			return nil, reader.Err()
		}
		return nil, errors.New("record past end of file")
	}
	out := make([]byte, len(rec))
	copy(out, rec)
	return out, nil
}

// handleStats serves file-level statistics
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	var fileSize int64
	if stat, err := os.Stat(s.path); err == nil {
		fileSize = stat.Size()
	}

	sendSuccess(w, StatsResponse{
		Path:          s.path,
		Records:       s.index.NumRecords(),
		Chunks:        s.index.NumChunks(),
		FileSizeBytes: fileSize,
	})
}

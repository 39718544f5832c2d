package stream

import (
	"os"
	"path/filepath"
)

// FileWriterConfig holds configuration for a file writer.
type FileWriterConfig struct {
	FilePath    string // Path to the file
	BufferSize  int    // Write buffer size (0 = default)
	Append      bool   // Append to an existing file instead of truncating
	SyncOnFlush bool   // Fsync on every Flush
}

// FileWriter writes to a file descriptor through an internal buffer exposed
// as the push window.
type FileWriter struct {
	file   *os.File
	path   string
	config FileWriterConfig
	buf    []byte
	fill   int
	pos    int64
	err    error
}

// NewFileWriter creates the file (and any missing directories) and returns
// a writer over it.
func NewFileWriter(config FileWriterConfig) (*FileWriter, error) {
	if err := os.MkdirAll(filepath.Dir(config.FilePath), 0750); err != nil {
		return nil, ioError("failed to create directory", config.FilePath, 0, err)
	}
	flags := os.O_CREATE | os.O_WRONLY
	if config.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	file, err := os.OpenFile(config.FilePath, flags, 0600)
	if err != nil {
		return nil, ioError("failed to open file", config.FilePath, 0, err)
	}
	pos := int64(0)
	if config.Append {
		stat, err := file.Stat()
		if err != nil {
			file.Close()
			return nil, ioError("failed to stat file", config.FilePath, 0, err)
		}
		pos = stat.Size()
	}
	size := config.BufferSize
	if size <= 0 {
		size = defaultBufferSize
	}
	return &FileWriter{
		file:   file,
		path:   config.FilePath,
		config: config,
		buf:    make([]byte, size),
		pos:    pos,
	}, nil
}

// Push ensures min bytes of writable window, flushing the buffer as needed.
func (w *FileWriter) Push(min int) bool {
	if w.err != nil {
		return false
	}
	if len(w.buf)-w.fill >= min {
		return true
	}
	if !w.writeOut() {
		return false
	}
	if min > len(w.buf) {
		w.buf = make([]byte, min)
	}
	return true
}

// Data returns the current writable window.
func (w *FileWriter) Data() []byte { return w.buf[w.fill:] }

// Advance commits n bytes written into the window.
func (w *FileWriter) Advance(n int) {
	w.fill += n
	w.pos += int64(n)
}

// Pos returns the logical position.
func (w *FileWriter) Pos() int64 { return w.pos }

// OK reports writer health.
func (w *FileWriter) OK() bool { return w.err == nil }

// Err returns the failure status, or nil.
func (w *FileWriter) Err() error { return w.err }

// SetWriteSizeHint is accepted for interface compatibility; file sinks need
// no pre-sizing.
func (w *FileWriter) SetWriteSizeHint(int64) {}

// Flush writes buffered bytes to the file, optionally fsyncing.
func (w *FileWriter) Flush() bool {
	if w.err != nil {
		return false
	}
	if !w.writeOut() {
		return false
	}
	if w.config.SyncOnFlush {
		if err := w.file.Sync(); err != nil {
			w.err = ioError("fsync failed", w.path, w.pos, err)
			return false
		}
	}
	return true
}

func (w *FileWriter) writeOut() bool {
	if w.fill == 0 {
		return true
	}
	if _, err := w.file.Write(w.buf[:w.fill]); err != nil {
		w.err = ioError("write failed", w.path, w.pos-int64(w.fill), err)
		return false
	}
	w.fill = 0
	return true
}

// Close flushes and closes the underlying file.
func (w *FileWriter) Close() error {
	flushErr := error(nil)
	if !w.Flush() {
		flushErr = w.err
	}
	if err := w.file.Close(); err != nil && flushErr == nil {
		flushErr = ioError("close failed", w.path, w.pos, err)
	}
	return flushErr
}

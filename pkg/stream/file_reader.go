package stream

import (
	"io"
	"os"
)

// defaultBufferSize is the window buffer size for file-backed streams.
const defaultBufferSize = 64 << 10

// FileReaderConfig holds configuration for a file reader.
type FileReaderConfig struct {
	FilePath   string // Path to the file
	BufferSize int    // Read buffer size (0 = default)
}

// FileReader reads from a file descriptor through an internal buffer
// exposed as the pull window. Failures are annotated with the path and
// position.
type FileReader struct {
	file *os.File
	path string
	buf  []byte
	lo   int // buf[lo:hi] holds unread bytes
	hi   int
	pos  int64 // logical position of buf[lo]
	eof  bool
	err  error
}

// NewFileReader opens the configured file for sequential reading.
func NewFileReader(config FileReaderConfig) (*FileReader, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, ioError("failed to open file", config.FilePath, 0, err)
	}
	size := config.BufferSize
	if size <= 0 {
		size = defaultBufferSize
	}
	return &FileReader{
		file: file,
		path: config.FilePath,
		buf:  make([]byte, size),
	}, nil
}

// Pull ensures min bytes in the window, reading from the file as needed.
func (r *FileReader) Pull(min int) bool {
	if r.err != nil {
		return false
	}
	if r.hi-r.lo >= min {
		return true
	}
	if min > len(r.buf) {
		grown := make([]byte, min)
		copy(grown, r.buf[r.lo:r.hi])
		r.hi -= r.lo
		r.lo = 0
		r.buf = grown
	} else if len(r.buf)-r.lo < min {
		copy(r.buf, r.buf[r.lo:r.hi])
		r.hi -= r.lo
		r.lo = 0
	}
	for r.hi-r.lo < min && !r.eof {
		n, err := r.file.Read(r.buf[r.hi:])
		r.hi += n
		if err == io.EOF {
			r.eof = true
			break
		}
		if err != nil {
			r.err = ioError("read failed", r.path, r.pos+int64(r.hi-r.lo), err)
			return false
		}
	}
	return r.hi-r.lo >= min
}

// Data returns the current readable window.
func (r *FileReader) Data() []byte { return r.buf[r.lo:r.hi] }

// Advance consumes n bytes of the window.
func (r *FileReader) Advance(n int) {
	r.lo += n
	r.pos += int64(n)
}

// Pos returns the logical position.
func (r *FileReader) Pos() int64 { return r.pos }

// OK reports reader health. End of file is not a failure.
func (r *FileReader) OK() bool { return r.err == nil }

// Err returns the failure status, or nil.
func (r *FileReader) Err() error { return r.err }

// Size returns the current file size.
func (r *FileReader) Size() (int64, bool) {
	stat, err := r.file.Stat()
	if err != nil {
		return 0, false
	}
	return stat.Size(), true
}

// Seek repositions the reader, dropping the buffered window.
func (r *FileReader) Seek(pos int64) bool {
	if r.err != nil {
		return false
	}
	if pos < 0 {
		r.err = outOfRange("seek to negative position")
		return false
	}
	if _, err := r.file.Seek(pos, io.SeekStart); err != nil {
		r.err = ioError("seek failed", r.path, pos, err)
		return false
	}
	r.lo, r.hi = 0, 0
	r.pos = pos
	r.eof = false
	return true
}

// Close closes the underlying file.
func (r *FileReader) Close() error {
	return r.file.Close()
}

package out

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	apperrors "crtsh-subs/internal/platform/errors"
)

// Writer emits one hostname per line to a file or to stdout, skipping
// duplicates and empty lines. It is not safe for concurrent use.
type Writer struct {
	path   string
	file   *os.File
	buf    *bufio.Writer
	seen   map[string]struct{}
	count  int
	closed bool
}

// New opens path for writing, truncating it. Missing parent directories are
// created first.
func New(path string) (*Writer, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, apperrors.NewFilesystemError("create directory", dir, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, apperrors.NewFilesystemError("open", path, err)
	}
	return &Writer{
		path: path,
		file: f,
		buf:  bufio.NewWriterSize(f, 64*1024),
		seen: make(map[string]struct{}),
	}, nil
}

// NewStream writes to w (normally os.Stdout). Close flushes but never closes w.
func NewStream(w io.Writer) *Writer {
	return &Writer{
		buf:  bufio.NewWriter(w),
		seen: make(map[string]struct{}),
	}
}

// Open returns a file writer when path is set and a stream writer on stdout
// otherwise.
func Open(path string, stdout io.Writer) (*Writer, error) {
	if path == "" {
		return NewStream(stdout), nil
	}
	return New(path)
}

// Path returns the destination file, or "" for a stream.
func (w *Writer) Path() string {
	return w.path
}

// Count returns the number of lines written so far.
func (w *Writer) Count() int {
	return w.count
}

func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	var err error
	if w.buf != nil {
		if e := w.buf.Flush(); e != nil && err == nil {
			err = e
		}
	}
	if w.file != nil {
		if e := w.file.Close(); e != nil && err == nil {
			err = e
		}
	}
	if err != nil && w.path != "" {
		return apperrors.NewFilesystemError("write", w.path, err)
	}
	return err
}

// WriteLine writes a trimmed line unless it was already written.
func (w *Writer) WriteLine(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	if w.closed {
		return os.ErrClosed
	}

	if _, ok := w.seen[line]; ok {
		return nil
	}
	w.seen[line] = struct{}{}

	if _, err := w.buf.WriteString(line); err != nil {
		return err
	}
	if err := w.buf.WriteByte('\n'); err != nil {
		return err
	}
	w.count++
	return nil
}

// WriteAll writes every line in order.
func (w *Writer) WriteAll(lines []string) error {
	for _, line := range lines {
		if err := w.WriteLine(line); err != nil {
			if w.path != "" {
				return apperrors.NewFilesystemError("write", w.path, err)
			}
			return err
		}
	}
	return nil
}

package ledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/actadigital/registry/internal/domain"
)

// one mutex per absolute path, shared by every FileLog in the process
var pathLocks sync.Map // map[string]*sync.Mutex

func lockFor(path string) *sync.Mutex {
	v, _ := pathLocks.LoadOrStore(path, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// FileLog stores lines in a newline-delimited file.
type FileLog struct {
	name string
	path string
	mu   *sync.Mutex
}

// NewFileLog returns a log backed by path. The file and its directory are
// created lazily on the first Append.
func NewFileLog(name, path string) (*FileLog, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve ledger path %q: %w", path, err)
	}
	if name == "" {
		name = filepath.Base(abs)
	}
	return &FileLog{name: name, path: abs, mu: lockFor(abs)}, nil
}

func (f *FileLog) Name() string { return f.name }

// Path returns the absolute path of the backing file.
func (f *FileLog) Path() string { return f.path }

// Append writes line plus a newline in a single write and fsyncs the file.
// A torn tail left by an interrupted writer is first closed off with a
// newline so it stays an isolated, skippable line.
func (f *FileLog) Append(ctx context.Context, line []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if bytes.IndexByte(line, '\n') >= 0 {
		return fmt.Errorf("%w: line contains a newline", domain.ErrMalformedRecord)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return f.unavailable("append", err)
	}
	fh, err := os.OpenFile(f.path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return f.unavailable("append", err)
	}
	defer fh.Close()

	torn, err := endsTorn(fh)
	if err != nil {
		return f.unavailable("append", err)
	}
	buf := make([]byte, 0, len(line)+2)
	if torn {
		buf = append(buf, '\n')
	}
	buf = append(buf, line...)
	buf = append(buf, '\n')
	if _, err := fh.Write(buf); err != nil {
		return f.unavailable("append", err)
	}
	if err := fh.Sync(); err != nil {
		return f.unavailable("sync", err)
	}
	return nil
}

// endsTorn reports whether a non-empty file lacks a trailing newline.
func endsTorn(fh *os.File) (bool, error) {
	st, err := fh.Stat()
	if err != nil {
		return false, err
	}
	if st.Size() == 0 {
		return false, nil
	}
	last := make([]byte, 1)
	if _, err := fh.ReadAt(last, st.Size()-1); err != nil {
		return false, err
	}
	return last[0] != '\n', nil
}

// ReadAll reads the file up to the size observed at open, so a concurrent
// Append is either fully visible or at most a torn last line.
func (f *FileLog) ReadAll(ctx context.Context) ([][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fh, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return [][]byte{}, nil
		}
		return nil, f.unavailable("read", err)
	}
	defer fh.Close()
	st, err := fh.Stat()
	if err != nil {
		return nil, f.unavailable("read", err)
	}
	if st.IsDir() {
		return nil, f.unavailable("read", fmt.Errorf("%s is a directory", f.path))
	}
	data, err := io.ReadAll(io.LimitReader(fh, st.Size()))
	if err != nil {
		return nil, f.unavailable("read", err)
	}
	return splitLines(data), nil
}

func (f *FileLog) unavailable(op string, err error) error {
	return fmt.Errorf("%s ledger %s: %w: %w", op, f.name, domain.ErrStorageUnavailable, err)
}

// splitLines splits on '\n', keeping an unterminated tail as its own line.
func splitLines(data []byte) [][]byte {
	out := [][]byte{}
	for len(data) > 0 {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			out = append(out, data)
			break
		}
		out = append(out, data[:i])
		data = data[i+1:]
	}
	return out
}

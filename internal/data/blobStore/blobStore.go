package blobStore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/akolanti/DocQA/pkg/logger_i"
)

var ErrBlobNotFound = errors.New("blob not found")

// Store keeps raw uploads on local disk. A handle is the file name inside dir.
type Store struct {
	dir    string
	logger *logger_i.Logger
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir, logger: logger_i.NewLogger("blob_store")}, nil
}

// Save writes r under "<docId>_<base filename>" and returns the handle and byte count.
func (s *Store) Save(docId, filename string, r io.Reader) (string, int64, error) {
	handle := docId + "_" + filepath.Base(filename)
	path := filepath.Join(s.dir, handle)

	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("create blob: %w", err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", 0, fmt.Errorf("write blob: %w", err)
	}
	return handle, n, nil
}

// Path resolves a handle to a local file path, refusing handles that escape dir.
func (s *Store) Path(handle string) (string, error) {
	if handle == "" || strings.ContainsAny(handle, `/\`) || handle == "." || handle == ".." {
		return "", fmt.Errorf("%w: %q", ErrBlobNotFound, handle)
	}
	path := filepath.Join(s.dir, handle)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrBlobNotFound, handle)
		}
		return "", err
	}
	return path, nil
}

func (s *Store) Open(handle string) (*os.File, error) {
	path, err := s.Path(handle)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

func (s *Store) Remove(handle string) error {
	path, err := s.Path(handle)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return err
	}
	s.logger.Debug("blob removed", "handle", handle)
	return nil
}

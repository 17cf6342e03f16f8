// Package jsonstore keeps a slice of records in a single JSON document that is
// rewritten in full on every change.
package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const indent = "    "

type File[T any] struct {
	path string
	log  *zap.Logger
	mu   sync.Mutex
	now  func() time.Time
}

func New[T any](path string, log *zap.Logger) *File[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &File[T]{path: path, log: log.With(zap.String("file", path)), now: time.Now}
}

func (f *File[T]) Path() string {
	return f.path
}

// Load never fails: a missing file is created empty and a corrupt one reads
// as empty after it has been copied aside.
func (f *File[T]) Load() []T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load()
}

// Save replaces the whole document.
func (f *File[T]) Save(records []T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.save(records)
}

// Update runs a read-modify-write cycle under the file lock. Nothing is
// written when fn returns an error.
func (f *File[T]) Update(fn func(records []T) ([]T, error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := fn(f.load())
	if err != nil {
		return err
	}
	return f.save(records)
}

func (f *File[T]) load() []T {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := f.save([]T{}); err != nil {
				f.log.Error("failed to create store file", zap.Error(err))
				return []T{}
			}
			f.log.Info("created store file")
			return []T{}
		}
		f.log.Warn("failed to read store file, using empty collection", zap.Error(err))
		return []T{}
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		f.log.Warn("store file is empty, using empty collection")
		return []T{}
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		backup, berr := f.preserve(data)
		if berr != nil {
			f.log.Error("store file is corrupted and could not be preserved", zap.Error(err), zap.NamedError("backup_error", berr))
		} else {
			f.log.Error("store file is corrupted, using empty collection", zap.String("backup", backup), zap.Error(err))
		}
		return []T{}
	}
	if records == nil {
		records = []T{}
	}
	return records
}

// preserve copies an undecodable document next to the store so the next save
// does not destroy it.
func (f *File[T]) preserve(data []byte) (string, error) {
	backup := fmt.Sprintf("%s.corrupt-%d", f.path, f.now().Unix())
	if err := os.WriteFile(backup, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", backup, err)
	}
	return backup, nil
}

func (f *File[T]) save(records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", indent)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", f.path, err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", f.path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to chmod %s: %w", f.path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", f.path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", f.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", f.path, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", f.path, err)
	}

	f.log.Debug("saved store file", zap.Int("records", len(records)))
	return nil
}

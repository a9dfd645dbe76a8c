// internal/consultlog/file.go
//
// JSON-lines file backend. One entry per line, append-only, so the log
// survives crashes and stays diffable.

package consultlog

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

const fileStoreName = "consultations.jsonl"

// FileStore appends entries to a JSONL file under the data directory.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates (or reuses) the consultation file under dataDir.
func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("consultlog: ensure data dir: %w", err)
	}
	return &FileStore{path: filepath.Join(dataDir, fileStoreName)}, nil
}

// Path returns the file backing this store.
func (s *FileStore) Path() string { return s.path }

// Append writes one entry as a JSON line.
func (s *FileStore) Append(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	encoded, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("consultlog: encode entry: %w", err)
	}
	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("consultlog: open %s: %w", s.path, err)
	}
	defer file.Close()
	if _, err := file.Write(append(encoded, '\n')); err != nil {
		return fmt.Errorf("consultlog: append entry: %w", err)
	}
	return nil
}

// Recent reads the file and returns up to n entries, newest-first.
func (s *FileStore) Recent(n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	file, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("consultlog: open %s: %w", s.path, err)
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, fmt.Errorf("consultlog: corrupt entry in %s: %w", s.path, err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("consultlog: scan %s: %w", s.path, err)
	}
	if len(entries) == 0 {
		return nil, nil
	}
	start := len(entries) - n
	if start < 0 {
		start = 0
	}
	out := make([]Entry, 0, len(entries)-start)
	for i := len(entries) - 1; i >= start; i-- {
		out = append(out, entries[i])
	}
	return out, nil
}

// Close is a no-op; the file is opened per operation.
func (s *FileStore) Close() error { return nil }

func init() {
	Register("file", func(dataDir string) (Store, error) {
		return NewFileStore(dataDir)
	})
}

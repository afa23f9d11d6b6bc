package pricing

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// cacheFileName is the file DirStorage keeps the price sheet in.
const cacheFileName = "pricing-cache.json"

// Entry is a stored price sheet with the time it was fetched.
type Entry struct {
	Data      json.RawMessage `json:"data"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// Storage persists the most recent price sheet.
type Storage interface {
	Load() (Entry, bool, error)
	Save(Entry) error
}

// MemoryStorage keeps the price sheet in memory.
type MemoryStorage struct {
	mu    sync.Mutex
	entry *Entry
}

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Load() (Entry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entry == nil {
		return Entry{}, false, nil
	}
	return *m.entry, true, nil
}

func (m *MemoryStorage) Save(e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entry = &e
	return nil
}

// DirStorage keeps the price sheet in a file under Dir.
type DirStorage struct {
	Dir string
}

// NewDirStorage creates a store rooted at dir.
func NewDirStorage(dir string) *DirStorage {
	return &DirStorage{Dir: dir}
}

func (d *DirStorage) path() string {
	return filepath.Join(d.Dir, cacheFileName)
}

func (d *DirStorage) Load() (Entry, bool, error) {
	data, err := os.ReadFile(d.path())
	if err != nil {
		if os.IsNotExist(err) {
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("read pricing cache: %w", err)
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return Entry{}, false, fmt.Errorf("parse pricing cache: %w", err)
	}
	return e, true, nil
}

// Save writes the entry atomically through a temp file in the same directory.
func (d *DirStorage) Save(e Entry) error {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return fmt.Errorf("create pricing cache dir: %w", err)
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode pricing cache: %w", err)
	}
	tmp, err := os.CreateTemp(d.Dir, cacheFileName+".*")
	if err != nil {
		return fmt.Errorf("create pricing cache: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write pricing cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write pricing cache: %w", err)
	}
	return os.Rename(tmp.Name(), d.path())
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// FileName is the JSON file a FileStore keeps under its directory.
const FileName = "custom_prizes.json"

// FileStore keeps submissions in one JSON file. A missing or corrupt file
// reads as empty; the next write replaces it.
type FileStore struct {
	mu   sync.Mutex
	path string
	log  zerolog.Logger
}

// NewFileStore stores submissions in dir/custom_prizes.json.
func NewFileStore(dir string, log zerolog.Logger) *FileStore {
	if dir == "" {
		dir = "data"
	}
	return &FileStore{path: filepath.Join(dir, FileName), log: log}
}

// Path is the backing file.
func (f *FileStore) Path() string { return f.path }

func (f *FileStore) List(_ context.Context) ([]Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load(), nil
}

func (f *FileStore) Add(_ context.Context, s Submission) (Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := append(f.load(), s)
	if err := f.save(list); err != nil {
		return Submission{}, err
	}
	return s, nil
}

func (f *FileStore) DeleteAt(_ context.Context, index int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.load()
	if index < 0 || index >= len(list) {
		return indexError(index, len(list))
	}
	list = append(list[:index], list[index+1:]...)
	return f.save(list)
}

func (f *FileStore) load() []Submission {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			f.log.Warn().Err(err).Str("path", f.path).Msg("read custom prizes")
		}
		return nil
	}
	var list []Submission
	if err := json.Unmarshal(data, &list); err != nil {
		f.log.Warn().Err(err).Str("path", f.path).Msg("custom prizes file is corrupt, treating as empty")
		return nil
	}
	return list
}

func (f *FileStore) save(list []Submission) error {
	if list == nil {
		list = []Submission{}
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

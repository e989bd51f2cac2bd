package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"
)

// FileStore keeps a JSON object of key → blob on disk, so several stores may
// share one file under different keys.
type FileStore struct {
	mu   sync.Mutex
	path string
	key  string
}

func NewFileStore(path string, key string) *FileStore {
	if key == "" {
		key = DefaultKey
	}
	return &FileStore{path: path, key: key}
}

func (f *FileStore) Load(ctx context.Context) (Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.readEntries()
	if err != nil {
		return Settings{}, err
	}
	blob, ok := entries[f.key]
	if !ok {
		log.Debugf("No settings under %q in %s, using defaults", f.key, f.path)
		return Defaults(), nil
	}
	return decode(blob)
}

func (f *FileStore) Save(ctx context.Context, s Settings) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.readEntries()
	if err != nil {
		return err
	}
	blob, err := encode(s)
	if err != nil {
		return err
	}
	entries[f.key] = blob

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".settings-*")
	if err != nil {
		return fmt.Errorf("failed to create temp settings file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		log.Errorf("failed to replace settings file %s: %v", f.path, err)
		return err
	}
	return nil
}

func (f *FileStore) readEntries() (map[string]json.RawMessage, error) {
	entries := make(map[string]json.RawMessage)
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode settings file %s: %w", f.path, err)
	}
	return entries, nil
}

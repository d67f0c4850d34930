package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileRepository stores each session as a JSON object in <dir>/<sid>.json (mode 0600).
// Used by the CLI so a login survives process restarts.
type FileRepository struct {
	mu  sync.Mutex
	dir string
}

func NewFileRepository(dir string) *FileRepository {
	return &FileRepository{dir: dir}
}

func (f *FileRepository) path(sid string) (string, error) {
	if sid == "" || filepath.Base(sid) != sid || sid == "." || sid == ".." {
		return "", fmt.Errorf("invalid session id %q", sid)
	}
	return filepath.Join(f.dir, sid+".json"), nil
}

func (f *FileRepository) load(p string) (map[string]string, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	entries := map[string]string{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}
	return entries, nil
}

func (f *FileRepository) save(p string, entries map[string]string) error {
	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

func (f *FileRepository) Get(ctx context.Context, sid, key string) (string, bool, error) {
	p, err := f.path(sid)
	if err != nil {
		return "", false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.load(p)
	if err != nil {
		return "", false, err
	}
	v, ok := entries[key]
	return v, ok, nil
}

func (f *FileRepository) Set(ctx context.Context, sid, key, value string) error {
	p, err := f.path(sid)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.load(p)
	if err != nil {
		return err
	}
	entries[key] = value
	return f.save(p, entries)
}

func (f *FileRepository) Delete(ctx context.Context, sid string, keys ...string) error {
	p, err := f.path(sid)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(keys) == 0 {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}
	entries, err := f.load(p)
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(entries, k)
	}
	return f.save(p, entries)
}

package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

const snapshotSuffix = ".snapshot.json"

var ErrSnapshotMismatch = errors.New("snapshot belongs to a different key")

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// FileStore writes one JSON snapshot per key into a directory.
type FileStore struct {
	dir    string
	logger zerolog.Logger
}

func NewFileStore(dir string, logger zerolog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir, logger: logger}, nil
}

func (s *FileStore) Load(key string) (*Entry, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, err
	}

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode snapshot for %s: %w", key, err)
	}
	if e.Key != key {
		return nil, ErrSnapshotMismatch
	}
	return &e, nil
}

// Save replaces the snapshot atomically through a temp file and rename.
func (s *FileStore) Save(e *Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode snapshot for %s: %w", e.Key, err)
	}

	tmp, err := os.CreateTemp(s.dir, "snapshot-*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path(e.Key))
}

func (s *FileStore) Clear() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}
	for _, de := range entries {
		if strings.HasSuffix(de.Name(), snapshotSuffix) {
			if err := os.Remove(filepath.Join(s.dir, de.Name())); err != nil {
				return err
			}
		}
	}
	s.logger.Info().Str("dir", s.dir).Msg("Cache snapshots cleared")
	return nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, unsafeName.ReplaceAllString(key, "_")+snapshotSuffix)
}

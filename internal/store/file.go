package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ronreiter/license-crawler/internal/models"
)

// FileStore keeps collections as indented JSON files under a root directory:
// org/<name>/<repo>.json, user/<name>/<repo>.json and <repo>.json for the
// root scope.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir. The directory is created
// on the first save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the root directory
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) ownerDir(o Owner) string {
	if o.Kind == models.OwnerNone {
		return s.dir
	}
	return filepath.Join(s.dir, string(o.Kind), o.Name)
}

// Path returns the file a key is stored in
func (s *FileStore) Path(key Key) string {
	return filepath.Join(s.ownerDir(key.Owner), key.Repo+".json")
}

// Save writes deps for key, replacing any earlier collection
func (s *FileStore) Save(key Key, deps []models.Dependency) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if deps == nil {
		deps = []models.Dependency{}
	}

	data, err := json.MarshalIndent(deps, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	dir := s.ownerDir(key.Owner)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// Write to a temp file first so readers never see a partial collection
	tmp, err := os.CreateTemp(dir, "."+key.Repo+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), s.Path(key)); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Load reads the collection stored for key
func (s *FileStore) Load(key Key) ([]models.Dependency, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", key, models.ErrNotFound)
		}
		return nil, err
	}

	var deps []models.Dependency
	if err := json.Unmarshal(data, &deps); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", key, models.ErrFormat, err)
	}
	return deps, nil
}

// Keys lists the repositories stored under owner, sorted by name
func (s *FileStore) Keys(owner Owner) ([]Key, error) {
	entries, err := os.ReadDir(s.ownerDir(owner))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var keys []Key
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != ".json" {
			continue
		}
		keys = append(keys, Key{Owner: owner, Repo: strings.TrimSuffix(name, ".json")})
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Repo < keys[j].Repo })
	return keys, nil
}

// Owners lists every scope holding at least one collection: the root scope
// first, then organizations, then users.
func (s *FileStore) Owners() ([]Owner, error) {
	var owners []Owner

	rootKeys, err := s.Keys(Owner{})
	if err != nil {
		return nil, err
	}
	if len(rootKeys) > 0 {
		owners = append(owners, Owner{})
	}

	for _, kind := range []models.OwnerKind{models.OwnerOrg, models.OwnerUser} {
		entries, err := os.ReadDir(filepath.Join(s.dir, string(kind)))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			owner := Owner{Kind: kind, Name: e.Name()}
			keys, err := s.Keys(owner)
			if err != nil {
				return nil, err
			}
			if len(keys) > 0 {
				owners = append(owners, owner)
			}
		}
	}
	return owners, nil
}

// Close is a no-op
func (s *FileStore) Close() error { return nil }

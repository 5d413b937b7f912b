// Package store persists one dependency collection per scanned repository.
package store

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ronreiter/license-crawler/internal/models"
)

// Owner is the scope a repository was discovered under. The zero value is
// the root scope used for single repository scans.
type Owner struct {
	Kind models.OwnerKind
	Name string
}

// String returns "org/<name>", "user/<name>" or "" for the root scope.
func (o Owner) String() string {
	if o.Kind == models.OwnerNone {
		return ""
	}
	return string(o.Kind) + "/" + o.Name
}

// Key addresses one persisted collection
type Key struct {
	Owner Owner
	Repo  string
}

func (k Key) String() string {
	if s := k.Owner.String(); s != "" {
		return s + "/" + k.Repo
	}
	return k.Repo
}

// Store is a persistence sink for repository scan results. Saving a key
// twice keeps only the second collection.
type Store interface {
	Save(key Key, deps []models.Dependency) error
	Load(key Key) ([]models.Dependency, error)
	Keys(owner Owner) ([]Key, error)
	Owners() ([]Owner, error)
	Close() error
}

// Open returns the store selected by cfg.Store.
func Open(cfg *models.Config) (Store, error) {
	switch cfg.Store {
	case "", "file":
		return NewFileStore(cfg.OutputDir), nil
	case "sqlite":
		p := cfg.SQLitePath
		if p == "" {
			p = filepath.Join(cfg.OutputDir, "licenses.db")
		}
		return NewSQLiteStore(p)
	default:
		return nil, fmt.Errorf("unknown store %q (want file or sqlite)", cfg.Store)
	}
}

func validateKey(key Key) error {
	if err := validateSegment("repository", key.Repo); err != nil {
		return err
	}
	switch key.Owner.Kind {
	case models.OwnerNone:
		return nil
	case models.OwnerOrg, models.OwnerUser:
		return validateSegment("owner", key.Owner.Name)
	default:
		return fmt.Errorf("invalid owner kind %q", key.Owner.Kind)
	}
}

func validateSegment(what, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%s name is empty", what)
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid %s name %q", what, name)
	}
	return nil
}

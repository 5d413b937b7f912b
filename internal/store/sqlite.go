package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ronreiter/license-crawler/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS repositories (
	owner_kind TEXT NOT NULL,
	owner_name TEXT NOT NULL,
	repo       TEXT NOT NULL,
	records    TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	PRIMARY KEY (owner_kind, owner_name, repo)
);`

const upsertRepository = `
INSERT INTO repositories (owner_kind, owner_name, repo, records, updated_at)
VALUES (:owner_kind, :owner_name, :repo, :records, :updated_at)
ON CONFLICT (owner_kind, owner_name, repo)
DO UPDATE SET records = excluded.records, updated_at = excluded.updated_at`

type repositoryRow struct {
	OwnerKind string    `db:"owner_kind"`
	OwnerName string    `db:"owner_name"`
	Repo      string    `db:"repo"`
	Records   string    `db:"records"`
	UpdatedAt time.Time `db:"updated_at"`
}

// SQLiteStore keeps one row per repository with the collection as JSON
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (and creates if needed) the database at path
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Save upserts the collection for key
func (s *SQLiteStore) Save(key Key, deps []models.Dependency) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if deps == nil {
		deps = []models.Dependency{}
	}
	data, err := json.Marshal(deps)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	row := repositoryRow{
		OwnerKind: string(key.Owner.Kind),
		OwnerName: key.Owner.Name,
		Repo:      key.Repo,
		Records:   string(data),
		UpdatedAt: time.Now().UTC(),
	}
	if _, err := s.db.NamedExec(upsertRepository, row); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Load reads the collection stored for key
func (s *SQLiteStore) Load(key Key) ([]models.Dependency, error) {
	var records string
	err := s.db.Get(&records,
		`SELECT records FROM repositories WHERE owner_kind = ? AND owner_name = ? AND repo = ?`,
		string(key.Owner.Kind), key.Owner.Name, key.Repo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", key, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}

	var deps []models.Dependency
	if err := json.Unmarshal([]byte(records), &deps); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", key, models.ErrFormat, err)
	}
	return deps, nil
}

// Keys lists the repositories stored under owner, sorted by name
func (s *SQLiteStore) Keys(owner Owner) ([]Key, error) {
	var repos []string
	err := s.db.Select(&repos,
		`SELECT repo FROM repositories WHERE owner_kind = ? AND owner_name = ? ORDER BY repo`,
		string(owner.Kind), owner.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories: %w", err)
	}

	keys := make([]Key, 0, len(repos))
	for _, r := range repos {
		keys = append(keys, Key{Owner: owner, Repo: r})
	}
	return keys, nil
}

// Owners lists every scope holding at least one collection
func (s *SQLiteStore) Owners() ([]Owner, error) {
	var rows []repositoryRow
	err := s.db.Select(&rows, `
		SELECT DISTINCT owner_kind, owner_name FROM repositories
		ORDER BY CASE owner_kind WHEN '' THEN 0 WHEN 'org' THEN 1 ELSE 2 END, owner_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list owners: %w", err)
	}

	owners := make([]Owner, 0, len(rows))
	for _, r := range rows {
		owners = append(owners, Owner{Kind: models.OwnerKind(r.OwnerKind), Name: r.OwnerName})
	}
	return owners, nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

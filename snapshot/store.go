// Package snapshot persists exported project data as JSON files, one file
// per project per kind. The store moves opaque JSON-serializable values;
// it knows nothing about their schema.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type Kind string

const (
	KindProjects Kind = "projects"
	KindFields   Kind = "projects_fields"
	KindViews    Kind = "projects_views"
	KindItems    Kind = "projects_items"
)

func Kinds() []Kind {
	return []Kind{KindProjects, KindFields, KindViews, KindItems}
}

type NotFoundError struct {
	Kind Kind
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s snapshot for project %q", e.Kind, e.ID)
}

type Store struct {
	Root string
}

func NewStore(root string) *Store {
	return &Store{Root: root}
}

func (s *Store) dir(kind Kind) string {
	return filepath.Join(s.Root, string(kind))
}

func (s *Store) path(kind Kind, id string) string {
	return filepath.Join(s.dir(kind), id+".json")
}

// EnsureDirs creates the per-kind folders ahead of an export run.
func (s *Store) EnsureDirs() error {
	for _, kind := range Kinds() {
		if err := os.MkdirAll(s.dir(kind), 0o755); err != nil {
			return fmt.Errorf("create %s dir: %w", kind, err)
		}
	}
	return nil
}

// ListIDs derives project identifiers from the .json files present in the
// kind's folder, sorted for deterministic phase ordering.
func (s *Store) ListIDs(kind Kind) ([]string, error) {
	entries, err := os.ReadDir(s.dir(kind))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("snapshot folder %s missing: %w", s.dir(kind), err)
		}
		return nil, fmt.Errorf("list %s snapshots: %w", kind, err)
	}
	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

// Write serializes data to <root>/<kind>/<id>.json, overwriting any
// previous snapshot for the same project.
func (s *Store) Write(kind Kind, id string, data any) error {
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s snapshot for %s: %w", kind, id, err)
	}
	if err := os.WriteFile(s.path(kind, id), encoded, 0o644); err != nil {
		return fmt.Errorf("write %s snapshot for %s: %w", kind, id, err)
	}
	return nil
}

// Read decodes <root>/<kind>/<id>.json into v. A missing file is a
// NotFoundError; the caller decides whether that ends the unit or the run.
func (s *Store) Read(kind Kind, id string, v any) error {
	raw, err := os.ReadFile(s.path(kind, id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &NotFoundError{Kind: kind, ID: id}
		}
		return fmt.Errorf("read %s snapshot for %s: %w", kind, id, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s snapshot for %s: %w", kind, id, err)
	}
	return nil
}

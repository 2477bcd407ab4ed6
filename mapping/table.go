// Package mapping persists the source-to-target identifier mappings that
// tie the import phases together: one file for projects, one audit file
// for item content. Files are plain UTF-8 text, one record per line.
package mapping

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const separator = " -> "

const projectsFile = "project_mapping.log"
const itemsFile = "project_items_mapping.log"

type CorruptError struct {
	Path string
	Line int
	Text string
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt mapping line %d in %s: %q", e.Line, e.Path, e.Text)
}

type Table struct {
	Dir string
}

func NewTable(dir string) *Table {
	return &Table{Dir: dir}
}

func (t *Table) ProjectsPath() string {
	return filepath.Join(t.Dir, projectsFile)
}

func (t *Table) ItemsPath() string {
	return filepath.Join(t.Dir, itemsFile)
}

// Writer appends records to one mapping file for the duration of a phase.
// Opening truncates: each create-projects (or insert-items) run starts a
// fresh file.
type Writer struct {
	f *os.File
}

func (t *Table) open(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open mapping file %s: %w", path, err)
	}
	return &Writer{f: f}, nil
}

// BeginProjects truncates and opens the project mapping file.
func (t *Table) BeginProjects() (*Writer, error) {
	return t.open(t.ProjectsPath())
}

// BeginItems truncates and opens the item content mapping file.
func (t *Table) BeginItems() (*Writer, error) {
	return t.open(t.ItemsPath())
}

// RecordProject appends one "source -> target" line.
func (w *Writer) RecordProject(sourceID, targetID string) error {
	_, err := fmt.Fprintf(w.f, "%s%s%s\n", sourceID, separator, targetID)
	if err != nil {
		return fmt.Errorf("record project mapping: %w", err)
	}
	return nil
}

// RecordItem appends one "repo,number,sourceContent -> targetContent"
// line. The item file is an audit trail; nothing reads it back within a
// run.
func (w *Writer) RecordItem(repository string, number int, sourceContentID, targetContentID string) error {
	_, err := fmt.Fprintf(w.f, "%s,%d,%s%s%s\n", repository, number, sourceContentID, separator, targetContentID)
	if err != nil {
		return fmt.Errorf("record item mapping: %w", err)
	}
	return nil
}

func (w *Writer) Close() error {
	return w.f.Close()
}

// LoadProjects parses the whole project mapping file. Any line missing the
// separator fails the entire load; a partial mapping would silently route
// imports at the wrong target.
func (t *Table) LoadProjects() (map[string]string, error) {
	path := t.ProjectsPath()
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mapping file %s: %w", path, err)
	}
	defer f.Close()

	mapping := map[string]string{}
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		source, target, found := strings.Cut(line, separator)
		if !found {
			return nil, &CorruptError{Path: path, Line: lineNo, Text: line}
		}
		mapping[strings.TrimSpace(source)] = strings.TrimSpace(target)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read mapping file %s: %w", path, err)
	}
	return mapping, nil
}

// Package archive stores collected documents as JSON files in a
// directory. The presence of a file is the record that a document has
// already been collected.
package archive

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/baxromumarov/congress-tracker/internal/xmltree"
)

// ErrNotFound is returned when a named document is not in the archive.
var ErrNotFound = errors.New("archive: document not found")

type Archive struct {
	dir string
}

// Open returns an archive rooted at dir, creating the directory.
func Open(dir string) (*Archive, error) {
	if dir == "" {
		return nil, errors.New("archive: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("archive: create %s: %w", dir, err)
	}
	return &Archive{dir: dir}, nil
}

// OpenReadOnly returns an archive rooted at dir without creating it. A
// missing directory reads as an empty archive.
func OpenReadOnly(dir string) (*Archive, error) {
	if dir == "" {
		return nil, errors.New("archive: empty directory")
	}
	return &Archive{dir: dir}, nil
}

func (a *Archive) Dir() string {
	return a.dir
}

func (a *Archive) path(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("archive: invalid name %q", name)
	}
	return filepath.Join(a.dir, name), nil
}

// Has reports whether name has been stored.
func (a *Archive) Has(name string) bool {
	p, err := a.path(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

// List returns the stored names with the given prefix and suffix, sorted.
func (a *Archive) List(prefix, suffix string) ([]string, error) {
	entries, err := os.ReadDir(a.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("archive: list %s: %w", a.dir, err)
	}
	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, suffix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// WriteFile stores data under name, replacing any earlier version.
func (a *Archive) WriteFile(name string, data []byte) error {
	p, err := a.path(name)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(a.dir, "."+name+".*")
	if err != nil {
		return fmt.Errorf("archive: write %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("archive: write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("archive: write %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("archive: write %s: %w", name, err)
	}
	return nil
}

func (a *Archive) ReadFile(name string) ([]byte, error) {
	p, err := a.path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("archive: read %s: %w", name, err)
	}
	return data, nil
}

// WriteValue stores a normalized document in its indented JSON form.
func (a *Archive) WriteValue(name string, v xmltree.Value) error {
	data, err := xmltree.MarshalIndent(v)
	if err != nil {
		return err
	}
	return a.WriteFile(name, data)
}

func (a *Archive) ReadValue(name string) (xmltree.Value, error) {
	data, err := a.ReadFile(name)
	if err != nil {
		return nil, err
	}
	v, err := xmltree.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("archive: %s: %w", name, err)
	}
	return v, nil
}

// WriteJSON stores v with one-space indentation.
func (a *Archive) WriteJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", " ")
	if err != nil {
		return fmt.Errorf("archive: encode %s: %w", name, err)
	}
	return a.WriteFile(name, data)
}

func (a *Archive) ReadJSON(name string, v any) error {
	data, err := a.ReadFile(name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("archive: decode %s: %w", name, err)
	}
	return nil
}

package storage

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FS reads puzzle text and writes solution text under a root directory.
// Names containing a path separator (or absolute paths) bypass the root,
// so the CLI can point at arbitrary files.
type FS struct {
	root string
}

func NewFS(root string) *FS { return &FS{root: root} }

func (s *FS) path(name string) string {
	if filepath.IsAbs(name) || strings.ContainsRune(name, os.PathSeparator) {
		return name
	}
	return filepath.Join(s.root, name)
}

func (s *FS) Load(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := os.ReadFile(s.path(name))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *FS) Save(ctx context.Context, name, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p := s.path(name)
	if dir := filepath.Dir(p); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(p, []byte(text), 0o644)
}

// List names the puzzle files (.sdk, .txt) under the root, sorted.
func (s *FS) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".sdk", ".txt":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

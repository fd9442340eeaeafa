// Package workspace resolves configured workspace names to host directories.
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrOutsideRoot is returned when a relative path resolves above the
// workspace root.
var ErrOutsideRoot = errors.New("path escapes workspace root")

// Spec names one workspace and its root directory.
type Spec struct {
	Name string
	Path string
}

// Handle is an opaque reference to a resolved workspace.
type Handle struct {
	Name string `json:"name"`
	Root string `json:"root"`
}

// Entry is one item of a directory listing.
type Entry struct {
	Name  string `json:"name"`
	IsDir bool   `json:"isDir"`
	Size  int64  `json:"size"`
}

// Directory is the immutable set of known workspaces.
type Directory struct {
	order   []string
	handles map[string]*Handle
}

// NewDirectory builds a directory from specs. Roots are made absolute;
// duplicate or empty names are rejected.
func NewDirectory(specs []Spec) (*Directory, error) {
	d := &Directory{handles: make(map[string]*Handle, len(specs))}
	for _, s := range specs {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return nil, errors.New("workspace name is empty")
		}
		if _, exists := d.handles[name]; exists {
			return nil, fmt.Errorf("duplicate workspace %q", name)
		}
		if strings.TrimSpace(s.Path) == "" {
			return nil, fmt.Errorf("workspace %q has no path", name)
		}
		root, err := filepath.Abs(s.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve workspace %q: %w", name, err)
		}
		d.handles[name] = &Handle{Name: name, Root: filepath.Clean(root)}
		d.order = append(d.order, name)
	}
	return d, nil
}

// Lookup returns the workspace registered under name.
func (d *Directory) Lookup(name string) (*Handle, bool) {
	if d == nil {
		return nil, false
	}
	h, ok := d.handles[name]
	if !ok {
		return nil, false
	}
	cp := *h
	return &cp, true
}

// Names returns workspace names in configuration order.
func (d *Directory) Names() []string {
	if d == nil {
		return []string{}
	}
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Resolve joins rel onto the workspace root, rejecting paths that leave it
// either lexically or through a symlink.
func (h *Handle) Resolve(rel string) (string, error) {
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("%w: %q is absolute", ErrOutsideRoot, rel)
	}
	full := filepath.Join(h.Root, rel)
	if !contains(h.Root, full) {
		return "", fmt.Errorf("%w: %q", ErrOutsideRoot, rel)
	}

	root, err := filepath.EvalSymlinks(h.Root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve workspace root: %w", err)
	}
	target, err := evalExisting(full)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", rel, err)
	}
	if !contains(root, target) {
		return "", fmt.Errorf("%w: %q links outside the workspace", ErrOutsideRoot, rel)
	}
	return full, nil
}

// evalExisting resolves symlinks in the longest existing prefix of path and
// appends the missing remainder unchanged.
func evalExisting(path string) (string, error) {
	var rest []string
	for {
		resolved, err := filepath.EvalSymlinks(path)
		if err == nil {
			return filepath.Join(append([]string{resolved}, rest...)...), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(path)
		if parent == path {
			return "", err
		}
		rest = append([]string{filepath.Base(path)}, rest...)
		path = parent
	}
}

func contains(root, path string) bool {
	within, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return within != ".." && !strings.HasPrefix(within, ".."+string(filepath.Separator))
}

// List returns the entries of rel, sorted with directories first.
func (h *Handle) List(rel string) ([]Entry, error) {
	dir, err := h.Resolve(rel)
	if err != nil {
		return nil, err
	}
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", rel, err)
	}

	entries := make([]Entry, 0, len(items))
	for _, it := range items {
		e := Entry{Name: it.Name(), IsDir: it.IsDir()}
		if !e.IsDir {
			if info, err := it.Info(); err == nil {
				e.Size = info.Size()
			}
		}
		entries = append(entries, e)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

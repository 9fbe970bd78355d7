// Package resource locates named resources across an ordered list of file
// systems, the first root holding a name winning.
package resource

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// Loader resolves resource names against its roots in order.
type Loader struct {
	roots []fs.FS
}

// NewLoader creates a Loader searching roots in the given order.
func NewLoader(roots ...fs.FS) *Loader {
	return &Loader{roots: roots}
}

// Append adds roots searched after the existing ones.
func (l *Loader) Append(roots ...fs.FS) {
	l.roots = append(l.roots, roots...)
}

// Clean turns a resource name into an fs.FS path: leading slashes are
// dropped and "." segments resolved.
func Clean(name string) (string, error) {
	p := path.Clean("/" + strings.TrimSpace(name))
	p = strings.TrimPrefix(p, "/")

	if p == "" || p == "." {
		return "", fmt.Errorf("invalid resource name %q", name)
	}

	if !fs.ValidPath(p) {
		return "", fmt.Errorf("invalid resource name %q", name)
	}

	return p, nil
}

// Open opens the first resource with the given name.
func (l *Loader) Open(name string) (fs.File, error) {
	p, err := Clean(name)
	if err != nil {
		return nil, err
	}

	for _, root := range l.roots {
		f, err := root.Open(p)
		if err == nil {
			return f, nil
		}

		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to open resource %s: %w", p, err)
		}
	}

	return nil, fmt.Errorf("resource %s: %w", p, fs.ErrNotExist)
}

// ReadFile returns the content of the first resource with the given name.
func (l *Loader) ReadFile(name string) ([]byte, error) {
	p, err := Clean(name)
	if err != nil {
		return nil, err
	}

	for _, root := range l.roots {
		data, err := fs.ReadFile(root, p)
		if err == nil {
			return data, nil
		}

		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read resource %s: %w", p, err)
		}
	}

	return nil, fmt.Errorf("resource %s: %w", p, fs.ErrNotExist)
}

// ReadString is ReadFile returning a string.
func (l *Loader) ReadString(name string) (string, error) {
	data, err := l.ReadFile(name)
	return string(data), err
}

// Exists reports whether any root holds a regular file with the given name.
func (l *Loader) Exists(name string) bool {
	p, err := Clean(name)
	if err != nil {
		return false
	}

	for _, root := range l.roots {
		if info, err := fs.Stat(root, p); err == nil && !info.IsDir() {
			return true
		}
	}

	return false
}

// FindAll returns the indexes of every root that holds the resource, in search order.
func (l *Loader) FindAll(name string) []int {
	p, err := Clean(name)
	if err != nil {
		return nil
	}

	var found []int

	for i, root := range l.roots {
		if _, err := fs.Stat(root, p); err == nil {
			found = append(found, i)
		}
	}

	return found
}

// Package directory implements a hierarchical registry of named resources,
// such as data sources bound under "jdbc/<unit>".
package directory

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// EnvPrefix is stripped from names so that "java:comp/env/jdbc/orders" and
// "jdbc/orders" refer to the same binding.
const EnvPrefix = "java:comp/env/"

var (
	ErrNotFound     = errors.New("name not bound")
	ErrAlreadyBound = errors.New("name already bound")
	ErrInvalidName  = errors.New("invalid name")
	ErrTypeMismatch = errors.New("bound object has a different type")
)

// Context binds objects to slash separated names. It is safe for concurrent
// use. Contexts returned by Sub share storage with their parent.
type Context struct {
	store *store
	base  string
}

type store struct {
	mu       sync.RWMutex
	bindings map[string]any
}

// New returns an empty root context.
func New() *Context {
	return &Context{store: &store{bindings: make(map[string]any)}}
}

// Normalize strips EnvPrefix, surrounding slashes and empty segments.
func Normalize(name string) (string, error) {
	name = strings.TrimPrefix(strings.TrimSpace(name), EnvPrefix)

	parts := strings.FieldsFunc(name, func(r rune) bool { return r == '/' })
	if len(parts) == 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	return strings.Join(parts, "/"), nil
}

func (c *Context) resolve(name string) (string, error) {
	n, err := Normalize(name)
	if err != nil {
		return "", err
	}

	if c.base == "" {
		return n, nil
	}

	return c.base + "/" + n, nil
}

// Bind binds obj to name, failing if the name is taken.
func (c *Context) Bind(name string, obj any) error {
	key, err := c.resolve(name)
	if err != nil {
		return err
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	if _, ok := c.store.bindings[key]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyBound, key)
	}

	c.store.bindings[key] = obj

	return nil
}

// Rebind binds obj to name, replacing any existing binding.
func (c *Context) Rebind(name string, obj any) error {
	key, err := c.resolve(name)
	if err != nil {
		return err
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	c.store.bindings[key] = obj

	return nil
}

// Lookup returns the object bound to name.
func (c *Context) Lookup(name string) (any, error) {
	key, err := c.resolve(name)
	if err != nil {
		return nil, err
	}

	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	obj, ok := c.store.bindings[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	return obj, nil
}

// Unbind removes the binding of name. Unbinding an unbound name is a no-op.
func (c *Context) Unbind(name string) error {
	key, err := c.resolve(name)
	if err != nil {
		return err
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	delete(c.store.bindings, key)

	return nil
}

// List returns the sorted names bound below prefix, relative to this
// context. An empty prefix lists everything visible from the context.
func (c *Context) List(prefix string) ([]string, error) {
	scope := c.base
	if strings.TrimSpace(prefix) != "" {
		key, err := c.resolve(prefix)
		if err != nil {
			return nil, err
		}

		scope = key
	}

	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	var names []string

	for key := range c.store.bindings {
		if scope != "" && key != scope && !strings.HasPrefix(key, scope+"/") {
			continue
		}

		rel := key
		if c.base != "" {
			rel = strings.TrimPrefix(key, c.base+"/")
		}

		names = append(names, rel)
	}

	slices.Sort(names)

	return names, nil
}

// Sub returns a context rooted at prefix.
func (c *Context) Sub(prefix string) (*Context, error) {
	key, err := c.resolve(prefix)
	if err != nil {
		return nil, err
	}

	return &Context{store: c.store, base: key}, nil
}

// LookupAs returns the object bound to name as a T.
func LookupAs[T any](c *Context, name string) (T, error) {
	var zero T

	obj, err := c.Lookup(name)
	if err != nil {
		return zero, err
	}

	v, ok := obj.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s is %T, not %T", ErrTypeMismatch, name, obj, zero)
	}

	return v, nil
}

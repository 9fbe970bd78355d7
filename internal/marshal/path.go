package marshal

import (
	"strconv"
	"strings"
)

// path is a readable location inside a bound value, used in error messages.
// Examples: "Preferences", "Preferences.People[2].Age".
type path struct {
	parts []string
}

func newPath(root string) *path {
	if root == "" {
		root = "value"
	}

	return &path{parts: []string{root}}
}

func (p *path) field(name string) *path {
	return &path{parts: append(append([]string{}, p.parts...), name)}
}

func (p *path) index(i int) *path {
	parts := append([]string{}, p.parts...)
	parts[len(parts)-1] += "[" + strconv.Itoa(i) + "]"

	return &path{parts: parts}
}

func (p *path) String() string {
	return strings.Join(p.parts, ".")
}

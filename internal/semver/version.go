// Package semver implements the major.minor.micro[.qualifier] version scheme
// used by bindkit configuration files.
package semver

import (
	"cmp"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidVersion is returned for negative components and malformed text.
var ErrInvalidVersion = errors.New("invalid version")

// Version is a semantic version. The zero value is Undefined.
type Version struct {
	Major     int
	Minor     int
	Micro     int
	Qualifier string
}

// Undefined is the version 0.0.0 without qualifier.
var Undefined = Version{}

// New validates the components and returns the version.
func New(major, minor, micro int, qualifier string) (Version, error) {
	if major < 0 || minor < 0 || micro < 0 {
		return Version{}, fmt.Errorf("%w: negative component in %d.%d.%d", ErrInvalidVersion, major, minor, micro)
	}

	return Version{Major: major, Minor: minor, Micro: micro, Qualifier: qualifier}, nil
}

// MustNew is like New but panics on invalid components.
func MustNew(major, minor, micro int, qualifier string) Version {
	v, err := New(major, minor, micro, qualifier)
	if err != nil {
		panic(err)
	}

	return v
}

// Parse reads one to four dot separated segments. Missing numeric segments
// default to zero and the fourth segment is the qualifier.
func Parse(s string) (Version, error) {
	if s == "" {
		return Version{}, fmt.Errorf("%w: empty string", ErrInvalidVersion)
	}

	segments := strings.SplitN(s, ".", 4)

	var nums [3]int

	for i := 0; i < len(segments) && i < 3; i++ {
		n, err := parseComponent(segments[i])
		if err != nil {
			return Version{}, fmt.Errorf("%w %q: segment %d: %w", ErrInvalidVersion, s, i+1, err)
		}

		nums[i] = n
	}

	var qualifier string
	if len(segments) == 4 {
		qualifier = segments[3]
		if qualifier == "" || strings.Contains(qualifier, ".") {
			return Version{}, fmt.Errorf("%w %q: malformed qualifier", ErrInvalidVersion, s)
		}
	}

	return Version{Major: nums[0], Minor: nums[1], Micro: nums[2], Qualifier: qualifier}, nil
}

func parseComponent(s string) (int, error) {
	if s == "" {
		return 0, errors.New("empty")
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%q is not a non-negative integer", s)
		}
	}

	return strconv.Atoi(s)
}

// IsUndefined reports whether v equals Undefined.
func (v Version) IsUndefined() bool {
	return v == Undefined
}

// Compare orders by major, minor and micro, then by qualifier. A missing
// qualifier sorts before any qualifier.
func (v Version) Compare(o Version) int {
	if c := cmp.Compare(v.Major, o.Major); c != 0 {
		return c
	}

	if c := cmp.Compare(v.Minor, o.Minor); c != 0 {
		return c
	}

	if c := cmp.Compare(v.Micro, o.Micro); c != 0 {
		return c
	}

	return strings.Compare(v.Qualifier, o.Qualifier)
}

// Less reports whether v sorts before o.
func (v Version) Less(o Version) bool {
	return v.Compare(o) < 0
}

// Equal reports whether v and o are the same version.
func (v Version) Equal(o Version) bool {
	return v.Compare(o) == 0
}

// String renders major.minor.micro, followed by .qualifier when present.
func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Micro)
	if v.Qualifier != "" {
		s += "." + v.Qualifier
	}

	return s
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}

	*v = parsed

	return nil
}

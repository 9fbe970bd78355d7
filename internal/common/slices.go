package common

// IsEmpty reports whether s has no elements.
func IsEmpty[S ~[]E, E any](s S) bool {
	return len(s) == 0
}

// First returns the first element of s, or false when s is empty.
func First[S ~[]E, E any](s S) (E, bool) {
	if len(s) == 0 {
		var zero E
		return zero, false
	}

	return s[0], true
}

// Only returns the element of a single-element s, or false otherwise.
func Only[S ~[]E, E any](s S) (E, bool) {
	if len(s) != 1 {
		var zero E
		return zero, false
	}

	return s[0], true
}

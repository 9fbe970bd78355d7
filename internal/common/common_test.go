package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLastSegment(t *testing.T) {
	tests := []struct{ in, want string }{
		{"bindkit/examples/preferences", "preferences"},
		{"http://bindkit.example/person/", "person"},
		{"urn:example:orders", "orders"},
		{"http://www.w3.org/2001/XMLSchema#", "XMLSchema"},
		{"", ""},
		{"///", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LastSegment(tt.in), tt.in)
	}
}

func TestSlices(t *testing.T) {
	assert.True(t, IsEmpty([]int{}))
	assert.False(t, IsEmpty([]int{1}))

	only, ok := Only([]int{7})
	assert.True(t, ok)
	assert.Equal(t, 7, only)

	_, ok = Only([]int{1, 2})
	assert.False(t, ok)

	_, ok = Only([]int(nil))
	assert.False(t, ok)

	v, ok := First([]string{"a", "b"})
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	_, ok = First([]string(nil))
	assert.False(t, ok)
}

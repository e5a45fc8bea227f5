package sets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet_InsertReportsNewElements(t *testing.T) {
	s := New("a")

	assert.False(t, s.Insert("a"))
	assert.True(t, s.Insert("b"))
	assert.True(t, s.Has("b"))
	assert.False(t, s.Has("c"))
	assert.Equal(t, 2, s.Len())
}

func TestSet_StructKeys(t *testing.T) {
	type key struct{ project, tag string }
	s := New[key]()

	assert.True(t, s.Insert(key{"lib", "v1"}))
	assert.False(t, s.Insert(key{"lib", "v1"}))
	assert.True(t, s.Has(key{"lib", "v1"}))
	assert.False(t, s.Has(key{"lib", "v2"}))
}

package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry(t *testing.T) {
	calls := 0
	r := NewRegistry(func(key string) *int {
		calls++
		v := len(key)
		return &v
	})

	a, created := r.Get("core.db")
	assert.True(t, created)
	assert.Equal(t, 7, *a)

	again, created := r.Get("core.db")
	assert.False(t, created)
	assert.Same(t, a, again)

	r.Get("extra.db")
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"core.db", "extra.db"}, r.Keys())
	assert.Equal(t, 2, calls)

	r.Delete("core.db")
	assert.Equal(t, 1, r.Len())
}

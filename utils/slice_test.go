package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap(t *testing.T) {
	doubled := Map([]int{1, 2, 3}, func(n int) int { return n * 2 })
	assert.Equal(t, []int{2, 4, 6}, doubled)

	empty := Map([]int(nil), func(n int) int { return n })
	assert.Empty(t, empty)
}

func TestGroupBy(t *testing.T) {
	groups := GroupBy([]string{"apple", "avocado", "banana"}, func(s string) byte { return s[0] })

	assert.Len(t, groups, 2)
	// input order within a group is preserved
	assert.Equal(t, []string{"apple", "avocado"}, groups['a'])
	assert.Equal(t, []string{"banana"}, groups['b'])
}

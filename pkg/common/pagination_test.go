package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	items := make([]int, 45)
	for i := range items {
		items[i] = i
	}

	first := Paginate(items, PaginationParams{Page: 1, PageSize: 20})
	last := Paginate(items, PaginationParams{Page: 3, PageSize: 20})
	beyond := Paginate(items, PaginationParams{Page: 4, PageSize: 20})

	assert.Len(t, first, 20)
	assert.Equal(t, 0, first[0])
	assert.Equal(t, []int{40, 41, 42, 43, 44}, last)
	assert.Empty(t, beyond)
}

func TestBuildPaginationMeta(t *testing.T) {
	meta := BuildPaginationMeta(2, 20, 45)

	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)
	assert.Equal(t, 0, CalculateTotalPages(10, 0))
}

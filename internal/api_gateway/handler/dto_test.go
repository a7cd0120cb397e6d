package handler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	tests := []struct {
		name string
		p    PaginationParams
		want []int
	}{
		{name: "FirstPage", p: PaginationParams{Page: 1, PerPage: 2}, want: []int{1, 2}},
		{name: "PartialLastPage", p: PaginationParams{Page: 3, PerPage: 2}, want: []int{5}},
		{name: "PastTheEnd", p: PaginationParams{Page: 4, PerPage: 2}, want: []int{}},
		{name: "OverflowingPage", p: PaginationParams{Page: 1 << 62, PerPage: 4}, want: []int{}},
		{name: "MaxPage", p: PaginationParams{Page: math.MaxInt, PerPage: 500}, want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paginate(items, tt.p))
		})
	}

	t.Run("EmptyCollection", func(t *testing.T) {
		assert.Equal(t, []int{}, paginate([]int{}, PaginationParams{Page: 1, PerPage: 50}))
	})
}

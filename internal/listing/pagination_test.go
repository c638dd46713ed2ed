package listing

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		n, want int
	}{
		{0, 1},
		{1, 1},
		{20, 1},
		{21, 2},
		{45, 3},
		{60, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.n, 20), "n=%d", tt.n)
	}
}

func TestPaginateFortyFiveItems(t *testing.T) {
	items := make([]int, 45)
	for i := range items {
		items[i] = i
	}

	assert.Len(t, Paginate(items, 1, 20), 20)
	assert.Len(t, Paginate(items, 2, 20), 20)
	assert.Equal(t, []int{40, 41, 42, 43, 44}, Paginate(items, 3, 20))
}

func TestPaginateOutOfRangeIsEmpty(t *testing.T) {
	items := []int{1, 2, 3}

	assert.Empty(t, Paginate(items, 0, 20))
	assert.Empty(t, Paginate(items, -3, 20))
	assert.Empty(t, Paginate(items, 2, 20))
	assert.Empty(t, Paginate([]int(nil), 1, 20))
}

func TestPagesReconstructList(t *testing.T) {
	for _, n := range []int{0, 1, 19, 20, 21, 45, 100, 101} {
		items := make([]int, n)
		for i := range items {
			items[i] = i
		}

		var joined []int
		for p := 1; p <= TotalPages(n, 20); p++ {
			page := Paginate(items, p, 20)
			assert.LessOrEqual(t, len(page), 20)
			joined = append(joined, page...)
		}

		if diff := cmp.Diff(items, joined, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("n=%d pages mismatch (-want +got):\n%s", n, diff)
		}
	}
}

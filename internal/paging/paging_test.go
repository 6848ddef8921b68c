package paging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	p := Pager{Page: 1, TotalPages: 4}
	for requested, want := range map[int]int{-3: 1, 0: 1, 1: 1, 3: 3, 4: 4, 9: 4} {
		assert.Equal(t, want, p.Clamp(requested), "requested %d", requested)
	}

	empty := Pager{TotalPages: 0}
	assert.Equal(t, 1, empty.Clamp(5))
	assert.False(t, empty.HasPrev())
	assert.False(t, empty.HasNext())
}

func TestNavigation(t *testing.T) {
	tests := []struct {
		name             string
		pager            Pager
		hasPrev, hasNext bool
		prev, next       int
	}{
		{"first of three", Pager{Page: 1, TotalPages: 3}, false, true, 1, 2},
		{"middle", Pager{Page: 2, TotalPages: 3}, true, true, 1, 3},
		{"last", Pager{Page: 3, TotalPages: 3}, true, false, 2, 3},
		{"single page", Pager{Page: 1, TotalPages: 1}, false, false, 1, 1},
		{"beyond range", Pager{Page: 7, TotalPages: 3}, true, false, 2, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.hasPrev, tt.pager.HasPrev())
			assert.Equal(t, tt.hasNext, tt.pager.HasNext())
			assert.Equal(t, tt.prev, tt.pager.Prev())
			assert.Equal(t, tt.next, tt.pager.Next())
		})
	}
}

func TestFromWire(t *testing.T) {
	assert.Equal(t, Pager{Page: 1, TotalPages: 2}, FromWire(0, 2, true))
	assert.Equal(t, Pager{Page: 2, TotalPages: 2}, FromWire(2, 2, false))
	assert.Equal(t, Pager{Page: 2, TotalPages: 2}, FromWire(5, 2, false))
	assert.Equal(t, 5, Pager{Page: 2, TotalPages: 3}.Offset(5))
}

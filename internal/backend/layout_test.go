package backend

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
)

func assertPartition(t *testing.T, l Layout, counts []int) {
	t.Helper()
	next := 0
	for i, r := range l.Ranges() {
		if r.Start != next {
			t.Fatalf("range %d starts at %d, want %d", i, r.Start, next)
		}
		if r.Count != counts[i] {
			t.Fatalf("range %d has %d elements, want %d", i, r.Count, counts[i])
		}
		next = r.End()
	}
	if next != l.Total() {
		t.Fatalf("ranges end at %d, total is %d", next, l.Total())
	}
}

func TestLayout_Partition(t *testing.T) {
	tests := []struct {
		name   string
		counts []int
		want   []Range
	}{
		{"empty", nil, []Range{}},
		{"single", []int{8}, []Range{{0, 8}}},
		{"zeros inside", []int{3, 0, 5, 0}, []Range{{0, 3}, {3, 0}, {3, 5}, {8, 0}}},
		{"cube and tet", []int{8, 4}, []Range{{0, 8}, {8, 4}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLayout(tt.counts)
			if diff := cmp.Diff(tt.want, l.Ranges(), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("ranges mismatch (-want +got):\n%s", diff)
			}
			assertPartition(t, l, tt.counts)
		})
	}
}

func TestLayout_RandomPartition(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 100; trial++ {
		counts := make([]int, rng.Intn(20))
		sum := 0
		for i := range counts {
			counts[i] = rng.Intn(50)
			sum += counts[i]
		}
		l := NewLayout(counts)
		assert.Equal(t, sum, l.Total())
		assert.Equal(t, len(counts), l.Len())
		assertPartition(t, l, counts)

		for i := 0; i < l.Len(); i++ {
			for j := i + 1; j < l.Len(); j++ {
				a, b := l.Range(i), l.Range(j)
				if a.Count > 0 && b.Count > 0 && a.End() > b.Start {
					t.Fatalf("ranges %v and %v overlap", a, b)
				}
			}
		}
	}
}

func TestLayout_NegativeCountPanics(t *testing.T) {
	assert.PanicsWithError(t, "backend: negative element count: reporter 1 reported -2", func() {
		NewLayout([]int{1, -2})
	})
}

func TestRange_Contains(t *testing.T) {
	r := Range{Start: 4, Count: 3}
	assert.False(t, r.Contains(3))
	assert.True(t, r.Contains(4))
	assert.True(t, r.Contains(6))
	assert.False(t, r.Contains(7))
}

func TestView_Bounds(t *testing.T) {
	buf := []int{0, 1, 2, 3, 4, 5}
	v := Subview(buf, Range{Start: 2, Count: 2})

	assert.Equal(t, 2, v.Len())
	assert.Equal(t, 2, v.Offset())
	assert.Equal(t, 3, v.At(1))
	v.Set(0, 20)
	assert.Equal(t, 20, buf[2])

	assert.Panics(t, func() { v.Set(2, 99) })
	assert.Panics(t, func() { v.At(-1) })
	assert.Equal(t, 4, buf[4])

	// appending through Slice reallocates instead of overwriting the neighbor
	s := append(v.Slice(), 99)
	assert.Len(t, s, 3)
	assert.Equal(t, 4, buf[4])
}

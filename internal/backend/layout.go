package backend

import "fmt"

// Range is the half-open interval [Start, Start+Count).
type Range struct {
	Start int
	Count int
}

func (r Range) End() int { return r.Start + r.Count }

func (r Range) Contains(i int) bool { return i >= r.Start && i < r.End() }

// Layout assigns each reporter a contiguous range of one global buffer.
// Ranges are ordered, disjoint and cover [0, Total()) exactly.
type Layout struct {
	ranges []Range
	total  int
}

// NewLayout computes the exclusive prefix sum of counts. A negative count
// panics with ErrNegativeCount.
func NewLayout(counts []int) Layout {
	l := Layout{ranges: make([]Range, len(counts))}
	for i, c := range counts {
		if c < 0 {
			panic(fmt.Errorf("%w: reporter %d reported %d", ErrNegativeCount, i, c))
		}
		l.ranges[i] = Range{Start: l.total, Count: c}
		l.total += c
	}
	return l
}

func (l Layout) Len() int          { return len(l.ranges) }
func (l Layout) Total() int        { return l.total }
func (l Layout) Range(i int) Range { return l.ranges[i] }
func (l Layout) Ranges() []Range   { return append([]Range(nil), l.ranges...) }

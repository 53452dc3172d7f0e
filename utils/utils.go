package utils

import "sort"

var Has = struct{}{}

// IntSet is an unordered set of integers, used for box indices.
type IntSet map[int]struct{}

func (s IntSet) Add(key int) {
	s[key] = Has
}

func (s IntSet) Delete(key int) {
	delete(s, key)
}

func (s IntSet) Has(key int) bool {
	_, in := s[key]
	return in
}

// Sorted returns the elements in increasing order.
func (s IntSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

func NewIntSet(values ...int) IntSet {
	s := make(IntSet, len(values))
	for _, v := range values {
		s.Add(v)
	}
	return s
}

package sorting

import "github.com/okian/ladder/internal/domain/model"

// QuickSort sorts a private copy in place using Lomuto partitioning around the
// middle element.
//
// Time O(n log n) on average and O(n^2) in the worst case: inputs that keep
// placing the extreme element in the middle slot degrade every partition to
// n-1 / 0. The worst case is not guarded against. Recursion only descends
// into the smaller partition, so stack depth stays O(log n). Not stable.
type QuickSort struct{}

// Name implements Sorter.
func (QuickSort) Name() string { return "Quick Sort" }

// Sort implements Sorter.
func (QuickSort) Sort(entities []model.Entity) []model.Entity {
	out := make([]model.Entity, len(entities))
	copy(out, entities)
	quickSort(out, 0, len(out)-1)
	return out
}

func quickSort(s []model.Entity, lo, hi int) {
	for lo < hi {
		p := partition(s, lo, hi)
		if p-lo < hi-p {
			quickSort(s, lo, p-1)
			lo = p + 1
		} else {
			quickSort(s, p+1, hi)
			hi = p - 1
		}
	}
}

// partition moves the pivot to its final slot and returns that index.
func partition(s []model.Entity, lo, hi int) int {
	mid := lo + (hi-lo)/2
	s[mid], s[hi] = s[hi], s[mid]
	pivot := s[hi]
	i := lo
	for j := lo; j < hi; j++ {
		if model.Less(s[j], pivot) {
			s[i], s[j] = s[j], s[i]
			i++
		}
	}
	s[i], s[hi] = s[hi], s[i]
	return i
}

package sorting

import "github.com/okian/ladder/internal/domain/model"

// MergeSort is a stable top-down merge sort.
//
// Time O(n log n) in every case; O(n) auxiliary space.
type MergeSort struct{}

// Name implements Sorter.
func (MergeSort) Name() string { return "Merge Sort" }

// Sort implements Sorter.
func (MergeSort) Sort(entities []model.Entity) []model.Entity {
	out := make([]model.Entity, len(entities))
	copy(out, entities)
	if len(out) < 2 {
		return out
	}
	buf := make([]model.Entity, len(out))
	mergeSort(out, buf)
	return out
}

// mergeSort sorts s using buf (same length) as scratch space.
func mergeSort(s, buf []model.Entity) {
	if len(s) < 2 {
		return
	}
	mid := len(s) / 2
	mergeSort(s[:mid], buf[:mid])
	mergeSort(s[mid:], buf[mid:])

	// Already in order: skip the merge.
	if !model.Less(s[mid], s[mid-1]) {
		return
	}

	copy(buf, s)
	left, right := buf[:mid], buf[mid:len(s)]
	i, j, k := 0, 0, 0
	for i < len(left) && j < len(right) {
		// Take from the left on ties to keep the sort stable.
		if model.Less(right[j], left[i]) {
			s[k] = right[j]
			j++
		} else {
			s[k] = left[i]
			i++
		}
		k++
	}
	k += copy(s[k:], left[i:])
	copy(s[k:], right[j:])
}

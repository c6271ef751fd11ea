package util

import (
	"cmp"
	"slices"
)

// SortedKeys returns the keys of a map in sorted order.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Sorted returns a sorted copy of a slice, leaving the input untouched.
func Sorted[E cmp.Ordered](s []E) []E {
	out := slices.Clone(s)
	slices.Sort(out)
	return out
}

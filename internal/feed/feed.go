// Package feed orders timestamped entries the way feeds and comment threads
// are shown: oldest first, ties kept in the order they arrived.
package feed

import (
	"slices"
	"time"
)

// Merge concatenates the given lists and returns them ordered by ascending
// time. Entries with equal timestamps keep their relative input order, so
// earlier lists win ties against later ones.
func Merge[T any](at func(T) time.Time, lists ...[]T) []T {
	n := 0
	for _, l := range lists {
		n += len(l)
	}
	out := make([]T, 0, n)
	for _, l := range lists {
		out = append(out, l...)
	}
	slices.SortStableFunc(out, func(a, b T) int {
		return at(a).Compare(at(b))
	})
	return out
}

// Package flatrows rebuilds parent/children structures from denormalized
// query results, where every row repeats the parent columns next to one
// (possibly null) set of child columns.
package flatrows

import (
	"cmp"
	"iter"
	"slices"
)

// Shape describes how to read one kind of flat row.
//
// Key returns the parent identifier. Parent builds the parent from any row of
// its group. Child returns the child half of a row and false when the child
// columns are null, which is how a parent with no children is represented.
type Shape[R any, K comparable, P any, C any] struct {
	Key    func(R) K
	Parent func(R) P
	Child  func(R) (C, bool)
	Order  func(C) int
	Attach func(*P, []C)
}

type group[R any] struct {
	first R
	rows  []R
}

// Reconstruct groups rows by parent key, keeping parents in first-seen order,
// and attaches each parent's children sorted by Order. An empty sequence
// yields an empty, non-nil slice.
func Reconstruct[R any, K comparable, P any, C any](rows iter.Seq[R], shape Shape[R, K, P, C]) []P {
	keys := make([]K, 0)
	groups := make(map[K]*group[R])

	for row := range rows {
		k := shape.Key(row)
		g, ok := groups[k]
		if !ok {
			g = &group[R]{first: row}
			groups[k] = g
			keys = append(keys, k)
		}
		g.rows = append(g.rows, row)
	}

	result := make([]P, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		parent := shape.Parent(g.first)

		children := make([]C, 0, len(g.rows))
		for _, row := range g.rows {
			if c, ok := shape.Child(row); ok {
				children = append(children, c)
			}
		}
		slices.SortStableFunc(children, func(a, b C) int {
			return cmp.Compare(shape.Order(a), shape.Order(b))
		})

		shape.Attach(&parent, children)
		result = append(result, parent)
	}

	return result
}

// ReconstructSlice is Reconstruct over an already materialized slice.
func ReconstructSlice[R any, K comparable, P any, C any](rows []R, shape Shape[R, K, P, C]) []P {
	return Reconstruct(slices.Values(rows), shape)
}

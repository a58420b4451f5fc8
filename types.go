package exptree

import "golang.org/x/exp/constraints"

// Ordered constrains tree keys to a totally ordered, copyable type: it
// supplies equality and comparison for free via the comparison operators,
// without requiring callers to plumb through a comparator.
type Ordered = constraints.Ordered

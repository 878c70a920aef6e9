package catalog

import "github.com/timewinder-dev/duosort/sorts"

const (
	Bubble    = "Bubble Sort"
	Insertion = "Insertion Sort"
	Selection = "Selection Sort"
	Quick     = "Quick Sort"
	Merge     = "Merge Sort"
	Heap      = "Heap Sort"
)

var builtins = []struct {
	name       string
	seq        func([]int) sorts.Seq
	complexity string
}{
	{Bubble, sorts.Bubble, "O(n²)"},
	{Insertion, sorts.Insertion, "O(n²) worst/avg, O(n) best"},
	{Selection, sorts.Selection, "O(n²)"},
	{Quick, sorts.Quick, "O(n²) worst, O(n log n) avg"},
	{Merge, sorts.Merge, "O(n log n)"},
	{Heap, sorts.Heap, "O(n log n)"},
}

// SeqFactory adapts a built-in step sequence to a Factory.
func SeqFactory(seq func([]int) sorts.Seq) Factory {
	return func(input []int) sorts.Generator {
		return sorts.FromSeq(seq(input))
	}
}

// RegisterBuiltins registers the six built-in algorithms.
func RegisterBuiltins(c *Catalog) {
	for _, b := range builtins {
		c.Register(b.name, SeqFactory(b.seq), b.complexity)
	}
}

// NewWithBuiltins returns a catalog holding the built-in algorithms.
func NewWithBuiltins() *Catalog {
	c := New()
	RegisterBuiltins(c)
	return c
}

// Package analyze estimates the time complexity of a sorting algorithm from the loop
// structure of its Starlark source.
//
// The estimate is a heuristic over syntax only. It looks at how deeply `for` loops
// nest and how many there are. It does not solve recurrences, so divide and conquer
// algorithms come out as whatever their loop nesting suggests.
package analyze

import (
	"fmt"
	"slices"

	"go.starlark.net/syntax"
)

const (
	Linear    = "O(n)"
	LogLinear = "O(n log n)"
	Quadratic = "O(n²)"
	Cubic     = "O(n³)"
)

// Kind tells whether a Report carries an estimate.
type Kind int

const (
	Estimated Kind = iota
	// Invalid means the source does not parse.
	Invalid
	// AnalysisError means the source parsed but could not be walked.
	AnalysisError
)

func (k Kind) String() string {
	switch k {
	case Estimated:
		return "estimated"
	case Invalid:
		return "invalid"
	case AnalysisError:
		return "analysis-error"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

type Report struct {
	Kind  Kind
	Label string
	Err   error

	// Function and Input name the first def and its first parameter, if any.
	Function string
	Input    string
	Loops    []Loop
	MaxDepth int
}

func (r Report) String() string {
	switch r.Kind {
	case Invalid:
		return "Invalid code"
	case AnalysisError:
		return fmt.Sprintf("Analysis error: %v", r.Err)
	}
	return r.Label
}

// SourceOptions are the Starlark dialect accepted for submitted algorithms.
func SourceOptions() *syntax.FileOptions {
	return &syntax.FileOptions{
		Set:             true,
		While:           true,
		TopLevelControl: true,
		GlobalReassign:  true,
		Recursion:       true,
	}
}

// Parse parses src as a submitted algorithm.
func Parse(filename string, src string) (*syntax.File, error) {
	return SourceOptions().Parse(filename, src, 0)
}

// Estimate parses src and estimates its complexity.
func Estimate(src string) Report {
	f, err := Parse("algorithm.star", src)
	if err != nil {
		return Report{Kind: Invalid, Err: err}
	}
	return EstimateFile(f)
}

// EstimateFile estimates the complexity of an already parsed file. Any fault while
// walking the tree is returned as an AnalysisError report.
func EstimateFile(f *syntax.File) (r Report) {
	defer func() {
		if p := recover(); p != nil {
			r = Report{Kind: AnalysisError, Err: fmt.Errorf("walking syntax tree: %v", p)}
			r.Function, r.Input = firstDef(f)
		}
	}()
	w := newWalker()
	if err := w.stmts(f.Stmts); err != nil {
		r = Report{Kind: AnalysisError, Err: err}
		r.Function, r.Input = firstDef(f)
		return r
	}
	r = Report{
		Kind:     Estimated,
		Function: w.function,
		Input:    w.input,
		Loops:    w.loops,
	}
	for _, l := range w.loops {
		r.MaxDepth = max(r.MaxDepth, l.Depth)
	}
	r.Label = label(r.MaxDepth, len(r.Loops))
	return r
}

// firstDef finds the first top-level def without walking into bodies, so that a
// report can still name the entry point when the full walk failed.
func firstDef(f *syntax.File) (function, input string) {
	for _, st := range f.Stmts {
		if d, ok := st.(*syntax.DefStmt); ok {
			return d.Name.Name, paramName(d.Params)
		}
	}
	return "", ""
}

// label is the estimate table. No loops counts as linear since every sort has to at
// least look at its input.
func label(maxDepth, loops int) string {
	switch {
	case maxDepth <= 1:
		return Linear
	case maxDepth == 2:
		if loops >= 2 {
			return Quadratic
		}
		return LogLinear
	default:
		return Cubic
	}
}

func (r Report) clone() Report {
	r.Loops = slices.Clone(r.Loops)
	return r
}

package analyze

import (
	"errors"
	"fmt"
	"strings"

	"go.starlark.net/syntax"
)

// maxNesting bounds the walk; deeper loop nests are reported as an analysis error.
const maxNesting = 64

var ErrTooDeep = errors.New("loop nesting too deep")

// Bound classifies the range a loop iterates over.
type Bound int

const (
	// OtherBound is a loop over something unrelated to the input size.
	OtherBound Bound = iota
	// InputBound is a range that grows with the input.
	InputBound
)

func (b Bound) String() string {
	if b == InputBound {
		return "n"
	}
	return "other"
}

type Loop struct {
	Depth int
	Var   string
	Range string
	Bound Bound
	Pos   syntax.Position
}

type walker struct {
	function string
	input    string
	depth    int
	loops    []Loop
	// sized holds names whose value grows with the input.
	sized map[string]bool
}

func newWalker() *walker {
	return &walker{sized: map[string]bool{"n": true}}
}

func (w *walker) stmts(list []syntax.Stmt) error {
	for _, s := range list {
		if err := w.stmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) stmt(s syntax.Stmt) error {
	switch v := s.(type) {
	case *syntax.DefStmt:
		if w.function == "" {
			w.function = v.Name.Name
			w.input = paramName(v.Params)
			if w.input != "" {
				w.sized[w.input] = true
			}
		}
		return w.stmts(v.Body)
	case *syntax.ForStmt:
		w.depth++
		defer func() { w.depth-- }()
		if w.depth > maxNesting {
			return fmt.Errorf("%w at %s", ErrTooDeep, v.For)
		}
		// only range() loops are recorded; other loops still add depth
		if call, ok := v.X.(*syntax.CallExpr); ok && isName(call.Fn, "range") {
			w.loops = append(w.loops, Loop{
				Depth: w.depth,
				Var:   render(v.Vars),
				Range: render(v.X),
				Bound: w.classify(call),
				Pos:   v.For,
			})
		}
		return w.stmts(v.Body)
	case *syntax.WhileStmt:
		// while loops are not counted, but loops inside them are
		return w.stmts(v.Body)
	case *syntax.IfStmt:
		if err := w.stmts(v.True); err != nil {
			return err
		}
		return w.stmts(v.False)
	case *syntax.AssignStmt:
		if id, ok := v.LHS.(*syntax.Ident); ok && w.isSized(v.RHS) {
			w.sized[id.Name] = true
		}
	}
	return nil
}

func paramName(params []syntax.Expr) string {
	if len(params) == 0 {
		return ""
	}
	switch p := params[0].(type) {
	case *syntax.Ident:
		return p.Name
	case *syntax.BinaryExpr:
		// parameter with a default value
		if id, ok := p.X.(*syntax.Ident); ok {
			return id.Name
		}
	case *syntax.UnaryExpr:
		if id, ok := p.X.(*syntax.Ident); ok {
			return id.Name
		}
	}
	return ""
}

func (w *walker) classify(call *syntax.CallExpr) Bound {
	for _, a := range call.Args {
		if w.isSized(a) {
			return InputBound
		}
	}
	return OtherBound
}

// isSized reports whether e is built from n, the input, len(input) or names
// assigned from those.
func (w *walker) isSized(e syntax.Expr) bool {
	switch v := e.(type) {
	case *syntax.Ident:
		return w.sized[v.Name]
	case *syntax.ParenExpr:
		return w.isSized(v.X)
	case *syntax.UnaryExpr:
		return v.X != nil && w.isSized(v.X)
	case *syntax.BinaryExpr:
		switch v.Op {
		case syntax.PLUS, syntax.MINUS, syntax.STAR, syntax.SLASH, syntax.SLASHSLASH, syntax.PERCENT:
			return w.isSized(v.X) || w.isSized(v.Y)
		}
	case *syntax.CallExpr:
		if isName(v.Fn, "len") && len(v.Args) == 1 {
			return w.isSized(v.Args[0])
		}
	case *syntax.SliceExpr:
		return w.isSized(v.X)
	}
	return false
}

func isName(e syntax.Expr, name string) bool {
	id, ok := e.(*syntax.Ident)
	return ok && id.Name == name
}

// render prints the small expressions found in loop headers, "?" for anything else.
func render(e syntax.Expr) string {
	switch v := e.(type) {
	case *syntax.Ident:
		return v.Name
	case *syntax.Literal:
		return v.Raw
	case *syntax.ParenExpr:
		return "(" + render(v.X) + ")"
	case *syntax.UnaryExpr:
		if v.X == nil {
			return v.Op.String()
		}
		return v.Op.String() + render(v.X)
	case *syntax.BinaryExpr:
		return render(v.X) + v.Op.String() + render(v.Y)
	case *syntax.TupleExpr:
		parts := make([]string, len(v.List))
		for i, x := range v.List {
			parts[i] = render(x)
		}
		return strings.Join(parts, ", ")
	case *syntax.CallExpr:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = render(a)
		}
		return render(v.Fn) + "(" + strings.Join(args, ", ") + ")"
	}
	return "?"
}

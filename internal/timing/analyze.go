// Package timing extracts animation timing from scene source files
// without executing them. It parses a single Go file, folds the
// numeric constants the animation calls are built from, and reports
// every interpolation, spring and counter it finds with resolved
// frame positions. Anything it cannot resolve statically degrades to
// null in the report, never to a guessed number.
package timing

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"math"
	"os"
	"strconv"
	"strings"
)

// Identifiers bound to externally supplied values instead of source
// declarations.
const (
	identDuration = "durationInFrames"
	identFPS      = "fps"
)

// Analyze parses the scene source at path and extracts its animation
// timings for the given scene length. durationInFrames must be
// positive; fps defaults to 30 when zero or negative.
func Analyze(path string, durationInFrames int, fps float64) (*Report, error) {
	if durationInFrames <= 0 {
		return nil, fmt.Errorf("timing: duration %d frames must be positive", durationInFrames)
	}
	if fps <= 0 {
		fps = 30
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("timing: read %q: %w", path, err)
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, src, parser.AllErrors)
	if err != nil {
		return nil, fmt.Errorf("timing: parse %q: %w", path, err)
	}

	table := buildSymbols(file, float64(durationInFrames), fps)

	ex := newExtractor(file, fset, table)
	animations := dedupe(ex.run())

	// A parseable file with no animation calls is a valid empty
	// result; keep the JSON arrays present rather than null.
	errs := ex.errs
	if errs == nil {
		errs = []string{}
	}

	return &Report{
		SourceFile:       path,
		DurationInFrames: durationInFrames,
		FPS:              fps,
		Animations:       animations,
		Phases:           table.phases(),
		Errors:           errs,
	}, nil
}

// symtab holds the constants resolved so far. Names are recorded in
// the order they are declared; a declared name with no value stays in
// the table as unresolved and reports as null.
type symtab struct {
	values   map[string]float64
	order    []string
	known    map[string]bool
	external map[string]bool
}

func newSymtab(durationInFrames, fps float64) *symtab {
	return &symtab{
		values: map[string]float64{
			identDuration: durationInFrames,
			identFPS:      fps,
		},
		known: map[string]bool{
			identDuration: true,
			identFPS:      true,
		},
		external: map[string]bool{
			identDuration: true,
			identFPS:      true,
		},
	}
}

func (t *symtab) bind(name string, v float64, ok bool) {
	if name == "_" {
		return
	}
	// Externally bound identifiers keep their supplied values.
	if t.external[name] {
		return
	}
	// The table is flat across function scopes, so a name declared
	// again elsewhere is ambiguous: a later reference could mean either
	// declaration. A conflicting value poisons the name to unresolved
	// rather than letting one scope's value leak into another.
	if t.known[name] {
		old, had := t.values[name]
		if !had || !ok || old != v {
			delete(t.values, name)
		}
		return
	}
	t.known[name] = true
	t.order = append(t.order, name)
	if ok {
		t.values[name] = v
	}
}

func (t *symtab) resolve(name string) (float64, bool) {
	v, ok := t.values[name]
	return v, ok
}

// phases lists every declared symbol in declaration order as a
// name -> value map, null for the unresolved ones. The externally
// bound inputs are not phases and stay out.
func (t *symtab) phases() map[string]*float64 {
	out := make(map[string]*float64, len(t.order))
	for _, name := range t.order {
		if v, ok := t.values[name]; ok {
			value := v
			out[name] = &value
		} else {
			out[name] = nil
		}
	}
	return out
}

// buildSymbols performs the first pass: every const, var and short
// variable declaration in the file, folded in textual order. Forward
// references are unresolved by construction, because a name is only
// visible after its declaration has been walked.
func buildSymbols(file *ast.File, durationInFrames, fps float64) *symtab {
	table := newSymtab(durationInFrames, fps)

	ast.Inspect(file, func(node ast.Node) bool {
		switch decl := node.(type) {
		case *ast.GenDecl:
			if decl.Tok != token.CONST && decl.Tok != token.VAR {
				return true
			}
			for _, spec := range decl.Specs {
				valueSpec, ok := spec.(*ast.ValueSpec)
				if !ok {
					continue
				}
				for idx, name := range valueSpec.Names {
					expr := selectValueExpr(valueSpec.Values, idx, len(valueSpec.Names))
					if expr == nil {
						table.bind(name.Name, 0, false)
						continue
					}
					v, ok := table.fold(expr)
					table.bind(name.Name, v, ok)
				}
			}
		case *ast.AssignStmt:
			if decl.Tok != token.DEFINE {
				return true
			}
			for idx, lhs := range decl.Lhs {
				ident, ok := lhs.(*ast.Ident)
				if !ok {
					continue
				}
				expr := selectValueExpr(decl.Rhs, idx, len(decl.Lhs))
				if expr == nil {
					table.bind(ident.Name, 0, false)
					continue
				}
				v, ok := table.fold(expr)
				table.bind(ident.Name, v, ok)
			}
		}
		return true
	})

	return table
}

// selectValueExpr pairs the idx-th name of a declaration with its
// value expression. A single expression for multiple names is a
// multi-value call, which never folds.
func selectValueExpr(values []ast.Expr, idx, names int) ast.Expr {
	if len(values) == 0 {
		return nil
	}
	if names > 1 && len(values) == 1 {
		return nil
	}
	if idx < len(values) {
		return values[idx]
	}
	return nil
}

// fold evaluates a constant expression against the table. Arithmetic
// runs in floating point, matching how the animation primitives
// consume the values. Any unresolvable part poisons the whole
// expression.
func (t *symtab) fold(expr ast.Expr) (float64, bool) {
	switch typed := expr.(type) {
	case *ast.BasicLit:
		return foldLiteral(typed)
	case *ast.ParenExpr:
		return t.fold(typed.X)
	case *ast.Ident:
		return t.resolve(typed.Name)
	case *ast.UnaryExpr:
		v, ok := t.fold(typed.X)
		if !ok {
			return 0, false
		}
		switch typed.Op {
		case token.SUB:
			return -v, true
		case token.ADD:
			return v, true
		}
		return 0, false
	case *ast.BinaryExpr:
		left, ok := t.fold(typed.X)
		if !ok {
			return 0, false
		}
		right, ok := t.fold(typed.Y)
		if !ok {
			return 0, false
		}
		switch typed.Op {
		case token.ADD:
			return left + right, true
		case token.SUB:
			return left - right, true
		case token.MUL:
			return left * right, true
		case token.QUO:
			if right == 0 {
				return 0, false
			}
			return left / right, true
		case token.REM:
			if right == 0 {
				return 0, false
			}
			return math.Mod(left, right), true
		}
		return 0, false
	case *ast.CallExpr:
		return t.foldCall(typed)
	}
	return 0, false
}

// foldCall evaluates the closed set of functions the timing grammar
// admits: the math rounding and comparison helpers, the min and max
// builtins, and numeric conversions.
func (t *symtab) foldCall(call *ast.CallExpr) (float64, bool) {
	args := make([]float64, 0, len(call.Args))
	for _, arg := range call.Args {
		v, ok := t.fold(arg)
		if !ok {
			return 0, false
		}
		args = append(args, v)
	}

	switch fun := call.Fun.(type) {
	case *ast.SelectorExpr:
		pkg, ok := fun.X.(*ast.Ident)
		if !ok || pkg.Name != "math" {
			return 0, false
		}
		switch fun.Sel.Name {
		case "Round":
			return applyUnary(math.Round, args)
		case "Floor":
			return applyUnary(math.Floor, args)
		case "Ceil":
			return applyUnary(math.Ceil, args)
		case "Abs":
			return applyUnary(math.Abs, args)
		case "Min":
			return applyBinary(math.Min, args)
		case "Max":
			return applyBinary(math.Max, args)
		case "Mod":
			return applyBinary(math.Mod, args)
		}
		return 0, false
	case *ast.Ident:
		switch fun.Name {
		case "min":
			return reduceAll(math.Min, args)
		case "max":
			return reduceAll(math.Max, args)
		case "float64", "float32":
			return applyUnary(func(v float64) float64 { return v }, args)
		case "int", "int64", "int32":
			return applyUnary(math.Trunc, args)
		}
		return 0, false
	}
	return 0, false
}

func applyUnary(fn func(float64) float64, args []float64) (float64, bool) {
	if len(args) != 1 {
		return 0, false
	}
	return fn(args[0]), true
}

func applyBinary(fn func(float64, float64) float64, args []float64) (float64, bool) {
	if len(args) != 2 {
		return 0, false
	}
	return fn(args[0], args[1]), true
}

func reduceAll(fn func(float64, float64) float64, args []float64) (float64, bool) {
	if len(args) == 0 {
		return 0, false
	}
	acc := args[0]
	for _, v := range args[1:] {
		acc = fn(acc, v)
	}
	return acc, true
}

// foldLiteral parses numeric literals, including hex and underscore
// forms for integers.
func foldLiteral(lit *ast.BasicLit) (float64, bool) {
	switch lit.Kind {
	case token.INT:
		n, err := strconv.ParseInt(strings.ReplaceAll(lit.Value, "_", ""), 0, 64)
		if err != nil {
			return 0, false
		}
		return float64(n), true
	case token.FLOAT:
		f, err := strconv.ParseFloat(strings.ReplaceAll(lit.Value, "_", ""), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

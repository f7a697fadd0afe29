package timing

import (
	"fmt"
	"go/ast"
	"go/token"
	"strconv"
	"strings"
)

// animImportPath is the package the extractor recognizes animation
// calls from, matched by import path suffix so vendored or forked
// module paths still resolve.
const animImportPath = "/internal/anim"

// propertyNames maps the animatable layer property fields to their
// report names. Anything else reports under its own identifier.
var propertyNames = map[string]string{
	"Opacity": "opacity",
	"OffsetX": "offset_x",
	"OffsetY": "offset_y",
	"Scale":   "scale",
	"Counter": "counter",
}

// scope is the lexical context an expression is walked in: the
// property it feeds (from the assignment left side) and the best
// context hint found so far (a switch case label, else the enclosing
// function).
type scope struct {
	property string
	context  string
}

type extractor struct {
	file  *ast.File
	fset  *token.FileSet
	table *symtab

	animPkg string
	mathPkg string

	anims []Animation
	errs  []string
}

func newExtractor(file *ast.File, fset *token.FileSet, table *symtab) *extractor {
	ex := &extractor{
		file:    file,
		fset:    fset,
		table:   table,
		animPkg: "anim",
		mathPkg: "math",
	}

	// The source decides the local package names; honor aliases.
	for _, imp := range file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		name := path[strings.LastIndex(path, "/")+1:]
		if imp.Name != nil && imp.Name.Name != "_" && imp.Name.Name != "." {
			name = imp.Name.Name
		}
		switch {
		case strings.HasSuffix(path, animImportPath) || path == strings.TrimPrefix(animImportPath, "/"):
			ex.animPkg = name
		case path == "math":
			ex.mathPkg = name
		}
	}

	return ex
}

// run performs the second pass: every function body in the file,
// walked for recognizable animation call shapes.
func (ex *extractor) run() []Animation {
	for _, decl := range ex.file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Body == nil {
			continue
		}
		ex.walkStmts(fn.Body.List, scope{
			property: ContextUnknown,
			context:  funcContext(fn),
		})
	}
	return ex.anims
}

// funcContext names a function for the context hint, including the
// receiver type for methods ("Title.Props").
func funcContext(fn *ast.FuncDecl) string {
	if fn.Recv != nil && len(fn.Recv.List) == 1 {
		t := fn.Recv.List[0].Type
		if star, ok := t.(*ast.StarExpr); ok {
			t = star.X
		}
		if ident, ok := t.(*ast.Ident); ok {
			return ident.Name + "." + fn.Name.Name
		}
	}
	return fn.Name.Name
}

func (ex *extractor) walkStmts(stmts []ast.Stmt, sc scope) {
	for _, stmt := range stmts {
		ex.walkStmt(stmt, sc)
	}
}

func (ex *extractor) walkStmt(stmt ast.Stmt, sc scope) {
	switch st := stmt.(type) {
	case *ast.AssignStmt:
		for i, rhs := range st.Rhs {
			inner := sc
			if i < len(st.Lhs) {
				inner.property = propertyOf(st.Lhs[i])
			}
			ex.walkExpr(rhs, inner)
		}
	case *ast.DeclStmt:
		gen, ok := st.Decl.(*ast.GenDecl)
		if !ok {
			return
		}
		for _, spec := range gen.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			for i, value := range vs.Values {
				inner := sc
				if i < len(vs.Names) {
					inner.property = vs.Names[i].Name
				}
				ex.walkExpr(value, inner)
			}
		}
	case *ast.ExprStmt:
		ex.walkExpr(st.X, sc)
	case *ast.ReturnStmt:
		for _, result := range st.Results {
			ex.walkExpr(result, sc)
		}
	case *ast.BlockStmt:
		ex.walkStmts(st.List, sc)
	case *ast.IfStmt:
		if st.Init != nil {
			ex.walkStmt(st.Init, sc)
		}
		ex.walkStmt(st.Body, sc)
		if st.Else != nil {
			ex.walkStmt(st.Else, sc)
		}
	case *ast.ForStmt:
		ex.walkStmt(st.Body, sc)
	case *ast.RangeStmt:
		ex.walkStmt(st.Body, sc)
	case *ast.SwitchStmt:
		for _, clause := range st.Body.List {
			cc, ok := clause.(*ast.CaseClause)
			if !ok {
				continue
			}
			inner := sc
			// A string case label ("headline") is the closest hint to
			// what layer the animations in this branch drive.
			if label, ok := caseLabel(cc); ok {
				inner.context = label
			}
			ex.walkStmts(cc.Body, inner)
		}
	}
}

// propertyOf names the property an assignment target drives. The
// animatable layer fields get their report names; other identifiers
// report as themselves.
func propertyOf(lhs ast.Expr) string {
	switch e := lhs.(type) {
	case *ast.SelectorExpr:
		if name, ok := propertyNames[e.Sel.Name]; ok {
			return name
		}
		return e.Sel.Name
	case *ast.Ident:
		if e.Name != "_" {
			return e.Name
		}
	}
	return ContextUnknown
}

// caseLabel extracts the first string literal of a case clause.
func caseLabel(cc *ast.CaseClause) (string, bool) {
	for _, expr := range cc.List {
		lit, ok := expr.(*ast.BasicLit)
		if !ok || lit.Kind != token.STRING {
			continue
		}
		s, err := strconv.Unquote(lit.Value)
		if err != nil {
			continue
		}
		return s, true
	}
	return "", false
}

// walkExpr records every recognizable animation call under expr and
// keeps descending, so an interpolation nested inside a rounding
// helper is seen both as the counter composition and as itself; the
// deduplication pass collapses the pair.
func (ex *extractor) walkExpr(expr ast.Expr, sc scope) {
	switch e := expr.(type) {
	case *ast.CallExpr:
		ex.classifyCall(e, sc)
		for _, arg := range e.Args {
			ex.walkExpr(arg, sc)
		}
	case *ast.ParenExpr:
		ex.walkExpr(e.X, sc)
	case *ast.UnaryExpr:
		ex.walkExpr(e.X, sc)
	case *ast.BinaryExpr:
		ex.walkExpr(e.X, sc)
		ex.walkExpr(e.Y, sc)
	case *ast.KeyValueExpr:
		ex.walkExpr(e.Value, sc)
	case *ast.CompositeLit:
		for _, elt := range e.Elts {
			ex.walkExpr(elt, sc)
		}
	}
}

func (ex *extractor) classifyCall(call *ast.CallExpr, sc scope) {
	// Rounding helpers directly around an interpolation are the
	// counting-number idiom: tag the composition as a counter.
	if name, ok := ex.selectorOf(call, ex.mathPkg); ok {
		switch name {
		case "Round", "Floor", "Ceil":
			if len(call.Args) == 1 {
				if inner, ok := ex.interpolateCall(call.Args[0]); ok {
					ex.recordInterpolate(inner, sc, TypeCounter)
				}
			}
		}
		return
	}

	name, ok := ex.selectorOf(call, ex.animPkg)
	if !ok {
		return
	}
	switch name {
	case "Interpolate":
		ex.recordInterpolate(call, sc, TypeInterpolate)
	case "Spring":
		ex.recordSpring(call, sc, nil, nil)
	case "SpringValue":
		if len(call.Args) >= 5 {
			ex.recordSpring(call, sc, call.Args[3], call.Args[4])
		}
	}
}

// selectorOf matches a call of the form pkg.Name and returns Name.
func (ex *extractor) selectorOf(call *ast.CallExpr, pkg string) (string, bool) {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return "", false
	}
	ident, ok := sel.X.(*ast.Ident)
	if !ok || ident.Name != pkg {
		return "", false
	}
	return sel.Sel.Name, true
}

// interpolateCall unwraps parens and reports whether expr is an
// anim.Interpolate call.
func (ex *extractor) interpolateCall(expr ast.Expr) (*ast.CallExpr, bool) {
	for {
		paren, ok := expr.(*ast.ParenExpr)
		if !ok {
			break
		}
		expr = paren.X
	}
	call, ok := expr.(*ast.CallExpr)
	if !ok {
		return nil, false
	}
	name, ok := ex.selectorOf(call, ex.animPkg)
	if !ok || name != "Interpolate" {
		return nil, false
	}
	return call, true
}

func (ex *extractor) recordInterpolate(call *ast.CallExpr, sc scope, typ string) {
	if len(call.Args) < 3 {
		ex.note(call.Pos(), "interpolate call has %d arguments, want at least 3", len(call.Args))
		return
	}

	start, end := ex.rangeEnds(call.Args[1], call.Pos(), "input")
	from, to := ex.rangeEnds(call.Args[2], call.Pos(), "output")

	ex.anims = append(ex.anims, Animation{
		Type:       typ,
		Property:   sc.property,
		StartFrame: start,
		EndFrame:   end,
		From:       from,
		To:         to,
		Context:    sc.context,
	})
}

// rangeEnds folds the first and last element of a []float64 literal.
// A range that is not a literal cannot be resolved and yields nils
// with a note in the report.
func (ex *extractor) rangeEnds(expr ast.Expr, pos token.Pos, which string) (*float64, *float64) {
	lit, ok := expr.(*ast.CompositeLit)
	if !ok || len(lit.Elts) == 0 {
		ex.note(pos, "%s range is not a literal; values unresolved", which)
		return nil, nil
	}
	return ex.foldPtr(lit.Elts[0]), ex.foldPtr(lit.Elts[len(lit.Elts)-1])
}

func (ex *extractor) recordSpring(call *ast.CallExpr, sc scope, fromExpr, toExpr ast.Expr) {
	if len(call.Args) < 3 {
		ex.note(call.Pos(), "spring call has %d arguments, want at least 3", len(call.Args))
		return
	}

	// A spring settles asymptotically, so only its release frame is
	// reported. The canonical delay shape is frame - <offset>.
	start := ex.springStart(call.Args[0])
	if start == nil {
		ex.note(call.Pos(), "spring release frame unresolved")
	}

	from := ptr(0.0)
	to := ptr(1.0)
	if fromExpr != nil {
		from = ex.foldPtr(fromExpr)
	}
	if toExpr != nil {
		to = ex.foldPtr(toExpr)
	}

	ex.anims = append(ex.anims, Animation{
		Type:       TypeSpring,
		Property:   sc.property,
		StartFrame: start,
		From:       from,
		To:         to,
		Context:    sc.context,
	})
}

// springStart resolves the release frame of a spring's first
// argument: a bare frame identifier releases at 0, frame-minus-offset
// at the folded offset. Anything else depends on runtime state.
func (ex *extractor) springStart(expr ast.Expr) *float64 {
	switch e := expr.(type) {
	case *ast.Ident:
		if e.Name == "frame" {
			return ptr(0.0)
		}
	case *ast.ParenExpr:
		return ex.springStart(e.X)
	case *ast.BinaryExpr:
		if e.Op != token.SUB {
			return nil
		}
		if ident, ok := e.X.(*ast.Ident); ok && ident.Name == "frame" {
			return ex.foldPtr(e.Y)
		}
	}
	return nil
}

func (ex *extractor) foldPtr(expr ast.Expr) *float64 {
	v, ok := ex.table.fold(expr)
	if !ok {
		return nil
	}
	return &v
}

func (ex *extractor) note(pos token.Pos, format string, args ...any) {
	p := ex.fset.Position(pos)
	ex.errs = append(ex.errs, fmt.Sprintf("%s:%d: %s", p.Filename, p.Line, fmt.Sprintf(format, args...)))
}

func ptr(v float64) *float64 { return &v }

// dedupe collapses animations that resolve to the same start frame,
// property and layer, which happens when one value is wrapped by
// several helper calls. Entries with distinct concrete contexts drive
// distinct layers and both survive. The survivor of a collision is
// chosen deterministically: a non-generic type (counter, spring)
// beats a plain interpolate, a concrete context beats an unknown one,
// and otherwise the first entry stands. Output order follows first
// appearance.
func dedupe(anims []Animation) []Animation {
	type key struct {
		start    string
		property string
	}

	startKey := func(a Animation) string {
		if a.StartFrame == nil {
			return "null"
		}
		return strconv.FormatFloat(*a.StartFrame, 'g', -1, 64)
	}

	out := make([]Animation, 0, len(anims))
	buckets := make(map[key][]int, len(anims))

	for _, a := range anims {
		k := key{start: startKey(a), property: a.Property}
		merged := false
		for _, i := range buckets[k] {
			if !sameLayer(a, out[i]) {
				continue
			}
			if beats(a, out[i]) {
				out[i] = a
			}
			merged = true
			break
		}
		if merged {
			continue
		}
		buckets[k] = append(buckets[k], len(out))
		out = append(out, a)
	}

	return out
}

// sameLayer reports whether two colliding entries describe the same
// animation. An unknown context matches anything; two different
// concrete contexts are different layers and never merge.
func sameLayer(a, b Animation) bool {
	return a.Context == b.Context || a.Context == ContextUnknown || b.Context == ContextUnknown
}

// beats reports whether a should replace the already-kept b.
func beats(a, b Animation) bool {
	aGeneric := a.Type == TypeInterpolate
	bGeneric := b.Type == TypeInterpolate
	if aGeneric != bGeneric {
		return !aGeneric
	}
	aUnknown := a.Context == ContextUnknown
	bUnknown := b.Context == ContextUnknown
	if aUnknown != bUnknown {
		return !aUnknown
	}
	return false
}

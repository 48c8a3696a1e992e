package arch_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"strings"
	"testing"
)

// globalPrefixes exempts, per package, package-level vars whose names carry a
// prefix reserved for values that are never reassigned.
var globalPrefixes = map[string][]string{
	"ui": {"style", "color"}, // lipgloss styles and colours
}

// TestNoMutableGlobalState rejects package-level vars unless their value is
// fixed at declaration: sentinel errors, literals and lookup tables, compiled
// regexps, sync primitives, and blank interface assertions. Anything else
// should be a field on the type that uses it.
func TestNoMutableGlobalState(t *testing.T) {
	t.Parallel()

	for _, pkg := range internalPackages(t) {
		t.Run(pkg, func(t *testing.T) {
			t.Parallel()
			for _, path := range goFilesIn(t, filepath.Join(internalDirPath(t), pkg)) {
				for _, decl := range parseFile(t, path, parser.SkipObjectResolution).Decls {
					gd, ok := decl.(*ast.GenDecl)
					if !ok || gd.Tok != token.VAR {
						continue
					}
					for _, spec := range gd.Specs {
						vs := spec.(*ast.ValueSpec)
						for i, name := range vs.Names {
							var val ast.Expr
							if i < len(vs.Values) {
								val = vs.Values[i]
							}
							if !fixedGlobal(pkg, name.Name, vs.Type, val) {
								t.Errorf("%s: package-level var %s is mutable state; inject it instead",
									filepath.Base(path), name.Name)
							}
						}
					}
				}
			}
		})
	}
}

func fixedGlobal(pkg, name string, typ, val ast.Expr) bool {
	if name == "_" {
		return true
	}
	for _, p := range globalPrefixes[pkg] {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	if id, ok := typ.(*ast.Ident); ok && id.Name == "error" {
		return true
	}
	if sel, ok := typ.(*ast.SelectorExpr); ok {
		if x, ok := sel.X.(*ast.Ident); ok && (x.Name == "sync" || x.Name == "atomic") {
			return true
		}
	}
	switch v := val.(type) {
	case *ast.BasicLit, *ast.CompositeLit:
		return true
	case *ast.CallExpr:
		switch calleeName(v) {
		case "errors.New", "fmt.Errorf", "regexp.MustCompile":
			return true
		}
	}
	return false
}

// calleeName renders pkg.Func for a qualified call and "" otherwise.
func calleeName(call *ast.CallExpr) string {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return ""
	}
	x, ok := sel.X.(*ast.Ident)
	if !ok {
		return ""
	}
	return x.Name + "." + sel.Sel.Name
}

package arch_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"
)

const (
	modulePath  = "github.com/papapumpkin/timecrisis"
	internalPfx = modulePath + "/internal/"
)

// internalDirPath returns <module root>/internal. The module root is the
// nearest ancestor of this file that holds go.mod.
func internalDirPath(t *testing.T) string {
	t.Helper()
	_, self, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot locate arch_test sources")
	}
	for dir := filepath.Dir(self); ; {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return filepath.Join(dir, "internal")
		}
		up := filepath.Dir(dir)
		if up == dir {
			t.Fatal("no go.mod above " + self)
		}
		dir = up
	}
}

// repoRoot is the module root, for reporting paths relative to it.
func repoRoot(t *testing.T) string {
	t.Helper()
	return filepath.Dir(internalDirPath(t))
}

// internalPackages lists the directories under internal/ that hold Go
// sources, other than this one, sorted by name.
func internalPackages(t *testing.T) []string {
	t.Helper()
	dir := internalDirPath(t)
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read %s: %v", dir, err)
	}
	var pkgs []string
	for _, e := range entries {
		if e.IsDir() && e.Name() != "arch_test" && len(goFilesIn(t, filepath.Join(dir, e.Name()))) > 0 {
			pkgs = append(pkgs, e.Name())
		}
	}
	return pkgs
}

// goFilesIn returns the non-test Go files directly inside dir, sorted.
func goFilesIn(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*.go"))
	if err != nil {
		t.Fatalf("glob %s: %v", dir, err)
	}
	return slices.DeleteFunc(matches, func(f string) bool {
		return strings.HasSuffix(f, "_test.go")
	})
}

func parseFile(t *testing.T, path string, mode parser.Mode) *ast.File {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), path, nil, mode)
	if err != nil {
		t.Fatalf("parse %s: %v", path, err)
	}
	return f
}

// importsOf returns the internal packages (top-level names such as "astro")
// imported by the non-test files of pkgDir, sorted and deduplicated.
func importsOf(t *testing.T, pkgDir string) []string {
	t.Helper()
	var out []string
	for _, path := range goFilesIn(t, pkgDir) {
		for _, imp := range parseFile(t, path, parser.ImportsOnly).Imports {
			rest, ok := strings.CutPrefix(strings.Trim(imp.Path.Value, `"`), internalPfx)
			if !ok {
				continue
			}
			name, _, _ := strings.Cut(rest, "/")
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// lineCount counts lines, including a final line without a newline.
func lineCount(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	n := strings.Count(string(data), "\n")
	if len(data) > 0 && data[len(data)-1] != '\n' {
		n++
	}
	return n
}

// docText returns the first non-empty comment group's text.
func docText(groups ...*ast.CommentGroup) string {
	for _, g := range groups {
		if g != nil {
			return g.Text()
		}
	}
	return ""
}

// interfaceDecl is an interface type and its method names.
type interfaceDecl struct {
	Name    string
	Pkg     string
	File    string
	Methods []string
}

// interfaceDecls returns the interface types declared in one file.
func interfaceDecls(t *testing.T, path string) []interfaceDecl {
	t.Helper()
	f := parseFile(t, path, parser.ParseComments)
	var out []interfaceDecl
	ast.Inspect(f, func(n ast.Node) bool {
		ts, ok := n.(*ast.TypeSpec)
		if !ok {
			return true
		}
		it, ok := ts.Type.(*ast.InterfaceType)
		if !ok {
			return false
		}
		d := interfaceDecl{Name: ts.Name.Name, Pkg: f.Name.Name, File: path}
		for _, m := range it.Methods.List {
			for _, id := range m.Names {
				d.Methods = append(d.Methods, id.Name)
			}
		}
		out = append(out, d)
		return false
	})
	return out
}

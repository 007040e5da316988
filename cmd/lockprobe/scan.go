package main

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/mod/modfile"
	"golang.org/x/sync/errgroup"
)

// lockSite is one mutex found in the scanned source.
type lockSite struct {
	File string // path relative to the module root
	Line int
	Kind string // "sync.Mutex", "sync.RWMutex", "rwsync.RWMutex", ...
	// Owner names the enclosing declaration: "Type.field" for struct
	// fields, the variable name for value declarations, "" for call sites.
	Owner string
	// Suggested is the registration descriptor suggestion for plain
	// locks: "category" and "name" derived from package and owner.
	Suggested string
	// Instrumented is true for rwsync types and constructor calls.
	Instrumented bool
}

// scanReport is the result of scanning one module.
type scanReport struct {
	ModulePath string
	Root       string
	Files      int
	Sites      []lockSite
}

// Instrumented returns the number of instrumented sites.
func (r *scanReport) Instrumented() int {
	n := 0
	for _, s := range r.Sites {
		if s.Instrumented {
			n++
		}
	}
	return n
}

// Plain returns the number of uninstrumented sites.
func (r *scanReport) Plain() int {
	return len(r.Sites) - r.Instrumented()
}

// scanCommand implements 'lockprobe scan'.
func scanCommand(args []string) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	report, err := scanModule(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	printReport(report)
}

// scanModule scans the module enclosing dir and classifies every mutex.
//
// Flow:
//  1. Walk up from dir to the enclosing go.mod; parse it for the module
//     path (golang.org/x/mod/modfile).
//  2. Collect .go files under the module root, skipping vendor/, testdata/
//     and hidden or underscore-prefixed directories.
//  3. Parse and inspect files in parallel, one errgroup task per file.
//  4. Sort sites by position for deterministic output.
func scanModule(dir string) (*scanReport, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	root, modPath, err := findModule(abs)
	if err != nil {
		return nil, err
	}

	files, err := collectGoFiles(root)
	if err != nil {
		return nil, err
	}

	report := &scanReport{ModulePath: modPath, Root: root, Files: len(files)}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	for _, file := range files {
		file := file
		g.Go(func() error {
			sites, err := scanFile(root, file)
			if err != nil {
				// A file that does not parse is reported, not fatal:
				// coverage for the rest of the module is still useful.
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
				return nil
			}
			mu.Lock()
			report.Sites = append(report.Sites, sites...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(report.Sites, func(i, j int) bool {
		a, b := report.Sites[i], report.Sites[j]
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Line < b.Line
	})
	return report, nil
}

// findModule walks up from dir to the nearest go.mod and returns the
// module root and module path.
func findModule(dir string) (root, modPath string, err error) {
	for {
		modFile := filepath.Join(dir, "go.mod")
		if data, err := os.ReadFile(modFile); err == nil {
			mf, err := modfile.Parse(modFile, data, nil)
			if err != nil {
				return "", "", fmt.Errorf("parsing %s: %w", modFile, err)
			}
			if mf.Module == nil {
				return "", "", fmt.Errorf("%s has no module directive", modFile)
			}
			return dir, mf.Module.Mod.Path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", fmt.Errorf("no go.mod found above %s", dir)
		}
		dir = parent
	}
}

// collectGoFiles lists the .go files under root, skipping vendored,
// testdata, hidden and underscore-prefixed directories.
func collectGoFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && (name == "vendor" || name == "testdata" ||
				strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(name, ".go") {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// scanFile parses one file and returns the lock sites it declares.
func scanFile(root, path string) ([]lockSite, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, path, nil, parser.SkipObjectResolution)
	if err != nil {
		return nil, err
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}

	v := &lockVisitor{
		fset: fset,
		file: rel,
		pkg:  f.Name.Name,
	}
	ast.Inspect(f, v.inspect)
	return v.sites, nil
}

// lockVisitor collects mutex declarations and rwsync constructor calls
// from one file's AST.
//
// The check is syntactic: selector expressions are matched against the
// literal package names "sync" and "rwsync". Renamed imports are not
// resolved; like the rest of the tool this trades type-checker precision
// for a scan that needs no build context.
type lockVisitor struct {
	fset  *token.FileSet
	file  string
	pkg   string
	sites []lockSite
}

// mutexKind classifies a field or value type expression.
// Returns "" when the type is not a known mutex.
func mutexKind(expr ast.Expr) (kind string, instrumented bool) {
	// Unwrap pointer types: *rwsync.RWMutex fields are common.
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	sel, ok := expr.(*ast.SelectorExpr)
	if !ok {
		return "", false
	}
	pkg, ok := sel.X.(*ast.Ident)
	if !ok {
		return "", false
	}
	switch pkg.Name + "." + sel.Sel.Name {
	case "sync.Mutex":
		return "sync.Mutex", false
	case "sync.RWMutex":
		return "sync.RWMutex", false
	case "rwsync.Mutex":
		return "rwsync.Mutex", true
	case "rwsync.RWMutex":
		return "rwsync.RWMutex", true
	}
	return "", false
}

func (v *lockVisitor) inspect(n ast.Node) bool {
	switch node := n.(type) {
	case *ast.TypeSpec:
		st, ok := node.Type.(*ast.StructType)
		if !ok {
			return true
		}
		for _, field := range st.Fields.List {
			kind, instrumented := mutexKind(field.Type)
			if kind == "" {
				continue
			}
			if len(field.Names) == 0 {
				// Embedded mutex.
				v.add(field.Pos(), kind, node.Name.Name, instrumented)
				continue
			}
			for _, name := range field.Names {
				v.add(name.Pos(), kind, node.Name.Name+"."+name.Name, instrumented)
			}
		}
	case *ast.ValueSpec:
		kind, instrumented := mutexKind(node.Type)
		if kind == "" {
			return true
		}
		for _, name := range node.Names {
			v.add(name.Pos(), kind, name.Name, instrumented)
		}
	case *ast.CallExpr:
		sel, ok := node.Fun.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		pkg, ok := sel.X.(*ast.Ident)
		if !ok || pkg.Name != "rwsync" {
			return true
		}
		switch sel.Sel.Name {
		case "New":
			v.add(node.Pos(), "rwsync.New", "", true)
		case "NewMutex":
			v.add(node.Pos(), "rwsync.NewMutex", "", true)
		}
	}
	return true
}

func (v *lockVisitor) add(pos token.Pos, kind, owner string, instrumented bool) {
	site := lockSite{
		File:         v.file,
		Line:         v.fset.Position(pos).Line,
		Kind:         kind,
		Owner:        owner,
		Instrumented: instrumented,
	}
	if !instrumented {
		name := owner
		if name == "" {
			name = "lock"
		}
		site.Suggested = v.pkg + "/" + name
	}
	v.sites = append(v.sites, site)
}

// printReport writes the human-readable coverage report.
func printReport(r *scanReport) {
	fmt.Printf("Module %s (%d files scanned)\n", r.ModulePath, r.Files)
	fmt.Printf("  instrumented sites: %d\n", r.Instrumented())
	fmt.Printf("  plain sites:        %d\n\n", r.Plain())

	if r.Plain() == 0 {
		fmt.Println("All locks instrumented.")
		return
	}

	fmt.Println("Uninstrumented locks:")
	for _, s := range r.Sites {
		if s.Instrumented {
			continue
		}
		fmt.Printf("  %s:%d  %s  %s\n", s.File, s.Line, s.Kind, s.Owner)
		fmt.Printf("      suggested descriptor: %q\n", s.Suggested)
	}
}

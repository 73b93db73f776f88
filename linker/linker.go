package linker

import (
	"slices"

	"github.com/reactiveobject/reactivegen/ast"
	"github.com/reactiveobject/reactivegen/reporter"
	"github.com/reactiveobject/reactivegen/scan"
	"github.com/reactiveobject/reactivegen/wellknowntypes"
)

// Options control how names are resolved.
type Options struct {
	// Marker is the metadata name of the marker attribute, as reported by
	// Result.Marker.
	Marker string
	// References are metadata names of types that exist outside the linked
	// files, or "Namespace.*" to accept any type name in a namespace. They
	// are added to the wellknowntypes catalog.
	References []string
	// GlobalUsings are namespaces imported into every file, in addition to
	// the files' own "global using" directives.
	GlobalUsings []string
	// NoImplicitUsings turns off the namespaces the .NET SDK imports by
	// default (see wellknowntypes.ImplicitUsings).
	NoImplicitUsings bool
}

// Link resolves the declarations in the given files, which make up one
// compilation. Duplicate type declarations and other link errors are
// reported to handler. If any such errors are reported, this function
// returns a non-nil error, along with a result holding whatever could be
// linked.
//
// A nil handler fails on the first error.
func Link(files []*ast.FileNode, opts Options, handler *reporter.Handler) (*Result, error) {
	if handler == nil {
		handler = reporter.NewHandler(nil)
	}
	r := &Result{syms: newSymbols(), marker: opts.Marker}
	for _, ref := range wellknowntypes.Names() {
		r.syms.addReference(ref)
	}
	for _, ref := range opts.References {
		r.syms.addReference(ref)
	}

	l := &linker{r: r, handler: handler, globals: &globals{}}

	// First, we enter every declaration into the symbol table. Names can
	// only be resolved once all of them are known, since a file may use a
	// type declared in a file that comes after it.
	for _, file := range files {
		if err := l.declareFile(file); err != nil {
			return nil, err
		}
	}

	// Using directives name namespaces, which may be relative to the
	// namespace declaring the directive, so they are resolved next.
	// Lookups of all other names happen on demand, when the scanner asks.
	imports := slices.Clone(opts.GlobalUsings)
	if !opts.NoImplicitUsings {
		imports = append(imports, wellknowntypes.ImplicitUsings()...)
	}
	for _, u := range l.globals.usings {
		imports = append(imports, dottedName(u))
	}
	l.globals.imports = uniqueInOrder(imports)
	for _, sc := range l.scopes {
		for _, u := range sc.usings {
			sc.imports = append(sc.imports, r.resolveImport(sc, u))
		}
		sc.imports = uniqueInOrder(sc.imports)
	}

	return r, handler.Error()
}

type linker struct {
	r       *Result
	handler *reporter.Handler
	globals *globals
	// scopes are all namespace-level scopes, whose usings need resolving.
	scopes []*scope
}

func (l *linker) declareFile(file *ast.FileNode) error {
	sc := newFileScope(file, l.globals)
	if err := sc.addUsings(file.Usings, l.globals, l.handler); err != nil {
		return err
	}
	l.scopes = append(l.scopes, sc)
	return l.declareMembers(sc, "", file.Decls)
}

func (l *linker) declareMembers(sc *scope, ns string, decls []ast.Decl) error {
	for _, decl := range decls {
		switch decl := decl.(type) {
		case *ast.NamespaceNode:
			inner, name := sc, ns
			for _, part := range decl.Name.Parts {
				name = qualify(name, plainName(part.Name))
				inner = newNamespaceScope(inner, name)
			}
			l.r.syms.addNamespace(name)
			if err := inner.addUsings(decl.Usings, l.globals, l.handler); err != nil {
				return err
			}
			l.scopes = append(l.scopes, inner)
			if err := l.declareMembers(inner, name, decl.Decls); err != nil {
				return err
			}
		case *ast.TypeDeclNode:
			if err := l.declareType(sc, ns, nil, decl); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *linker) declareType(sc *scope, ns string, parent *symbol, node *ast.TypeDeclNode) error {
	body := newBodyScope(sc)
	sym, err := l.r.syms.declare(ns, parent, node, body, l.handler)
	if err != nil {
		return err
	}
	if sym == nil {
		// the error was reported and the reporter chose to continue
		return nil
	}
	if len(sym.decl.fragments) == 1 {
		l.r.order = append(l.r.order, sym)
	}
	for _, nested := range node.Nested {
		if err := l.declareType(body, ns, sym, nested); err != nil {
			return err
		}
	}
	return nil
}

func uniqueInOrder(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	result := names[:0]
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		result = append(result, name)
	}
	return result
}

// Result is the result of linking. It implements scan.Resolver, and its
// Types implement scan.Type.
type Result struct {
	syms   *symbols
	marker string
	// order holds the declared types, in order of their first
	// declaration. A nested type follows the type containing it.
	order []*symbol
}

var _ scan.Resolver = (*Result)(nil)

// Types returns the classes declared in the linked files, nested classes
// included. The order is that of each class's first declaration: by file,
// in the order the files were given to Link, then by position. Structs,
// records, interfaces and enums are not included.
func (r *Result) Types() []scan.Type {
	var types []scan.Type
	for _, sym := range r.order {
		if sym.decl.kind == ast.KindClass {
			types = append(types, &Type{sym: sym, r: r})
		}
	}
	return types
}

// Lookup returns the declared type with the given metadata name, such as
// "A.B.Box`1" or "A.Outer+Inner". It returns false for unknown names and
// for types that are only known as references.
func (r *Result) Lookup(metadataName string) (*Type, bool) {
	sym, ok := r.syms.types.Get(metadataName)
	if !ok || sym.decl == nil {
		return nil, false
	}
	return &Type{sym: sym, r: r}, true
}

// Marker returns the metadata name of the marker attribute if a type with
// that name is declared or referenced.
func (r *Result) Marker() (string, bool) {
	if r.marker == "" {
		return "", false
	}
	ref := externalSymbol(r.marker)
	if sym, _ := r.syms.lookup(ref.ns, ref.name, ref.arity); sym == nil || sym.key != r.marker {
		return "", false
	}
	return r.marker, true
}

// ResolveAnnotation returns the metadata name of the attribute type an
// annotation refers to. The annotation must have come from this result.
func (r *Result) ResolveAnnotation(a scan.Annotation) (string, bool) {
	ann, ok := a.(*Annotation)
	if !ok || ann.r != r {
		return "", false
	}
	sym, ok := r.resolveAttribute(ann.node, ann.scope)
	if !ok {
		return "", false
	}
	return sym.key, true
}

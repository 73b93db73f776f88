package linker

import (
	"slices"
	"strings"

	"github.com/reactiveobject/reactivegen/ast"
)

type entityKind int

const (
	entityNamespace entityKind = iota + 1
	entityType
	entityTypeParam
)

// entity is what a name resolves to: a namespace, a type or a type
// parameter.
type entity struct {
	kind entityKind
	// ns is the name of a namespace entity.
	ns  string
	sym *symbol
	// display is the qualified display string of a type or type parameter,
	// including any type arguments.
	display string
	args    []string
}

// keywordTypes maps the metadata names of the predefined types to their
// C# keywords, which is how they are displayed.
var keywordTypes = map[string]string{
	"System.Boolean": "bool",
	"System.Byte":    "byte",
	"System.SByte":   "sbyte",
	"System.Char":    "char",
	"System.Decimal": "decimal",
	"System.Double":  "double",
	"System.Single":  "float",
	"System.Int16":   "short",
	"System.UInt16":  "ushort",
	"System.Int32":   "int",
	"System.UInt32":  "uint",
	"System.Int64":   "long",
	"System.UInt64":  "ulong",
	"System.Object":  "object",
	"System.String":  "string",
}

func (r *Result) typeEntity(sym *symbol) entity {
	return entity{kind: entityType, sym: sym, display: displayName(sym)}
}

// displayName returns the qualified name of sym without type arguments.
// A containing generic type is shown with its own type parameters, as a
// nested type referenced from inside it is.
func displayName(sym *symbol) string {
	if sym.decl == nil {
		return externalDisplayName(sym.key)
	}
	if sym.parent == nil {
		return qualify(sym.ns, sym.name)
	}
	parent := displayName(sym.parent)
	if params := sym.parent.decl.typeParams; len(params) > 0 {
		parent += "<" + strings.Join(params, ", ") + ">"
	}
	return parent + "." + sym.name
}

func externalDisplayName(key string) string {
	var sb strings.Builder
	skip := false
	for _, c := range key {
		switch {
		case c == '`':
			skip = true
		case c == '.' || c == '+':
			skip = false
			sb.WriteByte('.')
		case !skip:
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

// typeString returns how a resolved type is written in generated code.
func (e entity) typeString() string {
	if e.kind != entityType {
		return e.display
	}
	switch {
	case len(e.args) == 0:
		if kw, ok := keywordTypes[e.sym.key]; ok {
			return kw
		}
	case e.sym.key == "System.Nullable`1":
		return e.args[0] + "?"
	case strings.HasPrefix(e.sym.key, "System.ValueTuple`") && len(e.args) > 1:
		return "(" + strings.Join(e.args, ", ") + ")"
	}
	return e.display
}

// resolveType returns the display string of a type reference used in
// scope sc.
func (r *Result) resolveType(t *ast.TypeNode, sc *scope) (string, bool) {
	var base string
	switch {
	case t.Keyword != "":
		base = t.Keyword
	case t.Name != nil:
		e, ok := r.resolveName(t.Name, sc)
		if !ok || e.kind == entityNamespace {
			return "", false
		}
		base = e.typeString()
	default:
		elems := make([]string, len(t.Tuple))
		for i, el := range t.Tuple {
			s, ok := r.resolveType(el.Type, sc)
			if !ok {
				return "", false
			}
			if el.Name != "" {
				s += " " + el.Name
			}
			elems[i] = s
		}
		base = "(" + strings.Join(elems, ", ") + ")"
	}
	return base + strings.Join(t.Suffixes, ""), true
}

// resolveAttribute resolves the type named by an attribute. Both the name
// as written and the name with an "Attribute" suffix are tried. If both
// resolve to different types, the attribute is ambiguous. A verbatim name
// like "@Foo" is only tried as written.
func (r *Result) resolveAttribute(n *ast.AttributeNode, sc *scope) (*symbol, bool) {
	exact, okExact := r.resolveTypeSymbol(n.Name, sc)
	parts := n.Name.Parts
	last := parts[len(parts)-1]
	if strings.HasPrefix(last.Name, "@") {
		return exact, okExact
	}
	long := &ast.NameNode{
		Pos:       n.Name.Pos,
		Qualifier: n.Name.Qualifier,
		Parts:     append(slices.Clone(parts[:len(parts)-1]), &ast.NamePart{Name: last.Name + "Attribute", TypeArgs: last.TypeArgs}),
	}
	suffixed, okSuffixed := r.resolveTypeSymbol(long, sc)
	switch {
	case okExact && okSuffixed:
		if exact.key != suffixed.key {
			return nil, false
		}
		return exact, true
	case okExact:
		return exact, true
	case okSuffixed:
		return suffixed, true
	}
	return nil, false
}

func (r *Result) resolveTypeSymbol(n *ast.NameNode, sc *scope) (*symbol, bool) {
	e, ok := r.resolveName(n, sc)
	if !ok || e.kind != entityType {
		return nil, false
	}
	return e.sym, true
}

// resolveName resolves a possibly qualified name used in scope sc.
func (r *Result) resolveName(n *ast.NameNode, sc *scope) (entity, bool) {
	parts := n.Parts
	var cur entity
	switch q := plainName(n.Qualifier); {
	case q == "global" || (q != "" && sc.isExtern(q)):
		cur = entity{kind: entityNamespace}
	case q != "":
		e, ok := r.lookupAlias(sc, q)
		if !ok || e.kind != entityNamespace {
			return entity{}, false
		}
		cur = e
	default:
		first := parts[0]
		e, ok := r.lookupSimple(sc, first.Name, len(first.TypeArgs))
		if !ok {
			return entity{}, false
		}
		if cur, ok = r.applyTypeArgs(e, first.TypeArgs, sc); !ok {
			return entity{}, false
		}
		parts = parts[1:]
	}
	for _, p := range parts {
		e, ok := r.member(cur, p.Name, len(p.TypeArgs))
		if !ok {
			return entity{}, false
		}
		if cur, ok = r.applyTypeArgs(e, p.TypeArgs, sc); !ok {
			return entity{}, false
		}
	}
	return cur, true
}

func (r *Result) applyTypeArgs(e entity, args []*ast.TypeNode, sc *scope) (entity, bool) {
	if len(args) == 0 {
		return e, true
	}
	if e.kind != entityType {
		return entity{}, false
	}
	e.args = make([]string, len(args))
	for i, arg := range args {
		s, ok := r.resolveType(arg, sc)
		if !ok {
			return entity{}, false
		}
		e.args[i] = s
	}
	e.display += "<" + strings.Join(e.args, ", ") + ">"
	return e, true
}

// member looks up name inside a namespace or type entity.
func (r *Result) member(cur entity, name string, arity int) (entity, bool) {
	name = plainName(name)
	switch cur.kind {
	case entityNamespace:
		if sym, _ := r.syms.lookup(cur.ns, name, arity); sym != nil {
			return r.typeEntity(sym), true
		}
		if ns := qualify(cur.ns, name); arity == 0 && r.syms.isNamespace(ns) {
			return entity{kind: entityNamespace, ns: ns}, true
		}
	case entityType:
		if sym := r.syms.lookupNested(cur.sym, name, arity); sym != nil {
			e := r.typeEntity(sym)
			e.display = cur.display + "." + sym.name
			return e, true
		}
	}
	return entity{}, false
}

// lookupSimple resolves the first identifier of a name by walking the
// scopes from sc outward.
func (r *Result) lookupSimple(sc *scope, name string, arity int) (entity, bool) {
	name = plainName(name)
	for ; sc != nil; sc = sc.parent {
		if sc.typ != nil {
			if e, ok := r.lookupInType(sc.typ, name, arity); ok {
				return e, true
			}
			continue
		}
		if e, ok, done := r.lookupInNamespace(sc, name, arity); done {
			return e, ok
		}
	}
	return entity{}, false
}

func (r *Result) lookupInType(sym *symbol, name string, arity int) (entity, bool) {
	if arity == 0 && slices.Contains(sym.decl.typeParams, name) {
		return entity{kind: entityTypeParam, display: name}, true
	}
	if nested := r.syms.lookupNested(sym, name, arity); nested != nil {
		return r.typeEntity(nested), true
	}
	return entity{}, false
}

// lookupInNamespace checks one namespace level. The last result is true
// when the search must stop at this level, either because the name was
// found or because it is ambiguous.
func (r *Result) lookupInNamespace(sc *scope, name string, arity int) (entity, bool, bool) {
	sym, wild := r.syms.lookup(sc.ns, name, arity)
	if sym != nil && !wild {
		return r.typeEntity(sym), true, true
	}
	if arity == 0 {
		if ns := qualify(sc.ns, name); r.syms.isNamespace(ns) {
			return entity{kind: entityNamespace, ns: ns}, true, true
		}
		if target, ok := sc.alias(name); ok {
			e, ok := r.resolveAlias(sc, target)
			return e, ok, true
		}
	}

	var found *symbol
	var wildcards []*symbol
	for _, imp := range sc.allImports() {
		s, w := r.syms.lookup(imp, name, arity)
		switch {
		case s == nil:
		case w:
			wildcards = append(wildcards, s)
		case found == nil:
			found = s
		case found.key != s.key:
			return entity{}, false, true
		}
	}
	if found != nil {
		return r.typeEntity(found), true, true
	}
	// names that only exist through wildcard references lose to any
	// concrete match, so they are checked last
	if sym != nil {
		return r.typeEntity(sym), true, true
	}
	switch len(wildcards) {
	case 0:
		return entity{}, false, false
	case 1:
		return r.typeEntity(wildcards[0]), true, true
	default:
		return entity{}, false, true
	}
}

// lookupAlias finds a using alias by walking the scopes from sc outward.
func (r *Result) lookupAlias(sc *scope, name string) (entity, bool) {
	for ; sc != nil; sc = sc.parent {
		if sc.typ != nil {
			continue
		}
		if target, ok := sc.alias(name); ok {
			return r.resolveAlias(sc, target)
		}
	}
	return entity{}, false
}

// resolveAlias resolves the target of an alias declared in sc. The
// target is resolved as if sc had no using directives.
func (r *Result) resolveAlias(sc *scope, target *ast.NameNode) (entity, bool) {
	bare := &scope{parent: sc.parent, ns: sc.ns}
	return r.resolveName(target, bare)
}

// resolveImport returns the namespace named by a using-namespace
// directive in sc. Like an alias target, it is resolved as if sc had no
// using directives, so it may be relative to an enclosing namespace.
func (r *Result) resolveImport(sc *scope, n *ast.NameNode) string {
	dotted := dottedName(n)
	if n.Qualifier != "" {
		return dotted
	}
	for p := sc; p != nil; p = p.parent {
		if p.typ != nil {
			continue
		}
		if ns := qualify(p.ns, dotted); r.syms.isNamespace(ns) {
			return ns
		}
	}
	return dotted
}

func dottedName(n *ast.NameNode) string {
	names := make([]string, len(n.Parts))
	for i, p := range n.Parts {
		names[i] = plainName(p.Name)
	}
	return strings.Join(names, ".")
}

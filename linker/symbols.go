package linker

import (
	"slices"
	"strconv"
	"strings"

	"github.com/tidwall/btree"

	"github.com/reactiveobject/reactivegen/ast"
	"github.com/reactiveobject/reactivegen/descriptor"
	"github.com/reactiveobject/reactivegen/reporter"
)

// symbol is a type known to the linker. Types declared in the linked
// files have a non-nil decl; external types do not.
type symbol struct {
	key    string
	ns     string
	name   string
	arity  int
	parent *symbol
	decl   *declaredType
}

// declaredType is the merged view of all declarations of one type.
type declaredType struct {
	kind       ast.TypeKind
	access     descriptor.Accessibility
	explicit   bool
	typeParams []string
	fragments  []*fragment
}

// fragment is one declaration of a type. Partial types have several.
type fragment struct {
	node *ast.TypeDeclNode
	// body is the scope for names used inside the declaration.
	body *scope
}

// symbols is the symbol table for one link operation.
type symbols struct {
	types      btree.Map[string, *symbol]
	namespaces map[string]struct{}
	// wildcards are namespaces in which every name is assumed to exist.
	wildcards map[string]struct{}
}

func newSymbols() *symbols {
	return &symbols{
		namespaces: map[string]struct{}{"": {}},
		wildcards:  map[string]struct{}{},
	}
}

// metadataName builds the key of a type in namespace ns.
func metadataName(ns, name string, arity int) string {
	return qualify(ns, withArity(name, arity))
}

func nestedName(parent *symbol, name string, arity int) string {
	return parent.key + "+" + withArity(name, arity)
}

func withArity(name string, arity int) string {
	if arity == 0 {
		return name
	}
	return name + "`" + strconv.Itoa(arity)
}

func qualify(ns, name string) string {
	if ns == "" {
		return name
	}
	return ns + "." + name
}

// plainName strips the verbatim prefix from an identifier, since "@Foo"
// and "Foo" name the same thing.
func plainName(s string) string {
	return strings.TrimPrefix(s, "@")
}

// addNamespace records ns and all of its parents as known namespaces.
func (s *symbols) addNamespace(ns string) {
	for ns != "" {
		if _, ok := s.namespaces[ns]; ok {
			return
		}
		s.namespaces[ns] = struct{}{}
		i := strings.LastIndexByte(ns, '.')
		if i < 0 {
			return
		}
		ns = ns[:i]
	}
}

// addReference records an external type or, for "Ns.*", a wildcard
// namespace.
func (s *symbols) addReference(ref string) {
	if ns, ok := strings.CutSuffix(ref, ".*"); ok {
		s.wildcards[ns] = struct{}{}
		s.addNamespace(ns)
		return
	}
	if _, ok := s.types.Get(ref); ok {
		return
	}
	sym := externalSymbol(ref)
	s.types.Set(ref, sym)
	s.addNamespace(sym.ns)
}

// externalSymbol builds a symbol from a metadata name. Nested types in
// references are not linked to their containing type.
func externalSymbol(key string) *symbol {
	sym := &symbol{key: key}
	local := key
	if i := strings.LastIndexAny(key, ".+"); i >= 0 {
		local = key[i+1:]
		if key[i] == '.' {
			sym.ns = key[:i]
		} else if j := strings.LastIndexByte(key[:i], '.'); j >= 0 {
			sym.ns = key[:j]
		}
	}
	name, arity, ok := strings.Cut(local, "`")
	sym.name = name
	if ok {
		sym.arity, _ = strconv.Atoi(arity)
	}
	return sym
}

// isNamespace reports whether ns is a namespace that contains, directly or
// through a nested namespace, at least one known type, or that is declared
// in the linked files.
func (s *symbols) isNamespace(ns string) bool {
	if _, ok := s.namespaces[ns]; ok {
		return true
	}
	prefix := ns + "."
	var found bool
	s.types.Ascend(prefix, func(key string, _ *symbol) bool {
		found = strings.HasPrefix(key, prefix)
		return false
	})
	return found
}

// lookup finds the type named name with the given arity directly in ns.
// The second result reports whether the type only exists because ns is a
// wildcard reference.
func (s *symbols) lookup(ns, name string, arity int) (*symbol, bool) {
	key := metadataName(ns, plainName(name), arity)
	if sym, ok := s.types.Get(key); ok {
		return sym, false
	}
	if _, ok := s.wildcards[ns]; ok {
		return &symbol{key: key, ns: ns, name: plainName(name), arity: arity}, true
	}
	return nil, false
}

// lookupNested finds a type nested directly in parent.
func (s *symbols) lookupNested(parent *symbol, name string, arity int) *symbol {
	sym, _ := s.types.Get(nestedName(parent, plainName(name), arity))
	return sym
}

// declare enters one declaration into the table. A declaration of a type
// that already exists is merged when both are partial and agree on kind,
// type parameters and accessibility. Otherwise an error is reported.
func (s *symbols) declare(ns string, parent *symbol, node *ast.TypeDeclNode, body *scope, handler *reporter.Handler) (*symbol, error) {
	name := plainName(node.Name)
	arity := len(node.TypeParams)
	var key string
	if parent != nil {
		key = nestedName(parent, name, arity)
	} else {
		key = metadataName(ns, name, arity)
	}

	def := descriptor.Internal
	if parent != nil {
		def = descriptor.Private
	}
	access, explicit, err := descriptor.ParseAccessibility(node.Modifiers, def)
	if err != nil {
		return nil, handler.HandleErrorf(node.Pos, "type %s: %v", key, err)
	}
	typeParams := make([]string, len(node.TypeParams))
	for i, tp := range node.TypeParams {
		typeParams[i] = plainName(tp)
	}
	frag := &fragment{node: node, body: body}

	existing, ok := s.types.Get(key)
	if !ok || existing.decl == nil {
		sym := &symbol{
			key:    key,
			ns:     ns,
			name:   name,
			arity:  arity,
			parent: parent,
			decl: &declaredType{
				kind:       node.Kind,
				access:     access,
				explicit:   explicit,
				typeParams: typeParams,
				fragments:  []*fragment{frag},
			},
		}
		s.types.Set(key, sym)
		body.typ = sym
		return sym, nil
	}

	decl := existing.decl
	first := decl.fragments[0].node
	switch {
	case !node.IsPartial() || !first.IsPartial():
		return nil, handler.HandleErrorf(node.Pos, "type %s already declared at %v", key, first.Pos)
	case node.Kind != decl.kind:
		return nil, handler.HandleErrorf(node.Pos, "partial declaration of %s is a %s, but the one at %v is a %s", key, node.Kind, first.Pos, decl.kind)
	case !slices.Equal(typeParams, decl.typeParams):
		return nil, handler.HandleErrorf(node.Pos, "partial declarations of %s must have the same type parameter names", key)
	case explicit && decl.explicit && access != decl.access:
		return nil, handler.HandleErrorf(node.Pos, "partial declarations of %s have conflicting accessibility modifiers", key)
	}
	if explicit && !decl.explicit {
		decl.access = access
		decl.explicit = true
	}
	decl.fragments = append(decl.fragments, frag)
	body.typ = existing
	return existing, nil
}

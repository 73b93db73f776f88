package linker

import (
	"github.com/reactiveobject/reactivegen/ast"
	"github.com/reactiveobject/reactivegen/reporter"
)

// scope is one level of name lookup. A scope is either the body of a type
// declaration (typ is set) or one namespace level (typ is nil). The
// outermost scope of each file is the global namespace level of that file
// and has unit set.
type scope struct {
	parent *scope
	typ    *symbol
	ns     string

	aliases map[string]*ast.NameNode
	usings  []*ast.NameNode
	// imports are the namespaces named by usings, once resolved.
	imports []string

	unit *unit
}

// unit holds what is shared by the whole compilation.
type unit struct {
	externs map[string]struct{}
	globals *globals
}

// globals are the using directives that apply to every file.
type globals struct {
	aliases map[string]*ast.NameNode
	usings  []*ast.NameNode
	// imports holds the namespaces of global using directives and of
	// configured global usings.
	imports []string
}

func newFileScope(file *ast.FileNode, g *globals) *scope {
	sc := &scope{unit: &unit{externs: map[string]struct{}{}, globals: g}}
	for _, ext := range file.Externs {
		sc.unit.externs[plainName(ext)] = struct{}{}
	}
	return sc
}

func newNamespaceScope(parent *scope, ns string) *scope {
	return &scope{parent: parent, ns: ns}
}

func newBodyScope(parent *scope) *scope {
	return &scope{parent: parent}
}

// addUsings records using directives on sc, or on g for global ones.
func (sc *scope) addUsings(usings []*ast.UsingNode, g *globals, handler *reporter.Handler) error {
	for _, u := range usings {
		if u.Static {
			// static usings import members, not namespaces
			continue
		}
		aliases := &sc.aliases
		list := &sc.usings
		if u.Global {
			if sc.unit == nil {
				if err := handler.HandleErrorf(u.Pos, "global using directives must precede namespace declarations"); err != nil {
					return err
				}
				continue
			}
			aliases = &g.aliases
			list = &g.usings
		}
		if u.Alias == "" {
			*list = append(*list, u.Name)
			continue
		}
		alias := plainName(u.Alias)
		if existing, ok := (*aliases)[alias]; ok {
			if err := handler.HandleErrorf(u.Pos, "using alias %s already defined at %v", alias, existing.Pos); err != nil {
				return err
			}
			continue
		}
		if *aliases == nil {
			*aliases = map[string]*ast.NameNode{}
		}
		(*aliases)[alias] = u.Name
	}
	return nil
}

// alias returns the target of a using alias declared at this level.
func (sc *scope) alias(name string) (*ast.NameNode, bool) {
	if target, ok := sc.aliases[name]; ok {
		return target, true
	}
	if sc.unit != nil {
		target, ok := sc.unit.globals.aliases[name]
		return target, ok
	}
	return nil, false
}

// allImports returns the namespaces imported at this level.
func (sc *scope) allImports() []string {
	if sc.unit == nil || len(sc.unit.globals.imports) == 0 {
		return sc.imports
	}
	if len(sc.imports) == 0 {
		return sc.unit.globals.imports
	}
	all := make([]string, 0, len(sc.imports)+len(sc.unit.globals.imports))
	all = append(all, sc.imports...)
	return append(all, sc.unit.globals.imports...)
}

// isExtern reports whether name is an extern alias visible from sc.
func (sc *scope) isExtern(name string) bool {
	for ; sc != nil; sc = sc.parent {
		if sc.unit != nil {
			_, ok := sc.unit.externs[name]
			return ok
		}
	}
	return false
}

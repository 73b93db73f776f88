package linker

import (
	"fmt"
	"slices"

	"github.com/reactiveobject/reactivegen/ast"
	"github.com/reactiveobject/reactivegen/descriptor"
	"github.com/reactiveobject/reactivegen/scan"
)

// Type is a type declared in the linked files. If the type is partial, it
// represents all of its declarations.
type Type struct {
	sym *symbol
	r   *Result
}

var _ scan.NestedType = (*Type)(nil)

// Name returns the type's name as written in its first declaration.
func (t *Type) Name() string {
	return t.sym.decl.fragments[0].node.Name
}

func (t *Type) Namespace() string {
	return t.sym.ns
}

// FullName returns the metadata name of the type.
func (t *Type) FullName() string {
	return t.sym.key
}

func (t *Type) Accessibility() descriptor.Accessibility {
	return t.sym.decl.access
}

func (t *Type) TypeParameters() []string {
	return slices.Clone(t.sym.decl.fragments[0].node.TypeParams)
}

func (t *Type) Kind() ast.TypeKind {
	return t.sym.decl.kind
}

// Pos returns the position of the type's name in its first declaration.
func (t *Type) Pos() ast.SourcePos {
	return t.sym.decl.fragments[0].node.Pos
}

// ContainingTypes returns the types that enclose t, outermost first. It
// returns an error when one of them is not partial, since the generated
// declaration of t could not be nested in it.
func (t *Type) ContainingTypes() ([]descriptor.ContainingType, error) {
	var containers []descriptor.ContainingType
	for p := t.sym.parent; p != nil; p = p.parent {
		first := p.decl.fragments[0].node
		if !first.IsPartial() {
			return nil, fmt.Errorf("containing type %s is not partial", p.key)
		}
		containers = append(containers, descriptor.ContainingType{
			Name:           first.Name,
			Kind:           p.decl.kind.String(),
			Accessibility:  p.decl.access,
			TypeParameters: slices.Clone(first.TypeParams),
		})
	}
	slices.Reverse(containers)
	return containers, nil
}

// Declarations returns the type's declarations. There is more than one
// only for partial types.
func (t *Type) Declarations() []*ast.TypeDeclNode {
	decls := make([]*ast.TypeDeclNode, len(t.sym.decl.fragments))
	for i, frag := range t.sym.decl.fragments {
		decls[i] = frag.node
	}
	return decls
}

// Fields returns the fields of all declarations, in declaration order.
func (t *Type) Fields() []scan.Field {
	var fields []scan.Field
	for _, frag := range t.sym.decl.fragments {
		for _, decl := range frag.node.Fields {
			for _, name := range decl.Names {
				fields = append(fields, &Field{decl: decl, ident: name, scope: frag.body, r: t.r})
			}
		}
	}
	return fields
}

// Field is one declarator of a field declaration.
type Field struct {
	decl  *ast.FieldDeclNode
	ident *ast.IdentNode
	scope *scope
	r     *Result
}

var _ scan.Field = (*Field)(nil)

func (f *Field) Name() string {
	return f.ident.Name
}

func (f *Field) Pos() ast.SourcePos {
	return f.ident.Pos
}

// Declaration returns the declaration this field belongs to, which it may
// share with other fields.
func (f *Field) Declaration() *ast.FieldDeclNode {
	return f.decl
}

// Annotations returns the attributes that apply to the field. Attributes
// with a target other than "field" are left out.
func (f *Field) Annotations() []scan.Annotation {
	var anns []scan.Annotation
	for _, attr := range f.decl.Attributes {
		if attr.Target != "" && attr.Target != "field" {
			continue
		}
		anns = append(anns, &Annotation{node: attr, scope: f.scope, r: f.r})
	}
	return anns
}

// ResolveType returns the fully qualified display string of the field's
// type, such as "System.DateTime" or "System.Collections.Generic.List<int>".
func (f *Field) ResolveType() (string, bool) {
	return f.r.resolveType(f.decl.Type, f.scope)
}

// Annotation is an attribute applied to a field.
type Annotation struct {
	node  *ast.AttributeNode
	scope *scope
	r     *Result
}

var _ scan.Annotation = (*Annotation)(nil)

func (a *Annotation) Pos() ast.SourcePos {
	return a.node.Pos
}

// Name returns the attribute name as written.
func (a *Annotation) Name() string {
	return a.node.Name.String()
}

package ast

import "strings"

// Node is implemented by every element of the tree.
type Node interface {
	Start() SourcePos
}

// Decl is a declaration that can appear directly inside a file or a
// namespace: either a *NamespaceNode or a *TypeDeclNode.
type Decl interface {
	Node
	declNode()
}

// FileNode is the root of the AST for a single source file.
type FileNode struct {
	Info *FileInfo
	// Extern alias names declared at the top of the file.
	Externs []string
	Usings  []*UsingNode
	// Assembly- and module-level attributes.
	Attributes []*AttributeNode
	Decls      []Decl
}

// NewEmptyFileNode returns an empty AST for a file with the given name.
func NewEmptyFileNode(filename string) *FileNode {
	return &FileNode{Info: NewFileInfo(filename, nil)}
}

func (n *FileNode) Start() SourcePos {
	return n.Info.SourcePos(0)
}

// Name returns the name of the source file.
func (n *FileNode) Name() string {
	return n.Info.Name()
}

// UsingNode is a using directive, such as "using System;",
// "global using System.Linq;", "using static System.Math;" or
// "using Json = Newtonsoft.Json;".
type UsingNode struct {
	Pos    SourcePos
	Global bool
	Static bool
	// Alias is set for using-alias directives.
	Alias string
	Name  *NameNode
}

func (n *UsingNode) Start() SourcePos { return n.Pos }

// NamespaceNode is a namespace declaration, in block or file-scoped form.
type NamespaceNode struct {
	Pos        SourcePos
	Name       *NameNode
	FileScoped bool
	Usings     []*UsingNode
	Decls      []Decl
}

func (n *NamespaceNode) Start() SourcePos { return n.Pos }
func (*NamespaceNode) declNode()          {}

// TypeKind identifies the keyword that introduced a type declaration.
type TypeKind int

const (
	KindClass TypeKind = iota
	KindStruct
	KindInterface
	KindEnum
	KindRecord
	KindRecordStruct
)

func (k TypeKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindStruct:
		return "struct"
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	case KindRecord:
		return "record"
	case KindRecordStruct:
		return "record struct"
	default:
		return "unknown"
	}
}

// TypeDeclNode is a class, struct, record, interface or enum declaration.
type TypeDeclNode struct {
	Pos        SourcePos
	Attributes []*AttributeNode
	Modifiers  []string
	Kind       TypeKind
	Name       string
	TypeParams []string
	Fields     []*FieldDeclNode
	Nested     []*TypeDeclNode
}

func (n *TypeDeclNode) Start() SourcePos { return n.Pos }
func (*TypeDeclNode) declNode()          {}

// HasModifier reports whether the declaration carries the given modifier.
func (n *TypeDeclNode) HasModifier(mod string) bool {
	for _, m := range n.Modifiers {
		if m == mod {
			return true
		}
	}
	return false
}

// IsPartial reports whether this is one fragment of a partial type.
func (n *TypeDeclNode) IsPartial() bool {
	return n.HasModifier("partial")
}

// FieldDeclNode is a field declaration. A single declaration can declare
// several fields that share attributes, modifiers and type.
type FieldDeclNode struct {
	Pos        SourcePos
	Attributes []*AttributeNode
	Modifiers  []string
	Type       *TypeNode
	Names      []*IdentNode
}

func (n *FieldDeclNode) Start() SourcePos { return n.Pos }

// IdentNode is a single identifier.
type IdentNode struct {
	Pos  SourcePos
	Name string
}

func (n *IdentNode) Start() SourcePos { return n.Pos }

// AttributeNode is one attribute inside an attribute section.
type AttributeNode struct {
	Pos SourcePos
	// Target is the explicit target specifier, like "field" in
	// "[field: NonSerialized]", or empty.
	Target string
	Name   *NameNode
	// HasArgs is true when the attribute has an argument list. The
	// arguments themselves are not modeled.
	HasArgs bool
}

func (n *AttributeNode) Start() SourcePos { return n.Pos }

// NameNode is a possibly qualified, possibly generic name such as
// "List<int>", "System.Collections.Generic.List<int>" or
// "global::System.DateTime".
type NameNode struct {
	Pos SourcePos
	// Qualifier is the alias before "::", such as "global", or empty.
	Qualifier string
	Parts     []*NamePart
}

func (n *NameNode) Start() SourcePos { return n.Pos }

// NamePart is one dot-separated segment of a NameNode.
type NamePart struct {
	Name     string
	TypeArgs []*TypeNode
}

// Dotted returns the name without qualifier and type arguments, such as
// "System.Collections.Generic.List".
func (n *NameNode) Dotted() string {
	names := make([]string, len(n.Parts))
	for i, p := range n.Parts {
		names[i] = p.Name
	}
	return strings.Join(names, ".")
}

func (n *NameNode) String() string {
	var sb strings.Builder
	if n.Qualifier != "" {
		sb.WriteString(n.Qualifier)
		sb.WriteString("::")
	}
	for i, p := range n.Parts {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(p.Name)
		writeTypeArgs(&sb, p.TypeArgs)
	}
	return sb.String()
}

// TypeNode is a type reference. Exactly one of Keyword, Name or Tuple is
// set.
type TypeNode struct {
	Pos SourcePos
	// Keyword is a predefined type such as "int" or "string".
	Keyword string
	Name    *NameNode
	Tuple   []*TupleElement
	// Suffixes are the type modifiers following the element type, in
	// source order: "?", "*", "[]", "[,]", ...
	Suffixes []string
}

func (n *TypeNode) Start() SourcePos { return n.Pos }

// TupleElement is one element of a tuple type.
type TupleElement struct {
	Type *TypeNode
	// Name is the optional element name.
	Name string
}

func (n *TypeNode) String() string {
	var sb strings.Builder
	writeType(&sb, n)
	return sb.String()
}

func writeType(sb *strings.Builder, n *TypeNode) {
	switch {
	case n.Keyword != "":
		sb.WriteString(n.Keyword)
	case n.Name != nil:
		sb.WriteString(n.Name.String())
	default:
		sb.WriteByte('(')
		for i, el := range n.Tuple {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeType(sb, el.Type)
			if el.Name != "" {
				sb.WriteByte(' ')
				sb.WriteString(el.Name)
			}
		}
		sb.WriteByte(')')
	}
	for _, s := range n.Suffixes {
		sb.WriteString(s)
	}
}

func writeTypeArgs(sb *strings.Builder, args []*TypeNode) {
	if len(args) == 0 {
		return
	}
	sb.WriteByte('<')
	for i, a := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeType(sb, a)
	}
	sb.WriteByte('>')
}

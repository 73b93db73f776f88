package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourcePos(t *testing.T) {
	t.Parallel()

	data := []byte("namespace A\n{\n\tclass B {}\n}\n")
	info := NewFileInfo("test.cs", data)
	for i, b := range data {
		if b == '\n' {
			info.AddLine(i + 1)
		}
	}

	assert.Equal(t, SourcePos{Filename: "test.cs", Line: 1, Col: 1, Offset: 0}, info.SourcePos(0))
	assert.Equal(t, SourcePos{Filename: "test.cs", Line: 1, Col: 11, Offset: 10}, info.SourcePos(10))
	// the tab stop moves "class" to column 9
	assert.Equal(t, SourcePos{Filename: "test.cs", Line: 3, Col: 9, Offset: 15}, info.SourcePos(15))
	assert.Equal(t, "test.cs:3:9", info.SourcePos(15).String())

	line, ok := info.Line(3)
	assert.True(t, ok)
	assert.Equal(t, "\tclass B {}", line)
	_, ok = info.Line(7)
	assert.False(t, ok)
}

func TestUnknownPos(t *testing.T) {
	t.Parallel()

	pos := UnknownPos("foo.cs")
	assert.Equal(t, "foo.cs", pos.String())
	assert.Equal(t, SourcePos{Filename: "foo.cs", Line: 1, Col: 1}, NewEmptyFileNode("foo.cs").Start())
}

func TestNodeStrings(t *testing.T) {
	t.Parallel()

	intType := &TypeNode{Keyword: "int"}
	list := &TypeNode{Name: &NameNode{
		Qualifier: "global",
		Parts: []*NamePart{
			{Name: "System"}, {Name: "Collections"}, {Name: "Generic"},
			{Name: "List", TypeArgs: []*TypeNode{intType}},
		},
	}, Suffixes: []string{"?"}}
	assert.Equal(t, "global::System.Collections.Generic.List<int>?", list.String())
	assert.Equal(t, "System.Collections.Generic.List", list.Name.Dotted())

	tuple := &TypeNode{Tuple: []*TupleElement{
		{Type: intType, Name: "Id"},
		{Type: &TypeNode{Keyword: "string"}},
	}, Suffixes: []string{"[]"}}
	assert.Equal(t, "(int Id, string)[]", tuple.String())
}

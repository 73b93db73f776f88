package parser

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reactiveobject/reactivegen/ast"
	"github.com/reactiveobject/reactivegen/reporter"
)

func parseForTest(t *testing.T, src string) *ast.FileNode {
	t.Helper()
	file, err := Parse("test.cs", strings.NewReader(src), reporter.NewHandler(nil))
	require.NoError(t, err)
	return file
}

func TestEmptyParse(t *testing.T) {
	t.Parallel()

	file, err := Parse("foo.cs", bytes.NewReader(nil), reporter.NewHandler(nil))
	require.NoError(t, err)
	assert.Equal(t, "foo.cs", file.Name())
	assert.Empty(t, file.Usings)
	assert.Empty(t, file.Decls)
}

func TestParseReactiveClass(t *testing.T) {
	t.Parallel()

	file := parseForTest(t, `
using ReactiveObject.Generators;

namespace MyTestNamespace
{
    public class MyTestClass
    {
        [ReactiveProperty]
        private DateTime _dateTime;
    }
}`)

	require.Len(t, file.Usings, 1)
	assert.Equal(t, "ReactiveObject.Generators", file.Usings[0].Name.String())
	require.Len(t, file.Decls, 1)

	ns, ok := file.Decls[0].(*ast.NamespaceNode)
	require.True(t, ok)
	assert.Equal(t, "MyTestNamespace", ns.Name.Dotted())
	assert.False(t, ns.FileScoped)
	require.Len(t, ns.Decls, 1)

	class, ok := ns.Decls[0].(*ast.TypeDeclNode)
	require.True(t, ok)
	assert.Equal(t, "MyTestClass", class.Name)
	assert.Equal(t, ast.KindClass, class.Kind)
	assert.Equal(t, []string{"public"}, class.Modifiers)
	assert.Equal(t, ast.SourcePos{Filename: "test.cs", Line: 6, Col: 18, Offset: 80}, class.Pos)

	require.Len(t, class.Fields, 1)
	field := class.Fields[0]
	assert.Equal(t, []string{"private"}, field.Modifiers)
	assert.Equal(t, "DateTime", field.Type.String())
	require.Len(t, field.Names, 1)
	assert.Equal(t, "_dateTime", field.Names[0].Name)
	assert.Equal(t, 9, field.Names[0].Pos.Line)
	require.Len(t, field.Attributes, 1)
	assert.Equal(t, "ReactiveProperty", field.Attributes[0].Name.String())
	assert.Empty(t, field.Attributes[0].Target)
	assert.False(t, field.Attributes[0].HasArgs)
}

func TestParseUsings(t *testing.T) {
	t.Parallel()

	file := parseForTest(t, `
extern alias Lib;
global using System;
using static System.Math;
using Rp = ReactiveObject.Generators.ReactivePropertyAttribute;
using global::System.Collections.Generic;
[assembly: System.Reflection.AssemblyVersion("1.0")]
class C {}
`)
	assert.Equal(t, []string{"Lib"}, file.Externs)
	require.Len(t, file.Usings, 4)

	assert.True(t, file.Usings[0].Global)
	assert.Equal(t, "System", file.Usings[0].Name.String())
	assert.True(t, file.Usings[1].Static)
	assert.Equal(t, "Rp", file.Usings[2].Alias)
	assert.Equal(t, "ReactiveObject.Generators.ReactivePropertyAttribute", file.Usings[2].Name.String())
	assert.Equal(t, "global", file.Usings[3].Name.Qualifier)
	assert.Equal(t, "global::System.Collections.Generic", file.Usings[3].Name.String())

	require.Len(t, file.Attributes, 1)
	assert.Equal(t, "assembly", file.Attributes[0].Target)
	assert.True(t, file.Attributes[0].HasArgs)
	require.Len(t, file.Decls, 1)
}

func TestParseFileScopedNamespace(t *testing.T) {
	t.Parallel()

	file := parseForTest(t, `
namespace A.B;

using System;

public partial class C { }
internal record struct R(int X);
public record P(string Name) { private int _n; }
`)
	require.Len(t, file.Decls, 1)
	ns := file.Decls[0].(*ast.NamespaceNode)
	assert.True(t, ns.FileScoped)
	assert.Equal(t, "A.B", ns.Name.Dotted())
	require.Len(t, ns.Usings, 1)
	require.Len(t, ns.Decls, 3)

	c := ns.Decls[0].(*ast.TypeDeclNode)
	assert.True(t, c.IsPartial())
	r := ns.Decls[1].(*ast.TypeDeclNode)
	assert.Equal(t, ast.KindRecordStruct, r.Kind)
	assert.Equal(t, "R", r.Name)
	p := ns.Decls[2].(*ast.TypeDeclNode)
	assert.Equal(t, ast.KindRecord, p.Kind)
	require.Len(t, p.Fields, 1)
}

func TestParseFileScopedNamespaceMustComeFirst(t *testing.T) {
	t.Parallel()

	_, err := Parse("test.cs", strings.NewReader("class A {}\nnamespace B;"), reporter.NewHandler(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test.cs:2:1: file-scoped namespace")
}

func TestParseFields(t *testing.T) {
	t.Parallel()

	file := parseForTest(t, `
class Fields<TKey, in TValue> : Base<TKey>, IFoo where TKey : notnull, new()
{
    [ReactiveProperty, Obsolete("no")] private int _a = 1, _b, _c = Compute(1, 2);
    [field: ReactiveProperty] private Dictionary<string, List<int>> _map = new Dictionary<string, int>(), _other;
    private (int Id, string Name)[] _tuples;
    private global::System.DateTime? _maybe;
    private int[,] _grid;
    protected static readonly string[] _names = { "a", "b" };
    private const int Max = 10;
    private Action _onDone = () => { Console.WriteLine("x"); };
    private unsafe fixed byte _buffer[16];
}`)
	require.Len(t, file.Decls, 1)
	c := file.Decls[0].(*ast.TypeDeclNode)
	assert.Equal(t, []string{"TKey", "TValue"}, c.TypeParams)
	require.Len(t, c.Fields, 9)

	names := func(f *ast.FieldDeclNode) []string {
		var out []string
		for _, n := range f.Names {
			out = append(out, n.Name)
		}
		return out
	}

	assert.Equal(t, []string{"_a", "_b", "_c"}, names(c.Fields[0]))
	require.Len(t, c.Fields[0].Attributes, 2)
	assert.Equal(t, "Obsolete", c.Fields[0].Attributes[1].Name.String())
	assert.True(t, c.Fields[0].Attributes[1].HasArgs)

	assert.Equal(t, []string{"_map", "_other"}, names(c.Fields[1]))
	assert.Equal(t, "field", c.Fields[1].Attributes[0].Target)
	assert.Equal(t, "Dictionary<string, List<int>>", c.Fields[1].Type.String())

	assert.Equal(t, "(int Id, string Name)[]", c.Fields[2].Type.String())
	assert.Equal(t, "global::System.DateTime?", c.Fields[3].Type.String())
	assert.Equal(t, "int[,]", c.Fields[4].Type.String())
	assert.Equal(t, []string{"protected", "static", "readonly"}, c.Fields[5].Modifiers)
	assert.Equal(t, []string{"private", "const"}, c.Fields[6].Modifiers)
	assert.Equal(t, []string{"Max"}, names(c.Fields[6]))
	assert.Equal(t, []string{"_onDone"}, names(c.Fields[7]))
	assert.Equal(t, []string{"_buffer"}, names(c.Fields[8]))
}

func TestParseSkipsOtherMembers(t *testing.T) {
	t.Parallel()

	file := parseForTest(t, `
public class Members
{
    public Members(int x) : base(x) { _x = x; }
    static Members() { }
    ~Members() { }
    public int X { get; set; } = 5;
    public int Y => _x * 2;
    public string this[int i] => i.ToString();
    public event EventHandler Changed;
    public event EventHandler Custom { add { } remove { } }
    public static implicit operator int(Members m) => m._x;
    public static Members operator +(Members a, Members b) { return a; }
    public delegate void Handler(object sender);
    partial void OnChanged();
    public async Task<int> RunAsync<T>(T value) where T : class
    {
        if (value == null) { return 0; }
        return await Task.FromResult(1);
    }
    int IComparable.CompareTo(object other) => 0;
    public object Build() => new Builder { A = 1 }.Create();
    public required string Name { get; init; }
    [ReactiveProperty] private int _x;
    public enum Kind { A = 1, B = 2 }
    private sealed class Nested { [ReactiveProperty] private int _y; }
}`)
	c := file.Decls[0].(*ast.TypeDeclNode)
	require.Len(t, c.Fields, 1)
	assert.Equal(t, "_x", c.Fields[0].Names[0].Name)
	require.Len(t, c.Nested, 2)
	assert.Equal(t, ast.KindEnum, c.Nested[0].Kind)
	assert.Equal(t, "Nested", c.Nested[1].Name)
	require.Len(t, c.Nested[1].Fields, 1)
}

func TestParseCommentsAndDirectives(t *testing.T) {
	t.Parallel()

	file := parseForTest(t, "\xEF\xBB\xBF"+`// leading comment
#nullable enable
/* block
   comment { */
namespace N
{
#if DEBUG
    class C { private string _s = "}"; private char _c = '{'; private string _v = @"a""}"; }
#endif
}`)
	ns := file.Decls[0].(*ast.NamespaceNode)
	c := ns.Decls[0].(*ast.TypeDeclNode)
	require.Len(t, c.Fields, 3)
	assert.Equal(t, 8, c.Pos.Line)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		src string
		err string
	}{
		"missing brace": {
			src: "class C {",
			err: `test.cs:1:10: expected "}", found end of file`,
		},
		"keyword name": {
			src: "class C { int class; }",
			err: `test.cs:1:15: expected member name, found keyword "class"`,
		},
		"stray character": {
			src: "class C { int _x; } `",
			err: "test.cs:1:21: expected namespace or type declaration, found character \"`\"",
		},
		"mismatched brackets": {
			src: "class C { void M() { ) }",
			err: `test.cs:1:22: expected "}", found ")"`,
		},
		"one element tuple": {
			src: "class C { (int) _x; }",
			err: `test.cs:1:11: tuple type must have at least two elements`,
		},
		"method at top level": {
			src: "void M() {}",
			err: `test.cs:1:1: expected namespace or type declaration, found keyword "void"`,
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse("test.cs", strings.NewReader(test.src), reporter.NewHandler(nil))
			require.Error(t, err)
			assert.Equal(t, test.err, err.Error())
		})
	}
}

func TestParseKeepsDeclarationsBeforeError(t *testing.T) {
	t.Parallel()

	var errs []reporter.ErrorWithPos
	h := reporter.NewHandler(reporter.NewReporter(func(err reporter.ErrorWithPos) error {
		errs = append(errs, err)
		return nil
	}, nil))
	file, err := Parse("test.cs", strings.NewReader("class A { }\nclass B { int }"), h)
	require.ErrorIs(t, err, reporter.ErrInvalidSource)
	require.Len(t, errs, 1)
	require.Len(t, file.Decls, 1)
	assert.Equal(t, "A", file.Decls[0].(*ast.TypeDeclNode).Name)
}

func TestParseInvalidUTF8(t *testing.T) {
	t.Parallel()

	_, err := Parse("test.cs", strings.NewReader("class C\n{ \xff }"), reporter.NewHandler(nil))
	require.ErrorIs(t, err, ErrInvalidUTF8)
	assert.Equal(t, "test.cs:2:3: invalid UTF-8", err.Error())
}

func TestJunkParse(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"{", "}", "[", "class", "class C", "class C :", "namespace", "using",
		"class C { [ }", "class C { int x = ( ; }", "class C { int<", "@", "'",
	}
	for _, input := range inputs {
		_, err := Parse("junk.cs", strings.NewReader(input), reporter.NewHandler(nil))
		// we expect this to error... but we don't want it to panic
		assert.Error(t, err, "junk input %q should have returned error", input)
	}
}

func TestParseStringLiterals(t *testing.T) {
	t.Parallel()

	file := parseForTest(t, `
class C
{
    private string _json = """
        {
        "{ "name": "x" }
        """;
    private string _template = $$"""
        {"id": {{Id}}, "s": "}"}
        """;
    private string _quoted = """"He said """hi"""."""";
    string M(bool a) => $"{(a ? "}" : "x")}";
    string N(int n) => $@"{n:N2} {{""}}"" {new { A = "}" }.A}";
    private string _nested = $"{$"{"}"}"}";
    private string _escaped = $"\"{{\\";
    [ReactiveProperty] private int _after;
}`)
	c := file.Decls[0].(*ast.TypeDeclNode)
	var names []string
	for _, f := range c.Fields {
		names = append(names, f.Names[0].Name)
	}
	assert.Equal(t, []string{"_json", "_template", "_quoted", "_nested", "_escaped", "_after"}, names)
	assert.Equal(t, 16, c.Fields[5].Names[0].Pos.Line)
}

func TestParseUnterminatedRawString(t *testing.T) {
	t.Parallel()

	_, err := Parse("test.cs", strings.NewReader("class C { string _s = \"\"\"\n  never closed\n\"\" }"), reporter.NewHandler(nil))
	require.Error(t, err)
}

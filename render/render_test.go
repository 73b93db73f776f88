package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reactiveobject/reactivegen/descriptor"
)

func newClass(t *testing.T, name, ns string, acc descriptor.Accessibility, typeParams []string, fields ...[2]string) descriptor.Class {
	t.Helper()
	var props []descriptor.Property
	for _, f := range fields {
		name := strings.TrimPrefix(f[0], "_")
		name = strings.ToUpper(name[:1]) + name[1:]
		p, err := descriptor.NewProperty(f[0], name, acc, f[1])
		require.NoError(t, err)
		props = append(props, p)
	}
	c, err := descriptor.NewClass(name, ns, ns+"."+name, acc, typeParams, props)
	require.NoError(t, err)
	return c
}

func TestClass(t *testing.T) {
	t.Parallel()
	c := newClass(t, "MyTestClass", "MyTestNamespace", descriptor.Public, nil, [2]string{"_dateTime", "System.DateTime"})
	want := Header + `
namespace MyTestNamespace
{
    public partial class MyTestClass
    {
        public System.DateTime DateTime
        {
            get => _dateTime;
            set => this.RaiseAndSetIfChanged(ref _dateTime, value);
        }
    }
}
`
	assert.Equal(t, want, Class(c, Options{}))
}

func TestClassGlobalNamespace(t *testing.T) {
	t.Parallel()
	c := newClass(t, "Model", "", descriptor.Internal, nil,
		[2]string{"_count", "int"},
		[2]string{"name", "string"},
	)
	want := Header + "\n" +
		"internal partial class Model\n" +
		"{\n" +
		"\tinternal int Count\n" +
		"\t{\n" +
		"\t\tget => _count;\n" +
		"\t\tset => this.OnChanged(ref _count, value);\n" +
		"\t}\n" +
		"\n" +
		"\tinternal string Name\n" +
		"\t{\n" +
		"\t\tget => name;\n" +
		"\t\tset => this.OnChanged(ref name, value);\n" +
		"\t}\n" +
		"}\n"
	assert.Equal(t, want, Class(c, Options{NotifyMethod: "OnChanged", Indent: "\t"}))
}

func TestClassGeneric(t *testing.T) {
	t.Parallel()
	c := newClass(t, "Box", "N", descriptor.Public, []string{"TFirst", "TSecond"}, [2]string{"_value", "TFirst"})
	body := `
    {
        public TFirst Value
        {
            get => _value;
            set => this.RaiseAndSetIfChanged(ref _value, value);
        }
    }
}
`
	want := Header + `
namespace N
{
    public partial class Box<TFirst, TSecond>` + body
	assert.Equal(t, want, Class(c, Options{}))
	assert.Equal(t, want, Class(c, Options{MaxWidth: 80}))

	want = Header + `
namespace N
{
    public partial class Box<
        TFirst,
        TSecond
    >` + body
	assert.Equal(t, want, Class(c, Options{MaxWidth: 40}))
}

func TestClassEmbedMarker(t *testing.T) {
	t.Parallel()
	c := newClass(t, "C", "N", descriptor.Public, nil, [2]string{"_x", "int"})
	want := Header + `
namespace ReactiveObject.Generators
{
    /// <summary>
    /// Marks a field for which a reactive property is generated.
    /// </summary>
    [System.AttributeUsage(System.AttributeTargets.Field)]
    [System.Diagnostics.Conditional("REACTIVEOBJECT_GENERATORS_USAGES")]
    public sealed class ReactivePropertyAttribute : System.Attribute
    {
    }
}

namespace N
{
    public partial class C
    {
        public int X
        {
            get => _x;
            set => this.RaiseAndSetIfChanged(ref _x, value);
        }
    }
}
`
	assert.Equal(t, want, Class(c, Options{EmbedMarker: true}))
}

func TestMarkerSource(t *testing.T) {
	t.Parallel()
	want := Header + `
namespace ReactiveObject.Generators
{
    /// <summary>
    /// Marks a field for which a reactive property is generated.
    /// </summary>
    [System.AttributeUsage(System.AttributeTargets.Field)]
    [System.Diagnostics.Conditional("REACTIVEOBJECT_GENERATORS_USAGES")]
    public sealed class ReactivePropertyAttribute : System.Attribute
    {
    }
}
`
	assert.Equal(t, want, MarkerSource())
	assert.Equal(t, "ReactiveObject.Generators.ReactivePropertyAttribute", MarkerName)
	assert.Equal(t, "ReactivePropertyAttribute.g.cs", MarkerFile)
}

func TestClassDeterministic(t *testing.T) {
	t.Parallel()
	c := newClass(t, "C", "N", descriptor.Public, []string{"T"},
		[2]string{"_a", "int"},
		[2]string{"_b", "System.Collections.Generic.List<T>"},
	)
	first := Class(c, Options{})
	for range 10 {
		assert.Equal(t, first, Class(c, Options{}))
	}
	assert.True(t, strings.HasSuffix(first, "}\n"))
	assert.Less(t, strings.Index(first, "public int A"), strings.Index(first, "public System.Collections.Generic.List<T> B"))
}

func TestClassNested(t *testing.T) {
	t.Parallel()
	c := newClass(t, "Inner", "N", descriptor.Private, nil, [2]string{"_x", "int"})
	c, err := c.Nested([]descriptor.ContainingType{
		{Name: "Outer", Kind: "class", Accessibility: descriptor.Public, TypeParameters: []string{"T"}},
		{Name: "Middle", Kind: "record struct", Accessibility: descriptor.Internal},
	})
	require.NoError(t, err)
	want := Header + `
namespace N
{
    public partial class Outer<T>
    {
        internal partial record struct Middle
        {
            private partial class Inner
            {
                private int X
                {
                    get => _x;
                    set => this.RaiseAndSetIfChanged(ref _x, value);
                }
            }
        }
    }
}
`
	assert.Equal(t, want, Class(c, Options{}))
}

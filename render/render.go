// Package render produces the C# source of generated partial classes and
// of the marker attribute.
package render

import (
	"strings"

	"github.com/reactiveobject/reactivegen/descriptor"
	"github.com/reactiveobject/reactivegen/internal/dom"
)

const (
	// MarkerName is the metadata name of the marker attribute.
	MarkerName = MarkerNamespace + "." + markerType
	// MarkerNamespace is the namespace that declares the marker attribute.
	MarkerNamespace = "ReactiveObject.Generators"
	// MarkerFile is the name of the artifact that declares the marker.
	MarkerFile = markerType + ".g.cs"

	// DefaultNotifyMethod is the change-notification helper that generated
	// setters call unless configured otherwise.
	DefaultNotifyMethod = "RaiseAndSetIfChanged"

	markerType = "ReactivePropertyAttribute"
)

// Header is the banner at the top of every generated file.
const Header = `// <auto-generated>
//     This code was generated by reactivegen.
//
//     Changes to this file may cause incorrect behavior and will be lost if
//     the code is regenerated.
// </auto-generated>
`

// Options configures rendering. The zero value renders with the defaults.
type Options struct {
	// NotifyMethod is called by each setter as
	// this.NotifyMethod(ref field, value). Defaults to DefaultNotifyMethod.
	NotifyMethod string
	// EmbedMarker also declares the marker attribute in each class file.
	// It must stay off when the marker file is part of the same build.
	EmbedMarker bool
	// Indent is one level of indentation. Defaults to four spaces.
	Indent string
	// MaxWidth is the line width past which long type parameter lists are
	// wrapped. Zero means no limit.
	MaxWidth int
}

func (o Options) withDefaults() Options {
	if o.NotifyMethod == "" {
		o.NotifyMethod = DefaultNotifyMethod
	}
	if o.Indent == "" {
		o.Indent = "    "
	}
	return o
}

// MarkerSource returns the source of the file declaring the marker
// attribute.
func MarkerSource() string {
	opts := Options{}.withDefaults()
	return dom.Render(dom.Options{}, func(push dom.Sink) {
		header(push)
		push(dom.Text("\n\n"))
		marker(push, opts)
	})
}

// Class returns the source of the partial class declaring the properties
// of c. Rendering is deterministic: equal descriptors and options always
// give the same text.
func Class(c descriptor.Class, opts Options) string {
	opts = opts.withDefaults()
	return dom.Render(dom.Options{MaxWidth: opts.MaxWidth}, func(push dom.Sink) {
		header(push)
		push(dom.Text("\n\n"))
		if opts.EmbedMarker {
			marker(push, opts)
			push(dom.Text("\n\n"))
		}
		namespace(push, c.Namespace(), opts, func(push dom.Sink) {
			containingTypes(push, c.ContainingTypes(), opts, func(push dom.Sink) {
				class(push, c, opts)
			})
		})
	})
}

func header(push dom.Sink) {
	lines := strings.Split(strings.TrimSuffix(Header, "\n"), "\n")
	for i, line := range lines {
		if i > 0 {
			push(dom.Text("\n"))
		}
		push(dom.Text(line))
	}
}

// namespace wraps body in a block namespace declaration, unless ns is the
// global namespace.
func namespace(push dom.Sink, ns string, opts Options, body func(dom.Sink)) {
	if ns == "" {
		body(push)
		return
	}
	block(push, "namespace "+ns, opts, body)
}

// block renders "head { body }" with body indented on its own lines.
func block(push dom.Sink, head string, opts Options, body func(dom.Sink)) {
	push(
		dom.Text(head),
		dom.Text("\n"),
		dom.Text("{"),
		dom.Text("\n"),
		dom.Indent(opts.Indent, body),
		dom.Text("\n"),
		dom.Text("}"),
	)
}

func marker(push dom.Sink, opts Options) {
	namespace(push, MarkerNamespace, opts, func(push dom.Sink) {
		for _, line := range []string{
			"/// <summary>",
			"/// Marks a field for which a reactive property is generated.",
			"/// </summary>",
			"[System.AttributeUsage(System.AttributeTargets.Field)]",
			`[System.Diagnostics.Conditional("REACTIVEOBJECT_GENERATORS_USAGES")]`,
		} {
			push(dom.Text(line), dom.Text("\n"))
		}
		push(
			dom.Text("public sealed class "+markerType+" : System.Attribute"),
			dom.Text("\n"),
			dom.Text("{"),
			dom.Text("\n"),
			dom.Text("}"),
		)
	})
}

// containingTypes wraps body in partial declarations of the types that
// enclose a nested class, outermost first.
func containingTypes(push dom.Sink, types []descriptor.ContainingType, opts Options, body func(dom.Sink)) {
	if len(types) == 0 {
		body(push)
		return
	}
	ct := types[0]
	push(dom.Text(ct.Accessibility.String() + " partial " + ct.Kind + " " + ct.Name))
	typeParameters(push, ct.TypeParameters, opts)
	push(
		dom.Text("\n"),
		dom.Text("{"),
		dom.Text("\n"),
		dom.Indent(opts.Indent, func(push dom.Sink) {
			containingTypes(push, types[1:], opts, body)
		}),
		dom.Text("\n"),
		dom.Text("}"),
	)
}

func class(push dom.Sink, c descriptor.Class, opts Options) {
	push(dom.Text(c.Accessibility().String() + " partial class " + c.Name()))
	typeParameters(push, c.TypeParameters(), opts)
	push(
		dom.Text("\n"),
		dom.Text("{"),
		dom.Text("\n"),
		dom.Indent(opts.Indent, func(push dom.Sink) {
			for i, p := range c.Properties() {
				if i > 0 {
					push(dom.Text("\n\n"))
				}
				property(push, p, opts)
			}
		}),
		dom.Text("\n"),
		dom.Text("}"),
	)
}

// typeParameters renders "<T, U>", one parameter per line if the list
// does not fit.
func typeParameters(push dom.Sink, params []string, opts Options) {
	if len(params) == 0 {
		return
	}
	push(dom.Text("<"), dom.Group(0, func(push dom.Sink) {
		push(dom.TextIf(dom.Broken, "\n"))
		push(dom.Indent(opts.Indent, func(push dom.Sink) {
			for i, param := range params {
				if i > 0 {
					push(dom.Text(","), dom.TextIf(dom.Flat, " "), dom.TextIf(dom.Broken, "\n"))
				}
				push(dom.Text(param))
			}
		}))
		push(dom.TextIf(dom.Broken, "\n"))
	}), dom.Text(">"))
}

func property(push dom.Sink, p descriptor.Property, opts Options) {
	block(push, p.Accessibility().String()+" "+p.Type()+" "+p.Name(), opts, func(push dom.Sink) {
		push(
			dom.Text("get => "+p.FieldName()+";"),
			dom.Text("\n"),
			dom.Text("set => this."+opts.NotifyMethod+"(ref "+p.FieldName()+", value);"),
		)
	})
}

package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderIndent(t *testing.T) {
	t.Parallel()
	got := Render(Options{}, func(push Sink) {
		push(Text("a"), Text("\n"), Indent("  ", func(push Sink) {
			push(Text("b"), Text("\n\n"), Text("c"))
		}), Text("\n"), Text("d"))
	})
	assert.Equal(t, "a\n  b\n\n  c\nd\n", got)
}

func TestRenderWhitespaceMerging(t *testing.T) {
	t.Parallel()
	got := Render(Options{}, func(push Sink) {
		push(Text("a"), Text(" "), Text("\n"), Text("b"), Text("\n"), Text("\n\n"), Text("c"), Text("  "), Text(" "), Text("d"))
	})
	assert.Equal(t, "a\nb\n\nc  d\n", got)
}

func TestRenderTrailingNewline(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "x\n", Render(Options{}, func(push Sink) {
		push(Text("x"), Text("\n"))
	}))
	assert.Equal(t, "\n", Render(Options{}, func(Sink) {}))
}

func call(push Sink) {
	push(Text("f("), Group(0, func(push Sink) {
		push(TextIf(Broken, "\n"), Indent("  ", func(push Sink) {
			push(Text("x,"), TextIf(Flat, " "), TextIf(Broken, "\n"), Text("y"))
		}), TextIf(Broken, "\n"))
	}), Text(")"))
}

func TestRenderGroup(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "f(x, y)\n", Render(Options{}, call))
	assert.Equal(t, "f(x, y)\n", Render(Options{MaxWidth: 80}, call))
	assert.Equal(t, "f(\n  x,\n  y\n)\n", Render(Options{MaxWidth: 4}, call))
}

func TestStringWidth(t *testing.T) {
	t.Parallel()
	opts := Options{}.withDefaults()
	assert.Equal(t, 3, stringWidth(opts, 0, "abc"))
	assert.Equal(t, 5, stringWidth(opts, 0, "a\tb"))
	assert.Equal(t, 9, stringWidth(opts, 4, "a\tb"))
	assert.Equal(t, 6, stringWidth(opts, -1, "a\tb"))
	assert.Equal(t, 4, stringWidth(opts, 0, "日本"))
}

// Package dom lays out generated source text. Callers describe the output
// as a tree of tags: text, line breaks, indentation, and groups that are
// either printed on one line or broken across several.
//
// [Render] is the entry point. A [Group] is laid out flat if it fits
// within the configured width, and broken otherwise; tags created with
// [TextIf] only appear in one of the two orientations, which is how
// optional line breaks are expressed.
package dom

import "math"

// Render renders a document consisting of the tags pushed by content.
// The result always ends in a newline.
func Render(options Options, content func(push Sink)) string {
	d := new(dom)
	content(d.add)
	return render(options, d)
}

// Options configures [Render].
type Options struct {
	// MaxWidth is the column limit that forces groups to break. Zero means
	// no limit.
	MaxWidth int

	// TabstopWidth is the number of columns a tab advances to. Defaults
	// to 4.
	TabstopWidth int
}

func (o Options) withDefaults() Options {
	if o.MaxWidth == 0 {
		o.MaxWidth = math.MaxInt
	}
	if o.TabstopWidth == 0 {
		o.TabstopWidth = 4
	}
	return o
}

// Tag is one formatting directive. A nil Tag renders nothing.
type Tag func(*dom)

// Sink appends tags to the context it was created for. A Sink passed to a
// callback must not be used after the callback returns.
type Sink func(...Tag)

// Cond restricts a tag to flat or broken groups.
type Cond byte

const (
	Always Cond = iota
	Flat        // only in a flat group
	Broken      // only in a broken group
)

// Text returns a tag that emits text as-is.
//
// Text made only of spaces or only of newlines is whitespace: spaces next
// to a newline are dropped so lines have no trailing blanks, and of two
// adjacent runs of the same kind only the longer one is kept. Use
// Text("\n\n") for a blank line.
func Text(text string) Tag {
	return TextIf(Always, text)
}

// TextIf is like [Text], but only renders when the enclosing group's
// orientation matches cond. The top level counts as broken.
func TextIf(cond Cond, text string) Tag {
	return func(d *dom) {
		if text == "" {
			return
		}
		var k kind
		switch {
		case every(text, ' '):
			k = kindSpace
		case every(text, '\n'):
			k = kindBreak
		default:
			k = kindText
		}
		d.push(tag{kind: k, text: text, cond: cond}, nil)
	}
}

// Group returns a tag holding child tags that are laid out together.
//
// A group is broken when it contains a newline or a broken group, when its
// flat width exceeds maxWidth (zero means no limit), or when laying it out
// flat would run past Options.MaxWidth.
func Group(maxWidth int, content func(push Sink)) Tag {
	return func(d *dom) {
		if maxWidth == 0 {
			maxWidth = math.MaxInt
		}
		d.push(tag{kind: kindGroup, limit: maxWidth}, content)
	}
}

// Indent prefixes every line started inside content with by, on top of
// any enclosing indentation. Indentation is not written on blank lines.
func Indent(by string, content func(push Sink)) Tag {
	return func(d *dom) {
		if by == "" {
			content(d.add)
			return
		}
		d.push(tag{kind: kindIndent, text: by}, content)
	}
}

func every(s string, b byte) bool {
	for i := range len(s) {
		if s[i] != b {
			return false
		}
	}
	return true
}

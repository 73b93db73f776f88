package dom

import (
	"strings"

	"github.com/rivo/uniseg"
)

// layout decides which groups break and records the width and starting
// column of every tag.
type layout struct {
	Options

	indent   []int
	column   int
	prevText *tag
}

func (l *layout) layout(doc dom) {
	l.layoutFlat(doc.cursor())
	l.prevText = nil
	l.layoutBroken(doc.cursor())
}

// layoutFlat computes the width every tag would have if laid out flat.
func (l *layout) layoutFlat(c cursor) (total int, broken bool) {
	for t, children := range c {
		switch t.kind {
		case kindText, kindSpace, kindBreak:
			if l.prevText != nil {
				keepPrev, keepNext := shouldMerge(l.prevText, t)
				if !keepPrev {
					total -= l.prevText.width
					l.prevText = nil
				} else if !keepNext {
					continue
				}
			}
			t.broken = strings.Contains(t.text, "\n")
			// the column is unknown here, so tabs count at full width
			t.width = stringWidth(l.Options, -1, t.text)
			if t.renderIf(Flat) {
				l.prevText = t
			}
		}

		n, br := l.layoutFlat(children)
		t.width += n
		t.broken = t.broken || br
		if t.renderIf(Flat) {
			total += t.width
			broken = broken || t.broken
		}
	}
	return total, broken
}

// layoutBroken walks a broken group, breaking nested groups that do not
// fit.
func (l *layout) layoutBroken(c cursor) {
	for t, children := range c {
		if !t.renderIf(Broken) {
			continue
		}
		t.column = l.column

		switch t.kind {
		case kindText, kindSpace, kindBreak:
			if l.prevText != nil {
				keepPrev, keepNext := shouldMerge(l.prevText, t)
				if !keepPrev {
					if !l.prevText.broken {
						l.column -= l.prevText.width
					}
					l.prevText = nil
				} else if !keepNext {
					continue
				}
			}
			if l.column == 0 && len(l.indent) > 0 {
				l.column = l.indent[len(l.indent)-1]
			}
			last := t.text
			if i := strings.LastIndexByte(last, '\n'); i >= 0 {
				last = last[i+1:]
				l.column = 0
			}
			l.column = stringWidth(l.Options, l.column, last)

		case kindGroup:
			t.broken = t.broken ||
				t.column+t.width > l.MaxWidth ||
				t.width > t.limit
			if !t.broken {
				l.column += t.width
			} else {
				l.layoutBroken(children)
			}

		case kindIndent:
			var prev int
			if len(l.indent) > 0 {
				prev = l.indent[len(l.indent)-1]
			}
			l.indent = append(l.indent, stringWidth(l.Options, prev, t.text))
			l.layoutBroken(children)
			l.indent = l.indent[:len(l.indent)-1]
		}
	}
}

// stringWidth returns the column reached by writing text at column. A
// column of -1 gives every tab its full width.
func stringWidth(options Options, column int, text string) int {
	pessimistic := column < 0
	column = max(0, column)
	for i, chunk := range strings.Split(text, "\t") {
		if i > 0 {
			tab := options.TabstopWidth
			if !pessimistic {
				tab -= column % options.TabstopWidth
			}
			column += tab
		}
		column += uniseg.StringWidth(chunk)
	}
	return column
}

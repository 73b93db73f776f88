package dom

import "iter"

type kind byte

const (
	kindText   kind = iota + 1 // ordinary text
	kindSpace                  // only spaces
	kindBreak                  // only newlines
	kindGroup                  // see Group
	kindIndent                 // see Indent
)

// dom is a flattened tree of tags. Each tag is followed by its children.
type dom []tag

type tag struct {
	text  string
	limit int // for kindGroup

	kind   kind
	cond   Cond
	broken bool

	width, column int // computed by layout
	children      int // number of descendants that follow in the dom
}

// cursor iterates over sibling tags, along with a cursor over each tag's
// children.
type cursor iter.Seq2[*tag, cursor]

func (d *dom) add(tags ...Tag) {
	for _, t := range tags {
		if t != nil {
			t(d)
		}
	}
}

// push appends t, then whatever body adds as its children.
func (d *dom) push(t tag, body func(Sink)) {
	*d = append(*d, t)
	if body != nil {
		n := len(*d)
		body(d.add)
		(*d)[n-1].children = len(*d) - n
	}
}

func (d *dom) cursor() cursor {
	return func(yield func(*tag, cursor) bool) {
		d := *d
		for i := 0; i < len(d); i++ {
			t := &d[i]
			children := d[i+1 : i+t.children+1]
			i += len(children)
			if !yield(t, children.cursor()) {
				return
			}
		}
	}
}

func (t *tag) renderIf(cond Cond) bool {
	return t.cond == Always || t.cond == cond
}

// shouldMerge decides which of two adjacent whitespace tags survive. It
// never drops both.
func shouldMerge(a, b *tag) (keepA, keepB bool) {
	switch {
	case a.kind == kindSpace && b.kind == kindBreak:
		return false, true
	case a.kind == kindBreak && b.kind == kindSpace:
		return true, false
	case a.kind == b.kind && (a.kind == kindSpace || a.kind == kindBreak):
		bWider := len(a.text) < len(b.text)
		return !bWider, bWider
	}
	return true, true
}

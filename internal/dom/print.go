package dom

import "strings"

// printer writes a laid-out dom.
type printer struct {
	out strings.Builder
	// pending whitespace, merged before the next text is written
	spaces, newlines int
	indent           string
}

func render(options Options, doc *dom) string {
	options = options.withDefaults()
	l := layout{Options: options}
	l.layout(*doc)

	var p printer
	p.print(Broken, doc.cursor())
	if !strings.HasSuffix(p.out.String(), "\n") {
		p.out.WriteByte('\n')
	}
	return p.out.String()
}

// print prints the tags of c that apply when the enclosing group has
// orientation cond.
func (p *printer) print(cond Cond, c cursor) {
	for t, children := range c {
		if !t.renderIf(cond) {
			continue
		}
		switch t.kind {
		case kindText:
			p.write(t.text)
		case kindSpace:
			p.spaces = max(p.spaces, len(t.text))
		case kindBreak:
			p.newlines = max(p.newlines, len(t.text))
		case kindGroup:
			inner := Flat
			if t.broken {
				inner = Broken
			}
			p.print(inner, children)
		case kindIndent:
			prev := p.indent
			p.indent += t.text
			p.print(cond, children)
			p.indent = prev
		}
	}
}

// write flushes pending whitespace, indenting the new line if there is
// one, and then writes data.
func (p *printer) write(data string) {
	if p.newlines > 0 {
		p.out.WriteString(strings.Repeat("\n", p.newlines))
		p.out.WriteString(p.indent)
		p.spaces = 0
		p.newlines = 0
	}
	p.out.WriteString(strings.Repeat(" ", p.spaces))
	p.spaces = 0
	p.out.WriteString(data)
}

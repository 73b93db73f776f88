package parser

import (
	"fmt"
	"io"

	"github.com/reactiveobject/reactivegen/ast"
	"github.com/reactiveobject/reactivegen/reporter"
)

// Parse parses the given C# source into an AST.
//
// Syntax errors are sent to handler. Parsing of a file stops at its first
// syntax error, but the declarations that were completely parsed before it
// are still returned. The returned error is handler.Error(), so it may also
// reflect errors reported for other files sharing the same handler.
func Parse(filename string, r io.Reader, handler *reporter.Handler) (*ast.FileNode, error) {
	toks, info, err := lex(filename, r)
	if err != nil {
		if info == nil {
			info = ast.NewFileInfo(filename, nil)
		}
		_ = handler.HandleError(err)
		return &ast.FileNode{Info: info}, handler.Error()
	}
	p := &parser{info: info, toks: toks, handler: handler}
	return p.parse(), handler.Error()
}

type parser struct {
	info    *ast.FileInfo
	toks    []token
	pos     int
	handler *reporter.Handler
}

func (p *parser) parse() (file *ast.FileNode) {
	file = &ast.FileNode{Info: p.info}
	defer func() {
		if r := recover(); r != nil && r != errBailout {
			panic(r)
		}
	}()
	p.parseCompilationUnit(file)
	return file
}

func (p *parser) parseCompilationUnit(file *ast.FileNode) {
	for p.is("extern") && p.isAt(1, "alias") {
		p.next()
		p.next()
		name := p.expectIdent("alias name")
		p.expect(";")
		file.Externs = append(file.Externs, name.text)
	}
	file.Usings = p.parseUsings()
	for p.is("[") && (p.isAt(1, "assembly") || p.isAt(1, "module")) && p.isAt(2, ":") {
		file.Attributes = append(file.Attributes, p.parseAttributeSection()...)
	}
	for p.peek().kind != tokEOF {
		if d := p.parseNamespaceMember(len(file.Decls) == 0); d != nil {
			file.Decls = append(file.Decls, d)
		}
	}
}

func (p *parser) parseUsings() []*ast.UsingNode {
	var usings []*ast.UsingNode
	for (p.is("using") && !p.isAt(1, "(")) || (p.is("global") && p.isAt(1, "using")) {
		start := p.peek()
		u := &ast.UsingNode{Pos: p.posOf(start)}
		u.Global = p.accept("global")
		p.expect("using")
		u.Static = p.accept("static")
		if p.peek().kind == tokIdent && p.isAt(1, "=") {
			u.Alias = p.expectIdent("alias name").text
			p.next()
		}
		u.Name = p.parseName()
		p.expect(";")
		usings = append(usings, u)
	}
	return usings
}

// parseNamespaceMember parses a namespace or type declaration. It returns
// nil for declarations that are recognized but not modeled, like delegates.
func (p *parser) parseNamespaceMember(allowFileScoped bool) ast.Decl {
	if p.is("namespace") {
		return p.parseNamespace(allowFileScoped)
	}
	attrs := p.parseAttributes()
	mods := p.parseModifiers()
	switch {
	case p.isTypeKeyword():
		return p.parseTypeDecl(attrs, mods)
	case p.is("delegate"):
		p.skipMember()
		return nil
	}
	t := p.peek()
	p.errorf(t, "expected namespace or type declaration, found %s", describe(t))
	return nil
}

func (p *parser) parseNamespace(allowFileScoped bool) *ast.NamespaceNode {
	start := p.next()
	ns := &ast.NamespaceNode{Pos: p.posOf(start), Name: p.parseName()}
	if p.is(";") {
		if !allowFileScoped {
			p.errorf(start, "file-scoped namespace must precede all other members of a file")
		}
		p.next()
		ns.FileScoped = true
		ns.Usings = p.parseUsings()
		for p.peek().kind != tokEOF {
			if d := p.parseNamespaceMember(false); d != nil {
				ns.Decls = append(ns.Decls, d)
			}
		}
		return ns
	}

	p.expect("{")
	ns.Usings = p.parseUsings()
	for !p.is("}") {
		if t := p.peek(); t.kind == tokEOF {
			p.errorf(t, `expected "}", found %s`, describe(t))
		}
		if d := p.parseNamespaceMember(false); d != nil {
			ns.Decls = append(ns.Decls, d)
		}
	}
	p.next()
	p.accept(";")
	return ns
}

func (p *parser) isTypeKeyword() bool {
	switch {
	case p.is("class"), p.is("struct"), p.is("interface"), p.is("enum"):
		return true
	case p.is("record"):
		next := p.peekN(1)
		return next.kind == tokIdent && (!reserved[next.text] || next.text == "class" || next.text == "struct")
	default:
		return false
	}
}

func (p *parser) parseTypeDecl(attrs []*ast.AttributeNode, mods []string) *ast.TypeDeclNode {
	decl := &ast.TypeDeclNode{Attributes: attrs, Modifiers: mods}
	switch p.next().text {
	case "class":
		decl.Kind = ast.KindClass
	case "struct":
		decl.Kind = ast.KindStruct
	case "interface":
		decl.Kind = ast.KindInterface
	case "enum":
		decl.Kind = ast.KindEnum
	case "record":
		decl.Kind = ast.KindRecord
		if p.accept("struct") {
			decl.Kind = ast.KindRecordStruct
		} else {
			p.accept("class")
		}
	}
	name := p.expectIdent("type name")
	decl.Pos = p.posOf(name)
	decl.Name = name.text
	if p.is("<") {
		decl.TypeParams = p.parseTypeParams()
	}
	// primary constructor parameters, base types and constraints
	p.skipUntilBody()
	if p.accept(";") {
		return decl
	}
	if decl.Kind == ast.KindEnum {
		p.skipBalanced()
		p.accept(";")
		return decl
	}

	p.expect("{")
	for !p.is("}") {
		if t := p.peek(); t.kind == tokEOF {
			p.errorf(t, `expected "}", found %s`, describe(t))
		}
		p.parseMember(decl)
	}
	p.next()
	p.accept(";")
	return decl
}

func (p *parser) parseTypeParams() []string {
	p.expect("<")
	var params []string
	for {
		p.parseAttributes()
		if !p.accept("in") {
			p.accept("out")
		}
		params = append(params, p.expectIdent("type parameter name").text)
		if !p.accept(",") {
			break
		}
	}
	p.expect(">")
	return params
}

func (p *parser) parseMember(decl *ast.TypeDeclNode) {
	start := p.peek()
	attrs := p.parseAttributes()
	mods := p.parseModifiers()
	switch {
	case p.isTypeKeyword():
		decl.Nested = append(decl.Nested, p.parseTypeDecl(attrs, mods))
		return
	case p.is("delegate"), p.is("event"), p.is("operator"), p.is("implicit"), p.is("explicit"), p.is("~"):
		p.skipMember()
		return
	case p.peek().kind == tokIdent && p.isAt(1, "("):
		// constructor
		p.skipMember()
		return
	case p.is(";"):
		p.next()
		return
	}

	typ := p.parseType()
	if p.is("operator") || p.is("this") || p.is("(") {
		// a "(" here means the type swallowed a qualified method name, as
		// in an explicit interface implementation
		p.skipMember()
		return
	}
	name := p.peek()
	if name.kind != tokIdent || reserved[name.text] {
		p.errorf(name, "expected member name, found %s", describe(name))
	}
	if p.isAt(1, ";") || p.isAt(1, "=") || p.isAt(1, ",") || p.isAt(1, "[") {
		decl.Fields = append(decl.Fields, p.parseFieldDecl(start, attrs, mods, typ))
		return
	}
	// methods, properties, indexers and explicit interface implementations
	p.skipMember()
}

func (p *parser) parseFieldDecl(start token, attrs []*ast.AttributeNode, mods []string, typ *ast.TypeNode) *ast.FieldDeclNode {
	field := &ast.FieldDeclNode{Pos: p.posOf(start), Attributes: attrs, Modifiers: mods, Type: typ}
	for {
		id := p.expectIdent("field name")
		field.Names = append(field.Names, &ast.IdentNode{Pos: p.posOf(id), Name: id.text})
		if p.is("[") {
			// fixed-size buffer
			p.skipBalanced()
		}
		if p.accept("=") {
			p.skipInitializer()
		}
		if !p.accept(",") {
			break
		}
	}
	p.expect(";")
	return field
}

func (p *parser) parseAttributes() []*ast.AttributeNode {
	var attrs []*ast.AttributeNode
	for p.is("[") {
		attrs = append(attrs, p.parseAttributeSection()...)
	}
	return attrs
}

func (p *parser) parseAttributeSection() []*ast.AttributeNode {
	p.expect("[")
	var target string
	if p.peek().kind == tokIdent && p.isAt(1, ":") {
		target = p.next().text
		p.next()
	}
	var attrs []*ast.AttributeNode
	for {
		start := p.peek()
		attr := &ast.AttributeNode{Pos: p.posOf(start), Target: target, Name: p.parseName()}
		if p.is("(") {
			p.skipBalanced()
			attr.HasArgs = true
		}
		attrs = append(attrs, attr)
		if !p.accept(",") || p.is("]") {
			break
		}
	}
	p.expect("]")
	return attrs
}

func (p *parser) parseModifiers() []string {
	var mods []string
	for {
		t := p.peek()
		if t.kind != tokIdent {
			return mods
		}
		switch {
		case modifiers[t.text]:
		case contextualModifiers[t.text] && p.peekN(1).kind == tokIdent:
		default:
			return mods
		}
		mods = append(mods, p.next().text)
	}
}

func (p *parser) parseName() *ast.NameNode {
	start := p.peek()
	n := &ast.NameNode{Pos: p.posOf(start)}
	if start.kind == tokIdent && p.isAt(1, "::") {
		n.Qualifier = p.next().text
		p.next()
	}
	for {
		id := p.expectIdent("identifier")
		part := &ast.NamePart{Name: id.text}
		if p.is("<") {
			part.TypeArgs = p.parseTypeArgs()
		}
		n.Parts = append(n.Parts, part)
		if !p.is(".") || p.peekN(1).kind != tokIdent {
			return n
		}
		p.next()
	}
}

func (p *parser) parseTypeArgs() []*ast.TypeNode {
	p.expect("<")
	var args []*ast.TypeNode
	for {
		args = append(args, p.parseType())
		if !p.accept(",") {
			break
		}
	}
	p.expect(">")
	return args
}

func (p *parser) parseType() *ast.TypeNode {
	start := p.peek()
	t := &ast.TypeNode{Pos: p.posOf(start)}
	switch {
	case p.is("("):
		p.next()
		for {
			el := &ast.TupleElement{Type: p.parseType()}
			if next := p.peek(); next.kind == tokIdent && !reserved[next.text] {
				el.Name = p.next().text
			}
			t.Tuple = append(t.Tuple, el)
			if !p.accept(",") {
				break
			}
		}
		p.expect(")")
		if len(t.Tuple) < 2 {
			p.errorf(start, "tuple type must have at least two elements")
		}
	case start.kind == tokIdent && predefinedTypes[start.text]:
		t.Keyword = p.next().text
	case start.kind == tokIdent:
		t.Name = p.parseName()
	default:
		p.errorf(start, "expected type, found %s", describe(start))
	}

	for {
		switch {
		case p.is("?"), p.is("*"):
			t.Suffixes = append(t.Suffixes, p.next().text)
		case p.is("[") && (p.isAt(1, "]") || p.isAt(1, ",")):
			p.next()
			rank := "["
			for p.accept(",") {
				rank += ","
			}
			p.expect("]")
			t.Suffixes = append(t.Suffixes, rank+"]")
		default:
			return t
		}
	}
}

// skipUntilBody skips a type declaration's header up to the "{" or ";"
// that starts or ends its body, without consuming it.
func (p *parser) skipUntilBody() {
	depth := 0
	for {
		t := p.peek()
		switch {
		case t.kind == tokEOF:
			p.errorf(t, "expected type body, found %s", describe(t))
		case t.kind == tokInvalid:
			p.errorf(t, "unexpected character %q", t.text)
		case t.kind != tokPunct:
		case depth == 0 && (t.text == "{" || t.text == ";"):
			return
		case t.text == "(" || t.text == "[":
			depth++
		case t.text == ")" || t.text == "]":
			depth--
			if depth < 0 {
				p.errorf(t, "unexpected %q", t.text)
			}
		case t.text == "{" || t.text == "}":
			p.errorf(t, "unexpected %q", t.text)
		}
		p.next()
	}
}

// skipBalanced consumes the bracket the parser is positioned on and
// everything up to and including its matching closing bracket.
func (p *parser) skipBalanced() {
	open := p.next()
	stack := []string{closers[open.text]}
	for len(stack) > 0 {
		t := p.next()
		switch {
		case t.kind == tokEOF:
			p.errorf(t, "expected %q, found %s", stack[len(stack)-1], describe(t))
		case t.kind != tokPunct:
		case closers[t.text] != "":
			stack = append(stack, closers[t.text])
		case t.text == ")" || t.text == "]" || t.text == "}":
			if want := stack[len(stack)-1]; t.text != want {
				p.errorf(t, "expected %q, found %q", want, t.text)
			}
			stack = stack[:len(stack)-1]
		}
	}
}

// skipInitializer skips a field initializer up to, but not including, the
// ";" that ends the declaration or the "," that starts the next declarator.
func (p *parser) skipInitializer() {
	depth := 0
	for {
		t := p.peek()
		switch {
		case t.kind == tokEOF:
			p.errorf(t, `expected ";", found %s`, describe(t))
		case t.kind != tokPunct:
		case depth == 0 && t.text == ";":
			return
		case depth == 0 && t.text == "," && p.isDeclaratorAt(1):
			return
		case closers[t.text] != "":
			depth++
		case t.text == ")" || t.text == "]" || t.text == "}":
			depth--
			if depth < 0 {
				p.errorf(t, "unexpected %q", t.text)
			}
		}
		p.next()
	}
}

// isDeclaratorAt reports whether the tokens at offset n look like the
// start of another variable declarator, as in ", b = 1" or ", b;". A comma
// inside generic type arguments, such as "new Dictionary<int, string>()",
// does not.
func (p *parser) isDeclaratorAt(n int) bool {
	id := p.peekN(n)
	return id.kind == tokIdent && !reserved[id.text] &&
		(p.isAt(n+1, "=") || p.isAt(n+1, ",") || p.isAt(n+1, ";"))
}

// skipMember skips a member the AST does not model: a method, property,
// event, constructor, operator, indexer or delegate. It stops after the
// member's terminating ";" or after its body.
func (p *parser) skipMember() {
	depth := 0
	inExpr := false
	for {
		t := p.peek()
		switch {
		case t.kind == tokEOF:
			p.errorf(t, "unexpected %s", describe(t))
		case t.kind != tokPunct:
			p.next()
		case t.text == "{":
			p.skipBalanced()
			if depth == 0 && !inExpr {
				if p.is("=") {
					// property initializer follows the accessor list
					continue
				}
				p.accept(";")
				return
			}
		case t.text == "(" || t.text == "[":
			depth++
			p.next()
		case t.text == ")" || t.text == "]" || t.text == "}":
			depth--
			if depth < 0 || t.text == "}" {
				p.errorf(t, "unexpected %q", t.text)
			}
			p.next()
		case depth == 0 && t.text == ";":
			p.next()
			return
		case depth == 0 && (t.text == "=" || t.text == "=>"):
			inExpr = true
			p.next()
		default:
			p.next()
		}
	}
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) peekN(n int) token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) is(text string) bool {
	return p.isAt(0, text)
}

func (p *parser) isAt(n int, text string) bool {
	t := p.peekN(n)
	return (t.kind == tokIdent || t.kind == tokPunct) && t.text == text
}

func (p *parser) accept(text string) bool {
	if p.is(text) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(text string) token {
	if t := p.peek(); !p.is(text) {
		p.errorf(t, "expected %q, found %s", text, describe(t))
	}
	return p.next()
}

func (p *parser) expectIdent(what string) token {
	t := p.peek()
	if t.kind != tokIdent || reserved[t.text] {
		p.errorf(t, "expected %s, found %s", what, describe(t))
	}
	return p.next()
}

func (p *parser) posOf(t token) ast.SourcePos {
	return p.info.SourcePos(t.offset)
}

// errorf reports a syntax error at t and abandons the rest of the file.
func (p *parser) errorf(t token, format string, args ...interface{}) {
	_ = p.handler.HandleErrorf(p.posOf(t), format, args...)
	panic(errBailout)
}

func describe(t token) string {
	switch t.kind {
	case tokEOF:
		return "end of file"
	case tokIdent:
		if reserved[t.text] {
			return fmt.Sprintf("keyword %q", t.text)
		}
		return fmt.Sprintf("identifier %q", t.text)
	case tokLiteral:
		return fmt.Sprintf("literal %s", t.text)
	case tokInvalid:
		return fmt.Sprintf("character %q", t.text)
	default:
		return fmt.Sprintf("%q", t.text)
	}
}

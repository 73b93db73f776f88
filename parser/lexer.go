package parser

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/reactiveobject/reactivegen/ast"
	"github.com/reactiveobject/reactivegen/reporter"
)

// csharpLexer tokenizes C# source. Alternatives are tried in order, so
// comments come before punctuation and literals before identifiers. The
// final catch-all rule means lexing itself never fails; the parser reports
// stray characters instead.
//
// Interpolated and raw string literals are lexed in their own states, so
// that braces and quotes inside them never reach the parser. lex joins the
// tokens of each such literal back into one.
var csharpLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "Whitespace", Pattern: `[ \t\r\n\f\v]+`},
		{Name: "Comment", Pattern: `//[^\n]*|/\*(?s:.*?)\*/`},
		{Name: "Preprocessor", Pattern: `#[^\n]*`},
		{Name: "RawStringStart", Pattern: `(\$*)("{3,})`, Action: lexer.Push("RawString")},
		{Name: "VerbatimInterpStart", Pattern: `\$@"|@\$"`, Action: lexer.Push("VerbatimInterp")},
		{Name: "InterpStart", Pattern: `\$"`, Action: lexer.Push("Interp")},
		{Name: "String", Pattern: `@"(?:[^"]|"")*"|"(?:[^"\\\n]|\\.)*"`},
		{Name: "Char", Pattern: `'(?:[^'\\\n]|\\.)*'`},
		{Name: "Number", Pattern: `[0-9][0-9A-Za-z_.]*|\.[0-9][0-9A-Za-z_]*`},
		{Name: "Ident", Pattern: `@?[\p{L}_][\p{L}\p{N}\p{Mn}\p{Mc}\p{Pc}]*`},
		{Name: "Punct", Pattern: `::|=>|\?\?=?|[{}()\[\];,.:<>=?*&|!+\-/%^~]`},
		{Name: "Invalid", Pattern: `.`},
	},
	// The closing delimiter repeats the run of quotes that opened the
	// literal. Shorter runs are content.
	"RawString": {
		{Name: "RawStringEnd", Pattern: `\2`, Action: lexer.Pop()},
		{Name: "RawStringText", Pattern: `[^"]+|"`},
	},
	"Interp": {
		{Name: "InterpEscape", Pattern: `(?s:\\.)|\{\{|\}\}`},
		{Name: "InterpEnd", Pattern: `"`, Action: lexer.Pop()},
		{Name: "HoleStart", Pattern: `\{`, Action: lexer.Push("Hole")},
		{Name: "InterpText", Pattern: `[^"\\{}]+|\}|\\`},
	},
	"VerbatimInterp": {
		{Name: "VerbatimInterpEscape", Pattern: `""|\{\{|\}\}`},
		{Name: "VerbatimInterpEnd", Pattern: `"`, Action: lexer.Pop()},
		{Name: "HoleStart", Pattern: `\{`, Action: lexer.Push("Hole")},
		{Name: "VerbatimInterpText", Pattern: `[^"{}]+|\}`},
	},
	// Holes hold expressions, which may contain braces and other string
	// literals of their own.
	"Hole": {
		{Name: "HoleEnd", Pattern: `\}`, Action: lexer.Pop()},
		{Name: "HoleStart", Pattern: `\{`, Action: lexer.Push("Hole")},
		lexer.Include("Root"),
	},
})

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokPunct
	tokLiteral
	tokInvalid
)

type token struct {
	kind   tokenKind
	text   string
	offset int
}

var utf8Bom = []byte{0xEF, 0xBB, 0xBF}

// lex reads all of r and returns the significant tokens of the file, ending
// with an EOF token, along with the file's line table.
func lex(filename string, r io.Reader) ([]token, *ast.FileInfo, error) {
	br := bufio.NewReader(r)

	// if file has UTF8 byte order marker preface, consume it
	marker, err := br.Peek(3)
	if err == nil && bytes.Equal(marker, utf8Bom) {
		_, _ = br.Discard(3)
	}

	contents, err := io.ReadAll(br)
	if err != nil {
		return nil, nil, err
	}
	info := ast.NewFileInfo(filename, contents)
	for i, b := range contents {
		if b == '\n' {
			info.AddLine(i + 1)
		}
	}
	if !utf8.Valid(contents) {
		offset := 0
		for offset < len(contents) {
			r, size := utf8.DecodeRune(contents[offset:])
			if r == utf8.RuneError && size <= 1 {
				break
			}
			offset += size
		}
		return nil, info, reporter.Error(info.SourcePos(offset), ErrInvalidUTF8)
	}

	lx, err := csharpLexer.LexString(filename, string(contents))
	if err != nil {
		return nil, info, err
	}
	raw, err := lexer.ConsumeAll(lx)
	if err != nil {
		return nil, info, err
	}

	symbols := csharpLexer.Symbols()
	kinds := map[lexer.TokenType]tokenKind{
		symbols["Ident"]:   tokIdent,
		symbols["Punct"]:   tokPunct,
		symbols["String"]:  tokLiteral,
		symbols["Char"]:    tokLiteral,
		symbols["Number"]:  tokLiteral,
		symbols["Invalid"]: tokInvalid,
	}
	opens := map[lexer.TokenType]bool{
		symbols["RawStringStart"]:      true,
		symbols["InterpStart"]:         true,
		symbols["VerbatimInterpStart"]: true,
	}
	closes := map[lexer.TokenType]bool{
		symbols["RawStringEnd"]:      true,
		symbols["InterpEnd"]:         true,
		symbols["VerbatimInterpEnd"]: true,
	}

	toks := make([]token, 0, len(raw))
	// depth counts the string literals the lexer is inside of; literals
	// nest through interpolation holes.
	var depth, start int
	for _, t := range raw {
		if t.EOF() {
			break
		}
		switch {
		case opens[t.Type]:
			if depth == 0 {
				start = t.Pos.Offset
			}
			depth++
			continue
		case closes[t.Type]:
			depth--
			if depth == 0 {
				end := t.Pos.Offset + len(t.Value)
				toks = append(toks, token{kind: tokLiteral, text: string(contents[start:end]), offset: start})
			}
			continue
		case depth > 0:
			continue
		}
		kind, ok := kinds[t.Type]
		if !ok {
			// whitespace, comments and preprocessor lines
			continue
		}
		toks = append(toks, token{kind: kind, text: t.Value, offset: t.Pos.Offset})
	}
	if depth > 0 {
		// an unterminated literal runs to the end of the file
		toks = append(toks, token{kind: tokLiteral, text: string(contents[start:]), offset: start})
	}
	toks = append(toks, token{kind: tokEOF, offset: len(contents)})
	return toks, info, nil
}

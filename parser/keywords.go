package parser

// reserved holds the C# keywords that can never be used as plain
// identifiers (only in their "@" form).
var reserved = setOf(
	"abstract", "as", "base", "bool", "break", "byte", "case", "catch",
	"char", "checked", "class", "const", "continue", "decimal", "default",
	"delegate", "do", "double", "else", "enum", "event", "explicit",
	"extern", "false", "finally", "fixed", "float", "for", "foreach",
	"goto", "if", "implicit", "in", "int", "interface", "internal", "is",
	"lock", "long", "namespace", "new", "null", "object", "operator",
	"out", "override", "params", "private", "protected", "public",
	"readonly", "ref", "return", "sbyte", "sealed", "short", "sizeof",
	"stackalloc", "static", "string", "struct", "switch", "this", "throw",
	"true", "try", "typeof", "uint", "ulong", "unchecked", "unsafe",
	"ushort", "using", "virtual", "void", "volatile", "while",
)

// predefinedTypes are the type keywords, plus the contextual keywords
// that name types.
var predefinedTypes = setOf(
	"bool", "byte", "sbyte", "char", "decimal", "double", "float", "int",
	"uint", "long", "ulong", "short", "ushort", "object", "string", "void",
	"nint", "nuint", "dynamic",
)

var modifiers = setOf(
	"public", "private", "protected", "internal", "static", "readonly",
	"const", "volatile", "new", "abstract", "sealed", "virtual", "override",
	"extern", "unsafe", "fixed", "ref",
)

// contextualModifiers are only modifiers when another identifier follows.
var contextualModifiers = setOf(
	"partial", "async", "required", "file", "scoped",
)

var closers = map[string]string{
	"(": ")",
	"[": "]",
	"{": "}",
}

func setOf(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

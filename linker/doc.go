// Package linker resolves the names used in parsed C# declarations. The
// result of linking answers the two questions the scanner asks: which
// attribute type an attribute usage refers to, and what the fully
// qualified display string of a field's type is.
//
// Symbols
//
// All types declared in the linked files are entered into a single symbol
// table, keyed by metadata name: the dotted namespace, the type name, and a
// backtick and arity for generic types, as in "A.B.Box`1". Nested types
// are keyed with a '+' after their containing type, as in "A.Outer+Inner".
// Partial declarations of one type are merged into a single symbol.
//
// Types defined outside the linked files are known from the
// wellknowntypes catalog and from Options.References. A reference ending
// in ".*" makes every name in that namespace resolve, which is handy for
// third-party libraries whose full type list is not worth spelling out.
//
// Scopes
//
// Names are resolved the way the C# compiler resolves them in
// declarations: type parameters and nested types of the enclosing types
// first, then each enclosing namespace from the innermost outward, where
// every level checks its own members, then its using aliases, then its
// using-namespace directives. The outermost level also sees global usings
// from every file and any configured implicit usings. A name found through
// two different using-namespace directives is ambiguous and does not
// resolve.
package linker

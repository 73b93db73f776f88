// Package parser contains the logic for parsing C# source code into an AST
// (abstract syntax tree).
//
// Only declarations are parsed: using directives, namespaces, type
// declarations with their attributes and modifiers, and field declarations.
// Every other member (methods, properties, events, constructors, operators
// and so on) is recognized just well enough to be skipped, by matching
// brackets up to the end of the member. Expressions are never parsed.
package parser

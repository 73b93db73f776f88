// Package ast defines types for modeling the declaration-level AST
// (Abstract Syntax Tree) of C# source files.
//
// The tree only covers what a declaration scanner needs: using directives,
// namespaces, type declarations, field declarations and the attributes
// attached to them. Member bodies and other member kinds are not modeled;
// the parser skips over them.
//
// Position information is tracked using a *FileInfo, which records the
// offset of every line as the file is lexed. The parser uses it to compute
// the SourcePos stored in each node, and diagnostics use it to quote the
// offending line.
//
// The root of the tree for a C# source file is a *FileNode.
package ast

// Package reactivegen provides the entry point for a generator of
// change-notifying C# properties. Given C# sources whose classes mark
// backing fields with [ReactiveProperty], it produces companion partial
// classes that expose one public property per marked field. Each setter
// delegates to a notification helper, RaiseAndSetIfChanged by default.
//
// The various sub-packages represent the phases of generation and contain
// models for the intermediate results. Those phases follow:
//  1. Parse into AST.
//     Also see: parser.Parse
//  2. Link the ASTs, declaring types and resolving names.
//     Also see: linker.Link
//  3. Find classes with marked fields and describe them.
//     Also see: scan.Scan
//  4. Render the descriptions as C# source.
//     Also see: render.Class
//
// This package provides an easy-to-use interface that does all of the
// phases, based on the inputs given. Files are parsed in parallel.
//
// # Resolvers
//
// A Resolver is how the generator locates its inputs. It can answer a query
// for a file with either source code, which the generator then parses, or
// with an AST that was already parsed.
//
// WithMarkerSource wraps a resolver so that it also supplies the declaration
// of the marker attribute. ExpandPatterns turns include and exclude globs
// into the list of files to generate from.
//
// # Generator
//
// A Generator accepts a list of file names and produces the list of
// artifacts. A minimal Generator, that loads files from the file system
// based on the current working directory, can be had with the following
// simple snippet:
//
//	gen := reactivegen.Generator{
//	    Resolver: &reactivegen.SourceResolver{},
//	}
//
// The first artifact always declares the marker attribute. Generation is
// deterministic: the same inputs always produce byte-identical artifacts.
package reactivegen

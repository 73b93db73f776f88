package reactivegen

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/reactiveobject/reactivegen/ast"
	"github.com/reactiveobject/reactivegen/render"
)

// Resolver is used by the generator to turn file names into C# source or
// into already-parsed ASTs.
type Resolver interface {
	// FindFileByPath searches for information for the given file name. If no
	// result is available, it should return an error that wraps
	// fs.ErrNotExist.
	FindFileByPath(string) (SearchResult, error)
}

// SearchResult represents information about a C# source file. Only one of
// the fields should be set. If both are, the generator prefers the AST.
type SearchResult struct {
	// Source code for the file. If it implements io.Closer, the generator
	// closes it once the file has been parsed.
	Source io.Reader
	// A parsed syntax tree for the file. Its FileInfo must carry the same
	// name as the one that was asked for.
	AST *ast.FileNode
}

// ResolverFunc is a simple function type that implements Resolver.
type ResolverFunc func(string) (SearchResult, error)

var _ Resolver = ResolverFunc(nil)

// FindFileByPath implements Resolver.
func (f ResolverFunc) FindFileByPath(path string) (SearchResult, error) {
	return f(path)
}

// CompositeResolver is a slice of resolvers, which are consulted in order
// until one can supply a result. If none of the constituent resolvers can
// supply a result, the error returned by the first resolver is returned.
// If the slice is empty, the error wraps fs.ErrNotExist.
type CompositeResolver []Resolver

var _ Resolver = CompositeResolver(nil)

// FindFileByPath implements Resolver.
func (f CompositeResolver) FindFileByPath(path string) (SearchResult, error) {
	if len(f) == 0 {
		return SearchResult{}, fmt.Errorf("%s: %w", path, fs.ErrNotExist)
	}
	var firstErr error
	for _, res := range f {
		r, err := res.FindFileByPath(path)
		if err == nil {
			return r, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return SearchResult{}, firstErr
}

// SourceResolver can resolve file names into source code. It uses an
// optional list of import paths to search. By default, it searches the
// file system.
type SourceResolver struct {
	// Optional list of directories in which to search for files. If
	// empty, file names are used as given.
	ImportPaths []string
	// Optional function for returning a file's contents. If nil, os.Open
	// is used.
	Accessor func(path string) (io.ReadCloser, error)
}

var _ Resolver = (*SourceResolver)(nil)

// FindFileByPath implements Resolver.
func (r *SourceResolver) FindFileByPath(path string) (SearchResult, error) {
	if len(r.ImportPaths) == 0 {
		reader, err := r.accessFile(path)
		if err != nil {
			return SearchResult{}, err
		}
		return SearchResult{Source: reader}, nil
	}

	var e error
	for _, importPath := range r.ImportPaths {
		reader, err := r.accessFile(filepath.Join(importPath, path))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				e = err
				continue
			}
			return SearchResult{}, err
		}
		return SearchResult{Source: reader}, nil
	}
	return SearchResult{}, e
}

func (r *SourceResolver) accessFile(path string) (io.ReadCloser, error) {
	if r.Accessor != nil {
		return r.Accessor(path)
	}
	return os.Open(path)
}

// SourceAccessorFromMap returns a function that can be used as the Accessor
// field of a SourceResolver that uses the given map to load source. The map
// keys are file names and the values are the corresponding file contents.
func SourceAccessorFromMap(srcs map[string]string) func(string) (io.ReadCloser, error) {
	return func(path string) (io.ReadCloser, error) {
		src, ok := srcs[path]
		if !ok {
			return nil, fmt.Errorf("%s: %w", path, fs.ErrNotExist)
		}
		return io.NopCloser(strings.NewReader(src)), nil
	}
}

// WithMarkerSource returns a resolver that supplies the declaration of the
// marker attribute under the name render.MarkerFile, and that delegates to
// r for all other files.
func WithMarkerSource(r Resolver) Resolver {
	return ResolverFunc(func(name string) (SearchResult, error) {
		if name == render.MarkerFile {
			return SearchResult{Source: strings.NewReader(render.MarkerSource())}, nil
		}
		return r.FindFileByPath(name)
	})
}

// ExpandPatterns returns the files in fsys that match at least one of the
// include globs and none of the exclude globs. Globs use doublestar syntax,
// so "**/*.cs" matches C# files at any depth. The result is sorted and free
// of duplicates.
func ExpandPatterns(fsys fs.FS, include, exclude []string) ([]string, error) {
	for _, pattern := range slices.Concat(include, exclude) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid glob %q: %w", pattern, doublestar.ErrBadPattern)
		}
	}

	var files []string
	for _, pattern := range include {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expanding %q: %w", pattern, err)
		}
		for _, name := range matches {
			if !excluded(name, exclude) {
				files = append(files, path.Clean(name))
			}
		}
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

// Matches reports whether the slash-separated path name matches at least
// one of the include globs and none of the exclude globs. Invalid globs
// match nothing.
func Matches(name string, include, exclude []string) bool {
	return slices.ContainsFunc(include, func(pattern string) bool {
		ok, _ := doublestar.Match(pattern, name)
		return ok
	}) && !excluded(name, exclude)
}

func excluded(name string, exclude []string) bool {
	return slices.ContainsFunc(exclude, func(pattern string) bool {
		ok, _ := doublestar.Match(pattern, name)
		return ok
	})
}

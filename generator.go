package reactivegen

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/semaphore"

	"github.com/reactiveobject/reactivegen/ast"
	"github.com/reactiveobject/reactivegen/descriptor"
	"github.com/reactiveobject/reactivegen/linker"
	"github.com/reactiveobject/reactivegen/parser"
	"github.com/reactiveobject/reactivegen/render"
	"github.com/reactiveobject/reactivegen/reporter"
	"github.com/reactiveobject/reactivegen/scan"
)

// Generator turns C# source files into companion partial classes that
// expose a change-notifying property for every field marked with the
// [ReactiveProperty] attribute.
//
// Generation involves four steps:
//  1. Parsing every source file into an AST.
//  2. Linking the ASTs, which declares all types and resolves names.
//  3. Scanning the linked classes for marked fields.
//  4. Rendering one artifact per class that has any.
type Generator struct {
	// Resolves file names into source code or parsed ASTs. If nil, file
	// names are opened as paths on the local file system.
	Resolver Resolver
	// The maximum parallelism to use when parsing. If unspecified or set to
	// a non-positive value, then min(runtime.NumCPU(), runtime.GOMAXPROCS(-1))
	// will be used.
	MaxParallelism int
	// A custom error and warning reporter. If unspecified a default reporter
	// is used. A default reporter fails generation after encountering any
	// errors and ignores all warnings.
	Reporter reporter.Reporter
	// Receives debug output about the batch. Discarded if nil.
	Logger *slog.Logger

	// The method each generated setter calls. Defaults to
	// render.DefaultNotifyMethod.
	NotifyMethod string
	// If true, every class artifact also declares the marker attribute.
	EmbedMarker bool
	// If true, Generate does not add the marker declaration to its inputs,
	// so the marker is only available if one of the inputs declares it.
	NoImplicitMarker bool
	// If true, the implicit global usings of an SDK-style project are not
	// in effect.
	NoImplicitUsings bool
	// Extra namespaces imported into every file, as if by global using
	// directives.
	GlobalUsings []string
	// Metadata names of external types, or "Namespace.*" wildcards, that
	// are known in addition to the built-in catalog.
	References []string
}

// Generate parses and links the given files and then generates artifacts
// for the classes they declare. The generator's resolver locates the source
// of each file.
//
// Unless NoImplicitMarker is set, the marker declaration is added to the
// inputs under the name render.MarkerFile.
func (g *Generator) Generate(ctx context.Context, files ...string) (Artifacts, error) {
	linked, h, err := g.link(ctx, files)
	if err != nil {
		return nil, err
	}
	return g.generate(ctx, linked.Types(), linked, h)
}

// Describe parses and links the given files like Generate does, and
// returns the descriptions of the classes that would be generated, without
// rendering them.
func (g *Generator) Describe(ctx context.Context, files ...string) ([]descriptor.Class, error) {
	linked, h, err := g.link(ctx, files)
	if err != nil {
		return nil, err
	}
	classes, err := scan.Scan(ctx, linked.Types(), linked, scan.WithHandler(h), scan.WithLogger(g.logger()))
	if err != nil {
		return nil, err
	}
	if err := h.Error(); err != nil {
		return nil, err
	}
	return classes, nil
}

func (g *Generator) link(ctx context.Context, files []string) (*linker.Result, *reporter.Handler, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	res := g.Resolver
	if res == nil {
		res = &SourceResolver{}
	}
	if !g.NoImplicitMarker {
		res = WithMarkerSource(res)
		files = append([]string{render.MarkerFile}, files...)
	}
	files = uniqueFiles(files)

	par := g.MaxParallelism
	if par <= 0 {
		par = min(runtime.GOMAXPROCS(-1), runtime.NumCPU())
	}

	h := reporter.NewHandler(g.Reporter)
	e := executor{
		h:   h,
		res: res,
		s:   semaphore.NewWeighted(int64(par)),
	}

	results := make([]*result, len(files))
	for i, f := range files {
		results[i] = e.parse(ctx, f)
	}

	asts := make([]*ast.FileNode, len(files))
	for i, r := range results {
		select {
		case <-r.ready:
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}
		if r.err != nil {
			return nil, nil, r.err
		}
		asts[i] = r.file
	}
	// Syntax errors swallowed by the reporter still fail the batch, but only
	// once every file has been parsed, so that all of them get reported.
	if err := h.Error(); err != nil {
		return nil, nil, err
	}
	g.logger().Debug("parsed sources", slog.Int("files", len(asts)))

	linked, err := linker.Link(asts, linker.Options{
		Marker:           render.MarkerName,
		References:       g.References,
		GlobalUsings:     g.GlobalUsings,
		NoImplicitUsings: g.NoImplicitUsings,
	}, h)
	if err != nil {
		return nil, nil, err
	}
	return linked, h, nil
}

// GenerateTypes generates artifacts for the given, already linked, types.
// The first artifact always declares the marker attribute. It is followed
// by one artifact for each type with at least one marked field, in the
// order of types.
//
// If the marker attribute is unknown to res, only the marker artifact is
// returned. If ctx is done before every type has been handled, no artifacts
// are returned, along with ctx.Err().
func (g *Generator) GenerateTypes(ctx context.Context, types []scan.Type, res scan.Resolver) (Artifacts, error) {
	return g.generate(ctx, types, res, reporter.NewHandler(g.Reporter))
}

func (g *Generator) generate(ctx context.Context, types []scan.Type, res scan.Resolver, h *reporter.Handler) (Artifacts, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := g.logger()

	arts := Artifacts{{Name: render.MarkerFile, Content: render.MarkerSource()}}
	classes, err := scan.Scan(ctx, types, res, scan.WithHandler(h), scan.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	opts := render.Options{NotifyMethod: g.NotifyMethod, EmbedMarker: g.EmbedMarker}
	// Keyed case-insensitively, since two names differing only by case
	// overwrite each other on common file systems.
	owners := map[string]string{strings.ToLower(render.MarkerFile): render.MarkerName}
	for _, c := range classes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := ArtifactName(c)
		key := strings.ToLower(name)
		if other, ok := owners[key]; ok {
			return nil, fmt.Errorf("artifact %s for %s collides with the artifact for %s", name, c.FullName(), other)
		}
		owners[key] = c.FullName()

		arts = append(arts, Artifact{Name: name, Content: render.Class(c, opts)})
		logger.Debug("generated artifact",
			slog.String("class", c.FullName()),
			slog.String("artifact", name),
			slog.Int("properties", len(c.Properties())))
	}

	// Warnings don't fail the batch, but a reporter that swallows errors
	// must not turn an invalid batch into a successful one.
	if err := h.Error(); err != nil {
		return nil, err
	}
	return arts, nil
}

func (g *Generator) logger() *slog.Logger {
	if g.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return g.Logger
}

func uniqueFiles(files []string) []string {
	seen := make(map[string]struct{}, len(files))
	return slices.DeleteFunc(slices.Clone(files), func(f string) bool {
		if _, ok := seen[f]; ok {
			return true
		}
		seen[f] = struct{}{}
		return false
	})
}

type result struct {
	ready chan struct{}
	file  *ast.FileNode
	err   error
}

func (r *result) fail(err error) {
	r.err = err
	close(r.ready)
}

func (r *result) complete(f *ast.FileNode) {
	r.file = f
	close(r.ready)
}

// executor parses files concurrently. Its semaphore limits the number of
// files being resolved and parsed at the same time.
type executor struct {
	h   *reporter.Handler
	res Resolver
	s   *semaphore.Weighted
}

func (e *executor) parse(ctx context.Context, file string) *result {
	r := &result{
		ready: make(chan struct{}),
	}
	go e.doParse(ctx, file, r)
	return r
}

func (e *executor) doParse(ctx context.Context, file string, r *result) {
	if err := e.s.Acquire(ctx, 1); err != nil {
		r.fail(err)
		return
	}
	defer e.s.Release(1)

	sr, err := e.res.FindFileByPath(file)
	if err != nil {
		r.fail(err)
		return
	}

	defer func() {
		// if results included a result, don't leave it open if it can be closed
		if sr.Source == nil {
			return
		}
		if c, ok := sr.Source.(io.Closer); ok {
			_ = c.Close()
		}
	}()

	f, err := e.asAST(file, sr)
	if err != nil {
		r.fail(err)
		return
	}
	r.complete(f)
}

func (e *executor) asAST(name string, r SearchResult) (*ast.FileNode, error) {
	switch {
	case r.AST != nil:
		if r.AST.Name() != name {
			return nil, fmt.Errorf("search result for %q returned AST for %q", name, r.AST.Name())
		}
		return r.AST, nil
	case r.Source != nil:
		// Syntax errors are tracked by the handler and checked once all
		// files are done, so the returned error is not needed here.
		f, _ := parser.Parse(name, r.Source, e.h)
		return f, nil
	default:
		return nil, fmt.Errorf("search result for %q returned nothing", name)
	}
}

package command

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/reactiveobject/reactivegen"
	"github.com/reactiveobject/reactivegen/config"
	"github.com/reactiveobject/reactivegen/internal/flags/log"
	"github.com/reactiveobject/reactivegen/render"
	"github.com/reactiveobject/reactivegen/reporter"
)

// project is a directory of C# sources together with its configuration.
type project struct {
	dir    string
	cfg    config.Config
	logger *slog.Logger
}

// loadProject loads the project in the directory given as the only
// argument, or in the working directory if there is none.
func loadProject(cmd *cobra.Command, args []string) (*project, error) {
	logger, err := log.GetBaseLogger(cmd)
	if err != nil {
		return nil, err
	}

	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	if info, err := os.Stat(dir); err != nil {
		return nil, err
	} else if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	cfgPath, err := cmd.Flags().GetString(ConfigFlag)
	if err != nil {
		return nil, err
	}
	if cfgPath == "" {
		cfgPath, _ = config.Find(dir)
	}
	cfg := config.Default()
	if cfgPath != "" {
		if cfg, err = config.Load(cfgPath); err != nil {
			return nil, err
		}
		logger.Debug("loaded configuration", slog.String("path", cfgPath))
	}
	return &project{dir: dir, cfg: cfg, logger: logger}, nil
}

// outputDir is the directory receiving the generated files.
func (p *project) outputDir() string {
	if filepath.IsAbs(p.cfg.Output) {
		return p.cfg.Output
	}
	return filepath.Join(p.dir, p.cfg.Output)
}

// exclude returns the configured exclude globs plus the output directory,
// so that generated files are never read back. When the output directory
// is the project directory itself, only the generated files are excluded.
func (p *project) exclude() []string {
	exclude := slices.Clone(p.cfg.Exclude)
	rel, err := filepath.Rel(p.dir, p.outputDir())
	switch {
	case err != nil || !filepath.IsLocal(rel) && rel != ".":
	case rel == ".":
		exclude = append(exclude, "*"+generatedSuffix, render.MarkerFile)
	default:
		exclude = append(exclude, path.Join(filepath.ToSlash(rel), "**"))
	}
	return exclude
}

// inputs returns the source files of the project, relative to its
// directory.
func (p *project) inputs() ([]string, error) {
	files, err := reactivegen.ExpandPatterns(os.DirFS(p.dir), p.cfg.Inputs, p.exclude())
	if err != nil {
		return nil, err
	}
	p.logger.Debug("found sources", slog.Int("files", len(files)), slog.String("dir", p.dir))
	return files, nil
}

func (p *project) generator(rep reporter.Reporter) *reactivegen.Generator {
	return &reactivegen.Generator{
		Resolver:         &reactivegen.SourceResolver{ImportPaths: []string{p.dir}},
		MaxParallelism:   p.cfg.MaxParallelism,
		Reporter:         rep,
		Logger:           p.logger,
		NotifyMethod:     p.cfg.NotifyMethod,
		EmbedMarker:      p.cfg.EmbedMarker,
		NoImplicitMarker: !p.cfg.ImplicitMarker,
		NoImplicitUsings: !p.cfg.ImplicitUsings,
		GlobalUsings:     p.cfg.GlobalUsings,
		References:       p.cfg.References,
	}
}

package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/reactiveobject/reactivegen"
	"github.com/reactiveobject/reactivegen/internal/watch"
	"github.com/reactiveobject/reactivegen/render"
)

const (
	outFlag   = "out"
	checkFlag = "check"
	watchFlag = "watch"

	// generatedSuffix ends the name of every class artifact.
	generatedSuffix = "ReactiveProperty.g.cs"
)

// errStale is returned by generate --check when the output directory does
// not match what would be generated.
var errStale = errors.New("generated files are out of date")

func newGenerate() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [dir]",
		Short: "Generate the partial classes of a project",
		Long: `Generate reads the C# files of the project in dir (default: the working
directory) and writes one partial class per class with marked fields, plus
the declaration of the marker attribute, to the output directory.

Files in the output directory that were generated before, but would not be
generated anymore, are removed.`,
		Example: `  reactivegen generate ./src/App --out obj/Generated
  reactivegen generate --check
  reactivegen generate --watch --loglevel info`,
		Args: cobra.MaximumNArgs(1),
		RunE: runGenerate,
	}
	cmd.Flags().String(outFlag, "", "output directory (overrides the configuration)")
	cmd.Flags().Bool(checkFlag, false, "do not write anything; print a diff and fail if the output is out of date")
	cmd.Flags().Bool(watchFlag, false, "regenerate whenever a source file changes")
	cmd.MarkFlagsMutuallyExclusive(checkFlag, watchFlag)
	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	p, err := loadProject(cmd, args)
	if err != nil {
		return err
	}
	if out, _ := cmd.Flags().GetString(outFlag); out != "" {
		p.cfg.Output = out
	}
	check, _ := cmd.Flags().GetBool(checkFlag)
	watching, _ := cmd.Flags().GetBool(watchFlag)

	ctx := cmd.Context()
	if !watching {
		return generateOnce(ctx, cmd, p, check)
	}

	if err := generateOnce(ctx, cmd, p, false); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
	}
	w, err := watch.New(p.dir, watch.Options{
		Match: func(rel string) bool {
			return reactivegen.Matches(rel, p.cfg.Inputs, p.exclude())
		},
		// A directory is skipped when an exclude glob covers all of its
		// contents, which a placeholder file name stands in for.
		SkipDir: func(rel string) bool {
			return !reactivegen.Matches(path.Join(rel, ".placeholder"), []string{"**"}, p.exclude())
		},
		Logger: p.logger,
	})
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	p.logger.Info("watching for changes", slog.String("dir", p.dir))
	err = w.Run(ctx, func(changed []string) error {
		p.logger.Info("sources changed", slog.Any("files", changed))
		if err := generateOnce(ctx, cmd, p, false); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		}
		return nil
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func generateOnce(ctx context.Context, cmd *cobra.Command, p *project, check bool) error {
	files, err := p.inputs()
	if err != nil {
		return err
	}
	diags := newDiagnostics(cmd.ErrOrStderr(), p.dir)
	arts, err := p.generator(diags.reporter()).Generate(ctx, files...)
	if err != nil {
		return diags.failure(err)
	}

	out := p.outputDir()
	orphans, err := orphanedFiles(out, arts)
	if err != nil {
		return err
	}
	if check {
		return checkArtifacts(cmd.OutOrStdout(), out, arts, orphans)
	}

	if err := arts.Write(out); err != nil {
		return err
	}
	for _, name := range orphans {
		if err := os.Remove(filepath.Join(out, name)); err != nil {
			return err
		}
		p.logger.Info("removed stale file", slog.String("file", name))
	}
	p.logger.Info("generated files",
		slog.Int("sources", len(files)),
		slog.Int("artifacts", len(arts)),
		slog.String("dir", out))
	return nil
}

// orphanedFiles returns the generated files in dir that are not among
// arts. A missing directory has none.
func orphanedFiles(dir string, arts reactivegen.Artifacts) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	var orphans []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !(strings.HasSuffix(name, generatedSuffix) || name == render.MarkerFile) {
			continue
		}
		if _, ok := arts.Find(name); !ok {
			orphans = append(orphans, name)
		}
	}
	return orphans, nil
}

// checkArtifacts prints a unified diff for every artifact that differs from
// the file in dir, and for every orphaned file.
func checkArtifacts(w io.Writer, dir string, arts reactivegen.Artifacts, orphans []string) error {
	color := isTerminal(w)
	var stale int
	report := func(name, current, want string) error {
		if current == want {
			return nil
		}
		stale++
		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(current),
			B:        difflib.SplitLines(want),
			FromFile: filepath.ToSlash(filepath.Join(dir, name)),
			ToFile:   filepath.ToSlash(filepath.Join(dir, name)) + " (generated)",
			Context:  3,
		})
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, colorDiff(color, diff))
		return err
	}

	for _, art := range arts {
		current, err := os.ReadFile(filepath.Join(dir, art.Name))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		if err := report(art.Name, string(current), art.Content); err != nil {
			return err
		}
	}
	for _, name := range orphans {
		current, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		if err := report(name, string(current), ""); err != nil {
			return err
		}
	}
	if stale > 0 {
		return fmt.Errorf("%d %w", stale, errStale)
	}
	return nil
}

func colorDiff(enabled bool, diff string) string {
	if !enabled {
		return diff
	}
	lines := strings.SplitAfter(diff, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			lines[i] = colorize(true, colorGreen, strings.TrimSuffix(line, "\n")) + "\n"
		case strings.HasPrefix(line, "-"):
			lines[i] = colorize(true, colorRed, strings.TrimSuffix(line, "\n")) + "\n"
		case strings.HasPrefix(line, "@@"):
			lines[i] = colorize(true, colorCyan, strings.TrimSuffix(line, "\n")) + "\n"
		}
	}
	return strings.Join(lines, "")
}

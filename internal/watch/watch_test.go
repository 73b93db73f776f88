package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "obj"), 0o755))

	w, err := New(root, Options{
		Match:    func(rel string) bool { return strings.HasSuffix(rel, ".cs") },
		SkipDir:  func(rel string) bool { return rel == "obj" },
		Debounce: 50 * time.Millisecond,
	})
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()
	batches := make(chan []string, 10)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(changed []string) error {
			batches <- changed
			return nil
		})
	}()

	write := func(rel string) {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("class C {}"), 0o644))
	}
	write("b.cs")
	write("a.cs")
	write("notes.txt")
	write("obj/skipped.cs")

	// The writes normally land in one batch, but a slow machine may split
	// them.
	seen := map[string]bool{}
	for !seen["a.cs"] || !seen["b.cs"] {
		select {
		case batch := <-batches:
			assert.IsIncreasing(t, batch)
			for _, rel := range batch {
				seen[rel] = true
			}
		case <-ctx.Done():
			t.Fatalf("changes not reported, saw %v", seen)
		}
	}
	assert.Equal(t, map[string]bool{"a.cs": true, "b.cs": true}, seen)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatcherStopsOnError(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	w, err := New(root, Options{Debounce: 10 * time.Millisecond})
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func([]string) error { return assert.AnError })
	}()
	require.NoError(t, os.WriteFile(filepath.Join(root, "x.cs"), nil, 0o644))
	assert.ErrorIs(t, <-done, assert.AnError)
}

func TestWatcherReportsFilesInNewDirectories(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	w, err := New(root, Options{
		Match:    func(rel string) bool { return strings.HasSuffix(rel, ".cs") },
		SkipDir:  func(rel string) bool { return strings.HasSuffix(rel, "/obj") },
		Debounce: 50 * time.Millisecond,
	})
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()
	batches := make(chan []string, 10)
	go func() {
		_ = w.Run(ctx, func(changed []string) error {
			batches <- changed
			return nil
		})
	}()

	// Populate a directory elsewhere and move it in, so that its files
	// never raise events of their own.
	staging := filepath.Join(t.TempDir(), "Models")
	for _, rel := range []string{"Person.cs", "Nested/Address.cs", "obj/Skipped.cs", "readme.md"} {
		path := filepath.Join(staging, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("class C {}"), 0o644))
	}
	require.NoError(t, os.Rename(staging, filepath.Join(root, "Models")))

	seen := map[string]bool{}
	for !seen["Models/Person.cs"] || !seen["Models/Nested/Address.cs"] {
		select {
		case batch := <-batches:
			for _, rel := range batch {
				seen[rel] = true
			}
		case <-ctx.Done():
			t.Fatalf("files of the new directory not reported, saw %v", seen)
		}
	}
	assert.Equal(t, map[string]bool{"Models/Person.cs": true, "Models/Nested/Address.cs": true}, seen)
}

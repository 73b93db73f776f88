package reactivegen

import (
	"errors"
	"io"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reactiveobject/reactivegen/render"
)

func readSource(t *testing.T, r SearchResult) string {
	t.Helper()
	require.NotNil(t, r.Source)
	data, err := io.ReadAll(r.Source)
	require.NoError(t, err)
	return string(data)
}

func TestCompositeResolver(t *testing.T) {
	t.Parallel()
	first := errors.New("first")
	res := CompositeResolver{
		ResolverFunc(func(string) (SearchResult, error) { return SearchResult{}, first }),
		&SourceResolver{Accessor: SourceAccessorFromMap(map[string]string{"a.cs": "class A {}"})},
	}
	r, err := res.FindFileByPath("a.cs")
	require.NoError(t, err)
	assert.Equal(t, "class A {}", readSource(t, r))

	_, err = res.FindFileByPath("b.cs")
	assert.ErrorIs(t, err, first)

	_, err = CompositeResolver(nil).FindFileByPath("a.cs")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestSourceResolverImportPaths(t *testing.T) {
	t.Parallel()
	res := &SourceResolver{
		ImportPaths: []string{"x", "y"},
		Accessor: SourceAccessorFromMap(map[string]string{
			"y/a.cs": "class A {}",
		}),
	}
	r, err := res.FindFileByPath("a.cs")
	require.NoError(t, err)
	assert.Equal(t, "class A {}", readSource(t, r))

	_, err = res.FindFileByPath("b.cs")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestWithMarkerSource(t *testing.T) {
	t.Parallel()
	res := WithMarkerSource(&SourceResolver{Accessor: SourceAccessorFromMap(map[string]string{"a.cs": "class A {}"})})
	r, err := res.FindFileByPath(render.MarkerFile)
	require.NoError(t, err)
	assert.Equal(t, render.MarkerSource(), readSource(t, r))

	r, err = res.FindFileByPath("a.cs")
	require.NoError(t, err)
	assert.Equal(t, "class A {}", readSource(t, r))
}

func TestExpandPatterns(t *testing.T) {
	t.Parallel()
	fsys := fstest.MapFS{
		"Program.cs":                      {},
		"Models/Person.cs":                {},
		"Models/Person.g.cs":              {},
		"Models/Nested/Item.cs":           {},
		"bin/Debug/Generated.cs":          {},
		"obj/Debug/AssemblyInfo.cs":       {},
		"README.md":                       {},
		"ViewModels/MainViewModel.cs":     {},
		"ViewModels/MainViewModel.cs.bak": {},
	}
	files, err := ExpandPatterns(fsys,
		[]string{"**/*.cs", "Models/*.cs"},
		[]string{"**/bin/**", "**/obj/**", "**/*.g.cs"},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Models/Nested/Item.cs",
		"Models/Person.cs",
		"Program.cs",
		"ViewModels/MainViewModel.cs",
	}, files)

	_, err = ExpandPatterns(fsys, []string{"[*.cs"}, nil)
	assert.Error(t, err)
}

func TestMatches(t *testing.T) {
	t.Parallel()
	include := []string{"**/*.cs"}
	exclude := []string{"**/obj/**", "**/*.g.cs"}
	assert.True(t, Matches("Models/Person.cs", include, exclude))
	assert.True(t, Matches("Program.cs", include, exclude))
	assert.False(t, Matches("Models/Person.g.cs", include, exclude))
	assert.False(t, Matches("obj/Debug/Info.cs", include, exclude))
	assert.False(t, Matches("README.md", include, exclude))
	assert.False(t, Matches("Program.cs", []string{"[bad"}, nil))
}

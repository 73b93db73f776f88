package wellknowntypes

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reactiveobject/reactivegen/internal/cases"
)

func TestNames(t *testing.T) {
	t.Parallel()
	all := Names()
	require.NotEmpty(t, all)
	assert.True(t, slices.IsSorted(all))
	for _, name := range all {
		simple, arity, generic := strings.Cut(name, "`")
		if generic {
			assert.NotEmpty(t, arity, name)
		}
		for _, part := range strings.Split(simple, ".") {
			assert.True(t, cases.IsIdentifier(part), "%q in %q", part, name)
		}
	}

	// callers get their own copy
	all[0] = "mutated"
	assert.NotEqual(t, "mutated", Names()[0])
}

func TestContains(t *testing.T) {
	t.Parallel()
	for _, name := range []string{
		"System.DateTime",
		"System.Collections.Generic.List`1",
		"System.Collections.Generic.Dictionary`2",
		"System.Threading.Tasks.Task",
		"System.Threading.Tasks.Task`1",
		"ReactiveUI.ReactiveCommand`2",
	} {
		assert.True(t, Contains(name), name)
	}
	for _, name := range []string{
		"",
		"System",
		"DateTime",
		"System.Collections.Generic.List",
		"# System",
	} {
		assert.False(t, Contains(name), name)
	}
}

func TestImplicitUsings(t *testing.T) {
	t.Parallel()
	usings := ImplicitUsings()
	assert.Contains(t, usings, "System")
	assert.Contains(t, usings, "System.Collections.Generic")
	// every implicitly imported namespace has some types in the catalog
	for _, ns := range usings {
		found := slices.ContainsFunc(Names(), func(name string) bool {
			return strings.HasPrefix(name, ns+".") && !strings.Contains(name[len(ns)+1:], ".")
		})
		assert.True(t, found, ns)
	}
}

// Package wellknowntypes provides a catalog of commonly used .NET types,
// so that field types referring to the base class library can be resolved
// without loading any assemblies.
package wellknowntypes

import (
	_ "embed"
	"slices"
	"strings"
	"sync"
)

//go:embed types.txt
var catalog string

// implicitUsings are the global usings that the .NET SDK adds to projects
// with ImplicitUsings enabled.
var implicitUsings = []string{
	"System",
	"System.Collections.Generic",
	"System.IO",
	"System.Linq",
	"System.Net.Http",
	"System.Threading",
	"System.Threading.Tasks",
}

var names = sync.OnceValue(func() []string {
	var result []string
	for _, line := range strings.Split(catalog, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		result = append(result, line)
	}
	slices.Sort(result)
	return slices.Compact(result)
})

// Names returns the metadata names of all types in the catalog, sorted.
// Generic types carry their arity, as in "System.Collections.Generic.List`1".
// The returned slice is a copy.
func Names() []string {
	return slices.Clone(names())
}

// Contains reports whether the catalog has a type with the given metadata
// name.
func Contains(name string) bool {
	_, found := slices.BinarySearch(names(), name)
	return found
}

// ImplicitUsings returns the namespaces that the .NET SDK imports into
// every file of a project with implicit usings enabled.
func ImplicitUsings() []string {
	return slices.Clone(implicitUsings)
}

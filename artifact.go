package reactivegen

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/reactiveobject/reactivegen/descriptor"
)

// Artifact is one generated source file.
type Artifact struct {
	// Name is the file name of the artifact, without any directory.
	Name string
	// Content is the complete C# source of the artifact.
	Content string
}

// Artifacts is the ordered output of one generation batch. The marker
// artifact always comes first, followed by one artifact per generated
// class in declaration order.
type Artifacts []Artifact

// Names returns the names of all artifacts, in order.
func (a Artifacts) Names() []string {
	names := make([]string, len(a))
	for i, art := range a {
		names[i] = art.Name
	}
	return names
}

// Find returns the artifact with the given name.
func (a Artifacts) Find(name string) (Artifact, bool) {
	for _, art := range a {
		if art.Name == name {
			return art, true
		}
	}
	return Artifact{}, false
}

// Write stores every artifact in dir, creating it if needed. Each file is
// first written to a temporary file in dir and then renamed into place, so
// readers never observe a partially written artifact.
func (a Artifacts) Write(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, art := range a {
		if err := writeFile(filepath.Join(dir, art.Name), art.Content); err != nil {
			return fmt.Errorf("writing %s: %w", art.Name, err)
		}
	}
	return nil
}

func writeFile(path, content string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// ArtifactName returns the name of the artifact generated for c. It is
// "<Name>ReactiveProperty.g.cs", prefixed by the namespace and a dot when
// the class is not in the global namespace. Generic classes append a
// backtick and their arity to the name, as in "Box`1". Nested classes are
// named after their containing types, joined by '+', as in "Outer+Inner".
func ArtifactName(c descriptor.Class) string {
	var sb strings.Builder
	if ns := c.Namespace(); ns != "" {
		sb.WriteString(ns)
		sb.WriteByte('.')
	}
	for _, ct := range c.ContainingTypes() {
		writeTypeName(&sb, ct.Name, len(ct.TypeParameters))
		sb.WriteByte('+')
	}
	writeTypeName(&sb, c.Name(), len(c.TypeParameters()))
	sb.WriteString("ReactiveProperty.g.cs")
	return sb.String()
}

func writeTypeName(sb *strings.Builder, name string, arity int) {
	sb.WriteString(strings.TrimPrefix(name, "@"))
	if arity > 0 {
		sb.WriteByte('`')
		sb.WriteString(strconv.Itoa(arity))
	}
}

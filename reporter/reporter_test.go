package reporter

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reactiveobject/reactivegen/ast"
)

func TestHandlerDefaultFailsFast(t *testing.T) {
	t.Parallel()

	h := NewHandler(nil)
	pos := ast.SourcePos{Filename: "a.cs", Line: 3, Col: 5}
	err := h.HandleErrorf(pos, "unexpected %q", "}")
	require.Error(t, err)
	assert.Equal(t, `a.cs:3:5: unexpected "}"`, err.Error())

	var ewp ErrorWithPos
	require.ErrorAs(t, err, &ewp)
	assert.Equal(t, pos, ewp.GetPosition())

	// once failed, later errors return the first one
	err2 := h.HandleErrorf(pos, "other")
	assert.Equal(t, err, err2)
	assert.Equal(t, err, h.Error())
	assert.Equal(t, err, h.ReporterError())
}

func TestHandlerCollectsErrors(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var errs []ErrorWithPos
	var warnings []ErrorWithPos
	rep := NewReporter(func(err ErrorWithPos) error {
		mu.Lock()
		defer mu.Unlock()
		errs = append(errs, err)
		return nil
	}, func(err ErrorWithPos) {
		warnings = append(warnings, err)
	})
	h := NewHandler(rep)

	assert.NoError(t, h.HandleErrorf(ast.UnknownPos("a.cs"), "first"))
	assert.NoError(t, h.HandleErrorf(ast.UnknownPos("b.cs"), "second"))
	h.HandleWarningf(ast.UnknownPos("c.cs"), "careful")

	assert.Len(t, errs, 2)
	require.Len(t, warnings, 1)
	assert.Equal(t, "c.cs: careful", warnings[0].Error())
	assert.NoError(t, h.ReporterError())
	assert.ErrorIs(t, h.Error(), ErrInvalidSource)
}

func TestHandlerPlainErrorIsFatal(t *testing.T) {
	t.Parallel()

	h := NewHandler(NewReporter(func(ErrorWithPos) error { return nil }, nil))
	boom := errors.New("boom")
	assert.Equal(t, boom, h.HandleError(boom))
	assert.Equal(t, boom, h.Error())
}

func TestSnippet(t *testing.T) {
	t.Parallel()

	src := []byte("class A\n{\n    int _x;\n}\n")
	pos := ast.SourcePos{Filename: "a.cs", Line: 3, Col: 9, Offset: 18}
	assert.Equal(t, " 3 |     int _x;\n   |         ^\n", Snippet(pos, src))

	// wide runes occupy two columns
	src = []byte("// 日本\nx")
	pos = ast.SourcePos{Filename: "b.cs", Line: 1, Col: 6, Offset: len("// 日本")}
	assert.Equal(t, " 1 | // 日本\n   |        ^\n", Snippet(pos, src))

	assert.Empty(t, Snippet(ast.UnknownPos("a.cs"), src))
}

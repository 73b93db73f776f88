package reporter

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/reactiveobject/reactivegen/ast"
)

const tabWidth = 4

// Snippet renders the line of src that pos points into, followed by a line
// with a caret under the position:
//
//	 12 |     [ReactiveProperty] private Foo _foo;
//	    |                                    ^
//
// The caret is placed by display width, so wide runes before it do not
// throw it off. Snippet returns "" if pos carries no line information or
// its offset is outside of src.
func Snippet(pos ast.SourcePos, src []byte) string {
	if pos.Line <= 0 || pos.Offset < 0 || pos.Offset > len(src) {
		return ""
	}
	start := bytes.LastIndexByte(src[:pos.Offset], '\n') + 1
	end := len(src)
	if i := bytes.IndexByte(src[start:], '\n'); i >= 0 {
		end = start + i
	}
	line := strings.TrimRight(expandTabs(string(src[start:end])), "\r")
	prefix := expandTabs(string(src[start:pos.Offset]))

	number := strconv.Itoa(pos.Line)
	var sb strings.Builder
	sb.WriteString(" " + number + " | " + line + "\n")
	sb.WriteString(" " + strings.Repeat(" ", len(number)) + " | ")
	sb.WriteString(strings.Repeat(" ", uniseg.StringWidth(prefix)))
	sb.WriteString("^\n")
	return sb.String()
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

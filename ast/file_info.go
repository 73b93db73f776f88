package ast

import (
	"fmt"
	"sort"
)

// FileInfo contains information about the contents of a source file. The
// lexer records the start of every line as it scans, which allows source
// positions to be stored as plain byte offsets.
type FileInfo struct {
	// The name of the source file.
	name string
	// The raw contents of the source file.
	data []byte
	// The offsets for each line in the file. The value is the zero-based byte
	// offset for a given line. The line is given by its index. So the value at
	// index 0 is the offset for the first line (which is always zero). The
	// value at index 1 is the offset at which the second line begins. Etc.
	lines []int
}

// NewFileInfo creates a new instance for the given file.
func NewFileInfo(filename string, contents []byte) *FileInfo {
	return &FileInfo{
		name:  filename,
		data:  contents,
		lines: []int{0},
	}
}

func (f *FileInfo) Name() string {
	return f.name
}

// Data returns the raw contents of the file.
func (f *FileInfo) Data() []byte {
	return f.data
}

// AddLine adds the offset representing the beginning of the "next" line in the file.
// The first line always starts at offset 0, the second line starts at offset-of-newline-char+1.
func (f *FileInfo) AddLine(offset int) {
	if offset < 0 {
		panic(fmt.Sprintf("invalid offset: %d must not be negative", offset))
	}
	if offset > len(f.data) {
		panic(fmt.Sprintf("invalid offset: %d is greater than file size %d", offset, len(f.data)))
	}

	if len(f.lines) > 0 {
		lastOffset := f.lines[len(f.lines)-1]
		if offset <= lastOffset {
			panic(fmt.Sprintf("invalid offset: %d is not greater than previously observed line offset %d", offset, lastOffset))
		}
	}

	f.lines = append(f.lines, offset)
}

// LineCount returns the number of lines recorded so far.
func (f *FileInfo) LineCount() int {
	return len(f.lines)
}

func (f *FileInfo) isDummyFile() bool {
	return f.lines == nil
}

// SourcePos computes the line and column of the given byte offset.
func (f *FileInfo) SourcePos(offset int) SourcePos {
	if f.isDummyFile() {
		return UnknownPos(f.name)
	}

	lineNumber := sort.Search(len(f.lines), func(n int) bool {
		return f.lines[n] > offset
	})

	// If it weren't for tabs, we could trivially compute the column
	// just based on offset and the starting offset of lineNumber.
	col := 0
	for i := f.lines[lineNumber-1]; i < offset && i < len(f.data); i++ {
		if f.data[i] == '\t' {
			nextTabStop := 8 - (col % 8)
			col += nextTabStop
		} else {
			col++
		}
	}

	return SourcePos{
		Filename: f.name,
		Offset:   offset,
		Line:     lineNumber,
		// Columns are 1-indexed in this AST
		Col: col + 1,
	}
}

// Line returns the text of the given 1-based line, without its line
// terminator. It returns false if the line does not exist.
func (f *FileInfo) Line(line int) (string, bool) {
	if line < 1 || line > len(f.lines) {
		return "", false
	}
	start := f.lines[line-1]
	end := len(f.data)
	if line < len(f.lines) {
		end = f.lines[line]
	}
	text := f.data[start:end]
	for len(text) > 0 && (text[len(text)-1] == '\n' || text[len(text)-1] == '\r') {
		text = text[:len(text)-1]
	}
	return string(text), true
}

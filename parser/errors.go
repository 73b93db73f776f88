package parser

import "errors"

// ErrInvalidUTF8 is reported, wrapped with a source position, when a file
// is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// errBailout unwinds the parser after a syntax error. It never escapes
// Parse.
var errBailout = errors.New("bailout")

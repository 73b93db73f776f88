package reporter

import (
	"errors"
	"fmt"
	"sync"

	"github.com/reactiveobject/reactivegen/ast"
)

// ErrorReporter is responsible for reporting the given error. If the reporter
// returns a non-nil error, parsing/linking will abort with that error. If the
// reporter returns nil, processing will continue, allowing the generator to
// try to report as many syntax and/or link errors as it can find.
type ErrorReporter func(err ErrorWithPos) error

// WarningReporter is responsible for reporting the given warning. This is used
// for conditions that do not fail a run but that the user likely wants to
// know about, such as a field carrying the marker attribute twice.
type WarningReporter func(ErrorWithPos)

// Reporter is the sink for errors and warnings found during a run.
type Reporter interface {
	Error(ErrorWithPos) error
	Warning(ErrorWithPos)
}

// NewReporter creates a Reporter from the given functions. A nil errs
// fails at the first error; a nil warnings drops all warnings.
func NewReporter(errs ErrorReporter, warnings WarningReporter) Reporter {
	return reporterFuncs{errs: errs, warnings: warnings}
}

type reporterFuncs struct {
	errs     ErrorReporter
	warnings WarningReporter
}

func (r reporterFuncs) Error(err ErrorWithPos) error {
	if r.errs == nil {
		return err
	}
	return r.errs(err)
}

func (r reporterFuncs) Warning(err ErrorWithPos) {
	if r.warnings != nil {
		r.warnings(err)
	}
}

// Handler funnels errors and warnings into a Reporter and remembers the
// first error the reporter decided to fail with. It is safe for concurrent
// use, so one Handler can be shared by files parsed in parallel.
type Handler struct {
	reporter Reporter

	mu           sync.Mutex
	errsReported bool
	err          error
}

// NewHandler creates a handler for the given reporter. A nil reporter
// means a default one: fail on the first error, ignore warnings.
func NewHandler(rep Reporter) *Handler {
	if rep == nil {
		rep = NewReporter(nil, nil)
	}
	return &Handler{reporter: rep}
}

func (h *Handler) HandleErrorf(pos ast.SourcePos, format string, args ...interface{}) error {
	return h.HandleError(Errorf(pos, format, args...))
}

// HandleError reports err. Errors with a position go through the reporter,
// which decides whether processing stops; any other error is fatal.
func (h *Handler) HandleError(err error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.err != nil {
		return h.err
	}
	var ewp ErrorWithPos
	if errors.As(err, &ewp) {
		h.errsReported = true
		err = h.reporter.Error(ewp)
	}
	h.err = err
	return err
}

func (h *Handler) HandleWarning(pos ast.SourcePos, err error) {
	// no need for lock; warnings don't interact with mutable fields
	h.reporter.Warning(errorWithSourcePos{pos: pos, underlying: err})
}

func (h *Handler) HandleWarningf(pos ast.SourcePos, format string, args ...interface{}) {
	h.HandleWarning(pos, fmt.Errorf(format, args...))
}

// Error returns the error that processing should fail with, if any. When
// errors were reported but the reporter swallowed all of them, this is
// ErrInvalidSource.
func (h *Handler) Error() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.errsReported && h.err == nil {
		return ErrInvalidSource
	}
	return h.err
}

// ReporterError returns the error the reporter asked to stop with, if
// any. Unlike Error, this is nil when all reported errors were swallowed.
func (h *Handler) ReporterError() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.err
}

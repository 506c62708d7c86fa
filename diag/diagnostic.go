package diag

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/xtdb/peg"
)

type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Diagnostic is a parse failure located within its input
type Diagnostic struct {
	Span
	Severity Severity
	Message  string

	// Expected and Unexpected are the records of the furthest
	// failure, empty for errors that didn't come from a parse
	Expected   []string
	Unexpected []string
}

// Line and Column are where the diagnostic starts
func (d Diagnostic) Line() int   { return d.Start.Line }
func (d Diagnostic) Column() int { return d.Start.Column }

// Format renders the diagnostic as `file:line:col: message`
func (d Diagnostic) Format(file string) string {
	return fmt.Sprintf("%s:%d:%d: %s", file, d.Start.Line, d.Start.Column, d.Message)
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Start, d.Severity, d.Message)
}

// FromError locates `err` within `input`.  Parse failures start where
// the furthest failure was reported and, when some input was
// unexpected there, end after it.  Any other error is reported at the
// start of the input.
func FromError(err error, input string) Diagnostic {
	return NewIndex(input).FromError(err)
}

// FromError is like the package level FromError, but reuses the
// index for inputs that get diagnosed more than once
func (ix *Index) FromError(err error) Diagnostic {
	var perr *peg.ParseErrors
	if !errors.As(err, &perr) {
		return Diagnostic{
			Span:     ix.Span(0, 0),
			Severity: SeverityError,
			Message:  err.Error(),
		}
	}
	start := perr.Index()
	end := start
	for _, u := range perr.Unexpected() {
		end = max(end, start+len(u))
	}
	return Diagnostic{
		Span:       ix.Span(start, end),
		Severity:   SeverityError,
		Message:    perr.Message(),
		Expected:   perr.Expected(),
		Unexpected: perr.Unexpected(),
	}
}

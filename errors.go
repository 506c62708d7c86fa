package peg

import (
	"fmt"
	"strings"
)

// ErrorKind tells what an ErrorRecord is about
type ErrorKind uint8

const (
	// Expected records name what the parser was trying to match
	Expected ErrorKind = iota
	// Unexpected records carry input that a negative lookahead
	// refused
	Unexpected
)

func (k ErrorKind) String() string {
	switch k {
	case Expected:
		return "expected"
	case Unexpected:
		return "unexpected"
	default:
		return "unknown"
	}
}

// ErrorRecord is a single diagnostic: either the description of what
// was expected or the text that wasn't.
type ErrorRecord struct {
	Kind  ErrorKind
	Value string
}

func ExpectedRecord(desc string) ErrorRecord   { return ErrorRecord{Kind: Expected, Value: desc} }
func UnexpectedRecord(text string) ErrorRecord { return ErrorRecord{Kind: Unexpected, Value: text} }

// Key returns the name of the record's single key
func (r ErrorRecord) Key() string { return r.Kind.String() }

func (r ErrorRecord) String() string {
	return fmt.Sprintf("%s %q", r.Kind, r.Value)
}

// ErrorSink receives the failures reported by terminals and negative
// lookaheads while a parse is running.
type ErrorSink interface {
	AddError(rec ErrorRecord, idx int)
	Index() int
	Errors() []ErrorRecord
}

type nopSink struct{}

func (nopSink) AddError(ErrorRecord, int) {}
func (nopSink) Index() int                 { return -1 }
func (nopSink) Errors() []ErrorRecord      { return nil }

// NopSink discards everything.  Negative lookahead runs its child with
// it since failures within a lookahead that succeeded say nothing
// about why the overall parse failed.
var NopSink ErrorSink = nopSink{}

// ParseErrors keeps the furthest failure seen during a parse: the
// deepest input index any record was reported at and the set of
// records reported there.
type ParseErrors struct {
	idx  int
	seen map[ErrorRecord]struct{}
	errs []ErrorRecord
}

func NewParseErrors() *ParseErrors {
	return &ParseErrors{seen: map[ErrorRecord]struct{}{}}
}

// AddError drops records reported before the tracked index, starts
// over on records reported after it, and collects records reported
// right at it.  Duplicates collapse.
func (e *ParseErrors) AddError(rec ErrorRecord, idx int) {
	switch {
	case idx < e.idx:
		return
	case idx > e.idx:
		e.idx = idx
		clear(e.seen)
		e.errs = e.errs[:0]
	}
	if _, ok := e.seen[rec]; ok {
		return
	}
	e.seen[rec] = struct{}{}
	e.errs = append(e.errs, rec)
}

// Index returns the furthest input index a failure was reported at
func (e *ParseErrors) Index() int { return e.idx }

// Errors returns the records reported at Index, in the order they
// were first reported
func (e *ParseErrors) Errors() []ErrorRecord {
	out := make([]ErrorRecord, len(e.errs))
	copy(out, e.errs)
	return out
}

// Has tells if rec is part of the furthest failure set
func (e *ParseErrors) Has(rec ErrorRecord) bool {
	_, ok := e.seen[rec]
	return ok
}

func (e *ParseErrors) Expected() []string   { return e.values(Expected) }
func (e *ParseErrors) Unexpected() []string { return e.values(Unexpected) }

func (e *ParseErrors) values(kind ErrorKind) []string {
	var out []string
	for _, r := range e.errs {
		if r.Kind == kind {
			out = append(out, r.Value)
		}
	}
	return out
}

// Message describes the failure without its position
func (e *ParseErrors) Message() string {
	var parts []string
	if exp := e.Expected(); len(exp) > 0 {
		if len(exp) == 1 {
			parts = append(parts, "expected "+exp[0])
		} else {
			parts = append(parts, "expected one of "+strings.Join(exp, ", "))
		}
	}
	for _, u := range e.Unexpected() {
		parts = append(parts, fmt.Sprintf("unexpected %q", u))
	}
	if len(parts) == 0 {
		return "parse failed"
	}
	return strings.Join(parts, "; ")
}

func (e *ParseErrors) Error() string {
	return fmt.Sprintf("%s @ %d", e.Message(), e.idx)
}

// InvariantError is a programming error within the grammar, like a
// reference to a rule that was never defined.  It's never caused by
// the input being parsed.
type InvariantError struct {
	Rule    string
	Message string
}

func (e *InvariantError) Error() string {
	if e.Rule == "" {
		return "grammar invariant: " + e.Message
	}
	return fmt.Sprintf("grammar invariant: %s: %s", e.Rule, e.Message)
}

func invariantf(rule, format string, args ...any) *InvariantError {
	return &InvariantError{Rule: rule, Message: fmt.Sprintf(format, args...)}
}

package peg

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	wsError  = ExpectedRecord("<WS>")
	eofError = ExpectedRecord("<EOF>")
)

// Whitespace is the pattern skipped after every terminal.  It must be
// able to match the empty string.
type Whitespace struct {
	pattern string
	re      *regexp.Regexp
}

// NewWhitespace compiles `pattern` anchored at the position it's
// matched against.
func NewWhitespace(pattern string) (*Whitespace, error) {
	re, err := compileAnchored(pattern)
	if err != nil {
		return nil, err
	}
	if !re.MatchString("") {
		return nil, invariantf("", "whitespace pattern %q doesn't match the empty string", pattern)
	}
	return &Whitespace{pattern: pattern, re: re}, nil
}

func MustWhitespace(pattern string) *Whitespace {
	ws, err := NewWhitespace(pattern)
	if err != nil {
		panic(err)
	}
	return ws
}

// DefaultWhitespace skips any unicode white space
var DefaultWhitespace = MustWhitespace(`\s*`)

func (w *Whitespace) String() string { return w.pattern }

// skip returns the index after the whitespace starting at `idx`.  A
// nil Whitespace skips nothing.  Since the pattern can match empty,
// the failure branch is only reachable by a broken pattern.
func (w *Whitespace) skip(in string, idx int, errs ErrorSink) (int, bool) {
	if w == nil {
		return idx, true
	}
	if loc := w.re.FindStringIndex(in[idx:]); loc != nil {
		return idx + loc[1], true
	}
	if idx == 0 {
		return 0, true
	}
	errs.AddError(wsError, idx)
	return 0, false
}

func compileAnchored(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(`^(?:` + pattern + `)`)
}

// Literal

type literal struct {
	text string
	fold bool
	ast  Fragment
	err  ErrorRecord
	ws   *Whitespace
}

// Lit matches `text` case-insensitively.  The AST holds `text` as it
// was written in the grammar, not as found in the input.
func Lit(text string, ws *Whitespace) Parser {
	return &literal{text: text, fold: true, ast: Of(text), err: ExpectedRecord(text), ws: ws}
}

// LitCase is the case-sensitive variant of Lit
func LitCase(text string, ws *Whitespace) Parser {
	return &literal{text: text, ast: Of(text), err: ExpectedRecord(text), ws: ws}
}

func (l *literal) Parse(in string, idx int, _ *Memo, errs ErrorSink, hide bool) (Result, bool) {
	end := idx + len(l.text)
	if end <= len(in) && l.matches(in[idx:end]) {
		next, ok := l.ws.skip(in, end, errs)
		if !ok {
			return Result{}, false
		}
		if hide {
			return Result{Value: Empty, Next: next}, true
		}
		return Result{Value: l.ast, Next: next}, true
	}
	errs.AddError(l.err, idx)
	return Result{}, false
}

func (l *literal) matches(s string) bool {
	if l.fold {
		return strings.EqualFold(s, l.text)
	}
	return s == l.text
}

func (l *literal) Bind([]Parser) (Parser, error) { return l, nil }

// Regular expressions

// Match is handed to a Transform after a successful regexp match
type Match struct {
	// Start and End are the offsets of the match within the input
	Start, End int
	// Groups holds the whole match followed by the submatches.
	// Groups that didn't participate are empty.
	Groups []string
}

func (m Match) Text() string { return m.Groups[0] }

// Transform shapes the AST produced by a regexp match
type Transform func(m Match) Fragment

// MatchText keeps the matched text as is
func MatchText(m Match) Fragment { return Of(m.Text()) }

// MatchInt turns the match into an int64.  Matches that don't fit
// are kept as text.
func MatchInt(m Match) Fragment {
	v, err := strconv.ParseInt(m.Text(), 10, 64)
	if err != nil {
		return Of(m.Text())
	}
	return Of(v)
}

// MatchGroup keeps the text of the n-th submatch
func MatchGroup(n int) Transform {
	return func(m Match) Fragment { return Of(m.Groups[n]) }
}

type pattern struct {
	re  *regexp.Regexp
	fn  Transform
	err ErrorRecord
	ws  *Whitespace
}

// NewRegexp matches `expr` anchored at the current index.  `desc` is
// what gets reported when it doesn't match; the expression itself is
// used when it's empty.  A nil `fn` means MatchText.
func NewRegexp(expr, desc string, fn Transform, ws *Whitespace) (Parser, error) {
	re, err := compileAnchored(expr)
	if err != nil {
		return nil, err
	}
	if desc == "" {
		desc = expr
	}
	if fn == nil {
		fn = MatchText
	}
	return &pattern{re: re, fn: fn, err: ExpectedRecord(desc), ws: ws}, nil
}

func MustRegexp(expr, desc string, fn Transform, ws *Whitespace) Parser {
	p, err := NewRegexp(expr, desc, fn, ws)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *pattern) Parse(in string, idx int, _ *Memo, errs ErrorSink, hide bool) (Result, bool) {
	loc := p.re.FindStringSubmatchIndex(in[idx:])
	if loc == nil {
		errs.AddError(p.err, idx)
		return Result{}, false
	}
	end := idx + loc[1]
	next, ok := p.ws.skip(in, end, errs)
	if !ok {
		return Result{}, false
	}
	if hide {
		return Result{Value: Empty, Next: next}, true
	}
	groups := make([]string, len(loc)/2)
	for i := range groups {
		if s := loc[2*i]; s >= 0 {
			groups[i] = in[idx+s : idx+loc[2*i+1]]
		}
	}
	return Result{Value: p.fn(Match{Start: idx, End: end, Groups: groups}), Next: next}, true
}

func (p *pattern) Bind([]Parser) (Parser, error) { return p, nil }

// End of input

type eof struct{}

// EOF matches only at the end of the input
func EOF() Parser { return eof{} }

func (eof) Parse(in string, idx int, _ *Memo, errs ErrorSink, _ bool) (Result, bool) {
	if idx == len(in) {
		return Result{Value: Empty, Next: idx}, true
	}
	errs.AddError(eofError, idx)
	return Result{}, false
}

func (e eof) Bind([]Parser) (Parser, error) { return e, nil }

package peg

// Sequence

type cat struct{ parsers []Parser }

// Cat matches each parser in turn, starting where the previous one
// stopped.  It fails as a whole if any of them fails, and its AST is
// the concatenation of the ASTs of its parsers.
func Cat(parsers ...Parser) Parser { return &cat{parsers: parsers} }

func (p *cat) Parse(in string, idx int, memo *Memo, errs ErrorSink, hide bool) (Result, bool) {
	var parts []Fragment
	if !hide {
		parts = make([]Fragment, len(p.parsers))
	}
	for i, parser := range p.parsers {
		res, ok := parser.Parse(in, idx, memo, errs, hide)
		if !ok {
			return Result{}, false
		}
		idx = res.Next
		if !hide {
			parts[i] = res.Value
		}
	}
	if hide {
		return Result{Value: Empty, Next: idx}, true
	}
	return Result{Value: newConcat(nil, parts), Next: idx}, true
}

func (p *cat) Bind(rules []Parser) (Parser, error) {
	return p, bindAll(p.parsers, rules)
}

// Ordered choice

type ord struct{ parsers []Parser }

// Ord returns the result of the first parser that matches.  Parsers
// after it are not attempted, even if they'd consume more input.
func Ord(parsers ...Parser) Parser { return &ord{parsers: parsers} }

func (p *ord) Parse(in string, idx int, memo *Memo, errs ErrorSink, hide bool) (Result, bool) {
	for _, parser := range p.parsers {
		if res, ok := parser.Parse(in, idx, memo, errs, hide); ok {
			return res, true
		}
	}
	return Result{}, false
}

func (p *ord) Bind(rules []Parser) (Parser, error) {
	return p, bindAll(p.parsers, rules)
}

// Longest match choice

type alt struct{ parsers []Parser }

// Alt attempts every parser at the same index and returns the result
// that got the furthest.  The first one wins ties.
func Alt(parsers ...Parser) Parser { return &alt{parsers: parsers} }

func (p *alt) Parse(in string, idx int, memo *Memo, errs ErrorSink, hide bool) (Result, bool) {
	var (
		best  Result
		found bool
	)
	for _, parser := range p.parsers {
		res, ok := parser.Parse(in, idx, memo, errs, hide)
		if ok && (!found || res.Next > best.Next) {
			best, found = res, true
		}
	}
	return best, found
}

func (p *alt) Bind(rules []Parser) (Parser, error) {
	return p, bindAll(p.parsers, rules)
}

// Optional

type opt struct{ parser Parser }

// Opt never fails: when its parser doesn't match, it matches nothing
func Opt(parser Parser) Parser { return &opt{parser: parser} }

func (p *opt) Parse(in string, idx int, memo *Memo, errs ErrorSink, hide bool) (Result, bool) {
	if res, ok := p.parser.Parse(in, idx, memo, errs, hide); ok {
		return res, true
	}
	return Result{Value: Empty, Next: idx}, true
}

func (p *opt) Bind(rules []Parser) (Parser, error) {
	bound, err := p.parser.Bind(rules)
	p.parser = bound
	return p, err
}

// Repetition

type repeat struct {
	parser Parser
	star   bool
}

// Star matches its parser as many times as possible, including none
func Star(parser Parser) Parser { return &repeat{parser: parser, star: true} }

// Plus is like Star but needs at least one match
func Plus(parser Parser) Parser { return &repeat{parser: parser} }

func (p *repeat) Parse(in string, idx int, memo *Memo, errs ErrorSink, hide bool) (Result, bool) {
	var (
		parts   []Fragment
		matched bool
	)
	for {
		res, ok := p.parser.Parse(in, idx, memo, errs, hide)
		if !ok {
			break
		}
		matched = true
		if !hide {
			parts = append(parts, res.Value)
		}
		if res.Next == idx {
			// a match that consumes nothing would match forever
			break
		}
		idx = res.Next
	}
	if !matched && !p.star {
		return Result{}, false
	}
	if len(parts) == 0 {
		return Result{Value: Empty, Next: idx}, true
	}
	return Result{Value: newConcat(nil, parts), Next: idx}, true
}

func (p *repeat) Bind(rules []Parser) (Parser, error) {
	bound, err := p.parser.Bind(rules)
	p.parser = bound
	return p, err
}

// Negative lookahead

type neg struct{ parser Parser }

// Neg matches, without consuming anything, only where its parser
// doesn't.  When the parser does match, the text it would have
// consumed is reported as unexpected.
func Neg(parser Parser) Parser { return &neg{parser: parser} }

func (p *neg) Parse(in string, idx int, memo *Memo, errs ErrorSink, _ bool) (Result, bool) {
	if res, ok := p.parser.Parse(in, idx, memo, NopSink, true); ok {
		errs.AddError(UnexpectedRecord(in[idx:res.Next]), idx)
		return Result{}, false
	}
	return Result{Value: Empty, Next: idx}, true
}

func (p *neg) Bind(rules []Parser) (Parser, error) {
	bound, err := p.parser.Bind(rules)
	p.parser = bound
	return p, err
}

// Suppression

type hidden struct{ parser Parser }

// Hide matches its parser but never keeps its AST
func Hide(parser Parser) Parser { return &hidden{parser: parser} }

func (p *hidden) Parse(in string, idx int, memo *Memo, errs ErrorSink, _ bool) (Result, bool) {
	return p.parser.Parse(in, idx, memo, errs, true)
}

func (p *hidden) Bind(rules []Parser) (Parser, error) {
	bound, err := p.parser.Bind(rules)
	p.parser = bound
	return p, err
}

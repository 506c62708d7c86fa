package peg

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("peg")

// ErrInputTooLarge is returned by parses rejected because of the
// configured input size limit
var ErrInputTooLarge = errors.New("input too large")

// Grammar is a bound combinator graph: a table of rules indexed by
// rule id where every reference points to the rule itself.  Once
// built it's never modified, so any number of goroutines can parse
// with it at the same time.
type Grammar struct {
	rules    []Parser
	names    map[string]int
	entry    int
	maxInput int
}

type Option func(*Grammar)

// WithMaxInput rejects inputs longer than n bytes.  Memo tables are
// sized after the input, so this bounds the memory of a parse.
func WithMaxInput(n int) Option {
	return func(g *Grammar) { g.maxInput = n }
}

// NewGrammar binds `rules` and returns the grammar starting at the
// rule `entry`.  Nil entries are allowed for ids that aren't used.
// The slice is copied, but the parsers are bound in place and must
// not be shared with other grammars.
func NewGrammar(rules []Parser, entry int, opts ...Option) (*Grammar, error) {
	if len(rules) > MaxRuleID {
		return nil, invariantf("", "%d rules exceed the limit of %d", len(rules), MaxRuleID)
	}
	if entry < 0 || entry >= len(rules) || rules[entry] == nil {
		return nil, invariantf("", "entry rule %d is not defined", entry)
	}
	g := &Grammar{
		rules: append([]Parser(nil), rules...),
		names: map[string]int{},
		entry: entry,
	}
	for _, opt := range opts {
		opt(g)
	}
	if err := g.bind(); err != nil {
		return nil, err
	}
	log.Debugf("bound grammar with %d rules, entry %s", len(g.rules), g.name(entry))
	return g, nil
}

func (g *Grammar) bind() error {
	for id, p := range g.rules {
		if p == nil {
			continue
		}
		if _, ok := p.(*ref); ok {
			return invariantf(g.name(id), "rule table entry %d is a reference", id)
		}
		if r := ruleOf(p); r != nil {
			g.names[string(r.Name())] = id
		}
	}
	for id, p := range g.rules {
		if p == nil {
			continue
		}
		bound, err := p.Bind(g.rules)
		if err != nil {
			return err
		}
		g.rules[id] = bound
	}
	return nil
}

// Size is the number of rule ids, and thus of memo tables, a parse
// with this grammar may use
func (g *Grammar) Size() int { return len(g.rules) }

// Entry returns the id of the entry rule
func (g *Grammar) Entry() int { return g.entry }

// Rule returns the rule parser bound to `id`
func (g *Grammar) Rule(id int) (Parser, bool) {
	if id < 0 || id >= len(g.rules) || g.rules[id] == nil {
		return nil, false
	}
	return g.rules[id], true
}

// RuleID looks a rule id up by the rule's name
func (g *Grammar) RuleID(name string) (int, bool) {
	id, ok := g.names[name]
	return id, ok
}

// Parse parses the whole `input` with the entry rule
func (g *Grammar) Parse(input string) (Fragment, error) {
	return g.ParseRule(g.entry, input)
}

// ParseRule parses the whole `input` with the rule `id`.  On failure
// the error is a *ParseErrors unless the input was rejected upfront.
func (g *Grammar) ParseRule(id int, input string) (Fragment, error) {
	p, ok := g.Rule(id)
	if !ok {
		return nil, invariantf("", "rule %d is not defined", id)
	}
	if g.maxInput > 0 && len(input) > g.maxInput {
		return nil, errors.Wrapf(ErrInputTooLarge, "%d bytes, limit is %d", len(input), g.maxInput)
	}
	return Parse(p, len(g.rules), input)
}

// ParseByName is ParseRule with the rule looked up by name
func (g *Grammar) ParseByName(name, input string) (Fragment, error) {
	id, ok := g.RuleID(name)
	if !ok {
		return nil, invariantf(name, "no such rule")
	}
	return g.ParseRule(id, input)
}

func (g *Grammar) name(id int) string {
	if id >= 0 && id < len(g.rules) {
		if r := ruleOf(g.rules[id]); r != nil {
			return string(r.Name())
		}
	}
	return "#" + strconv.Itoa(id)
}

// Parse runs the bound parser `entry` over `input` from the start and
// requires it to reach the end of the input.  `rules` is the number of
// rule ids the graph uses.  Memo tables and the error aggregate are
// allocated here and dropped when it returns.
func Parse(entry Parser, rules int, input string) (Fragment, error) {
	var (
		memo = NewMemo(rules, len(input))
		errs = NewParseErrors()
	)
	res, ok := entry.Parse(input, 0, memo, errs, false)
	if ok {
		if _, ok = EOF().Parse(input, res.Next, memo, errs, true); ok {
			return res.Value, nil
		}
	}
	log.Debugf("parse failed: %s", errs)
	return nil, errs
}

func ruleOf(p Parser) *Rule {
	switch v := p.(type) {
	case *Rule:
		return v
	case *memoized:
		return v.rule
	case *leftRec:
		return v.rule
	case *traced:
		return ruleOf(v.parser)
	default:
		return nil
	}
}

package peg

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Builder assembles a rule table the way a grammar compiler would.
// Rules get their ids the first time their name is mentioned, so a
// rule can reference itself or rules defined after it with Ref.
type Builder struct {
	cfg   *Config
	ws    *Whitespace
	ids   map[string]int
	names []string
	rules []Parser
	errs  []error
}

// NewBuilder creates a builder using the `grammar.*` and `parser.*`
// settings of `cfg`.  A nil cfg means NewConfig().
func NewBuilder(cfg *Config) (*Builder, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	ws, err := NewWhitespace(cfg.GetString("grammar.whitespace"))
	if err != nil {
		return nil, errors.Wrap(err, "grammar.whitespace")
	}
	return &Builder{cfg: cfg, ws: ws, ids: map[string]int{}}, nil
}

// Whitespace returns the pattern skipped after terminals
func (b *Builder) Whitespace() *Whitespace { return b.ws }

func (b *Builder) id(name string) int {
	if id, ok := b.ids[name]; ok {
		return id
	}
	id := len(b.names)
	b.ids[name] = id
	b.names = append(b.names, name)
	b.rules = append(b.rules, nil)
	return id
}

// ID returns the id assigned to the rule `name`
func (b *Builder) ID(name string) (int, bool) {
	id, ok := b.ids[name]
	return id, ok
}

// Ref refers to the rule `name`, defined or not
func (b *Builder) Ref(name string) Parser {
	return NamedRef(b.id(name), name)
}

// Define adds the rule `name`, memoized if `grammar.memoize` is set
func (b *Builder) Define(name string, wrap WrapPolicy, body Parser) {
	rule := NewRule(RuleName(name), wrap, body)
	if b.cfg.GetBool("grammar.memoize") {
		b.define(name, func(id int) Parser { return Memoize(rule, id) })
		return
	}
	b.define(name, func(int) Parser { return rule })
}

// DefineLeftRec adds the left recursive rule `name`
func (b *Builder) DefineLeftRec(name string, wrap WrapPolicy, body Parser) {
	rule := NewRule(RuleName(name), wrap, body)
	b.define(name, func(id int) Parser { return MemoizeLeftRec(rule, id) })
}

func (b *Builder) define(name string, mk func(id int) Parser) {
	id := b.id(name)
	if b.rules[id] != nil {
		b.errs = append(b.errs, invariantf(name, "rule defined twice"))
		return
	}
	p := mk(id)
	if b.cfg.GetBool("parser.trace") {
		p = trace(RuleName(name), p)
	}
	b.rules[id] = p
}

// Lit matches the literal `text`, case-insensitively unless
// `grammar.case_insensitive` is off
func (b *Builder) Lit(text string) Parser {
	if b.cfg.GetBool("grammar.case_insensitive") {
		return Lit(text, b.ws)
	}
	return LitCase(text, b.ws)
}

// Regexp matches `expr`.  Compilation errors are reported by Build.
func (b *Builder) Regexp(expr, desc string, fn Transform) Parser {
	p, err := NewRegexp(expr, desc, fn, b.ws)
	if err != nil {
		b.errs = append(b.errs, errors.Wrapf(err, "regexp %q", expr))
		return EOF()
	}
	return p
}

// EOF matches the end of the input
func (b *Builder) EOF() Parser { return EOF() }

// Build binds the rules defined so far and returns the grammar
// starting at the rule `entry`
func (b *Builder) Build(entry string) (*Grammar, error) {
	if len(b.errs) > 0 {
		return nil, b.errs[0]
	}
	var undefined []string
	for id, p := range b.rules {
		if p == nil {
			undefined = append(undefined, b.names[id])
		}
	}
	if len(undefined) > 0 {
		sort.Strings(undefined)
		return nil, invariantf("", "rules referenced but never defined: %s", strings.Join(undefined, ", "))
	}
	id, ok := b.ids[entry]
	if !ok {
		return nil, invariantf(entry, "entry rule is not defined")
	}
	var opts []Option
	if n := b.cfg.GetInt("parser.max_input"); n > 0 {
		opts = append(opts, WithMaxInput(n))
	}
	return NewGrammar(b.rules, id, opts...)
}

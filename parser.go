package peg

import "fmt"

// MaxRuleID is the exclusive upper bound of rule identifiers
const MaxRuleID = 512

// Result is what a parser produces when it matches: the AST fragment
// and the index right after the consumed input.
type Result struct {
	Value Fragment
	Next  int
}

// Parser is implemented by every combinator.
//
// Parse attempts a match of `in` at `idx`.  It returns false when the
// input doesn't match, after reporting why to `errs`.  When `hide` is
// true no AST is built and the returned fragment is Empty.
//
// Bind replaces reference placeholders reachable from the parser with
// the rules they point to and returns the parser that should take its
// place.  It's called once per graph, before any parse, and calling it
// again is harmless.
type Parser interface {
	Parse(in string, idx int, memo *Memo, errs ErrorSink, hide bool) (Result, bool)
	Bind(rules []Parser) (Parser, error)
}

// Memo holds the memoization tables of a single parse, one per rule
// id.  Tables are allocated when a rule is first visited, sized to
// the input length plus one.
type Memo struct {
	tables [][]memoSlot
	size   int
}

type slotState uint8

const (
	slotEmpty slotState = iota
	slotFound
	slotNotFound
)

type memoSlot struct {
	state slotState
	res   Result
	// hidden marks results computed with hide set, which carry
	// no AST
	hidden bool
}

// NewMemo allocates the per-parse memo for a grammar with `rules` rule
// ids and an input of `inputLen` bytes
func NewMemo(rules, inputLen int) *Memo {
	return &Memo{tables: make([][]memoSlot, rules), size: inputLen + 1}
}

func (m *Memo) table(ruleID int) []memoSlot {
	if ruleID < 0 || ruleID >= len(m.tables) {
		panic(invariantf("", "rule id %d outside of memo with %d tables", ruleID, len(m.tables)))
	}
	t := m.tables[ruleID]
	if t == nil {
		t = make([]memoSlot, m.size)
		m.tables[ruleID] = t
	}
	return t
}

// Tables returns how many rule tables were allocated so far
func (m *Memo) Tables() int {
	n := 0
	for _, t := range m.tables {
		if t != nil {
			n++
		}
	}
	return n
}

// ref stands for a rule that may not exist yet when the parser
// referencing it is built.  Binding swaps it for the rule itself.
type ref struct {
	id   int
	name string
}

// Ref returns a placeholder for the rule with the given id
func Ref(id int) Parser { return &ref{id: id} }

// NamedRef is like Ref, but carries the rule name for error messages
func NamedRef(id int, name string) Parser { return &ref{id: id, name: name} }

func (r *ref) Parse(string, int, *Memo, ErrorSink, bool) (Result, bool) {
	panic(invariantf(r.label(), "reference to rule %d used before binding", r.id))
}

func (r *ref) Bind(rules []Parser) (Parser, error) {
	if r.id < 0 || r.id >= len(rules) {
		return nil, invariantf(r.label(), "rule id %d out of range [0, %d)", r.id, len(rules))
	}
	target := rules[r.id]
	if target == nil {
		return nil, invariantf(r.label(), "rule %d referenced but never defined", r.id)
	}
	return target, nil
}

func (r *ref) label() string {
	if r.name != "" {
		return r.name
	}
	return fmt.Sprintf("#%d", r.id)
}

func bindAll(parsers []Parser, rules []Parser) error {
	for i, p := range parsers {
		bound, err := p.Bind(rules)
		if err != nil {
			return err
		}
		parsers[i] = bound
	}
	return nil
}

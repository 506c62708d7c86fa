package peg

// WrapPolicy decides, given the AST produced by a rule's body, if the
// rule should wrap it within a node tagged with the rule name.
type WrapPolicy func(Fragment) bool

var (
	// AlwaysWrap wraps every match of the rule
	AlwaysWrap WrapPolicy = func(Fragment) bool { return true }

	// NeverWrap passes the body's AST through and discards the
	// rule name
	NeverWrap WrapPolicy = func(Fragment) bool { return false }

	// WrapUnlessSingle elides nodes that would have a single
	// child
	WrapUnlessSingle WrapPolicy = func(f Fragment) bool { return f.Len() != 1 }
)

// Rule names the AST produced by its body.  Wrapped matches become a
// node `[name, children...]` with the Position of the match attached,
// returned as the only element of the rule's fragment.
type Rule struct {
	name  RuleName
	wrap  WrapPolicy
	body  Parser
	bound bool
}

func NewRule(name RuleName, wrap WrapPolicy, body Parser) *Rule {
	if wrap == nil {
		wrap = AlwaysWrap
	}
	return &Rule{name: name, wrap: wrap, body: body}
}

func (r *Rule) Name() RuleName { return r.name }

func (r *Rule) Parse(in string, idx int, memo *Memo, errs ErrorSink, hide bool) (Result, bool) {
	res, ok := r.body.Parse(in, idx, memo, errs, hide)
	if !ok {
		return Result{}, false
	}
	if hide {
		return Result{Value: Empty, Next: res.Next}, true
	}
	if !r.wrap(res.Value) {
		return res, true
	}
	pos := NewPosition(idx, res.Next)
	node := newConcat(&pos, []Fragment{vector{r.name}, res.Value})
	return Result{Value: vector{node}, Next: res.Next}, true
}

// Bind links the body of the rule.  Rules are the only parsers that
// can be reached through more than one path of a cyclic graph, so
// they remember having been bound.
func (r *Rule) Bind(rules []Parser) (Parser, error) {
	if r.bound {
		return r, nil
	}
	r.bound = true
	body, err := r.body.Bind(rules)
	if err != nil {
		return nil, err
	}
	r.body = body
	return r, nil
}

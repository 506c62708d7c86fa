package peg

// memoized caches the outcome of a rule per input position
type memoized struct {
	rule *Rule
	id   int
}

// Memoize caches the outcome of `rule` per input position, under
// `id`, for the duration of a parse.  Revisiting a position returns
// the cached outcome without running the rule again.
//
// Outcomes computed with hide set carry no AST, so they're only
// reused by hidden visits; a visit that wants the AST runs the rule
// again and replaces the cached outcome.
func Memoize(rule *Rule, id int) Parser {
	return &memoized{rule: rule, id: id}
}

func (m *memoized) Parse(in string, idx int, memo *Memo, errs ErrorSink, hide bool) (Result, bool) {
	slot := &memo.table(m.id)[idx]
	switch slot.state {
	case slotNotFound:
		return Result{}, false
	case slotFound:
		if hide {
			return Result{Value: Empty, Next: slot.res.Next}, true
		}
		if !slot.hidden {
			return slot.res, true
		}
	}
	res, ok := m.rule.Parse(in, idx, memo, errs, hide)
	if ok {
		*slot = memoSlot{state: slotFound, res: res, hidden: hide}
	} else {
		*slot = memoSlot{state: slotNotFound}
	}
	return res, ok
}

func (m *memoized) Bind(rules []Parser) (Parser, error) {
	if _, err := m.rule.Bind(rules); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *memoized) Rule() *Rule { return m.rule }
func (m *memoized) ID() int     { return m.id }

// leftRec grows the seed of a left recursive rule
type leftRec struct {
	rule *Rule
	id   int
}

// MemoizeLeftRec supports rules that reach themselves again at the
// same position before consuming any input, like `E <- E '+' T / T`.
//
// The first visit of a position seeds the slot with a failure and
// runs the rule's body.  The recursive visit finds the seed instead of
// recursing, so the body can match its non recursive alternatives.
// Each successful attempt that gets further than the seed becomes the
// new seed and the body runs again.  The loop ends as soon as an
// attempt fails or doesn't get further, and the last seed is the
// result.
//
// The slot is cleared once the loop is done, so only the visits made
// while growing the seed see it.  Rules involved in the recursion
// other than this one must not be memoized with Memoize, or they'd
// cache outcomes computed against an old seed.
func MemoizeLeftRec(rule *Rule, id int) Parser {
	return &leftRec{rule: rule, id: id}
}

func (m *leftRec) Parse(in string, idx int, memo *Memo, errs ErrorSink, hide bool) (Result, bool) {
	table := memo.table(m.id)
	switch slot := table[idx]; slot.state {
	case slotNotFound:
		return Result{}, false
	case slotFound:
		if hide {
			return Result{Value: Empty, Next: slot.res.Next}, true
		}
		return slot.res, true
	}

	seed := memoSlot{state: slotNotFound}
	for {
		table[idx] = seed
		res, ok := m.rule.Parse(in, idx, memo, errs, hide)
		if !ok || (seed.state == slotFound && res.Next <= seed.res.Next) {
			break
		}
		seed = memoSlot{state: slotFound, res: res, hidden: hide}
	}
	table[idx] = memoSlot{}

	if seed.state == slotNotFound {
		return Result{}, false
	}
	return seed.res, true
}

func (m *leftRec) Bind(rules []Parser) (Parser, error) {
	if _, err := m.rule.Bind(rules); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *leftRec) Rule() *Rule { return m.rule }
func (m *leftRec) ID() int     { return m.id }

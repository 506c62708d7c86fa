package peg

import "github.com/tliron/commonlog"

// traced logs every attempt of the rule it wraps
type traced struct {
	name   RuleName
	parser Parser
}

func trace(name RuleName, parser Parser) Parser {
	return &traced{name: name, parser: parser}
}

func (t *traced) Parse(in string, idx int, memo *Memo, errs ErrorSink, hide bool) (Result, bool) {
	if !log.AllowLevel(commonlog.Debug) {
		return t.parser.Parse(in, idx, memo, errs, hide)
	}
	log.Debugf("enter %s @ %d", t.name, idx)
	res, ok := t.parser.Parse(in, idx, memo, errs, hide)
	if ok {
		log.Debugf("match %s @ %d..%d", t.name, idx, res.Next)
	} else {
		log.Debugf("fail  %s @ %d", t.name, idx)
	}
	return res, ok
}

func (t *traced) Bind(rules []Parser) (Parser, error) {
	bound, err := t.parser.Bind(rules)
	if err != nil {
		return nil, err
	}
	t.parser = bound
	return t, nil
}

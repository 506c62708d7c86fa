// Package sql is a grammar for a subset of SQL's SELECT statement
package sql

import (
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/tliron/commonlog"

	"github.com/xtdb/peg"
)

var log = commonlog.GetLogger("peg.sql")

// Whitespace also skips `--` line comments
const Whitespace = `(?:\s|--[^\n]*)*`

var keywords = []string{
	"select", "distinct", "from", "where", "and", "or", "not", "as",
	"order", "by", "asc", "desc", "limit", "true", "false",
}

// Config returns the default configuration with the whitespace
// pattern SQL needs
func Config() *peg.Config {
	cfg := peg.NewConfig()
	cfg.SetString("grammar.whitespace", Whitespace)
	return cfg
}

// NewGrammar builds the grammar, starting at the `query` rule.  A nil
// cfg means Config().
//
//	query       <- select ';'?
//	select      <- SELECT DISTINCT? columns FROM table where? order_by? limit?
//	columns     <- '*' / column (',' column)*
//	column      <- expr (AS identifier)?
//	table       <- identifier (AS? identifier)?
//	where       <- WHERE expr
//	order_by    <- ORDER BY order_item (',' order_item)*
//	order_item  <- expr (ASC / DESC)?
//	limit       <- LIMIT number
//	expr        <- or
//	or          <- or OR and / and
//	and         <- and AND not / not
//	not         <- NOT not / comparison
//	comparison  <- sum (op sum)?
//	sum         <- sum ('+' / '-') product / product
//	product     <- product ('*' / '/') primary / primary
//	primary     <- number / string / boolean / call / column_ref / '(' expr ')'
//	call        <- identifier '(' ('*' / expr (',' expr)*)? ')'
//	column_ref  <- identifier ('.' identifier)?
//	identifier  <- !keyword [A-Za-z_][A-Za-z0-9_]*
func NewGrammar(cfg *peg.Config) (*peg.Grammar, error) {
	if cfg == nil {
		cfg = Config()
	}
	b, err := peg.NewBuilder(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "sql grammar")
	}

	var (
		comma = peg.Hide(b.Lit(","))
		kw    = func(word string) peg.Parser {
			upper := strings.ToUpper(word)
			return b.Regexp(`(?i)`+word+`\b`, upper, func(peg.Match) peg.Fragment {
				return peg.Of(upper)
			})
		}
		list = func(p peg.Parser) peg.Parser {
			return peg.Cat(p, peg.Star(peg.Cat(comma, p)))
		}
	)

	b.Define("query", peg.NeverWrap, peg.Cat(
		// matches nothing, then skips what precedes the first token
		peg.Hide(b.Regexp(``, "", nil)),
		b.Ref("select"),
		peg.Opt(peg.Hide(b.Lit(";"))),
	))
	b.Define("select", peg.AlwaysWrap, peg.Cat(
		peg.Hide(kw("select")),
		peg.Opt(kw("distinct")),
		b.Ref("columns"),
		peg.Hide(kw("from")),
		b.Ref("table"),
		peg.Opt(b.Ref("where")),
		peg.Opt(b.Ref("order_by")),
		peg.Opt(b.Ref("limit")),
	))
	b.Define("columns", peg.AlwaysWrap, peg.Ord(b.Lit("*"), list(b.Ref("column"))))
	b.Define("column", peg.WrapUnlessSingle, peg.Cat(
		b.Ref("expr"),
		peg.Opt(peg.Cat(peg.Hide(kw("as")), b.Ref("identifier"))),
	))
	b.Define("table", peg.AlwaysWrap, peg.Cat(
		b.Ref("identifier"),
		peg.Opt(peg.Cat(peg.Opt(peg.Hide(kw("as"))), b.Ref("identifier"))),
	))
	b.Define("where", peg.AlwaysWrap, peg.Cat(peg.Hide(kw("where")), b.Ref("expr")))
	b.Define("order_by", peg.AlwaysWrap, peg.Cat(
		peg.Hide(kw("order")),
		peg.Hide(kw("by")),
		list(b.Ref("order_item")),
	))
	b.Define("order_item", peg.AlwaysWrap, peg.Cat(
		b.Ref("expr"),
		peg.Opt(peg.Ord(kw("asc"), kw("desc"))),
	))
	b.Define("limit", peg.AlwaysWrap, peg.Cat(peg.Hide(kw("limit")), b.Ref("number")))

	// Expressions, from the loosest to the tightest binding
	b.Define("expr", peg.NeverWrap, b.Ref("or"))
	b.DefineLeftRec("or", peg.WrapUnlessSingle, peg.Ord(
		peg.Cat(b.Ref("or"), kw("or"), b.Ref("and")),
		b.Ref("and"),
	))
	b.DefineLeftRec("and", peg.WrapUnlessSingle, peg.Ord(
		peg.Cat(b.Ref("and"), kw("and"), b.Ref("not")),
		b.Ref("not"),
	))
	b.Define("not", peg.WrapUnlessSingle, peg.Ord(
		peg.Cat(kw("not"), b.Ref("not")),
		b.Ref("comparison"),
	))
	b.Define("comparison", peg.WrapUnlessSingle, peg.Cat(
		b.Ref("sum"),
		peg.Opt(peg.Cat(
			// `<=` must win over `<`
			peg.Alt(b.Lit("="), b.Lit("<>"), b.Lit("!="), b.Lit("<"), b.Lit("<="), b.Lit(">"), b.Lit(">=")),
			b.Ref("sum"),
		)),
	))
	b.DefineLeftRec("sum", peg.WrapUnlessSingle, peg.Ord(
		peg.Cat(b.Ref("sum"), peg.Ord(b.Lit("+"), b.Lit("-")), b.Ref("product")),
		b.Ref("product"),
	))
	b.DefineLeftRec("product", peg.WrapUnlessSingle, peg.Ord(
		peg.Cat(b.Ref("product"), peg.Ord(b.Lit("*"), b.Lit("/")), b.Ref("primary")),
		b.Ref("primary"),
	))
	b.Define("primary", peg.NeverWrap, peg.Ord(
		b.Ref("number"),
		b.Ref("string"),
		b.Ref("boolean"),
		b.Ref("call"),
		b.Ref("column_ref"),
		peg.Cat(peg.Hide(b.Lit("(")), b.Ref("expr"), peg.Hide(b.Lit(")"))),
	))
	b.Define("call", peg.AlwaysWrap, peg.Cat(
		b.Ref("identifier"),
		peg.Hide(b.Lit("(")),
		peg.Opt(peg.Ord(b.Lit("*"), list(b.Ref("expr")))),
		peg.Hide(b.Lit(")")),
	))
	b.Define("column_ref", peg.WrapUnlessSingle, peg.Cat(
		b.Ref("identifier"),
		peg.Opt(peg.Cat(peg.Hide(b.Lit(".")), b.Ref("identifier"))),
	))

	// Terminals
	b.Define("identifier", peg.NeverWrap, peg.Cat(
		peg.Neg(b.Ref("keyword")),
		b.Regexp(`[A-Za-z_][A-Za-z0-9_]*`, "<identifier>", nil),
	))
	b.Define("keyword", peg.NeverWrap, b.Regexp(
		`(?i)(?:`+strings.Join(keywords, "|")+`)\b`, "<keyword>", nil))
	b.Define("number", peg.NeverWrap, b.Regexp(`[0-9]+(?:\.[0-9]+)?`, "<number>", number))
	b.Define("string", peg.AlwaysWrap, b.Regexp(`'((?:[^']|'')*)'`, "<string>", unquote))
	b.Define("boolean", peg.NeverWrap, b.Regexp(`(?i)(?:true|false)\b`, "<boolean>", boolean))

	g, err := b.Build("query")
	if err != nil {
		return nil, errors.Wrap(err, "sql grammar")
	}
	log.Debugf("built sql grammar with %d rules", g.Size())
	return g, nil
}

func number(m peg.Match) peg.Fragment {
	if !strings.Contains(m.Text(), ".") {
		return peg.MatchInt(m)
	}
	f, err := strconv.ParseFloat(m.Text(), 64)
	if err != nil {
		return peg.MatchText(m)
	}
	return peg.Of(f)
}

func unquote(m peg.Match) peg.Fragment {
	return peg.Of(strings.ReplaceAll(m.Groups[1], "''", "'"))
}

func boolean(m peg.Match) peg.Fragment {
	return peg.Of(strings.EqualFold(m.Text(), "true"))
}

var defaultGrammar = sync.OnceValues(func() (*peg.Grammar, error) {
	return NewGrammar(nil)
})

// Parse parses a query with the default configuration.  Failures to
// parse the query are returned as *peg.ParseErrors.
func Parse(input string) (peg.Fragment, error) {
	g, err := defaultGrammar()
	if err != nil {
		return nil, err
	}
	return g.Parse(input)
}

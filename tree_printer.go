package peg

import (
	"fmt"
	"strconv"
	"strings"
)

type FormatToken int

const (
	FormatToken_None FormatToken = iota
	FormatToken_Name
	FormatToken_Range
	FormatToken_Literal
)

type FormatFunc func(input string, token FormatToken) string

// Pretty renders `f` as a tree.  Rule nodes show their name and
// position, terminal text is quoted and other values are printed
// with %v.
func Pretty(f Fragment) string {
	return printFragment(f, func(input string, _ FormatToken) string { return input })
}

// Highlight is Pretty with ANSI colors
func Highlight(f Fragment) string {
	return printFragment(f, func(input string, token FormatToken) string {
		return treePrinterTheme[token] + input + treePrinterTheme[FormatToken_None]
	})
}

var treePrinterTheme = map[FormatToken]string{
	FormatToken_None:    "\033[0m",          // reset
	FormatToken_Name:    "\033[1;36m",       // cyan
	FormatToken_Range:   "\033[1;31;5;228m", // orange
	FormatToken_Literal: "\033[1;38;5;245m", // gray
}

func printFragment(f Fragment, format FormatFunc) string {
	tp := newTreePrinter(format)
	if f.Len() == 1 {
		tp.visit(f.At(0))
	} else {
		tp.visit(f)
	}
	return tp.output.String()
}

type treePrinter struct {
	padStr []string
	output *strings.Builder
	format FormatFunc
}

func newTreePrinter(format FormatFunc) *treePrinter {
	return &treePrinter{output: &strings.Builder{}, format: format}
}

func (tp *treePrinter) visit(v any) {
	switch v := v.(type) {
	case string:
		tp.write(tp.format(strconv.Quote(v), FormatToken_Literal))
	case Fragment:
		if name, ok := NodeName(v); ok {
			tp.write(tp.format(string(name), FormatToken_Name))
			if pos, ok := PositionOf(v); ok {
				tp.write(tp.format(fmt.Sprintf(" (%s)", pos), FormatToken_Range))
			}
			tp.children(v, 1)
			return
		}
		tp.write(tp.format(fmt.Sprintf("Sequence<%d>", v.Len()), FormatToken_Range))
		tp.children(v, 0)
	default:
		tp.write(fmt.Sprintf("%v", v))
	}
}

func (tp *treePrinter) children(f Fragment, from int) {
	last := f.Len() - 1
	for i := from; i <= last; i++ {
		tp.write("\n")
		if i == last {
			tp.pwrite("└── ")
			tp.indent("    ")
		} else {
			tp.pwrite("├── ")
			tp.indent("│   ")
		}
		tp.visit(f.At(i))
		tp.unindent()
	}
}

func (tp *treePrinter) indent(s string) {
	tp.padStr = append(tp.padStr, s)
}

func (tp *treePrinter) unindent() {
	tp.padStr = tp.padStr[:len(tp.padStr)-1]
}

func (tp *treePrinter) padding() {
	for _, item := range tp.padStr {
		tp.write(item)
	}
}

func (tp *treePrinter) write(s string) {
	tp.output.WriteString(s)
}

func (tp *treePrinter) pwrite(s string) {
	tp.padding()
	tp.write(s)
}

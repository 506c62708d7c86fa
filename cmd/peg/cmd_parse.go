package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/xtdb/peg"
	"github.com/xtdb/peg/diag"
	"github.com/xtdb/peg/sql"
)

// ANSI color codes for terminal output
const (
	colorReset = "\033[0m"
	colorRed   = "\033[1;31m"
	colorGray  = "\033[0;37m"
)

// errReported is returned once a parse failure has already been
// printed, so only the exit status is left to set
var errReported = errors.New("parse failed")

type parseOptions struct {
	expr   string
	rule   string
	format string
	color  bool
}

func newParseCmd(c *configFlags) *cobra.Command {
	var opts parseOptions

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a query and print its tree",
		Long: `Parse a query and print its tree.

The query is read from the file argument or from --expr.  Without
either, queries are read from standard input one line at a time.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runParseCmd(cmd, c, opts, args)
			if err != nil && !errors.Is(err, errReported) {
				fmt.Fprintf(cmd.ErrOrStderr(), "%serror:%s %s\n", colorRed, colorReset, err)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.expr, "expr", "e", "", "parse this text instead of a file")
	cmd.Flags().StringVarP(&opts.rule, "rule", "r", "", "start from this rule instead of the entry rule")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "pretty", "output format: pretty, repr or data")
	cmd.Flags().BoolVar(&opts.color, "color", false, "colorize trees and errors")

	return cmd
}

func runParseCmd(cmd *cobra.Command, c *configFlags, opts parseOptions, args []string) error {
	switch opts.format {
	case "pretty", "repr", "data":
	default:
		return errors.Errorf("unknown format %q, want pretty, repr or data", opts.format)
	}

	g, err := sql.NewGrammar(c.config())
	if err != nil {
		return err
	}
	if opts.rule != "" {
		if _, ok := g.RuleID(opts.rule); !ok {
			return errors.Errorf("unknown rule %q", opts.rule)
		}
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	switch {
	case opts.expr != "":
		return runParse(out, errOut, g, opts, "<expr>", opts.expr)
	case len(args) == 1:
		text, err := os.ReadFile(args[0])
		if err != nil {
			return errors.Wrap(err, "can't open input file")
		}
		return runParse(out, errOut, g, opts, args[0], string(text))
	default:
		return runRepl(cmd.InOrStdin(), out, errOut, g, opts)
	}
}

// runParse parses `input` and writes its tree to `out`.  Failures are
// written to `errOut` as `name:line:col: message` followed by the
// offending line.
func runParse(out, errOut io.Writer, g *peg.Grammar, opts parseOptions, name, input string) error {
	var (
		tree peg.Fragment
		err  error
	)
	if opts.rule != "" {
		tree, err = g.ParseByName(opts.rule, input)
	} else {
		tree, err = g.Parse(input)
	}
	if err != nil {
		printParsingError(errOut, opts.color, name, input, err)
		return errReported
	}
	fmt.Fprintln(out, render(tree, opts))
	return nil
}

func render(tree peg.Fragment, opts parseOptions) string {
	switch opts.format {
	case "repr":
		return repr.String(peg.Data(tree), repr.Indent("  "))
	case "data":
		return fmt.Sprint(tree)
	default:
		if opts.color {
			return peg.Highlight(tree)
		}
		return peg.Pretty(tree)
	}
}

// runRepl parses one query per line until the input ends.  Parse
// failures are reported but don't stop the loop.
func runRepl(in io.Reader, out, errOut io.Writer, g *peg.Grammar, opts parseOptions) error {
	reader := bufio.NewReader(in)
	for {
		fmt.Fprint(out, "> ")
		text, err := reader.ReadString('\n')
		if line := strings.TrimRight(text, "\r\n"); strings.TrimSpace(line) != "" {
			if perr := runParse(out, errOut, g, opts, "<stdin>", line); perr != nil && !errors.Is(perr, errReported) {
				return perr
			}
		}
		if err == io.EOF {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "can't read input")
		}
	}
}

func printParsingError(w io.Writer, color bool, name, input string, err error) {
	d := diag.FromError(err, input)
	if color {
		fmt.Fprintf(w, "%sERROR:%s %s\n", colorRed, colorReset, d.Format(name))
	} else {
		fmt.Fprintln(w, d.Format(name))
	}

	lines := strings.Split(input, "\n")
	if d.Line() < 1 || d.Line() > len(lines) {
		return
	}
	line := strings.TrimRight(lines[d.Line()-1], "\r")
	caret := strings.Repeat(" ", d.Column()-1) + "^"
	if color {
		caret = colorGray + caret + colorReset
	}
	fmt.Fprintf(w, "  %s\n  %s\n", line, caret)
}

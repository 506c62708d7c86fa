package main

import (
	"github.com/spf13/cobra"

	"github.com/xtdb/peg"
	"github.com/xtdb/peg/sql"
)

// configFlags maps the persistent flags onto configuration keys
type configFlags struct {
	whitespace    string
	noMemoize     bool
	caseSensitive bool
	maxInput      int
	trace         bool
}

func (c *configFlags) register(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&c.whitespace, "whitespace", sql.Whitespace, "pattern skipped after every token, must match empty")
	f.BoolVar(&c.noMemoize, "no-memoize", false, "don't memoize rules that aren't left recursive")
	f.BoolVar(&c.caseSensitive, "case-sensitive", false, "match literals exactly, keywords always ignore case")
	f.IntVar(&c.maxInput, "max-input", 0, "reject inputs larger than this many bytes, 0 for no limit")
	f.BoolVar(&c.trace, "trace", false, "log every rule attempt, needs -vv")
}

func (c *configFlags) config() *peg.Config {
	cfg := sql.Config()
	cfg.SetString("grammar.whitespace", c.whitespace)
	cfg.SetBool("grammar.memoize", !c.noMemoize)
	cfg.SetBool("grammar.case_insensitive", !c.caseSensitive)
	cfg.SetInt("parser.max_input", c.maxInput)
	cfg.SetBool("parser.trace", c.trace)
	return cfg
}

func newConfigCmd(c *configFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			c.config().Debug(cmd.OutOrStdout())
		},
	}
}

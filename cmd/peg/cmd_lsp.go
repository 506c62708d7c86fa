package main

import (
	"github.com/spf13/cobra"

	"github.com/xtdb/peg/lsp"
	"github.com/xtdb/peg/sql"
)

func newLSPCmd(c *configFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := sql.NewGrammar(c.config())
			if err != nil {
				return err
			}
			return lsp.NewServer(g, version).RunStdio()
		},
	}
}

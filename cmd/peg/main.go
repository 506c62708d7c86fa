package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		verbosity int
		cfg       configFlags
	)

	rootCmd := &cobra.Command{
		Use:          "peg",
		Short:        "Packrat parsing with PEG combinators",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(verbosity, nil)
		},
	}
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "log verbosity, repeat for more")
	cfg.register(rootCmd)

	rootCmd.AddCommand(newParseCmd(&cfg))
	rootCmd.AddCommand(newLSPCmd(&cfg))
	rootCmd.AddCommand(newConfigCmd(&cfg))
	return rootCmd
}

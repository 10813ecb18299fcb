package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var cliLog = commonlog.GetLogger("markup.cli")

func main() {
	var verbose int
	opts := &parseFlags{}

	rootCmd := &cobra.Command{
		Use:   "markup",
		Short: "Incremental markup lexer, scanner and tree builder",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(verbose, nil)
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase log verbosity")
	opts.register(rootCmd)

	rootCmd.AddCommand(newTokensCmd(opts))
	rootCmd.AddCommand(newElementsCmd(opts))
	rootCmd.AddCommand(newTreeCmd(opts))
	rootCmd.AddCommand(newLSPCmd(opts))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

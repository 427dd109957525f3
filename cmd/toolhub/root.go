package main

import (
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "toolhub",
		Short: "Tool registry, tool servers and question-answering aggregator",
		Long: `toolhub runs one role per process:

  toolhub serve server_a     utility tool server (port 3001)
  toolhub serve server_b     utility tool server (port 3002)
  toolhub serve aggregator   unified API and oracle (port 3000)
  toolhub migrate up         apply registry migrations`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "directory holding config.yaml")

	cmd.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

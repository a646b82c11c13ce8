package commands

import "github.com/spf13/cobra"

func (c *CLI) newGraphCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "graph [targets...]",
		Short: "Print the resolved build graph in Graphviz DOT format",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Graph(cmd.Context(), cmd.OutOrStdout(), args, c.load)
		},
	}
}

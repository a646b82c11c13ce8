package commands

import "github.com/spf13/cobra"

func (c *CLI) newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List rules from highest to lowest priority",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Rules(cmd.OutOrStdout(), c.load)
		},
	}
}

package cli

import (
	"github.com/spf13/cobra"
)

// checkCommand creates the "check" command.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Compare the cache against the manifest without changing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, err := c.reconcile(cmd.Context(), true)
			if err != nil {
				return err
			}
			if len(m.Dependencies) == 0 {
				printInfo("no dependencies declared")
			}
			return nil
		},
	}
}

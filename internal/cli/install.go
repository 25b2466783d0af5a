package cli

import (
	"github.com/spf13/cobra"
)

// installCommand creates the "install" command.
func (c *CLI) installCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Install or update everything the manifest declares",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			_, statuses, err := c.reconcile(ctx, true)
			if err != nil {
				return err
			}

			in := c.installer(c.cache(), newTerminalResolver())
			if err := in.InstallAll(ctx, statuses); err != nil {
				return err
			}

			printSuccess("manifest satisfied")
			return nil
		},
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hxmtool/hxm/pkg/lock"
)

// lockCommand creates the "lock" command and its "check" subcommand.
func (c *CLI) lockCommand() *cobra.Command {
	var longID bool

	cmd := &cobra.Command{
		Use:   "lock [libs...]",
		Short: "Pin dependencies to what is currently installed",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.loadManifest()
			if err != nil {
				return err
			}

			report, lockErr := c.locker(c.cache()).Lock(cmd.Context(), m, args, longID)
			if report == nil {
				return lockErr
			}

			for _, res := range report.Results {
				printLockResult(res)
			}

			// Successful pins survive even when some entries failed.
			if report.Locked > 0 {
				if err := c.saveManifest(m); err != nil {
					return err
				}
			}

			printDetail("%d locked, %d skipped, %d errored", report.Locked, report.Skipped, report.Errored)
			return lockErr
		},
	}

	cmd.Flags().BoolVar(&longID, "long-id", false, "pin git dependencies to full commit ids")
	cmd.AddCommand(c.lockCheckCommand())
	return cmd
}

// lockCheckCommand creates the read-only "lock check" subcommand.
func (c *CLI) lockCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report which dependencies are pinned, without changing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.loadManifest()
			if err != nil {
				return err
			}

			report := lock.CheckLocked(m)
			for _, res := range report.Results {
				if res.Locked {
					printSuccess("%s locked to %s", res.Name, res.Detail)
				} else {
					printWarning("%s is not locked", res.Name)
				}
			}

			printDetail("%d/%d locked", report.Locked, report.Total)
			if !report.AllLocked() {
				return fmt.Errorf("%d dependencies are not locked", report.Total-report.Locked)
			}
			return nil
		},
	}
}

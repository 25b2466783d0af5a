package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hxmtool/hxm/pkg/hxml"
)

// toHxmlCommand creates the "to-hxml" command.
func (c *CLI) toHxmlCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "to-hxml [file]",
		Short: "Export the manifest as -lib build flags",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.loadManifest()
			if err != nil {
				return err
			}

			out := hxml.Dump(m)
			if len(args) == 1 {
				if err := os.WriteFile(args[0], []byte(out), 0o644); err != nil {
					return err
				}
				printSuccess("wrote %s", args[0])
				return nil
			}

			fmt.Print(out)
			return nil
		},
	}
}

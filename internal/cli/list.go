package cli

import (
	"github.com/spf13/cobra"
)

// listCommand creates the "list" command.
func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list [libs...]",
		Short: "Show declared dependencies and their pins",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.loadManifest()
			if err != nil {
				return err
			}

			deps, err := m.Select(args)
			if err != nil {
				return err
			}
			if len(deps) == 0 {
				printInfo("no dependencies declared")
				return nil
			}

			for _, dep := range deps {
				printDependency(dep.Name, dep.Kind.String(), dep.Wanted())
			}
			return nil
		},
	}
}

package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hxmtool/hxm/pkg/manifest"
)

// initCommand creates the "init" command.
func (c *CLI) initCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create an empty dependency manifest and the local cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.cache().Init(); err != nil {
				return err
			}

			if err := manifest.InitFile(c.manifestPath); err != nil {
				return err
			}

			printSuccess("initialized %s", c.manifestPath)
			printDetail("cache: %s", c.cache().Root())
			return nil
		},
	}
}

// cleanCommand creates the "clean" command.
func (c *CLI) cleanCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the local library cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cache := c.cache()

			if !force && !confirm(fmt.Sprintf("Remove %s and all installed libraries?", cache.Root())) {
				printInfo("aborted")
				return nil
			}

			if err := cache.Clean(); err != nil {
				return err
			}
			printSuccess("removed %s", cache.Root())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")
	return cmd
}

// confirm asks a yes/no question on the controlling terminal. Anything
// but an explicit yes is no.
func confirm(question string) bool {
	fmt.Printf("%s [y/N] ", question)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

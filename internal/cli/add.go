package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hxmtool/hxm/pkg/gitvcs"
	"github.com/hxmtool/hxm/pkg/manifest"
	"github.com/hxmtool/hxm/pkg/status"
)

// haxelibCommand creates the "haxelib" add command.
func (c *CLI) haxelibCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "haxelib <name> [version]",
		Short: "Add a registry-hosted dependency and install it",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.loadManifest()
			if err != nil {
				return err
			}

			dep := manifest.Dependency{Name: args[0], Kind: manifest.KindHaxelib}
			if len(args) == 2 {
				dep.Version = args[1]
			}

			if dep.Version != "" {
				cache := c.cache()
				if err := c.registry(cache).Install(cmd.Context(), &dep); err != nil {
					return err
				}
			} else {
				// Nothing to download without a version; the entry stays
				// unlocked until the user pins it.
				printInfo("%s added without a version; run hxm lock after installing", dep.Name)
			}

			m.Upsert(dep)
			return c.saveManifest(m)
		},
	}
}

// gitCommand creates the "git" add command.
func (c *CLI) gitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "git <name> <url> [ref]",
		Short: "Add a git dependency and clone it",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			m, err := c.loadManifest()
			if err != nil {
				return err
			}

			dep := manifest.Dependency{Name: args[0], Kind: manifest.KindGit, URL: args[1]}
			if len(args) == 3 {
				dep.Ref = args[2]
			}

			cache := c.cache()
			in := c.installer(cache, newTerminalResolver())
			st := &status.InstallStatus{Dep: &dep, State: status.MissingGit, Wanted: dep.Ref}
			if err := in.Install(ctx, st); err != nil {
				return err
			}

			if dep.Ref == "" {
				// The clone sits on the remote's default branch; record it
				// so the entry is reproducible.
				ref, err := gitvcs.CurrentRef(ctx, c.git(), cache.GitDir(dep.Name))
				if err != nil {
					return err
				}
				dep.Ref = ref
				printInfo("%s pinned to %s", dep.Name, ref)
			}

			m.Upsert(dep)
			return c.saveManifest(m)
		},
	}
}

// devCommand creates the "dev" add command.
func (c *CLI) devCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dev <name> <path>",
		Short: "Add a local development dependency",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.loadManifest()
			if err != nil {
				return err
			}

			abs, err := filepath.Abs(args[1])
			if err != nil {
				return err
			}
			dep := manifest.Dependency{Name: args[0], Kind: manifest.KindDev, Path: abs}

			if err := c.cache().WriteDev(dep.Name, abs); err != nil {
				return err
			}

			m.Upsert(dep)
			if err := c.saveManifest(m); err != nil {
				return err
			}
			printSuccess("%s points at %s", dep.Name, abs)
			return nil
		},
	}
}

// removeCommand creates the "remove" command.
func (c *CLI) removeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <libs...>",
		Short: "Remove dependencies from the manifest and the cache",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.loadManifest()
			if err != nil {
				return err
			}

			cache := c.cache()
			for _, name := range args {
				if _, err := m.Get(name); err != nil {
					return err
				}
				m.Remove(name)
				if err := cache.RemoveEntry(name); err != nil {
					return err
				}
				printSuccess("removed %s", name)
			}

			return c.saveManifest(m)
		},
	}
}

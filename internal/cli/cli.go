// Package cli implements the hxm command-line interface.
//
// Commands cover the whole manifest lifecycle: creating and cleaning the
// local cache, adding registry/git/dev dependencies, reconciling the
// cache against the manifest (check, install), pinning versions (lock),
// and exporting the manifest for the build tool (to-hxml).
//
// All commands support --verbose (-v) for debug-level logging and
// --json for a non-default manifest path. Loggers are passed through
// context.Context.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hxmtool/hxm/pkg/buildinfo"
	"github.com/hxmtool/hxm/pkg/gitvcs"
	"github.com/hxmtool/hxm/pkg/installer"
	"github.com/hxmtool/hxm/pkg/libcache"
	"github.com/hxmtool/hxm/pkg/lock"
	"github.com/hxmtool/hxm/pkg/manifest"
	"github.com/hxmtool/hxm/pkg/registry"
	"github.com/hxmtool/hxm/pkg/status"
)

// appName is the application name used for config lookup and display.
const appName = "hxm"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config

	manifestPath string // --json flag
}

// New creates a new CLI instance with a default logger and the config
// loaded from disk, if any.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
		Config: LoadConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "hxm manages project-local haxelib dependencies",
		Long:         `hxm reconciles a declarative dependency manifest against a project-local library cache, installing from the haxelib registry or from git and pinning exact versions.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.manifestPath, "json", c.Config.Manifest, "path to the dependency manifest")

	root.AddCommand(c.initCommand())
	root.AddCommand(c.cleanCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.installCommand())
	root.AddCommand(c.haxelibCommand())
	root.AddCommand(c.gitCommand())
	root.AddCommand(c.devCommand())
	root.AddCommand(c.removeCommand())
	root.AddCommand(c.lockCommand())
	root.AddCommand(c.toHxmlCommand())

	return root
}

// =============================================================================
// Shared construction
// =============================================================================

func (c *CLI) loadManifest() (*manifest.Manifest, error) {
	return manifest.Load(c.manifestPath)
}

func (c *CLI) saveManifest(m *manifest.Manifest) error {
	return manifest.Save(m, c.manifestPath)
}

func (c *CLI) cache() *libcache.Cache {
	return libcache.New(c.Config.CacheDir)
}

func (c *CLI) git() gitvcs.Git {
	return &gitvcs.ExecGit{Logf: c.Logger.Debugf}
}

func (c *CLI) registry(cache *libcache.Cache) *registry.Client {
	return &registry.Client{
		Host:     c.Config.Registry,
		Cache:    cache,
		Progress: newProgressPrinter(),
		Logf:     c.Logger.Infof,
	}
}

func (c *CLI) evaluator(cache *libcache.Cache) *status.Evaluator {
	return &status.Evaluator{Cache: cache, Git: c.git()}
}

func (c *CLI) installer(cache *libcache.Cache, resolver installer.ConflictResolver) *installer.Installer {
	return &installer.Installer{
		Cache:    cache,
		Git:      c.git(),
		Registry: c.registry(cache),
		Resolver: resolver,
		Logf:     c.Logger.Infof,
		Warnf:    c.Logger.Warnf,
	}
}

func (c *CLI) locker(cache *libcache.Cache) *lock.Locker {
	return &lock.Locker{Cache: cache, Git: c.git()}
}

// reconcile loads the manifest and classifies every dependency,
// rendering each result as it completes.
func (c *CLI) reconcile(ctx context.Context, render bool) (*manifest.Manifest, []*status.InstallStatus, error) {
	m, err := c.loadManifest()
	if err != nil {
		return nil, nil, err
	}

	var onStatus func(*status.InstallStatus)
	if render {
		onStatus = printStatus
	}
	statuses, err := c.evaluator(c.cache()).Reconcile(ctx, m, onStatus)
	return m, statuses, err
}

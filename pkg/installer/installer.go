// Package installer turns status classifications into cache mutations.
// Each dependency is processed independently: a backend failure aborts
// that dependency but not the run.
package installer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	hxmerrors "github.com/hxmtool/hxm/pkg/errors"
	"github.com/hxmtool/hxm/pkg/gitvcs"
	"github.com/hxmtool/hxm/pkg/libcache"
	"github.com/hxmtool/hxm/pkg/manifest"
	"github.com/hxmtool/hxm/pkg/registry"
	"github.com/hxmtool/hxm/pkg/status"
)

// Installer applies the dispatch table for install and update runs.
type Installer struct {
	Cache    *libcache.Cache
	Git      gitvcs.Git
	Registry *registry.Client
	Resolver ConflictResolver // nil means SkipResolver
	Logf     func(format string, args ...any)
	Warnf    func(format string, args ...any)
}

func (in *Installer) logf(format string, args ...any) {
	if in.Logf != nil {
		in.Logf(format, args...)
	}
}

func (in *Installer) warnf(format string, args ...any) {
	if in.Warnf != nil {
		in.Warnf(format, args...)
	}
}

func (in *Installer) resolver() ConflictResolver {
	if in.Resolver == nil {
		return SkipResolver{}
	}
	return in.Resolver
}

// Install processes one classified dependency. AlreadyInstalled and
// NotLocked are no-ops: an unlocked-but-present dependency is left
// alone until the user locks it.
func (in *Installer) Install(ctx context.Context, st *status.InstallStatus) error {
	switch st.State {
	case status.AlreadyInstalled, status.NotLocked:
		return nil
	case status.Missing, status.MissingGit:
		return in.acquire(ctx, st.Dep)
	case status.Outdated:
		return in.update(ctx, st.Dep)
	case status.Conflict:
		return in.resolveConflict(ctx, st)
	default:
		return hxmerrors.New(hxmerrors.ErrCodeUnsupported, "%s: unknown install state", st.Dep.Name)
	}
}

// InstallAll processes every status in order. Failures are isolated per
// dependency and returned joined after the whole batch has run.
func (in *Installer) InstallAll(ctx context.Context, sts []*status.InstallStatus) error {
	var errs []error
	for _, st := range sts {
		if err := in.Install(ctx, st); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", st.Dep.Name, err))
		}
	}
	return errors.Join(errs...)
}

func (in *Installer) acquire(ctx context.Context, dep *manifest.Dependency) error {
	switch dep.Kind {
	case manifest.KindHaxelib:
		return in.Registry.Install(ctx, dep)
	case manifest.KindGit:
		return in.installGit(ctx, dep)
	case manifest.KindDev:
		return in.installDev(dep)
	case manifest.KindMercurial:
		in.warnf("%s: mercurial dependencies are not yet implemented, skipping", dep.Name)
		return nil
	default:
		return hxmerrors.New(hxmerrors.ErrCodeUnsupported, "%s: unknown dependency kind", dep.Name)
	}
}

func (in *Installer) update(ctx context.Context, dep *manifest.Dependency) error {
	switch dep.Kind {
	case manifest.KindHaxelib:
		// Update is a fresh download and extraction at the new version.
		return in.Registry.Install(ctx, dep)
	case manifest.KindGit:
		return in.updateGit(ctx, dep)
	case manifest.KindDev:
		return nil
	case manifest.KindMercurial:
		in.warnf("%s: mercurial dependencies are not yet implemented, skipping", dep.Name)
		return nil
	default:
		return hxmerrors.New(hxmerrors.ErrCodeUnsupported, "%s: unknown dependency kind", dep.Name)
	}
}

// installGit ensures the repository exists, records the cache marker, and
// checks out the declared ref. With no ref declared the clone stays on
// the remote's default branch; the git-add command records the branch
// into the manifest afterwards.
func (in *Installer) installGit(ctx context.Context, dep *manifest.Dependency) error {
	url, err := dep.RequireURL()
	if err != nil {
		return err
	}
	dir := in.Cache.GitDir(dep.Name)

	if !in.Cache.HasGit(dep.Name) {
		in.logf("cloning %s from %s", dep.Name, url)
		if err := in.Git.Clone(ctx, url, dir); err != nil {
			return err
		}
	}
	if err := in.Cache.WriteCurrent(dep.Name, libcache.GitMarker); err != nil {
		return err
	}

	if dep.Ref != "" {
		if err := gitvcs.SmartCheckout(ctx, in.Git, dir, url, dep.Ref); err != nil {
			return err
		}
	}
	return in.Git.SubmoduleUpdate(ctx, dir)
}

func (in *Installer) updateGit(ctx context.Context, dep *manifest.Dependency) error {
	url, err := dep.RequireURL()
	if err != nil {
		return err
	}
	ref, err := dep.RequireRef()
	if err != nil {
		return err
	}
	dir := in.Cache.GitDir(dep.Name)

	in.logf("updating %s to %s", dep.Name, ref)
	if err := gitvcs.SmartCheckout(ctx, in.Git, dir, url, ref); err != nil {
		return err
	}
	return in.Git.SubmoduleUpdate(ctx, dir)
}

func (in *Installer) installDev(dep *manifest.Dependency) error {
	path, err := dep.RequirePath()
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return hxmerrors.Wrap(hxmerrors.ErrCodeCacheState, err, "%s: resolving dev path", dep.Name)
	}
	return in.Cache.WriteDev(dep.Name, abs)
}

func (in *Installer) resolveConflict(ctx context.Context, st *status.InstallStatus) error {
	dep := st.Dep
	dir := in.Cache.GitDir(dep.Name)

	diff, err := in.Git.DiffStat(ctx, dir)
	if err != nil {
		return err
	}

	res, err := in.resolver().Resolve(ctx, st, diff)
	if err != nil {
		return err
	}

	switch res {
	case ResolutionStash:
		return in.stashAndUpdate(ctx, st)
	case ResolutionDiscard:
		if err := in.Git.DiscardChanges(ctx, dir); err != nil {
			return err
		}
		return in.update(ctx, dep)
	case ResolutionCommit:
		return in.commitAndUpdate(ctx, st)
	default:
		in.logf("skipping %s", dep.Name)
		return nil
	}
}

func (in *Installer) stashAndUpdate(ctx context.Context, st *status.InstallStatus) error {
	dep := st.Dep
	dir := in.Cache.GitDir(dep.Name)

	if err := in.Git.StashPush(ctx, dir, "hxm: before updating to "+st.Wanted); err != nil {
		return err
	}
	if err := in.update(ctx, dep); err != nil {
		// The stash is left in place so the changes survive.
		return err
	}

	conflict, err := in.Git.StashPop(ctx, dir)
	if err != nil {
		return err
	}
	if conflict {
		// The one deliberate partial-success exception: remaining
		// dependencies are independent, so a merge conflict here warns
		// instead of failing the run.
		in.warnf("%s: restoring stashed changes produced merge conflicts; resolve them manually in %s and drop the stash", dep.Name, dir)
	}
	return nil
}

func (in *Installer) commitAndUpdate(ctx context.Context, st *status.InstallStatus) error {
	dep := st.Dep
	dir := in.Cache.GitDir(dep.Name)

	msg, err := in.resolver().CommitMessage(ctx, st)
	if err != nil {
		return err
	}
	if strings.TrimSpace(msg) == "" {
		return hxmerrors.New(hxmerrors.ErrCodeInput, "%s: empty commit message", dep.Name)
	}
	if err := in.Git.CommitAll(ctx, dir, msg); err != nil {
		return err
	}
	return in.update(ctx, dep)
}

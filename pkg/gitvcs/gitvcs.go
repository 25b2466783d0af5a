// Package gitvcs wraps version-control operations behind a capability
// interface so callers never depend on how repositories are manipulated.
// The default implementation, [ExecGit], shells out to the git binary;
// an embedded repository library could substitute it without touching
// callers.
package gitvcs

import (
	"context"
	"strings"
)

// Git is the capability surface the rest of the tool uses to inspect and
// mutate repositories. Every operation takes the repository directory
// explicitly; implementations hold no per-repository state.
type Git interface {
	// Clone clones url into dir, preferring a blobless partial clone and
	// falling back to a full clone when the remote rejects the filter.
	// After cloning, the default remote is renamed to RemoteName(url).
	Clone(ctx context.Context, url, dir string) error

	// Checkout checks out ref against local refs only.
	Checkout(ctx context.Context, dir, ref string) error

	// Fetch fetches from the named remote.
	Fetch(ctx context.Context, dir, remote string) error

	// EnsureRemote guarantees a remote with the given name and URL exists,
	// creating it or repairing a drifted URL.
	EnsureRemote(ctx context.Context, dir, name, url string) error

	// SubmoduleUpdate runs a recursive submodule init+update.
	SubmoduleUpdate(ctx context.Context, dir string) error

	// HeadCommit returns the current head commit id, shortened to an
	// unambiguous prefix when short is true.
	HeadCommit(ctx context.Context, dir string, short bool) (string, error)

	// CurrentBranch returns the checked-out branch name, or "HEAD" when
	// the repository is in detached-head state.
	CurrentBranch(ctx context.Context, dir string) (string, error)

	// ResolveCommit resolves a branch, tag, or (possibly abbreviated)
	// commit id to a full commit id using local refs.
	ResolveCommit(ctx context.Context, dir, ref string) (string, error)

	// IsDirty reports whether the working tree has tracked modifications
	// or staged changes. Untracked files do not count.
	IsDirty(ctx context.Context, dir string) (bool, error)

	// DiffStat returns a summary of changed files for display.
	DiffStat(ctx context.Context, dir string) (string, error)

	// StashPush stashes working-tree changes with the given message.
	StashPush(ctx context.Context, dir, message string) error

	// StashPop restores stashed changes. A pop that produces merge
	// conflicts returns conflict=true with a nil error: the caller warns
	// and continues rather than failing the run.
	StashPop(ctx context.Context, dir string) (conflict bool, err error)

	// DiscardChanges hard-resets tracked files and removes untracked ones.
	DiscardChanges(ctx context.Context, dir string) error

	// CommitAll stages everything and commits with the given message.
	// A "nothing to commit" result is treated as success.
	CommitAll(ctx context.Context, dir, message string) error
}

// SmartCheckout checks out ref in dir, fetching if needed: it tries local
// refs first, then ensures a remote named for the URL exists (repairing
// URL drift), fetches it, and retries once. A second failure is fatal for
// the dependency being processed.
func SmartCheckout(ctx context.Context, g Git, dir, url, ref string) error {
	if err := g.Checkout(ctx, dir, ref); err == nil {
		return nil
	}

	remote, err := RemoteName(url)
	if err != nil {
		return err
	}
	if err := g.EnsureRemote(ctx, dir, remote, url); err != nil {
		return err
	}
	if err := g.Fetch(ctx, dir, remote); err != nil {
		return err
	}
	return g.Checkout(ctx, dir, ref)
}

// CurrentRef returns the checked-out branch name, or the full head commit
// when the repository is detached. Used to record a ref for dependencies
// added without one.
func CurrentRef(ctx context.Context, g Git, dir string) (string, error) {
	branch, err := g.CurrentBranch(ctx, dir)
	if err != nil {
		return "", err
	}
	if branch != "HEAD" {
		return branch, nil
	}
	return g.HeadCommit(ctx, dir, false)
}

// IsHex reports whether s could be an abbreviated commit id: non-empty,
// at most 40 characters, hex digits only.
func IsHex(s string) bool {
	if s == "" || len(s) > 40 {
		return false
	}
	for _, r := range strings.ToLower(s) {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}

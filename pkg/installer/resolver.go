package installer

import (
	"context"

	"github.com/hxmtool/hxm/pkg/status"
)

// Resolution is the user's choice for a conflicted dependency.
type Resolution int

const (
	// ResolutionSkip leaves the dependency untouched. Unrecognized input
	// maps here rather than re-prompting.
	ResolutionSkip Resolution = iota
	// ResolutionStash stashes local changes, updates, then restores them.
	ResolutionStash
	// ResolutionDiscard throws local changes away before updating.
	ResolutionDiscard
	// ResolutionCommit commits local changes before updating.
	ResolutionCommit
)

func (r Resolution) String() string {
	switch r {
	case ResolutionStash:
		return "stash"
	case ResolutionDiscard:
		return "discard"
	case ResolutionCommit:
		return "commit"
	default:
		return "skip"
	}
}

// ConflictResolver decides what to do with a conflicted working tree.
// The interactive implementation lives in the CLI layer; scripted
// callers and tests supply their own.
type ConflictResolver interface {
	// Resolve presents the declared-vs-installed state and the diff
	// summary, and returns the chosen resolution. One interaction per
	// conflicted dependency.
	Resolve(ctx context.Context, st *status.InstallStatus, diff string) (Resolution, error)

	// CommitMessage asks for the message used by ResolutionCommit.
	CommitMessage(ctx context.Context, st *status.InstallStatus) (string, error)
}

// SkipResolver skips every conflict. The default for non-interactive use.
type SkipResolver struct{}

func (SkipResolver) Resolve(ctx context.Context, st *status.InstallStatus, diff string) (Resolution, error) {
	return ResolutionSkip, nil
}

func (SkipResolver) CommitMessage(ctx context.Context, st *status.InstallStatus) (string, error) {
	return "", nil
}

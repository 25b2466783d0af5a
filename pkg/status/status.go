// Package status classifies declared dependencies against the cache.
//
// The evaluator is read-only: it inspects cache markers and, for
// version-controlled dependencies, the actual repository state (head
// commit, ref resolution, working-tree dirtiness) and returns pure data.
// Rendering is the caller's job, invoked once per completed evaluation.
package status

import (
	"context"
	"errors"
	"fmt"
	"strings"

	hxmerrors "github.com/hxmtool/hxm/pkg/errors"
	"github.com/hxmtool/hxm/pkg/gitvcs"
	"github.com/hxmtool/hxm/pkg/libcache"
	"github.com/hxmtool/hxm/pkg/manifest"
)

// State classifies one dependency's install state.
type State int

const (
	// Missing means no cache entry exists, or its marker is absent.
	Missing State = iota
	// MissingGit means the cache entry exists but holds no repository.
	MissingGit
	// Outdated means the installed version or commit does not match the manifest.
	Outdated
	// AlreadyInstalled means the cache agrees with the manifest.
	AlreadyInstalled
	// Conflict means a version-controlled working tree has uncommitted
	// changes, possibly combined with being on the wrong commit.
	Conflict
	// NotLocked means the manifest declares no version/ref to compare
	// against; whatever is installed is accepted but flagged.
	NotLocked
)

func (s State) String() string {
	switch s {
	case Missing:
		return "missing"
	case MissingGit:
		return "missing git clone"
	case Outdated:
		return "outdated"
	case AlreadyInstalled:
		return "installed"
	case Conflict:
		return "conflict"
	case NotLocked:
		return "not locked"
	default:
		return "unknown"
	}
}

// InstallStatus is the transient classification of one dependency.
type InstallStatus struct {
	Dep       *manifest.Dependency
	State     State
	Wanted    string // version/ref the manifest requires, if any
	Installed string // what is actually present, possibly annotated
}

// Evaluator inspects the cache and repositories to classify dependencies.
type Evaluator struct {
	Cache *libcache.Cache
	Git   gitvcs.Git
}

// Evaluate produces exactly one InstallStatus for the dependency.
// Repository-open and ref-resolution failures surface as errors rather
// than being reported as "missing": a corrupted cache entry must be
// visible to the user.
func (e *Evaluator) Evaluate(ctx context.Context, dep *manifest.Dependency) (*InstallStatus, error) {
	if !e.Cache.HasEntry(dep.Name) {
		if dep.Kind == manifest.KindGit {
			return &InstallStatus{Dep: dep, State: MissingGit, Wanted: dep.Wanted()}, nil
		}
		return &InstallStatus{Dep: dep, State: Missing, Wanted: dep.Wanted()}, nil
	}

	marker, err := e.Cache.ReadMarker(dep.Name)
	if err != nil {
		return nil, err
	}
	if marker == nil {
		return &InstallStatus{Dep: dep, State: Missing, Wanted: dep.Wanted()}, nil
	}

	switch dep.Kind {
	case manifest.KindHaxelib:
		return e.evaluateHaxelib(dep, marker), nil
	case manifest.KindGit:
		return e.evaluateGit(ctx, dep)
	case manifest.KindDev:
		// Dev dependencies are satisfied once their marker exists; they
		// are intentionally excluded from staleness detection.
		return &InstallStatus{Dep: dep, State: AlreadyInstalled, Wanted: dep.Path, Installed: marker.Value}, nil
	case manifest.KindMercurial:
		return &InstallStatus{Dep: dep, State: AlreadyInstalled, Installed: marker.Value}, nil
	default:
		return nil, hxmerrors.New(hxmerrors.ErrCodeUnsupported, "%s: unknown dependency kind", dep.Name)
	}
}

func (e *Evaluator) evaluateHaxelib(dep *manifest.Dependency, marker *libcache.Marker) *InstallStatus {
	if dep.Version == "" {
		return &InstallStatus{Dep: dep, State: NotLocked, Installed: marker.Value}
	}
	if marker.Value != dep.Version {
		return &InstallStatus{Dep: dep, State: Outdated, Wanted: dep.Version, Installed: marker.Value}
	}
	return &InstallStatus{Dep: dep, State: AlreadyInstalled, Wanted: dep.Version, Installed: dep.Version}
}

func (e *Evaluator) evaluateGit(ctx context.Context, dep *manifest.Dependency) (*InstallStatus, error) {
	if !e.Cache.HasGit(dep.Name) {
		return &InstallStatus{Dep: dep, State: MissingGit, Wanted: dep.Wanted()}, nil
	}

	dir := e.Cache.GitDir(dep.Name)

	head, err := e.Git.HeadCommit(ctx, dir, false)
	if err != nil {
		return nil, fmt.Errorf("%s: inspecting repository: %w", dep.Name, err)
	}

	if dep.Ref == "" {
		// Nothing to compare against; whatever is checked out is accepted
		// until the user locks the dependency.
		return &InstallStatus{Dep: dep, State: NotLocked, Installed: head}, nil
	}

	wrongCommit, err := e.isWrongCommit(ctx, dir, dep.Ref, head)
	if err != nil {
		return nil, fmt.Errorf("%s: resolving ref %q: %w", dep.Name, dep.Ref, err)
	}

	dirty, err := e.Git.IsDirty(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("%s: checking working tree: %w", dep.Name, err)
	}

	switch {
	case wrongCommit && dirty:
		return &InstallStatus{Dep: dep, State: Conflict, Wanted: dep.Ref,
			Installed: head + " (wrong commit + local changes)"}, nil
	case wrongCommit:
		return &InstallStatus{Dep: dep, State: Outdated, Wanted: dep.Ref,
			Installed: head + " (wrong commit)"}, nil
	case dirty:
		return &InstallStatus{Dep: dep, State: Conflict, Wanted: dep.Ref,
			Installed: head + " (local changes)"}, nil
	default:
		return &InstallStatus{Dep: dep, State: AlreadyInstalled, Wanted: dep.Ref, Installed: dep.Ref}, nil
	}
}

// isWrongCommit resolves the declared ref and compares commits, not
// symbolic names, so renamed branches and re-tagged refs compare
// correctly. A ref that does not resolve as a named reference is
// interpreted as an abbreviated commit id and compared by prefix.
func (e *Evaluator) isWrongCommit(ctx context.Context, dir, ref, head string) (bool, error) {
	target, err := e.Git.ResolveCommit(ctx, dir, ref)
	if err != nil {
		if !gitvcs.IsHex(ref) {
			return false, err
		}
		target = strings.ToLower(ref)
	}
	if strings.HasPrefix(head, target) || strings.HasPrefix(target, head) {
		return false, nil
	}
	return true, nil
}

// Reconcile evaluates every dependency in the manifest. Per-dependency
// evaluation failures do not abort the batch: the remaining dependencies
// are still classified, and the failures are returned joined. onStatus,
// when non-nil, is invoked once per completed evaluation, in manifest
// order, for incremental rendering.
func (e *Evaluator) Reconcile(ctx context.Context, m *manifest.Manifest, onStatus func(*InstallStatus)) ([]*InstallStatus, error) {
	var statuses []*InstallStatus
	var errs []error

	for i := range m.Dependencies {
		st, err := e.Evaluate(ctx, &m.Dependencies[i])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if onStatus != nil {
			onStatus(st)
		}
		statuses = append(statuses, st)
	}

	return statuses, errors.Join(errs...)
}

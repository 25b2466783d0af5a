// Package lock pins dependencies to what is currently installed.
//
// Locking mutates the manifest in memory; the caller persists it when
// the report says at least one dependency was actually locked. A partial
// failure still leaves the successful pins in place.
package lock

import (
	"context"
	"errors"
	"fmt"

	hxmerrors "github.com/hxmtool/hxm/pkg/errors"
	"github.com/hxmtool/hxm/pkg/gitvcs"
	"github.com/hxmtool/hxm/pkg/libcache"
	"github.com/hxmtool/hxm/pkg/manifest"
)

// Action is the per-dependency outcome of a lock attempt.
type Action int

const (
	// ActionLocked means the manifest entry was pinned to a new value.
	ActionLocked Action = iota
	// ActionAlreadyLocked means the entry already held the current value.
	ActionAlreadyLocked
	// ActionSkipped means the kind is never locked (dev path, mercurial).
	ActionSkipped
	// ActionErrored means the lock attempt failed for this dependency.
	ActionErrored
)

// Result is one dependency's lock outcome.
type Result struct {
	Name   string
	Action Action
	Detail string // pinned value, skip reason, or error text
}

// Report aggregates a lock run.
type Report struct {
	Results []Result
	Locked  int
	Skipped int // includes already-locked entries
	Errored int
}

func (r *Report) add(name string, action Action, detail string) {
	r.Results = append(r.Results, Result{Name: name, Action: action, Detail: detail})
	switch action {
	case ActionLocked:
		r.Locked++
	case ActionErrored:
		r.Errored++
	default:
		r.Skipped++
	}
}

// Locker pins manifest entries to installed versions and commits.
type Locker struct {
	Cache *libcache.Cache
	Git   gitvcs.Git
}

// Lock pins the named dependencies, or all of them when names is empty.
// longID selects full commit ids over shortened ones for git entries.
// The manifest is mutated in place; persist it when report.Locked > 0.
// The returned error joins per-dependency failures; the report still
// covers every selected dependency.
func (l *Locker) Lock(ctx context.Context, m *manifest.Manifest, names []string, longID bool) (*Report, error) {
	deps, err := m.Select(names)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	var errs []error
	for _, dep := range deps {
		if err := l.lockOne(ctx, dep, longID, report); err != nil {
			report.add(dep.Name, ActionErrored, err.Error())
			errs = append(errs, fmt.Errorf("%s: %w", dep.Name, err))
		}
	}
	return report, errors.Join(errs...)
}

func (l *Locker) lockOne(ctx context.Context, dep *manifest.Dependency, longID bool, report *Report) error {
	switch dep.Kind {
	case manifest.KindHaxelib:
		return l.lockHaxelib(dep, report)
	case manifest.KindGit:
		return l.lockGit(ctx, dep, longID, report)
	case manifest.KindDev:
		report.add(dep.Name, ActionSkipped, "locked by path")
		return nil
	case manifest.KindMercurial:
		report.add(dep.Name, ActionSkipped, "unsupported")
		return nil
	default:
		return hxmerrors.New(hxmerrors.ErrCodeUnsupported, "unknown dependency kind")
	}
}

func (l *Locker) lockHaxelib(dep *manifest.Dependency, report *Report) error {
	if dep.Version != "" {
		report.add(dep.Name, ActionAlreadyLocked, dep.Version)
		return nil
	}

	marker, err := l.Cache.ReadMarker(dep.Name)
	if err != nil {
		return err
	}
	if marker == nil {
		return hxmerrors.New(hxmerrors.ErrCodeNotInstalled, "not installed; install before locking")
	}

	dep.Version = marker.Value
	report.add(dep.Name, ActionLocked, marker.Value)
	return nil
}

func (l *Locker) lockGit(ctx context.Context, dep *manifest.Dependency, longID bool, report *Report) error {
	if !l.Cache.HasGit(dep.Name) {
		return hxmerrors.New(hxmerrors.ErrCodeNotInstalled, "no repository in cache; install before locking")
	}

	head, err := l.Git.HeadCommit(ctx, l.Cache.GitDir(dep.Name), !longID)
	if err != nil {
		return err
	}

	if dep.Ref == head {
		report.add(dep.Name, ActionAlreadyLocked, head)
		return nil
	}

	dep.Ref = head
	report.add(dep.Name, ActionLocked, head)
	return nil
}

// CheckResult is one dependency's read-only lock state.
type CheckResult struct {
	Name   string
	Locked bool
	Detail string
}

// CheckReport summarizes a read-only lock check.
type CheckReport struct {
	Results []CheckResult
	Locked  int
	Total   int
}

// AllLocked reports whether every dependency is considered locked.
func (r *CheckReport) AllLocked() bool { return r.Locked == r.Total }

// CheckLocked walks the manifest and reports which dependencies are
// pinned, without touching anything. Dev dependencies count as locked:
// a path is as pinned as it gets.
func CheckLocked(m *manifest.Manifest) *CheckReport {
	report := &CheckReport{}
	for i := range m.Dependencies {
		dep := &m.Dependencies[i]

		var locked bool
		var detail string
		switch dep.Kind {
		case manifest.KindHaxelib:
			locked = dep.Version != ""
			detail = dep.Version
		case manifest.KindGit, manifest.KindMercurial:
			locked = dep.Ref != ""
			detail = dep.Ref
		case manifest.KindDev:
			locked = true
			detail = dep.Path
		}

		report.Results = append(report.Results, CheckResult{Name: dep.Name, Locked: locked, Detail: detail})
		report.Total++
		if locked {
			report.Locked++
		}
	}
	return report
}

// Package manifest models the hxm.json dependency manifest.
//
// A manifest is a name-unique ordered collection of declared library
// dependencies. Each dependency has a kind (registry-hosted, git, local
// development path, or the legacy mercurial kind) that determines which
// fields are required. Required fields are optional at the type level;
// accessors fail when the kind demands a field that is absent, so an
// incomplete entry loads fine and only errors when something actually
// needs the missing value.
package manifest

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/hxmtool/hxm/pkg/errors"
)

// DefaultFile is the manifest filename used when none is specified.
const DefaultFile = "hxm.json"

// Kind identifies how a dependency is sourced.
type Kind int

const (
	// KindHaxelib is a registry-hosted dependency fetched as a versioned archive.
	KindHaxelib Kind = iota
	// KindGit is a version-controlled dependency cloned from a remote repository.
	KindGit
	// KindDev is a local development dependency pointing at a directory on disk.
	KindDev
	// KindMercurial is a legacy kind that is declared but has no install or
	// lock path. It parses and serializes; everything else reports it as
	// unsupported.
	KindMercurial
)

var kindTags = map[Kind]string{
	KindHaxelib:   "haxelib",
	KindGit:       "git",
	KindDev:       "dev",
	KindMercurial: "hg",
}

// String returns the manifest tag for the kind.
func (k Kind) String() string {
	if tag, ok := kindTags[k]; ok {
		return tag
	}
	return "unknown"
}

// MarshalJSON serializes the kind as its manifest tag.
func (k Kind) MarshalJSON() ([]byte, error) {
	tag, ok := kindTags[k]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "unknown dependency kind %d", int(k))
	}
	return json.Marshal(tag)
}

// UnmarshalJSON parses a manifest tag into a kind. Unknown tags are a load
// error so that a typo in the manifest surfaces immediately.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}
	for kind, t := range kindTags {
		if t == tag {
			*k = kind
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidManifest, "unknown dependency type %q", tag)
}

// Dependency is one declared library. Field order matches the manifest
// file format: name, type, ref, dir, path, url, version.
type Dependency struct {
	Name    string  `json:"name"`
	Kind    Kind    `json:"type"`
	Ref     string  `json:"ref,omitempty"`
	Dir     *string `json:"dir"` // reserved, serialized even when unset
	Path    string  `json:"path,omitempty"`
	URL     string  `json:"url,omitempty"`
	Version string  `json:"version,omitempty"`
}

// RequireVersion returns the declared version, failing when absent.
// Registry-hosted dependencies need a version before they can be downloaded.
func (d *Dependency) RequireVersion() (string, error) {
	if d.Version == "" {
		return "", errors.New(errors.ErrCodeMissingField, "%s: version required for haxelib dependencies", d.Name)
	}
	return d.Version, nil
}

// RequireRef returns the declared git ref, failing when absent.
func (d *Dependency) RequireRef() (string, error) {
	if d.Ref == "" {
		return "", errors.New(errors.ErrCodeMissingField, "%s: ref required for git dependencies", d.Name)
	}
	return d.Ref, nil
}

// RequireURL returns the repository URL, failing when absent.
func (d *Dependency) RequireURL() (string, error) {
	if d.URL == "" {
		return "", errors.New(errors.ErrCodeMissingField, "%s: url required for git dependencies", d.Name)
	}
	return d.URL, nil
}

// RequirePath returns the development path, failing when absent.
func (d *Dependency) RequirePath() (string, error) {
	if d.Path == "" {
		return "", errors.New(errors.ErrCodeMissingField, "%s: path required for dev dependencies", d.Name)
	}
	return d.Path, nil
}

// Wanted returns the version or ref the manifest pins this dependency to,
// or the empty string when it is unpinned or the kind has no pin concept.
func (d *Dependency) Wanted() string {
	switch d.Kind {
	case KindHaxelib:
		return d.Version
	case KindGit, KindMercurial:
		return d.Ref
	case KindDev:
		return d.Path
	default:
		return ""
	}
}

// VersionOrRef returns the pinned version (haxelib) or ref (git), failing
// when the pin is absent or the kind has neither.
func (d *Dependency) VersionOrRef() (string, error) {
	switch d.Kind {
	case KindHaxelib:
		return d.RequireVersion()
	case KindGit:
		return d.RequireRef()
	default:
		return "", errors.New(errors.ErrCodeUnsupported, "%s: no version or ref for %s dependencies", d.Name, d.Kind)
	}
}

// Manifest is the ordered collection of declared dependencies.
type Manifest struct {
	Dependencies []Dependency `json:"dependencies"`
}

// Get returns the dependency with the given name. Lookup is case-sensitive.
func (m *Manifest) Get(name string) (*Dependency, error) {
	for i := range m.Dependencies {
		if m.Dependencies[i].Name == name {
			return &m.Dependencies[i], nil
		}
	}
	return nil, errors.New(errors.ErrCodeUnknownLibrary, "library %q not found in manifest", name)
}

// Has reports whether a dependency with the given name exists.
func (m *Manifest) Has(name string) bool {
	_, err := m.Get(name)
	return err == nil
}

// Upsert replaces the dependency with the same name, or appends it.
func (m *Manifest) Upsert(dep Dependency) {
	for i := range m.Dependencies {
		if m.Dependencies[i].Name == dep.Name {
			m.Dependencies[i] = dep
			return
		}
	}
	m.Dependencies = append(m.Dependencies, dep)
}

// Remove deletes the dependency with the given name. Returns true if found.
func (m *Manifest) Remove(name string) bool {
	for i := range m.Dependencies {
		if m.Dependencies[i].Name == name {
			m.Dependencies = append(m.Dependencies[:i], m.Dependencies[i+1:]...)
			return true
		}
	}
	return false
}

// Select returns the dependencies matching the given names, or all
// dependencies when names is empty. Unknown names are an error.
func (m *Manifest) Select(names []string) ([]*Dependency, error) {
	if len(names) == 0 {
		deps := make([]*Dependency, len(m.Dependencies))
		for i := range m.Dependencies {
			deps[i] = &m.Dependencies[i]
		}
		return deps, nil
	}

	var deps []*Dependency
	for _, name := range names {
		dep, err := m.Get(name)
		if err != nil {
			return nil, err
		}
		deps = append(deps, dep)
	}
	return deps, nil
}

// Sort orders dependencies case-insensitively by name. Entries whose
// lowercased names collide keep their original relative order.
func (m *Manifest) Sort() {
	sort.SliceStable(m.Dependencies, func(i, j int) bool {
		return strings.ToLower(m.Dependencies[i].Name) < strings.ToLower(m.Dependencies[j].Name)
	})
}

func (m *Manifest) String() string {
	return fmt.Sprintf("manifest with %d dependencies", len(m.Dependencies))
}

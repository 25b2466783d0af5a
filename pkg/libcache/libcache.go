// Package libcache manages the on-disk library cache directory.
//
// Each installed library lives at <root>/<escaped-name>/, where every "."
// in the library name is replaced with ",". The entry carries a marker
// file describing what is installed: ".current" holds the registry version
// (or the literal "git" for clones), ".dev" holds the absolute path of a
// local development checkout. Registry payloads are extracted into an
// escaped-version subdirectory; git clones live under "git/".
//
// Nothing outside this package and the install backends touches the cache
// tree directly.
package libcache

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hxmtool/hxm/pkg/errors"
)

// DefaultRoot is the cache directory name used when none is specified.
const DefaultRoot = ".haxelib"

// GitMarker is the .current marker value for version-controlled installs.
const GitMarker = "git"

// EscapeName maps a library name to its cache directory segment.
// The only escaping rule is "." to ",".
func EscapeName(name string) string {
	return strings.ReplaceAll(name, ".", ",")
}

// Marker is the contents of a cache entry's marker file.
type Marker struct {
	Value string // version string, "git", or a dev path
	Dev   bool   // true when read from .dev rather than .current
}

// Cache resolves library names to cache locations and reads/writes markers.
type Cache struct {
	root string
}

// New creates a cache rooted at the given directory.
func New(root string) *Cache {
	if root == "" {
		root = DefaultRoot
	}
	return &Cache{root: root}
}

// Root returns the cache root directory.
func (c *Cache) Root() string { return c.root }

// EntryDir returns the cache directory for a library.
func (c *Cache) EntryDir(name string) string {
	return filepath.Join(c.root, EscapeName(name))
}

// GitDir returns the git working copy directory for a library.
func (c *Cache) GitDir(name string) string {
	return filepath.Join(c.EntryDir(name), "git")
}

// VersionDir returns the extraction target for a registry version.
func (c *Cache) VersionDir(name, version string) string {
	return filepath.Join(c.EntryDir(name), EscapeName(version))
}

// HasEntry reports whether a cache entry exists for the library.
func (c *Cache) HasEntry(name string) bool {
	_, err := os.Stat(c.EntryDir(name))
	return err == nil
}

// HasGit reports whether the library has a git working copy.
func (c *Cache) HasGit(name string) bool {
	_, err := os.Stat(c.GitDir(name))
	return err == nil
}

// ReadMarker reads the library's marker file. The .dev marker wins when
// both exist. A missing entry or missing marker returns (nil, nil); other
// read failures are cache-state errors.
func (c *Cache) ReadMarker(name string) (*Marker, error) {
	dir := c.EntryDir(name)

	for _, m := range []struct {
		file string
		dev  bool
	}{
		{".dev", true},
		{".current", false},
	} {
		data, err := os.ReadFile(filepath.Join(dir, m.file))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCacheState, err, "%s: reading %s marker", name, m.file)
		}
		return &Marker{Value: string(data), Dev: m.dev}, nil
	}
	return nil, nil
}

// WriteCurrent writes the .current marker, creating the entry directory
// as needed.
func (c *Cache) WriteCurrent(name, value string) error {
	return c.writeMarker(name, ".current", value)
}

// WriteDev writes the .dev marker with the given absolute path.
func (c *Cache) WriteDev(name, absPath string) error {
	return c.writeMarker(name, ".dev", absPath)
}

func (c *Cache) writeMarker(name, file, value string) error {
	dir := c.EntryDir(name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeCacheState, err, "%s: creating cache entry", name)
	}
	if err := os.WriteFile(filepath.Join(dir, file), []byte(value), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeCacheState, err, "%s: writing %s marker", name, file)
	}
	return nil
}

// RemoveEntry deletes a library's cache entry wholesale.
func (c *Cache) RemoveEntry(name string) error {
	return os.RemoveAll(c.EntryDir(name))
}

// Init creates the cache root directory.
func (c *Cache) Init() error {
	return os.MkdirAll(c.root, 0o755)
}

// Clean removes the whole cache tree.
func (c *Cache) Clean() error {
	return os.RemoveAll(c.root)
}

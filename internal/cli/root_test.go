package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/hxmtool/hxm/pkg/manifest"
)

// runCommand executes the root command with the given args from dir.
func runCommand(t *testing.T, dir string, args ...string) error {
	t.Helper()

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(cwd) })

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	return root.Execute()
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()

	if err := runCommand(t, dir, "init"); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(dir, manifest.DefaultFile)); err != nil {
		t.Errorf("manifest not created: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".haxelib")); err != nil {
		t.Errorf("cache not created: %v", err)
	}

	// A second init must refuse to overwrite.
	if err := runCommand(t, dir, "init"); err == nil {
		t.Error("expected error for repeated init")
	}
}

func TestListCommand(t *testing.T) {
	dir := t.TempDir()
	m := &manifest.Manifest{Dependencies: []manifest.Dependency{
		{Name: "format", Kind: manifest.KindHaxelib, Version: "3.4.2"},
	}}
	if err := manifest.Save(m, filepath.Join(dir, manifest.DefaultFile)); err != nil {
		t.Fatal(err)
	}

	if err := runCommand(t, dir, "list"); err != nil {
		t.Fatal(err)
	}
	if err := runCommand(t, dir, "list", "nope"); err == nil {
		t.Error("expected error for unknown library")
	}
}

func TestLockCheckCommand(t *testing.T) {
	dir := t.TempDir()
	m := &manifest.Manifest{Dependencies: []manifest.Dependency{
		{Name: "format", Kind: manifest.KindHaxelib},
	}}
	if err := manifest.Save(m, filepath.Join(dir, manifest.DefaultFile)); err != nil {
		t.Fatal(err)
	}

	if err := runCommand(t, dir, "lock", "check"); err == nil {
		t.Fatal("expected failure for unlocked manifest")
	}

	m.Dependencies[0].Version = "3.4.2"
	if err := manifest.Save(m, filepath.Join(dir, manifest.DefaultFile)); err != nil {
		t.Fatal(err)
	}
	if err := runCommand(t, dir, "lock", "check"); err != nil {
		t.Fatal(err)
	}
}

func TestToHxmlCommand(t *testing.T) {
	dir := t.TempDir()
	m := &manifest.Manifest{Dependencies: []manifest.Dependency{
		{Name: "format", Kind: manifest.KindHaxelib, Version: "3.4.2"},
	}}
	if err := manifest.Save(m, filepath.Join(dir, manifest.DefaultFile)); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "build.hxml")
	if err := runCommand(t, dir, "to-hxml", out); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "-lib format:3.4.2\n" {
		t.Errorf("hxml = %q", data)
	}
}

func TestRemoveCommand(t *testing.T) {
	dir := t.TempDir()
	m := &manifest.Manifest{Dependencies: []manifest.Dependency{
		{Name: "format", Kind: manifest.KindHaxelib, Version: "3.4.2"},
	}}
	path := filepath.Join(dir, manifest.DefaultFile)
	if err := manifest.Save(m, path); err != nil {
		t.Fatal(err)
	}

	if err := runCommand(t, dir, "remove", "format"); err != nil {
		t.Fatal(err)
	}

	got, err := manifest.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Dependencies) != 0 {
		t.Errorf("dependencies = %+v", got.Dependencies)
	}

	if err := runCommand(t, dir, "remove", "format"); err == nil {
		t.Error("expected error removing unknown library")
	}
}

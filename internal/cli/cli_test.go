package cli

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hxmtool/hxm/pkg/installer"
	"github.com/hxmtool/hxm/pkg/libcache"
	"github.com/hxmtool/hxm/pkg/manifest"
	"github.com/hxmtool/hxm/pkg/registry"
	"github.com/hxmtool/hxm/pkg/status"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Registry != registry.DefaultHost {
		t.Errorf("registry = %q", cfg.Registry)
	}
	if cfg.Manifest != manifest.DefaultFile {
		t.Errorf("manifest = %q", cfg.Manifest)
	}
	if cfg.CacheDir != libcache.DefaultRoot {
		t.Errorf("cache dir = %q", cfg.CacheDir)
	}
}

func TestConfigOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, configFile)
	content := "registry = \"registry.example.com\"\ncache_dir = \".libs\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(cwd) })

	cfg := LoadConfig()
	if cfg.Registry != "registry.example.com" {
		t.Errorf("registry = %q", cfg.Registry)
	}
	if cfg.CacheDir != ".libs" {
		t.Errorf("cache dir = %q", cfg.CacheDir)
	}
	if cfg.Manifest != manifest.DefaultFile {
		t.Errorf("manifest should keep default, got %q", cfg.Manifest)
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func conflictStatus() *status.InstallStatus {
	return &status.InstallStatus{
		Dep:       &manifest.Dependency{Name: "flixel", Kind: manifest.KindGit},
		State:     status.Conflict,
		Wanted:    "v5.0.0",
		Installed: "abc123 (local changes)",
	}
}

func TestConflictModelSelection(t *testing.T) {
	m := NewConflictModel(conflictStatus(), "1 file changed")

	// Move to the second choice and select it.
	next, _ := m.Update(keyMsg("down"))
	next, _ = next.Update(keyMsg("enter"))

	got := next.(ConflictModel).Resolution()
	if got != installer.ResolutionDiscard {
		t.Errorf("resolution = %v, want discard", got)
	}
}

func TestConflictModelQuitSkips(t *testing.T) {
	m := NewConflictModel(conflictStatus(), "")

	next, _ := m.Update(keyMsg("esc"))
	if got := next.(ConflictModel).Resolution(); got != installer.ResolutionSkip {
		t.Errorf("resolution = %v, want skip", got)
	}
}

func TestConflictModelCursorBounds(t *testing.T) {
	m := NewConflictModel(conflictStatus(), "")

	var model tea.Model = m
	for i := 0; i < 10; i++ {
		model, _ = model.Update(keyMsg("down"))
	}
	if cursor := model.(ConflictModel).Cursor; cursor != len(conflictChoices)-1 {
		t.Errorf("cursor = %d", cursor)
	}

	for i := 0; i < 10; i++ {
		model, _ = model.Update(keyMsg("k"))
	}
	if cursor := model.(ConflictModel).Cursor; cursor != 0 {
		t.Errorf("cursor = %d after moving up", cursor)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{3 << 20, "3.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

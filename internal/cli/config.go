package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/hxmtool/hxm/pkg/libcache"
	"github.com/hxmtool/hxm/pkg/manifest"
	"github.com/hxmtool/hxm/pkg/registry"
)

// configFile is looked up in the working directory, then in the user's
// home directory.
const configFile = ".hxm.toml"

// Config is the optional TOML configuration overlaying the defaults.
type Config struct {
	Registry string `toml:"registry"`  // registry host, default lib.haxe.org
	Manifest string `toml:"manifest"`  // manifest path, default hxm.json
	CacheDir string `toml:"cache_dir"` // cache root, default .haxelib
}

func defaultConfig() Config {
	return Config{
		Registry: registry.DefaultHost,
		Manifest: manifest.DefaultFile,
		CacheDir: libcache.DefaultRoot,
	}
}

// LoadConfig reads the first config file found and merges it over the
// defaults. A missing or unreadable file silently yields the defaults;
// configuration is optional.
func LoadConfig() Config {
	cfg := defaultConfig()

	for _, path := range configPaths() {
		var file Config
		if _, err := toml.DecodeFile(path, &file); err != nil {
			continue
		}
		if file.Registry != "" {
			cfg.Registry = file.Registry
		}
		if file.Manifest != "" {
			cfg.Manifest = file.Manifest
		}
		if file.CacheDir != "" {
			cfg.CacheDir = file.CacheDir
		}
		break
	}
	return cfg
}

func configPaths() []string {
	paths := []string{configFile}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, configFile))
	}
	return paths
}

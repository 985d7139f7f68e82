// Package config loads basicc's persistent configuration from a TOML file,
// grounded on the same BurntSushi/toml decode-into-struct pattern used
// elsewhere in the retrieved example pack.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds every setting basicc reads from its config file.
type Config struct {
	Compile struct {
		BoundsChecks bool   `toml:"bounds_checks"`
		MaxDiag      int    `toml:"max_diagnostics"`
		PrintAST     bool   `toml:"print_ast"`
		DefaultOut   string `toml:"default_out"`
	} `toml:"compile"`

	Log struct {
		Level string `toml:"level"`
		JSON  bool   `toml:"json"`
	} `toml:"log"`
}

// DefaultConfig returns the configuration basicc uses when no config file is
// present.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Compile.BoundsChecks = true
	cfg.Compile.MaxDiag = 100
	cfg.Compile.PrintAST = false
	cfg.Compile.DefaultOut = "a.out.il"

	cfg.Log.Level = "info"
	cfg.Log.JSON = false

	return cfg
}

// PathForOS returns the platform-specific config file path.
func PathForOS() string {
	var dir string

	switch runtime.GOOS {
	case "windows":
		dir = os.Getenv("APPDATA")
		if dir == "" {
			dir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}

		dir = filepath.Join(dir, "basicc")
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "basicc.toml"
		}

		dir = filepath.Join(home, ".config", "basicc")
	}

	return filepath.Join(dir, "basicc.toml")
}

// Load reads configuration from the default per-OS location, falling back
// to DefaultConfig when no file exists.
func Load() (*Config, error) {
	return LoadFrom(PathForOS())
}

// LoadFrom reads configuration from path, falling back to DefaultConfig when
// path does not exist.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

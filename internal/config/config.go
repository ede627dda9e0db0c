// Package config loads ccmirror's user configuration.
//
// Priority, highest first: CCMIRROR_* environment variables, the config
// file, built-in defaults. Command-line flags are applied on top by the
// commands themselves.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// DefaultRootName is the directory under $HOME holding all variants.
	DefaultRootName = ".cc-mirror"
	configFileName  = "config.json"
	envPrefix       = "CCMIRROR_"

	DefaultNpmPackage = "@anthropic-ai/claude-code"
	DefaultNpmVersion = "2.1.7"
	TweakccVersion    = "3.2.2"
)

// Config holds the resolved user configuration.
type Config struct {
	Root       string `koanf:"root" validate:"required"`
	BinDir     string `koanf:"bin_dir" validate:"required"`
	NpmPackage string `koanf:"npm_package" validate:"required"`
	NpmVersion string `koanf:"npm_version" validate:"required"`
	NpmCommand string `koanf:"npm_command" validate:"required"`
	// TweakCommand is the customization tool invocation, split on spaces.
	TweakCommand string `koanf:"tweak_command" validate:"required"`
	// TeamMode is the capability flag deciding whether the team-mode step
	// exists in the create pipeline at all.
	TeamMode bool `koanf:"team_mode"`
}

// DefaultRoot returns ~/.cc-mirror.
func DefaultRoot() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, DefaultRootName)
}

// DefaultBinDir returns ~/.local/bin, or the root's bin directory on Windows.
func DefaultBinDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(DefaultRoot(), "bin")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "bin")
}

// DefaultTweakCommand is the customization tool invocation used when none
// is configured.
func DefaultTweakCommand() []string {
	return []string{"npx", "tweakcc@" + TweakccVersion}
}

// Defaults returns the built-in configuration values keyed by koanf path.
func Defaults() map[string]any {
	return map[string]any{
		"root":          DefaultRoot(),
		"bin_dir":       DefaultBinDir(),
		"npm_package":   DefaultNpmPackage,
		"npm_version":   DefaultNpmVersion,
		"npm_command":   "npm",
		"tweak_command": strings.Join(DefaultTweakCommand(), " "),
		"team_mode":     false,
	}
}

// DefaultPath returns ~/.cc-mirror/config.json.
func DefaultPath() string {
	return filepath.Join(DefaultRoot(), configFileName)
}

// Load reads configuration from path (DefaultPath when empty) and the
// environment. A missing file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	for key, value := range Defaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("setting default %s: %w", key, err)
		}
	}

	if path == "" {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return nil, fmt.Errorf("loading config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.Root = ExpandHome(cfg.Root)
	cfg.BinDir = ExpandHome(cfg.BinDir)
	return &cfg, nil
}

// TweakArgs splits TweakCommand into an argument vector.
func (c *Config) TweakArgs() []string {
	return strings.Fields(c.TweakCommand)
}

// envTransform maps CCMIRROR_BIN_DIR to bin_dir.
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, envPrefix))
}

// ExpandHome expands a leading ~ to the user's home directory.
func ExpandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		if p == "~" {
			return home
		}
		return filepath.Join(home, p[2:])
	}
	return p
}

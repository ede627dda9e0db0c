package core

import (
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
)

var variantNameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

const maxVariantNameLen = 64

// ValidateVariantName checks that name is usable as a directory and a
// launcher file name.
func ValidateVariantName(name string) error {
	switch {
	case name == "":
		return &ValidationError{Field: "variant name", Reason: "name is required"}
	case len(name) > maxVariantNameLen:
		return &ValidationError{Field: "variant name", Value: name, Reason: "name is too long"}
	case !variantNameRe.MatchString(name) || strings.Contains(name, ".."):
		return &ValidationError{Field: "variant name", Value: name,
			Reason: "use letters, digits, dot, underscore or hyphen"}
	}
	return nil
}

// VariantPaths are the resolved filesystem locations of one variant.
type VariantPaths struct {
	Root        string
	BinDir      string
	VariantDir  string
	ConfigDir   string
	TweakDir    string
	NpmDir      string
	WrapperPath string
}

// ResolvePaths lays out a variant under root. ~ is expanded in root and
// binDir.
func ResolvePaths(root, binDir, name string) VariantPaths {
	root = expandPath(root)
	binDir = expandPath(binDir)
	variantDir := filepath.Join(root, name)
	return VariantPaths{
		Root:        root,
		BinDir:      binDir,
		VariantDir:  variantDir,
		ConfigDir:   filepath.Join(variantDir, "config"),
		TweakDir:    filepath.Join(variantDir, "tweakcc"),
		NpmDir:      filepath.Join(variantDir, "npm"),
		WrapperPath: WrapperPath(binDir, name),
	}
}

// ManifestPath returns the manifest location inside variantDir.
func ManifestPath(variantDir string) string {
	return filepath.Join(variantDir, ManifestFile)
}

// WrapperPath returns the launcher path for a variant. On Windows the
// launcher is a .cmd file.
func WrapperPath(binDir, name string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(binDir, name+".cmd")
	}
	return filepath.Join(binDir, name)
}

// EntryPointPath returns the CLI entry point of pkg installed under npmDir.
func EntryPointPath(npmDir, pkg string) string {
	parts := append([]string{npmDir, "node_modules"}, strings.Split(pkg, "/")...)
	return filepath.Join(append(parts, "cli.js")...)
}

// SettingsPath returns configDir/settings.json.
func SettingsPath(configDir string) string {
	return filepath.Join(configDir, "settings.json")
}

// ClaudeConfigPath returns configDir/.claude.json.
func ClaudeConfigPath(configDir string) string {
	return filepath.Join(configDir, ".claude.json")
}

// TweakConfigPath returns tweakDir/config.json.
func TweakConfigPath(tweakDir string) string {
	return filepath.Join(tweakDir, "config.json")
}

// SystemPromptsDir returns tweakDir/system-prompts.
func SystemPromptsDir(tweakDir string) string {
	return filepath.Join(tweakDir, "system-prompts")
}

// SkillsDir returns configDir/skills.
func SkillsDir(configDir string) string {
	return filepath.Join(configDir, "skills")
}

// expandPath expands a leading ~ to the home directory.
func expandPath(p string) string {
	if strings.HasPrefix(p, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, p[2:])
	}
	if p == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	return p
}

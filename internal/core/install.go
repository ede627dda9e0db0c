package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

const defaultInstallTimeout = 10 * time.Minute

var (
	// packageNameRe allows "name" and "@scope/name". Anything else, including
	// shell metacharacters and whitespace, is rejected.
	packageNameRe = regexp.MustCompile(`^(@[A-Za-z0-9][A-Za-z0-9._-]*/)?[A-Za-z0-9][A-Za-z0-9._-]*$`)
	// distTagRe allows tags such as "latest" or "next".
	distTagRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9._-]*$`)
)

// ValidatePackageName checks an npm package name against the allow-list.
func ValidatePackageName(name string) error {
	if name == "" {
		return &ValidationError{Field: "npm package", Reason: "name is required"}
	}
	if !packageNameRe.MatchString(name) {
		return &ValidationError{Field: "npm package", Value: name,
			Reason: "expected name or @scope/name with letters, digits, '.', '_' or '-'"}
	}
	return nil
}

// ValidatePackageVersion accepts a semantic version or a dist-tag.
func ValidatePackageVersion(version string) error {
	if version == "" {
		return &ValidationError{Field: "npm version", Reason: "version is required"}
	}
	if strings.ContainsAny(version, " \t\r\n") {
		return &ValidationError{Field: "npm version", Value: version, Reason: "must not contain whitespace"}
	}
	if _, err := semver.StrictNewVersion(strings.TrimPrefix(version, "v")); err == nil {
		return nil
	}
	if distTagRe.MatchString(version) {
		return nil
	}
	return &ValidationError{Field: "npm version", Value: version,
		Reason: "expected a semantic version such as 2.1.7 or a dist-tag"}
}

// InstallOptions configures a package install.
type InstallOptions struct {
	// Dir is the isolated prefix the package is installed into.
	Dir     string
	Package string
	Version string
	// NpmCommand is the package manager executable. Defaults to "npm".
	NpmCommand string
	Stdio      Stdio
	Timeout    time.Duration
}

// InstallResult describes a successful install.
type InstallResult struct {
	EntryPoint string
	// ClaudeOrig records the installed source as npm:<pkg>@<version>.
	ClaudeOrig string
}

// InstallOutcome is delivered by InstallAsync.
type InstallOutcome struct {
	Result *InstallResult
	Err    error
}

// Install validates the package and version, then runs the package manager
// into opts.Dir. Re-running with a different version reconciles to it.
// Nothing is created or spawned when validation fails.
func Install(ctx context.Context, opts InstallOptions) (*InstallResult, error) {
	if err := ValidatePackageName(opts.Package); err != nil {
		return nil, err
	}
	if err := ValidatePackageVersion(opts.Version); err != nil {
		return nil, err
	}
	if opts.Dir == "" {
		return nil, &ValidationError{Field: "install dir", Reason: "directory is required"}
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", opts.Dir, err)
	}
	if err := ensurePrivatePackageJSON(opts.Dir); err != nil {
		return nil, err
	}

	npm := opts.NpmCommand
	if npm == "" {
		npm = "npm"
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = defaultInstallTimeout
	}
	spec := commandSpec{
		Name: npm,
		Args: []string{
			"install", "--prefix", opts.Dir,
			"--no-audit", "--no-fund", "--save-exact",
			opts.Package + "@" + opts.Version,
		},
		Stdio:   opts.Stdio,
		Timeout: timeout,
	}
	if _, _, err := runCommand(ctx, spec); err != nil {
		return nil, fmt.Errorf("installing %s@%s: %w", opts.Package, opts.Version, err)
	}

	entry := EntryPointPath(opts.Dir, opts.Package)
	if !fileExists(entry) {
		return nil, fmt.Errorf("installing %s@%s: entry point %s missing after install",
			opts.Package, opts.Version, entry)
	}
	return &InstallResult{
		EntryPoint: entry,
		ClaudeOrig: "npm:" + opts.Package + "@" + opts.Version,
	}, nil
}

// InstallAsync runs Install on its own goroutine. The channel receives
// exactly one outcome and is then closed.
func InstallAsync(ctx context.Context, opts InstallOptions) <-chan InstallOutcome {
	ch := make(chan InstallOutcome, 1)
	go func() {
		defer close(ch)
		res, err := Install(ctx, opts)
		ch <- InstallOutcome{Result: res, Err: err}
	}()
	return ch
}

// ensurePrivatePackageJSON keeps the prefix from resolving a parent
// project's package.json.
func ensurePrivatePackageJSON(dir string) error {
	path := filepath.Join(dir, "package.json")
	if fileExists(path) {
		return nil
	}
	return writeJSONFile(path, map[string]any{
		"name":    "cc-mirror-variant",
		"private": true,
	})
}

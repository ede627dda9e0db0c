// Package skill installs the skill bundles shipped with ccmirror into a
// variant's config directory.
package skill

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Bundled skill names.
const (
	DevBrowser    = "dev-browser"
	Orchestration = "orchestration"
	TaskManager   = "task-manager"
)

// managedMarker marks a skill directory as written by ccmirror. Directories
// without it belong to the user and are never overwritten or removed.
const managedMarker = ".cc-mirror-managed"

//go:embed bundles
var bundleFS embed.FS

// Status is the outcome of an install or remove.
type Status string

const (
	StatusInstalled Status = "installed"
	StatusUpdated   Status = "updated"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
	StatusRemoved   Status = "removed"
)

// Result reports what happened to one skill.
type Result struct {
	Name    string
	Status  Status
	Path    string
	Message string
}

// Options configures Install.
type Options struct {
	// Update refreshes an installed managed skill even when its version is
	// not older than the bundled one.
	Update bool
}

// Names returns the bundled skill names, sorted.
func Names() []string {
	entries, _ := fs.ReadDir(bundleFS, "bundles")
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// BundledVersion returns metadata.version of the bundled skill.
func BundledVersion(name string) (string, error) {
	f, err := bundleFS.Open(path.Join("bundles", name, skillFileName))
	if err != nil {
		return "", fmt.Errorf("unknown skill %q", name)
	}
	defer func() { _ = f.Close() }()
	fm, err := parseFrontmatter(f)
	if err != nil {
		return "", err
	}
	return fm.Metadata.Version, nil
}

// Install copies the bundled skill into skillsDir/name. An existing managed
// copy is refreshed when it is older than the bundle or opts.Update is set.
func Install(skillsDir, name string, opts Options) Result {
	res := Result{Name: name, Path: filepath.Join(skillsDir, name)}

	bundled, err := BundledVersion(name)
	if err != nil {
		res.Status = StatusFailed
		res.Message = err.Error()
		return res
	}

	existing := dirExists(res.Path)
	if existing {
		if !fileExists(filepath.Join(res.Path, managedMarker)) {
			res.Status = StatusSkipped
			res.Message = "a user-managed skill with this name exists"
			return res
		}
		if !opts.Update && !isOlder(installedVersion(res.Path), bundled) {
			res.Status = StatusSkipped
			res.Message = "already up to date"
			return res
		}
	}

	if err := copyBundle(name, res.Path); err != nil {
		res.Status = StatusFailed
		res.Message = err.Error()
		return res
	}
	res.Status = StatusInstalled
	if existing {
		res.Status = StatusUpdated
	}
	return res
}

// Remove deletes a managed skill from skillsDir. User-managed directories
// are skipped.
func Remove(skillsDir, name string) Result {
	res := Result{Name: name, Path: filepath.Join(skillsDir, name)}
	switch {
	case !dirExists(res.Path):
		res.Status = StatusSkipped
		res.Message = "not installed"
	case !fileExists(filepath.Join(res.Path, managedMarker)):
		res.Status = StatusSkipped
		res.Message = "user-managed skill left in place"
	default:
		if err := os.RemoveAll(res.Path); err != nil {
			res.Status = StatusFailed
			res.Message = err.Error()
			return res
		}
		res.Status = StatusRemoved
	}
	return res
}

func copyBundle(name, dst string) error {
	if err := os.RemoveAll(dst); err != nil {
		return fmt.Errorf("clearing %s: %w", dst, err)
	}
	root := path.Join("bundles", name)
	err := fs.WalkDir(bundleFS, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(p, root), "/")
		target := filepath.Join(dst, filepath.FromSlash(rel))
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := bundleFS.ReadFile(p)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
	if err != nil {
		return fmt.Errorf("copying skill %s: %w", name, err)
	}
	return os.WriteFile(filepath.Join(dst, managedMarker), []byte(name+"\n"), 0o644)
}

func installedVersion(dir string) string {
	f, err := os.Open(filepath.Join(dir, skillFileName))
	if err != nil {
		return ""
	}
	defer func() { _ = f.Close() }()
	fm, err := parseFrontmatter(f)
	if err != nil {
		return ""
	}
	return fm.Metadata.Version
}

// isOlder reports whether installed is older than bundled. Unparsable or
// missing installed versions count as older.
func isOlder(installed, bundled string) bool {
	b, err := semver.NewVersion(bundled)
	if err != nil {
		return false
	}
	i, err := semver.NewVersion(installed)
	if err != nil {
		return true
	}
	return i.LessThan(b)
}

func dirExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// Package pipeline builds and updates variants as an ordered list of steps
// sharing one BuildContext. The same steps run in two modes: blocking,
// where Build and Update return when done, and cooperative, where Start
// returns a Run whose events can drive a UI loop.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ccmirror/ccmirror/internal/config"
	"github.com/ccmirror/ccmirror/internal/core"
	"github.com/ccmirror/ccmirror/internal/core/brand"
	"github.com/ccmirror/ccmirror/internal/core/gate"
	"github.com/ccmirror/ccmirror/internal/core/promptpack"
	"github.com/ccmirror/ccmirror/internal/core/provider"
	"github.com/ccmirror/ccmirror/internal/log"
)

// Options configure a Builder or Updater. The zero value is usable.
type Options struct {
	// TeamModeSupported decides whether the team-mode step is part of the
	// create pipeline. It is fixed for the lifetime of the Builder.
	TeamModeSupported bool

	// NpmCommand is the package manager executable. Defaults to "npm".
	NpmCommand string
	// TweakCommand is the customization tool invocation. Defaults to
	// config.DefaultTweakCommand().
	TweakCommand []string

	InstallTimeout time.Duration
	TweakTimeout   time.Duration

	// GateWindow bounds the team-mode gate search. Zero means
	// gate.DefaultWindow.
	GateWindow int

	// Home and Shell select the shell profile written by the shell-env
	// step. Empty values use the user's home and $SHELL.
	Home  string
	Shell string

	Logger log.Logger
	// Now is the clock used for manifest timestamps.
	Now func() time.Time
	// OnProgress receives step progress in blocking mode.
	OnProgress func(Progress)
}

func (o Options) logger() log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.Default()
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o Options) tweakRunner() core.TweakRunner {
	cmd := o.TweakCommand
	if len(cmd) == 0 {
		cmd = config.DefaultTweakCommand()
	}
	return core.TweakRunner{Command: cmd, Timeout: o.TweakTimeout}
}

// Preferences are the resolved per-variant choices for one run.
type Preferences struct {
	NpmPackage string
	NpmVersion string
	// BrandKey is the resolved brand, or "" for none.
	BrandKey string

	// PromptPack is the stored preference; PromptPackEnabled also
	// requires that customizations are applied.
	PromptPack        bool
	PromptPackEnabled bool
	SkillInstall      bool
	ShellEnv          bool
	SkillUpdate       bool
	NoTweak           bool
	Stdio             core.Stdio
}

// State is mutable data passed between steps.
type State struct {
	BinaryPath      string
	ClaudeOrig      string
	TweakResult     *core.TweakResult
	TeamModeEnabled bool
	Meta            *core.VariantMeta
}

// BuildContext is shared by every step of one create or update run.
// Exactly one of Create and Update is set.
type BuildContext struct {
	Context     context.Context
	Name        string
	ProviderKey string
	Provider    provider.Template

	Create *core.CreateParams
	Update *core.UpdateOptions

	Paths core.VariantPaths
	Prefs Preferences
	State State
	Notes []string

	Log log.Logger

	opts        Options
	cooperative bool
	step        string
	progress    func(Progress)
}

// IsUpdate reports whether the run updates an existing variant.
func (c *BuildContext) IsUpdate() bool { return c.Update != nil }

// Report publishes a progress message for the current step.
func (c *BuildContext) Report(msg string) {
	c.Log.Debug(msg, "step", c.step)
	if c.progress != nil {
		c.progress(Progress{Step: c.step, Message: msg})
	}
}

// Note records a user-facing message for the final summary.
func (c *BuildContext) Note(msg string) {
	c.Notes = append(c.Notes, msg)
}

// Notef is Note with formatting.
func (c *BuildContext) Notef(format string, args ...any) {
	c.Note(fmt.Sprintf(format, args...))
}

// warn logs err and records it as a note; the run continues.
func (c *BuildContext) warn(what string, err error) {
	c.Log.Warn(what+" failed", "step", c.step, "error", err)
	c.Notef("Warning: %s failed: %v", what, err)
}

func (c *BuildContext) patcher() gate.Patcher {
	return gate.Patcher{Window: c.opts.GateWindow}
}

func (c *BuildContext) stdio() core.Stdio {
	if c.cooperative {
		return core.StdioPipe
	}
	return c.Prefs.Stdio
}

// entryPoint is the installed cli.js for the variant's package.
func (c *BuildContext) entryPoint() string {
	return core.EntryPointPath(c.Paths.NpmDir, c.Prefs.NpmPackage)
}

// newCreateContext validates params and resolves paths and preferences.
// Nothing on disk is touched.
func newCreateContext(ctx context.Context, opts Options, params core.CreateParams) (*BuildContext, error) {
	if err := core.ValidateVariantName(params.Name); err != nil {
		return nil, err
	}
	tmpl, err := provider.MustGet(params.ProviderKey)
	if err != nil {
		return nil, &core.ValidationError{Field: "provider", Value: params.ProviderKey, Reason: err.Error()}
	}
	for _, kv := range params.ExtraEnv {
		if k, _, ok := strings.Cut(kv, "="); !ok || strings.TrimSpace(k) == "" {
			return nil, &core.ValidationError{Field: "env", Value: kv, Reason: "expected KEY=VALUE"}
		}
	}

	prefs := Preferences{
		NpmPackage:  firstNonEmpty(params.NpmPackage, config.DefaultNpmPackage),
		NpmVersion:  firstNonEmpty(params.NpmVersion, config.DefaultNpmVersion),
		NoTweak:     params.NoTweak,
		SkillUpdate: params.SkillUpdate,
		Stdio:       stdioOrDefault(params.TweakStdio),
	}
	if err := validatePackage(prefs); err != nil {
		return nil, err
	}

	requested := params.Brand
	if requested == "" {
		requested = brand.Auto
	}
	if prefs.BrandKey, err = brand.Resolve(requested, tmpl.Key); err != nil {
		return nil, &core.ValidationError{Field: "brand", Value: params.Brand, Reason: err.Error()}
	}

	prefs.PromptPack = core.BoolValue(params.PromptPack, defaultPromptPack(tmpl))
	prefs.PromptPackEnabled = prefs.PromptPack && !prefs.NoTweak
	prefs.SkillInstall = core.BoolValue(params.SkillInstall, defaultSkillInstall(tmpl.Key))
	prefs.ShellEnv = core.BoolValue(params.ShellEnv, tmpl.Key == "zai")

	root := firstNonEmpty(params.RootDir, config.DefaultRoot())
	binDir := firstNonEmpty(params.BinDir, config.DefaultBinDir())

	c := &BuildContext{
		Context:     ctx,
		Name:        params.Name,
		ProviderKey: tmpl.Key,
		Provider:    tmpl,
		Create:      &params,
		Paths:       core.ResolvePaths(root, binDir, params.Name),
		Prefs:       prefs,
		Log:         opts.logger().With("variant", params.Name),
		opts:        opts,
	}
	return c, nil
}

// newUpdateContext loads the variant's manifest and resolves preferences
// from opts, falling back to the stored values.
func newUpdateContext(ctx context.Context, opts Options, root, name string, upd core.UpdateOptions) (*BuildContext, error) {
	if err := core.ValidateVariantName(name); err != nil {
		return nil, err
	}
	root = firstNonEmpty(root, config.DefaultRoot())
	paths := core.ResolvePaths(root, config.DefaultBinDir(), name)

	meta, err := core.LoadVariantMeta(paths.VariantDir)
	if err != nil {
		return nil, err
	}
	tmpl, err := provider.MustGet(meta.Provider)
	if err != nil {
		return nil, &core.ValidationError{Field: "provider", Value: meta.Provider, Reason: err.Error()}
	}

	paths = core.ResolvePaths(root, firstNonEmpty(upd.BinDir, meta.BinDir, config.DefaultBinDir()), name)
	paths.ConfigDir = firstNonEmpty(meta.ConfigDir, paths.ConfigDir)
	paths.TweakDir = firstNonEmpty(meta.TweakDir, paths.TweakDir)
	paths.NpmDir = firstNonEmpty(meta.NpmDir, paths.NpmDir)

	prefs := Preferences{
		NpmPackage:  firstNonEmpty(upd.NpmPackage, meta.NpmPackage, config.DefaultNpmPackage),
		NpmVersion:  firstNonEmpty(upd.NpmVersion, config.DefaultNpmVersion),
		BrandKey:    meta.Brand,
		NoTweak:     upd.NoTweak,
		SkillUpdate: upd.SkillUpdate,
		Stdio:       stdioOrDefault(upd.TweakStdio),
	}
	if upd.SettingsOnly {
		prefs.NpmVersion = firstNonEmpty(upd.NpmVersion, meta.NpmVersion, config.DefaultNpmVersion)
	}
	if err := validatePackage(prefs); err != nil {
		return nil, err
	}
	if upd.Brand != "" {
		if prefs.BrandKey, err = brand.Resolve(upd.Brand, tmpl.Key); err != nil {
			return nil, &core.ValidationError{Field: "brand", Value: upd.Brand, Reason: err.Error()}
		}
	}
	if upd.EnableTeamMode && upd.DisableTeamMode {
		return nil, &core.ValidationError{Field: "team mode", Reason: "cannot both enable and disable"}
	}

	prefs.PromptPack = core.BoolValue(upd.PromptPack, core.BoolValue(meta.PromptPack, defaultPromptPack(tmpl)))
	prefs.PromptPackEnabled = prefs.PromptPack && !prefs.NoTweak
	prefs.SkillInstall = core.BoolValue(upd.SkillInstall, core.BoolValue(meta.SkillInstall, defaultSkillInstall(tmpl.Key)))
	prefs.ShellEnv = core.BoolValue(upd.ShellEnv, core.BoolValue(meta.ShellEnv, tmpl.Key == "zai"))

	c := &BuildContext{
		Context:     ctx,
		Name:        name,
		ProviderKey: tmpl.Key,
		Provider:    tmpl,
		Update:      &upd,
		Paths:       paths,
		Prefs:       prefs,
		State: State{
			BinaryPath:      meta.BinaryPath,
			ClaudeOrig:      meta.ClaudeOrig,
			TeamModeEnabled: meta.TeamModeEnabled,
			Meta:            meta,
		},
		Log:  opts.logger().With("variant", name),
		opts: opts,
	}
	return c, nil
}

func validatePackage(p Preferences) error {
	if err := core.ValidatePackageName(p.NpmPackage); err != nil {
		return err
	}
	return core.ValidatePackageVersion(p.NpmVersion)
}

func defaultPromptPack(t provider.Template) bool {
	return !t.NoPromptPack && promptpack.Supported(t.Key)
}

func defaultSkillInstall(providerKey string) bool {
	return providerKey == "zai" || providerKey == "minimax"
}

func stdioOrDefault(s core.Stdio) core.Stdio {
	if s == "" {
		return core.StdioInherit
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Package core provides the variant primitives for ccmirror: the manifest,
// settings reconciliation, dependency installation, wrapper and shell-env
// writers, and the list/remove/doctor/tweak operations.
// It has zero UI dependencies and is independently testable.
package core

import "time"

// ManifestFile is the manifest file name inside a variant directory.
const ManifestFile = "variant.json"

// VariantMeta is the persisted manifest for one variant (variant.json).
type VariantMeta struct {
	Name     string `json:"name"`
	Provider string `json:"provider"`
	BaseURL  string `json:"baseUrl,omitempty"`

	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`

	ClaudeOrig string `json:"claudeOrig"`
	BinaryPath string `json:"binaryPath"`
	ConfigDir  string `json:"configDir"`
	TweakDir   string `json:"tweakDir"`
	Brand      string `json:"brand,omitempty"`

	PromptPack   *bool `json:"promptPack,omitempty"`
	SkillInstall *bool `json:"skillInstall,omitempty"`
	ShellEnv     *bool `json:"shellEnv,omitempty"`

	BinDir      string `json:"binDir,omitempty"`
	InstallType string `json:"installType,omitempty"` // always "npm"
	NpmDir      string `json:"npmDir,omitempty"`
	NpmPackage  string `json:"npmPackage,omitempty"`
	NpmVersion  string `json:"npmVersion,omitempty"`

	TeamModeEnabled bool `json:"teamModeEnabled"`
}

// VariantEntry is one directory under the root. Meta is nil when the
// directory has no readable manifest.
type VariantEntry struct {
	Name string
	Meta *VariantMeta
}

// ModelOverrides maps model tiers to provider model names. Empty fields are
// left alone.
type ModelOverrides struct {
	Sonnet        string
	Opus          string
	Haiku         string
	SmallFast     string
	DefaultModel  string
	SubagentModel string
}

// Env returns the settings env entries for the non-empty overrides.
func (m ModelOverrides) Env() map[string]string {
	env := make(map[string]string)
	set := func(key, value string) {
		if value != "" {
			env[key] = value
		}
	}
	set("ANTHROPIC_DEFAULT_SONNET_MODEL", m.Sonnet)
	set("ANTHROPIC_DEFAULT_OPUS_MODEL", m.Opus)
	set("ANTHROPIC_DEFAULT_HAIKU_MODEL", m.Haiku)
	set("ANTHROPIC_SMALL_FAST_MODEL", m.SmallFast)
	set("ANTHROPIC_MODEL", m.DefaultModel)
	set("CLAUDE_CODE_SUBAGENT_MODEL", m.SubagentModel)
	return env
}

// IsZero reports whether no override is set.
func (m ModelOverrides) IsZero() bool {
	return m == ModelOverrides{}
}

// Stdio selects how external tool output is handled.
type Stdio string

const (
	StdioInherit Stdio = "inherit"
	StdioPipe    Stdio = "pipe"
)

// CreateParams are the inputs to variant creation. Nil preference pointers
// fall back to provider defaults.
type CreateParams struct {
	Name        string
	ProviderKey string
	BaseURL     string
	APIKey      string
	// ExtraEnv entries have the form KEY=VALUE.
	ExtraEnv       []string
	ModelOverrides ModelOverrides

	RootDir    string
	BinDir     string
	NpmPackage string
	NpmVersion string
	Brand      string

	NoTweak        bool
	PromptPack     *bool
	SkillInstall   *bool
	ShellEnv       *bool
	SkillUpdate    bool
	TweakStdio     Stdio
	EnableTeamMode bool
}

// UpdateOptions are the inputs to a variant update.
type UpdateOptions struct {
	BinDir     string
	NpmPackage string
	NpmVersion string
	Brand      string

	NoTweak bool
	// SettingsOnly skips the package reinstall; the installed binary is not
	// touched.
	SettingsOnly bool

	PromptPack     *bool
	SkillInstall   *bool
	ShellEnv       *bool
	SkillUpdate    bool
	TweakStdio     Stdio
	ModelOverrides ModelOverrides

	EnableTeamMode  bool
	DisableTeamMode bool
}

// DoctorReportItem is the health of one variant.
type DoctorReportItem struct {
	Name        string `json:"name"`
	OK          bool   `json:"ok"`
	BinaryPath  string `json:"binaryPath,omitempty"`
	WrapperPath string `json:"wrapperPath"`
}

// TweakResult captures a customization tool run.
type TweakResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool { return &b }

// BoolValue dereferences p, returning def when p is nil.
func BoolValue(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

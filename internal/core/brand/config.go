package brand

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ConfigFile is the customization tool's config file name inside a
// variant's tweak directory.
const ConfigFile = "config.json"

const baseConfig = `{"settings":{"themes":[],"toolsets":[]}}`

// Toolset is a named allow/block list of built-in tools.
type Toolset struct {
	Name string `json:"name"`
	// AllowedTools is "*" or a list of tool names.
	AllowedTools any      `json:"allowedTools"`
	BlockedTools []string `json:"blockedTools"`
}

// Config is the customization tool's config document. Edits go through
// gjson/sjson paths so unknown keys written by the tool are preserved.
type Config struct {
	path     string
	original string
	content  string
	exists   bool
	corrupt  bool
}

// LoadConfig reads the document at path. A missing file yields a base
// document; an unparsable one is replaced by it and reported by Corrupt.
func LoadConfig(path string) (*Config, error) {
	c := &Config{path: path, content: baseConfig}
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	case !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject():
		c.exists = true
		c.corrupt = true
		c.original = string(data)
	default:
		c.exists = true
		c.original = string(data)
		c.content = string(data)
	}
	return c, nil
}

// Exists reports whether the file was present when loaded.
func (c *Config) Exists() bool { return c.exists }

// Corrupt reports whether the file on disk could not be parsed.
func (c *Config) Corrupt() bool { return c.corrupt }

// Changed reports whether Save would write different content.
func (c *Config) Changed() bool {
	if !c.exists || c.corrupt {
		return true
	}
	return compact(c.content) != compact(c.original)
}

// Save writes the document atomically when it changed.
func (c *Config) Save() error {
	if !c.Changed() {
		return nil
	}
	pretty := gjson.Get(c.content, "@pretty").Raw
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(pretty), 0o644); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	c.original = pretty
	c.content = pretty
	c.exists = true
	c.corrupt = false
	return nil
}

// Toolsets returns the toolsets in document order.
func (c *Config) Toolsets() []Toolset {
	var out []Toolset
	for _, v := range gjson.Get(c.content, "settings.toolsets").Array() {
		t := Toolset{Name: v.Get("name").String(), AllowedTools: v.Get("allowedTools").Value()}
		for _, b := range v.Get("blockedTools").Array() {
			t.BlockedTools = append(t.BlockedTools, b.String())
		}
		out = append(out, t)
	}
	return out
}

// Toolset returns the toolset called name.
func (c *Config) Toolset(name string) (Toolset, bool) {
	for _, t := range c.Toolsets() {
		if t.Name == name {
			return t, true
		}
	}
	return Toolset{}, false
}

func (c *Config) indexOf(arrayPath, key, value string) int {
	for i, v := range gjson.Get(c.content, arrayPath).Array() {
		if v.Get(key).String() == value {
			return i
		}
	}
	return -1
}

func (c *Config) upsert(arrayPath, key, value string, item any) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return err
	}
	if !gjson.Get(c.content, arrayPath).IsArray() {
		if c.content, err = sjson.SetRaw(c.content, arrayPath, "[]"); err != nil {
			return err
		}
	}
	idx := "-1"
	if i := c.indexOf(arrayPath, key, value); i >= 0 {
		idx = strconv.Itoa(i)
	}
	c.content, err = sjson.SetRaw(c.content, arrayPath+"."+idx, string(raw))
	return err
}

// UpsertToolset replaces the toolset with the same name or appends t.
func (c *Config) UpsertToolset(t Toolset) error {
	if t.AllowedTools == nil {
		t.AllowedTools = "*"
	}
	if t.BlockedTools == nil {
		t.BlockedTools = []string{}
	}
	return c.upsert("settings.toolsets", "name", t.Name, t)
}

// RemoveToolset deletes every toolset called name.
func (c *Config) RemoveToolset(name string) (bool, error) {
	removed := false
	for i := c.indexOf("settings.toolsets", "name", name); i >= 0; i = c.indexOf("settings.toolsets", "name", name) {
		var err error
		if c.content, err = sjson.Delete(c.content, "settings.toolsets."+strconv.Itoa(i)); err != nil {
			return removed, err
		}
		removed = true
	}
	return removed, nil
}

// UpsertTheme replaces the theme with the same id or appends t.
func (c *Config) UpsertTheme(t Theme) error {
	return c.upsert("settings.themes", "id", t.ID, t)
}

// ThemeIDs returns the ids of all themes in the document.
func (c *Config) ThemeIDs() []string {
	var ids []string
	for _, v := range gjson.Get(c.content, "settings.themes.#.id").Array() {
		ids = append(ids, v.String())
	}
	return ids
}

// DefaultToolset returns settings.defaultToolset.
func (c *Config) DefaultToolset() string {
	return gjson.Get(c.content, "settings.defaultToolset").String()
}

// PlanModeToolset returns settings.planModeToolset.
func (c *Config) PlanModeToolset() string {
	return gjson.Get(c.content, "settings.planModeToolset").String()
}

// SetDefaultToolset sets settings.defaultToolset; "" deletes it.
func (c *Config) SetDefaultToolset(name string) error {
	return c.setOrDelete("settings.defaultToolset", name)
}

// SetPlanModeToolset sets settings.planModeToolset; "" deletes it.
func (c *Config) SetPlanModeToolset(name string) error {
	return c.setOrDelete("settings.planModeToolset", name)
}

func (c *Config) setOrDelete(path, value string) error {
	var err error
	if value == "" {
		c.content, err = sjson.Delete(c.content, path)
	} else {
		c.content, err = sjson.Set(c.content, path, value)
	}
	return err
}

func compact(content string) string {
	return gjson.Get(content, "@ugly").Raw
}

// EnsureResult reports what EnsureTweakccConfig did.
type EnsureResult struct {
	Changed bool
	// Corrupt is set when an unparsable config.json was replaced.
	Corrupt bool
}

// EnsureTweakccConfig creates tweakDir/config.json when missing and applies
// the brand's theme and toolset. A brand toolset becomes the default only
// when no valid default is set, so a toolset chosen later (such as the team
// toolset) is kept. A corrupt file is replaced and reported.
func EnsureTweakccConfig(tweakDir, brandKey string) (EnsureResult, error) {
	var res EnsureResult
	cfg, err := LoadConfig(filepath.Join(tweakDir, ConfigFile))
	if err != nil {
		return res, err
	}
	res.Corrupt = cfg.Corrupt()

	if b, ok := Get(brandKey); ok {
		if err := cfg.UpsertTheme(b.Theme); err != nil {
			return res, fmt.Errorf("adding theme %s: %w", b.Theme.ID, err)
		}
		if len(b.BlockedTools) > 0 {
			if err := cfg.UpsertToolset(Toolset{Name: b.Key, AllowedTools: "*", BlockedTools: b.BlockedTools}); err != nil {
				return res, fmt.Errorf("adding toolset %s: %w", b.Key, err)
			}
			if _, ok := cfg.Toolset(cfg.DefaultToolset()); !ok {
				if err := cfg.SetDefaultToolset(b.Key); err != nil {
					return res, err
				}
			}
			if _, ok := cfg.Toolset(cfg.PlanModeToolset()); !ok {
				if err := cfg.SetPlanModeToolset(b.Key); err != nil {
					return res, err
				}
			}
		}
	}

	res.Changed = cfg.Changed()
	if err := cfg.Save(); err != nil {
		return res, err
	}
	return res, nil
}

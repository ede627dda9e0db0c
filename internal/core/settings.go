package core

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/ccmirror/ccmirror/internal/core/provider"
	"github.com/tailscale/hujson"
)

// Settings env keys and permission entries written by team mode.
const (
	TeamModeEnvKey     = "CLAUDE_CODE_TEAM_MODE"
	AgentTypeEnvKey    = "CLAUDE_CODE_AGENT_TYPE"
	TeamLeadAgentType  = "team-lead"
	OrchestrationAllow = "Skill(orchestration)"
	TaskManagerAllow   = "Skill(task-manager)"
)

// ReconcileResult reports what a settings reconciliation did. Corrupt is set
// when the document on disk could not be parsed and was replaced by an
// empty one.
type ReconcileResult struct {
	Changed bool
	Corrupt bool
}

// settingsDoc is settings.json parsed as a JWCC AST so that edits keep the
// document's layout.
type settingsDoc struct {
	path    string
	root    hujson.Value
	corrupt bool
}

func loadSettings(configDir string) (*settingsDoc, error) {
	path := SettingsPath(configDir)
	content, err := readConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	doc := &settingsDoc{path: path}
	if content == "" {
		content = "{}"
	}
	root, err := hujson.Parse([]byte(content))
	if err != nil {
		doc.corrupt = true
		root, _ = hujson.Parse([]byte("{}"))
	} else if _, ok := root.Value.(*hujson.Object); !ok {
		doc.corrupt = true
		root, _ = hujson.Parse([]byte("{}"))
	}
	doc.root = root
	return doc, nil
}

func (d *settingsDoc) result(changed bool) ReconcileResult {
	return ReconcileResult{Changed: changed, Corrupt: d.corrupt}
}

// save writes the document as standard JSON. Comments are dropped; key
// order is kept.
func (d *settingsDoc) save() error {
	d.root.Standardize()
	d.root.Format()
	return writeConfigFile(d.path, string(d.root.Pack()))
}

func (d *settingsDoc) patch(ops ...patchOp) error {
	data, err := json.Marshal(ops)
	if err != nil {
		return err
	}
	return d.root.Patch(data)
}

type patchOp struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

// ensureContainer makes ptr an object (or array) if it is missing or of the
// wrong type.
func (d *settingsDoc) ensureContainer(ptr string, array bool) error {
	v := d.root.Find(ptr)
	var empty any = map[string]any{}
	if array {
		empty = []any{}
	}
	if v == nil {
		return d.patch(patchOp{Op: "add", Path: ptr, Value: empty})
	}
	switch v.Value.(type) {
	case *hujson.Object:
		if !array {
			return nil
		}
	case *hujson.Array:
		if array {
			return nil
		}
	}
	return d.patch(patchOp{Op: "replace", Path: ptr, Value: empty})
}

func stringAt(v *hujson.Value) (string, bool) {
	if v == nil {
		return "", false
	}
	lit, ok := v.Value.(hujson.Literal)
	if !ok || lit.Kind() != '"' {
		return "", false
	}
	return lit.String(), true
}

func envPointer(key string) string {
	return "/env/" + jsonPointerEscape(key)
}

// env returns the string entries of the env object.
func (d *settingsDoc) env() map[string]string {
	out := make(map[string]string)
	v := d.root.Find("/env")
	if v == nil {
		return out
	}
	obj, ok := v.Value.(*hujson.Object)
	if !ok {
		return out
	}
	for i := range obj.Members {
		name, ok := stringAt(&obj.Members[i].Name)
		if !ok {
			continue
		}
		if value, ok := stringAt(&obj.Members[i].Value); ok {
			out[name] = value
		}
	}
	return out
}

// setEnv sets env[key]=value. With onlyIfAbsent an existing key is kept.
func (d *settingsDoc) setEnv(key, value string, onlyIfAbsent bool) (bool, error) {
	if err := d.ensureContainer("/env", false); err != nil {
		return false, err
	}
	ptr := envPointer(key)
	existing := d.root.Find(ptr)
	if existing != nil {
		if onlyIfAbsent {
			return false, nil
		}
		if current, ok := stringAt(existing); ok && current == value {
			return false, nil
		}
		return true, d.patch(patchOp{Op: "replace", Path: ptr, Value: value})
	}
	return true, d.patch(patchOp{Op: "add", Path: ptr, Value: value})
}

func (d *settingsDoc) removeKey(ptr string) (bool, error) {
	if d.root.Find(ptr) == nil {
		return false, nil
	}
	return true, d.patch(patchOp{Op: "remove", Path: ptr})
}

func (d *settingsDoc) strings(ptr string) []string {
	v := d.root.Find(ptr)
	if v == nil {
		return nil
	}
	arr, ok := v.Value.(*hujson.Array)
	if !ok {
		return nil
	}
	var out []string
	for i := range arr.Elements {
		if s, ok := stringAt(&arr.Elements[i]); ok {
			out = append(out, s)
		}
	}
	return out
}

// addStrings appends the values missing from the array at ptr.
func (d *settingsDoc) addStrings(ptr string, values ...string) (bool, error) {
	if err := d.ensureContainer(ptr, true); err != nil {
		return false, err
	}
	present := make(map[string]bool)
	for _, s := range d.strings(ptr) {
		present[s] = true
	}
	var ops []patchOp
	for _, value := range values {
		if present[value] {
			continue
		}
		present[value] = true
		ops = append(ops, patchOp{Op: "add", Path: ptr + "/-", Value: value})
	}
	if len(ops) == 0 {
		return false, nil
	}
	return true, d.patch(ops...)
}

// removeStrings drops every element of the array at ptr equal to one of
// values.
func (d *settingsDoc) removeStrings(ptr string, values ...string) (bool, error) {
	v := d.root.Find(ptr)
	if v == nil {
		return false, nil
	}
	arr, ok := v.Value.(*hujson.Array)
	if !ok {
		return false, nil
	}
	drop := make(map[string]bool, len(values))
	for _, value := range values {
		drop[value] = true
	}
	var ops []patchOp
	for i := len(arr.Elements) - 1; i >= 0; i-- {
		if s, ok := stringAt(&arr.Elements[i]); ok && drop[s] {
			ops = append(ops, patchOp{Op: "remove", Path: ptr + "/" + strconv.Itoa(i)})
		}
	}
	if len(ops) == 0 {
		return false, nil
	}
	return true, d.patch(ops...)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ReadSettingsEnv returns the env mapping from configDir/settings.json.
// A missing or corrupt document yields an empty map.
func ReadSettingsEnv(configDir string) (map[string]string, error) {
	doc, err := loadSettings(configDir)
	if err != nil {
		return nil, err
	}
	return doc.env(), nil
}

// EnsureSettingsEnvDefaults inserts each entry of defaults whose key is absent
// from the env mapping. Existing values are never overwritten. The file is
// written only when something was inserted.
func EnsureSettingsEnvDefaults(configDir string, defaults map[string]string) (ReconcileResult, error) {
	return reconcileEnv(configDir, defaults, true)
}

// EnsureSettingsEnvOverrides sets every entry of overrides, replacing any
// existing value.
func EnsureSettingsEnvOverrides(configDir string, overrides map[string]string) (ReconcileResult, error) {
	return reconcileEnv(configDir, overrides, false)
}

func reconcileEnv(configDir string, values map[string]string, onlyIfAbsent bool) (ReconcileResult, error) {
	doc, err := loadSettings(configDir)
	if err != nil {
		return ReconcileResult{}, err
	}
	changed := false
	for _, key := range sortedKeys(values) {
		set, err := doc.setEnv(key, values[key], onlyIfAbsent)
		if err != nil {
			return doc.result(false), fmt.Errorf("setting env %s: %w", key, err)
		}
		changed = changed || set
	}
	if !changed && !doc.corrupt {
		return doc.result(false), nil
	}
	if err := doc.save(); err != nil {
		return doc.result(false), err
	}
	return doc.result(changed), nil
}

// EnsureZaiMCPDeny adds the Z.ai-injected MCP tools to permissions.deny.
func EnsureZaiMCPDeny(configDir string) (ReconcileResult, error) {
	return editSettings(configDir, func(doc *settingsDoc) (bool, error) {
		if err := doc.ensureContainer("/permissions", false); err != nil {
			return false, err
		}
		return doc.addStrings("/permissions/deny", provider.ZaiBlockedMCPTools...)
	})
}

// EnsureTeamSettings adds the team-mode env markers (when absent) and the
// orchestration skill permission.
func EnsureTeamSettings(configDir string) (ReconcileResult, error) {
	return editSettings(configDir, func(doc *settingsDoc) (bool, error) {
		changed := false
		for _, kv := range [][2]string{{TeamModeEnvKey, "1"}, {AgentTypeEnvKey, TeamLeadAgentType}} {
			set, err := doc.setEnv(kv[0], kv[1], true)
			if err != nil {
				return false, err
			}
			changed = changed || set
		}
		if err := doc.ensureContainer("/permissions", false); err != nil {
			return false, err
		}
		added, err := doc.addStrings("/permissions/allow", OrchestrationAllow)
		return changed || added, err
	})
}

// RemoveTeamSettings drops the team-mode env markers and skill permissions
// that are present. A missing settings file is left alone.
func RemoveTeamSettings(configDir string) (ReconcileResult, error) {
	if !fileExists(SettingsPath(configDir)) {
		return ReconcileResult{}, nil
	}
	return editSettings(configDir, func(doc *settingsDoc) (bool, error) {
		changed := false
		for _, key := range []string{TeamModeEnvKey, AgentTypeEnvKey} {
			removed, err := doc.removeKey(envPointer(key))
			if err != nil {
				return false, err
			}
			changed = changed || removed
		}
		removed, err := doc.removeStrings("/permissions/allow", OrchestrationAllow, TaskManagerAllow)
		return changed || removed, err
	})
}

func editSettings(configDir string, edit func(*settingsDoc) (bool, error)) (ReconcileResult, error) {
	doc, err := loadSettings(configDir)
	if err != nil {
		return ReconcileResult{}, err
	}
	changed, err := edit(doc)
	if err != nil {
		return doc.result(false), fmt.Errorf("editing %s: %w", doc.path, err)
	}
	if !changed {
		return doc.result(false), nil
	}
	if err := doc.save(); err != nil {
		return doc.result(false), err
	}
	return doc.result(true), nil
}

// Package gate toggles the team-mode feature gate inside the wrapped CLI's
// bundled source.
//
// The bundle is minified third-party text with no stable syntax tree, so the
// gate is located in two phases. A declaration marker (the "TodoWrite" tool
// name assignment) anchors a bounded search window; inside that window the
// tool's isEnabled() call site names the gate function; the gate function's
// zero-argument body is then resolved to one of the two minified boolean
// literals. If any phase fails the state is Unknown and nothing is changed.
//
// This package performs no I/O. Callers read, back up and write the file, and
// must re-detect after writing before reporting success.
package gate

import (
	"regexp"
)

// State is the classification of the gate inside a source text.
type State string

const (
	StateEnabled  State = "enabled"
	StateDisabled State = "disabled"
	StateUnknown  State = "unknown"
)

// DefaultWindow is the number of bytes after the marker searched for the
// isEnabled() call site.
const DefaultWindow = 8000

const (
	literalTrue  = "!0"
	literalFalse = "!1"
)

var (
	markerRe    = regexp.MustCompile(`(var|let|const)\s+[A-Za-z_$][\w$]*="TodoWrite";`)
	isEnabledRe = regexp.MustCompile(`isEnabled\(\)\{return!([A-Za-z_$][\w$]*)\(\)\}`)
)

// Result is the outcome of SetState.
type Result struct {
	Text    string
	Changed bool
	State   State
}

// Patcher detects and flips the gate. The zero value uses DefaultWindow.
type Patcher struct {
	// Window bounds the search for the call site after the marker. Values
	// <= 0 mean DefaultWindow.
	Window int
}

// DetectState reports the gate state using the default window.
func DetectState(text string) State {
	return Patcher{}.DetectState(text)
}

// SetState sets the gate using the default window.
func SetState(text string, enabled bool) Result {
	return Patcher{}.SetState(text, enabled)
}

// DetectState reports whether the gate function currently returns true or
// false, or StateUnknown if the pattern is not recognised.
func (p Patcher) DetectState(text string) State {
	fnName, ok := p.findGateName(text)
	if !ok {
		return StateUnknown
	}
	loc := findDefinition(text, fnName)
	if loc == nil {
		return StateUnknown
	}
	return stateOf(text[loc[2]:loc[3]])
}

// SetState rewrites the gate function's body literal to the desired value.
// Only the first definition is touched. When the gate is already at the
// desired value, or the pattern is not found, the input is returned as is.
func (p Patcher) SetState(text string, enabled bool) Result {
	fnName, ok := p.findGateName(text)
	if !ok {
		return Result{Text: text, State: StateUnknown}
	}
	loc := findDefinition(text, fnName)
	if loc == nil {
		return Result{Text: text, State: StateUnknown}
	}

	desired := literalFalse
	desiredState := StateDisabled
	if enabled {
		desired = literalTrue
		desiredState = StateEnabled
	}

	if text[loc[2]:loc[3]] == desired {
		return Result{Text: text, State: desiredState}
	}

	updated := text[:loc[2]] + desired + text[loc[3]:]
	return Result{Text: updated, Changed: true, State: desiredState}
}

func (p Patcher) window() int {
	if p.Window <= 0 {
		return DefaultWindow
	}
	return p.Window
}

// findGateName locates the marker and returns the gate function name from
// the isEnabled() call site inside the window following it.
func (p Patcher) findGateName(text string) (string, bool) {
	marker := markerRe.FindStringIndex(text)
	if marker == nil {
		return "", false
	}

	end := marker[0] + p.window()
	if end > len(text) {
		end = len(text)
	}
	m := isEnabledRe.FindStringSubmatch(text[marker[0]:end])
	if m == nil {
		return "", false
	}
	return m[1], true
}

// findDefinition returns the submatch indices of the gate function's
// definition; indices 2 and 3 bracket the boolean literal.
func findDefinition(text, fnName string) []int {
	re := regexp.MustCompile(`function\s+` + regexp.QuoteMeta(fnName) + `\(\)\{return(!0|!1)\}`)
	return re.FindStringSubmatchIndex(text)
}

func stateOf(literal string) State {
	if literal == literalTrue {
		return StateEnabled
	}
	return StateDisabled
}

package gate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bundle builds a minified-looking source with the marker, a call site and
// a gate definition.
func bundle(literal string) string {
	return `var a1=1;function Qx(){return` + literal + `}var Zt="TodoWrite";` +
		`class T{name=Zt;isEnabled(){return!Qx()}}var tail=2;`
}

func TestDetectState(t *testing.T) {
	tests := []struct {
		name string
		text string
		want State
	}{
		{"enabled", bundle("!0"), StateEnabled},
		{"disabled", bundle("!1"), StateDisabled},
		{"no marker", `function Qx(){return!0}isEnabled(){return!Qx()}`, StateUnknown},
		{"no call site", `var Zt="TodoWrite";function Qx(){return!0}`, StateUnknown},
		{"no definition", `var Zt="TodoWrite";isEnabled(){return!Qx()}`, StateUnknown},
		{"empty", "", StateUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectState(tt.text))
		})
	}
}

func TestSetState_RoundTrip(t *testing.T) {
	original := bundle("!1")

	on := SetState(original, true)
	require.True(t, on.Changed)
	assert.Equal(t, StateEnabled, on.State)
	assert.Equal(t, StateEnabled, DetectState(on.Text))

	off := SetState(on.Text, false)
	require.True(t, off.Changed)
	assert.Equal(t, StateDisabled, DetectState(off.Text))
	assert.Equal(t, original, off.Text)
}

func TestSetState_AlreadyAtDesiredValue(t *testing.T) {
	text := bundle("!0")
	res := SetState(text, true)

	assert.False(t, res.Changed)
	assert.Equal(t, StateEnabled, res.State)
	assert.Equal(t, text, res.Text)
}

func TestSetState_UnknownLeavesInputUntouched(t *testing.T) {
	text := `function Qx(){return!1}class T{isEnabled(){return!Qx()}}`
	res := SetState(text, true)

	assert.Equal(t, StateUnknown, res.State)
	assert.False(t, res.Changed)
	assert.Equal(t, text, res.Text)
}

func TestSetState_OnlyRewritesGateFunction(t *testing.T) {
	text := `function Other(){return!1}` + bundle("!1")
	res := SetState(text, true)

	require.True(t, res.Changed)
	assert.True(t, strings.HasPrefix(res.Text, `function Other(){return!1}`))
	assert.Contains(t, res.Text, `function Qx(){return!0}`)
}

func TestSetState_DollarIdentifiers(t *testing.T) {
	text := `function $q$(){return!1}let Zt="TodoWrite";isEnabled(){return!$q$()}`
	res := SetState(text, true)

	require.True(t, res.Changed)
	assert.Contains(t, res.Text, `function $q$(){return!0}`)
}

func TestPatcher_WindowBoundsCallSiteSearch(t *testing.T) {
	padding := strings.Repeat("x", 200)
	text := `function Qx(){return!1}var Zt="TodoWrite";` + padding + `isEnabled(){return!Qx()}`

	assert.Equal(t, StateUnknown, Patcher{Window: 100}.DetectState(text))
	assert.Equal(t, StateDisabled, Patcher{Window: 1000}.DetectState(text))

	res := Patcher{Window: 100}.SetState(text, true)
	assert.Equal(t, StateUnknown, res.State)
	assert.Equal(t, text, res.Text)
}

func TestPatcher_CallSiteStraddlingWindowIsUnknown(t *testing.T) {
	prefix := `var Zt="TodoWrite";`
	text := `function Qx(){return!0}` + prefix + `isEnabled(){return!Qx()}`
	// Window ends in the middle of the call site.
	w := len(prefix) + 10

	assert.Equal(t, StateUnknown, Patcher{Window: w}.DetectState(text))
}

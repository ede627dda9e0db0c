package cmd

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/ccmirror/ccmirror/internal/pipeline"
)

func newFlagCmd(t *testing.T, set ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	c.Flags().Bool("verbose", false, "")
	c.Flags().Bool("debug", false, "")
	for _, name := range set {
		if err := c.Flags().Set(name, "true"); err != nil {
			t.Fatal(err)
		}
	}
	return c
}

func TestUseSpinner(t *testing.T) {
	tests := []struct {
		name     string
		terminal bool
		flags    []string
		want     bool
	}{
		{"terminal", true, nil, true},
		{"not a terminal", false, nil, false},
		{"verbose streams output", true, []string{"verbose"}, false},
		{"debug streams output", true, []string{"debug"}, false},
	}

	orig := isTerminal
	t.Cleanup(func() { isTerminal = orig })

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terminal := tt.terminal
			isTerminal = func(int) bool { return terminal }
			if got := useSpinner(newFlagCmd(t, tt.flags...)); got != tt.want {
				t.Errorf("useSpinner() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStepSpinner_DisabledIgnoresProgress(t *testing.T) {
	sp := newStepSpinner(false)
	sp.progress(pipeline.Progress{Step: "install", Message: "Installing"})
	sp.stop()
	if sp.s != nil {
		t.Error("disabled spinner should not start")
	}
}

func TestToggle(t *testing.T) {
	c := &cobra.Command{Use: "test"}
	addToggleFlags(c, "shell-env", "shell env")

	if got := toggle(c, "shell-env"); got != nil {
		t.Errorf("toggle() = %v, want nil when unset", *got)
	}
	if err := c.Flags().Set("no-shell-env", "true"); err != nil {
		t.Fatal(err)
	}
	if got := toggle(c, "shell-env"); got == nil || *got {
		t.Errorf("toggle() = %v, want false", got)
	}
}

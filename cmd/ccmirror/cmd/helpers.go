package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ccmirror/ccmirror/internal/core"
)

var isTerminal = term.IsTerminal

func stdoutIsTerminal() bool { return isTerminal(int(os.Stdout.Fd())) }
func stdinIsTerminal() bool  { return isTerminal(int(os.Stdin.Fd())) }
func stderrIsTerminal() bool { return isTerminal(int(os.Stderr.Fd())) }

// terminalWidth returns stdout's width, or 80 when it is not a terminal.
func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// addToggleFlags registers --<name> and --no-<name>.
func addToggleFlags(cmd *cobra.Command, name, usage string) {
	cmd.Flags().Bool(name, false, "Enable "+usage)
	cmd.Flags().Bool("no-"+name, false, "Disable "+usage)
	cmd.MarkFlagsMutuallyExclusive(name, "no-"+name)
}

// toggle reads a pair registered by addToggleFlags. It returns nil when
// neither flag was given, so the pipeline falls back to its defaults.
func toggle(cmd *cobra.Command, name string) *bool {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetBool(name)
		return core.BoolPtr(v)
	}
	if cmd.Flags().Changed("no-" + name) {
		v, _ := cmd.Flags().GetBool("no-" + name)
		return core.BoolPtr(!v)
	}
	return nil
}

func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().String("model-sonnet", "", "Model used for the sonnet tier")
	cmd.Flags().String("model-opus", "", "Model used for the opus tier")
	cmd.Flags().String("model-haiku", "", "Model used for the haiku tier")
	cmd.Flags().String("model-small-fast", "", "Small/fast background model")
	cmd.Flags().String("model-default", "", "Default model")
	cmd.Flags().String("model-subagent", "", "Model used by subagents")
}

func modelOverrides(cmd *cobra.Command) core.ModelOverrides {
	get := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return core.ModelOverrides{
		Sonnet:        get("model-sonnet"),
		Opus:          get("model-opus"),
		Haiku:         get("model-haiku"),
		SmallFast:     get("model-small-fast"),
		DefaultModel:  get("model-default"),
		SubagentModel: get("model-subagent"),
	}
}

// tweakStdio pipes the customization tool's output unless the user asked
// for verbose output.
func tweakStdio(cmd *cobra.Command) core.Stdio {
	verbose, _ := cmd.Flags().GetBool("verbose")
	debug, _ := cmd.Flags().GetBool("debug")
	if verbose || debug {
		return core.StdioInherit
	}
	return core.StdioPipe
}

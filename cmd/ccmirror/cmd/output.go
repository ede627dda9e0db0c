package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ccmirror/ccmirror/internal/core"
	"github.com/ccmirror/ccmirror/internal/pipeline"
	"github.com/ccmirror/ccmirror/internal/tui"
)

// stepSpinner shows blocking-mode progress on stderr. A disabled spinner
// ignores progress.
type stepSpinner struct {
	s *spinner.Spinner
}

// useSpinner reports whether the blocking-mode spinner may draw: stderr is
// a terminal and no child process or log output is streamed to it.
func useSpinner(cmd *cobra.Command) bool {
	return stderrIsTerminal() && tweakStdio(cmd) == core.StdioPipe
}

func newStepSpinner(enabled bool) *stepSpinner {
	if !enabled {
		return &stepSpinner{}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Writer = os.Stderr
	s.Suffix = " Starting"
	s.Start()
	return &stepSpinner{s: s}
}

func (p *stepSpinner) progress(ev pipeline.Progress) {
	if p.s == nil {
		return
	}
	p.s.Lock()
	p.s.Suffix = fmt.Sprintf(" %s: %s", ev.Step, ev.Message)
	p.s.Unlock()
}

func (p *stepSpinner) stop() {
	if p.s != nil {
		p.s.Stop()
	}
}

// pipelineRun abstracts over Builder and Updater for runPipeline.
type pipelineRun struct {
	title string
	steps []string
	block func(ctx context.Context, opts pipeline.Options) (*pipeline.Result, error)
	start func(ctx context.Context) *pipeline.Run
}

// runPipeline runs blocking with a spinner, or cooperatively with the
// progress display when --tui is set and stdout is a terminal.
func runPipeline(cmd *cobra.Command, opts pipeline.Options, r pipelineRun) (*pipeline.Result, bool, error) {
	useTUI, _ := cmd.Flags().GetBool("tui")
	if useTUI && stdoutIsTerminal() && stdinIsTerminal() {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		res, err := tui.ShowProgress(r.title, r.steps, r.start(ctx), cancel, os.Stdin, os.Stdout)
		return res, true, err
	}

	sp := newStepSpinner(useSpinner(cmd))
	opts.OnProgress = sp.progress
	res, err := r.block(cmd.Context(), opts)
	sp.stop()
	return res, false, err
}

// printResult writes the completion summary. The progress display gets
// rendered markdown; plain output uses colored text.
func printResult(action string, res *pipeline.Result, rendered bool) {
	if rendered {
		fmt.Fprint(os.Stdout, tui.RenderMarkdown(tui.SummaryMarkdown(action, res), terminalWidth()))
		return
	}

	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	meta := res.Meta
	if meta == nil {
		meta = &core.VariantMeta{}
	}
	fmt.Fprintf(os.Stdout, "%s %s: %s\n", green("✓"), action, meta.Name)
	fmt.Fprintf(os.Stdout, "  Provider: %s\n", meta.Provider)
	if meta.Brand != "" {
		fmt.Fprintf(os.Stdout, "  Brand: %s\n", meta.Brand)
	}
	fmt.Fprintf(os.Stdout, "  Prompt pack: %s\n", onOff(res.PromptPack))
	fmt.Fprintf(os.Stdout, "  Team mode: %s\n", onOff(meta.TeamModeEnabled))
	if res.WrapperPath != "" {
		fmt.Fprintf(os.Stdout, "  Launcher: %s\n", dim(res.WrapperPath))
	}
	if len(res.Notes) > 0 {
		fmt.Fprintln(os.Stdout, "Notes:")
		for _, n := range res.Notes {
			fmt.Fprintf(os.Stdout, "  - %s\n", yellow(n))
		}
	}
	fmt.Fprintf(os.Stdout, "Run: %s\n", meta.Name)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

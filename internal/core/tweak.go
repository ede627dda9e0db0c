package core

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const defaultTweakTimeout = 5 * time.Minute

// TweakRunner invokes the customization tool (tweakcc) against a variant.
type TweakRunner struct {
	// Command is the tool invocation, e.g. ["npx", "tweakcc@3.2.2"].
	Command []string
	Timeout time.Duration
}

func (r TweakRunner) spec(tweakDir, binaryPath string, stdio Stdio, extra ...string) (commandSpec, error) {
	if len(r.Command) == 0 {
		return commandSpec{}, errors.New("no customization tool command configured")
	}
	args := append(append([]string{}, r.Command[1:]...), extra...)
	return commandSpec{
		Name: r.Command[0],
		Args: args,
		Env: []string{
			"TWEAKCC_CONFIG_DIR=" + tweakDir,
			"TWEAKCC_CC_INSTALLATION_PATH=" + binaryPath,
		},
		Stdio: stdio,
	}, nil
}

// Apply runs the tool non-interactively so it bakes tweakDir's config into
// the binary at binaryPath. A non-zero exit is returned as *CommandError
// alongside the captured result.
func (r TweakRunner) Apply(ctx context.Context, tweakDir, binaryPath string, stdio Stdio) (*TweakResult, error) {
	spec, err := r.spec(tweakDir, binaryPath, stdio, "--apply")
	if err != nil {
		return nil, err
	}
	spec.Timeout = r.Timeout
	if spec.Timeout == 0 {
		spec.Timeout = defaultTweakTimeout
	}

	stdout, stderr, err := runCommand(ctx, spec)
	result := &TweakResult{Stdout: stdout, Stderr: stderr}
	if err != nil {
		var cerr *CommandError
		if errors.As(err, &cerr) {
			result.ExitCode = cerr.ExitCode
		}
		return result, fmt.Errorf("applying customizations: %w", err)
	}
	return result, nil
}

// LaunchUI runs the tool's interactive UI attached to the terminal.
func (r TweakRunner) LaunchUI(ctx context.Context, tweakDir, binaryPath string) error {
	spec, err := r.spec(tweakDir, binaryPath, StdioInherit)
	if err != nil {
		return err
	}
	if _, _, err := runCommand(ctx, spec); err != nil {
		return fmt.Errorf("launching customization UI: %w", err)
	}
	return nil
}

package core

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// WrapperOptions configures a variant launcher.
type WrapperOptions struct {
	Path       string
	ConfigDir  string
	TweakDir   string
	BinaryPath string
	// Runtime is the interpreter for BinaryPath. Defaults to "node".
	Runtime string
}

// WriteWrapper writes an executable launcher that points the wrapped CLI at
// the variant's config directory.
func WriteWrapper(opts WrapperOptions) error {
	if opts.Runtime == "" {
		opts.Runtime = "node"
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("creating bin dir: %w", err)
	}

	var script string
	if runtime.GOOS == "windows" {
		script = renderCmdWrapper(opts)
	} else {
		script = renderShellWrapper(opts)
	}
	if err := writeConfigFile(opts.Path, script); err != nil {
		return fmt.Errorf("writing wrapper %s: %w", opts.Path, err)
	}
	if err := os.Chmod(opts.Path, 0o755); err != nil {
		return fmt.Errorf("making wrapper executable: %w", err)
	}
	return nil
}

func renderShellWrapper(opts WrapperOptions) string {
	var b strings.Builder
	b.WriteString("#!/usr/bin/env sh\n")
	b.WriteString("# Generated by ccmirror. Re-run `ccmirror update` to regenerate.\n")
	b.WriteString("set -e\n")
	fmt.Fprintf(&b, "export CLAUDE_CONFIG_DIR=%s\n", shellQuote(opts.ConfigDir))
	fmt.Fprintf(&b, "export TWEAKCC_CONFIG_DIR=%s\n", shellQuote(opts.TweakDir))
	fmt.Fprintf(&b, "exec %s %s \"$@\"\n", shellQuote(opts.Runtime), shellQuote(opts.BinaryPath))
	return b.String()
}

func renderCmdWrapper(opts WrapperOptions) string {
	var b strings.Builder
	b.WriteString("@echo off\r\n")
	b.WriteString("rem Generated by ccmirror.\r\n")
	fmt.Fprintf(&b, "set \"CLAUDE_CONFIG_DIR=%s\"\r\n", opts.ConfigDir)
	fmt.Fprintf(&b, "set \"TWEAKCC_CONFIG_DIR=%s\"\r\n", opts.TweakDir)
	fmt.Fprintf(&b, "%s \"%s\" %%*\r\n", opts.Runtime, opts.BinaryPath)
	return b.String()
}

// shellQuote wraps s in single quotes for POSIX shells.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

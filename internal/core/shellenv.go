package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ShellEnvStatus is the outcome of WriteShellEnv.
type ShellEnvStatus string

const (
	ShellEnvWritten ShellEnvStatus = "written"
	ShellEnvSkipped ShellEnvStatus = "skipped"
	ShellEnvFailed  ShellEnvStatus = "failed"
)

// ShellEnvOptions configures a shell profile export.
type ShellEnvOptions struct {
	APIKey string
	// VarName is the exported variable. Defaults to Z_AI_API_KEY.
	VarName string
	// Home and Shell default to the user's home directory and $SHELL.
	Home  string
	Shell string
}

// ShellEnvResult reports what WriteShellEnv did and to which file.
type ShellEnvResult struct {
	Status  ShellEnvStatus
	Path    string
	Message string
}

// WriteShellEnv appends an export line for the credential inside a marked
// block of the detected shell profile. Placeholders, empty keys and
// profiles that already carry the block are skipped.
func WriteShellEnv(opts ShellEnvOptions) ShellEnvResult {
	if opts.VarName == "" {
		opts.VarName = "Z_AI_API_KEY"
	}
	if IsPlaceholder(opts.APIKey) {
		return ShellEnvResult{Status: ShellEnvSkipped, Message: "no API key to export"}
	}
	if opts.Home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ShellEnvResult{Status: ShellEnvFailed, Message: fmt.Sprintf("resolving home: %v", err)}
		}
		opts.Home = home
	}
	if opts.Shell == "" {
		opts.Shell = os.Getenv("SHELL")
	}

	profile := shellProfilePath(opts.Home, opts.Shell)
	start := "# cc-mirror: " + opts.VarName + " start"
	end := "# cc-mirror: " + opts.VarName + " end"

	content, err := readConfigFile(profile)
	if err != nil {
		return ShellEnvResult{Status: ShellEnvFailed, Path: profile, Message: err.Error()}
	}
	if strings.Contains(content, start) {
		return ShellEnvResult{Status: ShellEnvSkipped, Path: profile, Message: "already configured"}
	}

	var b strings.Builder
	b.WriteString(content)
	if content != "" && !strings.HasSuffix(content, "\n") {
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\n%s\nexport %s=%s\n%s\n", start, opts.VarName, shellQuote(opts.APIKey), end)

	if err := os.MkdirAll(filepath.Dir(profile), 0o755); err != nil {
		return ShellEnvResult{Status: ShellEnvFailed, Path: profile, Message: err.Error()}
	}
	if err := os.WriteFile(profile, []byte(b.String()), 0o644); err != nil {
		return ShellEnvResult{Status: ShellEnvFailed, Path: profile, Message: err.Error()}
	}
	return ShellEnvResult{Status: ShellEnvWritten, Path: profile}
}

func shellProfilePath(home, shell string) string {
	switch filepath.Base(shell) {
	case "zsh":
		return filepath.Join(home, ".zshrc")
	case "bash":
		return filepath.Join(home, ".bashrc")
	default:
		return filepath.Join(home, ".profile")
	}
}

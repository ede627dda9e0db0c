package pipeline

import (
	"context"

	"github.com/ccmirror/ccmirror/internal/core"
)

// Builder creates variants. Its step list is fixed at construction.
type Builder struct {
	opts  Options
	steps []Step
}

// NewBuilder returns a Builder. The team-mode step is included only when
// opts.TeamModeSupported is set.
func NewBuilder(opts Options) *Builder {
	steps := []Step{
		prepareDirsStep{},
		installStep{},
		writeConfigStep{},
		brandThemeStep{},
	}
	if opts.TeamModeSupported {
		steps = append(steps, teamModeStep{})
	}
	steps = append(steps,
		tweakStep{},
		promptPackStep{},
		wrapperStep{},
		shellEnvStep{},
		skillInstallStep{},
		finalizeStep{},
	)
	return &Builder{opts: opts, steps: steps}
}

// Steps returns the step names in execution order.
func (b *Builder) Steps() []string { return names(b.steps) }

// Build creates the variant described by params and blocks until done.
// Validation errors are returned before anything is written or spawned.
func (b *Builder) Build(ctx context.Context, params core.CreateParams) (*Result, error) {
	c, err := newCreateContext(ctx, b.opts, params)
	if err != nil {
		return nil, err
	}
	c.progress = b.opts.OnProgress
	return execute(c, b.steps)
}

// Start runs the build on its own goroutine. Consumers must drain
// Events until it is closed.
func (b *Builder) Start(ctx context.Context, params core.CreateParams) *Run {
	return startRun(ctx, func() (*BuildContext, error) {
		return newCreateContext(ctx, b.opts, params)
	}, b.steps)
}

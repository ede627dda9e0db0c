package pipeline

import (
	"context"

	"github.com/ccmirror/ccmirror/internal/core"
)

// Updater re-applies configuration to existing variants.
type Updater struct {
	opts  Options
	steps []Step
}

// NewUpdater returns an Updater. The team-mode step is always present so
// that legacy team assets are cleaned up when the capability is off.
func NewUpdater(opts Options) *Updater {
	return &Updater{opts: opts, steps: []Step{
		installStep{},
		modelOverridesStep{},
		configUpdateStep{},
		brandThemeStep{},
		teamModeUpdateStep{},
		tweakStep{},
		promptPackStep{},
		wrapperStep{},
		shellEnvStep{},
		skillInstallStep{},
		finalizeUpdateStep{},
	}}
}

// Steps returns the step names in execution order.
func (u *Updater) Steps() []string { return names(u.steps) }

// Update updates the variant root/name and blocks until done. A missing
// manifest returns core.ErrVariantNotFound before any step runs.
func (u *Updater) Update(ctx context.Context, root, name string, opts core.UpdateOptions) (*Result, error) {
	c, err := newUpdateContext(ctx, u.opts, root, name, opts)
	if err != nil {
		return nil, err
	}
	c.progress = u.opts.OnProgress
	return execute(c, u.steps)
}

// Start runs the update on its own goroutine. Consumers must drain
// Events until it is closed.
func (u *Updater) Start(ctx context.Context, root, name string, opts core.UpdateOptions) *Run {
	return startRun(ctx, func() (*BuildContext, error) {
		return newUpdateContext(ctx, u.opts, root, name, opts)
	}, u.steps)
}

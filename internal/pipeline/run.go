package pipeline

import (
	"context"

	"github.com/ccmirror/ccmirror/internal/core"
)

// Step is one unit of a create or update run.
type Step interface {
	Name() string
	Execute(c *BuildContext) error
}

// Result is the outcome of a successful run.
type Result struct {
	Meta        *core.VariantMeta
	WrapperPath string
	TweakResult *core.TweakResult
	// PromptPack reports whether the prompt pack is in effect; the stored
	// preference can be on while customization is skipped.
	PromptPack bool
	Notes      []string
}

// Event is delivered by Run.Events. It is either a Progress or a Done.
type Event interface {
	event()
}

// Progress reports what a step is doing.
type Progress struct {
	Step    string
	Message string
}

// Done is the final event of a Run.
type Done struct {
	Result *Result
	Err    error
}

func (Progress) event() {}
func (Done) event()     {}

// Run is a pipeline executing on its own goroutine. Every progress report
// is a rendezvous with the consumer, so the consumer's loop runs between
// steps.
type Run struct {
	events chan Event
}

// Events yields progress in step order followed by exactly one Done. The
// channel is closed after Done.
func (r *Run) Events() <-chan Event { return r.events }

// Wait drains the run and returns its outcome.
func (r *Run) Wait() (*Result, error) {
	var done Done
	for ev := range r.events {
		if d, ok := ev.(Done); ok {
			done = d
		}
	}
	return done.Result, done.Err
}

func startRun(ctx context.Context, init func() (*BuildContext, error), steps []Step) *Run {
	r := &Run{events: make(chan Event)}
	go func() {
		defer close(r.events)
		c, err := init()
		if err != nil {
			r.events <- Done{Err: err}
			return
		}
		c.cooperative = true
		c.progress = func(p Progress) {
			select {
			case r.events <- p:
			case <-ctx.Done():
			}
		}
		res, err := execute(c, steps)
		r.events <- Done{Result: res, Err: err}
	}()
	return r
}

// execute runs steps in order and stops at the first error.
func execute(c *BuildContext, steps []Step) (*Result, error) {
	for _, s := range steps {
		if err := c.Context.Err(); err != nil {
			return nil, err
		}
		c.step = s.Name()
		c.Log.Debug("running step", "step", c.step)
		if err := s.Execute(c); err != nil {
			c.Log.Error("step failed", "step", c.step, "error", err)
			return nil, err
		}
	}
	return &Result{
		Meta:        c.State.Meta,
		WrapperPath: c.Paths.WrapperPath,
		TweakResult: c.State.TweakResult,
		PromptPack:  c.Prefs.PromptPackEnabled,
		Notes:       c.Notes,
	}, nil
}

func names(steps []Step) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = s.Name()
	}
	return out
}

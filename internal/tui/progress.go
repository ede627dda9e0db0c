package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/ccmirror/ccmirror/internal/pipeline"
)

type stepStatus int

const (
	stepPending stepStatus = iota
	stepRunning
	stepDone
	stepFailed
)

type stepRow struct {
	name    string
	status  stepStatus
	message string
}

// eventMsg carries one pipeline event into the update loop.
type eventMsg struct {
	event pipeline.Event
}

// runClosedMsg is sent if the event channel closes without a Done.
type runClosedMsg struct{}

// progressModel renders a pipeline.Run as a list of steps with a spinner
// on the active one. Each event is received by a command, so the pipeline
// goroutine only advances after the view has been updated.
type progressModel struct {
	title   string
	rows    []stepRow
	index   map[string]int
	events  <-chan pipeline.Event
	cancel  context.CancelFunc
	spinner spinner.Model
	width   int

	canceled bool
	finished bool
	result   *pipeline.Result
	err      error
}

func newProgressModel(title string, steps []string, events <-chan pipeline.Event, cancel context.CancelFunc) progressModel {
	rows := make([]stepRow, len(steps))
	index := make(map[string]int, len(steps))
	for i, name := range steps {
		rows[i] = stepRow{name: name}
		index[name] = i
	}
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(spinnerStyle),
	)
	return progressModel{
		title:   title,
		rows:    rows,
		index:   index,
		events:  events,
		cancel:  cancel,
		spinner: s,
	}
}

func waitForEvent(events <-chan pipeline.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return runClosedMsg{}
		}
		return eventMsg{event: ev}
	}
}

func (m progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForEvent(m.events))
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) && !m.canceled {
			// The run stops before its next step; keep draining until Done.
			m.canceled = true
			if m.cancel != nil {
				m.cancel()
			}
		}
		return m, nil

	case eventMsg:
		switch ev := msg.event.(type) {
		case pipeline.Progress:
			m = m.advance(ev)
			return m, waitForEvent(m.events)
		case pipeline.Done:
			m = m.finish(ev)
			return m, tea.Quit
		}
		return m, waitForEvent(m.events)

	case runClosedMsg:
		if !m.finished {
			m = m.finish(pipeline.Done{Err: errors.New("pipeline ended without a result")})
		}
		return m, tea.Quit

	case spinner.TickMsg:
		if m.finished {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// advance marks the reporting step as running and every earlier step as
// done. Events for unknown steps are ignored.
func (m progressModel) advance(p pipeline.Progress) progressModel {
	i, ok := m.index[p.Step]
	if !ok {
		return m
	}
	rows := append([]stepRow(nil), m.rows...)
	for j := range rows[:i] {
		if rows[j].status != stepFailed {
			rows[j].status = stepDone
		}
	}
	rows[i].status = stepRunning
	rows[i].message = p.Message
	m.rows = rows
	return m
}

func (m progressModel) finish(d pipeline.Done) progressModel {
	m.finished = true
	m.result = d.Result
	m.err = d.Err
	rows := append([]stepRow(nil), m.rows...)
	for j := range rows {
		switch {
		case d.Err == nil:
			rows[j].status = stepDone
		case rows[j].status == stepRunning:
			rows[j].status = stepFailed
		}
	}
	m.rows = rows
	return m
}

func (m progressModel) View() string {
	var b strings.Builder
	b.WriteString(logoStyle.Render("ccmirror"))
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	for _, row := range m.rows {
		b.WriteString(m.clamp(m.renderRow(row)))
		b.WriteString("\n")
	}

	switch {
	case m.finished && m.err != nil:
		b.WriteString("\n")
		b.WriteString(m.clamp(errorStyle.Render("Error: " + m.err.Error())))
		b.WriteString("\n")
	case m.canceled:
		b.WriteString("\n")
		b.WriteString(warningStyle.Render("Canceling after the current step..."))
		b.WriteString("\n")
	case !m.finished:
		b.WriteString("\n")
		b.WriteString(helpStyle.Render(keys.Quit.Help().Key + " " + keys.Quit.Help().Desc))
		b.WriteString("\n")
	}
	return b.String()
}

func (m progressModel) renderRow(row stepRow) string {
	switch row.status {
	case stepRunning:
		line := m.spinner.View() + " " + stepActiveStyle.Render(row.name)
		if row.message != "" {
			line += "  " + stepMessageStyle.Render(row.message)
		}
		return line
	case stepDone:
		return stepDoneStyle.Render("✓ " + row.name)
	case stepFailed:
		line := errorStyle.Render("✗ " + row.name)
		if row.message != "" {
			line += "  " + stepMessageStyle.Render(row.message)
		}
		return line
	default:
		return stepPendingStyle.Render("· " + row.name)
	}
}

// clamp truncates a line to the terminal width (ANSI-escape aware).
func (m progressModel) clamp(line string) string {
	if m.width <= 0 || ansi.StringWidth(line) <= m.width {
		return line
	}
	return ansi.Truncate(line, m.width, "…")
}

// ShowProgress displays run until it finishes and returns its outcome.
// cancel is called when the user presses ctrl+c.
func ShowProgress(title string, steps []string, run *pipeline.Run, cancel context.CancelFunc, in io.Reader, out io.Writer) (*pipeline.Result, error) {
	p := tea.NewProgram(newProgressModel(title, steps, run.Events(), cancel), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		// The program failed; the run still has to be drained.
		if cancel != nil {
			cancel()
		}
		res, runErr := run.Wait()
		if runErr != nil {
			return nil, runErr
		}
		return res, fmt.Errorf("progress display: %w", err)
	}
	m, ok := final.(progressModel)
	if !ok {
		return nil, errors.New("progress display: unexpected model")
	}
	return m.result, m.err
}

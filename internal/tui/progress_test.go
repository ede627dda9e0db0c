package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/ccmirror/ccmirror/internal/core"
	"github.com/ccmirror/ccmirror/internal/pipeline"
)

var testSteps = []string{"install", "write-config", "tweak", "finalize"}

func newTestProgress(events chan pipeline.Event) progressModel {
	return newProgressModel("create glm", testSteps, events, nil)
}

func send(t *testing.T, m progressModel, msg tea.Msg) (progressModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	pm, ok := next.(progressModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return pm, cmd
}

func TestNewProgressModel(t *testing.T) {
	m := newTestProgress(make(chan pipeline.Event))
	if len(m.rows) != len(testSteps) {
		t.Fatalf("rows = %d, want %d", len(m.rows), len(testSteps))
	}
	for _, row := range m.rows {
		if row.status != stepPending {
			t.Errorf("%s status = %d, want pending", row.name, row.status)
		}
	}
	if m.Init() == nil {
		t.Error("Init should start the spinner and the event wait")
	}
}

func TestProgress_AdvanceMarksEarlierStepsDone(t *testing.T) {
	m := newTestProgress(make(chan pipeline.Event))

	m, cmd := send(t, m, eventMsg{event: pipeline.Progress{Step: "tweak", Message: "Running tweakcc"}})
	if cmd == nil {
		t.Error("a progress event should wait for the next event")
	}
	want := []stepStatus{stepDone, stepDone, stepRunning, stepPending}
	for i, row := range m.rows {
		if row.status != want[i] {
			t.Errorf("%s status = %d, want %d", row.name, row.status, want[i])
		}
	}
	if m.rows[2].message != "Running tweakcc" {
		t.Errorf("message = %q", m.rows[2].message)
	}
}

func TestProgress_UnknownStepIgnored(t *testing.T) {
	m := newTestProgress(make(chan pipeline.Event))
	m, _ = send(t, m, eventMsg{event: pipeline.Progress{Step: "mystery"}})
	for _, row := range m.rows {
		if row.status != stepPending {
			t.Errorf("%s status = %d, want pending", row.name, row.status)
		}
	}
}

func TestProgress_DoneSuccess(t *testing.T) {
	m := newTestProgress(make(chan pipeline.Event))
	res := &pipeline.Result{Meta: &core.VariantMeta{Name: "glm"}}

	m, cmd := send(t, m, eventMsg{event: pipeline.Done{Result: res}})
	if cmd == nil {
		t.Fatal("Done should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Done should return tea.Quit")
	}
	if !m.finished || m.result != res || m.err != nil {
		t.Errorf("finished = %v, result = %v, err = %v", m.finished, m.result, m.err)
	}
	for _, row := range m.rows {
		if row.status != stepDone {
			t.Errorf("%s status = %d, want done", row.name, row.status)
		}
	}
}

func TestProgress_DoneFailureMarksRunningStep(t *testing.T) {
	m := newTestProgress(make(chan pipeline.Event))
	m, _ = send(t, m, eventMsg{event: pipeline.Progress{Step: "tweak"}})
	m, _ = send(t, m, eventMsg{event: pipeline.Done{Err: errors.New("tweakcc exited with status 3")}})

	if m.rows[2].status != stepFailed {
		t.Errorf("tweak status = %d, want failed", m.rows[2].status)
	}
	if m.rows[3].status != stepPending {
		t.Errorf("finalize status = %d, want pending", m.rows[3].status)
	}
	view := m.View()
	if !strings.Contains(view, "tweakcc exited with status 3") {
		t.Errorf("view missing error:\n%s", view)
	}
}

func TestProgress_ChannelClosedWithoutDone(t *testing.T) {
	events := make(chan pipeline.Event)
	close(events)
	m := newTestProgress(events)

	msg := waitForEvent(events)()
	if _, ok := msg.(runClosedMsg); !ok {
		t.Fatalf("msg = %T, want runClosedMsg", msg)
	}
	m, _ = send(t, m, msg)
	if !m.finished || m.err == nil {
		t.Error("closed channel should finish with an error")
	}
}

func TestProgress_WaitForEventDelivers(t *testing.T) {
	events := make(chan pipeline.Event, 1)
	events <- pipeline.Progress{Step: "install", Message: "npm install"}

	msg := waitForEvent(events)()
	ev, ok := msg.(eventMsg)
	if !ok {
		t.Fatalf("msg = %T", msg)
	}
	if p, ok := ev.event.(pipeline.Progress); !ok || p.Step != "install" {
		t.Errorf("event = %+v", ev.event)
	}
}

func TestProgress_CtrlCCancelsOnce(t *testing.T) {
	calls := 0
	m := newProgressModel("create glm", testSteps, make(chan pipeline.Event), func() { calls++ })

	ctrlC := tea.KeyMsg{Type: tea.KeyCtrlC}
	m, cmd := send(t, m, ctrlC)
	if cmd != nil {
		t.Error("ctrl+c should keep draining, not quit")
	}
	m, _ = send(t, m, ctrlC)
	if calls != 1 {
		t.Errorf("cancel called %d times, want 1", calls)
	}
	if !strings.Contains(m.View(), "Canceling") {
		t.Errorf("view missing cancel notice:\n%s", m.View())
	}
}

func TestProgress_ViewClampsToWidth(t *testing.T) {
	m := newTestProgress(make(chan pipeline.Event))
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 30, Height: 10})
	m, _ = send(t, m, eventMsg{event: pipeline.Progress{
		Step:    "install",
		Message: strings.Repeat("very long message ", 10),
	}})

	for _, line := range strings.Split(m.View(), "\n") {
		if w := ansi.StringWidth(line); w > 30 {
			t.Errorf("line width %d > 30: %q", w, line)
		}
	}
}

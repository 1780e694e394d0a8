// Package progress renders the progress of a named multi-step task.
package progress

import (
	"fmt"
	"math"

	"github.com/penwyp/go-agent-meter/internal/core/model"
	"github.com/penwyp/go-agent-meter/internal/util"
)

const (
	barWidth        = 20
	compactBarWidth = 10
)

// Surface is where a tracker draws itself. Redraw replaces whatever the
// previous Redraw drew; Print emits a line that stays.
type Surface interface {
	Redraw(lines []string)
	Print(line string)
}

// Tracker moves through Idle -> Running -> Completed. Start may be called in
// any state and always resets. A Tracker is not safe for concurrent use.
type Tracker struct {
	surface Surface

	taskName  string
	total     int
	steps     []string
	current   string
	completed int
	state     model.TrackerState
}

// New creates an idle tracker drawing on surface. A nil surface draws nothing.
func New(surface Surface) *Tracker {
	return &Tracker{surface: surface}
}

// Start begins a new run, discarding everything from the previous one
func (t *Tracker) Start(taskName string, totalSteps int) {
	t.taskName = taskName
	t.total = totalSteps
	t.steps = nil
	t.current = ""
	t.completed = 0
	t.state = model.StateRunning

	util.LogDebug("Task started", util.F("task", taskName), util.F("total", totalSteps))
	t.redraw()
}

// Step records one completed unit of work
func (t *Tracker) Step(label string) {
	t.steps = append(t.steps, label)
	t.completed++
	t.redraw()
}

// SetCurrent replaces the label of the work in flight
func (t *Tracker) SetCurrent(label string) {
	t.current = label
	t.redraw()
}

// Complete forces the counter to the declared total and prints a done message
func (t *Tracker) Complete() {
	t.completed = t.total
	t.state = model.StateCompleted
	t.redraw()

	if t.surface != nil {
		t.surface.Print(fmt.Sprintf("%s %s complete!", util.GlyphDone, t.taskName))
	}
	util.LogDebug("Task complete", util.F("task", t.taskName), util.F("steps", len(t.steps)))
}

// Percent is round(100*completed/total), at most 100. An idle tracker is at
// 0; a started task with no steps declared is at 100.
func (t *Tracker) Percent() int {
	if t.state == model.StateIdle {
		return 0
	}
	if t.total <= 0 {
		return 100
	}
	pct := int(math.Round(100 * float64(t.completed) / float64(t.total)))
	if pct > 100 {
		pct = 100
	}
	return pct
}

// Render returns the full multi-line view
func (t *Tracker) Render() []string {
	pct := t.Percent()
	lines := make([]string, 0, len(t.steps)+2)
	lines = append(lines, fmt.Sprintf("%s %d%% [%d/%d] %s",
		util.ProgressBar(pct, barWidth), pct, t.completed, t.total, t.taskName))

	for _, step := range t.steps {
		lines = append(lines, fmt.Sprintf("  %s %s", util.GlyphCheck, step))
	}
	if t.state != model.StateCompleted && t.current != "" {
		lines = append(lines, fmt.Sprintf("  %s %s", util.GlyphHourglass, t.current))
	}
	return lines
}

// Compact returns a single-line view for embedding in other output
func (t *Tracker) Compact() string {
	pct := t.Percent()
	return fmt.Sprintf("[%s] %d/%d (%d%%)", util.ProgressBar(pct, compactBarWidth), t.completed, t.total, pct)
}

// State returns a snapshot of the tracker
func (t *Tracker) State() model.ProgressState {
	steps := make([]string, len(t.steps))
	copy(steps, t.steps)
	return model.ProgressState{
		TaskName:       t.taskName,
		TotalSteps:     t.total,
		CompletedSteps: steps,
		CurrentStep:    t.current,
		Completed:      t.completed,
		State:          t.state,
	}
}

func (t *Tracker) redraw() {
	if t.surface == nil {
		return
	}
	t.surface.Redraw(t.Render())
}

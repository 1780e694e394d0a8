// Package fixtures generates agent event files for tests.
package fixtures

import (
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-agent-meter/internal/core/model"
)

// EventFileGenerator writes JSONL event files under a base directory
type EventFileGenerator struct {
	baseDir string
}

// NewEventFileGenerator creates a new generator rooted at baseDir
func NewEventFileGenerator(baseDir string) *EventFileGenerator {
	return &EventFileGenerator{
		baseDir: baseDir,
	}
}

// Path returns the location of a named event file
func (g *EventFileGenerator) Path(name string) string {
	return filepath.Join(g.baseDir, name)
}

// Record builds a record event priced from the rate table
func Record(service, modelName string, input, output int64) model.Event {
	return model.Event{Type: model.EventRecord, Service: service, Model: modelName, Input: input, Output: output}
}

// RecordWithCost builds a record event carrying its own cost
func RecordWithCost(service, modelName string, cost float64) model.Event {
	return model.Event{Type: model.EventRecord, Service: service, Model: modelName, Cost: &cost}
}

// ResearchRun is a two-step task with one priced and one costed call.
// Its total cost is 60.25 against the default rates.
func ResearchRun() []model.Event {
	return []model.Event{
		{Type: model.EventStart, Task: "Research", Total: 2},
		{Type: model.EventCurrent, Label: "searching"},
		Record(model.ServiceOpenAI, "gpt-4", 1_000_000, 500_000),
		{Type: model.EventStep, Label: "search"},
		RecordWithCost("clearbit", "enrich", 0.25),
		{Type: model.EventStep, Label: "enrich"},
		{Type: model.EventComplete},
	}
}

// Write creates or replaces the named file with events
func (g *EventFileGenerator) Write(name string, events []model.Event) (string, error) {
	path := g.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, nil, 0644); err != nil {
		return "", err
	}
	return path, g.Append(name, events...)
}

// Append adds events to the end of the named file
func (g *EventFileGenerator) Append(name string, events ...model.Event) error {
	return g.AppendRaw(name, encode(events)...)
}

// AppendRaw adds literal lines, for malformed input cases
func (g *EventFileGenerator) AppendRaw(name string, lines ...string) error {
	file, err := os.OpenFile(g.Path(name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	for _, line := range lines {
		if _, err := file.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// AppendRawNoNewline adds a literal fragment with no line terminator, like a
// writer caught mid-line
func (g *EventFileGenerator) AppendRawNoNewline(name, fragment string) error {
	file, err := os.OpenFile(g.Path(name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(fragment)
	return err
}

func encode(events []model.Event) []string {
	lines := make([]string, 0, len(events))
	for _, e := range events {
		data, err := sonic.Marshal(e)
		if err != nil {
			// model.Event has only plain fields
			panic(err)
		}
		lines = append(lines, string(data))
	}
	return lines
}

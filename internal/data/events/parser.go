package events

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-agent-meter/internal/core/model"
	"github.com/penwyp/go-agent-meter/internal/util"
)

// ParseLine decodes one JSONL event line
func ParseLine(line []byte) (model.Event, error) {
	var event model.Event
	if err := sonic.Unmarshal(line, &event); err != nil {
		return model.Event{}, fmt.Errorf("invalid event JSON: %w", err)
	}

	switch event.Type {
	case model.EventRecord, model.EventStart, model.EventStep, model.EventCurrent, model.EventComplete:
		return event, nil
	case "":
		return model.Event{}, fmt.Errorf("event has no type")
	default:
		return model.Event{}, fmt.Errorf("unknown event type %q", event.Type)
	}
}

// ReadResult is the outcome of reading an event stream
type ReadResult struct {
	Events  []model.Event
	Lines   int
	Skipped int
}

// ReadAll decodes every line of r. Blank lines are ignored and invalid lines
// are skipped and counted.
func ReadAll(r io.Reader) (ReadResult, error) {
	var result ReadResult

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	for scanner.Scan() {
		result.Lines++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		event, err := ParseLine(line)
		if err != nil {
			util.LogDebugf("Skip invalid event line %d: %v", result.Lines, err)
			result.Skipped++
			continue
		}
		result.Events = append(result.Events, event)
	}

	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("failed to scan events: %w", err)
	}
	return result, nil
}

// ReadFile decodes every line of the file at path
func ReadFile(path string) (ReadResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return ReadResult{}, fmt.Errorf("failed to open event file: %w", err)
	}
	defer file.Close()

	return ReadAll(file)
}

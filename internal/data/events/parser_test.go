package events

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/penwyp/go-agent-meter/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    model.Event
		wantErr bool
	}{
		{
			name: "record",
			line: `{"type":"record","service":"openai","model":"gpt-4","input":1000000,"output":500000}`,
			want: model.Event{Type: model.EventRecord, Service: "openai", Model: "gpt-4", Input: 1000000, Output: 500000},
		},
		{
			name: "start",
			line: `{"type":"start","task":"Build","total":4}`,
			want: model.Event{Type: model.EventStart, Task: "Build", Total: 4},
		},
		{
			name: "step",
			line: `{"type":"step","label":"compile"}`,
			want: model.Event{Type: model.EventStep, Label: "compile"},
		},
		{
			name: "complete",
			line: `{"type":"complete"}`,
			want: model.Event{Type: model.EventComplete},
		},
		{name: "missing type", line: `{"label":"x"}`, wantErr: true},
		{name: "unknown type", line: `{"type":"explode"}`, wantErr: true},
		{name: "not json", line: `record openai gpt-4`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLine([]byte(tt.line))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLineSuppliedCost(t *testing.T) {
	event, err := ParseLine([]byte(`{"type":"record","service":"mail","model":"send","cost":0.002}`))
	require.NoError(t, err)
	require.NotNil(t, event.Cost)
	assert.Equal(t, 0.002, *event.Cost)

	event, err = ParseLine([]byte(`{"type":"record","service":"mail","model":"send","cost":0}`))
	require.NoError(t, err)
	require.NotNil(t, event.Cost, "an explicit zero cost is still supplied")
}

func TestReadAll(t *testing.T) {
	input := strings.Join([]string{
		`{"type":"start","task":"T","total":2}`,
		``,
		`garbage`,
		`{"type":"step","label":"a"}`,
		`{"type":"nope"}`,
		`{"type":"complete"}`,
	}, "\n")

	result, err := ReadAll(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 6, result.Lines)
	assert.Equal(t, 2, result.Skipped)
	require.Len(t, result.Events, 3)
	assert.Equal(t, model.EventComplete, result.Events[2].Type)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"step","label":"a"}`+"\n"), 0644))

	result, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, result.Events, 1)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.Error(t, err)
}

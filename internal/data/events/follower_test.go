package events

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/penwyp/go-agent-meter/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func appendLine(t *testing.T, path, line string) {
	t.Helper()
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	require.NoError(t, err)
	_, err = file.WriteString(line)
	require.NoError(t, err)
	require.NoError(t, file.Close())
}

func receive(t *testing.T, ch <-chan model.Event) model.Event {
	t.Helper()
	select {
	case event := <-ch:
		return event
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
		return model.Event{}
	}
}

func startFollower(t *testing.T, path string) (<-chan model.Event, context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan model.Event, 16)
	done := make(chan error, 1)
	go func() {
		done <- NewFollower(path).Run(ctx, out)
	}()
	return out, cancel, done
}

func stop(t *testing.T, cancel context.CancelFunc, done <-chan error) {
	t.Helper()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("follower did not stop")
	}
}

func TestFollowerEmitsExistingAndAppendedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	appendLine(t, path, `{"type":"start","task":"T","total":2}`+"\n")

	out, cancel, done := startFollower(t, path)
	defer stop(t, cancel, done)

	assert.Equal(t, model.EventStart, receive(t, out).Type)

	appendLine(t, path, `{"type":"step","label":"a"}`+"\n")
	event := receive(t, out)
	assert.Equal(t, model.EventStep, event.Type)
	assert.Equal(t, "a", event.Label)
}

func TestFollowerWaitsForCompleteLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	appendLine(t, path, "")

	out, cancel, done := startFollower(t, path)
	defer stop(t, cancel, done)

	appendLine(t, path, `{"type":"step",`)
	appendLine(t, path, `"label":"joined"}`+"\n")

	event := receive(t, out)
	assert.Equal(t, "joined", event.Label)
}

func TestFollowerPicksUpLateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")

	out, cancel, done := startFollower(t, path)
	defer stop(t, cancel, done)

	// Give the watcher a moment to register the directory
	time.Sleep(50 * time.Millisecond)
	appendLine(t, path, `{"type":"complete"}`+"\n")

	assert.Equal(t, model.EventComplete, receive(t, out).Type)
}

func TestFollowerMissingDirectory(t *testing.T) {
	err := NewFollower(filepath.Join(t.TempDir(), "missing", "events.jsonl")).Run(context.Background(), make(chan model.Event))
	assert.Error(t, err)
}

func TestFollowerFlushesTrailingLineOnStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	appendLine(t, path, `{"type":"step","label":"a"}`+"\n"+`{"type":"complete"}`)

	out, cancel, done := startFollower(t, path)

	// The complete line is only buffered while the follower runs
	assert.Equal(t, model.EventStep, receive(t, out).Type)
	select {
	case event := <-out:
		t.Fatalf("unexpected event before stop: %+v", event)
	case <-time.After(100 * time.Millisecond):
	}

	stop(t, cancel, done)
	assert.Equal(t, model.EventComplete, receive(t, out).Type)
}

func TestFollowerAndReadAllAgreeOnTrailingLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	appendLine(t, path, `{"type":"start","task":"T","total":1}`+"\n"+`{"type":"complete"}`)

	result, err := ReadFile(path)
	require.NoError(t, err)

	out, cancel, done := startFollower(t, path)
	var followed []model.Event
	followed = append(followed, receive(t, out))
	stop(t, cancel, done)
	followed = append(followed, receive(t, out))

	assert.Equal(t, result.Events, followed)
}

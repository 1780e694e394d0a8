package events

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/penwyp/go-agent-meter/internal/core/model"
	"github.com/penwyp/go-agent-meter/internal/util"
)

// Follower tails a JSONL event file. It emits the lines already present, then
// every complete line appended afterwards. A truncated file is re-read from
// the start.
type Follower struct {
	path    string
	offset  int64
	partial []byte
}

// NewFollower creates a follower for path
func NewFollower(path string) *Follower {
	return &Follower{path: path}
}

// Run sends events on out until ctx is done. It does not close out.
// When ctx is done, a trailing line without a newline is still emitted if
// out has room for it.
func (f *Follower) Run(ctx context.Context, out chan<- model.Event) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory so replaced or late-created files are still seen
	dir := filepath.Dir(f.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	if err := f.drain(ctx, out); err != nil {
		return err
	}

	target := filepath.Clean(f.path)
	for {
		select {
		case <-ctx.Done():
			f.flush(out)
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if err := f.drain(ctx, out); err != nil {
					return err
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			util.LogError("File watcher error: " + err.Error())
		}
	}
}

// drain reads everything past the current offset and emits complete lines
func (f *Follower) drain(ctx context.Context, out chan<- model.Event) error {
	file, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open event file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat event file: %w", err)
	}
	if info.Size() < f.offset {
		util.LogInfof("Event file %s was truncated, reading from start", f.path)
		f.offset = 0
		f.partial = nil
	}

	if _, err := file.Seek(f.offset, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek event file: %w", err)
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read event file: %w", err)
	}
	f.offset += int64(len(data))

	buf := append(f.partial, data...)
	for {
		idx := bytes.IndexByte(buf, '\n')
		if idx < 0 {
			break
		}
		line := bytes.TrimSpace(buf[:idx])
		buf = buf[idx+1:]
		if len(line) == 0 {
			continue
		}

		event, err := ParseLine(line)
		if err != nil {
			util.LogDebugf("Skip invalid event line: %v", err)
			continue
		}

		select {
		case out <- event:
		case <-ctx.Done():
			f.partial = nil
			return nil
		}
	}
	f.partial = append([]byte(nil), buf...)
	return nil
}

// flush emits the buffered line that never got its newline
func (f *Follower) flush(out chan<- model.Event) {
	line := bytes.TrimSpace(f.partial)
	f.partial = nil
	if len(line) == 0 {
		return
	}

	event, err := ParseLine(line)
	if err != nil {
		util.LogDebugf("Skip invalid trailing event line: %v", err)
		return
	}

	select {
	case out <- event:
	default:
		util.LogWarnf("Dropped trailing event %q, output is full", event.Type)
	}
}

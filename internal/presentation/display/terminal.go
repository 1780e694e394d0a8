package display

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-runewidth"
	"github.com/penwyp/go-agent-meter/internal/util"
	"golang.org/x/term"
)

const fallbackWidth = 80

// Terminal draws tracker frames. On an interactive terminal each Redraw
// clears the screen first and long lines are truncated to the terminal width;
// otherwise frames are appended as plain lines.
//
// Lines sent through Write on an interactive terminal become the status line,
// which is drawn again below every frame so a clear does not erase it.
type Terminal struct {
	mu          sync.Mutex
	out         io.Writer
	interactive bool
	width       func() int
	status      string
}

// NewTerminal wraps f, detecting whether it is a terminal
func NewTerminal(f *os.File) *Terminal {
	fd := int(f.Fd())
	return &Terminal{
		out:         f,
		interactive: term.IsTerminal(fd),
		width: func() int {
			w, _, err := term.GetSize(fd)
			if err != nil || w <= 0 {
				return fallbackWidth
			}
			return w
		},
	}
}

// NewWriterTerminal wraps an arbitrary writer. Interactive writers get ANSI
// clears and a fixed width of cols.
func NewWriterTerminal(w io.Writer, interactive bool, cols int) *Terminal {
	if cols <= 0 {
		cols = fallbackWidth
	}
	return &Terminal{
		out:         w,
		interactive: interactive,
		width:       func() int { return cols },
	}
}

func (t *Terminal) Redraw(lines []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.interactive {
		t.write(util.ClearScreen + util.MoveCursorHome)
		width := t.width()
		for _, line := range lines {
			t.write(runewidth.Truncate(line, width, "…") + "\n")
		}
		if t.status != "" {
			t.write(runewidth.Truncate(t.status, width, "…") + "\n")
		}
		return
	}

	for _, line := range lines {
		t.write(line + "\n")
	}
}

func (t *Terminal) Print(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.write(line + "\n")
}

// Write lets the terminal serve as a plain line sink, for example for the
// ledger summary.
func (t *Terminal) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.interactive {
		if status := strings.TrimRight(string(p), "\r\n"); status != "" {
			t.status = status
		}
	}
	return t.out.Write(p)
}

func (t *Terminal) write(s string) {
	if _, err := fmt.Fprint(t.out, s); err != nil {
		util.LogDebugf("Failed to write to terminal: %v", err)
	}
}

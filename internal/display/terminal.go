package display

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/hamed0406/wslwatch/internal/domain"
)

// Terminal redraws a single status line, the console version of the widget.
type Terminal struct {
	mu     sync.Mutex
	w      io.Writer
	status domain.Status
	clock  string

	styles map[domain.Level]*color.Color
	clockC *color.Color
}

func NewTerminal(w io.Writer, noColor bool) *Terminal {
	t := &Terminal{
		w: w,
		styles: map[domain.Level]*color.Color{
			domain.LevelPending: color.New(color.Bold),
			domain.LevelOK:      color.New(color.FgGreen, color.Bold),
			domain.LevelFail:    color.New(color.FgRed, color.Bold),
			domain.LevelError:   color.New(color.FgYellow, color.Bold),
		},
		clockC: color.New(color.FgBlue),
	}
	if noColor {
		// otherwise fatih/color decides from the tty and NO_COLOR
		for _, c := range t.styles {
			c.DisableColor()
		}
		t.clockC.DisableColor()
	}
	return t
}

func (t *Terminal) SetStatus(s domain.Status) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = s
	t.redraw()
}

func (t *Terminal) SetClock(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clock = text
	t.redraw()
}

// Close moves the cursor off the status line.
func (t *Terminal) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.w)
}

func (t *Terminal) redraw() {
	style, ok := t.styles[t.status.Level]
	if !ok {
		style = t.styles[domain.LevelPending]
	}
	// \r + erase line so the widget stays on one row
	fmt.Fprintf(t.w, "\r\x1b[2K%s  %s", style.Sprint(t.status.Text), t.clockC.Sprint(t.clock))
}

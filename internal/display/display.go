package display

import "github.com/hamed0406/wslwatch/internal/domain"

// Surface is anything that can show the two labels of the widget.
// Calls come from the watcher's loop goroutine.
type Surface interface {
	SetStatus(s domain.Status)
	SetClock(text string)
}

// Multi fans updates out to several surfaces.
type Multi []Surface

func (m Multi) SetStatus(s domain.Status) {
	for _, d := range m {
		if d != nil {
			d.SetStatus(s)
		}
	}
}

func (m Multi) SetClock(text string) {
	for _, d := range m {
		if d != nil {
			d.SetClock(text)
		}
	}
}

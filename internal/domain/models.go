package domain

import "time"

// Level is the display class of a status message.
type Level string

const (
	LevelPending Level = "pending"
	LevelOK      Level = "ok"
	LevelFail    Level = "fail"
	LevelError   Level = "error"
)

type Status struct {
	Level     Level     `json:"level"`
	Text      string    `json:"text"`
	CheckedAt time.Time `json:"checked_at,omitempty"`
}

// State is what the watcher owns between callbacks. LastSuccess stays nil
// until the first check that reports the service active.
type State struct {
	LastSuccess *time.Time
	Status      Status
}

// Snapshot is a copy of what the display currently shows.
type Snapshot struct {
	Title       string     `json:"title"`
	Service     string     `json:"service"`
	Status      Status     `json:"status"`
	Clock       string     `json:"clock"`
	LastSuccess *time.Time `json:"last_success,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ElapsedSeconds returns the whole seconds between last and now, never negative.
func ElapsedSeconds(last, now time.Time) int64 {
	d := now.Sub(last)
	if d < 0 {
		return 0
	}
	return int64(d / time.Second)
}

package display

import (
	"sync"
	"time"

	"github.com/hamed0406/wslwatch/internal/domain"
)

// Board keeps the latest labels for readers on other goroutines
// (the status API).
type Board struct {
	mu   sync.RWMutex
	snap domain.Snapshot
	now  func() time.Time
}

func NewBoard(title, service string) *Board {
	return &Board{
		snap: domain.Snapshot{Title: title, Service: service},
		now:  time.Now,
	}
}

func (b *Board) SetStatus(s domain.Status) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.snap.Status = s
	if s.Level == domain.LevelOK && !s.CheckedAt.IsZero() {
		at := s.CheckedAt
		b.snap.LastSuccess = &at
	}
	b.snap.UpdatedAt = b.now().UTC()
}

func (b *Board) SetClock(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.snap.Clock = text
	b.snap.UpdatedAt = b.now().UTC()
}

// Snapshot returns a copy safe to hand to another goroutine.
func (b *Board) Snapshot() domain.Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s := b.snap
	if s.LastSuccess != nil {
		at := *s.LastSuccess
		s.LastSuccess = &at
	}
	return s
}

package solver

import (
	"sync"

	"github.com/kilianp07/busytime/core/model"
)

// entry is the memoized outcome of one window. pivot is a position in the
// job slice, -1 when the window needs no pivot.
type entry struct {
	cost     int
	feasible bool
	pivot    int
	start    int
}

var emptyEntry = entry{feasible: true, pivot: -1}

type memo interface {
	get(w model.Window) (entry, bool)
	put(w model.Window, e entry)
	size() int
}

// mapMemo backs sequential solves.
type mapMemo map[model.Window]entry

func (m mapMemo) get(w model.Window) (entry, bool) {
	e, ok := m[w]
	return e, ok
}

func (m mapMemo) put(w model.Window, e entry) { m[w] = e }

func (m mapMemo) size() int { return len(m) }

// syncMemo is shared between the goroutines of a parallel solve.
type syncMemo struct {
	mu sync.RWMutex
	m  map[model.Window]entry
}

func newSyncMemo() *syncMemo {
	return &syncMemo{m: make(map[model.Window]entry)}
}

func (s *syncMemo) get(w model.Window) (entry, bool) {
	s.mu.RLock()
	e, ok := s.m[w]
	s.mu.RUnlock()
	return e, ok
}

func (s *syncMemo) put(w model.Window, e entry) {
	s.mu.Lock()
	s.m[w] = e
	s.mu.Unlock()
}

func (s *syncMemo) size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

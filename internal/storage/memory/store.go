// Package memory is the in-process driver for the employee and performance stores.
package memory

import (
	"context"
	"sync"
	"time"

	"hrperf/internal/domain/employee"
	"hrperf/internal/domain/performance"
)

// Store keeps every collection behind its own lock. Writes are serialized per collection,
// reads run concurrently.
type Store struct {
	empMu     sync.RWMutex
	employees map[string]*employeeRow

	reviewMu sync.RWMutex
	reviews  map[string]*reviewRow

	goalMu sync.RWMutex
	goals  map[string]*goalRow

	feedbackMu sync.RWMutex
	feedback   map[string]*feedbackRow

	seqMu sync.Mutex
	seq   int64
}

var (
	_ employee.Store    = (*Store)(nil)
	_ performance.Store = (*Store)(nil)
)

func New() *Store {
	return &Store{
		employees: make(map[string]*employeeRow),
		reviews:   make(map[string]*reviewRow),
		goals:     make(map[string]*goalRow),
		feedback:  make(map[string]*feedbackRow),
	}
}

func (s *Store) Ping(context.Context) error {
	return nil
}

func (s *Store) Close() {}

func (s *Store) nextSeq() int64 {
	s.seqMu.Lock()
	defer s.seqMu.Unlock()
	s.seq++
	return s.seq
}

func now() time.Time {
	return time.Now().UTC()
}

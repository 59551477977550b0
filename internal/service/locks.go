package service

import (
	"sync"

	"github.com/google/uuid"
)

// tournamentLocks serializes writes that touch the same tournament's bracket.
// Different tournaments never wait on each other. Entries outlive deleted
// tournaments so a waiter never races a fresh mutex for the same ID.
type tournamentLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

var locks = &tournamentLocks{locks: make(map[uuid.UUID]*sync.Mutex)}

func (l *tournamentLocks) lock(id uuid.UUID) func() {
	l.mu.Lock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

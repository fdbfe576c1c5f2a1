package insumo

import "sync"

// registroLocks serializa asignaciones y reversiones de un mismo registro.
// Las entradas se liberan cuando nadie las usa.
type registroLocks struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newRegistroLocks() *registroLocks {
	return &registroLocks{locks: make(map[string]*refMutex)}
}

// Lock bloquea el registro y devuelve la función que lo libera.
func (l *registroLocks) Lock(registroID string) func() {
	l.mu.Lock()
	m, ok := l.locks[registroID]
	if !ok {
		m = &refMutex{}
		l.locks[registroID] = m
	}
	m.refs++
	l.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		l.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(l.locks, registroID)
		}
		l.mu.Unlock()
	}
}

package colony

import (
	"sync"

	"github.com/andrescamacho/colony-engine/internal/domain/shared"
)

// PlayerLocks is a keyed mutex: at most one goroutine works on a player at a time.
// Entries are reference counted and dropped when no goroutine holds or waits on them.
type PlayerLocks struct {
	mu    sync.Mutex
	locks map[string]*playerLock
}

type playerLock struct {
	mu   sync.Mutex
	refs int
}

func NewPlayerLocks() *PlayerLocks {
	return &PlayerLocks{locks: make(map[string]*playerLock)}
}

// Lock blocks until the player's lock is held and returns its release function
func (l *PlayerLocks) Lock(key shared.PlayerKey) (unlock func()) {
	l.mu.Lock()
	entry, ok := l.locks[key.Value()]
	if !ok {
		entry = &playerLock{}
		l.locks[key.Value()] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			entry.mu.Unlock()

			l.mu.Lock()
			entry.refs--
			if entry.refs == 0 {
				delete(l.locks, key.Value())
			}
			l.mu.Unlock()
		})
	}
}

// Len returns the number of players currently locked or awaited
func (l *PlayerLocks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

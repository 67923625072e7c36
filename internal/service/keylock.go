package service

import "sync"

// userLocks hands out one mutex per Telegram user so that the
// check → credit → commit sequence runs at most once at a time per user
// within this process. Cross-process duplicates are caught by the registry's
// conditional claim update.
type userLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[int64]*sync.Mutex)}
}

// lock blocks until the user's mutex is held and returns the unlock func.
func (l *userLocks) lock(telegramID int64) func() {
	l.mu.Lock()
	m, ok := l.locks[telegramID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[telegramID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

package session

import "sync"

// Locker serializes work per user. Different users never contend with each
// other beyond the short critical section guarding the lock table.
type Locker struct {
	mu    sync.Mutex
	locks map[UserID]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

// NewLocker creates an empty Locker.
func NewLocker() *Locker {
	return &Locker{locks: make(map[UserID]*userLock)}
}

// Lock blocks until the caller holds the lock for userID and returns the
// function that releases it. Entries are dropped once nobody holds or waits.
func (l *Locker) Lock(userID UserID) (unlock func()) {
	l.mu.Lock()
	ul, ok := l.locks[userID]
	if !ok {
		ul = &userLock{}
		l.locks[userID] = ul
	}
	ul.refs++
	l.mu.Unlock()

	ul.mu.Lock()
	return func() {
		ul.mu.Unlock()
		l.mu.Lock()
		ul.refs--
		if ul.refs == 0 {
			delete(l.locks, userID)
		}
		l.mu.Unlock()
	}
}

// Held returns the number of users with an active or pending lock.
func (l *Locker) Held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

package session

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Store is the keyed mapping from user identity to session state.
// Implementations hand out copies; the only way to change a session is Put.
type Store interface {
	Get(userID UserID) (*State, bool)
	Put(state *State)
	Delete(userID UserID)
	Len() int
}

// EvictFunc is called whenever a session leaves the store: TTL expiry,
// capacity pressure or an explicit Delete. It runs while the store is locked
// for every user, so it must hand the state off and return.
type EvictFunc func(state *State)

// MemoryStore keeps sessions in process memory with optional idle expiry.
type MemoryStore struct {
	lru *expirable.LRU[UserID, *State]
}

// DefaultMaxSessions caps the number of sessions held at once.
const DefaultMaxSessions = 100_000

// NewMemoryStore creates a store that holds at most maxSessions sessions and
// drops a session ttl after its last Put. A ttl of zero disables expiry.
func NewMemoryStore(maxSessions int, ttl time.Duration, onEvict EvictFunc) *MemoryStore {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	s := &MemoryStore{}
	var cb expirable.EvictCallback[UserID, *State]
	if onEvict != nil {
		cb = func(_ UserID, st *State) {
			if st != nil {
				onEvict(st)
			}
		}
	}
	s.lru = expirable.NewLRU[UserID, *State](maxSessions, cb, ttl)
	return s
}

func (s *MemoryStore) Get(userID UserID) (*State, bool) {
	st, ok := s.lru.Get(userID)
	if !ok || st == nil {
		return nil, false
	}
	return st.Clone(), true
}

func (s *MemoryStore) Put(state *State) {
	s.lru.Add(state.UserID, state.Clone())
}

func (s *MemoryStore) Delete(userID UserID) {
	s.lru.Remove(userID)
}

func (s *MemoryStore) Len() int {
	return s.lru.Len()
}

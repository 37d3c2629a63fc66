package chat

import (
	"hash/fnv"
	"slices"
	"sync"
	"time"

	"github.com/nkrv/shopchat/internal/config"
	"github.com/nkrv/shopchat/internal/domain"
)

// SessionStore keeps per-user conversational context for the process
// lifetime. It is sharded so users hash to independent locks: map access is
// guarded per shard, while Lock serializes whole message cycles for one
// user without blocking anyone else.
type SessionStore struct {
	ttl    time.Duration
	shards [config.SessionShards]sessionShard
}

type sessionShard struct {
	mu      sync.Mutex
	entries map[string]*sessionEntry
}

type sessionEntry struct {
	// cycleMu serializes the full read-resolve-mutate-write cycle of one
	// message for this user. Field access itself is guarded by the shard
	// lock, never by cycleMu.
	cycleMu sync.Mutex
	sess    domain.ChatSession
	touched time.Time
}

// NewSessionStore creates a store whose entries expire after sitting idle
// for ttl. A ttl of 0 disables expiry.
func NewSessionStore(ttl time.Duration) *SessionStore {
	s := &SessionStore{ttl: ttl}
	for i := range s.shards {
		s.shards[i].entries = make(map[string]*sessionEntry)
	}
	return s
}

// Lock claims the per-user critical section and returns its release
// function. Callers hold it across the whole converse cycle so two
// concurrent messages from one user cannot interleave their
// read-modify-write of the session.
//
// Acquisition re-checks that the locked entry is still the one in the map:
// the sweeper may drop an idle entry between lookup and lock, and a lock on
// that orphan would serialize nothing. Once the re-check passes the sweeper
// cannot remove the entry, since its TryLock fails while the cycle lock is
// held.
func (s *SessionStore) Lock(userID string) func() {
	for {
		e := s.entry(userID)
		e.cycleMu.Lock()

		sh := s.shard(userID)
		sh.mu.Lock()
		live := sh.entries[userID] == e
		sh.mu.Unlock()
		if live {
			return e.cycleMu.Unlock
		}
		e.cycleMu.Unlock()
	}
}

// Get returns a copy of the user's session, creating an empty one on first
// access.
func (s *SessionStore) Get(userID string) domain.ChatSession {
	sh := s.shard(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	e := sh.ensure(userID)
	e.touched = time.Now()
	cp := e.sess
	cp.LastProductsShown = slices.Clone(e.sess.LastProductsShown)
	return cp
}

// Put replaces the user's session wholesale.
func (s *SessionStore) Put(userID string, sess domain.ChatSession) {
	sh := s.shard(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	e := sh.ensure(userID)
	e.sess = sess
	e.touched = time.Now()
}

// Reset clears the user's session back to empty.
func (s *SessionStore) Reset(userID string) {
	s.Put(userID, domain.ChatSession{})
}

// Sweep drops sessions idle longer than the store TTL and reports how many
// were removed. Entries in the middle of a converse cycle are skipped.
func (s *SessionStore) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := time.Now().Add(-s.ttl)
	removed := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		for id, e := range sh.entries {
			if e.touched.Before(cutoff) && e.cycleMu.TryLock() {
				delete(sh.entries, id)
				e.cycleMu.Unlock()
				removed++
			}
		}
		sh.mu.Unlock()
	}
	return removed
}

func (s *SessionStore) shard(userID string) *sessionShard {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return &s.shards[h.Sum32()%config.SessionShards]
}

func (s *SessionStore) entry(userID string) *sessionEntry {
	sh := s.shard(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.ensure(userID)
}

// ensure must be called with the shard lock held.
func (sh *sessionShard) ensure(userID string) *sessionEntry {
	e, ok := sh.entries[userID]
	if !ok {
		e = &sessionEntry{touched: time.Now()}
		sh.entries[userID] = e
	}
	return e
}

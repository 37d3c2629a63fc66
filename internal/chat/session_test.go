package chat

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nkrv/shopchat/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStoreGetCreatesEmpty(t *testing.T) {
	s := NewSessionStore(time.Minute)
	sess := s.Get("u1")
	assert.Empty(t, sess.LastProductsShown)
	assert.Equal(t, domain.IntentNone, sess.LastIntent)
}

func TestSessionStorePutGetRoundTrip(t *testing.T) {
	s := NewSessionStore(time.Minute)
	s.Put("u1", domain.ChatSession{
		LastProductsShown: []domain.Product{{ID: 1, Name: "Alpha"}},
		LastIntent:        domain.IntentSearch,
	})

	sess := s.Get("u1")
	require.Len(t, sess.LastProductsShown, 1)
	assert.Equal(t, "Alpha", sess.LastProductsShown[0].Name)
	assert.Equal(t, domain.IntentSearch, sess.LastIntent)
}

func TestSessionStoreGetReturnsCopy(t *testing.T) {
	s := NewSessionStore(time.Minute)
	s.Put("u1", domain.ChatSession{
		LastProductsShown: []domain.Product{{ID: 1, Name: "Alpha"}},
	})

	sess := s.Get("u1")
	sess.LastProductsShown[0].Name = "mutated"
	sess.LastIntent = domain.IntentCheckout

	fresh := s.Get("u1")
	assert.Equal(t, "Alpha", fresh.LastProductsShown[0].Name)
	assert.Equal(t, domain.IntentNone, fresh.LastIntent)
}

func TestSessionStoreReset(t *testing.T) {
	s := NewSessionStore(time.Minute)
	s.Put("u1", domain.ChatSession{
		LastProductsShown: []domain.Product{{ID: 1}},
		LastIntent:        domain.IntentSearch,
	})

	s.Reset("u1")
	sess := s.Get("u1")
	assert.Empty(t, sess.LastProductsShown)
	assert.Equal(t, domain.IntentNone, sess.LastIntent)
}

func TestSessionStoreLockSerializesPerUser(t *testing.T) {
	s := NewSessionStore(time.Minute)

	// The counter is guarded only by the per-user lock; the race detector
	// and the final count both fail if Lock does not serialize.
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				unlock := s.Lock("u1")
				counter++
				unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1000, counter)
}

func TestSessionStoreLockSerializesUnderSweepPressure(t *testing.T) {
	// Every entry is immediately sweep-eligible, so the sweeper constantly
	// deletes entries out from under lock acquisition. A lock granted on a
	// swept entry would let two cycles for the same user run at once.
	s := NewSessionStore(time.Nanosecond)

	stop := make(chan struct{})
	var sweeper sync.WaitGroup
	sweeper.Add(1)
	go func() {
		defer sweeper.Done()
		for {
			select {
			case <-stop:
				return
			default:
				s.Sweep()
			}
		}
	}()

	var holders, violations atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				unlock := s.Lock("u1")
				if holders.Add(1) > 1 {
					violations.Add(1)
				}
				holders.Add(-1)
				unlock()
			}
		}()
	}
	wg.Wait()
	close(stop)
	sweeper.Wait()

	assert.Zero(t, violations.Load())
}

func TestSessionStoreLockDoesNotBlockOtherUsers(t *testing.T) {
	s := NewSessionStore(time.Minute)

	unlock := s.Lock("alice")
	defer unlock()

	done := make(chan struct{})
	go func() {
		release := s.Lock("bob")
		release()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on one user blocked an unrelated user")
	}
}

func TestSessionStoreSweep(t *testing.T) {
	t.Run("removes idle sessions", func(t *testing.T) {
		s := NewSessionStore(10 * time.Millisecond)
		s.Get("u1")
		s.Get("u2")

		time.Sleep(30 * time.Millisecond)
		assert.Equal(t, 2, s.Sweep())
		assert.Equal(t, 0, s.Sweep())
	})

	t.Run("skips sessions mid cycle", func(t *testing.T) {
		s := NewSessionStore(10 * time.Millisecond)
		s.Get("u1")
		unlock := s.Lock("u1")

		time.Sleep(30 * time.Millisecond)
		assert.Equal(t, 0, s.Sweep())

		unlock()
		assert.Equal(t, 1, s.Sweep())
	})

	t.Run("zero ttl disables expiry", func(t *testing.T) {
		s := NewSessionStore(0)
		s.Get("u1")
		time.Sleep(5 * time.Millisecond)
		assert.Equal(t, 0, s.Sweep())
	})
}

package cart

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Gvirgo2/touropia/internal/kv"
)

// Manager hands out one Store per client session, so every SPA instance
// mutates its cart through a single sequential owner. Idle stores are
// evicted from memory; their persisted mirrors survive in the KV store.
type Manager struct {
	mu       sync.Mutex
	kv       kv.Store
	counts   BookingCounter
	sessions map[string]*session
	idleTTL  time.Duration
}

type session struct {
	store    *Store
	lastSeen time.Time
}

func NewManager(store kv.Store, counts BookingCounter, idleTTL time.Duration) *Manager {
	return &Manager{
		kv:       store,
		counts:   counts,
		sessions: make(map[string]*session),
		idleTTL:  idleTTL,
	}
}

func NewSessionID() string {
	return uuid.NewString()
}

// Session returns the store for a client session, creating it on first use.
func (m *Manager) Session(ctx context.Context, id string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[id]
	if !ok {
		sess = &session{store: NewStore(ctx, m.kv, m.counts)}
		m.sessions[id] = sess
	}
	sess.lastSeen = time.Now()
	return sess.store
}

// Run sweeps idle sessions until the context is canceled.
func (m *Manager) Run(ctx context.Context, sweepInterval time.Duration) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if evicted := m.evictIdle(time.Now()); evicted > 0 {
				log.Printf("cart: evicted %d idle sessions", evicted)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (m *Manager) evictIdle(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for id, sess := range m.sessions {
		if now.Sub(sess.lastSeen) > m.idleTTL {
			delete(m.sessions, id)
			evicted++
		}
	}
	return evicted
}

func (m *Manager) ActiveSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

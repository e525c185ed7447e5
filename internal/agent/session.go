package agent

import (
	"fmt"
	"sync"
	"time"

	"dinemate/internal/core/domain/model/cart"
	"dinemate/internal/core/domain/model/kernel"
	"dinemate/internal/core/domain/model/menu"

	"github.com/sashabaranov/go-openai"
)

// ConfirmedOrder is a durable conversation fact about an order placed during
// this session. These facts survive summarization verbatim.
type ConfirmedOrder struct {
	ID   int64
	Fact string
}

// Session holds the per-conversation state: the working cart, the cached
// menu, the message history sent to the model, the running summary and the
// orders confirmed so far. A session is private to one conversation; carts
// never leak between sessions.
//
// All access goes through the session's mutex. The orchestrator locks the
// session for the whole turn, serializing concurrent messages from the same
// conversation.
type Session struct {
	mu sync.Mutex

	id              kernel.UUID
	cart            *cart.Cart
	menu            menu.Catalog
	menuLoaded      bool
	messages        []openai.ChatCompletionMessage
	summary         string
	confirmedOrders []ConfirmedOrder
	lastActive      time.Time
}

func newSession(id kernel.UUID, now time.Time) *Session {
	return &Session{
		id:         id,
		cart:       cart.NewCart(),
		lastActive: now,
	}
}

// ID returns the session's conversation identifier.
func (s *Session) ID() kernel.UUID {
	return s.id
}

// Cart returns the session's working cart. Callers must hold the session
// lock for the duration of use.
func (s *Session) Cart() *cart.Cart {
	return s.cart
}

// MenuCache returns the catalog cached for this conversation and whether one
// has been loaded yet. Callers must hold the session lock.
func (s *Session) MenuCache() (menu.Catalog, bool) {
	return s.menu, s.menuLoaded
}

// CacheMenu stores a freshly loaded catalog for the rest of the
// conversation. Callers must hold the session lock.
func (s *Session) CacheMenu(catalog menu.Catalog) {
	s.menu = catalog
	s.menuLoaded = true
}

// Summary returns the running conversation summary.
func (s *Session) Summary() string {
	return s.summary
}

// History returns a copy of the retained message history.
func (s *Session) History() []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// RecordConfirmedOrder remembers an order placed during this session so the
// fact survives summarization.
func (s *Session) RecordConfirmedOrder(id int64, totalPrice float64) {
	s.confirmedOrders = append(s.confirmedOrders, ConfirmedOrder{
		ID:   id,
		Fact: fmt.Sprintf("Order %d confirmed, total $%.2f", id, totalPrice),
	})
}

// ConfirmedOrders returns the orders confirmed during this session.
func (s *Session) ConfirmedOrders() []ConfirmedOrder {
	out := make([]ConfirmedOrder, len(s.confirmedOrders))
	copy(out, s.confirmedOrders)
	return out
}

// LastActive returns the time of the session's most recent turn.
func (s *Session) LastActive() time.Time {
	return s.lastActive
}

// touch marks the session as active now.
func (s *Session) touch(now time.Time) {
	s.lastActive = now
}

// SessionStore keeps all live conversation sessions in memory, keyed by
// conversation UUID. Sessions are created on first use and reaped after a
// period of inactivity.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[kernel.UUID]*Session
	clock    func() time.Time
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[kernel.UUID]*Session),
		clock:    time.Now,
	}
}

// NewSessionStoreWithClock creates a store with an injectable clock,
// used by tests to drive idle expiry.
func NewSessionStoreWithClock(clock func() time.Time) *SessionStore {
	store := NewSessionStore()
	store.clock = clock
	return store
}

// GetOrCreate returns the session for the given conversation, creating it on
// first use.
func (st *SessionStore) GetOrCreate(id kernel.UUID) *Session {
	st.mu.RLock()
	sess, ok := st.sessions[id]
	st.mu.RUnlock()
	if ok {
		return sess
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if sess, ok = st.sessions[id]; ok {
		return sess
	}

	sess = newSession(id, st.clock())
	st.sessions[id] = sess
	return sess
}

// Count returns the number of live sessions.
func (st *SessionStore) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// PurgeIdle removes sessions whose last activity is older than maxIdle and
// returns how many were removed. Abandoned carts vanish with their session;
// confirmed orders are already persisted and unaffected.
func (st *SessionStore) PurgeIdle(maxIdle time.Duration) int {
	now := st.clock()

	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, sess := range st.sessions {
		sess.mu.Lock()
		idle := now.Sub(sess.lastActive) > maxIdle
		sess.mu.Unlock()
		if idle {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

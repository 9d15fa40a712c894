// Package intent tracks what the bot expects as a user's next message.
//
// A pending intent is the state of an in-progress multi-step conversation
// flow, for example "waiting for the purchase amount of category X". At most
// one intent exists per user; setting a new one replaces the old one.
package intent

import "sync"

// Kind discriminates the pending intent variants.
type Kind string

// Intent variants. Payload fields on Intent are meaningful only for the
// kinds that document them.
const (
	// KindAddPurchase expects a full "amount; category; note" line.
	KindAddPurchase Kind = "add_purchase"
	// KindAddPurchaseNote expects the purchase note for CategoryID.
	KindAddPurchaseNote Kind = "add_purchase_note"
	// KindAddPurchaseAmount expects the numeric amount for CategoryID/Note.
	KindAddPurchaseAmount Kind = "add_purchase_amount"
	// KindSetLimit expects a full "category; amount" line.
	KindSetLimit Kind = "set_limit"
	// KindSetLimitAmount expects the numeric monthly limit for CategoryID.
	KindSetLimitAmount Kind = "set_limit_amount"
)

// Intent is a tagged value describing the expected next message.
type Intent struct {
	Kind       Kind
	CategoryID int
	Note       string
}

// Store tracks pending intents keyed by an opaque user identifier. The
// in-memory implementation below covers single-instance deployments; a
// multi-instance deployment must provide an externally backed Store to keep
// the one-intent-per-user invariant across processes.
type Store interface {
	// Set unconditionally replaces any existing intent for the user.
	Set(userID string, it Intent)
	// Get returns the current intent without consuming it.
	Get(userID string) (Intent, bool)
	// Clear removes the intent. Clearing an absent key is a no-op.
	Clear(userID string)
}

// MemoryStore is the process-local Store. Intents do not survive a restart;
// an interrupted flow simply falls back to the default prompt on the user's
// next message.
type MemoryStore struct {
	mu      sync.RWMutex
	intents map[string]Intent
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{intents: make(map[string]Intent)}
}

// Set replaces any existing intent for the user.
func (s *MemoryStore) Set(userID string, it Intent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intents[userID] = it
}

// Get returns the current intent, if any.
func (s *MemoryStore) Get(userID string) (Intent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.intents[userID]
	return it, ok
}

// Clear removes the user's intent.
func (s *MemoryStore) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.intents, userID)
}

var _ Store = (*MemoryStore)(nil)

package bot

import "sync"

// trackerLimitPerChat caps remembered message IDs so a busy chat does not
// grow the map without bound.
const trackerLimitPerChat = 200

// MessageTracker remembers recent message IDs per chat so a restart can wipe
// the conversation. Process-memory only, like the intent store.
type MessageTracker struct {
	mu       sync.Mutex
	messages map[int64][]int
}

// NewMessageTracker creates an empty MessageTracker.
func NewMessageTracker() *MessageTracker {
	return &MessageTracker{messages: make(map[int64][]int)}
}

// Track records a message ID for the chat, evicting the oldest entries past
// the cap.
func (t *MessageTracker) Track(chatID int64, messageID int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := append(t.messages[chatID], messageID)
	if len(ids) > trackerLimitPerChat {
		ids = ids[len(ids)-trackerLimitPerChat:]
	}
	t.messages[chatID] = ids
}

// Pull returns and forgets all tracked message IDs for the chat.
func (t *MessageTracker) Pull(chatID int64) []int {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := t.messages[chatID]
	delete(t.messages, chatID)
	return ids
}

package mailbox

import "sync"

// cursorStore tracks the last-seen Gmail history ID per user. A zero
// ID means the user has never completed a seed pass.
type cursorStore struct {
	mu  sync.Mutex
	ids map[string]uint64
}

func newCursorStore() *cursorStore {
	return &cursorStore{ids: make(map[string]uint64)}
}

func (c *cursorStore) get(userID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ids[userID]
}

func (c *cursorStore) set(userID string, historyID uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if historyID == 0 {
		delete(c.ids, userID)
		return
	}
	c.ids[userID] = historyID
}

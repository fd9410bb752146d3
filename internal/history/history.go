// Package history tracks recently used answers so that consecutive
// puzzles drawn from the same generator avoid repeating them.
package history

import "sync"

// Rolling remembers the most recent answers up to a fixed capacity,
// evicting the oldest once full. A capacity of zero or less disables
// tracking entirely. Safe for concurrent use.
type Rolling struct {
	mu       sync.Mutex
	capacity int
	order    []string
	seen     map[string]struct{}
}

// NewRolling returns a history holding up to capacity answers.
func NewRolling(capacity int) *Rolling {
	return &Rolling{
		capacity: capacity,
		seen:     make(map[string]struct{}, max(capacity, 0)),
	}
}

// IsRecentlyUsed reports whether word is still within the window.
func (h *Rolling) IsRecentlyUsed(word string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.seen[word]
	return ok
}

// FilterRecent returns the words not currently in the window,
// preserving their order.
func (h *Rolling) FilterRecent(words []string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if _, ok := h.seen[w]; !ok {
			kept = append(kept, w)
		}
	}
	return kept
}

// Remember records the given words as most recent. Re-remembering a
// word refreshes its position in the window.
func (h *Rolling) Remember(words ...string) {
	if h.capacity <= 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, w := range words {
		if _, ok := h.seen[w]; ok {
			for i, prev := range h.order {
				if prev == w {
					h.order = append(h.order[:i], h.order[i+1:]...)
					break
				}
			}
		} else {
			h.seen[w] = struct{}{}
		}
		h.order = append(h.order, w)
		if len(h.order) > h.capacity {
			delete(h.seen, h.order[0])
			h.order = h.order[1:]
		}
	}
}

// Len reports how many answers the window currently holds.
func (h *Rolling) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.order)
}

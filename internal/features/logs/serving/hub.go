package logs_serving

import (
	"sync"
)

const subscriberBufferSize = 64

// StreamHub fans appended log lines out to in-process stream subscribers.
// Subscribers that cannot keep up have lines dropped rather than blocking
// the tailer.
type StreamHub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan string]struct{}
}

func NewStreamHub() *StreamHub {
	return &StreamHub{
		subscribers: make(map[string]map[chan string]struct{}),
	}
}

// Subscribe registers a listener for lines appended to the named file. The
// returned cancel function must be called when the subscriber goes away.
func (h *StreamHub) Subscribe(file string) (<-chan string, func()) {
	ch := make(chan string, subscriberBufferSize)

	h.mu.Lock()
	if h.subscribers[file] == nil {
		h.subscribers[file] = make(map[chan string]struct{})
	}
	h.subscribers[file][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		delete(h.subscribers[file], ch)
		h.mu.Unlock()
	}

	return ch, cancel
}

func (h *StreamHub) Broadcast(file string, lines []string) {
	if len(lines) == 0 {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[file] {
		for _, line := range lines {
			select {
			case ch <- line:
			default:
				// subscriber too slow; drop the line for this subscriber
			}
		}
	}
}

func (h *StreamHub) SubscriberCount(file string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[file])
}

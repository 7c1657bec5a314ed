package realtime

import (
	"encoding/json"
	"net/http"
	"sync"

	"comment-insight/domain/model"

	"github.com/gin-gonic/gin"
)

// Hub fans batch progress events out to every connected SSE client
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan model.BatchProgress]struct{}
}

func NewProgressHub() *Hub {
	return &Hub{subscribers: make(map[chan model.BatchProgress]struct{})}
}

// Serve streams batch_progress events until the client disconnects
func (h *Hub) Serve(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	_, _ = c.Writer.Write([]byte(":ok\n\n"))
	c.Writer.Flush()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			data, _ := json.Marshal(evt)
			_, _ = c.Writer.Write([]byte("event: batch_progress\n"))
			_, _ = c.Writer.Write([]byte("data: "))
			_, _ = c.Writer.Write(data)
			_, _ = c.Writer.Write([]byte("\n\n"))
			c.Writer.Flush()
		}
	}
}

// Subscribe registers a buffered channel for progress events
func (h *Hub) Subscribe() chan model.BatchProgress {
	ch := make(chan model.BatchProgress, 16)
	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) Unsubscribe(ch chan model.BatchProgress) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subscribers[ch]; ok {
		delete(h.subscribers, ch)
		close(ch)
	}
}

// SubscriberCount returns the number of connected listeners
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// BroadcastProgress delivers evt to every subscriber; slow subscribers miss it
func (h *Hub) BroadcastProgress(evt model.BatchProgress) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subscribers {
		select {
		case ch <- evt:
		default:
		}
	}
}

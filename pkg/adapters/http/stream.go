package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aretw0/pipecanvas/pkg/domain"
)

// allNodes is the topic of subscribers that want every event.
const allNodes = ""

// StreamManager handles active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // NodeID -> Set of Channels
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
	}
}

// Subscribe registers a listener for one node, or for every node when nodeID
// is empty. The returned func unsubscribes and closes the channel.
func (sm *StreamManager) Subscribe(nodeID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[nodeID]; !ok {
		sm.subscribers[nodeID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[nodeID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[nodeID]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, nodeID)
			}
		}
	}
}

// Broadcast sends msg to the subscribers of nodeID and to catch-all subscribers.
func (sm *StreamManager) Broadcast(nodeID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	topics := []string{allNodes}
	if nodeID != allNodes {
		topics = append(topics, nodeID)
	}
	for _, topic := range topics {
		for ch := range sm.subscribers[topic] {
			select {
			case ch <- msg:
			default:
				// Drop message if channel is full (slow client)
				slog.Warn("SSE: Client buffer full, dropping message", "node_id", nodeID)
			}
		}
	}
}

// Hooks returns lifecycle hooks that publish engine events to subscribers.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	publish := func(nodeID string, ev any) {
		data, err := json.Marshal(ev)
		if err != nil {
			slog.Warn("SSE: Failed to encode event", "error", err)
			return
		}
		sm.Broadcast(nodeID, string(data))
	}
	return domain.LifecycleHooks{
		OnFieldChange: func(_ context.Context, ev *domain.FieldEvent) { publish(ev.NodeID, ev) },
		OnPortsChange: func(_ context.Context, ev *domain.PortsEvent) { publish(ev.NodeID, ev) },
	}
}

// SubscribeEvents handles the GET /events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	nodeID := r.URL.Query().Get("node_id")
	ch, cancel := s.Streams.Subscribe(nodeID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
	s.logger.Info("SSE: Client subscribed", "node_id", nodeID)

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: Client disconnected", "node_id", nodeID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

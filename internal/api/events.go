package api

import (
	"encoding/json"
	"net/http"
)

// ─── Live Change Feed ───────────────────────────────────────────────────────

// handleEventsSSE streams ledger mutations via Server-Sent Events.
// GET /api/events/live
// SSE instead of WebSocket for simplicity and HTTP/2 compatibility; clients
// re-fetch their snapshot when a relevant change arrives.
func (s *Server) handleEventsSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	ch, unsub := s.feed.Subscribe()
	defer unsub()

	for {
		select {
		case <-r.Context().Done():
			return
		case change, open := <-ch:
			if !open {
				return
			}
			data, err := json.Marshal(change)
			if err != nil {
				continue
			}
			w.Write([]byte("data: "))
			w.Write(data)
			w.Write([]byte("\n\n"))
			flusher.Flush()
		}
	}
}

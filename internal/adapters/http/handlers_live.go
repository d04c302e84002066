package web

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// handleSubmissionsFeed handles GET /admin/submissions/feed: the
// current merged feed as JSON, for the review page's initial load.
func handleSubmissionsFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(feed.Merged())
}

// handleSubmissionsLive handles GET /admin/submissions/live: a
// server-sent event stream that pushes the full merged feed whenever
// any source publishes. The subscription is torn down when the client
// disconnects.
func handleSubmissionsLive(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	updates, unsubscribe := feed.Subscribe()
	defer unsubscribe()

	// Initial snapshot so a fresh page shows current rows immediately.
	writeFeedEvent(w, flusher, feed.Merged())

	for {
		select {
		case <-r.Context().Done():
			return
		case merged, open := <-updates:
			if !open {
				return
			}
			writeFeedEvent(w, flusher, merged)
		}
	}
}

func writeFeedEvent(w http.ResponseWriter, flusher http.Flusher, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: feed\ndata: %s\n\n", data)
	flusher.Flush()
}

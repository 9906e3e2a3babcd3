package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/vkoshelev/storerules/internal/snapshot"
)

// heartbeatInterval keeps idle stream connections alive through proxies.
const heartbeatInterval = 25 * time.Second

// handleStream serves a Server-Sent Events stream of rule-set changes.
// Clients get an "init" event with the current snapshot ETag on connect,
// then an "update" event each time the snapshot is rebuilt. Clients are
// expected to refetch /v1/rules/snapshot when the ETag changes.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	updates, unsubscribe := snapshot.Subscribe()
	defer unsubscribe()

	writeEvent := func(event, etag string) {
		fmt.Fprintf(w, "event: %s\ndata: {\"etag\": %q}\n\n", event, etag)
		flusher.Flush()
	}

	writeEvent("init", snapshot.Load().ETag)

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case etag, ok := <-updates:
			if !ok {
				return
			}
			writeEvent("update", etag)
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}

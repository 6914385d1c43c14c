package web

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
)

const wsPingInterval = 30 * time.Second

// The embed UI is served from this host, so upgrade requests from foreign
// origins are rejected. Non-browser clients send no Origin header and pass.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     sameHostOrigin,
}

func sameHostOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}

// streamEvent is one message on the job stream. The terminal event carries
// the download URL (completed) or the failure reason, and done=true tells
// the client no further events will follow.
type streamEvent struct {
	JobID    string    `json:"job_id"`
	Status   JobStatus `json:"status"`
	Error    string    `json:"error,omitempty"`
	Download string    `json:"download,omitempty"`
	Done     bool      `json:"done"`
}

func jobEvent(job *Job) streamEvent {
	ev := streamEvent{
		JobID:  job.ID,
		Status: job.Status,
		Error:  job.Error,
		Done:   job.Status.terminal(),
	}
	if job.Status == StatusCompleted {
		ev.Download = "/api/jobs/" + job.ID + "/download"
	}
	return ev
}

// handleWebSocket streams status events for one embed job until the job
// reaches a terminal status, then closes the connection.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	jobID := r.URL.Query().Get("job_id")
	if jobID == "" {
		http.Error(w, "job_id required", http.StatusBadRequest)
		return
	}
	if _, err := s.jobMgr.GetJob(jobID); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates := s.jobMgr.Subscribe(jobID)
	defer s.jobMgr.Unsubscribe(jobID, updates)

	// Snapshot after subscribing so no transition slips between the initial
	// event and the first update.
	job, err := s.jobMgr.GetJob(jobID)
	if err != nil {
		return
	}
	ev := jobEvent(job)
	if err := conn.WriteJSON(ev); err != nil || ev.Done {
		return
	}

	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case job, ok := <-updates:
			if !ok {
				return
			}

			ev := jobEvent(job)
			if err := conn.WriteJSON(ev); err != nil {
				s.logger.Error("Failed to write job event: %v", err)
				return
			}
			if ev.Done {
				return
			}

		case <-ticker.C:
			// Keep idle connections alive while the job is still queued
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/JonMunkholm/cleanmind/internal/core"
	"github.com/JonMunkholm/cleanmind/internal/logging"
	"github.com/JonMunkholm/cleanmind/internal/notify"
	"github.com/JonMunkholm/cleanmind/internal/session"
	"github.com/JonMunkholm/cleanmind/internal/view"
	"github.com/JonMunkholm/cleanmind/internal/workflow"
)

// sseKeepAlive is how often an idle event stream sends a comment line.
const sseKeepAlive = 25 * time.Second

// StateResponse is the JSON view of a browser session.
type StateResponse struct {
	Phase        workflow.Phase       `json:"phase"`
	Running      bool                 `json:"running"`
	Session      session.Snapshot     `json:"session"`
	Dashboard    view.Dashboard       `json:"dashboard"`
	Notification *notify.Notification `json:"notification,omitempty"`
	Error        *ErrorResponse       `json:"error,omitempty"`
}

func stateOf(sess *browserSession) StateResponse {
	resp := StateResponse{
		Phase:     sess.orch.Phase(),
		Running:   sess.orch.Running(),
		Session:   sess.state.Snapshot(),
		Dashboard: sess.board.Snapshot(),
	}
	if n, ok := sess.notices.Current(); ok {
		resp.Notification = &n
	}
	return resp
}

// handleState returns the caller's session state.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Resolve(w, r)
	writeJSON(w, http.StatusOK, stateOf(sess))
}

// handleAPIUpload runs the workflow for an uploaded file and returns the
// resulting state. A failed run still returns the state, with the error.
func (s *Server) handleAPIUpload(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Resolve(w, r)

	file, filename, err := s.readUpload(w, r)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errFileTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		s.respondError(w, r, err, status)
		return
	}
	defer r.MultipartForm.RemoveAll()
	defer file.Close()

	runErr := sess.orch.Run(runContext(r), filename, file)

	resp := stateOf(sess)
	status := http.StatusOK
	if runErr != nil {
		status = statusFor(runErr)
		e := newErrorResponse(core.MapError(runErr))
		resp.Error = &e
		logging.FromContext(r.Context()).Info("upload run ended with error",
			"filename", filename,
			"phase", resp.Phase,
			"error", runErr,
		)
	}
	writeJSON(w, status, resp)
}

// handleAPIDownload streams the cleaned dataset, or answers 409 when there
// is none.
func (s *Server) handleAPIDownload(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Resolve(w, r)

	opener := &proxyOpener{backend: s.backend, w: w}
	if err := sess.orch.RequestDownload(r.Context(), opener); err != nil && !opener.started {
		s.respondError(w, r, err, statusFor(err))
	}
}

// handleEvents streams the session's notifications via Server-Sent Events.
// The current notification, if any, is sent first.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Resolve(w, r)

	rc := http.NewResponseController(w)

	// Set up SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	// The stream outlives any server write timeout.
	_ = rc.SetWriteDeadline(time.Time{})

	events, cancel := sess.notices.Subscribe()
	defer cancel()

	w.WriteHeader(http.StatusOK)
	if n, ok := sess.notices.Current(); ok {
		writeEvent(w, notify.Event{Visible: true, Notification: n})
	}
	if err := rc.Flush(); err != nil {
		logging.FromContext(r.Context()).Warn("event stream not supported", "error", err)
		return
	}

	keepAlive := time.NewTicker(sseKeepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				// Session closed
				fmt.Fprint(w, "event: closed\ndata: {}\n\n")
				rc.Flush()
				return
			}
			writeEvent(w, ev)
			rc.Flush()

		case <-keepAlive.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			rc.Flush()

		case <-r.Context().Done():
			// Client disconnected
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, ev notify.Event) {
	data, _ := json.Marshal(ev)
	fmt.Fprintf(w, "event: notification\ndata: %s\n\n", data)
}

// handleHealth reports liveness and session counts.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"sessions":    s.sessions.Count(),
		"active_runs": s.sessions.Running(),
	})
}

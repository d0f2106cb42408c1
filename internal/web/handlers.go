package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/JonMunkholm/cleanmind/internal/core"
	"github.com/JonMunkholm/cleanmind/internal/logging"
	"github.com/JonMunkholm/cleanmind/internal/notify"
	"github.com/JonMunkholm/cleanmind/internal/web/templates"
	"github.com/JonMunkholm/cleanmind/internal/workflow"
)

// Upload form errors. Their texts match the FILE001/FILE002 patterns of
// core.MapError.
var (
	errFileTooLarge = errors.New("file too large")
	errNoFile       = errors.New("no file provided")
)

// multipartMemory is how much of an upload is buffered in memory before
// spilling to a temporary file.
const multipartMemory = 32 << 20

// handleDashboard renders the workflow page for the caller's session.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Resolve(w, r)

	params := templates.DashboardParams{
		Phase:     sess.orch.Phase().String(),
		Running:   sess.orch.Running(),
		Accept:    core.AcceptAttribute(),
		Dashboard: sess.board.Snapshot(),
	}
	if n, ok := sess.notices.Current(); ok {
		params.Notification = &n
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Dashboard(params).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render dashboard", "error", err)
	}
}

// handleUpload runs the workflow for a form upload and returns to the
// dashboard, where the outcome shows as a notification and the panels.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Resolve(w, r)

	file, filename, err := s.readUpload(w, r)
	if err != nil {
		sess.notices.Notify(core.MapError(err).Message, notify.Error)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	defer r.MultipartForm.RemoveAll()
	defer file.Close()

	if err := sess.orch.Run(runContext(r), filename, file); err != nil {
		logging.FromContext(r.Context()).Info("upload run ended with error",
			"filename", filename,
			"phase", sess.orch.Phase(),
			"error", err,
		)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleDownload streams the cleaned dataset to the browser. Without one,
// the refusal is notified and the browser goes back to the dashboard.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Resolve(w, r)

	opener := &proxyOpener{backend: s.backend, w: w}
	if err := sess.orch.RequestDownload(r.Context(), opener); err != nil && !opener.started {
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// readUpload extracts the "file" form field under the configured size limit.
// The caller closes the returned file.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (multipart.File, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", errFileTooLarge
		}
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return nil, "", errNoFile
		}
		return nil, "", fmt.Errorf("invalid upload form: %w", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", errNoFile
	}
	return file, header.Filename, nil
}

// proxyOpener serves a cleaned dataset by streaming the backend download
// through this server, so the backend need not be reachable from browsers.
type proxyOpener struct {
	backend Backend
	w       http.ResponseWriter
	started bool
}

func (p *proxyOpener) Open(ctx context.Context, datasetID, _ string) error {
	resp, err := p.backend.Download(ctx, datasetID)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	h := p.w.Header()
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/csv"
	}
	h.Set("Content-Type", contentType)

	disposition := resp.Header.Get("Content-Disposition")
	if disposition == "" {
		disposition = mime.FormatMediaType("attachment", map[string]string{"filename": datasetID + ".csv"})
	}
	h.Set("Content-Disposition", disposition)

	if length := resp.Header.Get("Content-Length"); length != "" {
		h.Set("Content-Length", length)
	}

	p.started = true
	p.w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(p.w, resp.Body); err != nil {
		logging.FromContext(ctx).Warn("download interrupted",
			"dataset_id", datasetID,
			"error", err,
		)
	}
	return nil
}

var _ workflow.Opener = (*proxyOpener)(nil)

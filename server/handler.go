package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/viant/nfereport/export"
	"github.com/viant/nfereport/job"
	"github.com/viant/nfereport/service"
	"github.com/viant/nfereport/source"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReport renders the spreadsheet synchronously.
// POST /gerar-relatorio
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rep, err := s.service.Generate(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logf("http: %s %s documents=%d rows=%d failed=%d", r.Method, r.URL.Path, rep.Documents, rep.Rows, len(rep.Errors))
	writeReport(w, r, rep)
}

// handleSubmit schedules a background job.
// POST /jobs
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := s.service.Submit(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logf("http: %s %s job=%s documents=%d", r.Method, r.URL.Path, id, len(req.Sources))
	w.Header().Set("Location", "/jobs/"+id)
	writeJSON(w, http.StatusAccepted, map[string]string{"id": id})
}

// GET /jobs/{id}
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.Status(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// GET /jobs/{id}/relatorio
func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	rep, err := s.service.Artifact(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeReport(w, r, rep)
}

func writeReport(w http.ResponseWriter, r *http.Request, rep *service.Report) {
	h := w.Header()
	if rep.ETag != "" {
		h.Set("ETag", rep.ETag)
		if r.Header.Get("If-None-Match") == rep.ETag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	h.Set("Content-Type", export.ContentType)
	h.Set("Content-Disposition", "attachment; filename="+rep.FileName)
	h.Set("Content-Length", strconv.Itoa(len(rep.Data)))
	h.Set(HeaderFailedDocuments, strconv.Itoa(len(rep.Errors)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(rep.Data)
}

func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	var jobErr *service.JobError
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, service.ErrNoInput):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge), errors.Is(err, source.ErrArchiveTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, export.ErrEmptyResult), errors.As(err, &jobErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, job.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, job.ErrNotReady):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	s.logf("http: %s %s status=%d err=%v", r.Method, r.URL.Path, status, err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

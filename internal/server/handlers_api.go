package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/jonathan/profile-editor/internal/session"
	"github.com/jonathan/profile-editor/internal/types"
)

// handleGetProfile returns the session's ProfileData, loading it first if needed.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	page, err := s.sessions.Resolve(w, r)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to start session")
		return
	}

	var data types.ProfileData
	err = page.Do(func(p *session.Page) error {
		if err := p.Ensure(r.Context()); err != nil {
			return err
		}
		data = p.Profile.Snapshot()
		return nil
	})
	if err != nil {
		log.Printf("[profile] failed to load profile: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	s.jsonResponse(w, http.StatusOK, data)
}

// handleGetContact returns the last saved contact record.
func (s *Server) handleGetContact(w http.ResponseWriter, r *http.Request) {
	page, err := s.sessions.Resolve(w, r)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to start session")
		return
	}

	var record *types.ContactRecord
	err = page.Do(func(p *session.Page) error {
		var loadErr error
		record, loadErr = p.Contact.Load(r.Context())
		return loadErr
	})
	if err != nil {
		log.Printf("[contact] failed to read contact record: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to read contact record")
		return
	}
	if record == nil {
		s.errorResponse(w, http.StatusNotFound, "no contact record saved")
		return
	}

	s.jsonResponse(w, http.StatusOK, record)
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.backend.Ping(ctx); err != nil {
		log.Printf("[storage] health check failed: %v", err)
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "unavailable",
			"storage": err.Error(),
		})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok", "storage": "ok"})
}

package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/jonathan/profile-editor/internal/contact"
	"github.com/jonathan/profile-editor/internal/profile"
	"github.com/jonathan/profile-editor/internal/session"
	"github.com/jonathan/profile-editor/internal/types"
)

// resetConfirmMessage is shown when a reset is posted without confirmation.
const resetConfirmMessage = "Please confirm the reset."

// pageAction runs fn on the caller's page and renders the result: the full page, or frag for
// htmx requests. An error from fn picks the status code and, unless it is a contact form
// failure, becomes the page alert.
func (s *Server) pageAction(w http.ResponseWriter, r *http.Request, frag fragment, fn func(context.Context, *session.Page) error) {
	page, err := s.sessions.Resolve(w, r)
	if err != nil {
		log.Printf("[session] failed to start session: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to start session")
		return
	}

	var (
		view      PageView
		actionErr error
	)
	err = page.Do(func(p *session.Page) error {
		if err := p.Ensure(r.Context()); err != nil {
			return err
		}
		actionErr = fn(r.Context(), p)
		if msg := alertMessage(actionErr); msg != "" {
			p.Alert = msg
		}
		view = newPageView(p, frag)
		return nil
	})
	if err != nil {
		log.Printf("[profile] failed to load profile: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	s.render(w, r, HTTPStatus(actionErr), frag, view)
}

// handleIndex is a page load: display state is discarded and the profile initialized again.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := s.sessions.Resolve(w, r)
	if err != nil {
		log.Printf("[session] failed to start session: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to start session")
		return
	}

	var view PageView
	err = page.Do(func(p *session.Page) error {
		if err := p.Load(r.Context()); err != nil {
			var readErr *profile.StorageReadError
			if errors.As(err, &readErr) {
				return err
			}
			// Data is in memory and renders; only the write-back failed.
			log.Printf("[profile] failed to persist fetched profile: %v", err)
		}
		view = newPageView(p, fragmentPage)
		return nil
	})
	if err != nil {
		log.Printf("[profile] failed to load profile: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	s.render(w, r, http.StatusOK, fragmentPage, view)
}

func (s *Server) handleBeginEdit(w http.ResponseWriter, r *http.Request) {
	s.pageAction(w, r, fragmentLists, func(_ context.Context, p *session.Page) error {
		kind, index, err := parseItem(r)
		if err != nil {
			return err
		}
		if err := checkRevision(r, p.Profile); err != nil {
			return err
		}
		return p.Profile.BeginEdit(kind, index)
	})
}

func (s *Server) handleCommitEdit(w http.ResponseWriter, r *http.Request) {
	s.pageAction(w, r, fragmentLists, func(ctx context.Context, p *session.Page) error {
		kind, index, err := parseItem(r)
		if err != nil {
			return err
		}
		if err := checkRevision(r, p.Profile); err != nil {
			p.Profile.CancelEdit()
			return err
		}
		return p.Profile.CommitEdit(ctx, kind, index, r.PostFormValue("value"))
	})
}

func (s *Server) handleCancelEdit(w http.ResponseWriter, r *http.Request) {
	s.pageAction(w, r, fragmentLists, func(_ context.Context, p *session.Page) error {
		p.Profile.CancelEdit()
		return nil
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.pageAction(w, r, fragmentLists, func(ctx context.Context, p *session.Page) error {
		if r.PostFormValue("confirm") != "yes" {
			return &ErrValidation{Field: "confirm", Message: resetConfirmMessage}
		}
		return p.Profile.Reset(ctx)
	})
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	s.pageAction(w, r, fragmentContact, func(ctx context.Context, p *session.Page) error {
		submitted := types.ContactRecord{
			Name:        r.PostFormValue("name"),
			Email:       r.PostFormValue("email"),
			Date:        r.PostFormValue("date"),
			Description: r.PostFormValue("description"),
		}

		record, err := p.Contact.Submit(ctx, submitted)
		if err != nil {
			p.ContactView.Form = submitted
			p.ContactView.Error = internalMessage
			var verr *contact.ValidationError
			if errors.As(err, &verr) {
				p.ContactView.Error = verr.Message
			}
			return err
		}

		p.ContactView = session.ContactView{Summary: &record}
		return nil
	})
}

func (s *Server) handleFieldPrompt(w http.ResponseWriter, r *http.Request) {
	s.pageAction(w, r, fragmentFields, func(_ context.Context, p *session.Page) error {
		field, err := parseField(r)
		if err != nil {
			return err
		}
		prompt, err := p.Fields.Begin(field)
		if err != nil {
			return err
		}
		p.Prompt = &prompt
		return nil
	})
}

func (s *Server) handleFieldCommit(w http.ResponseWriter, r *http.Request) {
	s.pageAction(w, r, fragmentFields, func(_ context.Context, p *session.Page) error {
		field, err := parseField(r)
		if err != nil {
			return err
		}

		var confirmed bool
		switch r.PostFormValue("action") {
		case "save":
			confirmed = true
		case "cancel":
		default:
			return &ErrValidation{Field: "action", Message: "action must be save or cancel"}
		}

		p.Prompt = nil
		return p.Fields.Commit(field, r.PostFormValue("value"), confirmed)
	})
}

// parseItem reads the {kind} and {index} path values.
func parseItem(r *http.Request) (types.ListKind, int, error) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		return "", 0, &ErrValidation{Field: "index", Message: "index must be a number"}
	}
	kind, err := types.ParseListKind(r.PathValue("kind"))
	if err != nil {
		return "", 0, &profile.ItemNotFoundError{Kind: types.ListKind(r.PathValue("kind")), Index: index}
	}
	return kind, index, nil
}

// checkRevision compares the form's rev with the profile. A form without rev is accepted.
func checkRevision(r *http.Request, store *profile.Store) error {
	raw := r.PostFormValue("rev")
	if raw == "" {
		return nil
	}
	rev, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return &ErrValidation{Field: "rev", Message: "rev must be a number"}
	}
	return store.CheckRevision(rev)
}

// parseField reads the {field} path value.
func parseField(r *http.Request) (types.StaticField, error) {
	field, err := types.ParseStaticField(r.PathValue("field"))
	if err != nil {
		return "", &ErrNotFound{Resource: "field", Name: r.PathValue("field")}
	}
	return field, nil
}

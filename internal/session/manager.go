package session

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/profile-editor/internal/contact"
	"github.com/jonathan/profile-editor/internal/fields"
	"github.com/jonathan/profile-editor/internal/metrics"
	"github.com/jonathan/profile-editor/internal/profile"
	"github.com/jonathan/profile-editor/internal/storage"
)

// CookieName is the name of the session cookie.
const CookieName = "profile_session"

// Manager maps session IDs to in-memory pages over a shared storage backend.
type Manager struct {
	backend     storage.Backend
	tokens      *Tokens
	source      profile.Source
	metrics     *metrics.Metrics
	idleTimeout time.Duration
	now         func() time.Time

	mu    sync.Mutex
	pages map[uuid.UUID]*Page
}

// NewManager creates a session manager. m may be nil; idleTimeout of zero disables eviction.
func NewManager(backend storage.Backend, tokens *Tokens, source profile.Source, m *metrics.Metrics, idleTimeout time.Duration) *Manager {
	return &Manager{
		backend:     backend,
		tokens:      tokens,
		source:      source,
		metrics:     m,
		idleTimeout: idleTimeout,
		now:         time.Now,
		pages:       make(map[uuid.UUID]*Page),
	}
}

// Resolve returns the page for the request's session cookie. A missing, expired, or forged
// cookie starts a new session and sets a fresh cookie on w.
func (m *Manager) Resolve(w http.ResponseWriter, r *http.Request) (*Page, error) {
	if cookie, err := r.Cookie(CookieName); err == nil {
		claims, err := m.tokens.Verify(cookie.Value)
		if err == nil {
			return m.Page(claims.SessionID), nil
		}
		log.Printf("[session] discarding session cookie: %v", err)
	}

	id := uuid.New()
	token, err := m.tokens.Issue(id)
	if err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.tokens.TTL().Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return m.Page(id), nil
}

// Page returns the page for a session ID, creating it if needed.
func (m *Manager) Page(id uuid.UUID) *Page {
	m.mu.Lock()
	defer m.mu.Unlock()

	page, ok := m.pages[id]
	if !ok {
		page = m.newPage(id)
		m.pages[id] = page
		if m.metrics != nil {
			m.metrics.ActiveSessions.Set(float64(len(m.pages)))
		}
	}
	page.lastSeen = m.now()
	return page
}

// Store returns the storage of a session without creating page state.
func (m *Manager) Store(id uuid.UUID) storage.Store {
	return storage.ForSession(m.backend, id)
}

// Len returns the number of pages held in memory.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pages)
}

// Sweep drops pages not seen for longer than the idle timeout and returns how many were
// dropped. Their storage is untouched.
func (m *Manager) Sweep() int {
	if m.idleTimeout <= 0 {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.idleTimeout)
	dropped := 0
	for id, page := range m.pages {
		if page.lastSeen.Before(cutoff) {
			delete(m.pages, id)
			dropped++
		}
	}
	if m.metrics != nil {
		m.metrics.ActiveSessions.Set(float64(len(m.pages)))
	}
	return dropped
}

// Run sweeps idle pages periodically until ctx is done.
func (m *Manager) Run(ctx context.Context) error {
	if m.idleTimeout <= 0 {
		<-ctx.Done()
		return nil
	}

	interval := max(m.idleTimeout/2, time.Second)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				log.Printf("[session] dropped %d idle pages", n)
			}
		}
	}
}

func (m *Manager) newPage(id uuid.UUID) *Page {
	st := storage.ForSession(m.backend, id)
	return &Page{
		ID:      id,
		Profile: profile.NewStore(st, m.source, profile.WithMetrics(m.metrics)),
		Contact: contact.NewService(st, m.metrics),
		Fields:  fields.New(),
	}
}

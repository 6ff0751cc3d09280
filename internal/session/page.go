package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/profile-editor/internal/contact"
	"github.com/jonathan/profile-editor/internal/fields"
	"github.com/jonathan/profile-editor/internal/profile"
	"github.com/jonathan/profile-editor/internal/types"
)

// ContactView is the contact form as currently shown.
type ContactView struct {
	// Form holds the values to re-fill the inputs with; empty after a successful submit.
	Form    types.ContactRecord
	Error   string
	Summary *types.ContactRecord
}

// Page is the state of one browser's open page. All access goes through Do, which runs
// operations one at a time.
type Page struct {
	ID uuid.UUID

	Profile *profile.Store
	Contact *contact.Service
	Fields  *fields.Editors

	ContactView ContactView
	// Prompt is the open field editor, if any.
	Prompt *fields.Prompt
	// Alert is a blocking message to show once on the next render.
	Alert string

	mu          sync.Mutex
	initialized bool
	lastSeen    time.Time
}

// Do runs fn with exclusive access to the page.
func (p *Page) Do(fn func(*Page) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return fn(p)
}

// Load is a fresh page load: display state is discarded and the profile is initialized
// again from storage or the source. Must be called from inside Do.
func (p *Page) Load(ctx context.Context) error {
	p.Fields = fields.New()
	p.ContactView = ContactView{}
	p.Prompt = nil
	p.Alert = ""

	err := p.Profile.Init(ctx)
	var readErr *profile.StorageReadError
	// A failed read leaves nothing loaded; the next request tries again.
	p.initialized = !errors.As(err, &readErr)
	return err
}

// Ensure initializes the profile if this page has never been loaded, for requests that
// arrive without a preceding page load. Must be called from inside Do.
func (p *Page) Ensure(ctx context.Context) error {
	if p.initialized {
		return nil
	}
	return p.Load(ctx)
}

// TakeAlert returns the pending alert and clears it.
func (p *Page) TakeAlert() string {
	alert := p.Alert
	p.Alert = ""
	return alert
}

package server

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/jonathan/profile-editor/internal/fields"
	"github.com/jonathan/profile-editor/internal/profile"
	"github.com/jonathan/profile-editor/internal/session"
	"github.com/jonathan/profile-editor/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

// fragment names a part of the page that htmx requests swap in place.
type fragment string

const (
	fragmentPage    fragment = "page"
	fragmentFields  fragment = "fields"
	fragmentLists   fragment = "lists"
	fragmentContact fragment = "contact"
)

// htmxRequestHeader is set by htmx on every request it issues.
const htmxRequestHeader = "HX-Request"

// IsHTMXRequest reports whether the request was initiated by htmx.
func IsHTMXRequest(r *http.Request) bool {
	if r == nil {
		return false
	}
	return strings.EqualFold(r.Header.Get(htmxRequestHeader), "true")
}

// FieldView is one ad-hoc field as displayed.
type FieldView struct {
	Name  types.StaticField
	Title string
	Text  string
	// Entries is set for list-valued fields and shown one per line.
	Entries []string
}

// PageView is everything the page templates read. It is built under the page lock and
// rendered after it is released.
type PageView struct {
	Revision uint64
	Sections []profile.Section
	Fields   []FieldView
	Prompt   *fields.Prompt
	Contact  session.ContactView
	Alert    string
	// AlertSection is the section the alert belongs to: the one the action swapped.
	AlertSection fragment
}

// newPageView builds the view after an action on frag; a pending alert is shown in that
// section, or with the lists for a full page load.
func newPageView(p *session.Page, frag fragment) PageView {
	lists := p.Profile.RenderAll()

	if frag == fragmentPage {
		frag = fragmentLists
	}
	view := PageView{
		Revision:     lists.Revision,
		Sections:     lists.Sections,
		Contact:      p.ContactView,
		Alert:        p.TakeAlert(),
		AlertSection: frag,
	}
	if p.Prompt != nil {
		prompt := *p.Prompt
		view.Prompt = &prompt
	}
	values := p.Fields.Values()
	for _, name := range types.StaticFieldNames() {
		text, _ := p.Fields.Text(name)
		field := FieldView{Name: name, Title: name.Title(), Text: text}
		if name == types.FieldLanguages {
			field.Entries = values.Languages
		}
		view.Fields = append(view.Fields, field)
	}
	return view
}

// AlertFor returns the alert to show in section, if any. The contact section shows its own
// inline error instead.
func (v PageView) AlertFor(section string) string {
	if string(v.AlertSection) != section {
		return ""
	}
	if section == string(fragmentContact) && v.Contact.Error != "" {
		return ""
	}
	return v.Alert
}

type views struct {
	tmpl *template.Template
}

func newViews() (*views, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	for _, name := range []fragment{fragmentPage, fragmentFields, fragmentLists, fragmentContact} {
		if tmpl.Lookup(string(name)) == nil {
			return nil, fmt.Errorf("template %q is not defined", name)
		}
	}
	return &views{tmpl: tmpl}, nil
}

// component returns a named template bound to data.
func (v *views) component(name fragment, data PageView) templ.Component {
	return templ.FromGoHTML(v.tmpl.Lookup(string(name)), data)
}

// render writes the full page, or only frag for htmx requests.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, frag fragment, view PageView) {
	name := fragmentPage
	if IsHTMXRequest(r) {
		name = frag
	}
	templ.Handler(s.views.component(name, view), templ.WithStatus(status)).ServeHTTP(w, r)
}

package profile

import "github.com/jonathan/profile-editor/internal/types"

// ItemView is one rendered list item.
type ItemView struct {
	Kind    types.ListKind
	Index   int
	Text    string
	Editing bool
	// Draft is the input value when Editing.
	Draft string
}

// Section is one rendered list.
type Section struct {
	Kind  types.ListKind
	Title string
	Items []ItemView
}

// Lists is the rendered state of all three lists.
type Lists struct {
	Revision uint64
	Sections []Section
}

// Render rebuilds the view of one list from the current data, in order. Every item is in
// Display except the current edit target.
func (s *Store) Render(kind types.ListKind) []ItemView {
	items := s.data.List(kind)
	views := make([]ItemView, 0, len(items))
	for i, text := range items {
		view := ItemView{Kind: kind, Index: i, Text: text}
		if s.editing != nil && s.editing.Kind == kind && s.editing.Index == i {
			view.Editing = true
			view.Draft = s.editing.Draft
		}
		views = append(views, view)
	}
	return views
}

// RenderAll renders the three lists in page order.
func (s *Store) RenderAll() Lists {
	kinds := types.ListKinds()
	lists := Lists{
		Revision: s.revision,
		Sections: make([]Section, 0, len(kinds)),
	}
	for _, kind := range kinds {
		lists.Sections = append(lists.Sections, Section{
			Kind:  kind,
			Title: kind.Title(),
			Items: s.Render(kind),
		})
	}
	return lists
}

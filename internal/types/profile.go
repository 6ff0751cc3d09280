// Package types provides type definitions for structured data used throughout the profile editor.
package types

import (
	"fmt"
	"slices"
)

// ListKind identifies one of the three editable profile lists.
type ListKind string

const (
	Education  ListKind = "education"
	Experience ListKind = "experience"
	Skills     ListKind = "skills"
)

// ListKinds returns the list kinds in page order.
func ListKinds() []ListKind {
	return []ListKind{Education, Experience, Skills}
}

// ParseListKind converts a path segment into a ListKind.
func ParseListKind(s string) (ListKind, error) {
	switch ListKind(s) {
	case Education, Experience, Skills:
		return ListKind(s), nil
	default:
		return "", fmt.Errorf("unknown list kind: %q", s)
	}
}

// Title returns the section heading for the list.
func (k ListKind) Title() string {
	switch k {
	case Education:
		return "Education"
	case Experience:
		return "Experience"
	case Skills:
		return "Skills"
	default:
		return string(k)
	}
}

// ProfileData is the editable part of the CV. Each slice is in display order and an
// item's index is its identity for in-place edits.
type ProfileData struct {
	Education  []string `json:"education"`
	Experience []string `json:"experience"`
	Skills     []string `json:"skills"`
}

// List returns the slice backing the given kind, or nil for an unknown kind.
func (p *ProfileData) List(kind ListKind) []string {
	switch kind {
	case Education:
		return p.Education
	case Experience:
		return p.Experience
	case Skills:
		return p.Skills
	default:
		return nil
	}
}

// Clone returns a deep copy. Nil slices are normalized to empty ones so the JSON form
// always carries arrays.
func (p ProfileData) Clone() ProfileData {
	return ProfileData{
		Education:  cloneList(p.Education),
		Experience: cloneList(p.Experience),
		Skills:     cloneList(p.Skills),
	}
}

// Equal reports whether both profiles hold the same items in the same order.
func (p ProfileData) Equal(other ProfileData) bool {
	return slices.Equal(p.Education, other.Education) &&
		slices.Equal(p.Experience, other.Experience) &&
		slices.Equal(p.Skills, other.Skills)
}

// IsEmpty reports whether all three lists are empty.
func (p ProfileData) IsEmpty() bool {
	return len(p.Education) == 0 && len(p.Experience) == 0 && len(p.Skills) == 0
}

func cloneList(items []string) []string {
	if items == nil {
		return []string{}
	}
	return slices.Clone(items)
}

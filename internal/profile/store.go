// Package profile owns the editable CV lists: loading them from browser storage or the
// simulated fetch, tracking the item being edited, and writing changes back.
package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jonathan/profile-editor/internal/metrics"
	"github.com/jonathan/profile-editor/internal/schemas"
	"github.com/jonathan/profile-editor/internal/storage"
	"github.com/jonathan/profile-editor/internal/types"
)

// EditTarget is the one list item currently in the Editing state.
type EditTarget struct {
	Kind  types.ListKind
	Index int
	// Draft is the text shown in the input; it starts as the stored value and keeps
	// whatever the user submitted when a save is rejected.
	Draft string
}

// Store holds one browser's ProfileData. It is not safe for concurrent use; callers
// serialize access (see session.Page).
type Store struct {
	storage storage.Store
	source  Source
	metrics *metrics.Metrics

	data     types.ProfileData
	revision uint64
	editing  *EditTarget
}

// Option configures a Store.
type Option func(*Store)

// WithMetrics records hydrate misses, fetch durations, and edits.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// NewStore creates a Store with empty lists. Call Init before rendering.
func NewStore(st storage.Store, src Source, opts ...Option) *Store {
	s := &Store{
		storage: st,
		source:  src,
		data:    types.ProfileData{}.Clone(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Hydrate replaces the in-memory data with the stored profile. It reports false when nothing
// usable is stored; malformed values are logged and treated as absent. A failed read is
// returned as a StorageReadError.
func (s *Store) Hydrate(ctx context.Context) (bool, error) {
	raw, ok, err := s.storage.Get(ctx, storage.ProfileDataKey)
	if err != nil {
		return false, &StorageReadError{Err: err}
	}
	if !ok {
		return false, nil
	}

	if err := schemas.ValidateProfileData([]byte(raw)); err != nil {
		log.Printf("[profile] stored profile is unreadable, ignoring it: %v", err)
		return false, nil
	}

	var data types.ProfileData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		log.Printf("[profile] stored profile is unreadable, ignoring it: %v", err)
		return false, nil
	}

	s.replace(data)
	return true, nil
}

// Init loads the profile: from storage when possible, otherwise from the source, in which
// case the fetched data is persisted. A failed fetch is logged and leaves the current data in
// place. Storage read and write errors are returned; a failed read never falls through to
// the fetch.
func (s *Store) Init(ctx context.Context) error {
	s.editing = nil
	hydrated, err := s.Hydrate(ctx)
	if err != nil {
		return err
	}
	if hydrated {
		return nil
	}
	if s.metrics != nil {
		s.metrics.IncrementHydrateMiss()
	}

	start := time.Now()
	var res FetchResult
	select {
	case res = <-s.source.Fetch(ctx):
	case <-ctx.Done():
		res = FetchResult{Err: ctx.Err()}
	}
	if s.metrics != nil {
		s.metrics.ObserveFetch(start)
	}

	if res.Err != nil {
		log.Printf("[profile] fetch failed, rendering current data: %v", res.Err)
		return nil
	}

	s.replace(res.Data)
	return s.Persist(ctx)
}

// Persist writes the full ProfileData under the profileData key.
func (s *Store) Persist(ctx context.Context) error {
	encoded, err := json.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := s.storage.Set(ctx, storage.ProfileDataKey, string(encoded)); err != nil {
		return fmt.Errorf("failed to persist profile: %w", err)
	}
	return nil
}

// BeginEdit puts one item into the Editing state, replacing any previous edit target.
func (s *Store) BeginEdit(kind types.ListKind, index int) error {
	items := s.data.List(kind)
	if index < 0 || index >= len(items) {
		return &ItemNotFoundError{Kind: kind, Index: index}
	}
	s.editing = &EditTarget{Kind: kind, Index: index, Draft: items[index]}
	return nil
}

// CommitEdit trims value and, if it is not empty, stores it at kind[index], persists the
// whole profile, and returns every item to Display. An empty value leaves the data and
// storage untouched and keeps the item in Editing.
func (s *Store) CommitEdit(ctx context.Context, kind types.ListKind, index int, value string) error {
	items := s.data.List(kind)
	if index < 0 || index >= len(items) {
		return &ItemNotFoundError{Kind: kind, Index: index}
	}

	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		s.editing = &EditTarget{Kind: kind, Index: index, Draft: value}
		if s.metrics != nil {
			s.metrics.IncrementValidationFailure("list_edit")
		}
		return &ValidationError{Kind: kind, Index: index, Message: EmptyValueMessage}
	}

	previous := items[index]
	items[index] = trimmed
	if err := s.Persist(ctx); err != nil {
		items[index] = previous
		return err
	}

	s.editing = nil
	if s.metrics != nil {
		s.metrics.IncrementEdit(string(kind))
	}
	return nil
}

// CancelEdit returns every item to Display without touching the data.
func (s *Store) CancelEdit() {
	s.editing = nil
}

// Reset clears the stored profile and loads the defaults again. Once storage is cleared the
// in-memory lists are emptied too, and the fetch runs detached from ctx so a disconnecting
// client cannot leave the old edits on screen.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.storage.Remove(ctx, storage.ProfileDataKey); err != nil {
		return fmt.Errorf("failed to clear stored profile: %w", err)
	}
	s.replace(types.ProfileData{})
	if s.metrics != nil {
		s.metrics.IncrementReset()
	}
	return s.Init(context.WithoutCancel(ctx))
}

// CheckRevision fails with StaleEditError when rev is not the current revision.
func (s *Store) CheckRevision(rev uint64) error {
	if rev != s.revision {
		return &StaleEditError{Expected: s.revision, Got: rev}
	}
	return nil
}

// Revision changes every time the whole dataset is replaced.
func (s *Store) Revision() uint64 {
	return s.revision
}

// Editing returns the current edit target, if any.
func (s *Store) Editing() (EditTarget, bool) {
	if s.editing == nil {
		return EditTarget{}, false
	}
	return *s.editing, true
}

// Snapshot returns a deep copy of the current data.
func (s *Store) Snapshot() types.ProfileData {
	return s.data.Clone()
}

func (s *Store) replace(data types.ProfileData) {
	s.data = data.Clone()
	s.revision++
	s.editing = nil
}

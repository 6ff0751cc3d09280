package profile

import (
	"fmt"

	"github.com/jonathan/profile-editor/internal/types"
)

// EmptyValueMessage is shown when a list item is saved blank.
const EmptyValueMessage = "The value cannot be empty!"

// ValidationError indicates an edit was rejected and nothing was written
type ValidationError struct {
	Kind    types.ListKind
	Index   int
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s[%d] - %s", e.Kind, e.Index, e.Message)
}

// ItemNotFoundError indicates an unknown list or an index outside it
type ItemNotFoundError struct {
	Kind  types.ListKind
	Index int
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("item not found: %s[%d]", e.Kind, e.Index)
}

// StaleEditError indicates the edit was started against a profile that has since been replaced
type StaleEditError struct {
	Expected uint64
	Got      uint64
}

func (e *StaleEditError) Error() string {
	return fmt.Sprintf("stale edit: profile revision is %d, edit was made against %d", e.Expected, e.Got)
}

// StorageReadError indicates the stored profile could not be read. Unlike a missing or
// malformed value it says nothing about what is stored, so nothing may be written over it.
type StorageReadError struct {
	Err error
}

func (e *StorageReadError) Error() string {
	return fmt.Sprintf("failed to read stored profile: %v", e.Err)
}

func (e *StorageReadError) Unwrap() error {
	return e.Err
}

// Package fields implements the prompt-based editors for the single-value CV attributes
// (birth date, phone, email, address, languages).
//
// An edit is a modal request: Begin returns the prompt pre-filled with the current text and
// Commit applies the answer, or nothing when the prompt was cancelled. Values are display
// state only; they are neither read from nor written to browser storage.
package fields

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jonathan/profile-editor/internal/types"
)

// Prompt is the input request shown for a field.
type Prompt struct {
	Field   types.StaticField
	Label   string
	Current string
}

// Editors holds the current display values.
type Editors struct {
	values types.StaticFields
}

// New returns editors showing the default values.
func New() *Editors {
	return &Editors{values: types.DefaultStaticFields()}
}

// Begin returns the prompt for a field.
func (e *Editors) Begin(field types.StaticField) (Prompt, error) {
	current, err := e.Text(field)
	if err != nil {
		return Prompt{}, err
	}
	return Prompt{Field: field, Label: field.Label(), Current: current}, nil
}

// Commit applies an answer. When confirmed is false the prompt was cancelled and nothing
// changes. Languages are split on commas with each entry trimmed.
func (e *Editors) Commit(field types.StaticField, value string, confirmed bool) error {
	if _, err := types.ParseStaticField(string(field)); err != nil {
		return err
	}
	if !confirmed {
		return nil
	}

	switch field {
	case types.FieldBirthDate:
		e.values.BirthDate = value
	case types.FieldPhone:
		e.values.Phone = value
	case types.FieldEmail:
		e.values.Email = value
	case types.FieldAddress:
		e.values.Address = value
	case types.FieldLanguages:
		e.values.Languages = SplitLanguages(value)
	}
	return nil
}

// Text returns the field's display text; languages are joined with ", ".
func (e *Editors) Text(field types.StaticField) (string, error) {
	switch field {
	case types.FieldBirthDate:
		return e.values.BirthDate, nil
	case types.FieldPhone:
		return e.values.Phone, nil
	case types.FieldEmail:
		return e.values.Email, nil
	case types.FieldAddress:
		return e.values.Address, nil
	case types.FieldLanguages:
		return strings.Join(e.values.Languages, ", "), nil
	default:
		return "", fmt.Errorf("unknown field: %q", field)
	}
}

// Values returns a copy of the current display values.
func (e *Editors) Values() types.StaticFields {
	v := e.values
	v.Languages = slices.Clone(e.values.Languages)
	return v
}

// SplitLanguages splits a comma separated list, trimming each entry.
func SplitLanguages(value string) []string {
	parts := strings.Split(value, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

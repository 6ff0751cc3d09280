package types

import (
	"fmt"
	"slices"
)

// StaticField names one of the single-value CV attributes edited through a prompt.
type StaticField string

const (
	FieldBirthDate StaticField = "birth_date"
	FieldPhone     StaticField = "phone"
	FieldEmail     StaticField = "email"
	FieldAddress   StaticField = "address"
	FieldLanguages StaticField = "languages"
)

// StaticFieldNames returns the fields in page order.
func StaticFieldNames() []StaticField {
	return []StaticField{FieldBirthDate, FieldPhone, FieldEmail, FieldAddress, FieldLanguages}
}

// ParseStaticField converts a path segment into a StaticField.
func ParseStaticField(s string) (StaticField, error) {
	f := StaticField(s)
	if slices.Contains(StaticFieldNames(), f) {
		return f, nil
	}
	return "", fmt.Errorf("unknown field: %q", s)
}

// Title is the heading shown next to the value.
func (f StaticField) Title() string {
	if f == FieldLanguages {
		return "Languages"
	}
	return f.Label()
}

// Label is the text shown in the prompt.
func (f StaticField) Label() string {
	switch f {
	case FieldBirthDate:
		return "Birth date"
	case FieldPhone:
		return "Phone"
	case FieldEmail:
		return "Email"
	case FieldAddress:
		return "Address"
	case FieldLanguages:
		return "Languages (comma separated)"
	default:
		return string(f)
	}
}

// StaticFields holds the display values of the prompt-edited attributes.
type StaticFields struct {
	BirthDate string   `json:"birth_date"`
	Phone     string   `json:"phone"`
	Email     string   `json:"email"`
	Address   string   `json:"address"`
	Languages []string `json:"languages"`
}

// DefaultStaticFields returns the values the page starts with.
func DefaultStaticFields() StaticFields {
	return StaticFields{
		BirthDate: "31.08.2007",
		Phone:     "099 000 00 00",
		Email:     "profile@example.com",
		Address:   "Baku, Nizami district",
		Languages: []string{"English - Pre-intermediate", "Turkish - Very good", "Azerbaijani - Very good"},
	}
}

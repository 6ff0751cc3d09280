package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateProfileData(t *testing.T) {
	tests := []struct {
		name      string
		document  string
		wantError bool
	}{
		{
			name:     "valid",
			document: `{"education":["a","b"],"experience":["c"],"skills":["d","e"]}`,
		},
		{
			name:     "empty lists",
			document: `{"education":[],"experience":[],"skills":[]}`,
		},
		{
			name:      "missing list",
			document:  `{"education":[],"skills":[]}`,
			wantError: true,
		},
		{
			name:      "non-string item",
			document:  `{"education":[1],"experience":[],"skills":[]}`,
			wantError: true,
		},
		{
			name:      "list is a string",
			document:  `{"education":"a","experience":[],"skills":[]}`,
			wantError: true,
		},
		{
			name:      "not an object",
			document:  `[]`,
			wantError: true,
		},
		{
			name:      "null",
			document:  `null`,
			wantError: true,
		},
		{
			name:      "malformed JSON",
			document:  `{ invalid json }`,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProfileData([]byte(tt.document))
			if !tt.wantError {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			validationErr, ok := err.(*ValidationError)
			require.True(t, ok, "error should be ValidationError type, got %T", err)
			assert.NotEmpty(t, validationErr.Errors)
		})
	}
}

func TestValidateContactFormData(t *testing.T) {
	assert.NoError(t, ValidateContactFormData([]byte(
		`{"name":"A","email":"a@b.com","date":"2024-01-01","description":"x"}`)))

	err := ValidateContactFormData([]byte(
		`{"name":"","email":"not-an-email","date":"2024-01-01","description":"x"}`))
	require.Error(t, err)
	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Len(t, validationErr.Errors, 2)
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("missing.schema.json", []byte(`{}`))
	require.Error(t, err)

	loadErr, ok := err.(*SchemaLoadError)
	require.True(t, ok)
	assert.Contains(t, loadErr.Error(), "schema not found")
	assert.NotNil(t, loadErr.Unwrap())
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type":"object","required":["name"],"properties":{"name":{"type":"string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"name":"x"}`))

	err := ValidateJSONString(schema, `{}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{
		{Field: "education", Message: "Invalid type"},
		{Field: "(root)", Message: "skills is required"},
	}}
	assert.Equal(t, "validation failed:\n  1. education: Invalid type\n  2. (root): skills is required\n", err.Error())
}

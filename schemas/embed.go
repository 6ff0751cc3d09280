// Package schemas embeds the JSON Schema files describing the stored browser data.
package schemas

import "embed"

// FS holds every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS

// Schema file names.
const (
	ProfileData     = "profile_data.schema.json"
	ContactFormData = "contact_form_data.schema.json"
)

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jonathan/profile-editor/internal/schemas"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a stored value against its JSON schema",
	Long:  "Validates a profileData or contactFormData JSON document, as kept in session storage, against the embedded schema.",
	RunE:  runValidate,
}

var (
	validateSchema string
	validateJSON   string
)

func init() {
	validateCmd.Flags().StringVar(&validateSchema, "schema", "", "Schema to validate against: profile or contact (required)")
	validateCmd.Flags().StringVar(&validateJSON, "json", "", "Path to the JSON document (required)")

	if err := validateCmd.MarkFlagRequired("schema"); err != nil {
		panic(fmt.Sprintf("failed to mark schema flag as required: %v", err))
	}
	if err := validateCmd.MarkFlagRequired("json"); err != nil {
		panic(fmt.Sprintf("failed to mark json flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	document, err := os.ReadFile(validateJSON)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	return validateDocument(validateSchema, document, cmd.OutOrStdout())
}

func validateDocument(schema string, document []byte, w io.Writer) error {
	var validate func([]byte) error
	switch schema {
	case "profile":
		validate = schemas.ValidateProfileData
	case "contact":
		validate = schemas.ValidateContactFormData
	default:
		return fmt.Errorf("unknown schema %q (want profile or contact)", schema)
	}

	if err := validate(document); err != nil {
		return err
	}

	fmt.Fprintln(w, "Validation passed")
	return nil
}

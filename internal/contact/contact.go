// Package contact implements the contact form: validating a submission, storing it as the
// current record, and reading it back.
package contact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/profile-editor/internal/metrics"
	"github.com/jonathan/profile-editor/internal/schemas"
	"github.com/jonathan/profile-editor/internal/storage"
	"github.com/jonathan/profile-editor/internal/types"
)

// Messages shown inline under the form.
const (
	MissingFieldsMessage = "Please fill in all fields."
	InvalidEmailMessage  = "Email is not in a valid format."
)

// Reason classifies a rejected submission.
type Reason string

const (
	MissingFields Reason = "missing_fields"
	InvalidEmail  Reason = "invalid_email"
)

// ValidationError indicates a submission was rejected and nothing was stored
type ValidationError struct {
	Reason  Reason
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Reason, e.Message)
}

// Service validates and stores contact submissions for one browser.
type Service struct {
	storage   storage.Store
	validator *validator.Validate
	metrics   *metrics.Metrics
}

// NewService creates a Service writing to st. m may be nil.
func NewService(st storage.Store, m *metrics.Metrics) *Service {
	return &Service{
		storage:   st,
		validator: types.NewContactValidator(),
		metrics:   m,
	}
}

// Submit trims and validates the fields. Missing fields are reported before a bad email.
// On success the record replaces any previously stored one and is returned.
func (s *Service) Submit(ctx context.Context, fields types.ContactRecord) (types.ContactRecord, error) {
	record := fields.Trimmed()

	if err := s.validate(&record); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			s.count(string(verr.Reason))
		}
		return types.ContactRecord{}, err
	}

	encoded, err := json.Marshal(record)
	if err != nil {
		return types.ContactRecord{}, fmt.Errorf("failed to marshal contact record: %w", err)
	}
	if err := s.storage.Set(ctx, storage.ContactFormDataKey, string(encoded)); err != nil {
		return types.ContactRecord{}, fmt.Errorf("failed to store contact record: %w", err)
	}

	s.count("saved")
	return record, nil
}

// Load returns the stored record, or nil when there is none or it cannot be read.
func (s *Service) Load(ctx context.Context) (*types.ContactRecord, error) {
	raw, ok, err := s.storage.Get(ctx, storage.ContactFormDataKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	if err := schemas.ValidateContactFormData([]byte(raw)); err != nil {
		log.Printf("[contact] stored contact record is unreadable, ignoring it: %v", err)
		return nil, nil
	}

	var record types.ContactRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		log.Printf("[contact] stored contact record is unreadable, ignoring it: %v", err)
		return nil, nil
	}
	return &record, nil
}

func (s *Service) validate(record *types.ContactRecord) error {
	err := s.validator.Struct(record)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("failed to validate contact record: %w", err)
	}

	for _, fe := range validationErrors {
		if fe.Tag() == "required" {
			if s.metrics != nil {
				s.metrics.IncrementValidationFailure("contact")
			}
			return &ValidationError{Reason: MissingFields, Message: MissingFieldsMessage}
		}
	}
	if s.metrics != nil {
		s.metrics.IncrementValidationFailure("contact")
	}
	return &ValidationError{Reason: InvalidEmail, Message: InvalidEmailMessage}
}

func (s *Service) count(outcome string) {
	if s.metrics != nil {
		s.metrics.IncrementContact(outcome)
	}
}

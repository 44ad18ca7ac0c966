package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	apperrors "estate-client/internal/common/errors"

	"github.com/xeipuuv/gojsonschema"
)

// Form names with a registered schema.
const (
	FormSignup        = "signup"
	FormLogin         = "login"
	FormProfile       = "profile"
	FormContact       = "contact"
	FormListing       = "listing"
	FormBooking       = "booking"
	FormNotification  = "notification"
	FormBookingStatus = "bookingStatus"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Err converts a failed result into a VALIDATION_FAILED error. message is
// the user-facing text.
func (r *ValidationResult) Err(message string) error {
	if r == nil || r.Valid {
		return nil
	}
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, e.Field+": "+e.Message)
	}
	return apperrors.NewFieldValidationError(message, strings.Join(parts, "; "))
}

var formSchemas = map[string]string{
	FormSignup: `{
		"type": "object",
		"required": ["username", "email", "password"],
		"properties": {
			"username": {"type": "string", "minLength": 1},
			"email": {"type": "string", "minLength": 1, "format": "email"},
			"password": {"type": "string", "minLength": 1}
		}
	}`,
	FormLogin: `{
		"type": "object",
		"required": ["email", "password"],
		"properties": {
			"email": {"type": "string", "minLength": 1},
			"password": {"type": "string", "minLength": 1}
		}
	}`,
	FormProfile: `{
		"type": "object",
		"properties": {
			"username": {"type": "string"},
			"email": {"type": "string", "pattern": "^$|^[^@\\s]+@[^@\\s]+\\.[^@\\s]+$"},
			"avatar": {"type": "string"},
			"password": {"type": "string"}
		}
	}`,
	FormContact: `{
		"type": "object",
		"required": ["name", "email", "contactNumber", "subject", "message"],
		"properties": {
			"name": {"type": "string", "minLength": 1},
			"email": {"type": "string", "minLength": 1, "format": "email"},
			"contactNumber": {"type": "string", "minLength": 1},
			"subject": {"type": "string", "minLength": 1},
			"message": {"type": "string", "minLength": 1},
			"listingId": {"type": "string"}
		}
	}`,
	FormListing: `{
		"type": "object",
		"required": ["name", "description", "address", "regularPrice", "beds", "baths", "type"],
		"properties": {
			"name": {"type": "string", "minLength": 1, "maxLength": 62},
			"description": {"type": "string", "minLength": 1},
			"address": {"type": "string", "minLength": 1},
			"regularPrice": {"type": "number", "minimum": 1},
			"discountedPrice": {"type": "number", "minimum": 0},
			"beds": {"type": "integer", "minimum": 1},
			"baths": {"type": "integer", "minimum": 1},
			"type": {"type": "string", "enum": ["rent", "sell"]},
			"images": {"type": ["array", "null"], "items": {"type": "string"}, "maxItems": 6}
		}
	}`,
	FormBooking: `{
		"type": "object",
		"required": ["listingId", "scheduledAt"],
		"properties": {
			"listingId": {"type": "string", "minLength": 1},
			"scheduledAt": {"type": "string", "minLength": 1},
			"note": {"type": "string"}
		}
	}`,
	FormBookingStatus: `{
		"type": "object",
		"required": ["status"],
		"properties": {
			"status": {"type": "string", "enum": ["pending", "confirmed", "cancelled"]}
		}
	}`,
	FormNotification: `{
		"type": "object",
		"required": ["type", "title", "message"],
		"properties": {
			"type": {"type": "string", "enum": ["success", "warning", "error", "booking", "listing", "info"]},
			"title": {"type": "string", "minLength": 1},
			"message": {"type": "string", "minLength": 1}
		}
	}`,
}

var (
	compileOnce sync.Once
	compiled    map[string]*gojsonschema.Schema
	compileErr  error
)

func schemas() (map[string]*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled = make(map[string]*gojsonschema.Schema, len(formSchemas))
		for name, src := range formSchemas {
			s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
			if err != nil {
				compileErr = fmt.Errorf("compile %s schema: %w", name, err)
				return
			}
			compiled[name] = s
		}
	})
	return compiled, compileErr
}

// ValidateForm checks a request body (any JSON-marshalable value) against
// the named form schema.
func ValidateForm(form string, body interface{}) (*ValidationResult, error) {
	all, err := schemas()
	if err != nil {
		return nil, err
	}
	s, ok := all[form]
	if !ok {
		return nil, fmt.Errorf("no schema for form %q", form)
	}

	result, err := s.Validate(gojsonschema.NewGoLoader(body))
	if err != nil {
		return nil, fmt.Errorf("validate %s: %w", form, err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, e := range result.Errors() {
		field := e.Field()
		if e.Type() == "required" {
			if p, ok := e.Details()["property"].(string); ok {
				field = p
			}
		}
		out.Errors = append(out.Errors, ValidationError{
			Field:   field,
			Message: e.Description(),
			Code:    strings.ToUpper(e.Type()),
		})
	}
	sort.Slice(out.Errors, func(i, j int) bool { return out.Errors[i].Field < out.Errors[j].Field })
	return out, nil
}

// Check validates and returns a user-facing error, or nil.
func Check(form string, body interface{}, message string) error {
	res, err := ValidateForm(form, body)
	if err != nil {
		return err
	}
	return res.Err(message)
}

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9\s\-()]{5,19}$`)
)

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(strings.TrimSpace(phone))
}

// CheckEmail rejects a malformed address. The failing field is kept in the
// error metadata.
func CheckEmail(field, email string) error {
	if ValidateEmail(email) {
		return nil
	}
	return apperrors.NewFieldValidationError("Please enter a valid email", field+": invalid email").
		WithMetadata("field", field)
}

func CheckPhone(field, phone string) error {
	if ValidatePhone(phone) {
		return nil
	}
	return apperrors.NewFieldValidationError("Please enter a valid phone number", field+": invalid phone number").
		WithMetadata("field", field)
}

// ConfirmPassword rejects mismatched confirmations.
func ConfirmPassword(password, confirm string) error {
	if password != confirm {
		return apperrors.NewPasswordMismatchError()
	}
	return nil
}

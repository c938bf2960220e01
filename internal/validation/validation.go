// Package validation schema-checks and normalizes inbound auth payloads.
// Validation is a pure transform-or-reject step; it performs no I/O.
package validation

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// dateOnly is the primary accepted date-of-birth layout.
const dateOnly = "2006-01-02"

// FieldError describes a single payload violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error aggregates all violations found in a payload.
type Error struct {
	Fields []FieldError
}

// Error implements the error interface.
func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// RegisterInput is the raw registration payload as decoded from JSON.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	DOB      string `json:"dob" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

// LoginInput is the raw login payload as decoded from JSON.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterPayload is a normalized, typed registration payload.
type RegisterPayload struct {
	Name        string
	DateOfBirth time.Time
	Email       string
	Password    string
}

// LoginPayload is a normalized, typed login payload.
type LoginPayload struct {
	Email    string
	Password string
}

// Validator validates and normalizes auth payloads.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator with JSON field names in error reports.
func New() *Validator {
	v := validator.New()

	// Report violations under the JSON field name, not the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// ValidateRegister normalizes and validates a registration payload.
// Returns *Error listing every violation when the payload is rejected.
func (v *Validator) ValidateRegister(in RegisterInput) (*RegisterPayload, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)

	fields := v.structErrors(in)

	var dob time.Time
	if in.DOB != "" {
		parsed, ok := parseDOB(in.DOB)
		if !ok || !parsed.Before(time.Now()) {
			fields = append(fields, FieldError{
				Field:   "dob",
				Message: "Date of birth must be a valid date in the past",
			})
		} else {
			dob = parsed
		}
	}

	if len(fields) > 0 {
		return nil, &Error{Fields: fields}
	}

	return &RegisterPayload{
		Name:        in.Name,
		DateOfBirth: dob,
		Email:       in.Email,
		Password:    in.Password,
	}, nil
}

// ValidateLogin normalizes and validates a login payload.
func (v *Validator) ValidateLogin(in LoginInput) (*LoginPayload, error) {
	in.Email = normalizeEmail(in.Email)

	if fields := v.structErrors(in); len(fields) > 0 {
		return nil, &Error{Fields: fields}
	}

	return &LoginPayload{
		Email:    in.Email,
		Password: in.Password,
	}, nil
}

// structErrors runs struct tag validation and converts violations
// into field errors with user-facing messages.
func (v *Validator) structErrors(in any) []FieldError {
	err := v.validate.Struct(in)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "", Message: "invalid payload"}}
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return fields
}

// fieldMessage maps a validator violation to the message shown to clients.
func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "name":
		switch fe.Tag() {
		case "required":
			return "Name is required"
		case "min":
			return "Name must be at least 2 characters"
		case "max":
			return "Name must not exceed 100 characters"
		}
	case "dob":
		return "Date of birth is required"
	case "email":
		return "Please provide a valid email address"
	case "password":
		switch fe.Tag() {
		case "required":
			return "Password is required"
		case "min":
			return "Password must be at least 6 characters"
		case "max":
			return "Password must not exceed 100 characters"
		}
	}
	return "Invalid value"
}

// normalizeEmail trims whitespace and lowercases the address.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// parseDOB parses a date of birth in date-only or RFC3339 form.
func parseDOB(s string) (time.Time, bool) {
	if t, err := time.Parse(dateOnly, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

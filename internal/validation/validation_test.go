package validation

import (
	"errors"
	"testing"
	"time"
)

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()

	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}

	got := make(map[string]string, len(verr.Fields))
	for _, f := range verr.Fields {
		got[f.Field] = f.Message
	}
	return got
}

func TestValidateRegister_Valid(t *testing.T) {
	t.Parallel()

	v := New()

	payload, err := v.ValidateRegister(RegisterInput{
		Name:     "  Ann Lee  ",
		DOB:      "1990-01-15",
		Email:    " Ann@Example.Com ",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if payload.Name != "Ann Lee" {
		t.Errorf("expected trimmed name, got %q", payload.Name)
	}
	if payload.Email != "ann@example.com" {
		t.Errorf("expected normalized email, got %q", payload.Email)
	}

	want := time.Date(1990, time.January, 15, 0, 0, 0, 0, time.UTC)
	if !payload.DateOfBirth.Equal(want) {
		t.Errorf("expected dob %s, got %s", want, payload.DateOfBirth)
	}
}

func TestValidateRegister_Violations(t *testing.T) {
	t.Parallel()

	v := New()
	longName := make([]byte, 101)
	for i := range longName {
		longName[i] = 'a'
	}

	tests := []struct {
		name    string
		input   RegisterInput
		field   string
		message string
	}{
		{
			name:    "short name",
			input:   RegisterInput{Name: "A", DOB: "1990-01-15", Email: "a@b.com", Password: "secret1"},
			field:   "name",
			message: "Name must be at least 2 characters",
		},
		{
			name:    "long name",
			input:   RegisterInput{Name: string(longName), DOB: "1990-01-15", Email: "a@b.com", Password: "secret1"},
			field:   "name",
			message: "Name must not exceed 100 characters",
		},
		{
			name:    "whitespace-only name",
			input:   RegisterInput{Name: "   ", DOB: "1990-01-15", Email: "a@b.com", Password: "secret1"},
			field:   "name",
			message: "Name is required",
		},
		{
			name:    "unparseable dob",
			input:   RegisterInput{Name: "Ann Lee", DOB: "not-a-date", Email: "a@b.com", Password: "secret1"},
			field:   "dob",
			message: "Date of birth must be a valid date in the past",
		},
		{
			name:    "future dob",
			input:   RegisterInput{Name: "Ann Lee", DOB: time.Now().AddDate(1, 0, 0).Format("2006-01-02"), Email: "a@b.com", Password: "secret1"},
			field:   "dob",
			message: "Date of birth must be a valid date in the past",
		},
		{
			name:    "missing dob",
			input:   RegisterInput{Name: "Ann Lee", Email: "a@b.com", Password: "secret1"},
			field:   "dob",
			message: "Date of birth is required",
		},
		{
			name:    "bad email",
			input:   RegisterInput{Name: "Ann Lee", DOB: "1990-01-15", Email: "not-an-email", Password: "secret1"},
			field:   "email",
			message: "Please provide a valid email address",
		},
		{
			name:    "short password",
			input:   RegisterInput{Name: "Ann Lee", DOB: "1990-01-15", Email: "a@b.com", Password: "short"},
			field:   "password",
			message: "Password must be at least 6 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.ValidateRegister(tt.input)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}

			got := fieldErrors(t, err)
			if got[tt.field] != tt.message {
				t.Errorf("expected %q error %q, got %q", tt.field, tt.message, got[tt.field])
			}
		})
	}
}

func TestValidateRegister_CollectsAllViolations(t *testing.T) {
	t.Parallel()

	v := New()

	_, err := v.ValidateRegister(RegisterInput{
		Name:     "A",
		DOB:      "not-a-date",
		Email:    "bad",
		Password: "x",
	})
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}

	got := fieldErrors(t, err)
	for _, field := range []string{"name", "dob", "email", "password"} {
		if got[field] == "" {
			t.Errorf("expected violation for field %q", field)
		}
	}
}

func TestValidateLogin(t *testing.T) {
	t.Parallel()

	v := New()

	payload, err := v.ValidateLogin(LoginInput{
		Email:    " Ann@Example.Com ",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if payload.Email != "ann@example.com" {
		t.Errorf("expected normalized email, got %q", payload.Email)
	}

	_, err = v.ValidateLogin(LoginInput{Email: "ann@example.com"})
	got := fieldErrors(t, err)
	if got["password"] != "Password is required" {
		t.Errorf("expected password required error, got %q", got["password"])
	}

	// Login has no password length ceiling
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'p'
	}
	if _, err := v.ValidateLogin(LoginInput{Email: "ann@example.com", Password: string(long)}); err != nil {
		t.Errorf("expected long login password to be accepted, got %v", err)
	}
}
